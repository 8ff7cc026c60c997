package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateRecurringTransaction(ctx context.Context, db DBTX, recurring *models.RecurringTransaction) error {
	if recurring.NextRun.IsZero() {
		return fmt.Errorf("некорректная дата следующего запуска")
	}

	query := `
		INSERT INTO recurring_transactions (user_id, bank_account_id, category_id, amount, currency, type, description, frequency, next_run, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		recurring.UserID,
		recurring.BankAccountID,
		recurring.CategoryID,
		recurring.Amount,
		recurring.Currency,
		recurring.Type,
		recurring.Description,
		recurring.Frequency,
		recurring.NextRun,
		recurring.IsActive).Scan(&recurring.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении регулярной транзакции: %v", err)
	}
	return nil
}

func GetRecurringTransactionByID(ctx context.Context, db DBTX, recurringID int) (*models.RecurringTransaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, category_id, amount, currency, type, description, frequency, next_run, is_active
		FROM recurring_transactions
		WHERE id = $1`

	recurring := &models.RecurringTransaction{}
	err := db.QueryRow(ctx, query, recurringID).Scan(
		&recurring.ID,
		&recurring.UserID,
		&recurring.BankAccountID,
		&recurring.CategoryID,
		&recurring.Amount,
		&recurring.Currency,
		&recurring.Type,
		&recurring.Description,
		&recurring.Frequency,
		&recurring.NextRun,
		&recurring.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("регулярная транзакция с ID %d не найдена", recurringID)
		}
		return nil, fmt.Errorf("ошибка при получении регулярной транзакции: %v", err)
	}

	return recurring, nil
}

func ListDueRecurringTransactions(ctx context.Context, db DBTX, asOf time.Time) ([]models.RecurringTransaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, category_id, amount, currency, type, description, frequency, next_run, is_active
		FROM recurring_transactions
		WHERE is_active = TRUE AND next_run <= $1
		ORDER BY next_run`

	rows, err := db.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении регулярных транзакций: %v", err)
	}
	defer rows.Close()

	var due []models.RecurringTransaction
	for rows.Next() {
		var r models.RecurringTransaction
		if err := rows.Scan(&r.ID, &r.UserID, &r.BankAccountID, &r.CategoryID, &r.Amount, &r.Currency,
			&r.Type, &r.Description, &r.Frequency, &r.NextRun, &r.IsActive); err != nil {
			return nil, err
		}
		due = append(due, r)
	}
	return due, rows.Err()
}

func DeactivateRecurringTransaction(ctx context.Context, db DBTX, recurringID int) error {
	query := `
		UPDATE recurring_transactions
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE`

	result, err := db.Exec(ctx, query, recurringID)
	if err != nil {
		return fmt.Errorf("ошибка отключения регулярной транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("регулярная транзакция с ID %d не найдена", recurringID)
	}
	return nil
}

// NextRunAfter возвращает следующую дату запуска после current.
func NextRunAfter(frequency models.RecurringFrequency, current time.Time) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return current.AddDate(0, 1, 0)
	}
	return current.AddDate(0, 1, 0)
}

// ProcessDueRecurring создаёт реальные транзакции по наступившим регулярным.
// Каждая материализация выполняется в одной транзакции БД вместе с
// изменением баланса, как и создание транзакции через HTTP.
func ProcessDueRecurring(ctx context.Context, pool *pgxpool.Pool, asOf time.Time) (int, error) {
	due, err := ListDueRecurringTransactions(ctx, pool, asOf)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, r := range due {
		r := r
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			transaction := &models.Transaction{
				UserID:        r.UserID,
				BankAccountID: r.BankAccountID,
				CategoryID:    r.CategoryID,
				Amount:        r.Amount,
				Currency:      r.Currency,
				Type:          r.Type,
				Status:        models.StatusCompleted,
				IsActive:      true,
				Description:   r.Description,
				Date:          r.NextRun,
			}
			if err := CreateTransaction(ctx, tx, transaction); err != nil {
				return err
			}
			if err := ApplyBalanceChange(ctx, tx, BalanceCreate, transaction, nil); err != nil {
				return err
			}

			next := NextRunAfter(r.Frequency, r.NextRun)
			_, err := tx.Exec(ctx, `UPDATE recurring_transactions SET next_run = $1 WHERE id = $2`, next, r.ID)
			return err
		})
		if err != nil {
			// Ошибка одной регулярной транзакции не останавливает остальные
			log.Printf("Ошибка материализации регулярной транзакции ID %d: %v", r.ID, err)
			continue
		}
		processed++
	}
	return processed, nil
}
