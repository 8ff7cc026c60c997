package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func CreateTransaction(ctx context.Context, db DBTX, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, bank_account_id, category_id, amount, currency, type, status, is_active, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		transaction.UserID,
		transaction.BankAccountID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Currency,
		transaction.Type,
		transaction.Status,
		transaction.IsActive,
		transaction.Description,
		transaction.Date).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}
	return nil
}

func GetTransactionByID(ctx context.Context, db DBTX, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, category_id, amount, currency, type, status, is_active, description, transaction_date
		FROM transactions
		WHERE id = $1`

	transaction := &models.Transaction{}
	err := db.QueryRow(ctx, query, transactionID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.BankAccountID,
		&transaction.CategoryID,
		&transaction.Amount,
		&transaction.Currency,
		&transaction.Type,
		&transaction.Status,
		&transaction.IsActive,
		&transaction.Description,
		&transaction.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена", transactionID)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}

	return transaction, nil
}

func UpdateTransaction(ctx context.Context, db DBTX, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET bank_account_id = $1, category_id = $2, amount = $3, currency = $4, type = $5, status = $6, description = $7, transaction_date = $8
		WHERE id = $9 AND is_active = TRUE`

	result, err := db.Exec(ctx, query,
		transaction.BankAccountID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Currency,
		transaction.Type,
		transaction.Status,
		transaction.Description,
		transaction.Date,
		transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transaction.ID)
	}
	return nil
}

// SoftDeleteTransaction помечает транзакцию неактивной, строки не удаляются.
func SoftDeleteTransaction(ctx context.Context, db DBTX, transactionID int) error {
	query := `
		UPDATE transactions
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE`

	result, err := db.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transactionID)
	}
	return nil
}

func ListTransactions(ctx context.Context, db DBTX, userID int, from, to *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, category_id, amount, currency, type, status, is_active, description, transaction_date
		FROM transactions
		WHERE user_id = $1 AND is_active = TRUE
		AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		AND ($3::timestamptz IS NULL OR transaction_date <= $3)
		ORDER BY transaction_date DESC`

	rows, err := db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка транзакций: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.BankAccountID, &t.CategoryID, &t.Amount, &t.Currency,
			&t.Type, &t.Status, &t.IsActive, &t.Description, &t.Date,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SpentInPeriod суммирует завершённые активные расходы пользователя за период.
// categoryID == nil — по всем категориям; from/to == nil — без ограничения по датам.
func SpentInPeriod(ctx context.Context, db DBTX, userID int, categoryID *int, from, to *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'EXPENSE' AND status = 'COMPLETED' AND is_active = TRUE
		AND ($2::int IS NULL OR category_id = $2)
		AND ($3::timestamptz IS NULL OR transaction_date >= $3)
		AND ($4::timestamptz IS NULL OR transaction_date <= $4)`

	var spent decimal.Decimal
	err := db.QueryRow(ctx, query, userID, categoryID, from, to).Scan(&spent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при подсчёте расходов за период: %v", err)
	}
	return spent, nil
}
