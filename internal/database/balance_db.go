package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBTX покрывает и pgxpool.Pool, и pgx.Tx: пересчёт баланса обязан выполняться
// в той же транзакции БД, что и изменение строки transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type BalanceOperation string

const (
	BalanceCreate BalanceOperation = "create"
	BalanceUpdate BalanceOperation = "update"
	BalanceDelete BalanceOperation = "delete"
)

type AccountDelta struct {
	AccountID int
	Delta     decimal.Decimal
}

// Contribution возвращает вклад транзакции в баланс счёта.
// Учитываются только завершённые активные транзакции.
func Contribution(tx *models.Transaction) decimal.Decimal {
	if tx == nil || tx.Status != models.StatusCompleted || !tx.IsActive {
		return decimal.Zero
	}
	switch tx.Type {
	case models.TransactionIncome:
		return tx.Amount
	case models.TransactionExpense, models.TransactionInvestment, models.TransactionTransfer:
		// TRANSFER списывает только со счёта-источника, зачисления на счёт-получатель нет
		return tx.Amount.Neg()
	}
	return decimal.Zero
}

// BalanceDeltas считает инкременты балансов, вызванные одной операцией над транзакцией.
func BalanceDeltas(op BalanceOperation, newTx, oldTx *models.Transaction) ([]AccountDelta, error) {
	switch op {
	case BalanceCreate:
		if newTx == nil {
			return nil, fmt.Errorf("для операции create нужна новая транзакция")
		}
		return []AccountDelta{{AccountID: newTx.BankAccountID, Delta: Contribution(newTx)}}, nil

	case BalanceUpdate:
		if newTx == nil || oldTx == nil {
			return nil, fmt.Errorf("для операции update нужны старая и новая транзакции")
		}
		if oldTx.BankAccountID != newTx.BankAccountID {
			// Перенос между счетами: снимаем старый вклад, применяем новый
			return []AccountDelta{
				{AccountID: oldTx.BankAccountID, Delta: Contribution(oldTx).Neg()},
				{AccountID: newTx.BankAccountID, Delta: Contribution(newTx)},
			}, nil
		}
		return []AccountDelta{{AccountID: newTx.BankAccountID, Delta: Contribution(newTx).Sub(Contribution(oldTx))}}, nil

	case BalanceDelete:
		if oldTx == nil {
			return nil, fmt.Errorf("для операции delete нужен снимок транзакции до удаления")
		}
		return []AccountDelta{{AccountID: oldTx.BankAccountID, Delta: Contribution(oldTx).Neg()}}, nil
	}
	return nil, fmt.Errorf("неизвестная операция баланса: %s", op)
}

// ApplyBalanceChange применяет к счетам только дельту одной операции,
// без пересчёта всех транзакций. Каждое изменение — один атомарный инкремент.
func ApplyBalanceChange(ctx context.Context, db DBTX, op BalanceOperation, newTx, oldTx *models.Transaction) error {
	deltas, err := BalanceDeltas(op, newTx, oldTx)
	if err != nil {
		return err
	}

	query := `
		UPDATE bank_accounts
		SET balance = balance + $1
		WHERE id = $2`

	for _, d := range deltas {
		if d.Delta.IsZero() {
			continue
		}
		result, err := db.Exec(ctx, query, d.Delta, d.AccountID)
		if err != nil {
			return fmt.Errorf("ошибка обновления баланса счёта %d: %v", d.AccountID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("счёт с ID %d не найден", d.AccountID)
		}
	}
	return nil
}

// RecomputeBalance полностью пересчитывает баланс счёта по транзакциям.
// Используется для устранения расхождений; повторный вызов даёт тот же результат.
func RecomputeBalance(ctx context.Context, db DBTX, accountID int) (decimal.Decimal, error) {
	query := `
		UPDATE bank_accounts
		SET balance = (
			SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
			FROM transactions
			WHERE bank_account_id = $1 AND status = 'COMPLETED' AND is_active = TRUE
		)
		WHERE id = $1
		RETURNING balance`

	var balance decimal.Decimal
	err := db.QueryRow(ctx, query, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("счёт с ID %d не найден", accountID)
		}
		return decimal.Zero, fmt.Errorf("ошибка пересчёта баланса счёта %d: %v", accountID, err)
	}
	return balance, nil
}
