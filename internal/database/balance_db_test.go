package database_test

import (
	"testing"

	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/models"
	"github.com/shopspring/decimal"
)

func tx(txType models.TransactionType, status models.TransactionStatus, active bool, amount float64, accountID int) *models.Transaction {
	return &models.Transaction{
		BankAccountID: accountID,
		Amount:        decimal.NewFromFloat(amount),
		Type:          txType,
		Status:        status,
		IsActive:      active,
	}
}

func TestContribution(t *testing.T) {
	tests := []struct {
		name string
		tx   *models.Transaction
		want float64
	}{
		{"доход увеличивает баланс", tx(models.TransactionIncome, models.StatusCompleted, true, 500, 1), 500},
		{"расход уменьшает баланс", tx(models.TransactionExpense, models.StatusCompleted, true, 200, 1), -200},
		{"инвестиция уменьшает баланс", tx(models.TransactionInvestment, models.StatusCompleted, true, 300, 1), -300},
		{"перевод списывает со счёта-источника", tx(models.TransactionTransfer, models.StatusCompleted, true, 150, 1), -150},
		{"незавершённая транзакция не учитывается", tx(models.TransactionExpense, models.StatusPending, true, 999, 1), 0},
		{"неуспешная транзакция не учитывается", tx(models.TransactionIncome, models.StatusFailed, true, 999, 1), 0},
		{"удалённая транзакция не учитывается", tx(models.TransactionExpense, models.StatusCompleted, false, 999, 1), 0},
		{"nil не учитывается", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := database.Contribution(tc.tx)
			if !got.Equal(decimal.NewFromFloat(tc.want)) {
				t.Errorf("Contribution() = %s, ожидалось %v", got, tc.want)
			}
		})
	}
}

// applyDeltas применяет дельты к балансам в памяти, моделируя атомарные
// инкременты хранилища.
func applyDeltas(t *testing.T, balances map[int]decimal.Decimal, op database.BalanceOperation, newTx, oldTx *models.Transaction) {
	t.Helper()
	deltas, err := database.BalanceDeltas(op, newTx, oldTx)
	if err != nil {
		t.Fatalf("BalanceDeltas(%s): %v", op, err)
	}
	for _, d := range deltas {
		balances[d.AccountID] = balances[d.AccountID].Add(d.Delta)
	}
}

func TestBalanceLifecycle(t *testing.T) {
	// Счёт начинается с 1000: расход 200 -> 800, сумма меняется на 300 -> 700,
	// мягкое удаление возвращает 1000
	balances := map[int]decimal.Decimal{1: decimal.NewFromInt(1000)}

	created := tx(models.TransactionExpense, models.StatusCompleted, true, 200, 1)
	applyDeltas(t, balances, database.BalanceCreate, created, nil)
	if !balances[1].Equal(decimal.NewFromInt(800)) {
		t.Fatalf("после создания баланс = %s, ожидалось 800", balances[1])
	}

	updated := tx(models.TransactionExpense, models.StatusCompleted, true, 300, 1)
	applyDeltas(t, balances, database.BalanceUpdate, updated, created)
	if !balances[1].Equal(decimal.NewFromInt(700)) {
		t.Fatalf("после обновления баланс = %s, ожидалось 700", balances[1])
	}

	applyDeltas(t, balances, database.BalanceDelete, nil, updated)
	if !balances[1].Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("после удаления баланс = %s, ожидалось 1000", balances[1])
	}
}

func TestBalanceUpdateStatusChange(t *testing.T) {
	// Перевод транзакции из PENDING в COMPLETED применяет её вклад
	balances := map[int]decimal.Decimal{1: decimal.Zero}

	pending := tx(models.TransactionExpense, models.StatusPending, true, 400, 1)
	applyDeltas(t, balances, database.BalanceCreate, pending, nil)
	if !balances[1].IsZero() {
		t.Fatalf("незавершённая транзакция изменила баланс: %s", balances[1])
	}

	completed := tx(models.TransactionExpense, models.StatusCompleted, true, 400, 1)
	applyDeltas(t, balances, database.BalanceUpdate, completed, pending)
	if !balances[1].Equal(decimal.NewFromInt(-400)) {
		t.Fatalf("после завершения баланс = %s, ожидалось -400", balances[1])
	}
}

func TestBalanceMoveBetweenAccounts(t *testing.T) {
	// Перенос расхода между счетами сохраняет суммарный баланс системы
	balances := map[int]decimal.Decimal{1: decimal.NewFromInt(500), 2: decimal.NewFromInt(500)}

	oldTx := tx(models.TransactionExpense, models.StatusCompleted, true, 250, 1)
	applyDeltas(t, balances, database.BalanceCreate, oldTx, nil)

	totalBefore := balances[1].Add(balances[2])

	newTx := tx(models.TransactionExpense, models.StatusCompleted, true, 250, 2)
	applyDeltas(t, balances, database.BalanceUpdate, newTx, oldTx)

	if !balances[1].Equal(decimal.NewFromInt(500)) {
		t.Errorf("старый счёт = %s, ожидалось 500", balances[1])
	}
	if !balances[2].Equal(decimal.NewFromInt(250)) {
		t.Errorf("новый счёт = %s, ожидалось 250", balances[2])
	}
	if total := balances[1].Add(balances[2]); !total.Equal(totalBefore) {
		t.Errorf("суммарный баланс изменился: было %s, стало %s", totalBefore, total)
	}
}

func TestBalanceDeltasValidation(t *testing.T) {
	if _, err := database.BalanceDeltas(database.BalanceCreate, nil, nil); err == nil {
		t.Error("create без новой транзакции должен вернуть ошибку")
	}
	if _, err := database.BalanceDeltas(database.BalanceUpdate, tx(models.TransactionIncome, models.StatusCompleted, true, 1, 1), nil); err == nil {
		t.Error("update без старой транзакции должен вернуть ошибку")
	}
	if _, err := database.BalanceDeltas(database.BalanceDelete, nil, nil); err == nil {
		t.Error("delete без снимка должен вернуть ошибку")
	}
	if _, err := database.BalanceDeltas("merge", nil, nil); err == nil {
		t.Error("неизвестная операция должна вернуть ошибку")
	}
}
