package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome     TransactionType = "INCOME"
	TransactionExpense    TransactionType = "EXPENSE"
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionInvestment TransactionType = "INVESTMENT"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

type Transaction struct {
	ID            int               `json:"id" db:"id"`
	UserID        int               `json:"user_id" db:"user_id"`
	BankAccountID int               `json:"bank_account_id" db:"bank_account_id"`
	CategoryID    *int              `json:"category_id" db:"category_id"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Currency      string            `json:"currency" db:"currency"`
	Type          TransactionType   `json:"type" db:"type"`
	Status        TransactionStatus `json:"status" db:"status"`
	IsActive      bool              `json:"is_active" db:"is_active"`
	Description   string            `json:"description" db:"description"`
	Date          time.Time         `json:"date" db:"transaction_date"`
}
