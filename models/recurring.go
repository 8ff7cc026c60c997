package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "DAILY"
	FrequencyWeekly  RecurringFrequency = "WEEKLY"
	FrequencyMonthly RecurringFrequency = "MONTHLY"
)

type RecurringTransaction struct {
	ID            int                `json:"id" db:"id"`
	UserID        int                `json:"user_id" db:"user_id"`
	BankAccountID int                `json:"bank_account_id" db:"bank_account_id"`
	CategoryID    *int               `json:"category_id" db:"category_id"`
	Amount        decimal.Decimal    `json:"amount" db:"amount"`
	Currency      string             `json:"currency" db:"currency"`
	Type          TransactionType    `json:"type" db:"type"`
	Description   string             `json:"description" db:"description"`
	Frequency     RecurringFrequency `json:"frequency" db:"frequency"`
	NextRun       time.Time          `json:"next_run" db:"next_run"`
	IsActive      bool               `json:"is_active" db:"is_active"`
}
