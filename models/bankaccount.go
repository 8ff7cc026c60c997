package models

import "github.com/shopspring/decimal"

type BankAccount struct {
	ID        int             `json:"id" db:"id"`
	UserID    int             `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Currency  string          `json:"currency" db:"currency"`
	Balance   decimal.Decimal `json:"balance" db:"balance"` // Кэшируемое поле, меняется только через пересчёт баланса
	IsActive  bool            `json:"is_active" db:"is_active"`
	IsPrimary bool            `json:"is_primary" db:"is_primary"`
}
