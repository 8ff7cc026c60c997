package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID             int             `json:"id" db:"id"`
	UserID         int             `json:"user_id" db:"user_id"`
	CategoryID     *int            `json:"category_id" db:"category_id"` // nil = общий бюджет по всем категориям
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Month          *int            `json:"month" db:"month"` // nil вместе с Year = бессрочный бюджет
	Year           *int            `json:"year" db:"year"`
	AlertThreshold int             `json:"alert_threshold" db:"alert_threshold"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	LastAlertSent  *time.Time      `json:"last_alert_sent" db:"last_alert_sent"`
}

type BudgetStatus struct {
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   int             `json:"percentage"`
}
