package models

import "time"

type AlertType string

const (
	AlertWarning  AlertType = "WARNING"
	AlertExceeded AlertType = "EXCEEDED"
)

type AlertChannel string

const (
	ChannelEmail    AlertChannel = "EMAIL"
	ChannelTelegram AlertChannel = "TELEGRAM"
	ChannelBoth     AlertChannel = "BOTH"
)

// BudgetAlert — журнал отправленных уведомлений, записи не изменяются.
type BudgetAlert struct {
	ID        int          `json:"id" db:"id"`
	BudgetID  int          `json:"budget_id" db:"budget_id"`
	AlertType AlertType    `json:"alert_type" db:"alert_type"`
	Channel   AlertChannel `json:"channel" db:"channel"`
	SentAt    time.Time    `json:"sent_at" db:"sent_at"`
}
