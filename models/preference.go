package models

type UserPreference struct {
	ID                    int     `json:"id" db:"id"`
	UserID                int     `json:"user_id" db:"user_id"`
	Email                 string  `json:"email" db:"email"`
	EmailNotifications    bool    `json:"email_notifications" db:"email_notifications"`
	BudgetAlerts          bool    `json:"budget_alerts" db:"budget_alerts"`
	TelegramNotifications bool    `json:"telegram_notifications" db:"telegram_notifications"`
	TelegramChatID        *string `json:"telegram_chat_id" db:"telegram_chat_id"`
	BudgetAlertThreshold  int     `json:"budget_alert_threshold" db:"budget_alert_threshold"`
}
