package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
)

// GetUserPreference возвращает настройки уведомлений пользователя.
// Если строки ещё нет, возвращаются настройки по умолчанию без записи в БД.
func GetUserPreference(ctx context.Context, db DBTX, userID int) (*models.UserPreference, error) {
	query := `
		SELECT id, user_id, email, email_notifications, budget_alerts, telegram_notifications, telegram_chat_id, budget_alert_threshold
		FROM user_preferences
		WHERE user_id = $1`

	pref := &models.UserPreference{}
	err := db.QueryRow(ctx, query, userID).Scan(
		&pref.ID,
		&pref.UserID,
		&pref.Email,
		&pref.EmailNotifications,
		&pref.BudgetAlerts,
		&pref.TelegramNotifications,
		&pref.TelegramChatID,
		&pref.BudgetAlertThreshold,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Настройки для user_id=%d не найдены, используются значения по умолчанию", userID)
			return DefaultUserPreference(userID), nil
		}
		return nil, fmt.Errorf("ошибка при получении настроек пользователя: %v", err)
	}

	return pref, nil
}

func DefaultUserPreference(userID int) *models.UserPreference {
	return &models.UserPreference{
		UserID:                userID,
		EmailNotifications:    true,
		BudgetAlerts:          true,
		TelegramNotifications: false,
		BudgetAlertThreshold:  80,
	}
}

// UpsertUserPreference сохраняет настройки: обновляет существующую строку
// или создаёт новую, если её ещё не было.
func UpsertUserPreference(ctx context.Context, db DBTX, pref *models.UserPreference) error {
	updateQuery := `
		UPDATE user_preferences
		SET email = $1, email_notifications = $2, budget_alerts = $3, telegram_notifications = $4, telegram_chat_id = $5, budget_alert_threshold = $6
		WHERE user_id = $7`

	result, err := db.Exec(ctx, updateQuery,
		pref.Email,
		pref.EmailNotifications,
		pref.BudgetAlerts,
		pref.TelegramNotifications,
		pref.TelegramChatID,
		pref.BudgetAlertThreshold,
		pref.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления настроек пользователя: %v", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO user_preferences (user_id, email, email_notifications, budget_alerts, telegram_notifications, telegram_chat_id, budget_alert_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err = db.QueryRow(ctx, insertQuery,
		pref.UserID,
		pref.Email,
		pref.EmailNotifications,
		pref.BudgetAlerts,
		pref.TelegramNotifications,
		pref.TelegramChatID,
		pref.BudgetAlertThreshold).Scan(&pref.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания настроек пользователя: %v", err)
	}
	return nil
}
