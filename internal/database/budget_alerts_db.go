package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fincontrol/finance-app/models"
)

// CreateBudgetAlert добавляет запись в журнал уведомлений. Записи никогда не обновляются.
func CreateBudgetAlert(ctx context.Context, db DBTX, alert *models.BudgetAlert) error {
	query := `
		INSERT INTO budget_alerts (budget_id, alert_type, channel, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		alert.BudgetID,
		alert.AlertType,
		alert.Channel,
		alert.SentAt).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("ошибка при записи уведомления в журнал: %v", err)
	}
	return nil
}

// AlertSentOnDay проверяет, было ли уведомление данного типа по бюджету
// в течение календарного дня day (граница — начало дня по локальному времени).
func AlertSentOnDay(ctx context.Context, db DBTX, budgetID int, alertType models.AlertType, day time.Time) (bool, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM budget_alerts
			WHERE budget_id = $1 AND alert_type = $2
			AND sent_at >= $3 AND sent_at < $4
		)`

	var exists bool
	err := db.QueryRow(ctx, query, budgetID, alertType, startOfDay, endOfDay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки журнала уведомлений: %v", err)
	}
	return exists, nil
}

func ListBudgetAlerts(ctx context.Context, db DBTX, budgetID int) ([]models.BudgetAlert, error) {
	query := `
		SELECT id, budget_id, alert_type, channel, sent_at
		FROM budget_alerts
		WHERE budget_id = $1
		ORDER BY sent_at DESC`

	rows, err := db.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении журнала уведомлений: %v", err)
	}
	defer rows.Close()

	var alerts []models.BudgetAlert
	for rows.Next() {
		var a models.BudgetAlert
		if err := rows.Scan(&a.ID, &a.BudgetID, &a.AlertType, &a.Channel, &a.SentAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
