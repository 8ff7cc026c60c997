package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
)

func CreateBudget(ctx context.Context, db DBTX, budget *models.Budget) error {
	exists, err := activeBudgetExists(ctx, db, budget.UserID, budget.CategoryID, budget.Month, budget.Year, 0)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("активный бюджет для этой категории и периода уже существует")
	}

	query := `
		INSERT INTO budgets (user_id, category_id, amount, month, year, alert_threshold, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err = db.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.Amount,
		budget.Month,
		budget.Year,
		budget.AlertThreshold,
		budget.IsActive).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %v", err)
	}
	return nil
}

func GetBudgetByID(ctx context.Context, db DBTX, budgetID int) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount, month, year, alert_threshold, is_active, last_alert_sent
		FROM budgets
		WHERE id = $1`

	budget := &models.Budget{}
	err := db.QueryRow(ctx, query, budgetID).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&budget.Amount,
		&budget.Month,
		&budget.Year,
		&budget.AlertThreshold,
		&budget.IsActive,
		&budget.LastAlertSent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d не найден", budgetID)
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}

	return budget, nil
}

func UpdateBudget(ctx context.Context, db DBTX, budget *models.Budget) error {
	exists, err := activeBudgetExists(ctx, db, budget.UserID, budget.CategoryID, budget.Month, budget.Year, budget.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("активный бюджет для этой категории и периода уже существует")
	}

	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, month = $3, year = $4, alert_threshold = $5, is_active = $6
		WHERE id = $7`

	result, err := db.Exec(ctx, query,
		budget.CategoryID,
		budget.Amount,
		budget.Month,
		budget.Year,
		budget.AlertThreshold,
		budget.IsActive,
		budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budget.ID)
	}
	return nil
}

func DeleteBudget(ctx context.Context, db DBTX, budgetID int) error {
	query := `
		UPDATE budgets
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE`

	result, err := db.Exec(ctx, query, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return nil
}

func ListActiveBudgets(ctx context.Context, db DBTX) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount, month, year, alert_threshold, is_active, last_alert_sent
		FROM budgets
		WHERE is_active = TRUE
		ORDER BY id`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении активных бюджетов: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Month, &b.Year,
			&b.AlertThreshold, &b.IsActive, &b.LastAlertSent); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func ListActiveBudgetsByUser(ctx context.Context, db DBTX, userID int) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount, month, year, alert_threshold, is_active, last_alert_sent
		FROM budgets
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY id`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджетов пользователя: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Month, &b.Year,
			&b.AlertThreshold, &b.IsActive, &b.LastAlertSent); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// MarkBudgetAlertSent фиксирует время последнего уведомления по бюджету.
// Поле меняется только из движка уведомлений.
func MarkBudgetAlertSent(ctx context.Context, db DBTX, budgetID int, sentAt time.Time) error {
	query := `
		UPDATE budgets
		SET last_alert_sent = $1
		WHERE id = $2`

	result, err := db.Exec(ctx, query, sentAt, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка отметки отправленного уведомления: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return nil
}

// Не более одного активного бюджета на (пользователь, категория, месяц, год).
func activeBudgetExists(ctx context.Context, db DBTX, userID int, categoryID, month, year *int, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND is_active = TRUE
			AND category_id IS NOT DISTINCT FROM $2
			AND month IS NOT DISTINCT FROM $3
			AND year IS NOT DISTINCT FROM $4
			AND id <> $5
		)`

	var exists bool
	err := db.QueryRow(ctx, query, userID, categoryID, month, year, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки уникальности бюджета: %v", err)
	}
	return exists, nil
}
