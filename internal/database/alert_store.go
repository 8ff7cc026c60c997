package database

import (
	"context"
	"time"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AlertStore адаптирует функции этого пакета к интерфейсу хранилища
// движка уведомлений (internal/alerts).
type AlertStore struct {
	Pool *pgxpool.Pool
}

func NewAlertStore(pool *pgxpool.Pool) *AlertStore {
	return &AlertStore{Pool: pool}
}

func (s *AlertStore) BudgetByID(ctx context.Context, budgetID int) (*models.Budget, error) {
	return GetBudgetByID(ctx, s.Pool, budgetID)
}

func (s *AlertStore) ActiveBudgets(ctx context.Context) ([]models.Budget, error) {
	return ListActiveBudgets(ctx, s.Pool)
}

func (s *AlertStore) ActiveBudgetsByUser(ctx context.Context, userID int) ([]models.Budget, error) {
	return ListActiveBudgetsByUser(ctx, s.Pool, userID)
}

func (s *AlertStore) SpentInPeriod(ctx context.Context, userID int, categoryID *int, from, to *time.Time) (decimal.Decimal, error) {
	return SpentInPeriod(ctx, s.Pool, userID, categoryID, from, to)
}

func (s *AlertStore) AlertSentOnDay(ctx context.Context, budgetID int, alertType models.AlertType, day time.Time) (bool, error) {
	return AlertSentOnDay(ctx, s.Pool, budgetID, alertType, day)
}

func (s *AlertStore) PreferenceByUser(ctx context.Context, userID int) (*models.UserPreference, error) {
	return GetUserPreference(ctx, s.Pool, userID)
}

func (s *AlertStore) RecordAlert(ctx context.Context, alert *models.BudgetAlert) error {
	return CreateBudgetAlert(ctx, s.Pool, alert)
}

func (s *AlertStore) MarkAlertSent(ctx context.Context, budgetID int, sentAt time.Time) error {
	return MarkBudgetAlertSent(ctx, s.Pool, budgetID, sentAt)
}
