package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fincontrol/finance-app/internal/notify"
	"github.com/fincontrol/finance-app/models"
	"github.com/shopspring/decimal"
)

// Store — доступ движка уведомлений к хранилищу. Реализуется пакетом database,
// в тестах подменяется фейком в памяти.
type Store interface {
	BudgetByID(ctx context.Context, budgetID int) (*models.Budget, error)
	ActiveBudgets(ctx context.Context) ([]models.Budget, error)
	ActiveBudgetsByUser(ctx context.Context, userID int) ([]models.Budget, error)
	SpentInPeriod(ctx context.Context, userID int, categoryID *int, from, to *time.Time) (decimal.Decimal, error)
	AlertSentOnDay(ctx context.Context, budgetID int, alertType models.AlertType, day time.Time) (bool, error)
	PreferenceByUser(ctx context.Context, userID int) (*models.UserPreference, error)
	RecordAlert(ctx context.Context, alert *models.BudgetAlert) error
	MarkAlertSent(ctx context.Context, budgetID int, sentAt time.Time) error
}

// Engine решает, пора ли отправлять уведомление по бюджету, соблюдает лимит
// «не чаще раза в день», рассылает по включённым каналам и пишет журнал.
type Engine struct {
	store    Store
	email    notify.Sink
	telegram notify.Sink
	now      func() time.Time
}

func NewEngine(store Store, email, telegram notify.Sink) *Engine {
	return &Engine{
		store:    store,
		email:    email,
		telegram: telegram,
		now:      time.Now,
	}
}

type CheckResult struct {
	Sent         bool                `json:"sent"`
	AlertType    models.AlertType    `json:"alert_type,omitempty"`
	Channel      models.AlertChannel `json:"channel,omitempty"`
	EmailSent    bool                `json:"email_sent"`
	TelegramSent bool                `json:"telegram_sent"`
	Reason       string              `json:"reason,omitempty"`
}

type SweepItem struct {
	BudgetID  int                 `json:"budget_id"`
	Success   bool                `json:"success"`
	AlertType models.AlertType    `json:"alert_type,omitempty"`
	Channel   models.AlertChannel `json:"channel,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type SweepResult struct {
	Checked int         `json:"checked"`
	Results []SweepItem `json:"results"`
}

// MonthWindow возвращает границы периода бюджета. Для бюджета без месяца и
// года период не ограничен (nil-границы).
func MonthWindow(budget *models.Budget, loc *time.Location) (from, to *time.Time) {
	if budget.Month == nil || budget.Year == nil {
		return nil, nil
	}
	start := time.Date(*budget.Year, time.Month(*budget.Month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return &start, &end
}

// Classify определяет тип уведомления по проценту расхода.
// nil — уведомление не требуется.
func Classify(percentage, threshold int) *models.AlertType {
	switch {
	case percentage >= 100:
		t := models.AlertExceeded
		return &t
	case percentage >= threshold:
		t := models.AlertWarning
		return &t
	}
	return nil
}

// GetStatus считает расход бюджета за его период.
func (e *Engine) GetStatus(ctx context.Context, budget *models.Budget) (*models.BudgetStatus, error) {
	from, to := MonthWindow(budget, e.now().Location())
	spent, err := e.store.SpentInPeriod(ctx, budget.UserID, budget.CategoryID, from, to)
	if err != nil {
		return nil, err
	}

	percentage := 0
	if budget.Amount.IsPositive() {
		percentage = int(spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}

	return &models.BudgetStatus{
		BudgetAmount: budget.Amount,
		Spent:        spent,
		Remaining:    budget.Amount.Sub(spent), // может уйти в минус
		Percentage:   percentage,
	}, nil
}

// shouldSend — лимит «одно уведомление данного типа в календарный день».
// Проверка и последующая запись не атомарны: два одновременных вызова могут
// отправить дубль, это осознанно принятое поведение.
func (e *Engine) shouldSend(ctx context.Context, budget *models.Budget, alertType models.AlertType) (bool, error) {
	today := e.now()

	sent, err := e.store.AlertSentOnDay(ctx, budget.ID, alertType, today)
	if err != nil {
		return false, err
	}
	if sent {
		return false, nil
	}
	if budget.LastAlertSent != nil && sameDay(*budget.LastAlertSent, today) {
		return false, nil
	}
	return true, nil
}

// CheckAndSend выполняет полный цикл проверки бюджета и рассылки.
// Ошибки чтения хранилища возвращаются вызывающему; отказ канала доставки
// ошибкой не считается и попадает в результат как false.
func (e *Engine) CheckAndSend(ctx context.Context, budgetID, userID int) (*CheckResult, error) {
	budget, err := e.store.BudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.IsActive {
		return &CheckResult{Sent: false, Reason: "Бюджет не активен"}, nil
	}

	status, err := e.GetStatus(ctx, budget)
	if err != nil {
		return nil, err
	}

	threshold := budget.AlertThreshold
	if threshold <= 0 {
		threshold = 80
	}
	alertType := Classify(status.Percentage, threshold)
	if alertType == nil {
		return &CheckResult{Sent: false, Reason: "Уведомление не требуется"}, nil
	}

	ok, err := e.shouldSend(ctx, budget, *alertType)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &CheckResult{Sent: false, AlertType: *alertType, Reason: "Уведомление уже отправлено сегодня"}, nil
	}

	pref, err := e.store.PreferenceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sendEmail := pref.EmailNotifications && pref.BudgetAlerts
	sendTelegram := pref.TelegramNotifications && pref.BudgetAlerts && pref.TelegramChatID != nil && *pref.TelegramChatID != ""
	if !sendEmail && !sendTelegram {
		return &CheckResult{Sent: false, AlertType: *alertType, Reason: "У пользователя отключены уведомления"}, nil
	}

	msg := notify.AlertMessage{
		BudgetID:     budget.ID,
		AlertType:    *alertType,
		BudgetAmount: status.BudgetAmount,
		Spent:        status.Spent,
		Remaining:    status.Remaining,
		Percentage:   status.Percentage,
		Threshold:    threshold,
	}

	// Каналы независимы: отказ одного не мешает другому
	result := &CheckResult{AlertType: *alertType}
	if sendEmail {
		if err := e.email.Send(pref.Email, msg); err != nil {
			log.Printf("Ошибка отправки уведомления по почте (бюджет %d): %v", budget.ID, err)
		} else {
			result.EmailSent = true
		}
	}
	if sendTelegram {
		if err := e.telegram.Send(*pref.TelegramChatID, msg); err != nil {
			log.Printf("Ошибка отправки уведомления в Telegram (бюджет %d): %v", budget.ID, err)
		} else {
			result.TelegramSent = true
		}
	}

	switch {
	case result.EmailSent && result.TelegramSent:
		result.Channel = models.ChannelBoth
	case result.EmailSent:
		result.Channel = models.ChannelEmail
	case result.TelegramSent:
		result.Channel = models.ChannelTelegram
	default:
		// Ни один канал не сработал: журнал не пишем, чтобы не блокировать повтор
		result.Reason = "Не удалось отправить ни по одному каналу"
		return result, nil
	}

	sentAt := e.now()
	if err := e.store.RecordAlert(ctx, &models.BudgetAlert{
		BudgetID:  budget.ID,
		AlertType: *alertType,
		Channel:   result.Channel,
		SentAt:    sentAt,
	}); err != nil {
		return result, fmt.Errorf("ошибка записи уведомления в журнал: %v", err)
	}
	if err := e.store.MarkAlertSent(ctx, budget.ID, sentAt); err != nil {
		return result, err
	}

	result.Sent = true
	return result, nil
}

// SweepAll последовательно проверяет все активные бюджеты. Ошибка одного
// бюджета фиксируется в его элементе результата и не прерывает обход.
func (e *Engine) SweepAll(ctx context.Context) (*SweepResult, error) {
	budgets, err := e.store.ActiveBudgets(ctx)
	if err != nil {
		return nil, err
	}

	sweep := &SweepResult{Checked: len(budgets), Results: make([]SweepItem, 0, len(budgets))}
	for _, b := range budgets {
		item := SweepItem{BudgetID: b.ID}
		res, err := e.CheckAndSend(ctx, b.ID, b.UserID)
		if err != nil {
			log.Printf("Ошибка проверки бюджета %d: %v", b.ID, err)
			item.Error = err.Error()
		} else {
			item.Success = true
			if res.Sent {
				item.AlertType = res.AlertType
				item.Channel = res.Channel
			}
		}
		sweep.Results = append(sweep.Results, item)
	}
	return sweep, nil
}

// CheckUser проверяет все активные бюджеты пользователя. Вызывается после
// изменения транзакции в фоне: ошибки только логируются, ответ клиенту от
// результата рассылки не зависит.
func (e *Engine) CheckUser(ctx context.Context, userID int) {
	budgets, err := e.store.ActiveBudgetsByUser(ctx, userID)
	if err != nil {
		log.Printf("Ошибка получения бюджетов пользователя %d: %v", userID, err)
		return
	}
	for _, b := range budgets {
		if _, err := e.CheckAndSend(ctx, b.ID, b.UserID); err != nil {
			log.Printf("Ошибка проверки бюджета %d: %v", b.ID, err)
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
