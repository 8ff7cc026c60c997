package alerts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fincontrol/finance-app/internal/notify"
	"github.com/fincontrol/finance-app/models"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	budgets     map[int]*models.Budget
	prefs       map[int]*models.UserPreference
	spent       decimal.Decimal
	alerts      []models.BudgetAlert
	failBudgets map[int]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		budgets:     make(map[int]*models.Budget),
		prefs:       make(map[int]*models.UserPreference),
		failBudgets: make(map[int]bool),
	}
}

func (s *fakeStore) BudgetByID(_ context.Context, budgetID int) (*models.Budget, error) {
	if s.failBudgets[budgetID] {
		return nil, fmt.Errorf("ошибка чтения бюджета %d", budgetID)
	}
	b, ok := s.budgets[budgetID]
	if !ok {
		return nil, fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return b, nil
}

func (s *fakeStore) ActiveBudgets(_ context.Context) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range s.budgets {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) ActiveBudgetsByUser(_ context.Context, userID int) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range s.budgets {
		if b.IsActive && b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) SpentInPeriod(_ context.Context, _ int, _ *int, _, _ *time.Time) (decimal.Decimal, error) {
	return s.spent, nil
}

func (s *fakeStore) AlertSentOnDay(_ context.Context, budgetID int, alertType models.AlertType, day time.Time) (bool, error) {
	for _, a := range s.alerts {
		if a.BudgetID == budgetID && a.AlertType == alertType && sameDay(a.SentAt, day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) PreferenceByUser(_ context.Context, userID int) (*models.UserPreference, error) {
	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	return &models.UserPreference{UserID: userID}, nil
}

func (s *fakeStore) RecordAlert(_ context.Context, alert *models.BudgetAlert) error {
	s.alerts = append(s.alerts, *alert)
	return nil
}

func (s *fakeStore) MarkAlertSent(_ context.Context, budgetID int, sentAt time.Time) error {
	if b, ok := s.budgets[budgetID]; ok {
		t := sentAt
		b.LastAlertSent = &t
	}
	return nil
}

type fakeSink struct {
	sent []string
	err  error
}

func (s *fakeSink) Send(recipient string, _ notify.AlertMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

func intPtr(v int) *int             { return &v }
func strPtr(v string) *string       { return &v }
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func testEngine(store *fakeStore, email, telegram *fakeSink, now time.Time) *Engine {
	e := NewEngine(store, email, telegram)
	e.now = func() time.Time { return now }
	return e
}

func testBudget(id int) *models.Budget {
	month, year := 5, 2026
	return &models.Budget{
		ID:             id,
		UserID:         7,
		CategoryID:     intPtr(3),
		Amount:         dec(5000),
		Month:          &month,
		Year:           &year,
		AlertThreshold: 80,
		IsActive:       true,
	}
}

func enabledPrefs() *models.UserPreference {
	return &models.UserPreference{
		UserID:                7,
		Email:                 "user@example.com",
		EmailNotifications:    true,
		BudgetAlerts:          true,
		TelegramNotifications: true,
		TelegramChatID:        strPtr("12345"),
		BudgetAlertThreshold:  80,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		percentage int
		threshold  int
		want       *models.AlertType
	}{
		{79, 80, nil},
		{80, 80, alertPtr(models.AlertWarning)},
		{99, 80, alertPtr(models.AlertWarning)},
		{100, 80, alertPtr(models.AlertExceeded)},
		{104, 80, alertPtr(models.AlertExceeded)},
		{0, 80, nil},
	}

	for _, tc := range tests {
		got := Classify(tc.percentage, tc.threshold)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("Classify(%d, %d) = %s, ожидалось nil", tc.percentage, tc.threshold, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("Classify(%d, %d) = %v, ожидалось %s", tc.percentage, tc.threshold, got, *tc.want)
		}
	}
}

func alertPtr(t models.AlertType) *models.AlertType { return &t }

func TestMonthWindow(t *testing.T) {
	budget := testBudget(1)
	from, to := MonthWindow(budget, time.UTC)
	if from == nil || to == nil {
		t.Fatal("для бюджета с месяцем и годом границы не должны быть nil")
	}
	if from.Month() != time.May || from.Day() != 1 || from.Year() != 2026 {
		t.Errorf("начало периода: %v", from)
	}
	if to.Month() != time.May || to.Day() != 31 {
		t.Errorf("конец периода: %v", to)
	}

	budget.Month, budget.Year = nil, nil
	from, to = MonthWindow(budget, time.UTC)
	if from != nil || to != nil {
		t.Error("бессрочный бюджет должен давать nil-границы")
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		spent          float64
		wantPercentage int
	}{
		{3000, 60},
		{4200, 84},
		{5200, 104},
	}

	for _, tc := range tests {
		store := newFakeStore()
		store.spent = dec(tc.spent)
		e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

		status, err := e.GetStatus(context.Background(), testBudget(1))
		if err != nil {
			t.Fatalf("GetStatus: %v", err)
		}
		if status.Percentage != tc.wantPercentage {
			t.Errorf("расход %v: процент = %d, ожидалось %d", tc.spent, status.Percentage, tc.wantPercentage)
		}
		if !status.Remaining.Equal(dec(5000 - tc.spent)) {
			t.Errorf("расход %v: остаток = %s", tc.spent, status.Remaining)
		}
	}
}

func TestGetStatusZeroAmount(t *testing.T) {
	store := newFakeStore()
	store.spent = dec(100)
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	budget := testBudget(1)
	budget.Amount = decimal.Zero
	status, err := e.GetStatus(context.Background(), budget)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Percentage != 0 {
		t.Errorf("при нулевом бюджете процент = %d, ожидалось 0", status.Percentage)
	}
}

func TestCheckAndSendNoAlertNeeded(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(3000) // 60% < 80%
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if res.Sent || res.Reason != "Уведомление не требуется" {
		t.Errorf("неожиданный результат: %+v", res)
	}
}

func TestCheckAndSendWarning(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(4200) // 84%
	email := &fakeSink{}
	telegram := &fakeSink{}
	e := testEngine(store, email, telegram, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if !res.Sent || res.AlertType != models.AlertWarning || res.Channel != models.ChannelBoth {
		t.Errorf("неожиданный результат: %+v", res)
	}
	if len(email.sent) != 1 || len(telegram.sent) != 1 {
		t.Errorf("почта: %d отправок, telegram: %d отправок", len(email.sent), len(telegram.sent))
	}
	if len(store.alerts) != 1 || store.alerts[0].Channel != models.ChannelBoth {
		t.Errorf("журнал уведомлений: %+v", store.alerts)
	}
	if store.budgets[1].LastAlertSent == nil {
		t.Error("last_alert_sent не обновлён")
	}
}

func TestCheckAndSendRateLimit(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(5200) // 104% -> EXCEEDED
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	first, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil || !first.Sent {
		t.Fatalf("первая отправка: %+v, err=%v", first, err)
	}

	second, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("вторая проверка: %v", err)
	}
	if second.Sent || second.Reason != "Уведомление уже отправлено сегодня" {
		t.Errorf("лимит не сработал: %+v", second)
	}
	if len(store.alerts) != 1 {
		t.Errorf("в журнале %d записей, ожидалась 1", len(store.alerts))
	}
}

func TestCheckAndSendNextDayAllowed(t *testing.T) {
	now := time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(5200)
	e := testEngine(store, &fakeSink{}, &fakeSink{}, now)

	if res, _ := e.CheckAndSend(context.Background(), 1, 7); !res.Sent {
		t.Fatalf("первая отправка не прошла: %+v", res)
	}

	// На следующий календарный день лимит снимается
	e.now = func() time.Time { return now.Add(2 * time.Hour) }
	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if !res.Sent {
		t.Errorf("на следующий день отправка должна пройти: %+v", res)
	}
}

func TestCheckAndSendDisabledNotifications(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = &models.UserPreference{UserID: 7, BudgetAlerts: false}
	store.spent = dec(5200)
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if res.Sent || res.Reason != "У пользователя отключены уведомления" {
		t.Errorf("неожиданный результат: %+v", res)
	}
}

func TestCheckAndSendPartialChannelFailure(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(4200)
	email := &fakeSink{err: fmt.Errorf("smtp недоступен")}
	telegram := &fakeSink{}
	e := testEngine(store, email, telegram, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if !res.Sent || res.EmailSent || !res.TelegramSent || res.Channel != models.ChannelTelegram {
		t.Errorf("отказ одного канала не должен мешать другому: %+v", res)
	}
	if len(store.alerts) != 1 || store.alerts[0].Channel != models.ChannelTelegram {
		t.Errorf("журнал уведомлений: %+v", store.alerts)
	}
}

func TestCheckAndSendAllChannelsFail(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	store.prefs[7] = enabledPrefs()
	store.spent = dec(4200)
	e := testEngine(store, &fakeSink{err: fmt.Errorf("нет")}, &fakeSink{err: fmt.Errorf("нет")}, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if res.Sent {
		t.Errorf("при полном отказе каналов Sent должен быть false: %+v", res)
	}
	// Журнал пуст, чтобы повторная попытка не блокировалась лимитом
	if len(store.alerts) != 0 {
		t.Errorf("журнал должен быть пуст: %+v", store.alerts)
	}
	if store.budgets[1].LastAlertSent != nil {
		t.Error("last_alert_sent не должен обновляться при полном отказе")
	}
}

func TestCheckAndSendInactiveBudget(t *testing.T) {
	store := newFakeStore()
	budget := testBudget(1)
	budget.IsActive = false
	store.budgets[1] = budget
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	res, err := e.CheckAndSend(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("CheckAndSend: %v", err)
	}
	if res.Sent || res.Reason != "Бюджет не активен" {
		t.Errorf("неожиданный результат: %+v", res)
	}
}

func TestSweepAllIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	store.budgets[1] = testBudget(1)
	bad := testBudget(2)
	store.budgets[2] = bad
	store.failBudgets[2] = true
	store.prefs[7] = enabledPrefs()
	store.spent = dec(3000)
	e := testEngine(store, &fakeSink{}, &fakeSink{}, time.Now())

	sweep, err := e.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("SweepAll: %v", err)
	}
	if sweep.Checked != 2 {
		t.Fatalf("проверено %d бюджетов, ожидалось 2", sweep.Checked)
	}

	var okCount, errCount int
	for _, item := range sweep.Results {
		if item.Success {
			okCount++
		} else if item.Error != "" {
			errCount++
		}
	}
	if okCount != 1 || errCount != 1 {
		t.Errorf("ошибка одного бюджета не изолирована: %+v", sweep.Results)
	}
}
