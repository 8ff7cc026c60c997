package notify

import (
	"strings"
	"testing"

	"github.com/fincontrol/finance-app/models"
	"github.com/shopspring/decimal"
)

func TestAlertMessageText(t *testing.T) {
	warning := AlertMessage{
		BudgetID:     3,
		AlertType:    models.AlertWarning,
		BudgetAmount: decimal.NewFromInt(5000),
		Spent:        decimal.NewFromInt(4200),
		Remaining:    decimal.NewFromInt(800),
		Percentage:   84,
		Threshold:    80,
	}
	text := warning.Text()
	if !strings.Contains(text, "84%") || !strings.Contains(text, "4200.00") {
		t.Errorf("текст предупреждения не содержит данных бюджета: %s", text)
	}

	exceeded := AlertMessage{
		BudgetID:     3,
		AlertType:    models.AlertExceeded,
		BudgetAmount: decimal.NewFromInt(5000),
		Spent:        decimal.NewFromInt(5200),
		Remaining:    decimal.NewFromInt(-200),
		Percentage:   104,
		Threshold:    80,
	}
	text = exceeded.Text()
	if !strings.Contains(text, "превышен") || !strings.Contains(text, "200.00") {
		t.Errorf("текст о превышении не содержит перерасхода: %s", text)
	}
}

func TestEmailSinkNotConfigured(t *testing.T) {
	sink := &EmailSink{}
	if err := sink.Send("user@example.com", AlertMessage{}); err == nil {
		t.Error("ненастроенный SMTP должен возвращать ошибку, а не панику")
	}
}

func TestEmailSinkEmptyRecipient(t *testing.T) {
	sink := &EmailSink{host: "smtp.example.com", port: 587, from: "noreply@example.com"}
	if err := sink.Send("", AlertMessage{}); err == nil {
		t.Error("пустой адрес получателя должен возвращать ошибку")
	}
}

func TestTelegramSinkNotConfigured(t *testing.T) {
	sink := &TelegramSink{}
	if err := sink.Send("12345", AlertMessage{}); err == nil {
		t.Error("ненастроенный бот должен возвращать ошибку")
	}
}
