package notify

import (
	"fmt"

	"github.com/fincontrol/finance-app/models"
	"github.com/shopspring/decimal"
)

// Sink — канал доставки уведомления. Получатель: адрес почты или chat_id.
// Отсутствие настроек канала возвращается как обычная ошибка, не паника.
type Sink interface {
	Send(recipient string, msg AlertMessage) error
}

type AlertMessage struct {
	BudgetID     int
	AlertType    models.AlertType
	BudgetAmount decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	Percentage   int
	Threshold    int
}

func (m AlertMessage) Subject() string {
	if m.AlertType == models.AlertExceeded {
		return "Бюджет превышен"
	}
	return "Бюджет почти исчерпан"
}

func (m AlertMessage) Text() string {
	if m.AlertType == models.AlertExceeded {
		return fmt.Sprintf(
			"Бюджет №%d превышен: потрачено %s из %s (%d%%). Перерасход составил %s.",
			m.BudgetID, m.Spent.StringFixed(2), m.BudgetAmount.StringFixed(2), m.Percentage, m.Remaining.Neg().StringFixed(2))
	}
	return fmt.Sprintf(
		"Бюджет №%d израсходован на %d%% (порог %d%%): потрачено %s из %s, остаток %s.",
		m.BudgetID, m.Percentage, m.Threshold, m.Spent.StringFixed(2), m.BudgetAmount.StringFixed(2), m.Remaining.StringFixed(2))
}
