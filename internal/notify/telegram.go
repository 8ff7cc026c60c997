package notify

import (
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSink struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSink подключается к Telegram по токену из окружения.
// Без токена или при недоступном API канал остаётся ненастроенным.
func NewTelegramSink() *TelegramSink {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return &TelegramSink{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("Ошибка подключения к Telegram: %v", err)
		return &TelegramSink{}
	}
	return &TelegramSink{bot: bot}
}

func (s *TelegramSink) Send(recipient string, msg AlertMessage) error {
	if s.bot == nil {
		return fmt.Errorf("telegram-бот не настроен")
	}

	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный chat_id %q: %v", recipient, err)
	}

	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, msg.Text())); err != nil {
		return fmt.Errorf("ошибка отправки сообщения в Telegram: %v", err)
	}
	return nil
}
