package notify

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type EmailSink struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewEmailSink читает настройки SMTP из окружения. Отсутствующие настройки
// не считаются фатальными: канал просто будет отвечать отказом при отправке.
func NewEmailSink() *EmailSink {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	return &EmailSink{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("SMTP_FROM"),
	}
}

func (s *EmailSink) configured() bool {
	return s.host != "" && s.port != 0 && s.from != ""
}

func (s *EmailSink) Send(recipient string, msg AlertMessage) error {
	if !s.configured() {
		return fmt.Errorf("почтовый сервис не настроен")
	}
	if recipient == "" {
		return fmt.Errorf("у пользователя не указан адрес почты")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", msg.Subject())
	m.SetBody("text/plain", msg.Text())

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки письма: %v", err)
	}
	return nil
}
