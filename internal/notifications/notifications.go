package notifications

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"gopkg.in/gomail.v2"
)

const dateLayout = "02-01-2006"

type Sender interface {
	Send(to, subject, body string) error
}

// Mailer sends plain-text mail over SMTP.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return dialer.DialAndSend(msg)
}

func CreateMessage(event models.ReservationEvent) (string, string) {
	subject := fmt.Sprintf("Nova reserva - Mesa %d", event.TableNumber)

	body := fmt.Sprintf(
		"Nova reserva! Mesa número %d.\nCliente: %s (%s).\nData: %s, das %s às %s.\nPessoas: %d.\nReserva nº %d.",
		event.TableNumber,
		event.UserName,
		event.UserEmail,
		event.Start.Format(dateLayout),
		event.Start.Clock(),
		event.End.Clock(),
		event.PartySize,
		event.ReservationID,
	)

	return subject, body
}

// NewHandler returns the queue callback that mails every reservation event to the administrator.
// Undecodable messages are logged and dropped.
func NewHandler(log *slog.Logger, sender Sender, administratorEmail string) func([]byte) {
	return func(msg []byte) {
		const op = "notifications.Handle"

		log := log.With(slog.String("op", op))

		var event models.ReservationEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			log.Error("failed to unmarshal message", sl.Err(err))
			return
		}

		subject, text := CreateMessage(event)

		if err := sender.Send(administratorEmail, subject, text); err != nil {
			log.Error("failed to send message", sl.Err(err), slog.Int64("reservation_id", event.ReservationID))
			return
		}

		log.Info("message sent successfully", slog.Int64("reservation_id", event.ReservationID))
	}
}
