package kafka

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
)

// TicketIssuedEvent carries what the mailer needs to render and send the
// ticket document.
type TicketIssuedEvent struct {
	TicketID   string          `json:"ticket_id"`
	EventTitle string          `json:"event_title"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	PaymentID  string          `json:"payment_id"`
	FormData   models.FormData `json:"form_data,omitempty"`
	IssuedAt   time.Time       `json:"issued_at"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewTicketIssuedEvent(t *models.Ticket) TicketIssuedEvent {
	return TicketIssuedEvent{
		TicketID:   t.ID,
		EventTitle: t.EventTitle,
		Name:       t.Name,
		Email:      t.Email,
		PaymentID:  t.PaymentID,
		FormData:   t.FormData,
		IssuedAt:   t.CreatedAt,
	}
}
