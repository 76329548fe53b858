package models

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPendingPayment RegistrationStatus = "pending_payment"
	RegistrationStatusCompleted      RegistrationStatus = "completed"
)

// Registration holds the form answers submitted before payment so that a
// gateway notification can later attach them to the ticket.
type Registration struct {
	ID         string             `json:"id"`
	EventTitle string             `json:"eventTitle"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	FormData   FormData           `json:"formData"`
	Status     RegistrationStatus `json:"status"`
	TicketID   string             `json:"ticketId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
