package service

import (
	"context"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
)

// TicketDispatcher hands a newly issued ticket to the notification
// pipeline. It must not block and reports whether the ticket was queued.
type TicketDispatcher interface {
	Dispatch(ctx context.Context, t *models.Ticket) bool
}

type TicketPayload struct {
	EventTitle string
	Name       string
	Email      string
	FormData   models.FormData
}

type ClientConfirmationInput struct {
	OrderID    string
	PaymentID  string
	Signature  string
	EventTitle string
	Name       string
	Email      string
	FormData   models.FormData
}

type IssueResult struct {
	Ticket  *models.Ticket
	Created bool
}

type GatewayResult struct {
	Event string
	// Routed is false for notification types that do not issue tickets.
	Routed  bool
	Ticket  *models.Ticket
	Created bool
}

type PreRegisterInput struct {
	EventTitle string
	Name       string
	Email      string
	FormData   models.FormData
}

type CreateOrderInput struct {
	Amount     int64
	Currency   string
	Name       string
	Email      string
	EventTitle string
}

type CreateOrderOutput struct {
	Order         *models.Order
	KeyID         string
	DisplayAmount string
}

type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
}

type AdminClaims struct {
	Username  string
	ExpiresAt time.Time
}
