package repository

import (
	"context"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
)

type TicketRepository interface {
	// InsertIfAbsent persists t unless a ticket already holds t.PaymentID,
	// in which case it returns ErrDuplicatePayment and leaves the store
	// untouched. The check and the write are one atomic step.
	InsertIfAbsent(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Ticket, error)
	// List returns every ticket, most recently created first.
	List(ctx context.Context) ([]*models.Ticket, error)
	// CheckIn flips day from pending to checked-in only if it is still
	// pending at write time. It reports whether this call made the flip.
	CheckIn(ctx context.Context, id string, day int, at time.Time) (bool, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	// FindPending returns the newest pending_payment registration for the
	// event and email.
	FindPending(ctx context.Context, eventTitle, email string) (*models.Registration, error)
	// MarkCompleted links a pending registration to a ticket. It reports
	// false when the registration was no longer pending.
	MarkCompleted(ctx context.Context, id, ticketID string, at time.Time) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
