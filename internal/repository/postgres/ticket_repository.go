package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const ticketColumns = `id, event_title, name, email, form_data, payment_id,
	day_1, day_2, day_1_checked_in_at, day_2_checked_in_at, created_at`

type ticketRepository struct {
	pool *pgxpool.Pool
	l    logger.Logger
}

func NewTicketRepository(pool *pgxpool.Pool, l logger.Logger) repository.TicketRepository {
	return &ticketRepository{
		pool: pool,
		l:    l,
	}
}

// InsertIfAbsent relies on the unique constraint on payment_id; there is
// no prior existence check.
func (r *ticketRepository) InsertIfAbsent(ctx context.Context, t *models.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_title, name, email, form_data, payment_id, day_1, day_2, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	fd := t.FormData
	if fd == nil {
		fd = models.FormData{}
	}

	_, err := r.pool.Exec(ctx, stmt,
		t.ID, t.EventTitle, t.Name, t.Email, fd, t.PaymentID,
		string(t.Day1), string(t.Day2), t.CreatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolationOn(err); ok {
			if constraint == paymentIDConstraint {
				return repository.ErrDuplicatePayment
			}
			return repository.ErrAlreadyExists
		}
		r.l.Errorf(ctx, "pgrepo.ticketRepository.InsertIfAbsent: %v", err)
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "pgrepo.ticketRepository.GetByID: %v", err)
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *ticketRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE payment_id = $1`, paymentID)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "pgrepo.ticketRepository.GetByPaymentID: %v", err)
		return nil, fmt.Errorf("get ticket by payment: %w", err)
	}
	return t, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]*models.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		r.l.Errorf(ctx, "pgrepo.ticketRepository.List: %v", err)
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*models.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			r.l.Errorf(ctx, "pgrepo.ticketRepository.List: %v", err)
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "pgrepo.ticketRepository.List: %v", err)
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) CheckIn(ctx context.Context, id string, day int, at time.Time) (bool, error) {
	if !models.ValidDay(day) {
		return false, fmt.Errorf("invalid day %d", day)
	}

	stmt := fmt.Sprintf(`UPDATE tickets SET %[1]s = $2, %[2]s = $3 WHERE id = $1 AND %[1]s = $4`,
		models.DayField(day), models.DayCheckedInAtField(day))

	tag, err := r.pool.Exec(ctx, stmt, id, string(models.DayStateCheckedIn), at, string(models.DayStatePending))
	if err != nil {
		r.l.Errorf(ctx, "pgrepo.ticketRepository.CheckIn: %v", err)
		return false, fmt.Errorf("check in ticket: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.l.Errorf(ctx, "pgrepo.ticketRepository.CheckIn: %v", err)
		return false, fmt.Errorf("check ticket: %w", err)
	}
	if !exists {
		return false, repository.ErrNotFound
	}

	return false, nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var (
		t          models.Ticket
		day1, day2 string
	)
	if err := row.Scan(
		&t.ID, &t.EventTitle, &t.Name, &t.Email, &t.FormData, &t.PaymentID,
		&day1, &day2, &t.Day1CheckedInAt, &t.Day2CheckedInAt, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	t.Day1 = models.DayState(day1)
	t.Day2 = models.DayState(day2)
	if t.FormData == nil {
		t.FormData = models.FormData{}
	}
	return &t, nil
}
