package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const registrationColumns = `id, event_title, name, email, form_data, status,
	COALESCE(ticket_id, ''), created_at, updated_at`

type registrationRepository struct {
	pool *pgxpool.Pool
	l    logger.Logger
}

func NewRegistrationRepository(pool *pgxpool.Pool, l logger.Logger) repository.RegistrationRepository {
	return &registrationRepository{
		pool: pool,
		l:    l,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	const stmt = `
INSERT INTO registrations (id, event_title, name, email, form_data, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	fd := reg.FormData
	if fd == nil {
		fd = models.FormData{}
	}

	_, err := r.pool.Exec(ctx, stmt,
		reg.ID, reg.EventTitle, reg.Name, strings.ToLower(reg.Email), fd,
		string(reg.Status), reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolationOn(err); ok {
			return repository.ErrAlreadyExists
		}
		r.l.Errorf(ctx, "pgrepo.registrationRepository.Create: %v", err)
		return fmt.Errorf("insert registration: %w", err)
	}

	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "pgrepo.registrationRepository.GetByID: %v", err)
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) FindPending(ctx context.Context, eventTitle, email string) (*models.Registration, error) {
	const query = `SELECT ` + registrationColumns + `
FROM registrations
WHERE event_title = $1 AND email = $2 AND status = $3
ORDER BY created_at DESC
LIMIT 1`

	row := r.pool.QueryRow(ctx, query, eventTitle, strings.ToLower(email), string(models.RegistrationStatusPendingPayment))
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "pgrepo.registrationRepository.FindPending: %v", err)
		return nil, fmt.Errorf("find pending registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) MarkCompleted(ctx context.Context, id, ticketID string, at time.Time) (bool, error) {
	const stmt = `
UPDATE registrations SET status = $2, ticket_id = $3, updated_at = $4
WHERE id = $1 AND status = $5`

	tag, err := r.pool.Exec(ctx, stmt, id,
		string(models.RegistrationStatusCompleted), ticketID, at,
		string(models.RegistrationStatusPendingPayment),
	)
	if err != nil {
		r.l.Errorf(ctx, "pgrepo.registrationRepository.MarkCompleted: %v", err)
		return false, fmt.Errorf("complete registration: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var (
		reg    models.Registration
		status string
	)
	if err := row.Scan(
		&reg.ID, &reg.EventTitle, &reg.Name, &reg.Email, &reg.FormData,
		&status, &reg.TicketID, &reg.CreatedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.Status = models.RegistrationStatus(status)
	if reg.FormData == nil {
		reg.FormData = models.FormData{}
	}
	return &reg, nil
}
