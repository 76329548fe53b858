package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type orderRepository struct {
	pool *pgxpool.Pool
	l    logger.Logger
}

func NewOrderRepository(pool *pgxpool.Pool, l logger.Logger) repository.OrderRepository {
	return &orderRepository{
		pool: pool,
		l:    l,
	}
}

func (r *orderRepository) Create(ctx context.Context, o *models.Order) error {
	const stmt = `
INSERT INTO orders (id, amount, currency, receipt, notes, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt, o.ID, o.Amount, o.Currency, o.Receipt, o.Notes, o.Status, o.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolationOn(err); ok {
			return repository.ErrAlreadyExists
		}
		r.l.Errorf(ctx, "pgrepo.orderRepository.Create: %v", err)
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	const query = `SELECT id, amount, currency, receipt, notes, status, created_at FROM orders WHERE id = $1`

	var o models.Order
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&o.ID, &o.Amount, &o.Currency, &o.Receipt, &o.Notes, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "pgrepo.orderRepository.GetByID: %v", err)
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &o, nil
}
