package pgrepo

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
)

// NewHealthChecker returns the pool itself; *pgxpool.Pool already has Ping(ctx).
func NewHealthChecker(pool *pgxpool.Pool) repository.HealthChecker {
	return pool
}
