package redisrepo

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
)

type healthChecker struct {
	cli *redis.Client
}

func NewHealthChecker(cli *redis.Client) repository.HealthChecker {
	return &healthChecker{cli: cli}
}

func (h *healthChecker) Ping(ctx context.Context) error {
	return h.cli.Ping(ctx).Err()
}
