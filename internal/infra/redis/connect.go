package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	pkgRedis "github.com/vogiaan1904/ticketbottle-ticketing/pkg/redis"
)

func Connect(ctx context.Context, cfg config.RedisConfig, l logger.Logger) (*redis.Client, error) {
	cli := pkgRedis.NewClient(cfg)
	if err := ping(ctx, cli); err != nil {
		_ = cli.Close()
		return nil, err
	}

	l.Infof(ctx, "Connected to Redis at %s.", cfg.Addr)
	return cli, nil
}

func ping(ctx context.Context, cli *redis.Client) error {
	if err := cli.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func Disconnect(ctx context.Context, cli *redis.Client, l logger.Logger) {
	if cli == nil {
		return
	}

	if err := cli.Close(); err != nil {
		l.Errorf(ctx, "infra.redis.Disconnect: %v", err)
		return
	}

	l.Info(ctx, "Connection to Redis closed.")
}
