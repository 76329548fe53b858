package redisrepo

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	pkgRedis "github.com/vogiaan1904/ticketbottle-ticketing/pkg/redis"
)

type orderRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewOrderRepository(cli *redis.Client, l logger.Logger) repository.OrderRepository {
	return &orderRepository{
		cli: cli,
		l:   l,
	}
}

// Create never overwrites an existing order.
func (r *orderRepository) Create(ctx context.Context, o *models.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.orderRepository.Create: %v", err)
		return err
	}

	ok, err := r.cli.SetNX(ctx, orderKey(o.ID), data, 0).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.orderRepository.Create: %v", err)
		return err
	}
	if !ok {
		return repository.ErrAlreadyExists
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	data, err := r.cli.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if pkgRedis.IsNil(err) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "redisrepo.orderRepository.GetByID: %v", err)
		return nil, err
	}

	var o models.Order
	if err := json.Unmarshal(data, &o); err != nil {
		r.l.Errorf(ctx, "redisrepo.orderRepository.GetByID: %v", err)
		return nil, err
	}

	return &o, nil
}
