package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/gateway"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderOutput, error)
}

type orderService struct {
	repo repository.OrderRepository
	gw   gateway.Client
	ids  IDGenerator
	conf config.PaymentConfig
	l    logger.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	gw gateway.Client,
	ids IDGenerator,
	conf config.PaymentConfig,
	l logger.Logger,
) OrderService {
	return &orderService{
		repo: repo,
		gw:   gw,
		ids:  ids,
		conf: conf,
		l:    l,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderOutput, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.conf.DefaultCurrency
	}

	notes := models.OrderNotes{
		Name:       strings.TrimSpace(in.Name),
		Email:      normalizeEmail(in.Email),
		EventTitle: strings.TrimSpace(in.EventTitle),
	}

	gwOrder, err := s.gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   in.Amount,
		Currency: currency,
		Receipt:  s.ids.Receipt(),
		Notes:    notes,
	})
	if err != nil {
		s.l.Errorf(ctx, "service.orderService.CreateOrder: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	createdAt := time.Now().UTC()
	if gwOrder.CreatedAt > 0 {
		createdAt = time.Unix(gwOrder.CreatedAt, 0).UTC()
	}

	o := &models.Order{
		ID:        gwOrder.ID,
		Amount:    gwOrder.Amount,
		Currency:  gwOrder.Currency,
		Receipt:   gwOrder.Receipt,
		Notes:     notes,
		Status:    gwOrder.Status,
		CreatedAt: createdAt,
	}

	if err := s.repo.Create(ctx, o); err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		s.l.Errorf(ctx, "service.orderService.CreateOrder: %v", err)
		return nil, err
	}

	return &CreateOrderOutput{
		Order:         o,
		KeyID:         s.conf.KeyID,
		DisplayAmount: o.MajorAmount().StringFixed(2),
	}, nil
}
