// Package gateway talks to the payment gateway's order API.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const ordersPath = "/v1/orders"

type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
}

type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    models.OrderNotes `json:"notes"`
}

type Order struct {
	ID        string            `json:"id"`
	Entity    string            `json:"entity"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt"`
	Status    string            `json:"status"`
	Notes     models.OrderNotes `json:"notes"`
	CreatedAt int64             `json:"created_at"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type client struct {
	http *resty.Client
	l    logger.Logger
}

func NewClient(cfg config.PaymentConfig, l logger.Logger) Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	return &client{
		http: http,
		l:    l,
	}
}

func (c *client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var (
		out    Order
		apiErr apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post(ordersPath)
	if err != nil {
		c.l.Errorf(ctx, "gateway.client.CreateOrder: %v", err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if resp.IsError() {
		c.l.Errorf(ctx, "gateway.client.CreateOrder: status %d: %s %s", resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
		return nil, fmt.Errorf("create order: gateway returned %d: %s", resp.StatusCode(), apiErr.Error.Description)
	}

	if out.ID == "" {
		return nil, fmt.Errorf("create order: gateway returned no order id")
	}

	return &out, nil
}
