package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	redisrepo "github.com/vogiaan1904/ticketbottle-ticketing/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/signature"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const (
	testKeySecret     = "client-secret-a"
	testWebhookSecret = "webhook-secret-b"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	tickets []*models.Ticket
}

func (d *recordingDispatcher) Dispatch(_ context.Context, t *models.Ticket) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tickets = append(d.tickets, t)
	return true
}

func (d *recordingDispatcher) dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, 0, len(d.tickets))
	for _, t := range d.tickets {
		ids = append(ids, t.ID)
	}
	return ids
}

type testEnv struct {
	mr            *miniredis.Miniredis
	tickets       repository.TicketRepository
	registrations repository.RegistrationRepository
	orders        repository.OrderRepository
	dispatcher    *recordingDispatcher
	ids           IDGenerator
	ticketSvc     TicketService
	checkInSvc    CheckInService
	regSvc        RegistrationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })

	l := logger.InitializeTestZapLogger()
	ids, err := NewIDGenerator(1)
	require.NoError(t, err)

	env := &testEnv{
		mr:            mr,
		tickets:       redisrepo.NewTicketRepository(cli, l),
		registrations: redisrepo.NewRegistrationRepository(cli, l),
		orders:        redisrepo.NewOrderRepository(cli, l),
		dispatcher:    &recordingDispatcher{},
		ids:           ids,
	}
	env.ticketSvc = NewTicketService(env.tickets, env.registrations, env.orders, env.dispatcher, ids, config.PaymentConfig{
		KeySecret:       testKeySecret,
		WebhookSecret:   testWebhookSecret,
		DefaultCurrency: "INR",
	}, l)
	env.checkInSvc = NewCheckInService(env.tickets, l)
	env.regSvc = NewRegistrationService(env.registrations, ids, l)
	return env
}

func clientInput(orderID, paymentID string) ClientConfirmationInput {
	return ClientConfirmationInput{
		OrderID:    orderID,
		PaymentID:  paymentID,
		Signature:  signature.Sign(signature.ClientPayload(orderID, paymentID), testKeySecret),
		EventTitle: "Conf2024",
		Name:       "A. Singh",
		Email:      "a@x.com",
		FormData:   models.FormData{"tshirt": "L"},
	}
}

type notificationNotes struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	EventTitle string `json:"event_title,omitempty"`
}

func gatewayBody(t *testing.T, event, orderID, paymentID string, notes notificationNotes) []byte {
	t.Helper()
	body := map[string]any{
		"event": event,
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"id":       paymentID,
					"order_id": orderID,
					"amount":   50000,
					"currency": "INR",
					"status":   "captured",
					"notes":    notes,
				},
			},
		},
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return b
}

func signGateway(body []byte) string {
	return signature.Sign(body, testWebhookSecret)
}

var conf2024Notes = notificationNotes{Name: "A. Singh", Email: "a@x.com", EventTitle: "Conf2024"}
