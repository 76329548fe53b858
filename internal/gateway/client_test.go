package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

func newTestClient(srv *httptest.Server) Client {
	return NewClient(config.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "key-secret",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	}, logger.InitializeTestZapLogger())
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "key-secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(49900), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "Conf2024", req.Notes.EventTitle)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_O1","entity":"order","amount":49900,"currency":"INR","receipt":"rcpt_1","status":"created","notes":{"name":"A. Singh","email":"a@x.com","event_title":"Conf2024"},"created_at":1700000000}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv).CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "rcpt_1",
		Notes:    models.OrderNotes{Name: "A. Singh", Email: "a@x.com", EventTitle: "Conf2024"},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_O1", out.ID)
	assert.Equal(t, "created", out.Status)
	assert.Equal(t, "a@x.com", out.Notes.Email)
}

func TestCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(context.Background(), CreateOrderRequest{Amount: 10, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The amount must be atleast INR 1.00")
}

func TestCreateOrder_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entity":"order"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}
