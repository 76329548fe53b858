package http

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
)

type orderResponse struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	DisplayAmount string `json:"displayAmount"`
	Receipt       string `json:"receipt"`
	KeyID         string `json:"keyId"`
}

func newOrderResponse(out *service.CreateOrderOutput) orderResponse {
	return orderResponse{
		Success:       true,
		OrderID:       out.Order.ID,
		Amount:        out.Order.Amount,
		Currency:      out.Order.Currency,
		DisplayAmount: out.DisplayAmount,
		Receipt:       out.Order.Receipt,
		KeyID:         out.KeyID,
	}
}

type verifyPaymentResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId"`
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Event    string `json:"event,omitempty"`
	TicketID string `json:"ticketId,omitempty"`
}

type registrationResponse struct {
	Success        bool   `json:"success"`
	RegistrationID string `json:"registrationId"`
	Status         string `json:"status"`
}

type ticketsResponse struct {
	Success bool             `json:"success"`
	Data    []*models.Ticket `json:"data"`
}

type ticketResponse struct {
	Success bool           `json:"success"`
	Data    *models.Ticket `json:"data"`
}

type checkInResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Ticket  *models.TicketSummary `json:"ticket,omitempty"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
