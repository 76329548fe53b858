package http

import "github.com/vogiaan1904/ticketbottle-ticketing/internal/models"

type createOrderRequest struct {
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	EventTitle string `json:"eventTitle"`
}

type verifyPaymentRequest struct {
	OrderID    string          `json:"razorpay_order_id" validate:"required"`
	PaymentID  string          `json:"razorpay_payment_id" validate:"required"`
	Signature  string          `json:"razorpay_signature" validate:"required"`
	EventTitle string          `json:"eventTitle"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	FormData   models.FormData `json:"formData"`
}

type preRegisterRequest struct {
	EventTitle string          `json:"eventTitle" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	FormData   models.FormData `json:"formData"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
