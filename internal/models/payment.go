package models

const (
	GatewayEventPaymentCaptured = "payment.captured"
	GatewayEventOrderPaid       = "order.paid"
)

// GatewayNotification is the subset of the gateway webhook body we read.
type GatewayNotification struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID       string     `json:"id"`
	OrderID  string     `json:"order_id"`
	Amount   int64      `json:"amount"`
	Currency string     `json:"currency"`
	Status   string     `json:"status"`
	Email    string     `json:"email"`
	Notes    OrderNotes `json:"notes"`
}

func (n GatewayNotification) Routed() bool {
	return n.Event == GatewayEventPaymentCaptured || n.Event == GatewayEventOrderPaid
}
