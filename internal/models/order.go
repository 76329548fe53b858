package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the gateway order created before checkout. It is an immutable
// audit record.
type Order struct {
	ID        string     `json:"id"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Receipt   string     `json:"receipt"`
	Notes     OrderNotes `json:"notes"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MajorAmount converts the amount from minor units (paise, cents).
func (o Order) MajorAmount() decimal.Decimal {
	return decimal.New(o.Amount, -2)
}

type OrderNotes struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	EventTitle string `json:"event_title,omitempty"`
}

// UnmarshalJSON accepts the empty array the gateway sends for orders
// without notes.
func (n *OrderNotes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '[' || bytes.Equal(b, []byte("null")) {
		*n = OrderNotes{}
		return nil
	}

	type alias OrderNotes
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*n = OrderNotes(a)
	return nil
}
