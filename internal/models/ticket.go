package models

import (
	"fmt"
	"time"
)

type DayState string

const (
	DayStatePending   DayState = "pending"
	DayStateCheckedIn DayState = "checked-in"
)

const (
	FirstDay = 1
	LastDay  = 2
)

// FormData is the free-form answer set collected at registration time.
type FormData map[string]any

type Ticket struct {
	ID              string     `json:"ticketId"`
	EventTitle      string     `json:"event"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	FormData        FormData   `json:"formData"`
	PaymentID       string     `json:"paymentId"`
	Day1            DayState   `json:"status_day_1"`
	Day2            DayState   `json:"status_day_2"`
	Day1CheckedInAt *time.Time `json:"day_1_checked_in_at,omitempty"`
	Day2CheckedInAt *time.Time `json:"day_2_checked_in_at,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func ValidDay(day int) bool {
	return day >= FirstDay && day <= LastDay
}

// DayField is the storage column / hash field holding the state of day.
func DayField(day int) string {
	return fmt.Sprintf("day_%d", day)
}

func DayCheckedInAtField(day int) string {
	return fmt.Sprintf("day_%d_checked_in_at", day)
}

func (t *Ticket) DayState(day int) DayState {
	switch day {
	case 1:
		return t.Day1
	case 2:
		return t.Day2
	default:
		return ""
	}
}

func (t *Ticket) SetDayState(day int, state DayState, at *time.Time) {
	switch day {
	case 1:
		t.Day1, t.Day1CheckedInAt = state, at
	case 2:
		t.Day2, t.Day2CheckedInAt = state, at
	}
}

type TicketSummary struct {
	Name  string `json:"name"`
	Event string `json:"event"`
}

func (t *Ticket) Summary() TicketSummary {
	return TicketSummary{
		Name:  t.Name,
		Event: t.EventTitle,
	}
}
