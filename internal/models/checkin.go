package models

type CheckInOutcome string

const (
	CheckInSuccess          CheckInOutcome = "success"
	CheckInAlreadyCheckedIn CheckInOutcome = "already_checked_in"
	CheckInNotFound         CheckInOutcome = "not_found"
	CheckInInvalidRequest   CheckInOutcome = "invalid_request"
)

type CheckInResult struct {
	Outcome CheckInOutcome
	Day     int
	Ticket  *TicketSummary
}
