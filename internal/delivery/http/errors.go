package http

import (
	"errors"
	"net/http"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-ticketing/pkg/errors"
)

const (
	codeInvalidSignature    = 110001
	codeMissingField        = 110002
	codeInvalidNotification = 110003
	codeTicketNotFound      = 110004
	codeInvalidDay          = 110005
	codeInvalidAmount       = 110006
	codeGatewayUnavailable  = 110007
	codeInvalidCredentials  = 110008
	codeUnauthorized        = 110009
	codeInvalidBody         = 110010
)

var (
	errInvalidSignature    = pkgErrors.NewHTTPError(codeInvalidSignature, "Invalid signature")
	errMissingField        = pkgErrors.NewHTTPError(codeMissingField, "Missing required field")
	errInvalidNotification = pkgErrors.NewHTTPError(codeInvalidNotification, "Malformed notification")
	errTicketNotFound      = pkgErrors.NewHTTPError(codeTicketNotFound, "Invalid Ticket").WithStatus(http.StatusNotFound)
	errInvalidDay          = pkgErrors.NewHTTPError(codeInvalidDay, "Day must be 1 or 2")
	errInvalidAmount       = pkgErrors.NewHTTPError(codeInvalidAmount, "Amount must be positive")
	errGatewayUnavailable  = pkgErrors.NewHTTPError(codeGatewayUnavailable, "Payment gateway unavailable").WithStatus(http.StatusBadGateway)
	errInvalidCredentials  = pkgErrors.NewHTTPError(codeInvalidCredentials, "Invalid username or password").WithStatus(http.StatusUnauthorized)
	errUnauthorized        = pkgErrors.NewHTTPError(codeUnauthorized, "Unauthorized").WithStatus(http.StatusUnauthorized)
	errInvalidBody         = pkgErrors.NewHTTPError(codeInvalidBody, "Invalid request body")
)

// mapError translates service errors into transport errors. Anything
// unknown is passed through and rendered as a generic 500.
func mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return errInvalidSignature
	case errors.Is(err, service.ErrMissingRequiredField):
		return errMissingField
	case errors.Is(err, service.ErrInvalidNotification):
		return errInvalidNotification
	case errors.Is(err, service.ErrTicketNotFound):
		return errTicketNotFound
	case errors.Is(err, service.ErrInvalidDay):
		return errInvalidDay
	case errors.Is(err, service.ErrInvalidAmount):
		return errInvalidAmount
	case errors.Is(err, service.ErrGatewayUnavailable):
		return errGatewayUnavailable
	case errors.Is(err, service.ErrInvalidCredentials):
		return errInvalidCredentials
	case errors.Is(err, service.ErrUnauthorized):
		return errUnauthorized
	default:
		return err
	}
}
