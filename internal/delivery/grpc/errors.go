package grpc

import (
	"errors"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-ticketing/pkg/errors"
	"google.golang.org/grpc/codes"
)

var (
	errInvalidSignature = pkgErrors.NewGRPCError("TKT001", "Invalid signature", codes.InvalidArgument)
	errMissingField     = pkgErrors.NewGRPCError("TKT002", "Missing required field", codes.InvalidArgument)
	errTicketNotFound   = pkgErrors.NewGRPCError("TKT004", "Invalid Ticket", codes.NotFound)
	errInvalidDay       = pkgErrors.NewGRPCError("TKT005", "Day must be 1 or 2", codes.InvalidArgument)
	errUnauthorized     = pkgErrors.NewGRPCError("TKT009", "Unauthorized", codes.Unauthenticated)
)

func mapGRPCError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return errInvalidSignature
	case errors.Is(err, service.ErrMissingRequiredField):
		return errMissingField
	case errors.Is(err, service.ErrTicketNotFound):
		return errTicketNotFound
	case errors.Is(err, service.ErrInvalidDay):
		return errInvalidDay
	case errors.Is(err, service.ErrUnauthorized):
		return errUnauthorized
	default:
		return err
	}
}
