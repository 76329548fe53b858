package service

import "errors"

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidNotification  = errors.New("malformed gateway notification")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrInvalidDay           = errors.New("invalid day selector")

	ErrInvalidAmount      = errors.New("invalid amount")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
