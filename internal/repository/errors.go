package repository

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicatePayment = errors.New("ticket already issued for payment")
	ErrAlreadyExists    = errors.New("record already exists")
)
