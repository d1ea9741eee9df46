package domain

import "errors"

var (
	ErrInvalidKind           = errors.New("invalid inventory kind")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidID             = errors.New("invalid id")
	ErrSeatIDRequired        = errors.New("seat id required")
	ErrLabelRequired         = errors.New("label required")
	ErrItemNotFound          = errors.New("inventory item not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrSeatAlreadyLocked     = errors.New("seat is already locked by another user")
	ErrSeatAlreadyBooked     = errors.New("seat is already booked")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrAlreadyCancelled      = errors.New("booking already cancelled")
	ErrCancellationNotFound  = errors.New("cancellation not found")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrInsufficientBalance   = errors.New("insufficient wallet balance")
	ErrRefundFailed          = errors.New("refund processing failed")
)
