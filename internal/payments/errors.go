package payments

import "errors"

var (
	// ErrInvalidOrder indicates bad input to CreateOrder: no line items, a
	// non-positive quantity, or a negative unit price.
	ErrInvalidOrder = errors.New("payments: invalid order")
	// ErrNotFound indicates no order matches the given reference or gateway
	// payment id.
	ErrNotFound = errors.New("payments: order not found")
)
