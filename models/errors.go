package models

import "errors"

// Business-rule errors surfaced by model methods. Controllers translate
// these to HTTP status codes at the boundary.
var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrZeroStockChange     = errors.New("quantity change cannot be zero")
	ErrOrderNotModifiable  = errors.New("order cannot be modified at this stage")
	ErrOrderAlreadyPaid    = errors.New("order has already been paid")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidChangeType   = errors.New("invalid change type")
	ErrTableNotFree        = errors.New("table is not free")
	ErrTableHasOrders      = errors.New("table has active orders")
)
