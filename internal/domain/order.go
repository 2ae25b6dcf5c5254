package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled || s == OrderStatusFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo enforces created -> paid|cancelled|failed. Terminal states
// never move again.
func CanTransitionTo(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case OrderStatusPaid, OrderStatusCancelled, OrderStatusFailed:
		return from == OrderStatusCreated
	default:
		return false
	}
}

type Order struct {
	ID             uuid.UUID
	SessionID      string
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
	Status         OrderStatus
	Customer       CustomerInfo
	Items          []CartItem
	PaymentID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDemoOrderID reports whether a gateway order id belongs to the demo path
// that bypasses the real payment gateway.
func IsDemoOrderID(id string) bool {
	return strings.Contains(id, "demo")
}
