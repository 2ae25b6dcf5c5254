package payment

import (
	"context"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

// GatewayOrder is the descriptor the payment gateway issues for a checkout
// attempt. Amount is in minor currency units (paise for INR).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Gateway abstracts the payment provider so handlers never touch the
// provider's API shape directly.
type Gateway interface {
	CreateOrder(ctx context.Context, amount domain.Money, receipt string) (GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
