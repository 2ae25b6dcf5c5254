package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
	"github.com/vivekbhola/mystic-prana-web/pkg/cartclient"
)

type State string

const (
	StateIdle            State = "IDLE"
	StateCreatingOrder   State = "CREATING_ORDER"
	StateAwaitingPayment State = "AWAITING_PAYMENT"
	StateVerifying       State = "VERIFYING"
	StateComplete        State = "COMPLETE"
	StateCancelled       State = "CANCELLED"
	StateFailed          State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateCancelled || s == StateFailed
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// CheckoutAPI is the slice of the storefront client the orchestrator needs.
type CheckoutAPI interface {
	CreateOrder(ctx context.Context, sessionID string, req cartclient.CreateOrderRequest) (cartclient.Order, error)
	VerifyPayment(ctx context.Context, req cartclient.VerifyPaymentRequest) error
}

// Cart is the slice of the cart manager the orchestrator needs.
type Cart interface {
	SessionID() string
	Items() []domain.CartItem
	Total() decimal.Decimal
	ClearCart(ctx context.Context) error
}

// Orchestrator turns a non-empty cart plus customer info into a confirmed
// order. One checkout attempt at a time; a new attempt restarts from Idle.
// The cart is cleared if and only if the attempt reaches Complete.
type Orchestrator struct {
	api       CheckoutAPI
	cart      Cart
	widget    Widget
	notify    cartclient.Notifier
	currency  string
	shopName  string
	demoDelay time.Duration

	mu           sync.Mutex
	state        State
	orderID      string
	widgetLoaded bool
}

type Option func(*Orchestrator)

// WithDemoDelay overrides the simulated processing delay for demo orders.
func WithDemoDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.demoDelay = d }
}

func WithNotifier(n cartclient.Notifier) Option {
	return func(o *Orchestrator) { o.notify = n }
}

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}

func NewOrchestrator(api CheckoutAPI, cart Cart, widget Widget, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		cart:      cart,
		widget:    widget,
		notify:    silentNotifier{},
		currency:  "INR",
		shopName:  "Mystic Prana",
		demoDelay: 2 * time.Second,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OrderID returns the confirmed order id once the attempt is Complete.
func (o *Orchestrator) OrderID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orderID
}

// Checkout runs one attempt end to end and returns the confirmed order id.
// Validation failures reject before any network call and leave the attempt
// in Idle.
func (o *Orchestrator) Checkout(ctx context.Context, info domain.CustomerInfo) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateIdle
	o.orderID = ""

	if err := info.Validate(); err != nil {
		o.notify.Error("Please fill in all required fields")
		return "", err
	}

	items := o.cart.Items()
	if len(items) == 0 {
		o.notify.Error("Your cart is empty")
		return "", ErrEmptyCart
	}

	o.state = StateCreatingOrder
	amountMinor := o.cart.Total().Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	order, err := o.api.CreateOrder(ctx, o.cart.SessionID(), cartclient.CreateOrderRequest{
		Amount:       amountMinor,
		Currency:     o.currency,
		CustomerInfo: info,
		CartItems:    items,
	})
	if err != nil {
		o.state = StateFailed
		o.notify.Error("Failed to initiate payment")
		return "", fmt.Errorf("create order: %w", err)
	}

	if domain.IsDemoOrderID(order.ID) {
		return o.completeDemo(ctx, order)
	}

	if err := o.loadWidgetLocked(ctx); err != nil {
		o.state = StateFailed
		o.notify.Error("Failed to load payment gateway")
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	o.state = StateAwaitingPayment
	proof, err := o.widget.Open(ctx, WidgetOptions{
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        o.shopName,
		Description: "Wellness Accessories Purchase",
		Prefill:     info,
	})
	if errors.Is(err, ErrDismissed) {
		o.state = StateCancelled
		o.notify.Error("Payment cancelled")
		return "", err
	}
	if err != nil {
		o.state = StateFailed
		o.notify.Error("Payment failed")
		return "", fmt.Errorf("payment widget: %w", err)
	}

	o.state = StateVerifying
	err = o.api.VerifyPayment(ctx, cartclient.VerifyPaymentRequest{
		RazorpayOrderID:   proof.OrderID,
		RazorpayPaymentID: proof.PaymentID,
		RazorpaySignature: proof.Signature,
	})
	if err != nil {
		// Payment might still be disputed or pending, so the cart stays.
		o.state = StateFailed
		o.notify.Error("Payment verification failed")
		return "", fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	o.finishLocked(ctx, proof.OrderID)
	o.notify.Success("Payment successful! Order confirmed.")
	return proof.OrderID, nil
}

// completeDemo simulates payment processing: a fixed delay, then straight to
// Complete without touching the widget.
func (o *Orchestrator) completeDemo(ctx context.Context, order cartclient.Order) (string, error) {
	o.state = StateAwaitingPayment

	select {
	case <-time.After(o.demoDelay):
	case <-ctx.Done():
		o.state = StateFailed
		return "", ctx.Err()
	}

	o.finishLocked(ctx, order.ID)
	o.notify.Success("Order placed successfully! (Demo Mode)")
	return order.ID, nil
}

// loadWidgetLocked loads the widget at most once per process. A failed load
// may be retried by a later attempt; a successful one is never repeated.
func (o *Orchestrator) loadWidgetLocked(ctx context.Context) error {
	if o.widgetLoaded {
		return nil
	}
	if err := o.widget.Load(ctx); err != nil {
		return err
	}
	o.widgetLoaded = true
	return nil
}

func (o *Orchestrator) finishLocked(ctx context.Context, orderID string) {
	if err := o.cart.ClearCart(ctx); err != nil {
		// Payment is confirmed either way; the stale cart is cosmetic.
		log.Printf("failed to clear cart after checkout: %v", err)
	}
	o.orderID = orderID
	o.state = StateComplete
}
