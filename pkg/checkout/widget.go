package checkout

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

// ErrDismissed means the shopper closed the payment widget before paying.
var ErrDismissed = errors.New("payment widget dismissed")

// WidgetOptions configures one payment attempt.
type WidgetOptions struct {
	OrderID     string
	Amount      int64 // minor units
	Currency    string
	Name        string
	Description string
	Prefill     domain.CustomerInfo
}

// Proof is the gateway callback payload forwarded to the backend for
// verification.
type Proof struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Widget abstracts the hosted payment surface so the orchestrator never
// depends on a concrete provider SDK. Load must be safe to call repeatedly;
// the orchestrator guarantees at most one successful Load per process.
type Widget interface {
	Load(ctx context.Context) error
	Open(ctx context.Context, opts WidgetOptions) (Proof, error)
}

// ConsoleWidget drives a payment attempt over a terminal: it prints the
// order summary, then reads "payment_id signature" from input, or an empty
// line to dismiss. Used by the CLI and by anything headless.
type ConsoleWidget struct {
	In  io.Reader
	Out io.Writer
}

func (w *ConsoleWidget) Load(context.Context) error {
	return nil
}

func (w *ConsoleWidget) Open(_ context.Context, opts WidgetOptions) (Proof, error) {
	fmt.Fprintf(w.Out, "%s - %s\n", opts.Name, opts.Description)
	fmt.Fprintf(w.Out, "Pay %d %s for order %s\n", opts.Amount, opts.Currency, opts.OrderID)
	fmt.Fprintf(w.Out, "Enter \"<payment_id> <signature>\" or press enter to cancel: ")

	scanner := bufio.NewScanner(w.In)
	if !scanner.Scan() {
		return Proof{}, ErrDismissed
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return Proof{}, ErrDismissed
	}
	if len(fields) != 2 {
		return Proof{}, fmt.Errorf("expected payment id and signature, got %d fields", len(fields))
	}

	return Proof{
		OrderID:   opts.OrderID,
		PaymentID: fields[0],
		Signature: fields[1],
	}, nil
}
