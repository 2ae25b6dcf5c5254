package cartclient

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

// Product is the catalog entry a shopper adds from. Display metadata is
// copied into the cart line at add-time and never re-fetched.
type Product struct {
	ID    string
	Name  string
	Price string
	Image string
}

// Manager is the single source of truth for the cart the UI renders. Every
// mutation round-trips to the backend and then re-derives local state from
// the server's response (reconcile-after-write), so local state never drifts
// from a locally guessed merge. The mutex serializes mutations per session
// so two racing calls cannot interleave their write+reload pairs.
type Manager struct {
	api       *Client
	sessionID string
	notify    Notifier

	mu      sync.Mutex
	items   []domain.CartItem
	total   decimal.Decimal
	loading bool
}

func NewManager(api *Client, sessionID string, notify Notifier) *Manager {
	if notify == nil {
		notify = noopNotifier{}
	}
	return &Manager{
		api:       api,
		sessionID: sessionID,
		notify:    notify,
		total:     decimal.Zero,
	}
}

func (m *Manager) SessionID() string {
	return m.sessionID
}

// LoadCart replaces local state wholesale with the server's view. A failed
// load keeps the last-known state and is not surfaced to the shopper.
func (m *Manager) LoadCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCartLocked(ctx)
}

func (m *Manager) loadCartLocked(ctx context.Context) error {
	m.loading = true
	defer func() { m.loading = false }()

	cart, err := m.api.GetCart(ctx, m.sessionID)
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		return err
	}

	m.items = cart.Items
	m.total = decimal.NewFromFloat(cart.TotalAmount)
	return nil
}

// AddItem sends a quantity-1 line for the product and reloads the cart so
// local state reflects the server's post-add view (repeat adds come back as
// an incremented quantity, not a duplicate line).
func (m *Manager) AddItem(ctx context.Context, product Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
		Image:     product.Image,
	}

	if err := m.api.AddItem(ctx, m.sessionID, item); err != nil {
		m.notify.Error("Failed to add item to cart")
		return err
	}

	if err := m.loadCartLocked(ctx); err != nil {
		log.Printf("reload after add failed: %v", err)
	}

	m.notify.Success(fmt.Sprintf("%s added to cart!", product.Name))
	return nil
}

func (m *Manager) RemoveItem(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeItemLocked(ctx, productID)
}

func (m *Manager) removeItemLocked(ctx context.Context, productID string) error {
	if err := m.api.RemoveItem(ctx, m.sessionID, productID); err != nil {
		m.notify.Error("Failed to remove item from cart")
		return err
	}

	if err := m.loadCartLocked(ctx); err != nil {
		log.Printf("reload after remove failed: %v", err)
	}

	m.notify.Success("Item removed from cart")
	return nil
}

// UpdateQuantity with a quantity of zero or below is a removal, never a
// zero-quantity line.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		return m.removeItemLocked(ctx, productID)
	}

	if err := m.api.UpdateQuantity(ctx, m.sessionID, productID, quantity); err != nil {
		m.notify.Error("Failed to update quantity")
		return err
	}

	if err := m.loadCartLocked(ctx); err != nil {
		log.Printf("reload after quantity update failed: %v", err)
	}

	return nil
}

func (m *Manager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.ClearCart(ctx, m.sessionID); err != nil {
		m.notify.Error("Failed to clear cart")
		return err
	}

	m.items = nil
	m.total = decimal.Zero
	return nil
}

// Items returns a copy of the current lines.
func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.CartItem, len(m.items))
	copy(items, m.items)
	return items
}

func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// ItemCount is the badge number: sum of quantities across all lines.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, item := range m.items {
		count += item.Quantity
	}
	return count
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}
