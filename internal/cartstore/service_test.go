package cartstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockRepository) AddItem(_ context.Context, _ string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	// Same rule as the mongo implementation: repeat-add increments quantity
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == item.ProductID {
			m.cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockRepository) UpdateItemQuantity(_ context.Context, _ string, productID string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) RemoveItem(_ context.Context, _ string, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart.Items = []domain.CartItem{}
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func TestGetCart_Success(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Healing Crystal", Price: "₹600", Quantity: 2},
			{ProductID: "p2", Name: "Meditation Cushion", Price: "₹1200", Quantity: 1},
		},
		SessionID: "sess-1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: nil}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ret)
	require.Len(t, ret.Items, 2)
	assert.Equal(t, "p1", ret.Items[0].ProductID)
	assert.Equal(t, 2, ret.Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGetCart_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
}

func TestGetCart_CacheHit(t *testing.T) {
	cart := &domain.Cart{
		Items:     []domain.CartItem{{ProductID: "p1", Price: "₹600", Quantity: 3}},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: nil} // repo should NOT be called
	mockC := &mockCache{cart: cart}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, "p1", ret.Items[0].ProductID)
}

func TestGetCart_CacheFailureFallsBackToRepo(t *testing.T) {
	cart := &domain.Cart{
		Items:     []domain.CartItem{{ProductID: "p1", Price: "₹600", Quantity: 2}},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{err: fmt.Errorf("redis down")}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err, "a broken cache must not break reads")
	require.Len(t, ret.Items, 1)
	assert.Equal(t, 2, ret.Items[0].Quantity)
}

func TestGetCart_CartNotFound_ReturnsEmptyCart(t *testing.T) {
	mockRepo := &mockRepository{err: ErrCartNotFound}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "fresh-session")
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "fresh-session", ret.SessionID)
	assert.Empty(t, ret.Items)
}

func TestAddItem_Success(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{}, SessionID: "sess-1"}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: cart}

	sut := NewService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "sess-1", domain.CartItem{
		ProductID: "p1",
		Name:      "Healing Crystal",
		Price:     "₹600",
		Quantity:  1,
	})
	require.NoError(t, err)
	require.Len(t, mockRepo.cart.Items, 1)
	assert.Equal(t, "p1", mockRepo.cart.Items[0].ProductID)

	// Verify cache was invalidated
	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestAddItem_RepeatAddIncrementsQuantity(t *testing.T) {
	cart := &domain.Cart{
		Items:     []domain.CartItem{{ProductID: "p1", Price: "₹600", Quantity: 1}},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "sess-1", domain.CartItem{ProductID: "p1", Price: "₹600", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, mockRepo.cart.Items, 1, "repeat add must not append a duplicate line")
	assert.Equal(t, 2, mockRepo.cart.Items[0].Quantity)
}

func TestAddItem_RepoError(t *testing.T) {
	mockRepo := &mockRepository{
		cart: &domain.Cart{Items: []domain.CartItem{}},
		err:  fmt.Errorf("database error"),
	}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "sess-1", domain.CartItem{ProductID: "p1", Quantity: 1})
	require.ErrorContains(t, err, "database error")
}

func TestUpdateQuantity_Success(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ProductID: "p1", Price: "₹600", Quantity: 2},
			{ProductID: "p2", Price: "₹1200", Quantity: 1},
		},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: cart}

	sut := NewService(mockRepo, mockC)
	err := sut.UpdateQuantity(context.Background(), "sess-1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, mockRepo.cart.Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestRemoveItem_Success(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ProductID: "p1", Price: "₹600", Quantity: 2},
			{ProductID: "p2", Price: "₹1200", Quantity: 1},
		},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: cart}

	sut := NewService(mockRepo, mockC)
	err := sut.RemoveItem(context.Background(), "sess-1", "p1")
	require.NoError(t, err)
	require.Len(t, mockRepo.cart.Items, 1)
	assert.Equal(t, "p2", mockRepo.cart.Items[0].ProductID)
}

func TestRemoveItem_NotFound(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{SessionID: "sess-1"}}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	err := sut.RemoveItem(context.Background(), "sess-1", "missing")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestClearCart_Success(t *testing.T) {
	cart := &domain.Cart{
		Items:     []domain.CartItem{{ProductID: "p1", Price: "₹600", Quantity: 2}},
		SessionID: "sess-1",
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: cart}

	sut := NewService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, mockRepo.cart.Items)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}
