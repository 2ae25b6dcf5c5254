package cartstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

const invalidateTimeout = time.Second

// Service is the authoritative cart store behind the REST API: MongoDB for
// persistence with Redis in front. Mutations write through to Mongo and drop
// the cached copy; the next read rebuilds it.
type Service struct {
	repo  CartRepository
	cache CartCache
	group singleflight.Group
}

func NewService(repo CartRepository, cache CartCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetCart never 404s: a session that has not stored anything yet gets a
// fresh empty cart. Concurrent reads for one session collapse into a single
// lookup so a hot cart cannot stampede Mongo on cache expiry.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.group.Do(sessionID, func() (interface{}, error) {
		return s.lookupCart(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *Service) lookupCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.cache.Get(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("cart cache read for session %s: %v", sessionID, err)
	}

	cart, err = s.repo.GetCart(ctx, sessionID)
	switch {
	case errors.Is(err, ErrCartNotFound):
		return emptyCart(sessionID), nil
	case err != nil:
		return nil, fmt.Errorf("load cart for session %s: %w", sessionID, err)
	}

	// Fill the cache off the request path; a lost fill only costs the next
	// read a Mongo round trip.
	go func() {
		if err := s.cache.Set(context.Background(), sessionID, cart); err != nil {
			log.Printf("cart cache fill for session %s: %v", sessionID, err)
		}
	}()

	return cart, nil
}

func emptyCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}
}

func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartItem) error {
	if err := s.repo.AddItem(ctx, sessionID, item); err != nil {
		return fmt.Errorf("add item %s: %w", item.ProductID, err)
	}
	s.dropCached(sessionID)
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if err := s.repo.UpdateItemQuantity(ctx, sessionID, productID, quantity); err != nil {
		return fmt.Errorf("update quantity of %s: %w", productID, err)
	}
	s.dropCached(sessionID)
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) error {
	if err := s.repo.RemoveItem(ctx, sessionID, productID); err != nil {
		return fmt.Errorf("remove item %s: %w", productID, err)
	}
	s.dropCached(sessionID)
	return nil
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart for session %s: %w", sessionID, err)
	}
	s.dropCached(sessionID)
	return nil
}

// dropCached runs detached from the request context so a cancelled request
// still invalidates. A failed drop is logged, not returned: the write
// already happened and the stale entry ages out with its TTL.
func (s *Service) dropCached(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cart cache invalidate for session %s: %v", sessionID, err)
	}
}
