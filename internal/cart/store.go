// Package cart persists the per-device shopping cart. Items hold a snapshot
// of the product at add time, the same shape the original storefront kept.
package cart

import (
	"context"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"ShriHariStore/internal/catalog"
	"ShriHariStore/internal/kvstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyCart = "cart"

type Item struct {
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

type Store struct {
	log *zap.Logger
	kv  kvstore.Store

	mu    sync.RWMutex
	items []Item
}

func NewStore(ctx context.Context, kv kvstore.Store, log *zap.Logger) (*Store, error) {
	s := &Store{log: log, kv: kv}

	raw, found, err := kv.Get(ctx, keyCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if found {
		if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
			log.Warn("stored cart unreadable, starting empty", zap.Int("bytes", len(raw)))
			s.items = nil
		}
	}

	return s, nil
}

// Add merges into an existing line when product, size and color all match.
func (s *Store) Add(ctx context.Context, p catalog.Product, qty int, size, color string) error {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, len(s.items))
	copy(next, s.items)

	merged := false
	for i := range next {
		if sameLine(next[i], p.ID, size, color) {
			next[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, Item{Product: p, Quantity: qty, SelectedSize: size, SelectedColor: color})
	}

	return s.swap(ctx, next)
}

func (s *Store) Remove(ctx context.Context, productID, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if sameLine(it, productID, size, color) {
			continue
		}
		next = append(next, it)
	}

	return s.swap(ctx, next)
}

func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if sameLine(it, productID, size, color) {
			if qty < 1 {
				continue
			}
			it.Quantity = qty
		}
		next = append(next, it)
	}

	return s.swap(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.swap(ctx, []Item{})
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, it := range s.items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

func (s *Store) swap(ctx context.Context, next []Item) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyCart, string(raw)); err != nil {
		return err
	}
	s.items = next
	return nil
}

func sameLine(it Item, productID, size, color string) bool {
	return it.Product.ID == productID && it.SelectedSize == size && it.SelectedColor == color
}
