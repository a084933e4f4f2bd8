package store

import (
	"context"
	"fmt"
	"sync"

	"beautylist/internal/catalog/models"
	"beautylist/pkg/platform/sentinel"
)

// ErrNotFound is returned when a product id is not in the store.
var ErrNotFound = sentinel.ErrNotFound

// InMemory is the ordered product store of one session. Insertion order is the
// display order; replacing a product keeps its position. Records are cloned on
// the way in and out so callers never share memory with the store.
type InMemory struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// List returns every product in store order.
func (s *InMemory) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.products), nil
}

func (s *InMemory) FindByID(_ context.Context, id models.ProductID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.products[i].Clone()
	return &p, nil
}

// Append adds a new product at the end.
func (s *InMemory) Append(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("product %s: %w", p.ID, sentinel.ErrConflict)
	}
	s.products = append(s.products, p.Clone())
	return nil
}

// Replace swaps the product with p.ID for p in place.
func (s *InMemory) Replace(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(p.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.products[i] = p.Clone()
	return nil
}

// Delete removes the product with id, keeping the order of the rest.
func (s *InMemory) Delete(_ context.Context, id models.ProductID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	return nil
}

// ReplaceAll overwrites the whole store. Duplicate ids are rejected and leave
// the store untouched.
func (s *InMemory) ReplaceAll(_ context.Context, products []models.Product) error {
	seen := make(map[models.ProductID]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id %s: %w", p.ID, sentinel.ErrConflict)
		}
		seen[p.ID] = struct{}{}
	}

	next := cloneAll(products)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = next
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

func (s *InMemory) indexOf(id models.ProductID) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i := range products {
		out[i] = products[i].Clone()
	}
	return out
}
