// Package memory provides in-process repositories. Their contents are lost
// when the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/stockroom/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository keeps order receipts in memory.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
}

// NewOrderRepository returns an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*order.Order)}
}

// Create stores o. IDs must be unique.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	if o == nil || o.ID == "" {
		return errors.New("order id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return errors.Errorf("order %q already exists", o.ID)
	}
	r.orders[o.ID] = o
	return nil
}

// GetByID returns the receipt with the given id or order.ErrNotFound.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

// Len returns the number of stored receipts.
func (r *OrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
