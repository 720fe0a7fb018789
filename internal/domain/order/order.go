package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is the receipt of a fulfilled order.
type Order struct {
	ID        string
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Item is a purchase intent referencing a product by name.
type Item struct {
	Product  string
	Quantity int
}

// Line is a fulfilled item together with its charge.
type Line struct {
	Product  string
	Quantity int
	Charge   decimal.Decimal
}

// Repository keeps receipts of placed orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
}
