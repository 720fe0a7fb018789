package product

import (
	"fmt"

	"github.com/xenking/stockroom/internal/domain/fault"
)

// InsufficientStockError indicates a purchase asked for more units than are
// in stock. It matches fault.ErrCapacityExceeded.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %q in stock: available %d, requested %d",
		e.Product, e.Available, e.Requested)
}

// Is reports whether target is fault.ErrCapacityExceeded.
func (e *InsufficientStockError) Is(target error) bool {
	return target == fault.ErrCapacityExceeded
}

// MaximumExceededError indicates a purchase of a capped product asked for more
// units than one order line may buy. It matches fault.ErrCapacityExceeded.
type MaximumExceededError struct {
	Product   string
	Requested int
	Maximum   int
}

func (e *MaximumExceededError) Error() string {
	return fmt.Sprintf("cannot buy more than %d of %q in one order, requested %d",
		e.Maximum, e.Product, e.Requested)
}

// Is reports whether target is fault.ErrCapacityExceeded.
func (e *MaximumExceededError) Is(target error) bool {
	return target == fault.ErrCapacityExceeded
}
