package product

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/fault"
)

var (
	_ Product = (*Standard)(nil)
	_ Product = (*Unlimited)(nil)
	_ Product = (*Capped)(nil)
)

// Standard is a product with finite stock. It deactivates when the stock
// reaches zero.
type Standard struct {
	stock
}

// NewStandard creates a Standard product.
func NewStandard(name string, price decimal.Decimal, quantity int) (*Standard, error) {
	s, err := newStock(name, price, quantity)
	if err != nil {
		return nil, err
	}
	return &Standard{stock: s}, nil
}

// Kind implements Product.
func (*Standard) Kind() Kind { return KindStandard }

// Buy implements Product.
func (p *Standard) Buy(quantity int) (decimal.Decimal, error) {
	if err := checkPurchase(quantity); err != nil {
		return decimal.Zero, err
	}
	return p.take(quantity)
}

func (p *Standard) String() string { return Describe(p, "") }

// Unlimited is a product that is never out of stock, such as a licence. Its
// quantity is always zero and it is always active.
type Unlimited struct {
	stock
}

// NewUnlimited creates an Unlimited product.
func NewUnlimited(name string, price decimal.Decimal) (*Unlimited, error) {
	s, err := newStock(name, price, 0)
	if err != nil {
		return nil, err
	}
	return &Unlimited{stock: s}, nil
}

// Kind implements Product.
func (*Unlimited) Kind() Kind { return KindUnlimited }

// IsActive always reports true.
func (*Unlimited) IsActive() bool { return true }

// SetQuantity validates quantity but keeps the stock pinned at zero.
func (*Unlimited) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fault.Invalid("quantity cannot be negative")
	}
	return nil
}

// Buy prices the purchase without touching stock.
func (p *Unlimited) Buy(quantity int) (decimal.Decimal, error) {
	if err := checkPurchase(quantity); err != nil {
		return decimal.Zero, err
	}
	return p.charge(quantity)
}

func (p *Unlimited) String() string { return Describe(p, "") }

// Capped is a stocked product that limits how many units a single order line
// may buy.
type Capped struct {
	stock
	maximum int
}

// NewCapped creates a Capped product. The maximum must be positive.
func NewCapped(name string, price decimal.Decimal, quantity, maximum int) (*Capped, error) {
	s, err := newStock(name, price, quantity)
	if err != nil {
		return nil, err
	}
	if maximum <= 0 {
		return nil, fault.Invalid("maximum must be positive")
	}
	return &Capped{stock: s, maximum: maximum}, nil
}

// Kind implements Product.
func (*Capped) Kind() Kind { return KindCapped }

// Maximum returns the largest quantity one order line may buy.
func (p *Capped) Maximum() int { return p.maximum }

// Buy implements Product.
func (p *Capped) Buy(quantity int) (decimal.Decimal, error) {
	if err := checkPurchase(quantity); err != nil {
		return decimal.Zero, err
	}
	if quantity > p.maximum {
		return decimal.Zero, &MaximumExceededError{
			Product:   p.name,
			Requested: quantity,
			Maximum:   p.maximum,
		}
	}
	return p.take(quantity)
}

func (p *Capped) String() string { return Describe(p, "") }
