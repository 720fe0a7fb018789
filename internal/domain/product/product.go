// Package product models the items a store sells and the stock rules of
// each product variant.
package product

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/fault"
	"github.com/xenking/stockroom/internal/domain/promotion"
)

// Kind enumerates the product variants.
type Kind string

const (
	// KindStandard is an ordinary product with finite stock.
	KindStandard Kind = "standard"
	// KindUnlimited is a product without stock, such as a software licence.
	KindUnlimited Kind = "unlimited"
	// KindCapped is a stocked product with a per-order maximum.
	KindCapped Kind = "capped"
)

// Product is a catalog item that can be bought.
//
// The set of implementations is closed: Standard, Unlimited and Capped.
// Products are not safe for concurrent use; the store serializes access.
type Product interface {
	Name() string
	Price() decimal.Decimal
	Kind() Kind
	Quantity() int
	// SetQuantity replaces the stock level. Zero deactivates stocked products.
	SetQuantity(quantity int) error
	IsActive() bool
	Promotion() promotion.Promotion
	// SetPromotion attaches p, or detaches the current promotion when p is nil.
	SetPromotion(p promotion.Promotion)
	// Buy removes quantity units from stock and returns the charge rounded to
	// two decimal places.
	Buy(quantity int) (decimal.Decimal, error)
	String() string

	sealed()
}

// New builds a product of the given kind. The maximum is only used by
// KindCapped and quantity is ignored by KindUnlimited.
func New(kind Kind, name string, price decimal.Decimal, quantity, maximum int) (Product, error) {
	switch kind {
	case KindStandard:
		return NewStandard(name, price, quantity)
	case KindUnlimited:
		return NewUnlimited(name, price)
	case KindCapped:
		return NewCapped(name, price, quantity, maximum)
	default:
		return nil, errors.Wrapf(fault.ErrInvalidType, "unsupported product kind %q", kind)
	}
}

// Same reports whether a and b denote the same catalog entry. Products are
// identified by name only.
func Same(a, b Product) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name() == b.Name()
}

// Compare orders products by price.
func Compare(a, b Product) int {
	return a.Price().Cmp(b.Price())
}

// SortByPrice sorts products by ascending price, keeping the catalog order of
// equally priced products.
func SortByPrice(products []Product) {
	slices.SortStableFunc(products, Compare)
}

// Clone returns a detached copy of p. Buying from the copy does not change p.
// The promotion is shared, since promotions are immutable.
func Clone(p Product) Product {
	switch v := p.(type) {
	case *Standard:
		c := *v
		return &c
	case *Unlimited:
		c := *v
		return &c
	case *Capped:
		c := *v
		return &c
	default:
		return nil
	}
}

// Describe renders a product for display, prefixing prices with currency.
func Describe(p Product, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | Price: %s%s | ", p.Name(), p.Price().StringFixed(2), currency)

	switch v := p.(type) {
	case *Unlimited:
		b.WriteString("Quantity: Unlimited")
	case *Capped:
		fmt.Fprintf(&b, "Quantity: %d | Maximum: %d", v.Quantity(), v.Maximum())
	default:
		fmt.Fprintf(&b, "Quantity: %d", p.Quantity())
	}

	if promo := p.Promotion(); promo != nil {
		fmt.Fprintf(&b, " | Promotion: %s", promo.Name())
	}
	return b.String()
}

// stock holds the state shared by every variant.
type stock struct {
	name     string
	price    decimal.Decimal
	quantity int
	promo    promotion.Promotion
}

func newStock(name string, price decimal.Decimal, quantity int) (stock, error) {
	if strings.TrimSpace(name) == "" {
		return stock{}, fault.Invalid("product name cannot be empty")
	}
	if price.IsNegative() {
		return stock{}, fault.Invalid("price cannot be negative")
	}
	if quantity < 0 {
		return stock{}, fault.Invalid("quantity cannot be negative")
	}
	return stock{name: name, price: price, quantity: quantity}, nil
}

// Name returns the product name.
func (s *stock) Name() string { return s.name }

// Price returns the unit price.
func (s *stock) Price() decimal.Decimal { return s.price }

// Quantity returns the units in stock.
func (s *stock) Quantity() int { return s.quantity }

// IsActive reports whether the product has stock left.
func (s *stock) IsActive() bool { return s.quantity > 0 }

// Promotion returns the attached promotion or nil.
func (s *stock) Promotion() promotion.Promotion { return s.promo }

// SetPromotion attaches p, replacing any previous promotion.
func (s *stock) SetPromotion(p promotion.Promotion) { s.promo = p }

func (*stock) sealed() {}

func (s *stock) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fault.Invalid("quantity cannot be negative")
	}
	s.quantity = quantity
	return nil
}

// charge prices quantity units through the attached promotion, if any.
func (s *stock) charge(quantity int) (decimal.Decimal, error) {
	if s.promo == nil {
		return s.price.Mul(decimal.NewFromInt(int64(quantity))).Round(2), nil
	}
	total, err := s.promo.Apply(s, quantity)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "apply promotion %q", s.promo.Name())
	}
	return total.Round(2), nil
}

// take checks stock, prices the purchase and then decrements stock, so a
// failed purchase leaves the quantity untouched.
func (s *stock) take(quantity int) (decimal.Decimal, error) {
	if quantity > s.quantity {
		return decimal.Zero, &InsufficientStockError{
			Product:   s.name,
			Requested: quantity,
			Available: s.quantity,
		}
	}
	total, err := s.charge(quantity)
	if err != nil {
		return decimal.Zero, err
	}
	s.quantity -= quantity
	return total, nil
}

func checkPurchase(quantity int) error {
	if quantity <= 0 {
		return fault.Invalid("quantity cannot be negative or 0")
	}
	return nil
}
