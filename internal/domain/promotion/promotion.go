// Package promotion implements the pricing strategies that can be attached to
// a product and are applied when the product is bought.
package promotion

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/fault"
)

// Kind enumerates the supported promotion strategies.
type Kind string

const (
	// KindPercent takes a fixed percentage off the whole line.
	KindPercent Kind = "percent"
	// KindSecondHalfPrice sells every second unit at half price.
	KindSecondHalfPrice Kind = "second_half_price"
	// KindThirdOneFree gives away one unit out of every three.
	KindThirdOneFree Kind = "third_one_free"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// Priced is the part of a product a promotion needs: its unit price.
type Priced interface {
	Price() decimal.Decimal
}

// Promotion computes the charge for buying a quantity of a product.
//
// Implementations are immutable once constructed, so one promotion may be
// attached to any number of products.
type Promotion interface {
	Name() string
	Kind() Kind
	// Apply returns the unrounded charge for quantity units of p.
	Apply(p Priced, quantity int) (decimal.Decimal, error)

	sealed()
}

// New builds the promotion of the given kind. The percent argument is only
// used by KindPercent.
func New(kind Kind, name string, percent decimal.Decimal) (Promotion, error) {
	switch kind {
	case KindPercent:
		return NewPercentDiscount(name, percent)
	case KindSecondHalfPrice:
		return NewSecondHalfPrice(name)
	case KindThirdOneFree:
		return NewThirdOneFree(name)
	default:
		return nil, errors.Wrapf(fault.ErrInvalidType, "unsupported promotion kind %q", kind)
	}
}

type base struct {
	name string
}

func newBase(name string) (base, error) {
	if strings.TrimSpace(name) == "" {
		return base{}, fault.Invalid("promotion name cannot be empty")
	}
	return base{name: name}, nil
}

// Name returns the display name of the promotion.
func (b base) Name() string { return b.name }

func (base) sealed() {}

// checkArgs validates the common Apply arguments and returns the unit price
// and quantity as decimals.
func checkArgs(p Priced, quantity int) (price, qty decimal.Decimal, err error) {
	if p == nil {
		return price, qty, errors.Wrap(fault.ErrInvalidType, "promotion requires a product")
	}
	if quantity < 0 {
		return price, qty, fault.Invalid("quantity cannot be negative")
	}
	return p.Price(), decimal.NewFromInt(int64(quantity)), nil
}

// PercentDiscount takes Percent percent off the full line price.
type PercentDiscount struct {
	base
	percent decimal.Decimal
}

// NewPercentDiscount creates a PercentDiscount. The percent must lie strictly
// between 0 and 100.
func NewPercentDiscount(name string, percent decimal.Decimal) (*PercentDiscount, error) {
	b, err := newBase(name)
	if err != nil {
		return nil, err
	}
	if !percent.IsPositive() || percent.GreaterThanOrEqual(hundred) {
		return nil, fault.Invalidf("percent must be greater than 0 and less than 100, got %s", percent)
	}
	return &PercentDiscount{base: b, percent: percent}, nil
}

// Kind implements Promotion.
func (*PercentDiscount) Kind() Kind { return KindPercent }

// Percent returns the discount percentage.
func (d *PercentDiscount) Percent() decimal.Decimal { return d.percent }

// Apply implements Promotion.
func (d *PercentDiscount) Apply(p Priced, quantity int) (decimal.Decimal, error) {
	price, qty, err := checkArgs(p, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	total := price.Mul(qty)
	return total.Sub(total.Mul(d.percent).Div(hundred)), nil
}

// SecondHalfPrice pairs consecutive units and charges half for the second
// unit of every pair.
type SecondHalfPrice struct {
	base
}

// NewSecondHalfPrice creates a SecondHalfPrice promotion.
func NewSecondHalfPrice(name string) (*SecondHalfPrice, error) {
	b, err := newBase(name)
	if err != nil {
		return nil, err
	}
	return &SecondHalfPrice{base: b}, nil
}

// Kind implements Promotion.
func (*SecondHalfPrice) Kind() Kind { return KindSecondHalfPrice }

// Apply implements Promotion.
func (*SecondHalfPrice) Apply(p Priced, quantity int) (decimal.Decimal, error) {
	price, _, err := checkArgs(p, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	full := decimal.NewFromInt(int64(quantity/2 + quantity%2))
	halved := decimal.NewFromInt(int64(quantity / 2))
	return price.Mul(full).Add(price.Mul(halved).Mul(half)), nil
}

// ThirdOneFree charges for two units out of every three.
type ThirdOneFree struct {
	base
}

// NewThirdOneFree creates a ThirdOneFree promotion.
func NewThirdOneFree(name string) (*ThirdOneFree, error) {
	b, err := newBase(name)
	if err != nil {
		return nil, err
	}
	return &ThirdOneFree{base: b}, nil
}

// Kind implements Promotion.
func (*ThirdOneFree) Kind() Kind { return KindThirdOneFree }

// Apply implements Promotion.
func (*ThirdOneFree) Apply(p Priced, quantity int) (decimal.Decimal, error) {
	price, _, err := checkArgs(p, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	payable := decimal.NewFromInt(int64(quantity/3*2 + quantity%3))
	return price.Mul(payable), nil
}
