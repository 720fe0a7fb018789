package store

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/stockroom/internal/domain/fault"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/promotion"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func standard(t *testing.T, name, price string, quantity int) product.Product {
	t.Helper()
	p, err := product.NewStandard(name, d(price), quantity)
	require.NoError(t, err)
	return p
}

func newStore(t *testing.T, products ...product.Product) *Store {
	t.Helper()
	s, err := New(products...)
	require.NoError(t, err)
	return s
}

func names(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name()
	}
	return out
}

func TestOrder_EndToEnd(t *testing.T) {
	widget := standard(t, "Widget", "10", 5)
	s := newStore(t, widget)

	total, err := s.Order([]Line{{Product: widget, Quantity: 5}})
	require.NoError(t, err)
	assert.True(t, d("50").Equal(total), "got %s", total)
	assert.Equal(t, 0, widget.Quantity())
	assert.False(t, widget.IsActive())
	assert.Empty(t, s.Products())
	assert.True(t, s.Contains(widget), "sold-out products stay in the catalog")
}

func TestOrder_MixedVariantsAndPromotions(t *testing.T) {
	second, err := promotion.NewSecondHalfPrice("Second Half price!")
	require.NoError(t, err)
	third, err := promotion.NewThirdOneFree("Third One Free!")
	require.NoError(t, err)
	pct, err := promotion.NewPercentDiscount("30% off!", d("30"))
	require.NoError(t, err)

	mac := standard(t, "MacBook Air M2", "1450", 100)
	mac.SetPromotion(second)
	bose := standard(t, "Bose QuietComfort Earbuds", "250", 500)
	bose.SetPromotion(third)
	license, err := product.NewUnlimited("Windows License", d("125"))
	require.NoError(t, err)
	license.SetPromotion(pct)
	shipping, err := product.NewCapped("Shipping", d("10"), 250, 1)
	require.NoError(t, err)

	s := newStore(t, mac, bose, license, shipping)

	f, err := s.Fulfill([]Line{
		{Product: mac, Quantity: 2},
		{Product: bose, Quantity: 3},
		{Product: license, Quantity: 1},
		{Product: shipping, Quantity: 1},
	})
	require.NoError(t, err)

	// 2175 + 500 + 87.5 + 10
	assert.True(t, d("2772.5").Equal(f.Total), "got %s", f.Total)
	require.Len(t, f.Charges, 4)
	assert.True(t, d("2175").Equal(f.Charges[0].Amount))
	assert.True(t, d("87.5").Equal(f.Charges[2].Amount))
	assert.Equal(t, 98, mac.Quantity())
	assert.Equal(t, 497, bose.Quantity())
	assert.Equal(t, 0, license.Quantity())
	assert.Equal(t, 249, shipping.Quantity())
}

func TestOrder_LaterLineSeesReducedStock(t *testing.T) {
	p := standard(t, "Widget", "10", 5)
	s := newStore(t, p)

	_, err := s.Order([]Line{
		{Product: p, Quantity: 3},
		{Product: p, Quantity: 3},
	})
	require.ErrorIs(t, err, fault.ErrCapacityExceeded)

	var stockErr *product.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 2, p.Quantity())
}

func TestOrder_NotTransactional(t *testing.T) {
	tests := []struct {
		name    string
		second  func(t *testing.T, p product.Product) Line
		wantErr error
	}{
		{
			name:    "zero quantity",
			second:  func(_ *testing.T, p product.Product) Line { return Line{Product: p, Quantity: 0} },
			wantErr: fault.ErrInvalidValue,
		},
		{
			name:    "negative quantity",
			second:  func(_ *testing.T, p product.Product) Line { return Line{Product: p, Quantity: -2} },
			wantErr: fault.ErrInvalidValue,
		},
		{
			name: "unknown product",
			second: func(t *testing.T, _ product.Product) Line {
				return Line{Product: standard(t, "Gadget", "1", 10), Quantity: 1}
			},
			wantErr: fault.ErrNotFound,
		},
		{
			name:    "missing product",
			second:  func(_ *testing.T, _ product.Product) Line { return Line{Quantity: 1} },
			wantErr: fault.ErrInvalidType,
		},
		{
			name:    "insufficient stock",
			second:  func(_ *testing.T, p product.Product) Line { return Line{Product: p, Quantity: 50} },
			wantErr: fault.ErrCapacityExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := standard(t, "Widget", "10", 10)
			s := newStore(t, p)

			total, err := s.Order([]Line{
				{Product: p, Quantity: 3},
				tt.second(t, p),
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, total.IsZero())
			assert.Equal(t, 7, p.Quantity(), "first line stays applied")
		})
	}
}

func TestOrder_BuysCatalogEntry(t *testing.T) {
	stocked := standard(t, "Widget", "10", 5)
	s := newStore(t, stocked)

	// A different value with the same name refers to the catalog entry.
	ref := standard(t, "Widget", "999", 0)
	total, err := s.Order([]Line{{Product: ref, Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, d("20").Equal(total))
	assert.Equal(t, 3, stocked.Quantity())
	assert.Equal(t, 0, ref.Quantity())
}

func TestOrder_Empty(t *testing.T) {
	s := newStore(t, standard(t, "Widget", "10", 5))

	total, err := s.Order(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestAddProduct(t *testing.T) {
	t.Run("appends new products in order", func(t *testing.T) {
		s := newStore(t, standard(t, "A", "1", 1))

		msg, err := s.AddProduct(standard(t, "B", "2", 1))
		require.NoError(t, err)
		assert.Equal(t, `Product "B" added successfully.`, msg)
		assert.Equal(t, []string{"A", "B"}, names(s.Products()))
	})

	t.Run("merges equal products", func(t *testing.T) {
		first := standard(t, "Widget", "10", 5)
		s := newStore(t, first)

		msg, err := s.AddProduct(standard(t, "Widget", "20", 3))
		require.NoError(t, err)
		assert.Contains(t, msg, "Quantity was updated")

		msg, err = s.AddProduct(standard(t, "Widget", "30", 2))
		require.NoError(t, err)
		assert.Contains(t, msg, "Quantity was updated")

		require.Len(t, s.All(), 1)
		assert.Equal(t, 10, first.Quantity())
		assert.True(t, d("10").Equal(first.Price()), "price is not replaced")
		assert.Equal(t, 10, s.TotalQuantity())
	})

	t.Run("merge reactivates a sold-out product", func(t *testing.T) {
		first := standard(t, "Widget", "10", 0)
		s := newStore(t, first)
		require.Empty(t, s.Products())

		_, err := s.AddProduct(standard(t, "Widget", "10", 4))
		require.NoError(t, err)
		assert.Equal(t, []string{"Widget"}, names(s.Products()))
	})

	t.Run("stocked product into unlimited entry", func(t *testing.T) {
		license, err := product.NewUnlimited("License", d("125"))
		require.NoError(t, err)
		s := newStore(t, license)

		msg, err := s.AddProduct(standard(t, "License", "125", 5))
		require.NoError(t, err)
		assert.Equal(t, `Product "License" is already in the store. Its stock is unlimited.`, msg)
		assert.Equal(t, 0, license.Quantity())
		assert.Equal(t, 0, s.TotalQuantity())
	})

	t.Run("nil product", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddProduct(nil)
		require.ErrorIs(t, err, fault.ErrInvalidType)
	})

	t.Run("constructor merges duplicates", func(t *testing.T) {
		s := newStore(t,
			standard(t, "A", "1", 1),
			standard(t, "B", "1", 1),
			standard(t, "A", "1", 4),
		)
		assert.Equal(t, []string{"A", "B"}, names(s.All()))
		assert.Equal(t, 6, s.TotalQuantity())
	})
}

func TestRemoveProduct(t *testing.T) {
	a := standard(t, "A", "1", 1)
	b := standard(t, "B", "1", 1)
	s := newStore(t, a, b)

	msg, err := s.RemoveProduct(standard(t, "A", "5", 0))
	require.NoError(t, err)
	assert.Equal(t, `Product "A" removed successfully.`, msg)
	assert.False(t, s.Contains(a))
	assert.Equal(t, []string{"B"}, names(s.All()))

	_, err = s.RemoveProduct(a)
	require.ErrorIs(t, err, fault.ErrNotFound)

	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "A", nfErr.Product)

	_, err = s.RemoveProduct(nil)
	require.ErrorIs(t, err, fault.ErrInvalidType)
}

func TestProducts(t *testing.T) {
	license, err := product.NewUnlimited("License", d("125"))
	require.NoError(t, err)
	s := newStore(t,
		standard(t, "A", "1", 1),
		standard(t, "Empty", "1", 0),
		license,
		standard(t, "C", "1", 2),
	)

	snapshot := s.Products()
	assert.Equal(t, []string{"A", "License", "C"}, names(snapshot))

	_, err = s.AddProduct(standard(t, "D", "1", 1))
	require.NoError(t, err)
	assert.Len(t, snapshot, 3, "snapshot is not a live view")
	assert.Equal(t, []string{"A", "License", "C", "D"}, names(s.Products()))
}

func TestTotalQuantity(t *testing.T) {
	license, err := product.NewUnlimited("License", d("125"))
	require.NoError(t, err)
	a := standard(t, "A", "1", 3)
	s := newStore(t, a, license, standard(t, "B", "1", 4))
	assert.Equal(t, 7, s.TotalQuantity())

	_, err = s.Order([]Line{{Product: a, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalQuantity())
}

func TestFind(t *testing.T) {
	a := standard(t, "A", "1", 3)
	s := newStore(t, a)

	got, err := s.Find("A")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = s.Find("missing")
	require.ErrorIs(t, err, fault.ErrNotFound)
}

func TestSnapshot(t *testing.T) {
	a := standard(t, "A", "1", 3)
	s := newStore(t, a, standard(t, "Empty", "1", 0))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.NotSame(t, a, snapshot[0])

	_, err := s.Order([]Line{{Product: a, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot[0].Quantity(), "copies do not follow the catalog")
	assert.Equal(t, 1, s.Snapshot()[0].Quantity())
}

func TestGet(t *testing.T) {
	a := standard(t, "A", "1", 3)
	s := newStore(t, a)

	got, err := s.Get("A")
	require.NoError(t, err)
	assert.NotSame(t, a, got)
	assert.Equal(t, 3, got.Quantity())

	_, err = got.Buy(3)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Quantity(), "buying from a copy leaves the entry alone")

	_, err = s.Get("missing")
	require.ErrorIs(t, err, fault.ErrNotFound)
}

func TestSnapshot_ConcurrentWithOrders(t *testing.T) {
	p := standard(t, "Widget", "1", 100)
	s := newStore(t, p)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Order([]Line{{Product: p, Quantity: 1}})
		}()
		go func() {
			defer wg.Done()
			for _, c := range s.Snapshot() {
				_ = product.Describe(c, "€")
			}
		}()
	}
	wg.Wait()

	got, err := s.Get("Widget")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Quantity())
}

func TestMerge(t *testing.T) {
	a := standard(t, "A", "1", 3)
	first := newStore(t, a, standard(t, "B", "1", 1))
	second := newStore(t, standard(t, "C", "1", 1), standard(t, "A", "1", 2))

	merged, err := first.Merge(second)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(merged.All()))
	assert.Equal(t, 5, a.Quantity())
	assert.Len(t, first.All(), 2)

	_, err = first.Merge(nil)
	require.ErrorIs(t, err, fault.ErrInvalidType)
}

func TestOrder_Concurrent(t *testing.T) {
	p := standard(t, "Widget", "1", 100)
	s := newStore(t, p)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for range 150 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Order([]Line{{Product: p, Quantity: 1}}); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, s.TotalQuantity())
	assert.Equal(t, 50, failed)
}
