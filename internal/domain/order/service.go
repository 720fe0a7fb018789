package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/store"
)

// ErrEmptyItems is returned when an order has no items.
var ErrEmptyItems = fmt.Errorf("items required")

// Catalog is the part of the store the order service depends on.
type Catalog interface {
	Find(name string) (product.Product, error)
	Fulfill(lines []store.Line) (*store.Fulfillment, error)
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	Items []Item
}

// Service places orders against the catalog and records their receipts.
type Service struct {
	catalog Catalog
	orders  Repository
	now     func() time.Time

	tracer trace.Tracer
	placed metric.Int64Counter
	failed metric.Int64Counter
	sold   metric.Int64Counter
}

// NewService creates an order Service. Telemetry is reported through the
// given providers.
func NewService(
	catalog Catalog,
	orders Repository,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Service, error) {
	meter := mp.Meter("stockroom/order")

	placed, err := meter.Int64Counter("stockroom.orders.placed",
		metric.WithDescription("Orders fulfilled successfully"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders placed counter")
	}
	failed, err := meter.Int64Counter("stockroom.orders.failed",
		metric.WithDescription("Orders aborted by a failing line"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders failed counter")
	}
	sold, err := meter.Int64Counter("stockroom.units.sold",
		metric.WithDescription("Units sold per product"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "units sold counter")
	}

	return &Service{
		catalog: catalog,
		orders:  orders,
		now:     time.Now,
		tracer:  tp.Tracer("stockroom/order"),
		placed:  placed,
		failed:  failed,
		sold:    sold,
	}, nil
}

// PlaceOrder resolves every item against the catalog, fulfills the order and
// stores its receipt.
//
// Unknown products are rejected before any stock is touched, so unlike
// store.Store.Order an unknown name in a later line does not leave earlier
// lines bought. Once fulfillment starts the store's rules apply: a failing
// line aborts the order but lines before it stay bought.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (_ *Order, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.Place",
		trace.WithAttributes(attribute.Int("order.items", len(req.Items))),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
			s.failed.Add(ctx, 1)
		}
		span.End()
	}()

	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	lines := make([]store.Line, len(req.Items))
	for i, item := range req.Items {
		p, err := s.catalog.Find(item.Product)
		if err != nil {
			return nil, err
		}
		lines[i] = store.Line{Product: p, Quantity: item.Quantity}
	}

	f, err := s.catalog.Fulfill(lines)
	if err != nil {
		return nil, errors.Wrap(err, "fulfill")
	}

	o := &Order{
		ID:        uuid.New().String(),
		Lines:     make([]Line, len(f.Charges)),
		Total:     f.Total,
		CreatedAt: s.now(),
	}
	for i, c := range f.Charges {
		o.Lines[i] = Line{
			Product:  c.Product.Name(),
			Quantity: c.Quantity,
			Charge:   c.Amount,
		}
		s.sold.Add(ctx, int64(c.Quantity), metric.WithAttributes(
			attribute.String("product.name", c.Product.Name()),
			attribute.String("product.kind", string(c.Product.Kind())),
		))
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	s.placed.Add(ctx, 1)
	span.SetAttributes(
		attribute.String("order.id", o.ID),
		attribute.String("order.total", o.Total.StringFixed(2)),
	)
	return o, nil
}

// GetOrder returns the receipt of a placed order.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}
