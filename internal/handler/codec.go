package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/promotion"
)

const (
	maxBodySize = 1 << 20
	readBufSize = 512
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

func writeMessage(w http.ResponseWriter, status int, msg string, p product.Product, currency string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
			if p != nil {
				e.Field("product", func(e *jx.Encoder) { encodeProduct(e, p, currency) })
			}
		})
	})
}

// encodeProduct writes p as a JSON object. Prices are encoded as numbers with
// exactly two decimal places.
func encodeProduct(e *jx.Encoder, p product.Product, currency string) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(p.Name())
	e.FieldStart("kind")
	e.Str(string(p.Kind()))
	e.FieldStart("price")
	e.Num(jx.Num(p.Price().StringFixed(2)))
	if p.Kind() != product.KindUnlimited {
		e.FieldStart("quantity")
		e.Int(p.Quantity())
	}
	if c, ok := p.(*product.Capped); ok {
		e.FieldStart("maximum")
		e.Int(c.Maximum())
	}
	if promo := p.Promotion(); promo != nil {
		e.FieldStart("promotion")
		encodePromotion(e, promo)
	}
	e.FieldStart("active")
	e.Bool(p.IsActive())
	e.FieldStart("display")
	e.Str(product.Describe(p, currency))
	e.ObjEnd()
}

func encodePromotion(e *jx.Encoder, p promotion.Promotion) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(p.Name())
	e.FieldStart("kind")
	e.Str(string(p.Kind()))
	if pct, ok := p.(*promotion.PercentDiscount); ok {
		e.FieldStart("percent")
		e.Num(jx.Num(pct.Percent().String()))
	}
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("total")
	e.Num(jx.Num(o.Total.StringFixed(2)))
	e.FieldStart("created_at")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339))
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range o.Lines {
		e.ObjStart()
		e.FieldStart("product")
		e.Str(l.Product)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		e.FieldStart("charge")
		e.Num(jx.Num(l.Charge.StringFixed(2)))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// decodeOrderRequest reads {"items":[{"product":"name","quantity":n}]}.
func decodeOrderRequest(d *jx.Decoder) (order.PlaceOrderRequest, error) {
	var req order.PlaceOrderRequest
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var item order.Item
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "product":
					v, err := d.Str()
					item.Product = v
					return err
				case "quantity":
					v, err := d.Int()
					item.Quantity = v
					return err
				default:
					return d.Skip()
				}
			}); err != nil {
				return err
			}
			req.Items = append(req.Items, item)
			return nil
		})
	})
	return req, err
}
