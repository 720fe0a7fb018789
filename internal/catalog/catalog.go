// Package catalog loads product catalogs from JSON documents.
//
// A catalog document declares named promotions and the products that
// reference them:
//
//	{
//	  "promotions": [{"name": "30% off!", "kind": "percent", "percent": 30}],
//	  "products": [
//	    {"name": "Windows License", "kind": "unlimited", "price": 125, "promotion": "30% off!"}
//	  ]
//	}
//
// Prices and percents may be JSON numbers or strings. Files ending in ".gz"
// are decompressed transparently.
package catalog

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/fault"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/promotion"
	"github.com/xenking/stockroom/internal/domain/store"
)

//go:embed default.json
var defaultCatalog []byte

const readBufSize = 4096

type promotionEntry struct {
	name    string
	kind    promotion.Kind
	percent decimal.Decimal
}

type productEntry struct {
	name      string
	kind      product.Kind
	price     decimal.Decimal
	quantity  int
	maximum   int
	promotion string
	inline    *promotionEntry
}

// Default returns a store holding the built-in demo catalog.
func Default() (*store.Store, error) {
	products, err := Read(bytes.NewReader(defaultCatalog))
	if err != nil {
		return nil, errors.Wrap(err, "default catalog")
	}
	return store.New(products...)
}

// Open loads the catalog file at path into a new store.
func Open(path string) (*store.Store, error) {
	products, err := Load(path)
	if err != nil {
		return nil, err
	}
	return store.New(products...)
}

// Load reads the catalog file at path.
func Load(path string) ([]product.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	products, err := Read(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return products, nil
}

// DecodeProduct reads a single product object from r. Its promotion, if any,
// must be given inline:
//
//	{"name": "Cable", "price": 5, "quantity": 10, "promotion": {"name": "Half off", "kind": "percent", "percent": 50}}
func DecodeProduct(r io.Reader) (product.Product, error) {
	e, err := decodeProduct(jx.Decode(r, readBufSize))
	if err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	products, err := build(nil, []productEntry{e})
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

// Read decodes a catalog document and builds its products in document order.
// Promotions are shared between the products that name them.
func Read(r io.Reader) ([]product.Product, error) {
	var (
		promos   []promotionEntry
		products []productEntry
	)

	d := jx.Decode(r, readBufSize)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "promotions":
			return d.Arr(func(d *jx.Decoder) error {
				e, err := decodePromotion(d)
				if err != nil {
					return errors.Wrapf(err, "promotion %d", len(promos)+1)
				}
				promos = append(promos, e)
				return nil
			})
		case "products":
			return d.Arr(func(d *jx.Decoder) error {
				e, err := decodeProduct(d)
				if err != nil {
					return errors.Wrapf(err, "product %d", len(products)+1)
				}
				products = append(products, e)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	return build(promos, products)
}

func build(promos []promotionEntry, entries []productEntry) ([]product.Product, error) {
	byName := make(map[string]promotion.Promotion, len(promos))
	for _, e := range promos {
		if _, ok := byName[e.name]; ok {
			return nil, fault.Invalidf("duplicate promotion %q", e.name)
		}
		p, err := promotion.New(e.kind, e.name, e.percent)
		if err != nil {
			return nil, errors.Wrapf(err, "promotion %q", e.name)
		}
		byName[e.name] = p
	}

	out := make([]product.Product, 0, len(entries))
	for _, e := range entries {
		kind := e.kind
		if kind == "" {
			kind = product.KindStandard
		}
		p, err := product.New(kind, e.name, e.price, e.quantity, e.maximum)
		if err != nil {
			return nil, errors.Wrapf(err, "product %q", e.name)
		}
		switch {
		case e.inline != nil:
			promo, err := promotion.New(e.inline.kind, e.inline.name, e.inline.percent)
			if err != nil {
				return nil, errors.Wrapf(err, "product %q: promotion", e.name)
			}
			p.SetPromotion(promo)
		case e.promotion != "":
			promo, ok := byName[e.promotion]
			if !ok {
				return nil, errors.Wrapf(fault.ErrNotFound, "product %q: unknown promotion %q", e.name, e.promotion)
			}
			p.SetPromotion(promo)
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePromotion(d *jx.Decoder) (e promotionEntry, err error) {
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			e.name = v
			return err
		case "kind":
			v, err := d.Str()
			e.kind = promotion.Kind(v)
			return err
		case "percent":
			v, err := decodeDecimal(d)
			e.percent = v
			return err
		default:
			return d.Skip()
		}
	})
	return e, err
}

func decodeProduct(d *jx.Decoder) (e productEntry, err error) {
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			e.name = v
			return err
		case "kind":
			v, err := d.Str()
			e.kind = product.Kind(v)
			return err
		case "price":
			v, err := decodeDecimal(d)
			e.price = v
			return err
		case "quantity":
			v, err := d.Int()
			e.quantity = v
			return err
		case "maximum":
			v, err := d.Int()
			e.maximum = v
			return err
		case "promotion":
			if d.Next() == jx.Object {
				inline, err := decodePromotion(d)
				e.inline = &inline
				return err
			}
			v, err := d.Str()
			e.promotion = v
			return err
		default:
			return d.Skip()
		}
	})
	return e, err
}

// decodeDecimal accepts a JSON number or a numeric string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	num, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(num); err != nil {
		return decimal.Zero, errors.Wrap(fault.ErrInvalidValue, err.Error())
	}
	return v, nil
}
