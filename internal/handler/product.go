package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/catalog"
	"github.com/xenking/stockroom/internal/domain/fault"
)

// ListProducts returns the active products in catalog order.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.store.Snapshot()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range products {
			encodeProduct(e, p, h.currency)
		}
		e.ArrEnd()
	})
}

// GetProduct returns a single product by name, active or not.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.PathValue("name"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, p, h.currency)
	})
}

// GetStock reports the total number of units in stock.
func (h *Handler) GetStock(w http.ResponseWriter, _ *http.Request) {
	total := h.store.TotalQuantity()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("total_quantity", func(e *jx.Encoder) { e.Int(total) })
		})
	})
}

// AddProduct adds a product to the catalog, or merges its quantity into the
// product of the same name.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	p, err := catalog.DecodeProduct(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		if !errors.Is(err, fault.ErrInvalidType) && !errors.Is(err, fault.ErrInvalidValue) && !errors.Is(err, fault.ErrNotFound) {
			err = errors.Wrap(errBadRequest, err.Error())
		}
		respondError(w, r, err)
		return
	}

	msg, err := h.store.AddProduct(p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	entry, err := h.store.Get(p.Name())
	if err != nil {
		respondError(w, r, err)
		return
	}

	zctx.From(r.Context()).Info("Catalog updated",
		zap.String("product", p.Name()),
		zap.Int("quantity", entry.Quantity()),
	)
	writeMessage(w, http.StatusOK, msg, entry, h.currency)
}

// RemoveProduct removes a product from the catalog by name.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Find(r.PathValue("name"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	msg, err := h.store.RemoveProduct(p)
	if err != nil {
		respondError(w, r, err)
		return
	}

	zctx.From(r.Context()).Info("Product removed", zap.String("product", p.Name()))
	writeMessage(w, http.StatusOK, msg, nil, h.currency)
}
