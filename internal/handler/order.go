package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// PlaceOrder decodes the order request, delegates to the order service, and
// writes the receipt (or the mapped error).
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeOrderRequest(jx.Decode(io.LimitReader(r.Body, maxBodySize), readBufSize))
	if err != nil {
		respondError(w, r, errors.Wrap(errBadRequest, err.Error()))
		return
	}

	result, err := h.orderService.PlaceOrder(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, result)
	})
}

// GetOrder returns the receipt of a placed order.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderService.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}
