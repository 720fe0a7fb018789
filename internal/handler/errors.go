package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/fault"
	"github.com/xenking/stockroom/internal/domain/order"
)

// errBadRequest marks request bodies that could not be decoded.
var errBadRequest = errors.New("malformed request body")

// errorStatus maps domain errors to HTTP status codes. Unknown errors map to
// 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, fault.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, fault.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fault.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, fault.ErrInvalidValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal errors are logged and
// their details hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}
