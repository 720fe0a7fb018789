// Package handler exposes the store and the order service as an HTTP JSON API.
package handler

import (
	"net/http"

	"github.com/xenking/stockroom/internal/domain/auth"
	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/store"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// Currency is appended to prices in the display string of products.
	Currency string
}

// Handler serves the catalog, stock and order endpoints.
type Handler struct {
	store        *store.Store
	orderService *order.Service
	currency     string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	s *store.Store,
	orderService *order.Service,
) *Handler {
	return &Handler{
		store:        s,
		orderService: orderService,
		currency:     cfg.Currency,
	}
}

// Register mounts the API routes on mux. Catalog changes require an API key
// with the catalog write scope.
func (h *Handler) Register(mux *http.ServeMux, security *SecurityHandler) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{name}", h.GetProduct)
	mux.HandleFunc("GET /api/stock", h.GetStock)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)

	mux.Handle("POST /api/products", security.Require(auth.ScopeCatalogWrite, http.HandlerFunc(h.AddProduct)))
	mux.Handle("DELETE /api/products/{name}", security.Require(auth.ScopeCatalogWrite, http.HandlerFunc(h.RemoveProduct)))
}
