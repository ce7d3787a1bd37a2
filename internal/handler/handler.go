// Package handler provides the gateway's HTTP and MCP surfaces.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"supplier-gateway/internal/gateway"
	"supplier-gateway/internal/metrics"
	"supplier-gateway/internal/model"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	gateway *gateway.Gateway
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Handler. m may be nil, in which case /metrics is not served.
func New(g *gateway.Gateway, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		gateway: g,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Pricing and orders
	mux.HandleFunc("POST /api/pricing", h.handlePricing)
	mux.HandleFunc("POST /api/order", h.handleOrder)

	// Environment routing
	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.handleReplaceSettings)
	mux.HandleFunc("GET /api/settings/{supplier}/{action}", h.handleGetEnvironment)
	mux.HandleFunc("PATCH /api/settings/{supplier}/{action}", h.handleSetEnvironment)

	// Catalog and cart assembly
	mux.HandleFunc("GET /api/suppliers", h.handleListSuppliers)
	mux.HandleFunc("GET /api/suppliers/defaults/{supplier}", h.handleSupplierDefaults)
	mux.HandleFunc("POST /api/cart/lines", h.handleMergeCart)

	mux.Handle("/mcp", h.NewMCPHandler())

	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if !errors.As(err, &apiErr) {
		apiErr = model.NewInternalError(err)
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB.
const MaxRequestBodySize = 1 << 20

// decodeJSON reads JSON from request body into v.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
