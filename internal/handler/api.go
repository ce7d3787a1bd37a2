package handler

import (
	"log/slog"
	"net/http"
)

// handlePricing prices a cart with one supplier.
// POST /api/pricing
func (h *Handler) handlePricing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PricingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pricing request",
		slog.String("supplier", req.Supplier),
		slog.Int("lines", len(req.Items)),
	)

	resp, err := h.gateway.FetchPricing(ctx, req.Supplier, req.Items, req.SupplierIdentifiers)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setRouteHeader(w, resp.Route)
	h.writeJSON(w, http.StatusOK, resp.PricingResult)
}

// handleOrder submits an order to one supplier.
// POST /api/order
func (h *Handler) handleOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order request",
		slog.String("supplier", req.Supplier),
		slog.Int("lines", len(req.Items)),
		slog.String("po_number", req.PONumber),
	)

	resp, err := h.gateway.SubmitOrder(ctx, req.Supplier, req.toModel())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setRouteHeader(w, resp.Route)
	h.writeJSON(w, http.StatusCreated, resp.OrderSubmissionResult)
}
