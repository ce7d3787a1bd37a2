package handler

import (
	"net/http"
	"sort"

	"supplier-gateway/internal/model"
)

// handleListSuppliers lists configured suppliers.
// GET /api/suppliers
func (h *Handler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	catalog := h.gateway.Suppliers()
	out := make([]SupplierSummary, 0, len(catalog))
	for _, cfg := range catalog {
		envs := make([]model.Environment, 0, len(cfg.Endpoints))
		for env := range cfg.Endpoints {
			envs = append(envs, env)
		}
		sort.Slice(envs, func(i, j int) bool { return envs[i] > envs[j] })

		out = append(out, SupplierSummary{
			Key:          cfg.Key,
			Name:         cfg.Name,
			AuthKind:     string(cfg.AuthKind),
			Environments: envs,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// handleSupplierDefaults returns fallback identifiers for one supplier.
// GET /api/suppliers/defaults/{supplier}
func (h *Handler) handleSupplierDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.gateway.Defaults(r.PathValue("supplier"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, defaults)
}

// handleMergeCart adds lines to a cart.
// POST /api/cart/lines
func (h *Handler) handleMergeCart(w http.ResponseWriter, r *http.Request) {
	var req CartMergeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	cart, err := h.gateway.MergeCart(req.Cart, req.Lines)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, CartMergeResponse{Cart: cart})
}
