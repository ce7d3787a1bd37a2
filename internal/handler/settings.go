package handler

import (
	"net/http"

	"supplier-gateway/internal/model"
)

// handleGetSettings returns the whole routing document.
// GET /api/settings
func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.gateway.Settings(r.Context()))
}

// handleReplaceSettings overwrites the routing document.
// PUT /api/settings
func (h *Handler) handleReplaceSettings(w http.ResponseWriter, r *http.Request) {
	var raw map[string]map[string]string
	if err := decodeJSON(r, &raw); err != nil {
		h.writeError(w, err)
		return
	}

	s, err := h.gateway.ReplaceSettings(r.Context(), raw)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// handleGetEnvironment returns one effective environment.
// GET /api/settings/{supplier}/{action}
func (h *Handler) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	supplier := r.PathValue("supplier")
	action, err := model.ParseAction(r.PathValue("action"))
	if err != nil {
		h.writeError(w, model.NewValidationError("action", err.Error()))
		return
	}

	env, err := h.gateway.GetEffectiveEnvironment(r.Context(), supplier, action)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, EnvironmentResponse{Supplier: supplier, Action: action, Environment: env})
}

// handleSetEnvironment changes one supplier action's environment.
// PATCH /api/settings/{supplier}/{action}
func (h *Handler) handleSetEnvironment(w http.ResponseWriter, r *http.Request) {
	action, err := model.ParseAction(r.PathValue("action"))
	if err != nil {
		h.writeError(w, model.NewValidationError("action", err.Error()))
		return
	}

	var req EnvironmentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	env, err := model.ParseEnvironment(req.Env)
	if err != nil {
		h.writeError(w, model.NewValidationError("env", err.Error()))
		return
	}

	s, err := h.gateway.SetEffectiveEnvironment(r.Context(), r.PathValue("supplier"), action, env)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}
