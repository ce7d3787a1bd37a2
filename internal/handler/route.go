package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dunglas/httpsfv"

	"supplier-gateway/internal/gateway"
	"supplier-gateway/internal/model"
)

// RouteHeader names the response header that reports where a call was sent.
// Format (RFC 8941 Item): ABC;action=getPricing;env=sandbox
const RouteHeader = "Supplier-Route"

// FormatRouteHeader serializes a route as a structured field item.
func FormatRouteHeader(route gateway.Route) (string, error) {
	item := httpsfv.NewItem(httpsfv.Token(route.Supplier))
	item.Params.Add("action", httpsfv.Token(route.Action))
	item.Params.Add("env", httpsfv.Token(route.Environment))
	return httpsfv.Marshal(item)
}

// ParseRouteHeader reads a Supplier-Route header value.
func ParseRouteHeader(header string) (gateway.Route, error) {
	item, err := httpsfv.UnmarshalItem([]string{header})
	if err != nil {
		return gateway.Route{}, fmt.Errorf("invalid %s header: %w", RouteHeader, err)
	}

	supplier, ok := item.Value.(httpsfv.Token)
	if !ok {
		return gateway.Route{}, errors.New("supplier must be a token")
	}
	route := gateway.Route{Supplier: string(supplier)}

	if v, ok := item.Params.Get("action"); ok {
		if tok, ok := v.(httpsfv.Token); ok {
			route.Action = model.Action(tok)
		}
	}
	if v, ok := item.Params.Get("env"); ok {
		if tok, ok := v.(httpsfv.Token); ok {
			route.Environment = model.Environment(tok)
		}
	}
	return route, nil
}

func (h *Handler) setRouteHeader(w http.ResponseWriter, route gateway.Route) {
	value, err := FormatRouteHeader(route)
	if err != nil {
		h.logger.Warn("formatting route header", "error", err.Error())
		return
	}
	w.Header().Set(RouteHeader, value)
}
