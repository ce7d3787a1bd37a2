// Package gateway is the single internal contract over every supplier:
// fetch pricing, submit an order, and read or change which environment each
// supplier action targets.
//
// Every call re-reads the environment setting, fills identifier defaults from
// the catalog, validates caller input, resolves a fresh adapter and recomputes
// totals from the returned per-line prices.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"supplier-gateway/internal/adapter"
	"supplier-gateway/internal/metrics"
	"supplier-gateway/internal/model"
	"supplier-gateway/internal/registry"
	"supplier-gateway/internal/settings"
)

// Resolver builds supplier adapters. *registry.Registry implements it.
type Resolver interface {
	Resolve(key string, env model.Environment) (adapter.Supplier, error)
	Lookup(key string) (registry.SupplierConfig, bool)
	Defaults(key string) map[string]string
	Catalog() []registry.SupplierConfig
}

// Gateway routes requests to supplier adapters.
type Gateway struct {
	resolver Resolver
	router   *settings.Router
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a gateway. m may be nil.
func New(resolver Resolver, router *settings.Router, m *metrics.Metrics, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		resolver: resolver,
		router:   router,
		metrics:  m,
		logger:   logger,
	}
}

// Route names the resolved target of a call.
type Route struct {
	Supplier    string
	Action      model.Action
	Environment model.Environment
}

// PricingResponse is a pricing result plus where it was routed.
type PricingResponse struct {
	*model.PricingResult
	Route Route `json:"-"`
}

// OrderResponse is an order result plus where it was routed.
type OrderResponse struct {
	*model.OrderSubmissionResult
	Route Route `json:"-"`
}

// FetchPricing prices items with supplier. Lines the supplier cannot price
// come back with pricingFetched=false; only request-level failures are errors.
func (g *Gateway) FetchPricing(ctx context.Context, supplier string, items []model.CartLine, ids model.SupplierIdentifiers) (*PricingResponse, error) {
	supplier, err := g.knownSupplier(supplier)
	if err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	ids = ids.WithDefaults(g.resolver.Defaults(supplier))
	if err := validatePricing(supplier, ids); err != nil {
		return nil, err
	}

	route, sup, err := g.resolve(ctx, supplier, model.ActionGetPricing)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := sup.FetchPricing(ctx, &model.PricingRequest{Items: items, Identifiers: ids})
	if err == nil && (result == nil || len(result.Items) != len(items)) {
		err = model.NewInternalError(fmt.Errorf("%s returned a different number of lines", supplier))
	}
	g.observe(ctx, route, len(items), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	// Totals are never trusted from the adapter or the caller.
	priced := model.NewPricingResult(result.Items)

	unpriced := 0
	for _, line := range priced.Items {
		if !line.PricingFetched {
			unpriced++
		}
	}
	g.metrics.AddUnpricedLines(supplier, unpriced)

	return &PricingResponse{PricingResult: priced, Route: route}, nil
}

// SubmitOrder places an order with supplier. Failures are returned as-is and
// never retried: supplier order endpoints are not idempotent.
func (g *Gateway) SubmitOrder(ctx context.Context, supplier string, req *model.OrderRequest) (*OrderResponse, error) {
	supplier, err := g.knownSupplier(supplier)
	if err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	order := *req
	order.Identifiers = order.Identifiers.WithDefaults(g.resolver.Defaults(supplier))
	if err := validateOrder(supplier, &order); err != nil {
		return nil, err
	}

	route, sup, err := g.resolve(ctx, supplier, model.ActionSubmitOrder)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := sup.SubmitOrder(ctx, &order)
	if err == nil && result == nil {
		err = model.NewInternalError(fmt.Errorf("%s returned no order result", supplier))
	}
	g.observe(ctx, route, len(order.Items), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "order submitted",
		slog.String("supplier", supplier),
		slog.String("environment", string(route.Environment)),
		slog.String("order_id", result.OrderID),
	)
	return &OrderResponse{OrderSubmissionResult: result, Route: route}, nil
}

// GetEffectiveEnvironment returns where supplier's action is routed.
func (g *Gateway) GetEffectiveEnvironment(ctx context.Context, supplier string, action model.Action) (model.Environment, error) {
	supplier, err := g.knownSupplier(supplier)
	if err != nil {
		return "", err
	}
	return g.router.EffectiveEnvironment(ctx, supplier, action), nil
}

// SetEffectiveEnvironment persists a new routing for supplier's action.
func (g *Gateway) SetEffectiveEnvironment(ctx context.Context, supplier string, action model.Action, env model.Environment) (settings.Settings, error) {
	supplier, err := g.knownSupplier(supplier)
	if err != nil {
		return nil, err
	}
	return g.router.SetEnvironment(ctx, supplier, action, env)
}

// Settings returns the full routing document.
func (g *Gateway) Settings(ctx context.Context) settings.Settings {
	return g.router.Settings(ctx)
}

// ReplaceSettings overwrites the routing document.
func (g *Gateway) ReplaceSettings(ctx context.Context, raw map[string]map[string]string) (settings.Settings, error) {
	for supplier := range raw {
		if _, err := g.knownSupplier(supplier); err != nil {
			return nil, err
		}
	}
	return g.router.Replace(ctx, raw)
}

// Suppliers lists the catalog.
func (g *Gateway) Suppliers() []registry.SupplierConfig {
	return g.resolver.Catalog()
}

// Defaults returns the catalog's fallback identifiers for supplier.
func (g *Gateway) Defaults(supplier string) (map[string]string, error) {
	supplier, err := g.knownSupplier(supplier)
	if err != nil {
		return nil, err
	}
	return g.resolver.Defaults(supplier), nil
}

// MergeCart adds lines to a cart, combining lines with the same
// (sku, variant, uom) by summing quantities.
func (g *Gateway) MergeCart(cart, additions []model.CartLine) ([]model.CartLine, error) {
	if err := validateItems(additions); err != nil {
		return nil, err
	}
	return model.MergeLines(cart, additions...), nil
}

func (g *Gateway) knownSupplier(supplier string) (string, error) {
	supplier = strings.ToUpper(strings.TrimSpace(supplier))
	if supplier == "" {
		return "", model.NewValidationError("supplier", "required")
	}
	if _, ok := g.resolver.Lookup(supplier); !ok {
		return "", model.NewConfigError(fmt.Sprintf("Supplier %s not found in config", supplier))
	}
	return supplier, nil
}

func (g *Gateway) resolve(ctx context.Context, supplier string, action model.Action) (Route, adapter.Supplier, error) {
	route := Route{
		Supplier:    supplier,
		Action:      action,
		Environment: g.router.EffectiveEnvironment(ctx, supplier, action),
	}
	sup, err := g.resolver.Resolve(supplier, route.Environment)
	if err != nil {
		g.logger.ErrorContext(ctx, "supplier configuration error",
			slog.String("supplier", supplier),
			slog.String("environment", string(route.Environment)),
			slog.String("error", err.Error()),
		)
		return route, nil, err
	}
	return route, sup, nil
}

func (g *Gateway) observe(ctx context.Context, route Route, lines int, err error, elapsed time.Duration) {
	g.metrics.ObserveSupplierCall(route.Supplier, string(route.Action), string(route.Environment), err, elapsed)

	attrs := []any{
		slog.String("supplier", route.Supplier),
		slog.String("action", string(route.Action)),
		slog.String("environment", string(route.Environment)),
		slog.Int("lines", lines),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		g.logger.WarnContext(ctx, "supplier call failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	g.logger.InfoContext(ctx, "supplier call", attrs...)
}
