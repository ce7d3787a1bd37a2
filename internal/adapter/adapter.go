// Package adapter defines the interface for supplier backend integrations.
// Adapters translate supplier-specific APIs to the gateway's cart model.
package adapter

import (
	"context"

	"supplier-gateway/internal/model"
)

// Supplier abstracts pricing and ordering against one external supplier.
// Each supplier (ABC, SRS, BEACON) provides its own implementation,
// selected by the registry at construction time.
//
// Implementations obtain credentials from the shared credential cache and
// translate wire errors into *model.APIError values.
type Supplier interface {
	// FetchPricing prices every line in req.Items. The result has the same
	// cardinality and order as the input. A line the supplier cannot price is
	// returned with PricingFetched=false and a PricingError; that is not an error.
	FetchPricing(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error)

	// SubmitOrder places an order. Any failure is returned as an error and the
	// call is never retried, since supplier order endpoints are not idempotent.
	SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error)
}
