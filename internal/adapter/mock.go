package adapter

import (
	"context"

	"supplier-gateway/internal/model"
)

// Mock implements Supplier for testing.
// Each method can be configured via function fields.
type Mock struct {
	FetchPricingFunc func(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error)
	SubmitOrderFunc  func(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error)
}

// FetchPricing calls the configured FetchPricingFunc or echoes the lines unpriced.
func (m *Mock) FetchPricing(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
	if m.FetchPricingFunc != nil {
		return m.FetchPricingFunc(ctx, req)
	}
	items := make([]model.CartLine, len(req.Items))
	for i, item := range req.Items {
		items[i] = item.Unpriced("No pricing data returned")
	}
	return model.NewPricingResult(items), nil
}

// SubmitOrder calls the configured SubmitOrderFunc or returns an error.
func (m *Mock) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
	if m.SubmitOrderFunc != nil {
		return m.SubmitOrderFunc(ctx, req)
	}
	return nil, model.NewInternalError(nil)
}

// Verify Mock implements Supplier interface at compile time.
var _ Supplier = (*Mock)(nil)
