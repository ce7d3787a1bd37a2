package abc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"supplier-gateway/internal/adapter"
	"supplier-gateway/internal/credentials"
	"supplier-gateway/internal/model"
)

// =============================================================================
// ABC SUPPLY ADAPTER
// =============================================================================
//
// Flow:
//   1. Obtain a bearer token from the credential cache (client credentials on a miss)
//   2. POST pricing or order with shipToNumber/branchNumber from the caller identifiers
//   3. Merge priced lines back onto the cart; totals are computed by the caller
//
// A 401/403 on a bearer call drops the cached token so the next request
// re-authenticates.
// =============================================================================

// Config holds the secrets and endpoint set for one environment.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	PricingURL   string
	OrderURL     string

	HTTPClient  *http.Client
	Credentials *credentials.Cache
	// Now stamps request ids; defaults to time.Now.
	Now func() time.Time
}

// Adapter implements adapter.Supplier for ABC Supply.
type Adapter struct {
	client   *Client
	cache    *credentials.Cache
	identity string
	now      func() time.Time
}

var _ adapter.Supplier = (*Adapter)(nil)

// New creates an ABC adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, model.NewConfigError("ABC credentials not configured. Please set ABC_CLIENT_ID and ABC_CLIENT_SECRET")
	}
	if cfg.AuthURL == "" || cfg.PricingURL == "" || cfg.OrderURL == "" {
		return nil, model.NewConfigError("ABC endpoints are incomplete")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credential cache is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Adapter{
		client:   NewClient(httpClient, cfg.ClientID, cfg.ClientSecret, cfg.AuthURL, cfg.PricingURL, cfg.OrderURL),
		cache:    cfg.Credentials,
		identity: credentials.Identity(supplierLabel, cfg.ClientID),
		now:      now,
	}, nil
}

// FetchPricing prices every line in one round-trip.
func (a *Adapter) FetchPricing(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
	tok, err := a.cache.Obtain(ctx, a.identity, a.client.Authenticate)
	if err != nil {
		return nil, err
	}

	body := &PricingRequest{
		RequestID:    fmt.Sprintf("REQ-%d", a.now().UnixMilli()),
		ShipToNumber: req.Identifiers.ShipToNumber,
		BranchNumber: req.Identifiers.BranchNumber,
		Purpose:      "ordering",
		Lines:        LinesToABC(req.Items),
	}

	resp, err := a.client.GetPricing(ctx, tok.Value, body)
	if err != nil {
		a.dropRefusedToken(err)
		return nil, err
	}

	return model.NewPricingResult(MergePricing(req.Items, resp)), nil
}

// SubmitOrder places an order. It is never retried.
func (a *Adapter) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
	if req.ShipTo == nil {
		return nil, model.NewValidationError("shipTo", "required for ABC orders")
	}

	tok, err := a.cache.Obtain(ctx, a.identity, a.client.Authenticate)
	if err != nil {
		return nil, err
	}

	body := &OrderRequest{
		RequestID:             fmt.Sprintf("ORD-%d", a.now().UnixMilli()),
		ShipToNumber:          req.Identifiers.ShipToNumber,
		BranchNumber:          req.Identifiers.BranchNumber,
		PONumber:              req.PONumber,
		RequestedDeliveryDate: req.DeliveryDate,
		SpecialInstructions:   req.Notes,
		ShipTo:                ShipToToABC(req.ShipTo),
		Lines:                 LinesToABC(req.Items),
	}

	resp, err := a.client.SubmitOrder(ctx, tok.Value, body)
	if err != nil {
		a.dropRefusedToken(err)
		return nil, err
	}

	if resp.RequestID == "" {
		resp.RequestID = body.RequestID
	}
	return OrderResultFromABC(resp), nil
}

func (a *Adapter) dropRefusedToken(err error) {
	if errors.Is(err, model.ErrAuthentication) {
		a.cache.Invalidate(a.identity)
	}
}
