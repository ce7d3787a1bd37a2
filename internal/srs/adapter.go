package srs

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

// Config holds the secrets and endpoint set for one environment.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	PricingURL   string
	OrderURL     string

	HTTPClient  *http.Client
	Credentials *credentials.Cache
	Now         func() time.Time
}

// Adapter implements adapter.Supplier for SRS Distribution.
type Adapter struct {
	client   *Client
	cache    *credentials.Cache
	identity string
	now      func() time.Time
}

var _ adapter.Supplier = (*Adapter)(nil)

// New creates an SRS adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, model.NewConfigError("SRS credentials not configured. Please set SRS_CLIENT_ID and SRS_CLIENT_SECRET")
	}
	if cfg.AuthURL == "" || cfg.PricingURL == "" || cfg.OrderURL == "" {
		return nil, model.NewConfigError("SRS endpoints are incomplete")
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

// FetchPricing prices the cart by product name.
func (a *Adapter) FetchPricing(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
	tok, err := a.cache.Obtain(ctx, a.identity, a.client.Authenticate)
	if err != nil {
		return nil, err
	}

	body := &PricingRequest{
		SourceSystem:     sourceSystem,
		CustomerCode:     req.Identifiers.CustomerCode,
		BranchCode:       req.Identifiers.BranchCode,
		TransactionID:    fmt.Sprintf("TXN-%d", a.now().UnixMilli()),
		JobAccountNumber: jobAccountNumber,
		ProductList:      ProductsToSRS(req.Items),
	}

	resp, err := a.client.GetPricing(ctx, tok.Value, body)
	if err != nil {
		a.dropRefusedToken(err)
		return nil, err
	}

	return model.NewPricingResult(MergePricing(req.Items, resp)), nil
}

// SubmitOrder validates and places an order. It is never retried.
func (a *Adapter) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
	now := a.now()
	transactionID := fmt.Sprintf("ORD-%d", now.UnixMilli())

	body, err := BuildOrder(req, transactionID, now)
	if err != nil {
		return nil, err
	}

	tok, err := a.cache.Obtain(ctx, a.identity, a.client.Authenticate)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.SubmitOrder(ctx, tok.Value, body)
	if err != nil {
		a.dropRefusedToken(err)
		return nil, err
	}
	return OrderResultFromSRS(resp, transactionID), nil
}

func (a *Adapter) dropRefusedToken(err error) {
	if errors.Is(err, model.ErrAuthentication) {
		a.cache.Invalidate(a.identity)
	}
}
