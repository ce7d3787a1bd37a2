package beacon

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

// Config holds the login and endpoint set for one environment.
type Config struct {
	Username  string
	Password  string
	APISiteID string // optional; login falls back to UAT

	LoginURL   string
	PricingURL string
	OrderURL   string

	HTTPClient  *http.Client
	Credentials *credentials.Cache
	Now         func() time.Time
}

// Adapter implements adapter.Supplier for Beacon / QXO.
type Adapter struct {
	client   *Client
	cache    *credentials.Cache
	identity string
	now      func() time.Time
}

var _ adapter.Supplier = (*Adapter)(nil)

// New creates a Beacon adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, model.NewConfigError("Beacon credentials not configured. Please set BEACON_USERNAME and BEACON_PASSWORD")
	}
	if cfg.LoginURL == "" || cfg.PricingURL == "" || cfg.OrderURL == "" {
		return nil, model.NewConfigError("BEACON endpoints are incomplete")
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
		client:   NewClient(httpClient, cfg.Username, cfg.Password, cfg.APISiteID, cfg.LoginURL, cfg.PricingURL, cfg.OrderURL),
		cache:    cfg.Credentials,
		identity: credentials.Identity(supplierLabel, cfg.Username),
		now:      now,
	}, nil
}

// FetchPricing prices the cart with one GET.
func (a *Adapter) FetchPricing(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
	session, err := a.cache.Obtain(ctx, a.identity, a.client.Login)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.GetPricing(ctx, session.Value, SKUIDs(req.Items),
		req.Identifiers.AccountID, req.Identifiers.JobNumber)
	if err != nil {
		a.dropRefusedSession(err)
		return nil, err
	}

	return model.NewPricingResult(MergePricing(req.Items, resp)), nil
}

// SubmitOrder places an order. It is never retried.
func (a *Adapter) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
	session, err := a.cache.Obtain(ctx, a.identity, a.client.Login)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.SubmitOrder(ctx, session.Value, req.Identifiers.AccountID, OrderToBeacon(req))
	if err != nil {
		a.dropRefusedSession(err)
		return nil, err
	}

	orderID := resp.OrderID
	if orderID == "" {
		orderID = resp.OrderNumber
	}
	if orderID == "" {
		orderID = fmt.Sprintf("QXO-%d", a.now().UnixMilli())
	}
	message := resp.Message
	if message == "" {
		message = model.OrderSubmittedMessage
	}

	return &model.OrderSubmissionResult{
		OrderID: orderID,
		Status:  model.OrderStatusSubmitted,
		Message: message,
	}, nil
}

func (a *Adapter) dropRefusedSession(err error) {
	if errors.Is(err, model.ErrAuthentication) {
		a.cache.Invalidate(a.identity)
	}
}
