package srs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"supplier-gateway/internal/model"
)

// =============================================================================
// SRS DISTRIBUTION API CLIENT
// =============================================================================
//
// SRS uses OAuth2 client credentials with the secret in the form body:
//   POST {auth}  client_id, client_secret, grant_type=client_credentials, scope=ALL
//
// Tokens default to a 3600 second lifetime when expires_in is absent.
// =============================================================================

const (
	supplierLabel   = "SRS"
	defaultTokenTTL = 3600 * time.Second
	tokenScope      = "ALL"
)

// Client is the SRS HTTP client.
type Client struct {
	httpClient *http.Client
	oauth      clientcredentials.Config
	pricingURL string
	orderURL   string
}

// NewClient creates a client for one endpoint set.
func NewClient(httpClient *http.Client, clientID, clientSecret, authURL, pricingURL, orderURL string) *Client {
	return &Client{
		httpClient: httpClient,
		oauth: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     authURL,
			Scopes:       []string{tokenScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		pricingURL: pricingURL,
		orderURL:   orderURL,
	}
}

// Authenticate fetches a new access token.
func (c *Client) Authenticate(ctx context.Context) (string, time.Duration, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth.Token(ctx)
	if err != nil {
		return "", 0, model.NewAuthError(supplierLabel, err)
	}

	ttl := defaultTokenTTL
	if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry)
	}
	return tok.AccessToken, ttl, nil
}

// GetPricing posts a pricing request; SRS answers with a bare array.
func (c *Client) GetPricing(ctx context.Context, accessToken string, body *PricingRequest) ([]PricedProduct, error) {
	var resp []PricedProduct
	if err := c.post(ctx, c.pricingURL, "Pricing", accessToken, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitOrder posts an order.
func (c *Client) SubmitOrder(ctx context.Context, accessToken string, body *OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.post(ctx, c.orderURL, "Order", accessToken, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, url, operation, accessToken string, body, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError(supplierLabel, operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewUpstreamError(supplierLabel, operation, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FromStatus(supplierLabel, operation, resp.StatusCode, string(respBody))
	}

	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return model.NewUpstreamError(supplierLabel, operation, fmt.Errorf("parsing response: %w", err))
		}
	}
	return nil
}
