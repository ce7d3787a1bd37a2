package abc

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
// ABC SUPPLY API CLIENT
// =============================================================================
//
// ABC uses OAuth2 client credentials:
//   1. POST {auth} with HTTP Basic client_id:client_secret and
//      grant_type=client_credentials (form encoded)
//   2. Use access_token as a Bearer token on pricing and order calls
//
// Tokens default to a 600 second lifetime when expires_in is absent.
// =============================================================================

const (
	supplierLabel   = "ABC"
	defaultTokenTTL = 600 * time.Second
)

// Client is the ABC Supply HTTP client.
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
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		pricingURL: pricingURL,
		orderURL:   orderURL,
	}
}

// Authenticate performs the client-credentials handshake.
// Matches credentials.Authenticator.
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

// GetPricing posts a pricing request.
func (c *Client) GetPricing(ctx context.Context, accessToken string, body *PricingRequest) (*PricingResponse, error) {
	req, err := c.newRequest(ctx, c.pricingURL, body, accessToken)
	if err != nil {
		return nil, fmt.Errorf("creating pricing request: %w", err)
	}

	var resp PricingResponse
	if err := c.do(req, "Pricing", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitOrder posts an order.
func (c *Client) SubmitOrder(ctx context.Context, accessToken string, body *OrderRequest) (*OrderResponse, error) {
	req, err := c.newRequest(ctx, c.orderURL, body, accessToken)
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}

	var resp OrderResponse
	if err := c.do(req, "Order", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// newRequest creates a JSON POST with Bearer authentication.
func (c *Client) newRequest(ctx context.Context, url string, body any, accessToken string) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request and decodes a 2xx JSON response.
func (c *Client) do(req *http.Request, operation string, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError(supplierLabel, operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewUpstreamError(supplierLabel, operation, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FromStatus(supplierLabel, operation, resp.StatusCode, string(body))
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return model.NewUpstreamError(supplierLabel, operation, fmt.Errorf("parsing response: %w", err))
		}
	}
	return nil
}
