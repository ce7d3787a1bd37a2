package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"supplier-gateway/internal/model"
)

// =============================================================================
// BEACON (QXO) API CLIENT
// =============================================================================
//
// Beacon authenticates with a username/password login that returns a session
// cookie. The cookie's name=value segment is replayed in the Cookie header on
// pricing and order calls. Sessions are treated as valid for 55 minutes.
//
// Beacon reports some failures inside 2xx bodies via messageCode.
// =============================================================================

const (
	supplierLabel     = "BEACON"
	sessionTTL        = 55 * time.Minute
	defaultAPISiteID  = "UAT"
	loginSiteID       = "homeSite"
	persistentLogin   = "RememberMe"
	loginUserAgent    = "desktop"
	emptyUOMPriceKey  = "EMPTY_UOM"
	maxErrorBodyBytes = 4096
)

var errNoSessionCookie = errors.New("login did not return a session cookie")

// Client is the Beacon HTTP client.
type Client struct {
	httpClient *http.Client
	username   string
	password   string
	apiSiteID  string
	loginURL   string
	pricingURL string
	orderURL   string
}

// NewClient creates a client for one endpoint set.
func NewClient(httpClient *http.Client, username, password, apiSiteID, loginURL, pricingURL, orderURL string) *Client {
	return &Client{
		httpClient: httpClient,
		username:   username,
		password:   password,
		apiSiteID:  apiSiteID,
		loginURL:   loginURL,
		pricingURL: pricingURL,
		orderURL:   orderURL,
	}
}

// Login obtains a session cookie. Matches credentials.Authenticator.
func (c *Client) Login(ctx context.Context) (string, time.Duration, error) {
	siteID := c.apiSiteID
	if siteID == "" {
		siteID = defaultAPISiteID
	}
	body, err := json.Marshal(LoginRequest{
		Username:            c.username,
		Password:            c.password,
		SiteID:              loginSiteID,
		PersistentLoginType: persistentLogin,
		UserAgent:           loginUserAgent,
		APISiteID:           siteID,
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshaling login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, model.NewAuthError(supplierLabel, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, model.NewAuthError(supplierLabel, fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var env Envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return "", 0, model.NewAuthError(supplierLabel, fmt.Errorf("parsing login response: %w", err))
		}
	}
	if env.MessageCode != "" {
		return "", 0, model.NewAuthError(supplierLabel, fmt.Errorf("%s - %s", env.MessageCode, env.Detail()))
	}

	cookie, _, _ := strings.Cut(resp.Header.Get("Set-Cookie"), ";")
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return "", 0, model.NewAuthError(supplierLabel, errNoSessionCookie)
	}
	return cookie, sessionTTL, nil
}

// GetPricing looks up prices for the given sku ids.
func (c *Client) GetPricing(ctx context.Context, cookie string, skuIDs []string, accountID, jobNumber string) (*PricingResponse, error) {
	params := url.Values{}
	params.Set("skuIds", strings.Join(skuIDs, ","))
	if accountID != "" {
		params.Set("accountId", accountID)
	}
	if jobNumber != "" {
		params.Set("jobNumber", jobNumber)
	}
	if c.apiSiteID != "" {
		params.Set("apiSiteId", c.apiSiteID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pricingURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating pricing request: %w", err)
	}

	var resp PricingResponse
	if err := c.do(req, cookie, "Pricing", &resp); err != nil {
		return nil, err
	}
	if resp.MessageCode != "" {
		return nil, model.NewSupplierError(supplierLabel, "Pricing", string(resp.MessageCode), resp.Detail())
	}
	return &resp, nil
}

// SubmitOrder posts an order.
func (c *Client) SubmitOrder(ctx context.Context, cookie string, accountID string, body *OrderRequest) (*OrderResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling order: %w", err)
	}

	target := c.orderURL
	params := url.Values{}
	if accountID != "" {
		params.Set("accountId", accountID)
	}
	if c.apiSiteID != "" {
		params.Set("apiSiteId", c.apiSiteID)
	}
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp OrderResponse
	if err := c.do(req, cookie, "Order", &resp); err != nil {
		return nil, err
	}
	if resp.MessageCode != "" {
		return nil, model.NewSupplierError(supplierLabel, "Order", string(resp.MessageCode), resp.Detail())
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request, cookie, operation string, result any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", cookie)

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
