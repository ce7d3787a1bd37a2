package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"supplier-gateway/internal/adapter"
	"supplier-gateway/internal/gateway"
	"supplier-gateway/internal/metrics"
	"supplier-gateway/internal/model"
	"supplier-gateway/internal/registry"
	"supplier-gateway/internal/settings"
)

// mockResolver hands out one adapter.Mock per supplier key.
type mockResolver struct {
	mocks map[string]*adapter.Mock
}

func (m *mockResolver) Resolve(key string, env model.Environment) (adapter.Supplier, error) {
	return m.mocks[key], nil
}

func (m *mockResolver) Lookup(key string) (registry.SupplierConfig, bool) {
	for _, c := range registry.DefaultCatalog() {
		if c.Key == key {
			return c, true
		}
	}
	return registry.SupplierConfig{}, false
}

func (m *mockResolver) Defaults(key string) map[string]string {
	c, _ := m.Lookup(key)
	return c.Defaults
}

func (m *mockResolver) Catalog() []registry.SupplierConfig { return registry.DefaultCatalog() }

func testHandler(mocks map[string]*adapter.Mock) (*Handler, *http.ServeMux) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, key := range []string{"ABC", "SRS", "BEACON"} {
		if mocks[key] == nil {
			mocks[key] = &adapter.Mock{}
		}
	}
	router := settings.NewRouter(settings.NewMemoryStore(), []string{"ABC", "SRS", "BEACON"}, logger)
	m := metrics.New()
	g := gateway.New(&mockResolver{mocks: mocks}, router, m, logger)

	h := New(g, m, logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

// pricedAt prices every line at price.
func pricedAt(price int64) func(context.Context, *model.PricingRequest) (*model.PricingResult, error) {
	return func(_ context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
		items := make([]model.CartLine, len(req.Items))
		for i, item := range req.Items {
			items[i] = item.Priced(decimal.NewFromInt(price))
		}
		return model.NewPricingResult(items), nil
	}
}

func getErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error body: %v\nBody: %s", err, body)
	}
	return resp.Error.Code
}

func TestHandleHealth(t *testing.T) {
	_, mux := testHandler(map[string]*adapter.Mock{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp healthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("Status = %s, want ok", resp.Status)
	}
}

func TestHandlePricing(t *testing.T) {
	var seen model.SupplierIdentifiers
	abc := &adapter.Mock{
		FetchPricingFunc: func(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
			seen = req.Identifiers
			return pricedAt(10)(ctx, req)
		},
	}
	_, mux := testHandler(map[string]*adapter.Mock{"ABC": abc})

	body := `{"supplier":"abc","items":[{"sku":"SHNG-1","title":"Shingles","quantity":2}],"branchNumber":"100"}`
	req := httptest.NewRequest("POST", "/api/pricing", strings.NewReader(body))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d\nBody: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result model.PricingResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Items) != 1 || !result.Items[0].PricingFetched {
		t.Fatalf("Items = %+v", result.Items)
	}
	if got := result.Totals.GrandTotal.String(); got != "21.6" {
		t.Errorf("GrandTotal = %s, want 21.6", got)
	}

	if seen.BranchNumber != "100" {
		t.Errorf("BranchNumber = %q, want caller value 100", seen.BranchNumber)
	}
	if seen.ShipToNumber != "2063975-2" {
		t.Errorf("ShipToNumber = %q, want catalog default", seen.ShipToNumber)
	}

	route, err := ParseRouteHeader(w.Header().Get(RouteHeader))
	if err != nil {
		t.Fatalf("ParseRouteHeader: %v", err)
	}
	want := gateway.Route{Supplier: "ABC", Action: model.ActionGetPricing, Environment: model.EnvSandbox}
	if route != want {
		t.Errorf("route = %+v, want %+v", route, want)
	}
}

func TestHandlePricingErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mock       *adapter.Mock
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid JSON",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing supplier",
			body:       `{"items":[{"sku":"A","quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown supplier",
			body:       `{"supplier":"ACME","items":[{"sku":"A","quantity":1}]}`,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "CONFIGURATION_ERROR",
		},
		{
			name:       "zero quantity",
			body:       `{"supplier":"ABC","items":[{"sku":"A","quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "supplier auth failure",
			body: `{"supplier":"ABC","items":[{"sku":"A","quantity":1}]}`,
			mock: &adapter.Mock{
				FetchPricingFunc: func(ctx context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
					return nil, model.NewAuthError("ABC", io.EOF)
				},
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "SUPPLIER_AUTH_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := map[string]*adapter.Mock{}
			if tt.mock != nil {
				mocks["ABC"] = tt.mock
			}
			_, mux := testHandler(mocks)

			req := httptest.NewRequest("POST", "/api/pricing", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d\nBody: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if code := getErrorCode(t, w.Body.Bytes()); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestHandleOrder(t *testing.T) {
	var got *model.OrderRequest
	srs := &adapter.Mock{
		SubmitOrderFunc: func(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
			got = req
			return &model.OrderSubmissionResult{OrderID: "SRS-1", Status: model.OrderStatusSubmitted, Message: model.OrderSubmittedMessage}, nil
		},
	}
	_, mux := testHandler(map[string]*adapter.Mock{"SRS": srs})

	payload := map[string]any{
		"supplier":     "SRS",
		"items":        []map[string]any{{"sku": "R-1", "title": "Ridge Cap", "quantity": 3, "price": 12.5}},
		"customerCode": "CUST1",
		"branchCode":   "BR2",
		"shipTo": map[string]string{
			"name": "Job Site", "address1": "1 Main St", "city": "Dallas", "state": "TX", "zip": "75001",
		},
		"poNumber":     "PO-9",
		"deliveryDate": "2026-03-10",
		"contactName":  "Pat",
		"contactPhone": "555-0100",
		"contactEmail": "pat@example.com",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/order", bytes.NewReader(body))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want %d\nBody: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var result model.OrderSubmissionResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.OrderID != "SRS-1" {
		t.Errorf("OrderID = %s, want SRS-1", result.OrderID)
	}

	if got == nil {
		t.Fatal("adapter not called")
	}
	if got.PONumber != "PO-9" || got.Contact.Email != "pat@example.com" || got.ShipTo.City != "Dallas" {
		t.Errorf("order request not mapped: %+v", got)
	}
	if got.Identifiers.CustomerCode != "CUST1" {
		t.Errorf("CustomerCode = %q, want CUST1", got.Identifiers.CustomerCode)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("UnitPrice = %s, want 12.5", got.Items[0].UnitPrice)
	}

	route, err := ParseRouteHeader(w.Header().Get(RouteHeader))
	if err != nil {
		t.Fatalf("ParseRouteHeader: %v", err)
	}
	if route.Action != model.ActionSubmitOrder {
		t.Errorf("route action = %s, want submitOrder", route.Action)
	}
}

func TestHandleOrderDeliveryInstructions(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]string
		want  string
	}{
		{"notes", map[string]string{"notes": "Leave at gate"}, "Leave at gate"},
		{"delivery instructions", map[string]string{"deliveryInstructions": "Call on arrival"}, "Call on arrival"},
		{"notes win", map[string]string{"notes": "Leave at gate", "deliveryInstructions": "Call on arrival"}, "Leave at gate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.OrderRequest
			beacon := &adapter.Mock{
				SubmitOrderFunc: func(ctx context.Context, req *model.OrderRequest) (*model.OrderSubmissionResult, error) {
					got = req
					return &model.OrderSubmissionResult{OrderID: "B-1", Status: model.OrderStatusSubmitted}, nil
				},
			}
			_, mux := testHandler(map[string]*adapter.Mock{"BEACON": beacon})

			payload := map[string]any{
				"supplier":     "BEACON",
				"items":        []map[string]any{{"sku": "554550", "quantity": 2}},
				"poNumber":     "PO-77",
				"deliveryDate": "2026-03-10",
			}
			for k, v := range tt.extra {
				payload[k] = v
			}
			body, _ := json.Marshal(payload)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/order", bytes.NewReader(body)))

			if w.Code != http.StatusCreated {
				t.Fatalf("Status = %d, want %d\nBody: %s", w.Code, http.StatusCreated, w.Body.String())
			}
			if got == nil || got.Notes != tt.want {
				t.Errorf("Notes = %+v, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleSettings(t *testing.T) {
	_, mux := testHandler(map[string]*adapter.Mock{})

	// Switch ABC orders to production.
	req := httptest.NewRequest("PATCH", "/api/settings/ABC/submitOrder", strings.NewReader(`{"env":"prod"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH Status = %d\nBody: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/settings/ABC/submitOrder", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var env EnvironmentResponse
	json.Unmarshal(w.Body.Bytes(), &env)
	if env.Environment != model.EnvProduction {
		t.Errorf("submitOrder env = %s, want production", env.Environment)
	}

	req = httptest.NewRequest("GET", "/api/settings", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var doc settings.Settings
	json.Unmarshal(w.Body.Bytes(), &doc)
	if doc["ABC"][model.ActionGetPricing] != model.EnvSandbox {
		t.Errorf("getPricing env = %s, want sandbox", doc["ABC"][model.ActionGetPricing])
	}
	if doc["SRS"][model.ActionSubmitOrder] != model.EnvSandbox {
		t.Errorf("SRS should keep defaults, got %v", doc["SRS"])
	}
}

func TestHandleSettingsErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"bad action", "PATCH", "/api/settings/ABC/cancelOrder", `{"env":"sandbox"}`, http.StatusBadRequest},
		{"bad env", "PATCH", "/api/settings/ABC/getPricing", `{"env":"staging"}`, http.StatusBadRequest},
		{"unknown supplier", "GET", "/api/settings/ACME/getPricing", "", http.StatusInternalServerError},
		{"replace bad value", "PUT", "/api/settings", `{"ABC":{"getPricing":"live"}}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mux := testHandler(map[string]*adapter.Mock{})

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d\nBody: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestHandleSuppliers(t *testing.T) {
	_, mux := testHandler(map[string]*adapter.Mock{})

	req := httptest.NewRequest("GET", "/api/suppliers", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var list []SupplierSummary
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("suppliers = %d, want 3", len(list))
	}
	for _, s := range list {
		if len(s.Environments) != 2 || s.Environments[0] != model.EnvSandbox {
			t.Errorf("%s environments = %v, want [sandbox production]", s.Key, s.Environments)
		}
	}

	req = httptest.NewRequest("GET", "/api/suppliers/defaults/abc", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var defaults map[string]string
	json.Unmarshal(w.Body.Bytes(), &defaults)
	if defaults["branchNumber"] != "461" {
		t.Errorf("branchNumber default = %q, want 461", defaults["branchNumber"])
	}
}

func TestHandleMergeCart(t *testing.T) {
	_, mux := testHandler(map[string]*adapter.Mock{})

	body := `{"cart":[{"sku":"A","quantity":3}],"lines":[{"sku":"A","variant":"Standard","uom":"EA","quantity":2},{"sku":"B","quantity":1}]}`
	req := httptest.NewRequest("POST", "/api/cart/lines", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d\nBody: %s", w.Code, w.Body.String())
	}

	var resp CartMergeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Cart) != 2 {
		t.Fatalf("cart = %+v, want 2 lines", resp.Cart)
	}
	if resp.Cart[0].Quantity != 5 {
		t.Errorf("merged quantity = %d, want 5", resp.Cart[0].Quantity)
	}
}

func TestRouteHeaderRoundTrip(t *testing.T) {
	route := gateway.Route{Supplier: "BEACON", Action: model.ActionGetPricing, Environment: model.EnvProduction}

	value, err := FormatRouteHeader(route)
	if err != nil {
		t.Fatalf("FormatRouteHeader: %v", err)
	}
	if value != "BEACON;action=getPricing;env=production" {
		t.Errorf("header = %q", value)
	}

	got, err := ParseRouteHeader(value)
	if err != nil {
		t.Fatalf("ParseRouteHeader: %v", err)
	}
	if got != route {
		t.Errorf("got %+v, want %+v", got, route)
	}

	if _, err := ParseRouteHeader(`"quoted";env=sandbox`); err == nil {
		t.Error("expected error for non-token supplier")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, mux := testHandler(map[string]*adapter.Mock{"ABC": {FetchPricingFunc: pricedAt(1)}})

	req := httptest.NewRequest("POST", "/api/pricing", strings.NewReader(`{"supplier":"ABC","items":[{"sku":"A","quantity":1}]}`))
	mux.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "supplier_gateway_") {
		t.Errorf("metrics output missing gateway series:\n%s", w.Body.String())
	}
}
