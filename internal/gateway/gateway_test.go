package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"supplier-gateway/internal/adapter"
	"supplier-gateway/internal/metrics"
	"supplier-gateway/internal/model"
	"supplier-gateway/internal/registry"
	"supplier-gateway/internal/settings"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeResolver serves one mock per supplier and records the environments asked for.
type fakeResolver struct {
	mocks    map[string]*adapter.Mock
	catalog  []registry.SupplierConfig
	resolved []model.Environment
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		mocks: map[string]*adapter.Mock{
			"ABC": {}, "SRS": {}, "BEACON": {},
		},
		catalog: registry.DefaultCatalog(),
	}
}

func (f *fakeResolver) Resolve(key string, env model.Environment) (adapter.Supplier, error) {
	f.resolved = append(f.resolved, env)
	return f.mocks[key], nil
}

func (f *fakeResolver) Lookup(key string) (registry.SupplierConfig, bool) {
	for _, c := range f.catalog {
		if c.Key == key {
			return c, true
		}
	}
	return registry.SupplierConfig{}, false
}

func (f *fakeResolver) Defaults(key string) map[string]string {
	c, _ := f.Lookup(key)
	return c.Defaults
}

func (f *fakeResolver) Catalog() []registry.SupplierConfig { return f.catalog }

func newTestGateway(res Resolver) (*Gateway, *settings.Router) {
	router := settings.NewRouter(settings.NewMemoryStore(), []string{"ABC", "SRS", "BEACON"}, quietLogger())
	return New(res, router, metrics.New(), quietLogger()), router
}

func TestFetchPricingAppliesDefaultsAndRecomputesTotals(t *testing.T) {
	res := newFakeResolver()
	var seen model.SupplierIdentifiers
	res.mocks["ABC"].FetchPricingFunc = func(_ context.Context, req *model.PricingRequest) (*model.PricingResult, error) {
		seen = req.Identifiers
		items := []model.CartLine{req.Items[0].Priced(decimal.NewFromInt(10))}
		// Deliberately wrong totals to prove they are recomputed.
		return &model.PricingResult{Items: items, Totals: model.Totals{Subtotal: decimal.NewFromInt(999)}}, nil
	}
	g, _ := newTestGateway(res)

	resp, err := g.FetchPricing(context.Background(), "abc",
		[]model.CartLine{{SKU: "S1", Variant: "Std", UOM: "EA", Quantity: 2}},
		model.SupplierIdentifiers{ShipToNumber: "caller-ship-to"})
	if err != nil {
		t.Fatalf("FetchPricing: %v", err)
	}

	if seen.BranchNumber != "461" || seen.ShipToNumber != "caller-ship-to" {
		t.Errorf("identifiers = %+v, want default branch and caller ship-to", seen)
	}
	if resp.Totals.Subtotal.String() != "20" || resp.Totals.GrandTotal.String() != "21.6" {
		t.Errorf("totals = %+v", resp.Totals)
	}
	if resp.Route.Environment != model.EnvSandbox || resp.Route.Supplier != "ABC" {
		t.Errorf("route = %+v", resp.Route)
	}
}

func TestFetchPricingValidation(t *testing.T) {
	tests := []struct {
		name     string
		supplier string
		items    []model.CartLine
		ids      model.SupplierIdentifiers
		wantErr  error
		field    string
	}{
		{"empty supplier", "", []model.CartLine{{SKU: "A", Quantity: 1}}, model.SupplierIdentifiers{}, model.ErrInvalidRequest, "supplier"},
		{"unknown supplier", "ACME", []model.CartLine{{SKU: "A", Quantity: 1}}, model.SupplierIdentifiers{}, model.ErrConfiguration, "ACME"},
		{"no items", "BEACON", nil, model.SupplierIdentifiers{}, model.ErrInvalidRequest, "items"},
		{"zero quantity", "BEACON", []model.CartLine{{SKU: "A"}}, model.SupplierIdentifiers{}, model.ErrInvalidRequest, "items[0].quantity"},
		{"missing sku", "BEACON", []model.CartLine{{Quantity: 1}}, model.SupplierIdentifiers{}, model.ErrInvalidRequest, "items[0].sku"},
		{"SRS customer code", "SRS", []model.CartLine{{SKU: "A", Quantity: 1}}, model.SupplierIdentifiers{BranchCode: "B"}, model.ErrInvalidRequest, "customerCode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := newFakeResolver()
			g, _ := newTestGateway(res)

			_, err := g.FetchPricing(context.Background(), tc.supplier, tc.items, tc.ids)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("err = %v, want mention of %s", err, tc.field)
			}
			if len(res.resolved) != 0 {
				t.Error("adapter resolved despite invalid input")
			}
		})
	}
}

func TestFetchPricingCountsUnpricedLines(t *testing.T) {
	res := newFakeResolver()
	m := metrics.New()
	router := settings.NewRouter(settings.NewMemoryStore(), []string{"BEACON"}, quietLogger())
	g := New(res, router, m, quietLogger())

	_, err := g.FetchPricing(context.Background(), "BEACON",
		[]model.CartLine{{SKU: "A", Quantity: 1}, {SKU: "B", Quantity: 1}}, model.SupplierIdentifiers{})
	if err != nil {
		t.Fatalf("FetchPricing: %v", err)
	}

	expected := `
# HELP supplier_gateway_unpriced_lines_total Cart lines a supplier returned without a price.
# TYPE supplier_gateway_unpriced_lines_total counter
supplier_gateway_unpriced_lines_total{supplier="BEACON"} 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), metrics.MetricUnpricedLinesTotal); err != nil {
		t.Error(err)
	}
}

func TestSubmitOrderValidation(t *testing.T) {
	ship := &model.ShipTo{Name: "Site", Address1: "1 Main", City: "Austin", State: "TX", Zip: "78701"}
	items := []model.CartLine{{SKU: "A", Quantity: 1}}

	tests := []struct {
		name     string
		supplier string
		req      model.OrderRequest
		field    string
	}{
		{"ABC ship-to", "ABC", model.OrderRequest{Items: items, PONumber: "PO", DeliveryDate: "2026-01-01"}, "shipTo"},
		{"ABC partial ship-to", "ABC", model.OrderRequest{Items: items, ShipTo: &model.ShipTo{Name: "x"}, PONumber: "PO", DeliveryDate: "d"}, "shipTo"},
		{"ABC po", "ABC", model.OrderRequest{Items: items, ShipTo: ship, DeliveryDate: "d"}, "poNumber"},
		{"SRS contact", "SRS", model.OrderRequest{
			Items: items, ShipTo: ship, PONumber: "PO", DeliveryDate: "d",
			Identifiers: model.SupplierIdentifiers{CustomerCode: "C", BranchCode: "B"},
			Contact:     model.Contact{Name: "Pat", Phone: "555"},
		}, "contactEmail"},
		{"BEACON delivery date", "BEACON", model.OrderRequest{Items: items, PONumber: "PO"}, "deliveryDate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := newFakeResolver()
			g, _ := newTestGateway(res)

			_, err := g.SubmitOrder(context.Background(), tc.supplier, &tc.req)
			if !errors.Is(err, model.ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("err = %v, want mention of %s", err, tc.field)
			}
		})
	}
}

func TestSubmitOrderIsNotRetried(t *testing.T) {
	res := newFakeResolver()
	var calls atomic.Int32
	res.mocks["BEACON"].SubmitOrderFunc = func(context.Context, *model.OrderRequest) (*model.OrderSubmissionResult, error) {
		calls.Add(1)
		return nil, model.NewUpstreamError("BEACON", "Order", errors.New("connection reset"))
	}
	g, _ := newTestGateway(res)

	_, err := g.SubmitOrder(context.Background(), "BEACON", &model.OrderRequest{
		Items: []model.CartLine{{SKU: "A", Quantity: 1}}, PONumber: "PO", DeliveryDate: "2026-01-01",
	})
	if !errors.Is(err, model.ErrUpstreamError) {
		t.Fatalf("err = %v, want ErrUpstreamError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("order calls = %d, want exactly 1", calls.Load())
	}
}

func TestEnvironmentRouting(t *testing.T) {
	res := newFakeResolver()
	g, _ := newTestGateway(res)
	ctx := context.Background()

	env, err := g.GetEffectiveEnvironment(ctx, "ABC", model.ActionGetPricing)
	if err != nil || env != model.EnvSandbox {
		t.Fatalf("initial env = %s, %v", env, err)
	}

	if _, err := g.SetEffectiveEnvironment(ctx, "ABC", model.ActionGetPricing, model.EnvProduction); err != nil {
		t.Fatalf("SetEffectiveEnvironment: %v", err)
	}
	if _, err := g.FetchPricing(ctx, "ABC", []model.CartLine{{SKU: "A", Quantity: 1}}, model.SupplierIdentifiers{}); err != nil {
		t.Fatalf("FetchPricing: %v", err)
	}
	if got := res.resolved[len(res.resolved)-1]; got != model.EnvProduction {
		t.Errorf("resolved env = %s, want production", got)
	}

	if _, err := g.SetEffectiveEnvironment(ctx, "ACME", model.ActionGetPricing, model.EnvProduction); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("unknown supplier err = %v", err)
	}
}

func TestMergeCart(t *testing.T) {
	g, _ := newTestGateway(newFakeResolver())

	got, err := g.MergeCart(
		[]model.CartLine{{SKU: "S1", Variant: "Std", UOM: "EA", Quantity: 3}},
		[]model.CartLine{{SKU: "S1", Variant: "Std", UOM: "EA", Quantity: 2}},
	)
	if err != nil {
		t.Fatalf("MergeCart: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 5 {
		t.Errorf("merged = %+v, want one line of 5", got)
	}
}

// abcStub is an ABC upstream that prices every line at unitPrice.
func abcStub(t *testing.T, unitPrice string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"t","expires_in":600}`))
	})
	mux.HandleFunc("POST /pricing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req struct {
			Lines []struct {
				ID         string `json:"id"`
				ItemNumber string `json:"itemNumber"`
			} `json:"lines"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		lines := make([]map[string]any, len(req.Lines))
		for i, l := range req.Lines {
			lines[i] = map[string]any{"id": l.ID, "itemNumber": l.ItemNumber, "unitPrice": json.Number(unitPrice)}
		}
		json.NewEncoder(w).Encode(map[string]any{"lines": lines})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func stubCatalog(sandbox, production string) []registry.SupplierConfig {
	endpoints := func(base string) registry.Endpoints {
		return registry.Endpoints{
			registry.EndpointAuth:    base + "/oauth/token",
			registry.EndpointPricing: base + "/pricing",
			registry.EndpointOrder:   base + "/order",
		}
	}
	return []registry.SupplierConfig{{
		Key:      registry.KeyABC,
		AuthKind: registry.AuthClientCredentials,
		Endpoints: map[model.Environment]registry.Endpoints{
			model.EnvSandbox:    endpoints(sandbox),
			model.EnvProduction: endpoints(production),
		},
		Defaults: map[string]string{"branchNumber": "461", "shipToNumber": "2063975-2"},
	}}
}

func TestEndToEndPricingThroughRegistry(t *testing.T) {
	var sandboxHits, productionHits atomic.Int32
	sandbox := abcStub(t, "10", &sandboxHits)
	production := abcStub(t, "12", &productionHits)

	store := settings.NewMemoryStore()
	secrets := registry.Secrets{ABCClientID: "id", ABCClientSecret: "secret"}
	newGateway := func() *Gateway {
		reg := registry.New(stubCatalog(sandbox.URL, production.URL), secrets)
		router := settings.NewRouter(store, reg.Keys(), quietLogger())
		return New(reg, router, nil, quietLogger())
	}
	items := []model.CartLine{{SKU: "S1", Variant: "Std", UOM: "EA", Quantity: 2}}
	ctx := context.Background()

	resp, err := newGateway().FetchPricing(ctx, "ABC", items, model.SupplierIdentifiers{})
	if err != nil {
		t.Fatalf("FetchPricing: %v", err)
	}
	line := resp.Items[0]
	if !line.PricingFetched || line.UnitPrice.String() != "10" {
		t.Errorf("line = %+v, want priced at 10", line)
	}
	if resp.Totals.Subtotal.String() != "20" || resp.Totals.Tax.String() != "1.6" || resp.Totals.GrandTotal.String() != "21.6" {
		t.Errorf("totals = %s/%s/%s", resp.Totals.Subtotal, resp.Totals.Tax, resp.Totals.GrandTotal)
	}

	if _, err := newGateway().SetEffectiveEnvironment(ctx, "ABC", model.ActionGetPricing, model.EnvProduction); err != nil {
		t.Fatalf("SetEffectiveEnvironment: %v", err)
	}

	resp, err = newGateway().FetchPricing(ctx, "ABC", items, model.SupplierIdentifiers{})
	if err != nil {
		t.Fatalf("FetchPricing after switch: %v", err)
	}
	if resp.Items[0].UnitPrice.String() != "12" || productionHits.Load() != 1 || sandboxHits.Load() != 1 {
		t.Errorf("after switch price = %s, hits sandbox=%d production=%d",
			resp.Items[0].UnitPrice, sandboxHits.Load(), productionHits.Load())
	}
}

func TestMissingSecretsFailBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := abcStub(t, "10", &hits)

	reg := registry.New(stubCatalog(srv.URL, srv.URL), registry.Secrets{})
	g := New(reg, settings.NewRouter(settings.NewMemoryStore(), reg.Keys(), quietLogger()), nil, quietLogger())

	_, err := g.FetchPricing(context.Background(), "ABC", []model.CartLine{{SKU: "S1", Quantity: 1}}, model.SupplierIdentifiers{})
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if hits.Load() != 0 {
		t.Error("supplier was called despite missing secrets")
	}
}
