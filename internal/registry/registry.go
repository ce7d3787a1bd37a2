// Package registry turns a supplier key and environment into a ready adapter.
//
// Environment selection is a data lookup performed by the caller; the
// registry only binds the chosen endpoint set and the process secrets to the
// matching adapter implementation. All adapters share one credential cache and
// one outbound HTTP client.
package registry

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"supplier-gateway/internal/abc"
	"supplier-gateway/internal/adapter"
	"supplier-gateway/internal/beacon"
	"supplier-gateway/internal/credentials"
	"supplier-gateway/internal/model"
	"supplier-gateway/internal/srs"
)

// Secrets are the per-supplier credentials. JSON tags match the production
// Secret Manager payload.
type Secrets struct {
	ABCClientID     string `json:"abc_client_id"`
	ABCClientSecret string `json:"abc_client_secret"`
	SRSClientID     string `json:"srs_client_id"`
	SRSClientSecret string `json:"srs_client_secret"`
	BeaconUsername  string `json:"beacon_username"`
	BeaconPassword  string `json:"beacon_password"`
	BeaconAPISiteID string `json:"beacon_api_site_id,omitempty"`
}

// LogValue reports which suppliers have credentials, never the values.
func (s Secrets) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("abc", s.ABCClientID != "" && s.ABCClientSecret != ""),
		slog.Bool("srs", s.SRSClientID != "" && s.SRSClientSecret != ""),
		slog.Bool("beacon", s.BeaconUsername != "" && s.BeaconPassword != ""),
	)
}

// Registry resolves adapters from the catalog.
type Registry struct {
	suppliers  map[string]SupplierConfig
	keys       []string
	secrets    Secrets
	httpClient *http.Client
	cache      *credentials.Cache
	now        func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient sets the outbound client handed to every adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) { r.httpClient = c }
}

// WithCredentials shares an existing credential cache.
func WithCredentials(c *credentials.Cache) Option {
	return func(r *Registry) { r.cache = c }
}

// WithClock sets the clock adapters use for request ids.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates a registry over catalog.
func New(catalog []SupplierConfig, secrets Secrets, opts ...Option) *Registry {
	r := &Registry{
		suppliers:  make(map[string]SupplierConfig, len(catalog)),
		secrets:    secrets,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, cfg := range catalog {
		key := strings.ToUpper(cfg.Key)
		if _, dup := r.suppliers[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.suppliers[key] = cfg
	}
	sort.Strings(r.keys)

	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = credentials.New()
	}
	return r
}

// Keys lists supplier keys in sorted order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Lookup returns the catalog entry for key.
func (r *Registry) Lookup(key string) (SupplierConfig, bool) {
	cfg, ok := r.suppliers[strings.ToUpper(key)]
	return cfg, ok
}

// Catalog returns every entry in key order.
func (r *Registry) Catalog() []SupplierConfig {
	out := make([]SupplierConfig, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.suppliers[k])
	}
	return out
}

// Defaults returns the supplier's fallback identifiers, empty for unknown keys.
func (r *Registry) Defaults(key string) map[string]string {
	cfg, ok := r.Lookup(key)
	if !ok || cfg.Defaults == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(cfg.Defaults))
	for k, v := range cfg.Defaults {
		out[k] = v
	}
	return out
}

// Resolve builds the adapter for key in env. Every failure is a configuration
// error and happens before any network call.
func (r *Registry) Resolve(key string, env model.Environment) (adapter.Supplier, error) {
	key = strings.ToUpper(key)
	cfg, ok := r.suppliers[key]
	if !ok {
		return nil, model.NewConfigError(fmt.Sprintf("Supplier %s not found in config", key))
	}

	endpoints, ok := cfg.Endpoints[env]
	if !ok || len(endpoints) == 0 {
		return nil, model.NewConfigError(fmt.Sprintf("Endpoints not configured for %s in %s mode", key, env))
	}

	switch key {
	case KeyABC:
		return r.newABC(endpoints)
	case KeySRS:
		return r.newSRS(endpoints)
	case KeyBeacon:
		return r.newBeacon(endpoints)
	default:
		return nil, model.NewConfigError(fmt.Sprintf("Adapter not implemented for supplier: %s", key))
	}
}

func (r *Registry) newABC(endpoints Endpoints) (adapter.Supplier, error) {
	a, err := abc.New(abc.Config{
		ClientID:     r.secrets.ABCClientID,
		ClientSecret: r.secrets.ABCClientSecret,
		AuthURL:      endpoints[EndpointAuth],
		PricingURL:   endpoints[EndpointPricing],
		OrderURL:     endpoints[EndpointOrder],
		HTTPClient:   r.httpClient,
		Credentials:  r.cache,
		Now:          r.now,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Registry) newSRS(endpoints Endpoints) (adapter.Supplier, error) {
	a, err := srs.New(srs.Config{
		ClientID:     r.secrets.SRSClientID,
		ClientSecret: r.secrets.SRSClientSecret,
		AuthURL:      endpoints[EndpointAuth],
		PricingURL:   endpoints[EndpointPricing],
		OrderURL:     endpoints[EndpointOrder],
		HTTPClient:   r.httpClient,
		Credentials:  r.cache,
		Now:          r.now,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Registry) newBeacon(endpoints Endpoints) (adapter.Supplier, error) {
	a, err := beacon.New(beacon.Config{
		Username:    r.secrets.BeaconUsername,
		Password:    r.secrets.BeaconPassword,
		APISiteID:   r.secrets.BeaconAPISiteID,
		LoginURL:    endpoints[EndpointLogin],
		PricingURL:  endpoints[EndpointPricing],
		OrderURL:    endpoints[EndpointOrder],
		HTTPClient:  r.httpClient,
		Credentials: r.cache,
		Now:         r.now,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
