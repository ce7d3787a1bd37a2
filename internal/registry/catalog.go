package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"supplier-gateway/internal/model"
)

// AuthKind selects which adapter family a supplier uses.
type AuthKind string

const (
	AuthClientCredentials AuthKind = "oauth-client-credentials"
	AuthSession           AuthKind = "session"
)

// Endpoint names inside an endpoint set.
const (
	EndpointAuth     = "auth"
	EndpointLogin    = "login"
	EndpointPricing  = "pricing"
	EndpointOrder    = "order"
	EndpointBranches = "branches"
	EndpointItems    = "items"
)

// Supplier keys in the built-in catalog.
const (
	KeyABC    = "ABC"
	KeySRS    = "SRS"
	KeyBeacon = "BEACON"
)

// Endpoints is one environment's named URLs.
type Endpoints map[string]string

// SupplierConfig is immutable once loaded and shared by every adapter of that supplier.
type SupplierConfig struct {
	Key       string                          `json:"key"`
	Name      string                          `json:"name"`
	AuthKind  AuthKind                        `json:"authKind"`
	Endpoints map[model.Environment]Endpoints `json:"endpoints"`
	Defaults  map[string]string               `json:"defaults,omitempty"`
}

// DefaultCatalog returns the built-in supplier catalog.
func DefaultCatalog() []SupplierConfig {
	return []SupplierConfig{
		{
			Key:      KeyABC,
			Name:     "ABC Supply",
			AuthKind: AuthClientCredentials,
			Endpoints: map[model.Environment]Endpoints{
				model.EnvSandbox: {
					EndpointAuth:    "https://api-sandbox.abcsupply.com/oauth/token",
					EndpointPricing: "https://api-sandbox.abcsupply.com/pricing/v1/prices",
					EndpointOrder:   "https://api-sandbox.abcsupply.com/orders/v1/orders",
				},
				model.EnvProduction: {
					EndpointAuth:    "https://api.abcsupply.com/oauth/token",
					EndpointPricing: "https://api.abcsupply.com/pricing/v1/prices",
					EndpointOrder:   "https://api.abcsupply.com/orders/v1/orders",
				},
			},
			Defaults: map[string]string{
				"branchNumber": "461",
				"shipToNumber": "2063975-2",
			},
		},
		{
			Key:      KeySRS,
			Name:     "SRS Distribution",
			AuthKind: AuthClientCredentials,
			Endpoints: map[model.Environment]Endpoints{
				model.EnvSandbox: {
					EndpointAuth:     "https://services-qa.roofhub.pro/Authentication/token",
					EndpointPricing:  "https://services-qa.roofhub.pro/products/v2/price",
					EndpointBranches: "https://services-qa.roofhub.pro/branches/v2/branchLocations",
					EndpointOrder:    "https://services-qa.roofhub.pro/orders/v2/submit",
				},
				model.EnvProduction: {
					EndpointAuth:     "https://services.roofhub.pro/Authentication/token",
					EndpointPricing:  "https://services.roofhub.pro/products/v2/price",
					EndpointBranches: "https://services.roofhub.pro/branches/v2/branchLocations",
					EndpointOrder:    "https://services.roofhub.pro/orders/v2/submit",
				},
			},
		},
		{
			Key:      KeyBeacon,
			Name:     "QXO (formerly Beacon)",
			AuthKind: AuthSession,
			Endpoints: map[model.Environment]Endpoints{
				model.EnvSandbox: {
					EndpointLogin:   "https://uat.qxo.digital/v1/rest/com/becn/login",
					EndpointPricing: "https://uat.qxo.digital/v1/rest/com/becn/pricing",
					EndpointItems:   "https://uat.qxo.digital/v1/rest/com/becn/items",
					EndpointOrder:   "https://uat.qxo.digital/v1/rest/com/becn/submitOrder",
				},
				model.EnvProduction: {
					EndpointLogin:   "https://qxo.digital/v1/rest/com/becn/login",
					EndpointPricing: "https://qxo.digital/v1/rest/com/becn/pricing",
					EndpointItems:   "https://qxo.digital/v1/rest/com/becn/items",
					EndpointOrder:   "https://qxo.digital/v1/rest/com/becn/submitOrder",
				},
			},
		},
	}
}

// LoadCatalog reads a catalog file shaped as {"suppliers": [...]}.
// Environment keys accept the "prod" spelling; supplier keys are upper-cased.
func LoadCatalog(path string) ([]SupplierConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading supplier catalog: %w", err)
	}

	var file struct {
		Suppliers []struct {
			Key       string               `json:"key"`
			Name      string               `json:"name"`
			AuthKind  AuthKind             `json:"authKind"`
			Endpoints map[string]Endpoints `json:"endpoints"`
			Defaults  map[string]string    `json:"defaults"`
		} `json:"suppliers"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing supplier catalog: %w", err)
	}

	catalog := make([]SupplierConfig, 0, len(file.Suppliers))
	for _, s := range file.Suppliers {
		if s.Key == "" {
			return nil, fmt.Errorf("supplier catalog: entry without key")
		}
		cfg := SupplierConfig{
			Key:       strings.ToUpper(s.Key),
			Name:      s.Name,
			AuthKind:  s.AuthKind,
			Endpoints: make(map[model.Environment]Endpoints, len(s.Endpoints)),
			Defaults:  s.Defaults,
		}
		for envName, endpoints := range s.Endpoints {
			env, err := model.ParseEnvironment(envName)
			if err != nil {
				return nil, fmt.Errorf("supplier catalog %s: %w", cfg.Key, err)
			}
			cfg.Endpoints[env] = endpoints
		}
		catalog = append(catalog, cfg)
	}
	return catalog, nil
}
