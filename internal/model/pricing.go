package model

import "github.com/shopspring/decimal"

// Totals summarizes a priced cart.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Currency   string          `json:"currency"`
}

// PricingResult holds priced lines in the same order and cardinality as the request.
type PricingResult struct {
	Items  []CartLine `json:"items"`
	Totals Totals     `json:"totals"`
}

// PricingRequest is the adapter-facing pricing input.
type PricingRequest struct {
	Items       []CartLine
	Identifiers SupplierIdentifiers
}
