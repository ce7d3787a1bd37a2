package model

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every priced cart.
var TaxRate = decimal.RequireFromString("0.08")

// DefaultCurrency is reported on all totals; every supplier prices in USD.
const DefaultCurrency = "USD"

func init() {
	// Prices travel as JSON numbers on every surface, including supplier payloads.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineTotal returns unitPrice * quantity for a single line.
func LineTotal(line CartLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ComputeTotals derives subtotal, tax and grand total from the authoritative
// per-line prices. Unpriced lines contribute zero.
// Client-supplied totals are never consulted.
func ComputeTotals(lines []CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineTotal(line))
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
		Currency:   DefaultCurrency,
	}
}

// NewPricingResult pairs priced lines with freshly computed totals.
func NewPricingResult(lines []CartLine) *PricingResult {
	return &PricingResult{
		Items:  lines,
		Totals: ComputeTotals(lines),
	}
}
