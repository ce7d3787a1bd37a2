package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []CartLine
		wantSubtotal string
		wantTax      string
		wantGrand    string
	}{
		{
			name:         "single line",
			lines:        []CartLine{{SKU: "S1", Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
			wantSubtotal: "20",
			wantTax:      "1.6",
			wantGrand:    "21.6",
		},
		{
			name: "multiple lines",
			lines: []CartLine{
				{SKU: "S1", Quantity: 3, UnitPrice: decimal.RequireFromString("35.50")},
				{SKU: "S2", Quantity: 1, UnitPrice: decimal.RequireFromString("12.25")},
			},
			wantSubtotal: "118.75",
			wantTax:      "9.5",
			wantGrand:    "128.25",
		},
		{
			name: "unpriced line contributes zero",
			lines: []CartLine{
				{SKU: "S1", Quantity: 4, UnitPrice: decimal.NewFromInt(5)},
				{SKU: "S2", Quantity: 9, PricingError: "Price unavailable"},
			},
			wantSubtotal: "20",
			wantTax:      "1.6",
			wantGrand:    "21.6",
		},
		{
			name:         "empty cart",
			lines:        nil,
			wantSubtotal: "0",
			wantTax:      "0",
			wantGrand:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines)
			if !got.Subtotal.Equal(decimal.RequireFromString(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			}
			if !got.Tax.Equal(decimal.RequireFromString(tt.wantTax)) {
				t.Errorf("Tax = %s, want %s", got.Tax, tt.wantTax)
			}
			if !got.GrandTotal.Equal(decimal.RequireFromString(tt.wantGrand)) {
				t.Errorf("GrandTotal = %s, want %s", got.GrandTotal, tt.wantGrand)
			}
			if got.Currency != "USD" {
				t.Errorf("Currency = %s, want USD", got.Currency)
			}
		})
	}
}

func TestComputeTotalsInvariants(t *testing.T) {
	lines := []CartLine{
		{SKU: "A", Quantity: 7, UnitPrice: decimal.RequireFromString("19.99")},
		{SKU: "B", Quantity: 13, UnitPrice: decimal.RequireFromString("0.37")},
		{SKU: "C", Quantity: 1, UnitPrice: decimal.RequireFromString("1234.5")},
	}
	got := ComputeTotals(lines)

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if !got.Subtotal.Equal(sum) {
		t.Errorf("Subtotal = %s, want %s", got.Subtotal, sum)
	}
	if !got.Tax.Equal(got.Subtotal.Mul(TaxRate)) {
		t.Errorf("Tax = %s, want subtotal * 0.08", got.Tax)
	}
	if !got.GrandTotal.Equal(got.Subtotal.Add(got.Tax)) {
		t.Errorf("GrandTotal = %s, want subtotal + tax", got.GrandTotal)
	}
}

func TestPricesMarshalAsNumbers(t *testing.T) {
	line := CartLine{SKU: "S1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.5")}

	data, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if price, ok := raw["price"].(float64); !ok || price != 10.5 {
		t.Errorf("price = %v (%T), want number 10.5", raw["price"], raw["price"])
	}
}
