package model

import "github.com/shopspring/decimal"

// Defaults applied when a cart line omits variant or unit of measure.
const (
	DefaultVariant = "Standard"
	DefaultUOM     = "EA"
)

// CartLine is one item in an order being assembled.
// Pricing fields are populated by a supplier adapter; the rest comes from the caller.
type CartLine struct {
	ID       string  `json:"id,omitempty"`
	SKU      string  `json:"sku"`
	Title    string  `json:"title"`
	Variant  string  `json:"variant,omitempty"`
	UOM      string  `json:"uom,omitempty"`
	Quantity int     `json:"quantity"`
	Length   float64 `json:"length,omitempty"`

	UnitPrice      decimal.Decimal `json:"price"`
	PricingFetched bool            `json:"pricingFetched"`
	PricingError   string          `json:"pricingError,omitempty"`

	// Supplier-specific extras echoed back to the caller.
	AvailableUOMs   []string `json:"availableUoms,omitempty"`
	ItemCode        string   `json:"itemCode,omitempty"`
	AvailableStatus string   `json:"availableStatus,omitempty"`
}

// LineKey is the merge identity of a cart line.
type LineKey struct {
	SKU     string
	Variant string
	UOM     string
}

// WithDefaults returns a copy with variant and unit of measure filled in.
func (l CartLine) WithDefaults() CartLine {
	if l.Variant == "" {
		l.Variant = DefaultVariant
	}
	if l.UOM == "" {
		l.UOM = DefaultUOM
	}
	return l
}

// Key returns the (sku, variant, uom) identity after defaults.
func (l CartLine) Key() LineKey {
	d := l.WithDefaults()
	return LineKey{SKU: d.SKU, Variant: d.Variant, UOM: d.UOM}
}

// Priced returns a copy carrying a successful price.
func (l CartLine) Priced(price decimal.Decimal) CartLine {
	l.UnitPrice = price
	l.PricingFetched = true
	l.PricingError = ""
	return l
}

// Unpriced returns a copy marked as a per-line pricing failure.
func (l CartLine) Unpriced(reason string) CartLine {
	l.UnitPrice = decimal.Zero
	l.PricingFetched = false
	l.PricingError = reason
	return l
}

// MergeLines adds each addition into cart. A line whose key matches an
// existing line increases that line's quantity instead of being appended.
// Order of first appearance is kept; the input slices are not modified.
func MergeLines(cart []CartLine, additions ...CartLine) []CartLine {
	merged := make([]CartLine, 0, len(cart)+len(additions))
	index := make(map[LineKey]int, len(cart)+len(additions))

	for _, line := range append(append([]CartLine{}, cart...), additions...) {
		line = line.WithDefaults()
		key := line.Key()
		if i, ok := index[key]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, line)
	}
	return merged
}
