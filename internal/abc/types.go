package abc

import "github.com/shopspring/decimal"

// =============================================================================
// ABC SUPPLY WIRE TYPES
// =============================================================================

// PricingRequest is the body of POST {pricing}.
type PricingRequest struct {
	RequestID    string `json:"requestId"`
	ShipToNumber string `json:"shipToNumber"`
	BranchNumber string `json:"branchNumber"`
	Purpose      string `json:"purpose"`
	Lines        []Line `json:"lines"`
}

// Line is one item in a pricing or order request.
type Line struct {
	ID         string  `json:"id"`
	ItemNumber string  `json:"itemNumber"`
	Quantity   int     `json:"quantity"`
	UOM        string  `json:"uom"`
	Length     float64 `json:"length,omitempty"`
}

// PricingResponse is the pricing endpoint's reply.
type PricingResponse struct {
	RequestID string                `json:"requestId"`
	Lines     []PricingResponseLine `json:"lines"`
}

// PricingResponseLine carries the price for one requested line.
// UnitPrice is invalid when absent or null.
type PricingResponseLine struct {
	ID         string              `json:"id"`
	ItemNumber string              `json:"itemNumber"`
	UnitPrice  decimal.NullDecimal `json:"unitPrice"`
	Status     string              `json:"status,omitempty"`
	Message    string              `json:"message,omitempty"`
}

// OrderRequest is the body of POST {order}.
type OrderRequest struct {
	RequestID             string      `json:"requestId"`
	ShipToNumber          string      `json:"shipToNumber"`
	BranchNumber          string      `json:"branchNumber"`
	PONumber              string      `json:"poNumber"`
	RequestedDeliveryDate string      `json:"requestedDeliveryDate"`
	SpecialInstructions   string      `json:"specialInstructions"`
	ShipTo                OrderShipTo `json:"shipTo"`
	Lines                 []Line      `json:"lines"`
}

// OrderShipTo is ABC's structured shipping address.
type OrderShipTo struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
}

// OrderResponse is the order endpoint's reply.
type OrderResponse struct {
	OrderID   string `json:"orderId"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}
