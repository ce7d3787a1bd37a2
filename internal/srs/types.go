package srs

import "github.com/shopspring/decimal"

// =============================================================================
// SRS DISTRIBUTION WIRE TYPES
// =============================================================================

// PricingRequest is the body of POST {pricing}.
type PricingRequest struct {
	SourceSystem     string    `json:"sourceSystem"`
	CustomerCode     string    `json:"customerCode"`
	BranchCode       string    `json:"branchCode"`
	TransactionID    string    `json:"transactionId"`
	JobAccountNumber int       `json:"jobAccountNumber"`
	ProductList      []Product `json:"productList"`
}

// Product is one requested pricing line. SRS identifies products by name.
type Product struct {
	ProductID      int      `json:"productId,omitempty"`
	ProductName    string   `json:"productName"`
	ProductOptions []string `json:"productOptions"`
	Quantity       int      `json:"quantity"`
	UOM            string   `json:"uom"`
}

// PricedProduct is one element of the pricing response array.
// Price is invalid when absent or null; zero is a real price.
type PricedProduct struct {
	ItemCode            string              `json:"itemCode,omitempty"`
	ProductID           int                 `json:"productId,omitempty"`
	ProductName         string              `json:"productName"`
	ProductOptions      []string            `json:"productOptions,omitempty"`
	PriceUOM            string              `json:"priceUOM,omitempty"`
	RequestedUOM        string              `json:"requestedUOM,omitempty"`
	UOMConversionFactor float64             `json:"uomConversionFactor,omitempty"`
	Price               decimal.NullDecimal `json:"price"`
	AvailableStatus     string              `json:"availableStatus,omitempty"`
	TransactionID       string              `json:"transactionId,omitempty"`
	Message             string              `json:"message,omitempty"`
	MessageCode         *int                `json:"messageCode,omitempty"`
}

// OrderRequest is the body of POST {order}. Validated before sending.
type OrderRequest struct {
	SourceSystem        string          `json:"sourceSystem" validate:"required"`
	CustomerCode        string          `json:"customerCode" validate:"required"`
	JobAccountNumber    int             `json:"jobAccountNumber"`
	BranchCode          string          `json:"branchCode" validate:"required"`
	AccountNumber       string          `json:"accountNumber" validate:"required"`
	TransactionID       string          `json:"transactionID" validate:"required"`
	TransactionDate     string          `json:"transactionDate" validate:"required"`
	Notes               string          `json:"notes"`
	ShipTo              OrderShipTo     `json:"shipTo"`
	PODetails           PODetails       `json:"poDetails"`
	LineItems           []OrderLineItem `json:"orderLineItemDetails" validate:"required,min=1,dive"`
	CustomerContactInfo ContactInfo     `json:"customerContactInfo"`
}

// OrderShipTo is SRS's delivery address.
type OrderShipTo struct {
	Name         string `json:"name" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	AddressLine3 string `json:"addressLine3"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required"`
}

// PODetails describes the purchase order and delivery window.
type PODetails struct {
	PONumber             string `json:"poNumber" validate:"required"`
	Reference            string `json:"reference"`
	JobNumber            string `json:"jobNumber"`
	OrderDate            string `json:"orderDate" validate:"required"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate" validate:"required"`
	ExpectedDeliveryTime string `json:"expectedDeliveryTime" validate:"required"`
	OrderType            string `json:"orderType"`
	ShippingMethod       string `json:"shippingMethod"`
}

// OrderLineItem is a line in an order. Price is the last price fetched for it.
type OrderLineItem struct {
	ProductID    int             `json:"productId"`
	ProductName  string          `json:"productName" validate:"required"`
	Option       string          `json:"option"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	Price        decimal.Decimal `json:"price"`
	CustomerItem string          `json:"customerItem"`
	UOM          string          `json:"uom"`
}

// ContactInfo is the on-site contact for the delivery.
type ContactInfo struct {
	Name                    string         `json:"customerContactName" validate:"required"`
	Phone                   string         `json:"customerContactPhone" validate:"required"`
	Email                   string         `json:"customerContactEmail" validate:"required,email"`
	Address                 ContactAddress `json:"customerContactAddress"`
	AdditionalContactEmails []string       `json:"additionalContactEmails"`
}

// ContactAddress repeats the ship-to address for the contact.
type ContactAddress struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// OrderResponse is the order endpoint's reply.
type OrderResponse struct {
	OrderID       string `json:"orderID"`
	TransactionID string `json:"transactionID"`
	Message       string `json:"message"`
}
