package model

// ShipTo is a delivery address.
type ShipTo struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// IsZero reports whether no address field is set.
func (s *ShipTo) IsZero() bool {
	return s == nil || *s == ShipTo{}
}

// Contact identifies the person receiving the delivery.
type Contact struct {
	Name  string `json:"contactName,omitempty"`
	Phone string `json:"contactPhone,omitempty"`
	Email string `json:"contactEmail,omitempty"`
}

// OrderRequest is the adapter-facing order input. Suppliers read the subset they need.
type OrderRequest struct {
	Items        []CartLine
	Identifiers  SupplierIdentifiers
	ShipTo       *ShipTo
	PONumber     string
	DeliveryDate string
	DeliveryTime string
	Notes        string
	Contact      Contact
}

// OrderSubmissionResult is returned once a supplier accepts an order.
type OrderSubmissionResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Order status values.
const (
	OrderStatusSubmitted  = "submitted"
	OrderSubmittedMessage = "Order submitted successfully"
)
