package handler

import "supplier-gateway/internal/model"

// PricingRequest is the body of POST /api/pricing. Identifiers are flattened
// onto the top level.
type PricingRequest struct {
	Supplier string           `json:"supplier"`
	Items    []model.CartLine `json:"items"`
	model.SupplierIdentifiers
}

// OrderRequest is the body of POST /api/order.
type OrderRequest struct {
	Supplier string           `json:"supplier"`
	Items    []model.CartLine `json:"items"`
	model.SupplierIdentifiers

	ShipTo       *model.ShipTo `json:"shipTo,omitempty"`
	PONumber     string        `json:"poNumber"`
	DeliveryDate string        `json:"deliveryDate"`
	DeliveryTime string        `json:"deliveryTime,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	model.Contact

	// DeliveryInstructions is the BEACON name for notes, used when notes is empty.
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
}

func (r *OrderRequest) toModel() *model.OrderRequest {
	notes := r.Notes
	if notes == "" {
		notes = r.DeliveryInstructions
	}
	return &model.OrderRequest{
		Items:        r.Items,
		Identifiers:  r.SupplierIdentifiers,
		ShipTo:       r.ShipTo,
		PONumber:     r.PONumber,
		DeliveryDate: r.DeliveryDate,
		DeliveryTime: r.DeliveryTime,
		Notes:        notes,
		Contact:      r.Contact,
	}
}

// EnvironmentRequest is the body of PATCH /api/settings/{supplier}/{action}.
type EnvironmentRequest struct {
	Env string `json:"env"`
}

// EnvironmentResponse reports one effective environment.
type EnvironmentResponse struct {
	Supplier    string            `json:"supplier"`
	Action      model.Action      `json:"action"`
	Environment model.Environment `json:"environment"`
}

// CartMergeRequest is the body of POST /api/cart/lines.
type CartMergeRequest struct {
	Cart  []model.CartLine `json:"cart"`
	Lines []model.CartLine `json:"lines"`
}

// CartMergeResponse is the merged cart.
type CartMergeResponse struct {
	Cart []model.CartLine `json:"cart"`
}

// SupplierSummary describes a catalog entry without endpoint URLs.
type SupplierSummary struct {
	Key          string              `json:"key"`
	Name         string              `json:"name"`
	AuthKind     string              `json:"authKind"`
	Environments []model.Environment `json:"environments"`
}
