package gateway

import (
	"fmt"

	"supplier-gateway/internal/model"
	"supplier-gateway/internal/registry"
)

// requirements lists the caller-supplied fields each supplier needs, after
// catalog defaults are applied.
type requirements struct {
	pricing []string // identifier JSON names
	order   []string // identifier names plus order field names
}

var supplierRequirements = map[string]requirements{
	registry.KeyABC: {
		pricing: []string{"branchNumber", "shipToNumber"},
		order:   []string{"shipTo", "poNumber", "deliveryDate"},
	},
	registry.KeySRS: {
		pricing: []string{"customerCode", "branchCode"},
		order:   []string{"shipTo", "poNumber", "deliveryDate", "contactName", "contactPhone", "contactEmail"},
	},
	registry.KeyBeacon: {
		order: []string{"poNumber", "deliveryDate"},
	},
}

func validateItems(items []model.CartLine) error {
	if len(items) == 0 {
		return model.NewValidationError("items", "at least one line is required")
	}
	for i, item := range items {
		if item.SKU == "" {
			return model.NewValidationError(fmt.Sprintf("items[%d].sku", i), "required")
		}
		if item.Quantity <= 0 {
			return model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be a positive integer")
		}
	}
	return nil
}

func validatePricing(supplier string, ids model.SupplierIdentifiers) error {
	for _, name := range supplierRequirements[supplier].pricing {
		if v, _ := ids.Lookup(name); v == "" {
			return model.NewValidationError(name, fmt.Sprintf("required for %s", supplier))
		}
	}
	return nil
}

func validateOrder(supplier string, req *model.OrderRequest) error {
	if err := validatePricing(supplier, req.Identifiers); err != nil {
		return err
	}
	for _, name := range supplierRequirements[supplier].order {
		if orderField(req, name) {
			continue
		}
		return model.NewValidationError(name, fmt.Sprintf("required for %s orders", supplier))
	}
	return nil
}

// orderField reports whether the named order field is present.
func orderField(req *model.OrderRequest, name string) bool {
	switch name {
	case "shipTo":
		s := req.ShipTo
		return !s.IsZero() && s.Name != "" && s.Address1 != "" && s.City != "" && s.State != "" && s.Zip != ""
	case "poNumber":
		return req.PONumber != ""
	case "deliveryDate":
		return req.DeliveryDate != ""
	case "contactName":
		return req.Contact.Name != ""
	case "contactPhone":
		return req.Contact.Phone != ""
	case "contactEmail":
		return req.Contact.Email != ""
	}
	v, _ := req.Identifiers.Lookup(name)
	return v != ""
}
