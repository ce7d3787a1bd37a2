package beacon

import (
	"supplier-gateway/internal/model"
)

const (
	msgNoPricing           = "No pricing data returned"
	msgPriceUnavailableUOM = "Price unavailable for UOM"
)

// SKUIDs renders cart lines as "sku:uom", or a bare sku when no unit is given.
func SKUIDs(items []model.CartLine) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		if item.UOM != "" {
			ids[i] = item.SKU + ":" + item.UOM
		} else {
			ids[i] = item.SKU
		}
	}
	return ids
}

// MergePricing applies priceInfo to the cart. A line without a unit takes the
// first unit Beacon lists. A SKU that is absent or null in priceInfo has no
// pricing data. A missing unit price falls back to EMPTY_UOM; if
// neither exists the line is unpriced and reports the units that are priced.
func MergePricing(items []model.CartLine, resp *PricingResponse) []model.CartLine {
	priced := make([]model.CartLine, len(items))
	for i, item := range items {
		prices, ok := resp.PriceInfo[item.SKU]
		if !ok || prices.Prices == nil {
			priced[i] = item.Unpriced(msgNoPricing)
			continue
		}

		uom := item.UOM
		if uom == "" && len(prices.UOMs) > 0 {
			uom = prices.UOMs[0]
		}

		price, found := prices.Lookup(uom)
		if !found {
			price, found = prices.Lookup(emptyUOMPriceKey)
		}

		var line model.CartLine
		if found {
			line = item.Priced(price)
		} else {
			line = item.Unpriced(msgPriceUnavailableUOM)
		}
		line.AvailableUOMs = append([]string(nil), prices.UOMs...)
		priced[i] = line
	}
	return priced
}

// OrderToBeacon builds the order body.
func OrderToBeacon(req *model.OrderRequest) *OrderRequest {
	items := make([]OrderItem, len(req.Items))
	for i, item := range req.Items {
		uom := item.UOM
		if uom == "" {
			uom = model.DefaultUOM
		}
		items[i] = OrderItem{SKUID: item.SKU, Quantity: item.Quantity, UOM: uom}
	}
	return &OrderRequest{
		PONumber:              req.PONumber,
		RequestedDeliveryDate: req.DeliveryDate,
		DeliveryInstructions:  req.Notes,
		JobNumber:             req.Identifiers.JobNumber,
		Items:                 items,
	}
}
