package abc

import (
	"fmt"

	"supplier-gateway/internal/model"
)

const (
	msgNoPricing        = "No pricing data returned"
	msgPriceUnavailable = "Price unavailable"
)

// LineID returns the cart line's id, or a synthetic id stable for its position.
func LineID(item model.CartLine, index int) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("line-%d", index)
}

// LinesToABC converts cart lines to wire lines.
func LinesToABC(items []model.CartLine) []Line {
	lines := make([]Line, len(items))
	for i, item := range items {
		uom := item.UOM
		if uom == "" {
			uom = model.DefaultUOM
		}
		lines[i] = Line{
			ID:         LineID(item, i),
			ItemNumber: item.SKU,
			Quantity:   item.Quantity,
			UOM:        uom,
			Length:     item.Length,
		}
	}
	return lines
}

// ShipToToABC converts the internal address.
func ShipToToABC(s *model.ShipTo) OrderShipTo {
	return OrderShipTo{
		Name:         s.Name,
		AddressLine1: s.Address1,
		AddressLine2: s.Address2,
		City:         s.City,
		State:        s.State,
		PostalCode:   s.Zip,
	}
}

// MergePricing applies a pricing response to the original cart lines.
// Response lines are matched by line id, then by SKU. An unmatched line or a
// zero/absent price marks only that line as unpriced.
func MergePricing(items []model.CartLine, resp *PricingResponse) []model.CartLine {
	priced := make([]model.CartLine, len(items))
	for i, item := range items {
		match := findLine(resp.Lines, LineID(item, i), item.SKU)

		switch {
		case match == nil:
			priced[i] = item.Unpriced(msgNoPricing)
		case !match.UnitPrice.Valid || match.UnitPrice.Decimal.IsZero():
			reason := match.Message
			if reason == "" {
				reason = msgPriceUnavailable
			}
			priced[i] = item.Unpriced(reason)
		default:
			priced[i] = item.Priced(match.UnitPrice.Decimal)
		}
	}
	return priced
}

func findLine(lines []PricingResponseLine, id, sku string) *PricingResponseLine {
	for i := range lines {
		if lines[i].ID == id {
			return &lines[i]
		}
	}
	for i := range lines {
		if lines[i].ItemNumber == sku {
			return &lines[i]
		}
	}
	return nil
}

// OrderResultFromABC falls back to the request id and default status/message.
func OrderResultFromABC(resp *OrderResponse) *model.OrderSubmissionResult {
	result := &model.OrderSubmissionResult{
		OrderID: resp.OrderID,
		Status:  resp.Status,
		Message: resp.Message,
	}
	if result.OrderID == "" {
		result.OrderID = resp.RequestID
	}
	if result.Status == "" {
		result.Status = model.OrderStatusSubmitted
	}
	if result.Message == "" {
		result.Message = model.OrderSubmittedMessage
	}
	return result
}
