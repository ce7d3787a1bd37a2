package srs

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"supplier-gateway/internal/model"
)

const (
	sourceSystem         = "HUBSPOT_EXT"
	jobAccountNumber     = 1
	noOption             = "N/A"
	defaultDeliveryTime  = "Anytime"
	orderTypeWarehouse   = "WHSE"
	shippingGroundDrop   = "Ground Drop"
	msgNoPricing         = "No pricing data returned"
	msgPriceUnavailable  = "Price unavailable"
	transactionDateStamp = "2006-01-02T15:04:05.000Z07:00"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func uomOrDefault(uom string) string {
	if uom == "" {
		return model.DefaultUOM
	}
	return uom
}

// ProductsToSRS converts cart lines to the pricing product list.
func ProductsToSRS(items []model.CartLine) []Product {
	products := make([]Product, len(items))
	for i, item := range items {
		options := []string{noOption}
		if item.Variant != "" {
			options = []string{item.Variant}
		}
		products[i] = Product{
			ProductName:    item.Title,
			ProductOptions: options,
			Quantity:       item.Quantity,
			UOM:            uomOrDefault(item.UOM),
		}
	}
	return products
}

// MergePricing applies the response array to the cart. A product is matched
// by name, falling back to the element at the same position.
func MergePricing(items []model.CartLine, resp []PricedProduct) []model.CartLine {
	priced := make([]model.CartLine, len(items))
	for i, item := range items {
		match := findProduct(resp, item.Title, i)

		switch {
		case match == nil:
			priced[i] = item.Unpriced(msgNoPricing)
		case !match.Price.Valid:
			reason := match.Message
			if reason == "" {
				reason = msgPriceUnavailable
			}
			priced[i] = item.Unpriced(reason)
		default:
			line := item.Priced(match.Price.Decimal)
			line.ItemCode = match.ItemCode
			line.AvailableStatus = match.AvailableStatus
			priced[i] = line
		}
	}
	return priced
}

func findProduct(resp []PricedProduct, title string, index int) *PricedProduct {
	for i := range resp {
		if resp[i].ProductName == title {
			return &resp[i]
		}
	}
	if index < len(resp) {
		return &resp[index]
	}
	return nil
}

// BuildOrder assembles and validates the SRS order payload.
func BuildOrder(req *model.OrderRequest, transactionID string, now time.Time) (*OrderRequest, error) {
	if req.ShipTo == nil {
		return nil, model.NewValidationError("shipTo", "required for SRS orders")
	}
	ship := req.ShipTo
	now = now.UTC()

	deliveryTime := req.DeliveryTime
	if deliveryTime == "" {
		deliveryTime = defaultDeliveryTime
	}

	lines := make([]OrderLineItem, len(req.Items))
	for i, item := range req.Items {
		option := item.Variant
		if option == "" {
			option = noOption
		}
		lines[i] = OrderLineItem{
			ProductName:  item.Title,
			Option:       option,
			Quantity:     item.Quantity,
			Price:        item.UnitPrice,
			CustomerItem: item.SKU,
			UOM:          uomOrDefault(item.UOM),
		}
	}

	order := &OrderRequest{
		SourceSystem:     sourceSystem,
		CustomerCode:     req.Identifiers.CustomerCode,
		JobAccountNumber: jobAccountNumber,
		BranchCode:       req.Identifiers.BranchCode,
		AccountNumber:    req.Identifiers.CustomerCode,
		TransactionID:    transactionID,
		TransactionDate:  now.Format(transactionDateStamp),
		Notes:            req.Notes,
		ShipTo: OrderShipTo{
			Name:         ship.Name,
			AddressLine1: ship.Address1,
			AddressLine2: ship.Address2,
			City:         ship.City,
			State:        ship.State,
			ZipCode:      ship.Zip,
		},
		PODetails: PODetails{
			PONumber:             req.PONumber,
			OrderDate:            now.Format(time.DateOnly),
			ExpectedDeliveryDate: req.DeliveryDate,
			ExpectedDeliveryTime: deliveryTime,
			OrderType:            orderTypeWarehouse,
			ShippingMethod:       shippingGroundDrop,
		},
		LineItems: lines,
		CustomerContactInfo: ContactInfo{
			Name:  req.Contact.Name,
			Phone: req.Contact.Phone,
			Email: req.Contact.Email,
			Address: ContactAddress{
				AddressLine1: ship.Address1,
				City:         ship.City,
				State:        ship.State,
				ZipCode:      ship.Zip,
			},
			AdditionalContactEmails: []string{},
		},
	}

	if err := validate.Struct(order); err != nil {
		return nil, validationError(err)
	}
	return order, nil
}

// validationError reports the first failing field by its JSON path.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return model.NewInternalError(err)
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	reason := "is required"
	switch fe.Tag() {
	case "email":
		reason = "must be a valid email address"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "min":
		reason = "must have at least " + fe.Param() + " entries"
	}
	return model.NewValidationError(field, reason)
}

// OrderResultFromSRS prefers the supplier's order id over our transaction id.
func OrderResultFromSRS(resp *OrderResponse, transactionID string) *model.OrderSubmissionResult {
	orderID := resp.OrderID
	if orderID == "" {
		orderID = resp.TransactionID
	}
	if orderID == "" {
		orderID = transactionID
	}
	message := resp.Message
	if message == "" {
		message = model.OrderSubmittedMessage
	}
	return &model.OrderSubmissionResult{
		OrderID: orderID,
		Status:  model.OrderStatusSubmitted,
		Message: message,
	}
}
