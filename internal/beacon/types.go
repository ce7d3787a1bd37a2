package beacon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BEACON (QXO) WIRE TYPES
// =============================================================================

// LoginRequest is the body of POST {login}.
type LoginRequest struct {
	Username            string `json:"username"`
	Password            string `json:"password"`
	SiteID              string `json:"siteId"`
	PersistentLoginType string `json:"persistentLoginType"`
	UserAgent           string `json:"userAgent"`
	APISiteID           string `json:"apiSiteId"`
}

// Envelope carries the error fields Beacon puts in otherwise successful bodies.
type Envelope struct {
	Message     string      `json:"message,omitempty"`
	MessageInfo string      `json:"messageInfo,omitempty"`
	MessageCode MessageCode `json:"messageCode,omitempty"`
}

// Detail returns the most specific message text.
func (e Envelope) Detail() string {
	if e.MessageInfo != "" {
		return e.MessageInfo
	}
	return e.Message
}

// MessageCode is a Beacon error code. Beacon sends it as a string, a number or
// a boolean; an empty value means success. Zero and false decode as empty.
type MessageCode string

func (c *MessageCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*c = ""
	case bytes.Equal(data, []byte("true")):
		*c = "true"
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = MessageCode(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("messageCode: %w", err)
		}
		if f == 0 {
			*c = ""
			return nil
		}
		*c = MessageCode(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// PricingResponse is the reply to GET {pricing}.
type PricingResponse struct {
	Envelope
	PriceInfo map[string]UOMPrices `json:"priceInfo"`
}

// UOMPrices maps unit of measure to price for one SKU, keeping the order
// units appear in the response.
type UOMPrices struct {
	UOMs   []string
	Prices map[string]decimal.NullDecimal
}

// Lookup returns a non-null price for uom.
func (p UOMPrices) Lookup(uom string) (decimal.Decimal, bool) {
	price, ok := p.Prices[uom]
	if !ok || !price.Valid {
		return decimal.Decimal{}, false
	}
	return price.Decimal, true
}

func (p *UOMPrices) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("uom prices: expected object, got %v", tok)
	}

	p.UOMs = nil
	p.Prices = make(map[string]decimal.NullDecimal)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		uom, _ := keyTok.(string)

		var price decimal.NullDecimal
		if err := dec.Decode(&price); err != nil {
			return fmt.Errorf("uom prices %q: %w", uom, err)
		}
		if _, seen := p.Prices[uom]; !seen {
			p.UOMs = append(p.UOMs, uom)
		}
		p.Prices[uom] = price
	}

	_, err = dec.Token()
	return err
}

func (p UOMPrices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, uom := range p.UOMs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(uom)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Prices[uom])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// OrderRequest is the body of POST {order}.
type OrderRequest struct {
	PONumber              string      `json:"poNumber"`
	RequestedDeliveryDate string      `json:"requestedDeliveryDate"`
	DeliveryInstructions  string      `json:"deliveryInstructions"`
	JobNumber             string      `json:"jobNumber"`
	Items                 []OrderItem `json:"items"`
}

// OrderItem is one ordered SKU.
type OrderItem struct {
	SKUID    string `json:"skuId"`
	Quantity int    `json:"quantity"`
	UOM      string `json:"uom"`
}

// OrderResponse is the order endpoint's reply.
type OrderResponse struct {
	Envelope
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}
