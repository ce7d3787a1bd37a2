// MCP transport handler using the official MCP Go SDK.
// Exposes pricing, ordering and environment routing as MCP tools.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"supplier-gateway/internal/model"
)

// === MCP Tool Input Types ===
// Lines carry no price on the way in; prices always come from the supplier.

// LineInput is one cart line passed to a tool.
type LineInput struct {
	ID       string  `json:"id,omitempty" jsonschema:"caller line id, echoed back"`
	SKU      string  `json:"sku" jsonschema:"supplier SKU,required"`
	Title    string  `json:"title,omitempty" jsonschema:"product title"`
	Variant  string  `json:"variant,omitempty" jsonschema:"product variant, defaults to Standard"`
	UOM      string  `json:"uom,omitempty" jsonschema:"unit of measure, defaults to EA"`
	Quantity int     `json:"quantity" jsonschema:"quantity, at least 1,required"`
	Length   float64 `json:"length,omitempty" jsonschema:"cut length where the product needs one"`
}

// IdentifiersInput mirrors model.SupplierIdentifiers for tool schemas.
type IdentifiersInput struct {
	BranchNumber string `json:"branchNumber,omitempty" jsonschema:"ABC branch number"`
	ShipToNumber string `json:"shipToNumber,omitempty" jsonschema:"ABC ship-to number"`
	CustomerCode string `json:"customerCode,omitempty" jsonschema:"SRS customer code"`
	BranchCode   string `json:"branchCode,omitempty" jsonschema:"SRS branch code"`
	AccountID    string `json:"accountId,omitempty" jsonschema:"BEACON account id"`
	JobNumber    string `json:"jobNumber,omitempty" jsonschema:"BEACON job number"`
}

// GetPricingInput is the input schema for the get_pricing tool.
type GetPricingInput struct {
	Supplier    string           `json:"supplier" jsonschema:"supplier key: ABC, SRS or BEACON,required"`
	Items       []LineInput      `json:"items" jsonschema:"lines to price,required"`
	Identifiers IdentifiersInput `json:"identifiers,omitempty" jsonschema:"account identifiers, catalog defaults fill blanks"`
}

// OrderLineInput is an order line with the price previously returned by get_pricing.
type OrderLineInput struct {
	ID       string  `json:"id,omitempty" jsonschema:"caller line id"`
	SKU      string  `json:"sku" jsonschema:"supplier SKU,required"`
	Title    string  `json:"title,omitempty" jsonschema:"product title"`
	Variant  string  `json:"variant,omitempty" jsonschema:"product variant"`
	UOM      string  `json:"uom,omitempty" jsonschema:"unit of measure"`
	Quantity int     `json:"quantity" jsonschema:"quantity,required"`
	Length   float64 `json:"length,omitempty" jsonschema:"cut length"`
	Price    float64 `json:"price,omitempty" jsonschema:"unit price from get_pricing"`
}

// SubmitOrderInput is the input schema for the submit_order tool.
type SubmitOrderInput struct {
	Supplier     string           `json:"supplier" jsonschema:"supplier key: ABC, SRS or BEACON,required"`
	Items        []OrderLineInput `json:"items" jsonschema:"lines to order,required"`
	Identifiers  IdentifiersInput `json:"identifiers,omitempty" jsonschema:"account identifiers"`
	ShipTo       *model.ShipTo    `json:"shipTo,omitempty" jsonschema:"delivery address"`
	PONumber     string           `json:"poNumber,omitempty" jsonschema:"purchase order number"`
	DeliveryDate string           `json:"deliveryDate,omitempty" jsonschema:"requested delivery date, YYYY-MM-DD"`
	DeliveryTime string           `json:"deliveryTime,omitempty" jsonschema:"requested delivery window"`
	Notes        string           `json:"notes,omitempty" jsonschema:"delivery instructions"`
	Contact      model.Contact    `json:"contact,omitempty" jsonschema:"delivery contact"`
}

// EnvironmentInput is the input schema for get_environment.
type EnvironmentInput struct {
	Supplier string `json:"supplier" jsonschema:"supplier key,required"`
	Action   string `json:"action" jsonschema:"getPricing or submitOrder,required"`
}

// SetEnvironmentInput is the input schema for set_environment.
type SetEnvironmentInput struct {
	Supplier string `json:"supplier" jsonschema:"supplier key,required"`
	Action   string `json:"action" jsonschema:"getPricing or submitOrder,required"`
	Env      string `json:"env" jsonschema:"sandbox or production,required"`
}

// NewMCPServer creates an MCP server with the gateway tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "supplier-gateway",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Supplier Gateway - price carts and place orders with building-material suppliers. " +
				"Use get_environment before ordering to confirm whether calls reach sandbox or production.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pricing",
		Description: "Price cart lines with one supplier. Lines the supplier cannot price come back with pricingFetched=false.",
	}, h.mcpGetPricing)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_order",
		Description: "Submit an order to one supplier. Orders are never retried.",
	}, h.mcpSubmitOrder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_environment",
		Description: "Get the environment (sandbox or production) a supplier action is routed to.",
	}, h.mcpGetEnvironment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_environment",
		Description: "Route a supplier action to sandbox or production. The change persists.",
	}, h.mcpSetEnvironment)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpGetPricing(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetPricingInput,
) (*mcp.CallToolResult, any, error) {
	items := make([]model.CartLine, len(input.Items))
	for i, li := range input.Items {
		items[i] = li.toModel()
	}

	resp, err := h.gateway.FetchPricing(ctx, input.Supplier, items, input.Identifiers.toModel())
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return h.mcpResult(resp.PricingResult)
}

func (h *Handler) mcpSubmitOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SubmitOrderInput,
) (*mcp.CallToolResult, any, error) {
	items := make([]model.CartLine, len(input.Items))
	for i, li := range input.Items {
		items[i] = LineInput{
			ID:       li.ID,
			SKU:      li.SKU,
			Title:    li.Title,
			Variant:  li.Variant,
			UOM:      li.UOM,
			Quantity: li.Quantity,
			Length:   li.Length,
		}.toModel()
		if li.Price > 0 {
			items[i] = items[i].Priced(decimal.NewFromFloat(li.Price))
		}
	}

	order := &model.OrderRequest{
		Items:        items,
		Identifiers:  input.Identifiers.toModel(),
		ShipTo:       input.ShipTo,
		PONumber:     input.PONumber,
		DeliveryDate: input.DeliveryDate,
		DeliveryTime: input.DeliveryTime,
		Notes:        input.Notes,
		Contact:      input.Contact,
	}

	resp, err := h.gateway.SubmitOrder(ctx, input.Supplier, order)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return h.mcpResult(resp.OrderSubmissionResult)
}

func (h *Handler) mcpGetEnvironment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EnvironmentInput,
) (*mcp.CallToolResult, any, error) {
	action, err := model.ParseAction(input.Action)
	if err != nil {
		return nil, nil, err
	}

	env, err := h.gateway.GetEffectiveEnvironment(ctx, input.Supplier, action)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return h.mcpResult(EnvironmentResponse{Supplier: input.Supplier, Action: action, Environment: env})
}

func (h *Handler) mcpSetEnvironment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SetEnvironmentInput,
) (*mcp.CallToolResult, any, error) {
	action, err := model.ParseAction(input.Action)
	if err != nil {
		return nil, nil, err
	}
	env, err := model.ParseEnvironment(input.Env)
	if err != nil {
		return nil, nil, err
	}

	settings, err := h.gateway.SetEffectiveEnvironment(ctx, input.Supplier, action, env)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return h.mcpResult(settings)
}

// mcpResult renders v as a JSON text result. Decimal amounts stay exact
// numbers in the text, which a derived output schema could not describe.
func (h *Handler) mcpResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// mcpError converts gateway errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}

func (li LineInput) toModel() model.CartLine {
	return model.CartLine{
		ID:       li.ID,
		SKU:      li.SKU,
		Title:    li.Title,
		Variant:  li.Variant,
		UOM:      li.UOM,
		Quantity: li.Quantity,
		Length:   li.Length,
	}
}

func (in IdentifiersInput) toModel() model.SupplierIdentifiers {
	return model.SupplierIdentifiers(in)
}
