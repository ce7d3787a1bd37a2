// supplierctl is a CLI tool for exercising the supplier gateway's REST API.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	supplierctl price -supplier KEY -item SKU:QTY[:UOM] [-item ...] [-branch N] [-shipto N]
//	supplierctl order -supplier KEY -item SKU:QTY[:UOM]:PRICE [-item ...] -po PO -date YYYY-MM-DD
//	supplierctl env -supplier KEY -action getPricing|submitOrder [-set sandbox|production]
//	supplierctl merge [-cart-file FILE] [-cart SKU:QTY[:UOM] ...] -item SKU:QTY[:UOM] [-item ...]
//	supplierctl suppliers
//
// Examples:
//
//	supplierctl price -supplier ABC -item SHNG-1:20:BD
//	supplierctl env -supplier ABC -action submitOrder -set production
//	ID=$(supplierctl order -supplier BEACON -item 554550:2:BD -po PO-77 -date 2026-03-10 -q)
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"supplier-gateway/internal/handler"
	"supplier-gateway/internal/model"
)

var client = &http.Client{Timeout: 60 * time.Second}

// Global flags (apply to all commands)
var (
	gatewayURL string
	quiet      bool
	noColor    bool
	verbose    bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorCyan, colorGray, colorBold = "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "price":
		runPrice(args)
	case "order":
		runOrder(args)
	case "env":
		runEnv(args)
	case "merge":
		runMerge(args)
	case "suppliers":
		runSuppliers(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `supplierctl - supplier gateway test tool

Usage:
  supplierctl <command> [options]

Commands:
  price      Price cart lines with one supplier
  order      Submit an order to one supplier
  env        Show or change where a supplier action is routed
  merge      Add lines to a cart, combining matching lines
  suppliers  List configured suppliers

Examples:
  # Price two lines with ABC
  supplierctl price -supplier ABC -item SHNG-1:20:BD -item NAIL-5:2

  # Route SRS orders to production
  supplierctl env -supplier SRS -action submitOrder -set production

  # Add two bundles to a saved cart
  supplierctl merge -cart-file cart.json -item SHNG-1:2:BD

  # Place an order and capture its id
  ID=$(supplierctl order -supplier BEACON -item 554550:2:BD:52.00 -po PO-77 -date 2026-03-10 -q)

Run 'supplierctl <command> -h' for command-specific options.
`)
}

// commonFlags registers the flags every command shares.
func commonFlags(fs *flag.FlagSet) {
	fs.StringVar(&gatewayURL, "gateway", envOr("SUPPLIER_GATEWAY_URL", "http://localhost:8080"), "Gateway base URL")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output the key result")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - show full request/response")
}

// identifierFlags binds the supplier account identifiers.
func identifierFlags(fs *flag.FlagSet, ids *model.SupplierIdentifiers) {
	fs.StringVar(&ids.BranchNumber, "branch", "", "ABC branch number")
	fs.StringVar(&ids.ShipToNumber, "shipto", "", "ABC ship-to number")
	fs.StringVar(&ids.CustomerCode, "customer", "", "SRS customer code")
	fs.StringVar(&ids.BranchCode, "branch-code", "", "SRS branch code")
	fs.StringVar(&ids.AccountID, "account", "", "BEACON account id")
	fs.StringVar(&ids.JobNumber, "job", "", "BEACON job number")
}

// itemsFlag collects repeated -item values.
type itemsFlag []model.CartLine

func (f *itemsFlag) String() string { return fmt.Sprintf("%d items", len(*f)) }

func (f *itemsFlag) Set(v string) error {
	line, err := parseItem(v)
	if err != nil {
		return err
	}
	*f = append(*f, line)
	return nil
}

// parseItem reads SKU:QTY[:UOM[:PRICE]].
func parseItem(v string) (model.CartLine, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || parts[0] == "" {
		return model.CartLine{}, fmt.Errorf("item %q: want SKU:QTY[:UOM[:PRICE]]", v)
	}

	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return model.CartLine{}, fmt.Errorf("item %q: quantity must be a positive integer", v)
	}

	line := model.CartLine{SKU: parts[0], Title: parts[0], Quantity: qty}
	if len(parts) > 2 {
		line.UOM = parts[2]
	}
	if len(parts) > 3 {
		price, err := decimal.NewFromString(parts[3])
		if err != nil {
			return model.CartLine{}, fmt.Errorf("item %q: invalid price: %w", v, err)
		}
		line = line.Priced(price)
	}
	return line, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func runPrice(args []string) {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	commonFlags(fs)
	var req handler.PricingRequest
	var items itemsFlag
	fs.StringVar(&req.Supplier, "supplier", "", "Supplier key: ABC, SRS or BEACON (required)")
	fs.Var(&items, "item", "Line as SKU:QTY[:UOM], repeatable (required)")
	identifierFlags(fs, &req.SupplierIdentifiers)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: supplierctl price -supplier KEY -item SKU:QTY [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if req.Supplier == "" || len(items) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	req.Items = items

	var result model.PricingResult
	route, err := doRequest("POST", "/api/pricing", req, &result)
	if err != nil {
		fatal("Pricing failed: %v", err)
	}

	if quiet {
		fmt.Println(result.Totals.GrandTotal.StringFixed(2))
		return
	}

	printSuccess("Priced with %s (%s)", route.Supplier, route.Environment)
	for _, line := range result.Items {
		if line.PricingFetched {
			fmt.Printf("  %s x%d %s: %s%s%s\n", line.SKU, line.Quantity, line.UOM, colorGreen, line.UnitPrice.StringFixed(2), colorReset)
		} else {
			printWarning("%s x%d %s: %s", line.SKU, line.Quantity, line.UOM, line.PricingError)
		}
	}
	fmt.Printf("  Subtotal: %s\n", result.Totals.Subtotal.StringFixed(2))
	fmt.Printf("  Tax:      %s\n", result.Totals.Tax.StringFixed(2))
	fmt.Printf("  Total:    %s%s %s%s\n", colorBold, result.Totals.GrandTotal.StringFixed(2), result.Totals.Currency, colorReset)
}

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	commonFlags(fs)
	var req handler.OrderRequest
	var items itemsFlag
	var shipTo model.ShipTo
	fs.StringVar(&req.Supplier, "supplier", "", "Supplier key: ABC, SRS or BEACON (required)")
	fs.Var(&items, "item", "Line as SKU:QTY[:UOM[:PRICE]], repeatable (required)")
	fs.StringVar(&req.PONumber, "po", "", "Purchase order number")
	fs.StringVar(&req.DeliveryDate, "date", "", "Requested delivery date (YYYY-MM-DD)")
	fs.StringVar(&req.DeliveryTime, "time", "", "Requested delivery window")
	fs.StringVar(&req.Notes, "notes", "", "Delivery instructions")
	fs.StringVar(&req.Contact.Name, "contact-name", "", "Delivery contact name")
	fs.StringVar(&req.Contact.Phone, "contact-phone", "", "Delivery contact phone")
	fs.StringVar(&req.Contact.Email, "contact-email", "", "Delivery contact email")
	fs.StringVar(&shipTo.Name, "ship-name", "", "Ship-to name")
	fs.StringVar(&shipTo.Address1, "ship-address", "", "Ship-to street address")
	fs.StringVar(&shipTo.City, "ship-city", "", "Ship-to city")
	fs.StringVar(&shipTo.State, "ship-state", "", "Ship-to state")
	fs.StringVar(&shipTo.Zip, "ship-zip", "", "Ship-to postal code")
	identifierFlags(fs, &req.SupplierIdentifiers)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: supplierctl order -supplier KEY -item SKU:QTY -po PO -date DATE [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if req.Supplier == "" || len(items) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	req.Items = items
	if !shipTo.IsZero() {
		req.ShipTo = &shipTo
	}

	var result model.OrderSubmissionResult
	route, err := doRequest("POST", "/api/order", req, &result)
	if err != nil {
		fatal("Order failed: %v", err)
	}

	if quiet {
		fmt.Println(result.OrderID)
		return
	}
	if route.Environment == model.EnvProduction {
		printWarning("Order was sent to %s production", route.Supplier)
	}
	printSuccess("%s", result.Message)
	fmt.Printf("  Order: %s%s%s (%s)\n", colorCyan, result.OrderID, colorReset, result.Status)
}

func runEnv(args []string) {
	fs := flag.NewFlagSet("env", flag.ExitOnError)
	commonFlags(fs)
	var supplier, action, set string
	fs.StringVar(&supplier, "supplier", "", "Supplier key (required)")
	fs.StringVar(&action, "action", string(model.ActionGetPricing), "getPricing or submitOrder")
	fs.StringVar(&set, "set", "", "Switch to sandbox or production")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: supplierctl env -supplier KEY [-action ACTION] [-set ENV] [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if supplier == "" {
		fs.Usage()
		os.Exit(1)
	}

	path := "/api/settings/" + url.PathEscape(supplier) + "/" + url.PathEscape(action)
	if set != "" {
		if _, err := doRequest("PATCH", path, handler.EnvironmentRequest{Env: set}, nil); err != nil {
			fatal("Failed to change environment: %v", err)
		}
	}

	var env handler.EnvironmentResponse
	if _, err := doRequest("GET", path, nil, &env); err != nil {
		fatal("Failed to read environment: %v", err)
	}

	if quiet {
		fmt.Println(env.Environment)
		return
	}
	printSuccess("%s %s → %s%s%s", strings.ToUpper(supplier), env.Action, colorCyan, env.Environment, colorReset)
}

func runMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	commonFlags(fs)
	var cart, items itemsFlag
	var cartFile string
	fs.StringVar(&cartFile, "cart-file", "", "JSON file holding the current cart lines")
	fs.Var(&cart, "cart", "Existing cart line as SKU:QTY[:UOM], repeatable")
	fs.Var(&items, "item", "Line to add as SKU:QTY[:UOM], repeatable (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: supplierctl merge [-cart-file FILE] [-cart SKU:QTY] -item SKU:QTY [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if len(items) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	var existing []model.CartLine
	if cartFile != "" {
		lines, err := readCartFile(cartFile)
		if err != nil {
			fatal("%v", err)
		}
		existing = lines
	}
	existing = append(existing, cart...)

	merged, err := mergeCart(existing, items)
	if err != nil {
		fatal("Merge failed: %v", err)
	}

	if quiet {
		out, _ := json.Marshal(merged)
		fmt.Println(string(out))
		return
	}
	printSuccess("Cart has %d lines", len(merged))
	for _, line := range merged {
		fmt.Printf("  %s x%d %s\n", line.SKU, line.Quantity, line.UOM)
	}
}

// mergeCart posts the cart and additions to the gateway and returns the merged cart.
func mergeCart(cart, additions []model.CartLine) ([]model.CartLine, error) {
	var resp handler.CartMergeResponse
	if _, err := doRequest("POST", "/api/cart/lines", handler.CartMergeRequest{Cart: cart, Lines: additions}, &resp); err != nil {
		return nil, err
	}
	return resp.Cart, nil
}

// readCartFile loads cart lines from a JSON array, or from an object with a
// "cart" field as returned by a previous merge.
func readCartFile(path string) ([]model.CartLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cart file: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err == nil {
		return lines, nil
	}
	var wrapped handler.CartMergeResponse
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing cart file %s: %w", path, err)
	}
	return wrapped.Cart, nil
}

func runSuppliers(args []string) {
	fs := flag.NewFlagSet("suppliers", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)

	if noColor {
		disableColors()
	}

	var list []handler.SupplierSummary
	if _, err := doRequest("GET", "/api/suppliers", nil, &list); err != nil {
		fatal("Failed to list suppliers: %v", err)
	}

	for _, s := range list {
		if quiet {
			fmt.Println(s.Key)
			continue
		}
		fmt.Printf("  %s%s%s %s (%s) %v\n", colorBold, s.Key, colorReset, s.Name, s.AuthKind, s.Environments)
	}
}

// =============================================================================
// HTTP
// =============================================================================

// doRequest sends body as JSON and decodes the response into out when non-nil.
// The Supplier-Route header, when present, is returned parsed.
func doRequest(method, path string, body, out any) (route routeInfo, err error) {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		if err != nil {
			return route, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	req, err := http.NewRequest(method, gatewayURL+path, reqBody)
	if err != nil {
		return route, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if !quiet {
		printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return route, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return route, fmt.Errorf("reading response: %w", err)
	}

	if !quiet {
		printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		return route, fmt.Errorf("HTTP %d: %s", resp.StatusCode, errorMessage(respBody))
	}

	if h := resp.Header.Get(handler.RouteHeader); h != "" {
		if r, err := handler.ParseRouteHeader(h); err == nil {
			route = routeInfo{Supplier: r.Supplier, Environment: r.Environment}
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return route, fmt.Errorf("parsing response: %w", err)
		}
	}
	return route, nil
}

type routeInfo struct {
	Supplier    string
	Environment model.Environment
}

// errorMessage extracts the gateway's error message, falling back to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error.Code == "" {
		return strings.TrimSpace(string(body))
	}
	return e.Error.Code + ": " + e.Error.Message
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printRequest(method, path string, body []byte) {
	fmt.Printf("\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		printJSON(body, "  ")
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Printf("\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	printJSON(body, "  ")
}

func printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Printf("%s%s\n", prefix, string(data))
		return
	}

	output := pretty.String()
	if !verbose {
		lines := strings.Split(output, "\n")
		if len(lines) > 30 {
			lines = append(lines[:25], fmt.Sprintf("%s  %s(%d more lines, use -v for full output)%s", prefix, colorGray, len(lines)-25, colorReset))
			output = strings.Join(lines, "\n")
		}
	}
	fmt.Println(output)
}

func printSuccess(format string, args ...any) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printWarning(format string, args ...any) {
	fmt.Printf("%s⚠ %s%s\n", colorYellow, fmt.Sprintf(format, args...), colorReset)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
