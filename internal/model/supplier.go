package model

import (
	"fmt"
	"strings"
)

// Environment selects a supplier endpoint set.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// ParseEnvironment accepts "sandbox", "production" and the legacy "prod" spelling.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sandbox":
		return EnvSandbox, nil
	case "production", "prod":
		return EnvProduction, nil
	default:
		return "", fmt.Errorf("environment must be %q or %q, got %q", EnvSandbox, EnvProduction, s)
	}
}

// Action names a gateway operation whose environment is routed independently.
type Action string

const (
	ActionGetPricing  Action = "getPricing"
	ActionSubmitOrder Action = "submitOrder"
)

// Actions lists every routed action.
var Actions = []Action{ActionGetPricing, ActionSubmitOrder}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("action must be %q or %q, got %q", ActionGetPricing, ActionSubmitOrder, s)
}

// SupplierIdentifiers carries the account identifiers each supplier needs.
// ABC uses BranchNumber/ShipToNumber, SRS uses CustomerCode/BranchCode,
// BEACON uses AccountID/JobNumber.
type SupplierIdentifiers struct {
	BranchNumber string `json:"branchNumber,omitempty"`
	ShipToNumber string `json:"shipToNumber,omitempty"`
	CustomerCode string `json:"customerCode,omitempty"`
	BranchCode   string `json:"branchCode,omitempty"`
	AccountID    string `json:"accountId,omitempty"`
	JobNumber    string `json:"jobNumber,omitempty"`
}

// Lookup returns an identifier by its JSON name.
func (s SupplierIdentifiers) Lookup(name string) (string, bool) {
	switch name {
	case "branchNumber":
		return s.BranchNumber, true
	case "shipToNumber":
		return s.ShipToNumber, true
	case "customerCode":
		return s.CustomerCode, true
	case "branchCode":
		return s.BranchCode, true
	case "accountId":
		return s.AccountID, true
	case "jobNumber":
		return s.JobNumber, true
	}
	return "", false
}

// WithDefaults fills blank identifiers from defaults keyed by JSON name.
func (s SupplierIdentifiers) WithDefaults(defaults map[string]string) SupplierIdentifiers {
	fill := func(v *string, name string) {
		if *v == "" {
			*v = defaults[name]
		}
	}
	fill(&s.BranchNumber, "branchNumber")
	fill(&s.ShipToNumber, "shipToNumber")
	fill(&s.CustomerCode, "customerCode")
	fill(&s.BranchCode, "branchCode")
	fill(&s.AccountID, "accountId")
	fill(&s.JobNumber, "jobNumber")
	return s
}
