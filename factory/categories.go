/*
Package factory provides JSON to Go category conversion.

PURPOSE:
  Converts JSON category definitions into finance.Category records and
  seeds them into the registry. This enables category configuration
  without code changes - the default chart of categories ships as JSON,
  and an admin UI can add more.

JSON SCHEMA:
  {
    "type": "expense",
    "name": "utilities",
    "cash_flow_activity": "operating",
    "transaction_nature": "operating",
    "include_in_profit_loss": true
  }

USAGE:
  seeded, err := factory.SeedSystemCategories(ctx, registry, companyID)

SEE ALSO:
  - finance/category.go: Category type and registry
  - finance/classify.go: Static fallback for categories outside the registry
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CategoryJSON is the JSON representation of a category.
type CategoryJSON struct {
	Type                string `json:"type"`
	Name                string `json:"name"`
	CashFlowActivity    string `json:"cash_flow_activity"`
	TransactionNature   string `json:"transaction_nature,omitempty"`
	IncludeInProfitLoss *bool  `json:"include_in_profit_loss,omitempty"` // default true
}

// ParseCategory converts a JSON definition into a Category for the company.
func ParseCategory(def CategoryJSON, companyID finance.CompanyID, isSystem bool) (finance.Category, error) {
	cat := finance.Category{
		ID:                  finance.CategoryID(uuid.NewString()),
		CompanyID:           companyID,
		Type:                finance.TransactionType(def.Type),
		Name:                def.Name,
		Activity:            finance.CashFlowActivity(def.CashFlowActivity),
		IncludeInProfitLoss: true,
		IsSystem:            isSystem,
	}
	if def.IncludeInProfitLoss != nil {
		cat.IncludeInProfitLoss = *def.IncludeInProfitLoss
	}
	if def.TransactionNature != "" {
		n := finance.TransactionNature(def.TransactionNature)
		cat.Nature = &n
	}
	if err := cat.Validate(); err != nil {
		return finance.Category{}, fmt.Errorf("category %q: %w", def.Name, err)
	}
	return cat, nil
}

// ParseCategories parses a JSON array of category definitions.
func ParseCategories(data []byte, companyID finance.CompanyID, isSystem bool) ([]finance.Category, error) {
	var defs []CategoryJSON
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	cats := make([]finance.Category, 0, len(defs))
	for _, def := range defs {
		cat, err := ParseCategory(def, companyID, isSystem)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// =============================================================================
// SYSTEM PRESETS - The default chart of categories
// =============================================================================

const systemCategoriesJSON = `[
	{"type": "income",  "name": "sales",              "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "income",  "name": "service income",     "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "income",  "name": "interest income",    "cash_flow_activity": "operating", "transaction_nature": "non_operating"},
	{"type": "income",  "name": "equipment sale",     "cash_flow_activity": "investing", "transaction_nature": "non_operating"},
	{"type": "income",  "name": "loan proceeds",      "cash_flow_activity": "financing", "include_in_profit_loss": false},
	{"type": "income",  "name": "owner investment",   "cash_flow_activity": "financing", "include_in_profit_loss": false},
	{"type": "expense", "name": "cost of goods",      "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "expense", "name": "payroll",            "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "expense", "name": "rent",               "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "expense", "name": "utilities",          "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "expense", "name": "supplies",           "cash_flow_activity": "operating", "transaction_nature": "operating"},
	{"type": "expense", "name": "equipment purchase", "cash_flow_activity": "investing", "transaction_nature": "non_operating"},
	{"type": "expense", "name": "renovation",         "cash_flow_activity": "investing", "transaction_nature": "non_operating"},
	{"type": "expense", "name": "loan repayment",     "cash_flow_activity": "financing", "include_in_profit_loss": false},
	{"type": "expense", "name": "owner withdrawal",   "cash_flow_activity": "financing", "include_in_profit_loss": false},
	{"type": "expense", "name": "income tax",         "cash_flow_activity": "operating", "transaction_nature": "income_tax"}
]`

// SeedSystemCategories inserts the default chart for a company, skipping
// names that already exist (seeding is idempotent). Returns how many
// categories were created.
func SeedSystemCategories(ctx context.Context, registry *finance.Registry, companyID finance.CompanyID) (int, error) {
	cats, err := ParseCategories([]byte(systemCategoriesJSON), companyID, true)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, cat := range cats {
		existing, err := registry.Lookup(ctx, companyID, cat.Type, cat.Name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := registry.Upsert(ctx, cat); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
