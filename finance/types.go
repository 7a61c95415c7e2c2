/*
Package finance provides the core domain model for the statement engine.

PURPOSE:
  This package contains the records and classifications shared by every
  layer of the system: transactions, categories, stores, and the
  classification axes used by the cash-flow and profit-and-loss statements.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: A single cash movement (income or expense) at one store
  - CashFlowActivity: operating / investing / financing
  - TransactionNature: operating / non_operating / income_tax
  - Store: A retail location with its own ledger opening date and balance

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Positive amounts: Amount is always > 0; sign is derived from Type
  3. Denormalization: Classification fields are stamped onto transactions
     at write time so statements never need a registry join
  4. Explicit scoping: Every record carries CompanyID; no ambient tenant

SEE ALSO:
  - classify.go: How classification fields are derived
  - category.go: The registry that is the source of truth for categories
  - date.go, period.go: Calendar types used throughout
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CLASSIFICATION AXES
// =============================================================================

// TransactionType is the direction of a cash movement.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// CashFlowActivity is the three-way classification used by the cash-flow
// statement.
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "operating"
	ActivityInvesting CashFlowActivity = "investing"
	ActivityFinancing CashFlowActivity = "financing"
)

// Activities lists the three activities in statement display order.
var Activities = []CashFlowActivity{ActivityOperating, ActivityInvesting, ActivityFinancing}

// TransactionNature is the classification used by the profit-and-loss
// statement. A nil nature on a transaction means "not classified", which
// the aggregator treats as operating.
type TransactionNature string

const (
	NatureOperating    TransactionNature = "operating"
	NatureNonOperating TransactionNature = "non_operating"
	NatureIncomeTax    TransactionNature = "income_tax"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type StoreID string
type TransactionID string
type CategoryID string

// =============================================================================
// TRANSACTION - A single classified cash movement
// =============================================================================

// Transaction is a cash movement recorded at a store. Classification fields
// (Activity, Nature, IncludeInProfitLoss) are denormalized at write time
// from the category registry; editing the category re-derives them.
//
// INVARIANTS:
//   - Amount > 0; sign comes from Type, never stored negative
//   - Date >= the store's InitialBalanceDate
type Transaction struct {
	ID          TransactionID
	CompanyID   CompanyID
	StoreID     StoreID
	Type        TransactionType
	Category    string
	Amount      decimal.Decimal
	Date        Date
	Description string

	// Denormalized classification (see classify.go)
	Activity            CashFlowActivity
	Nature              *TransactionNature
	IncludeInProfitLoss bool
}

// Signed returns the amount with its direction applied: positive for
// income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the write-time invariants that hold regardless of store
// context. Store-relative checks (date vs. opening date) live with the
// caller that has the store loaded.
func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return &ValidationError{Field: "type", Message: "must be income or expense"}
	}
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	if t.StoreID == "" {
		return &ValidationError{Field: "store_id", Message: "is required"}
	}
	if t.Category == "" {
		return &ValidationError{Field: "category", Message: "is required"}
	}
	return nil
}

// =============================================================================
// STORE - A retail location with its own ledger opening
// =============================================================================

type StoreStatus string

const (
	StoreActive    StoreStatus = "active"
	StoreInactive  StoreStatus = "inactive"
	StorePreparing StoreStatus = "preparing"
	StoreClosed    StoreStatus = "closed"
)

// Store is a retail location. InitialBalanceDate is the date its ledger
// begins; no transaction for the store may predate it. A store with a nil
// InitialBalanceDate cannot participate in consolidation.
type Store struct {
	ID                 StoreID
	CompanyID          CompanyID
	Name               string
	Status             StoreStatus
	InitialBalanceDate *Date
	InitialBalance     decimal.Decimal
}

// ValidateTransactionDate checks that a transaction date is not before the
// store's ledger opening.
func (s Store) ValidateTransactionDate(d Date) error {
	if s.InitialBalanceDate == nil {
		return &MissingInitialBalanceError{StoreID: s.ID, StoreName: s.Name}
	}
	if d.Before(*s.InitialBalanceDate) {
		return &ValidationError{
			Field:   "date",
			Message: "precedes store initial balance date " + s.InitialBalanceDate.String(),
		}
	}
	return nil
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

func Money(value float64) decimal.Decimal { return decimal.NewFromFloat(value) }

func MustParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
