/*
builder.go - Statement orchestration

PURPOSE:
  Composes consolidation and the two aggregators into complete statements.
  Pure functions of (stores, transactions, period, scope): no hidden state,
  fully re-computable, safe to memoize on (period, scope, data version).

STORE SCOPE:
  A statement can cover a single store, an explicit subset, or all stores
  of the company. An empty scope means "all stores".

SUMMARY IDENTITY:
  endingBalance = beginningBalance + netIncrease
  netIncrease   = operating.net + investing.net + financing.net
  (financing.net already contains the virtual capital entries)
*/
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// INPUT
// =============================================================================

// StoreScope selects which stores a statement covers. Empty IDs = all.
type StoreScope struct {
	StoreIDs []finance.StoreID
}

func AllStores() StoreScope { return StoreScope{} }

func SingleStore(id finance.StoreID) StoreScope {
	return StoreScope{StoreIDs: []finance.StoreID{id}}
}

func (sc StoreScope) includes(id finance.StoreID) bool {
	if len(sc.StoreIDs) == 0 {
		return true
	}
	for _, want := range sc.StoreIDs {
		if want == id {
			return true
		}
	}
	return false
}

// Input is the immutable snapshot a statement is built from. The caller
// (persistence layer) supplies records already scoped to the company.
type Input struct {
	CompanyID    finance.CompanyID
	Stores       []finance.Store
	Transactions []finance.Transaction
	Period       finance.Period
	Scope        StoreScope
}

func (in Input) scopedStores() []finance.Store {
	var stores []finance.Store
	for _, s := range in.Stores {
		if in.Scope.includes(s.ID) {
			stores = append(stores, s)
		}
	}
	return stores
}

func (in Input) scopedTransactions(stores []finance.Store) []finance.Transaction {
	ids := make(map[finance.StoreID]bool, len(stores))
	for _, s := range stores {
		ids[s.ID] = true
	}
	var txs []finance.Transaction
	for _, t := range in.Transactions {
		if ids[t.StoreID] {
			txs = append(txs, t)
		}
	}
	return txs
}

// =============================================================================
// OUTPUT
// =============================================================================

// Summary holds the cash-flow statement totals.
type Summary struct {
	BeginningBalance decimal.Decimal
	TotalInflow      decimal.Decimal
	TotalOutflow     decimal.Decimal
	NetIncrease      decimal.Decimal
	EndingBalance    decimal.Decimal
}

// CashFlowStatement is the full consolidated cash-flow statement.
type CashFlowStatement struct {
	Period    finance.Period
	Operating ActivitySection
	Investing ActivitySection
	Financing ActivitySection
	Summary   Summary

	// Entries is every line item in the period, virtual capital included.
	Entries []Entry

	// VirtualEntries flags the synthetic capital lines for UI/export.
	VirtualEntries []Entry
}

// ProfitLossStatement is the full consolidated profit-and-loss statement.
type ProfitLossStatement struct {
	Period finance.Period
	ProfitLossData
	Entries []Entry
}

// =============================================================================
// BUILDERS
// =============================================================================

// BuildCashFlow builds the consolidated cash-flow statement.
func BuildCashFlow(in Input) (CashFlowStatement, error) {
	stores := in.scopedStores()
	cons, err := Consolidate(stores, in.scopedTransactions(stores), in.Period)
	if err != nil {
		return CashFlowStatement{}, err
	}

	sections := AggregateActivities(cons.Entries)
	operating := sections[finance.ActivityOperating]
	investing := sections[finance.ActivityInvesting]
	financing := sections[finance.ActivityFinancing]

	summary := Summary{BeginningBalance: cons.BeginningBalance}
	summary.TotalInflow = operating.SubtotalInflow.Add(investing.SubtotalInflow).Add(financing.SubtotalInflow)
	summary.TotalOutflow = operating.SubtotalOutflow.Add(investing.SubtotalOutflow).Add(financing.SubtotalOutflow)
	summary.NetIncrease = operating.NetCashFlow.Add(investing.NetCashFlow).Add(financing.NetCashFlow)
	summary.EndingBalance = summary.BeginningBalance.Add(summary.NetIncrease)

	return CashFlowStatement{
		Period:         in.Period,
		Operating:      operating,
		Investing:      investing,
		Financing:      financing,
		Summary:        summary,
		Entries:        cons.Entries,
		VirtualEntries: cons.VirtualEntries,
	}, nil
}

// BuildProfitLoss builds the consolidated profit-and-loss statement.
// Virtual capital entries carry include_in_profit_loss = false, so they
// never reach a profit-and-loss bucket.
func BuildProfitLoss(in Input) (ProfitLossStatement, error) {
	stores := in.scopedStores()
	cons, err := Consolidate(stores, in.scopedTransactions(stores), in.Period)
	if err != nil {
		return ProfitLossStatement{}, err
	}

	return ProfitLossStatement{
		Period:         in.Period,
		ProfitLossData: AggregateProfitLoss(cons.Entries),
		Entries:        cons.Entries,
	}, nil
}
