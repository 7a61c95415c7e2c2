/*
Package statement computes consolidated financial statements.

PURPOSE:
  This package contains the statement engine: activity aggregation
  (cash-flow), profit-and-loss aggregation, multi-store consolidation, and
  the builders that compose them. It is purely computational - no I/O, no
  shared mutable state. Every function is a pure function of its inputs and
  safe to call concurrently on immutable snapshots.

KEY CONCEPTS IN THIS FILE (entry.go):
  - Entry: A tagged variant over "real transaction" and "synthetic capital
    entry". Both flow through the aggregators identically; the tag lets the
    UI and exports distinguish them downstream.

WHY A TAGGED VARIANT?
  A store that opens its books mid-period contributes its starting cash as
  a financing inflow ("new store capital investment"). That entry is never
  persisted - it is regenerated on every statement build - but it must be
  aggregated exactly like a real transaction. One type, one code path.

SEE ALSO:
  - consolidate.go: Where virtual entries are synthesized
  - activity.go, profitloss.go: Aggregators consuming entries
*/
package statement

import (
	"github.com/warp/statement-engine/finance"
)

// CapitalCategory labels the synthetic financing inflow for a store that
// opened its books inside the reporting period.
const CapitalCategory = "new store capital investment"

// =============================================================================
// ENTRY - Real transaction or synthetic capital entry
// =============================================================================

type EntryKind string

const (
	EntryReal    EntryKind = "real"
	EntryVirtual EntryKind = "virtual"
)

// Entry is a statement line item. Real entries wrap persisted transactions;
// virtual entries exist only inside a statement build (and its exports).
type Entry struct {
	finance.Transaction
	Kind EntryKind
}

func realEntry(t finance.Transaction) Entry {
	return Entry{Transaction: t, Kind: EntryReal}
}

// capitalEntry synthesizes the financing inflow for a new-in-period store.
// Inflow-only by construction: Type is always income. Excluded from
// profit/loss - capital contribution is not revenue.
func capitalEntry(s finance.Store) Entry {
	return Entry{
		Kind: EntryVirtual,
		Transaction: finance.Transaction{
			CompanyID:           s.CompanyID,
			StoreID:             s.ID,
			Type:                finance.TypeIncome,
			Category:            CapitalCategory,
			Amount:              s.InitialBalance,
			Date:                *s.InitialBalanceDate,
			Description:         s.Name,
			Activity:            finance.ActivityFinancing,
			Nature:              nil,
			IncludeInProfitLoss: false,
		},
	}
}

// RealEntries converts a transaction slice to entries.
func RealEntries(txs []finance.Transaction) []Entry {
	entries := make([]Entry, len(txs))
	for i, t := range txs {
		entries[i] = realEntry(t)
	}
	return entries
}

// activityOf resolves an entry's activity, defaulting unresolved values to
// operating. Entries are never dropped for lacking a classification.
func activityOf(e Entry) finance.CashFlowActivity {
	switch e.Activity {
	case finance.ActivityOperating, finance.ActivityInvesting, finance.ActivityFinancing:
		return e.Activity
	default:
		return finance.ActivityOperating
	}
}

// natureOf resolves an entry's nature, defaulting unset values to operating.
func natureOf(e Entry) finance.TransactionNature {
	if e.Nature == nil {
		return finance.NatureOperating
	}
	return *e.Nature
}
