/*
consolidate.go - Multi-store consolidation

PURPOSE:
  Produces one coherent statement across stores whose ledgers opened on
  different dates, without double-counting or omitting any store's
  starting cash.

STORE CLASSIFICATION for a period [S, E]:
  pre-existing:   initial_balance_date <  S  -> balance folds into the
                                                consolidated beginning balance
  new-in-period:  S <= initial_balance_date <= E -> initial balance appears
                                                as a virtual financing inflow
                                                dated at the opening date
  out-of-scope:   initial_balance_date >  E  -> excluded entirely

  Exactly one treatment applies per store per period. The boundary is
  inclusive on the new-in-period side: a store opening exactly on S is
  new-in-period, not pre-existing.

BEGINNING BALANCE:
  Each pre-existing store's balance as of S is rolled forward:
  initial_balance + net of all its transactions dated before S. A single
  linear scan per store, never recursion.

ASSOCIATIVITY:
  Consolidating two disjoint store groups separately and summing their
  ending balances equals consolidating the union in one shot. The tests
  exercise this; it is the property an incorrect implementation (capital
  double-applied, or applied to the wrong activity) breaks first.

FAILURE:
  A store with no initial_balance_date is invalid input. Consolidation
  rejects it with MissingInitialBalanceError rather than guessing.
*/
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// STORE PARTITION
// =============================================================================

// StorePartition is the three-way split of a store set relative to a period.
type StorePartition struct {
	PreExisting []finance.Store
	NewInPeriod []finance.Store
	OutOfScope  []finance.Store
}

// PartitionStores classifies each store against the period boundaries.
func PartitionStores(stores []finance.Store, period finance.Period) (StorePartition, error) {
	var p StorePartition
	for _, s := range stores {
		if s.InitialBalanceDate == nil {
			return StorePartition{}, &finance.MissingInitialBalanceError{StoreID: s.ID, StoreName: s.Name}
		}
		opened := *s.InitialBalanceDate
		switch {
		case opened.Before(period.Start):
			p.PreExisting = append(p.PreExisting, s)
		case opened.BeforeOrEqual(period.End):
			p.NewInPeriod = append(p.NewInPeriod, s)
		default:
			p.OutOfScope = append(p.OutOfScope, s)
		}
	}
	return p, nil
}

// InScope returns the stores that participate in the period's statement.
func (p StorePartition) InScope() []finance.Store {
	stores := make([]finance.Store, 0, len(p.PreExisting)+len(p.NewInPeriod))
	stores = append(stores, p.PreExisting...)
	stores = append(stores, p.NewInPeriod...)
	return stores
}

// =============================================================================
// BALANCE ROLL-FORWARD
// =============================================================================

// BalanceAsOf computes a store's cash balance at the start of the given
// date: initial balance plus the net of every transaction dated strictly
// before it. Derived, never stored.
func BalanceAsOf(store finance.Store, txs []finance.Transaction, asOf finance.Date) (decimal.Decimal, error) {
	if store.InitialBalanceDate == nil {
		return decimal.Zero, &finance.MissingInitialBalanceError{StoreID: store.ID, StoreName: store.Name}
	}

	balance := store.InitialBalance
	for _, t := range txs {
		if t.StoreID != store.ID {
			continue
		}
		if t.Date.Before(asOf) {
			balance = balance.Add(t.Signed())
		}
	}
	return balance, nil
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

// Consolidation is the merged per-period view the aggregators consume.
type Consolidation struct {
	Partition        StorePartition
	BeginningBalance decimal.Decimal

	// Entries holds every line item inside the period: real transactions of
	// in-scope stores plus one virtual capital entry per new-in-period store.
	Entries []Entry

	// VirtualEntries is the capital subset of Entries, kept separately so
	// the UI and exports can flag it.
	VirtualEntries []Entry
}

// Consolidate merges the selected stores and their transactions into one
// per-period view. txs is the full history of the selected stores - dates
// before the period feed the beginning balance roll-forward.
func Consolidate(stores []finance.Store, txs []finance.Transaction, period finance.Period) (Consolidation, error) {
	if err := period.Validate(); err != nil {
		return Consolidation{}, err
	}

	partition, err := PartitionStores(stores, period)
	if err != nil {
		return Consolidation{}, err
	}

	// Beginning balance: pre-existing stores only. A new-in-period store's
	// starting cash arrives as a capital entry instead - never both.
	beginning := decimal.Zero
	for _, s := range partition.PreExisting {
		balance, err := BalanceAsOf(s, txs, period.Start)
		if err != nil {
			return Consolidation{}, err
		}
		beginning = beginning.Add(balance)
	}

	inScope := make(map[finance.StoreID]bool, len(stores))
	for _, s := range partition.InScope() {
		inScope[s.ID] = true
	}

	var entries []Entry
	for _, t := range txs {
		if inScope[t.StoreID] && period.Contains(t.Date) {
			entries = append(entries, realEntry(t))
		}
	}

	var virtual []Entry
	for _, s := range partition.NewInPeriod {
		e := capitalEntry(s)
		virtual = append(virtual, e)
		entries = append(entries, e)
	}

	return Consolidation{
		Partition:        partition,
		BeginningBalance: beginning,
		Entries:          entries,
		VirtualEntries:   virtual,
	}, nil
}
