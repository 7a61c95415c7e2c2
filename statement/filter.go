/*
filter.go - Faceted filtering and sorting over statement entries

PURPOSE:
  Generic in-memory filter for ledger views: each facet is an optional
  allow-list. An EMPTY allow-list means "no filtering on that facet", not
  "exclude everything". Sorting is a single (field, direction) pair with a
  stable tie-break on entry id.
*/
package statement

import (
	"sort"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// FILTER
// =============================================================================

// Filter holds one optional allow-list per facet.
type Filter struct {
	Types      []finance.TransactionType
	Categories []string
	Activities []finance.CashFlowActivity
	Natures    []finance.TransactionNature
	StoreIDs   []finance.StoreID
	Kinds      []EntryKind
}

// Apply returns the entries matching every non-empty facet.
func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e Entry) bool {
	if !allowed(f.Types, e.Type) {
		return false
	}
	if !allowed(f.Categories, e.Category) {
		return false
	}
	if !allowed(f.Activities, activityOf(e)) {
		return false
	}
	if !allowed(f.Natures, natureOf(e)) {
		return false
	}
	if !allowed(f.StoreIDs, e.StoreID) {
		return false
	}
	if !allowed(f.Kinds, e.Kind) {
		return false
	}
	return true
}

func allowed[T comparable](allowList []T, v T) bool {
	if len(allowList) == 0 {
		return true
	}
	for _, a := range allowList {
		if a == v {
			return true
		}
	}
	return false
}

// =============================================================================
// SORT
// =============================================================================

type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
	SortByStore    SortField = "store"
	SortByType     SortField = "type"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Sort orders entries by (field, direction), breaking ties on id so the
// order is stable across calls.
func Sort(entries []Entry, field SortField, direction SortDirection) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if direction == Descending {
			a, b = b, a
		}
		switch field {
		case SortByAmount:
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.LessThan(b.Amount)
			}
		case SortByCategory:
			if a.Category != b.Category {
				return a.Category < b.Category
			}
		case SortByStore:
			if a.StoreID != b.StoreID {
				return a.StoreID < b.StoreID
			}
		case SortByType:
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		default: // SortByDate
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		}
		return a.ID < b.ID
	})
}
