/*
activity.go - Cash-flow activity aggregation

PURPOSE:
  Groups a (date-and-store filtered) entry set by cash-flow activity and
  produces the three sections of a cash-flow statement: operating,
  investing, financing. Each section partitions its entries into inflows
  (income) and outflows (expense), grouped by category.

INVARIANT:
  For every section: SubtotalInflow - SubtotalOutflow == NetCashFlow.
  Summing NetCashFlow over the three sections gives the statement's net
  increase (virtual capital entries are financing inflows, so they are
  already inside financing's net).

UNRESOLVED ACTIVITIES:
  Entries whose activity field is unset or unknown aggregate under
  operating. Dropping them would break the roll-forward identity.
*/
package statement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// OUTPUT SHAPES
// =============================================================================

// CategoryAmount is one grouped line inside a section. Amount is the sum of
// that category's entries, always non-negative.
type CategoryAmount struct {
	Category string
	Label    string
	Amount   decimal.Decimal
}

// ActivitySection is one of the three cash-flow statement sections.
type ActivitySection struct {
	Activity        finance.CashFlowActivity
	Inflows         []CategoryAmount
	Outflows        []CategoryAmount
	SubtotalInflow  decimal.Decimal
	SubtotalOutflow decimal.Decimal
	NetCashFlow     decimal.Decimal
}

// =============================================================================
// AGGREGATION
// =============================================================================

// AggregateActivities builds the three activity sections from an entry set.
// The input is expected to be period- and store-scoped already.
func AggregateActivities(entries []Entry) map[finance.CashFlowActivity]ActivitySection {
	type bucket struct {
		inflows  map[string]decimal.Decimal
		outflows map[string]decimal.Decimal
	}

	buckets := make(map[finance.CashFlowActivity]*bucket, len(finance.Activities))
	for _, a := range finance.Activities {
		buckets[a] = &bucket{
			inflows:  make(map[string]decimal.Decimal),
			outflows: make(map[string]decimal.Decimal),
		}
	}

	for _, e := range entries {
		b := buckets[activityOf(e)]
		if e.Type == finance.TypeExpense {
			b.outflows[e.Category] = b.outflows[e.Category].Add(e.Amount)
		} else {
			b.inflows[e.Category] = b.inflows[e.Category].Add(e.Amount)
		}
	}

	sections := make(map[finance.CashFlowActivity]ActivitySection, len(finance.Activities))
	for _, a := range finance.Activities {
		b := buckets[a]
		section := ActivitySection{
			Activity: a,
			Inflows:  groupToLines(b.inflows),
			Outflows: groupToLines(b.outflows),
		}
		section.SubtotalInflow = sumLines(section.Inflows)
		section.SubtotalOutflow = sumLines(section.Outflows)
		section.NetCashFlow = section.SubtotalInflow.Sub(section.SubtotalOutflow)
		sections[a] = section
	}
	return sections
}

// groupToLines converts a category->sum map into lines sorted by category
// name for stable display.
func groupToLines(group map[string]decimal.Decimal) []CategoryAmount {
	lines := make([]CategoryAmount, 0, len(group))
	for category, amount := range group {
		lines = append(lines, CategoryAmount{Category: category, Label: category, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Category < lines[j].Category })
	return lines
}

func sumLines(lines []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
