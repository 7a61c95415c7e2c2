/*
profitloss.go - Profit-and-loss aggregation

PURPOSE:
  Groups an entry set by transaction nature into the profit-and-loss
  buckets: revenue, cost, non-operating income, non-operating expense, and
  the income tax line.

RULES:
  - Entries flagged include_in_profit_loss = false never appear in any
    bucket (they still count in the cash-flow statement).
  - An unset nature defaults to operating.
  - Derived quantities, in this order:
      operatingProfit = revenue.Total - cost.Total
      totalProfit     = operatingProfit + nonOperatingIncome.Total - nonOperatingExpense.Total
      netProfit       = totalProfit - incomeTax
  - Income tax is reported as a fixed 0.00 line pending a dedicated tax
    module. Documented limitation, kept deliberately.
  - Section items are sorted by category name ascending for stable display.
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

// PLItem is one category line inside a profit-and-loss section.
type PLItem struct {
	Category string
	Amount   decimal.Decimal
}

// PLSection is a profit-and-loss bucket with its category breakdown.
type PLSection struct {
	Total decimal.Decimal
	Items []PLItem
}

// ProfitLossData is the full profit-and-loss computation for one entry set.
type ProfitLossData struct {
	Revenue             PLSection
	Cost                PLSection
	NonOperatingIncome  PLSection
	NonOperatingExpense PLSection
	OperatingProfit     decimal.Decimal
	TotalProfit         decimal.Decimal
	IncomeTax           decimal.Decimal
	NetProfit           decimal.Decimal
}

// =============================================================================
// AGGREGATION
// =============================================================================

// AggregateProfitLoss builds profit-and-loss data from an entry set.
func AggregateProfitLoss(entries []Entry) ProfitLossData {
	revenue := make(map[string]decimal.Decimal)
	cost := make(map[string]decimal.Decimal)
	nonOpIncome := make(map[string]decimal.Decimal)
	nonOpExpense := make(map[string]decimal.Decimal)

	for _, e := range entries {
		if !e.IncludeInProfitLoss {
			continue
		}

		switch natureOf(e) {
		case finance.NatureOperating:
			if e.Type == finance.TypeExpense {
				cost[e.Category] = cost[e.Category].Add(e.Amount)
			} else {
				revenue[e.Category] = revenue[e.Category].Add(e.Amount)
			}
		case finance.NatureNonOperating:
			if e.Type == finance.TypeExpense {
				nonOpExpense[e.Category] = nonOpExpense[e.Category].Add(e.Amount)
			} else {
				nonOpIncome[e.Category] = nonOpIncome[e.Category].Add(e.Amount)
			}
		case finance.NatureIncomeTax:
			// Reported as a fixed 0.00 line pending a dedicated tax module.
			// The entries still contribute to cash flow.
		}
	}

	data := ProfitLossData{
		Revenue:             toSection(revenue),
		Cost:                toSection(cost),
		NonOperatingIncome:  toSection(nonOpIncome),
		NonOperatingExpense: toSection(nonOpExpense),
		IncomeTax:           decimal.Zero,
	}

	data.OperatingProfit = data.Revenue.Total.Sub(data.Cost.Total)
	data.TotalProfit = data.OperatingProfit.Add(data.NonOperatingIncome.Total).Sub(data.NonOperatingExpense.Total)
	data.NetProfit = data.TotalProfit.Sub(data.IncomeTax)
	return data
}

func toSection(group map[string]decimal.Decimal) PLSection {
	section := PLSection{Total: decimal.Zero, Items: make([]PLItem, 0, len(group))}
	for category, amount := range group {
		section.Items = append(section.Items, PLItem{Category: category, Amount: amount})
		section.Total = section.Total.Add(amount)
	}
	sort.Slice(section.Items, func(i, j int) bool { return section.Items[i].Category < section.Items[j].Category })
	return section
}
