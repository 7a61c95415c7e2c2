/*
export.go - CSV export for statements and ledger views

PURPOSE:
  Flattens a statement into a CSV document: header row, one row per entry
  (virtual capital entries flagged), a blank line, then summary lines.

FORMAT:
  - UTF-8 with BOM (Excel compatibility)
  - Comma-delimited
  - Amounts formatted with two decimal places
  - Sign is a +/- prefix on the formatted value, never a negative stored
    amount
  - Filenames follow <statement-name>_<start>_<end>.csv
*/
package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/finance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Filename builds the export filename for a statement.
func Filename(name string, period finance.Period) string {
	return fmt.Sprintf("%s_%s_%s.csv", name, period.Start, period.End)
}

// FormatAmount renders an amount with two decimals and an explicit sign.
func FormatAmount(amount decimal.Decimal, txType finance.TransactionType) string {
	if txType == finance.TypeExpense {
		return "-" + amount.StringFixed(2)
	}
	return "+" + amount.StringFixed(2)
}

// StoreNames resolves store ids to display names for export rows.
type StoreNames map[finance.StoreID]string

func (n StoreNames) name(id finance.StoreID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return string(id)
}

// =============================================================================
// CASH-FLOW EXPORT
// =============================================================================

// ExportCashFlow renders the cash-flow statement's ledger and summary.
// Entries should already be filtered/sorted by the caller.
func ExportCashFlow(st CashFlowStatement, names StoreNames) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Store", "Type", "Category", "Activity", "Amount", "Description", "Virtual"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range st.Entries {
		virtual := ""
		if e.Kind == EntryVirtual {
			virtual = "yes"
		}
		row := []string{
			e.Date.String(),
			names.name(e.StoreID),
			string(e.Type),
			e.Category,
			string(activityOf(e)),
			FormatAmount(e.Amount, e.Type),
			e.Description,
			virtual,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	summary := [][]string{
		{},
		{"Beginning Balance", st.Summary.BeginningBalance.StringFixed(2)},
		{"Total Inflow", st.Summary.TotalInflow.StringFixed(2)},
		{"Total Outflow", st.Summary.TotalOutflow.StringFixed(2)},
		{"Net Increase", st.Summary.NetIncrease.StringFixed(2)},
		{"Ending Balance", st.Summary.EndingBalance.StringFixed(2)},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// =============================================================================
// PROFIT-AND-LOSS EXPORT
// =============================================================================

// ExportProfitLoss renders the profit-and-loss sections and derived totals.
func ExportProfitLoss(st ProfitLossStatement) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Section", "Category", "Amount"}); err != nil {
		return nil, err
	}

	sections := []struct {
		label   string
		section PLSection
	}{
		{"Revenue", st.Revenue},
		{"Cost", st.Cost},
		{"Non-operating Income", st.NonOperatingIncome},
		{"Non-operating Expense", st.NonOperatingExpense},
	}
	for _, s := range sections {
		for _, item := range s.section.Items {
			if err := w.Write([]string{s.label, item.Category, item.Amount.StringFixed(2)}); err != nil {
				return nil, err
			}
		}
	}

	summary := [][]string{
		{},
		{"Revenue", "", st.Revenue.Total.StringFixed(2)},
		{"Cost", "", st.Cost.Total.StringFixed(2)},
		{"Operating Profit", "", st.OperatingProfit.StringFixed(2)},
		{"Total Profit", "", st.TotalProfit.StringFixed(2)},
		{"Income Tax", "", st.IncomeTax.StringFixed(2)},
		{"Net Profit", "", st.NetProfit.StringFixed(2)},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
