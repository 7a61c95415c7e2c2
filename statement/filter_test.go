package statement_test

import (
	"testing"
	"time"

	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/statement"
)

// =============================================================================
// FILTER TESTS
// =============================================================================

func filterFixture() []statement.Entry {
	investing := finance.NatureNonOperating
	return statement.RealEntries([]finance.Transaction{
		operatingTx("t1", "s1", finance.TypeIncome, "sales", "300", date(2025, time.February, 5)),
		operatingTx("t2", "s2", finance.TypeExpense, "rent", "100", date(2025, time.February, 3)),
		{
			ID: "t3", CompanyID: "co-1", StoreID: "s1",
			Type: finance.TypeExpense, Category: "equipment purchase",
			Amount: money("600"), Date: date(2025, time.February, 8),
			Activity: finance.ActivityInvesting, Nature: &investing, IncludeInProfitLoss: true,
		},
	})
}

func TestFilter_EmptyAllowLists_MatchEverything(t *testing.T) {
	// GIVEN: A zero-value filter
	// WHEN: Applying it
	// THEN: Every entry passes - empty allow-lists mean "no filtering",
	//       never "exclude everything"

	out := statement.Filter{}.Apply(filterFixture())
	if len(out) != 3 {
		t.Fatalf("empty filter kept %d of 3 entries", len(out))
	}
}

func TestFilter_SingleFacet(t *testing.T) {
	f := statement.Filter{Types: []finance.TransactionType{finance.TypeExpense}}

	out := f.Apply(filterFixture())
	if len(out) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(out))
	}
}

func TestFilter_MultipleFacets_AreConjunctive(t *testing.T) {
	// GIVEN: A type facet and a store facet
	// WHEN: Applying both
	// THEN: Only entries matching BOTH remain

	f := statement.Filter{
		Types:    []finance.TransactionType{finance.TypeExpense},
		StoreIDs: []finance.StoreID{"s1"},
	}

	out := f.Apply(filterFixture())
	if len(out) != 1 || out[0].ID != "t3" {
		t.Fatalf("expected [t3], got %v", out)
	}
}

func TestFilter_ActivityFacet_UsesResolvedActivity(t *testing.T) {
	f := statement.Filter{Activities: []finance.CashFlowActivity{finance.ActivityInvesting}}

	out := f.Apply(filterFixture())
	if len(out) != 1 || out[0].Category != "equipment purchase" {
		t.Fatalf("expected the investing entry, got %v", out)
	}
}

// =============================================================================
// SORT TESTS
// =============================================================================

func TestSort_ByDateAscending(t *testing.T) {
	entries := filterFixture()
	statement.Sort(entries, statement.SortByDate, statement.Ascending)

	for i, want := range []finance.TransactionID{"t2", "t1", "t3"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, want)
		}
	}
}

func TestSort_ByAmountDescending(t *testing.T) {
	entries := filterFixture()
	statement.Sort(entries, statement.SortByAmount, statement.Descending)

	for i, want := range []finance.TransactionID{"t3", "t1", "t2"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, want)
		}
	}
}

func TestSort_EqualKeys_TieBreakOnID(t *testing.T) {
	// GIVEN: Two entries on the same date
	// WHEN: Sorting by date twice, with the input shuffled
	// THEN: The order is identical both times (id tie-break)

	a := operatingTx("a", "s1", finance.TypeIncome, "sales", "10", date(2025, time.February, 5))
	b := operatingTx("b", "s1", finance.TypeIncome, "sales", "20", date(2025, time.February, 5))

	first := statement.RealEntries([]finance.Transaction{b, a})
	statement.Sort(first, statement.SortByDate, statement.Ascending)

	second := statement.RealEntries([]finance.Transaction{a, b})
	statement.Sort(second, statement.SortByDate, statement.Ascending)

	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Errorf("sort not deterministic: %v vs %v", first, second)
	}
	if first[0].ID != "a" {
		t.Errorf("tie-break should order by id, got %s first", first[0].ID)
	}
}
