package statement_test

import (
	"testing"
	"time"

	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/statement"
)

// =============================================================================
// STATEMENT BUILDER TESTS
// =============================================================================

func builderInput(scope statement.StoreScope) statement.Input {
	return statement.Input{
		CompanyID: "co-1",
		Stores: []finance.Store{
			testStore("X", datePtr(2025, time.January, 1), "1000"),
			testStore("Y", datePtr(2025, time.February, 10), "500"),
		},
		Transactions: []finance.Transaction{
			operatingTx("t1", "X", finance.TypeIncome, "sales", "300", date(2025, time.February, 5)),
			operatingTx("t2", "Y", finance.TypeExpense, "rent", "100", date(2025, time.February, 15)),
		},
		Period: feb2025(),
		Scope:  scope,
	}
}

func TestBuildCashFlow_SummaryIdentity(t *testing.T) {
	// GIVEN: The two-store February scenario
	// WHEN: Building the cash-flow statement
	// THEN: netIncrease is the sum of the three sections' nets and
	//       endingBalance = beginningBalance + netIncrease

	st, err := statement.BuildCashFlow(builderInput(statement.AllStores()))
	if err != nil {
		t.Fatalf("BuildCashFlow failed: %v", err)
	}

	sectionNet := st.Operating.NetCashFlow.
		Add(st.Investing.NetCashFlow).
		Add(st.Financing.NetCashFlow)
	if !st.Summary.NetIncrease.Equal(sectionNet) {
		t.Errorf("netIncrease = %s, sections sum to %s", st.Summary.NetIncrease, sectionNet)
	}

	wantEnding := st.Summary.BeginningBalance.Add(st.Summary.NetIncrease)
	if !st.Summary.EndingBalance.Equal(wantEnding) {
		t.Errorf("endingBalance = %s, want %s", st.Summary.EndingBalance, wantEnding)
	}

	assertMoney(t, "1000", st.Summary.BeginningBalance, "beginning balance")
	assertMoney(t, "800", st.Summary.TotalInflow, "total inflow") // 300 sales + 500 capital
	assertMoney(t, "100", st.Summary.TotalOutflow, "total outflow")
	assertMoney(t, "700", st.Summary.NetIncrease, "net increase")
	assertMoney(t, "1700", st.Summary.EndingBalance, "ending balance")
}

func TestBuildCashFlow_VirtualCapitalInFinancing(t *testing.T) {
	// GIVEN: Store Y opening mid-period with 500
	// WHEN: Building the cash-flow statement
	// THEN: Financing shows a "new store capital investment" inflow of 500

	st, err := statement.BuildCashFlow(builderInput(statement.AllStores()))
	if err != nil {
		t.Fatalf("BuildCashFlow failed: %v", err)
	}

	var capital *statement.CategoryAmount
	for i, line := range st.Financing.Inflows {
		if line.Category == statement.CapitalCategory {
			capital = &st.Financing.Inflows[i]
		}
	}
	if capital == nil {
		t.Fatalf("financing inflows missing capital line: %+v", st.Financing.Inflows)
	}
	assertMoney(t, "500", capital.Amount, "capital inflow")
}

func TestBuildCashFlow_SingleStoreScope(t *testing.T) {
	// GIVEN: A scope limited to store X
	// WHEN: Building the statement
	// THEN: Y's opening and rent payment are invisible

	st, err := statement.BuildCashFlow(builderInput(statement.SingleStore("X")))
	if err != nil {
		t.Fatalf("BuildCashFlow failed: %v", err)
	}

	assertMoney(t, "1000", st.Summary.BeginningBalance, "beginning balance")
	assertMoney(t, "300", st.Summary.TotalInflow, "total inflow")
	assertMoney(t, "0", st.Summary.TotalOutflow, "total outflow")
	assertMoney(t, "1300", st.Summary.EndingBalance, "ending balance")
	if len(st.VirtualEntries) != 0 {
		t.Errorf("expected no virtual entries for scope X, got %d", len(st.VirtualEntries))
	}
}

func TestBuildProfitLoss_VirtualCapitalExcluded(t *testing.T) {
	// GIVEN: The two-store scenario, including Y's 500 capital entry
	// WHEN: Building the profit-and-loss statement
	// THEN: Capital never shows up as revenue

	st, err := statement.BuildProfitLoss(builderInput(statement.AllStores()))
	if err != nil {
		t.Fatalf("BuildProfitLoss failed: %v", err)
	}

	assertMoney(t, "300", st.Revenue.Total, "revenue")
	assertMoney(t, "100", st.Cost.Total, "cost")
	assertMoney(t, "200", st.NetProfit, "net profit")

	for _, item := range st.Revenue.Items {
		if item.Category == statement.CapitalCategory {
			t.Error("capital investment leaked into revenue")
		}
	}
}

func TestBuildCashFlow_MissingInitialBalance_PropagatesError(t *testing.T) {
	in := builderInput(statement.AllStores())
	in.Stores[0].InitialBalanceDate = nil

	_, err := statement.BuildCashFlow(in)
	if err == nil {
		t.Fatal("expected error for store without initial balance date")
	}
}
