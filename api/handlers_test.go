package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/statement-engine/api"
	"github.com/warp/statement-engine/config"
	"github.com/warp/statement-engine/finance/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	mem := store.NewMemory()
	h := api.NewHandler(mem, mem, mem, config.ExportConfig{
		CashFlowName:   "cash-flow",
		ProfitLossName: "profit-loss",
	})
	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createStore(t *testing.T, srv *httptest.Server, name, opened, balance string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/stores?company_id=co-1", map[string]any{
		"name":                 name,
		"status":               "active",
		"initial_balance_date": opened,
		"initial_balance":      balance,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &dto)
	require.NotEmpty(t, dto.ID)
	return dto.ID
}

func createTx(t *testing.T, srv *httptest.Server, storeID, txType, category, amount, date string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions?company_id=co-1", map[string]any{
		"store_id": storeID,
		"type":     txType,
		"category": category,
		"amount":   amount,
		"date":     date,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// TRANSACTION ENDPOINT TESTS
// =============================================================================

func TestAPI_CreateTransaction_ClassifiesAndWarns(t *testing.T) {
	// GIVEN: A store and an unregistered category
	// WHEN: Recording the transaction
	// THEN: 201 with a default classification and a warning in the response

	srv, _ := newTestServer(t)
	storeID := createStore(t, srv, "Downtown", "2025-01-01", "1000")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions?company_id=co-1", map[string]any{
		"store_id": storeID,
		"type":     "expense",
		"category": "space travel",
		"amount":   "250.00",
		"date":     "2025-02-05",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Transaction struct {
			ID               string `json:"id"`
			Amount           string `json:"amount"`
			CashFlowActivity string `json:"cash_flow_activity"`
		} `json:"transaction"`
		Warning string `json:"warning"`
	}
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Transaction.ID)
	assert.Equal(t, "250.00", body.Transaction.Amount)
	assert.Equal(t, "operating", body.Transaction.CashFlowActivity)
	assert.Contains(t, body.Warning, "space travel")
}

func TestAPI_CreateTransaction_BeforeStoreOpening_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)
	storeID := createStore(t, srv, "Harbor", "2025-02-10", "500")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions?company_id=co-1", map[string]any{
		"store_id": storeID,
		"type":     "expense",
		"category": "rent",
		"amount":   "100",
		"date":     "2025-02-01",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CreateTransaction_MissingCompany_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListTransactions_FilterAndSort(t *testing.T) {
	srv, _ := newTestServer(t)
	storeID := createStore(t, srv, "Downtown", "2025-01-01", "1000")
	createTx(t, srv, storeID, "income", "sales", "300", "2025-02-05")
	createTx(t, srv, storeID, "expense", "rent", "100", "2025-02-03")
	createTx(t, srv, storeID, "expense", "payroll", "900", "2025-02-08")

	url := fmt.Sprintf("%s/api/transactions?company_id=co-1&type=expense&sort=amount&order=desc", srv.URL)
	resp, err := http.Get(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []struct {
		Category string `json:"category"`
		Amount   string `json:"amount"`
	}
	decodeBody(t, resp, &entries)

	require.Len(t, entries, 2)
	assert.Equal(t, "payroll", entries[0].Category)
	assert.Equal(t, "rent", entries[1].Category)
}

// =============================================================================
// CATEGORY ENDPOINT TESTS
// =============================================================================

func TestAPI_RenameCategory_ReportsCascadeCount(t *testing.T) {
	srv, _ := newTestServer(t)
	storeID := createStore(t, srv, "Downtown", "2025-01-01", "1000")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories?company_id=co-1", map[string]any{
		"type":               "expense",
		"name":               "utilities",
		"cash_flow_activity": "operating",
		"transaction_nature": "operating",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cat struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &cat)

	createTx(t, srv, storeID, "expense", "utilities", "80", "2025-02-05")
	createTx(t, srv, storeID, "expense", "utilities", "90", "2025-02-06")

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/"+cat.ID+"/rename?company_id=co-1", map[string]any{
		"new_name": "water & power",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cascade struct {
		TransactionsUpdated int `json:"transactions_updated"`
	}
	decodeBody(t, resp, &cascade)
	assert.Equal(t, 2, cascade.TransactionsUpdated)
}

func TestAPI_MergeCategories_CrossType_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	makeCat := func(txType, name string) string {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories?company_id=co-1", map[string]any{
			"type":               txType,
			"name":               name,
			"cash_flow_activity": "operating",
			"transaction_nature": "operating",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var cat struct {
			ID string `json:"id"`
		}
		decodeBody(t, resp, &cat)
		return cat.ID
	}

	income := makeCat("income", "sales")
	expense := makeCat("expense", "rent")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/merge?company_id=co-1", map[string]any{
		"source_id": income,
		"target_id": expense,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// STATEMENT AND EXPORT ENDPOINT TESTS
// =============================================================================

func TestAPI_CashFlowStatement(t *testing.T) {
	// GIVEN: A pre-existing store and a store opening mid-period
	// WHEN: Requesting the February statement
	// THEN: Summary reflects the consolidation scenario end to end

	srv, _ := newTestServer(t)
	x := createStore(t, srv, "Downtown", "2025-01-01", "1000")
	createStore(t, srv, "Harbor", "2025-02-10", "500")
	createTx(t, srv, x, "income", "sales", "300", "2025-02-05")

	url := srv.URL + "/api/statements/cash-flow?company_id=co-1&start=2025-02-01&end=2025-02-28"
	resp, err := http.Get(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary struct {
			BeginningBalance string `json:"beginning_balance"`
			EndingBalance    string `json:"ending_balance"`
		} `json:"summary"`
		VirtualEntries []struct {
			Category string `json:"category"`
			Kind     string `json:"kind"`
		} `json:"virtual_entries"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "1000.00", body.Summary.BeginningBalance)
	assert.Equal(t, "1800.00", body.Summary.EndingBalance)
	require.Len(t, body.VirtualEntries, 1)
	assert.Equal(t, "virtual", body.VirtualEntries[0].Kind)
}

func TestAPI_CashFlowStatement_BadPeriod_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)
	createStore(t, srv, "Downtown", "2025-01-01", "1000")

	url := srv.URL + "/api/statements/cash-flow?company_id=co-1&start=2025-02-28&end=2025-02-01"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ExportCashFlow_CSVDownload(t *testing.T) {
	srv, _ := newTestServer(t)
	x := createStore(t, srv, "Downtown", "2025-01-01", "1000")
	createTx(t, srv, x, "income", "sales", "300", "2025-02-05")

	url := srv.URL + "/api/exports/cash-flow?company_id=co-1&start=2025-02-01&end=2025-02-28"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	disposition := resp.Header.Get("Content-Disposition")
	assert.Contains(t, disposition, "cash-flow_2025-02-01_2025-02-28.csv")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	body := buf.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"), "CSV must start with a UTF-8 BOM")
	assert.Contains(t, body, "+300.00")
	assert.Contains(t, body, "Downtown")
}
