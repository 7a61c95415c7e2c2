/*
handlers.go - HTTP API handlers for the statement engine

PURPOSE:
  Exposes the statement engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Transactions:
    GET    /api/transactions            List (faceted filters + sort)
    POST   /api/transactions            Record a transaction
    PUT    /api/transactions/{id}       Edit (re-derives classification)
    DELETE /api/transactions/{id}       Hard delete

  Categories:
    GET    /api/categories              List registry
    POST   /api/categories              Create/update category
    POST   /api/categories/{id}/rename  Rename (cascades to transactions)
    POST   /api/categories/merge        Merge source into target
    DELETE /api/categories/{id}         Delete

  Stores:
    GET/POST /api/stores, PUT/DELETE /api/stores/{id}

  Statements:
    GET /api/statements/cash-flow       ?start=&end=&stores=a,b
    GET /api/statements/profit-loss
    GET /api/exports/cash-flow          CSV download
    GET /api/exports/profit-loss        CSV download

TENANCY:
  Every request carries ?company_id=... - the engine has no ambient
  tenant state.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid merge, missing initial balance
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/config"
	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/statement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all API dependencies.
type Handler struct {
	Transactions finance.TransactionRepository
	Categories   finance.CategoryRepository
	Stores       finance.StoreRepository
	Registry     *finance.Registry
	Classifier   *finance.Classifier
	Export       config.ExportConfig
}

func NewHandler(txs finance.TransactionRepository, cats finance.CategoryRepository, stores finance.StoreRepository, export config.ExportConfig) *Handler {
	registry := finance.NewRegistry(cats, txs)
	return &Handler{
		Transactions: txs,
		Categories:   cats,
		Stores:       stores,
		Registry:     registry,
		Classifier:   finance.NewClassifier(registry),
		Export:       export,
	}
}

func companyID(r *http.Request) (finance.CompanyID, error) {
	id := r.URL.Query().Get("company_id")
	if id == "" {
		return "", &finance.ValidationError{Field: "company_id", Message: "is required"}
	}
	return finance.CompanyID(id), nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	txs, err := h.Transactions.ListTransactions(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}

	entries := statement.RealEntries(txs)
	entries = filterFromQuery(r).Apply(entries)
	sortFromQuery(r, entries)

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

func filterFromQuery(r *http.Request) statement.Filter {
	q := r.URL.Query()
	var f statement.Filter
	for _, v := range splitParam(q.Get("type")) {
		f.Types = append(f.Types, finance.TransactionType(v))
	}
	f.Categories = splitParam(q.Get("category"))
	for _, v := range splitParam(q.Get("activity")) {
		f.Activities = append(f.Activities, finance.CashFlowActivity(v))
	}
	for _, v := range splitParam(q.Get("nature")) {
		f.Natures = append(f.Natures, finance.TransactionNature(v))
	}
	for _, v := range splitParam(q.Get("store_id")) {
		f.StoreIDs = append(f.StoreIDs, finance.StoreID(v))
	}
	return f
}

func sortFromQuery(r *http.Request, entries []statement.Entry) {
	field := statement.SortField(r.URL.Query().Get("sort"))
	if field == "" {
		field = statement.SortByDate
	}
	direction := statement.Ascending
	if r.URL.Query().Get("order") == "desc" {
		direction = statement.Descending
	}
	statement.Sort(entries, field, direction)
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	tx, warning, err := h.buildTransaction(r, company, finance.TransactionID(uuid.NewString()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Transactions.SaveTransaction(r.Context(), tx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save transaction", err)
		return
	}

	resp := TransactionResponse{Transaction: toTransactionDTO(tx)}
	if warning != nil {
		resp.Warning = warning.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := finance.TransactionID(chi.URLParam(r, "id"))

	if _, err := h.Transactions.GetTransaction(r.Context(), company, id); err != nil {
		writeDomainError(w, err)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// Edits re-derive the classification: a category change must never
	// leave stale activity/nature fields behind.
	tx, warning, err := h.buildTransaction(r, company, id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Transactions.UpdateTransaction(r.Context(), tx); err != nil {
		writeDomainError(w, err)
		return
	}

	resp := TransactionResponse{Transaction: toTransactionDTO(tx)}
	if warning != nil {
		resp.Warning = warning.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := finance.TransactionID(chi.URLParam(r, "id"))

	if err := h.Transactions.DeleteTransaction(r.Context(), company, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// buildTransaction assembles and classifies a transaction from a request.
func (h *Handler) buildTransaction(r *http.Request, company finance.CompanyID, id finance.TransactionID, req CreateTransactionRequest) (finance.Transaction, *finance.UnresolvedCategoryWarning, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return finance.Transaction{}, nil, &finance.ValidationError{Field: "amount", Message: "is not a valid number"}
	}
	date, err := finance.ParseDate(req.Date)
	if err != nil {
		return finance.Transaction{}, nil, &finance.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}

	tx := finance.Transaction{
		ID:          id,
		CompanyID:   company,
		StoreID:     finance.StoreID(req.StoreID),
		Type:        finance.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
	}
	if err := tx.Validate(); err != nil {
		return finance.Transaction{}, nil, err
	}

	store, err := h.Stores.GetStore(r.Context(), company, tx.StoreID)
	if err != nil {
		return finance.Transaction{}, nil, err
	}
	if err := store.ValidateTransactionDate(tx.Date); err != nil {
		return finance.Transaction{}, nil, err
	}

	cls, warning, err := h.Classifier.Classify(r.Context(), company, tx.Type, tx.Category)
	if err != nil {
		return finance.Transaction{}, nil, err
	}
	cls.ApplyTo(&tx)
	return tx, warning, nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cats, err := h.Categories.ListCategories(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories", err)
		return
	}

	dtos := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		dtos[i] = toCategoryDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req UpsertCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	cat := finance.Category{
		ID:                  finance.CategoryID(uuid.NewString()),
		CompanyID:           company,
		Type:                finance.TransactionType(req.Type),
		Name:                req.Name,
		Activity:            finance.CashFlowActivity(req.CashFlowActivity),
		IncludeInProfitLoss: true,
	}
	if req.IncludeInProfitLoss != nil {
		cat.IncludeInProfitLoss = *req.IncludeInProfitLoss
	}
	if req.TransactionNature != nil {
		n := finance.TransactionNature(*req.TransactionNature)
		cat.Nature = &n
	}

	if err := h.Registry.Upsert(r.Context(), cat); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(cat))
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := finance.CategoryID(chi.URLParam(r, "id"))

	var req RenameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	updated, err := h.Registry.Rename(r.Context(), company, id, req.NewName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CascadeResponse{TransactionsUpdated: updated})
}

func (h *Handler) MergeCategories(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req MergeCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	moved, err := h.Registry.Merge(r.Context(), company,
		finance.CategoryID(req.SourceID), finance.CategoryID(req.TargetID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CascadeResponse{TransactionsUpdated: moved})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := finance.CategoryID(chi.URLParam(r, "id"))

	if err := h.Categories.DeleteCategory(r.Context(), company, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STORES
// =============================================================================

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stores, err := h.Stores.ListStores(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stores", err)
		return
	}

	dtos := make([]StoreDTO, len(stores))
	for i, s := range stores {
		dtos[i] = toStoreDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	h.saveStore(w, r, finance.StoreID(uuid.NewString()), http.StatusCreated)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	h.saveStore(w, r, finance.StoreID(chi.URLParam(r, "id")), http.StatusOK)
}

func (h *Handler) saveStore(w http.ResponseWriter, r *http.Request, id finance.StoreID, status int) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req UpsertStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		writeDomainError(w, &finance.ValidationError{Field: "name", Message: "is required"})
		return
	}

	balance := decimal.Zero
	if req.InitialBalance != "" {
		if balance, err = decimal.NewFromString(req.InitialBalance); err != nil {
			writeDomainError(w, &finance.ValidationError{Field: "initial_balance", Message: "is not a valid number"})
			return
		}
	}

	store := finance.Store{
		ID:             id,
		CompanyID:      company,
		Name:           req.Name,
		Status:         finance.StoreStatus(req.Status),
		InitialBalance: balance,
	}
	if store.Status == "" {
		store.Status = finance.StoreActive
	}
	if req.InitialBalanceDate != nil {
		d, err := finance.ParseDate(*req.InitialBalanceDate)
		if err != nil {
			writeDomainError(w, &finance.ValidationError{Field: "initial_balance_date", Message: "must be YYYY-MM-DD"})
			return
		}
		store.InitialBalanceDate = &d
	}

	if err := h.Stores.SaveStore(r.Context(), store); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save store", err)
		return
	}
	writeJSON(w, status, toStoreDTO(store))
}

func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	id := finance.StoreID(chi.URLParam(r, "id"))

	if err := h.Stores.DeleteStore(r.Context(), company, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATEMENTS
// =============================================================================

func (h *Handler) GetCashFlowStatement(w http.ResponseWriter, r *http.Request) {
	in, err := h.statementInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	st, err := statement.BuildCashFlow(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCashFlowDTO(st))
}

func (h *Handler) GetProfitLossStatement(w http.ResponseWriter, r *http.Request) {
	in, err := h.statementInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	st, err := statement.BuildProfitLoss(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfitLossDTO(st))
}

func (h *Handler) ExportCashFlow(w http.ResponseWriter, r *http.Request) {
	in, err := h.statementInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	st, err := statement.BuildCashFlow(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	statement.Sort(st.Entries, statement.SortByDate, statement.Ascending)

	names := make(statement.StoreNames, len(in.Stores))
	for _, s := range in.Stores {
		names[s.ID] = s.Name
	}

	data, err := statement.ExportCashFlow(st, names)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export statement", err)
		return
	}
	writeCSV(w, statement.Filename(h.Export.CashFlowName, in.Period), data)
}

func (h *Handler) ExportProfitLoss(w http.ResponseWriter, r *http.Request) {
	in, err := h.statementInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	st, err := statement.BuildProfitLoss(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := statement.ExportProfitLoss(st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export statement", err)
		return
	}
	writeCSV(w, statement.Filename(h.Export.ProfitLossName, in.Period), data)
}

// statementInput loads the snapshot a statement is built from.
func (h *Handler) statementInput(r *http.Request) (statement.Input, error) {
	company, err := companyID(r)
	if err != nil {
		return statement.Input{}, err
	}

	q := r.URL.Query()
	start, err := finance.ParseDate(q.Get("start"))
	if err != nil {
		return statement.Input{}, &finance.ValidationError{Field: "start", Message: "must be YYYY-MM-DD"}
	}
	end, err := finance.ParseDate(q.Get("end"))
	if err != nil {
		return statement.Input{}, &finance.ValidationError{Field: "end", Message: "must be YYYY-MM-DD"}
	}

	period := finance.Period{Start: start, End: end}
	if err := period.Validate(); err != nil {
		return statement.Input{}, err
	}

	scope := statement.AllStores()
	for _, id := range splitParam(q.Get("stores")) {
		scope.StoreIDs = append(scope.StoreIDs, finance.StoreID(id))
	}

	stores, err := h.Stores.ListStores(r.Context(), company)
	if err != nil {
		return statement.Input{}, err
	}
	txs, err := h.Transactions.ListTransactions(r.Context(), company)
	if err != nil {
		return statement.Input{}, err
	}

	return statement.Input{
		CompanyID:    company,
		Stores:       stores,
		Transactions: txs,
		Period:       period,
		Scope:        scope,
	}, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": message, "detail": detail})
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case finance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case finance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
