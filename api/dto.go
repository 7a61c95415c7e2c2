/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Rendered as strings with two decimal places. JSON numbers are float64
  on the wire and would undo the decimal arithmetic upstream.

SEE ALSO:
  - handlers.go: Uses these types
  - statement/builder.go: The statement shapes being serialized
*/
package api

import (
	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/statement"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// TransactionDTO represents a transaction in API responses.
type TransactionDTO struct {
	ID                  string  `json:"id"`
	StoreID             string  `json:"store_id"`
	Type                string  `json:"type"`
	Category            string  `json:"category"`
	Amount              string  `json:"amount"`
	Date                string  `json:"date"`
	Description         string  `json:"description,omitempty"`
	CashFlowActivity    string  `json:"cash_flow_activity"`
	TransactionNature   *string `json:"transaction_nature,omitempty"`
	IncludeInProfitLoss bool    `json:"include_in_profit_loss"`
}

// CreateTransactionRequest is the request to record a transaction.
type CreateTransactionRequest struct {
	StoreID     string `json:"store_id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

// TransactionResponse wraps a saved transaction with any classification warning.
type TransactionResponse struct {
	Transaction TransactionDTO `json:"transaction"`
	Warning     string         `json:"warning,omitempty"`
}

func toTransactionDTO(t finance.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:                  string(t.ID),
		StoreID:             string(t.StoreID),
		Type:                string(t.Type),
		Category:            t.Category,
		Amount:              t.Amount.StringFixed(2),
		Date:                t.Date.String(),
		Description:         t.Description,
		CashFlowActivity:    string(t.Activity),
		IncludeInProfitLoss: t.IncludeInProfitLoss,
	}
	if t.Nature != nil {
		n := string(*t.Nature)
		dto.TransactionNature = &n
	}
	return dto
}

// =============================================================================
// CATEGORY TYPES
// =============================================================================

// CategoryDTO represents a category in API responses.
type CategoryDTO struct {
	ID                  string  `json:"id"`
	Type                string  `json:"type"`
	Name                string  `json:"name"`
	CashFlowActivity    string  `json:"cash_flow_activity"`
	TransactionNature   *string `json:"transaction_nature,omitempty"`
	IncludeInProfitLoss bool    `json:"include_in_profit_loss"`
	IsSystem            bool    `json:"is_system"`
}

// UpsertCategoryRequest creates or updates a category.
type UpsertCategoryRequest struct {
	Type                string  `json:"type"`
	Name                string  `json:"name"`
	CashFlowActivity    string  `json:"cash_flow_activity"`
	TransactionNature   *string `json:"transaction_nature,omitempty"`
	IncludeInProfitLoss *bool   `json:"include_in_profit_loss,omitempty"`
}

// RenameCategoryRequest renames a category (cascades to transactions).
type RenameCategoryRequest struct {
	NewName string `json:"new_name"`
}

// MergeCategoriesRequest merges source into target.
type MergeCategoriesRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// CascadeResponse reports how many transactions a cascade touched.
type CascadeResponse struct {
	TransactionsUpdated int `json:"transactions_updated"`
}

func toCategoryDTO(c finance.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:                  string(c.ID),
		Type:                string(c.Type),
		Name:                c.Name,
		CashFlowActivity:    string(c.Activity),
		IncludeInProfitLoss: c.IncludeInProfitLoss,
		IsSystem:            c.IsSystem,
	}
	if c.Nature != nil {
		n := string(*c.Nature)
		dto.TransactionNature = &n
	}
	return dto
}

// =============================================================================
// STORE TYPES
// =============================================================================

// StoreDTO represents a store in API responses.
type StoreDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	InitialBalanceDate *string `json:"initial_balance_date,omitempty"`
	InitialBalance     string  `json:"initial_balance"`
}

// UpsertStoreRequest creates or updates a store.
type UpsertStoreRequest struct {
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	InitialBalanceDate *string `json:"initial_balance_date,omitempty"`
	InitialBalance     string  `json:"initial_balance"`
}

func toStoreDTO(s finance.Store) StoreDTO {
	dto := StoreDTO{
		ID:             string(s.ID),
		Name:           s.Name,
		Status:         string(s.Status),
		InitialBalance: s.InitialBalance.StringFixed(2),
	}
	if s.InitialBalanceDate != nil {
		d := s.InitialBalanceDate.String()
		dto.InitialBalanceDate = &d
	}
	return dto
}

// =============================================================================
// STATEMENT TYPES
// =============================================================================

// CategoryAmountDTO is one grouped line in an activity section.
type CategoryAmountDTO struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Amount   string `json:"amount"`
}

// ActivitySectionDTO is one cash-flow statement section.
type ActivitySectionDTO struct {
	Inflows         []CategoryAmountDTO `json:"inflows"`
	Outflows        []CategoryAmountDTO `json:"outflows"`
	SubtotalInflow  string              `json:"subtotal_inflow"`
	SubtotalOutflow string              `json:"subtotal_outflow"`
	NetCashFlow     string              `json:"net_cash_flow"`
}

// SummaryDTO holds the cash-flow statement totals.
type SummaryDTO struct {
	BeginningBalance string `json:"beginning_balance"`
	TotalInflow      string `json:"total_inflow"`
	TotalOutflow     string `json:"total_outflow"`
	NetIncrease      string `json:"net_increase"`
	EndingBalance    string `json:"ending_balance"`
}

// EntryDTO is a statement line item; virtual capital entries carry
// kind = "virtual".
type EntryDTO struct {
	TransactionDTO
	Kind string `json:"kind"`
}

// CashFlowStatementDTO is the full cash-flow statement response.
type CashFlowStatementDTO struct {
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	Operating      ActivitySectionDTO `json:"operating"`
	Investing      ActivitySectionDTO `json:"investing"`
	Financing      ActivitySectionDTO `json:"financing"`
	Summary        SummaryDTO         `json:"summary"`
	VirtualEntries []EntryDTO         `json:"virtual_entries,omitempty"`
}

// PLItemDTO is one profit-and-loss line.
type PLItemDTO struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// PLSectionDTO is one profit-and-loss bucket.
type PLSectionDTO struct {
	Total string      `json:"total"`
	Items []PLItemDTO `json:"items"`
}

// ProfitLossStatementDTO is the full profit-and-loss response.
type ProfitLossStatementDTO struct {
	StartDate           string       `json:"start_date"`
	EndDate             string       `json:"end_date"`
	Revenue             PLSectionDTO `json:"revenue"`
	Cost                PLSectionDTO `json:"cost"`
	NonOperatingIncome  PLSectionDTO `json:"non_operating_income"`
	NonOperatingExpense PLSectionDTO `json:"non_operating_expense"`
	OperatingProfit     string       `json:"operating_profit"`
	TotalProfit         string       `json:"total_profit"`
	IncomeTax           string       `json:"income_tax"`
	NetProfit           string       `json:"net_profit"`
}

func toActivitySectionDTO(s statement.ActivitySection) ActivitySectionDTO {
	return ActivitySectionDTO{
		Inflows:         toCategoryAmountDTOs(s.Inflows),
		Outflows:        toCategoryAmountDTOs(s.Outflows),
		SubtotalInflow:  s.SubtotalInflow.StringFixed(2),
		SubtotalOutflow: s.SubtotalOutflow.StringFixed(2),
		NetCashFlow:     s.NetCashFlow.StringFixed(2),
	}
}

func toCategoryAmountDTOs(lines []statement.CategoryAmount) []CategoryAmountDTO {
	dtos := make([]CategoryAmountDTO, len(lines))
	for i, l := range lines {
		dtos[i] = CategoryAmountDTO{Category: l.Category, Label: l.Label, Amount: l.Amount.StringFixed(2)}
	}
	return dtos
}

func toEntryDTOs(entries []statement.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{TransactionDTO: toTransactionDTO(e.Transaction), Kind: string(e.Kind)}
	}
	return dtos
}

func toCashFlowDTO(st statement.CashFlowStatement) CashFlowStatementDTO {
	return CashFlowStatementDTO{
		StartDate: st.Period.Start.String(),
		EndDate:   st.Period.End.String(),
		Operating: toActivitySectionDTO(st.Operating),
		Investing: toActivitySectionDTO(st.Investing),
		Financing: toActivitySectionDTO(st.Financing),
		Summary: SummaryDTO{
			BeginningBalance: st.Summary.BeginningBalance.StringFixed(2),
			TotalInflow:      st.Summary.TotalInflow.StringFixed(2),
			TotalOutflow:     st.Summary.TotalOutflow.StringFixed(2),
			NetIncrease:      st.Summary.NetIncrease.StringFixed(2),
			EndingBalance:    st.Summary.EndingBalance.StringFixed(2),
		},
		VirtualEntries: toEntryDTOs(st.VirtualEntries),
	}
}

func toPLSectionDTO(s statement.PLSection) PLSectionDTO {
	dto := PLSectionDTO{Total: s.Total.StringFixed(2), Items: make([]PLItemDTO, len(s.Items))}
	for i, item := range s.Items {
		dto.Items[i] = PLItemDTO{Category: item.Category, Amount: item.Amount.StringFixed(2)}
	}
	return dto
}

func toProfitLossDTO(st statement.ProfitLossStatement) ProfitLossStatementDTO {
	return ProfitLossStatementDTO{
		StartDate:           st.Period.Start.String(),
		EndDate:             st.Period.End.String(),
		Revenue:             toPLSectionDTO(st.Revenue),
		Cost:                toPLSectionDTO(st.Cost),
		NonOperatingIncome:  toPLSectionDTO(st.NonOperatingIncome),
		NonOperatingExpense: toPLSectionDTO(st.NonOperatingExpense),
		OperatingProfit:     st.OperatingProfit.StringFixed(2),
		TotalProfit:         st.TotalProfit.StringFixed(2),
		IncomeTax:           st.IncomeTax.StringFixed(2),
		NetProfit:           st.NetProfit.StringFixed(2),
	}
}
