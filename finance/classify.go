/*
classify.go - Write-time transaction classification

PURPOSE:
  Derives the (cash-flow activity, transaction nature, include-in-profit-loss)
  triple stamped onto every transaction when it is created or edited.

RESOLUTION ORDER:
  1. Registry lookup by (type, name) - the normal path
  2. Static built-in mapping keyed by well-known category names
  3. Default: operating / operating / include=true

  Steps 2 and 3 are the fallback for unmigrated data or deleted categories.
  The fallback is deterministic and TOTAL: classification never fails, so
  transaction entry always succeeds. A fallback is surfaced as an
  UnresolvedCategoryWarning carrying the nearest known category name, so
  data-quality issues stay visible without blocking anything.

SEE ALSO:
  - category.go: The registry consulted first
  - errors.go: UnresolvedCategoryWarning
*/
package finance

import (
	"context"

	"github.com/agnivade/levenshtein"
)

// =============================================================================
// CLASSIFICATION - The triple stamped onto transactions
// =============================================================================

type Classification struct {
	Activity            CashFlowActivity
	Nature              *TransactionNature
	IncludeInProfitLoss bool
}

func naturePtr(n TransactionNature) *TransactionNature { return &n }

// DefaultClassification is the terminal fallback: operating activity,
// operating nature, included in profit/loss.
func DefaultClassification() Classification {
	return Classification{
		Activity:            ActivityOperating,
		Nature:              naturePtr(NatureOperating),
		IncludeInProfitLoss: true,
	}
}

// =============================================================================
// STATIC FALLBACK - Well-known category names
// =============================================================================

type fallbackKey struct {
	Type TransactionType
	Name string
}

// staticFallback covers categories that predate the registry. Anything not
// listed resolves to DefaultClassification.
var staticFallback = map[fallbackKey]Classification{
	{TypeIncome, "sales"}:           {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeIncome, "service income"}:  {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeIncome, "interest income"}: {ActivityOperating, naturePtr(NatureNonOperating), true},
	{TypeIncome, "equipment sale"}:  {ActivityInvesting, naturePtr(NatureNonOperating), true},
	{TypeIncome, "loan proceeds"}:   {ActivityFinancing, nil, false},
	{TypeIncome, "owner investment"}: {ActivityFinancing, nil, false},

	{TypeExpense, "cost of goods"}:      {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeExpense, "payroll"}:            {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeExpense, "rent"}:               {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeExpense, "utilities"}:          {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeExpense, "supplies"}:           {ActivityOperating, naturePtr(NatureOperating), true},
	{TypeExpense, "equipment purchase"}: {ActivityInvesting, naturePtr(NatureNonOperating), true},
	{TypeExpense, "renovation"}:         {ActivityInvesting, naturePtr(NatureNonOperating), true},
	{TypeExpense, "loan repayment"}:     {ActivityFinancing, nil, false},
	{TypeExpense, "owner withdrawal"}:   {ActivityFinancing, nil, false},
	{TypeExpense, "income tax"}:         {ActivityOperating, naturePtr(NatureIncomeTax), true},
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier resolves classifications at transaction write time.
type Classifier struct {
	Registry *Registry
}

func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{Registry: registry}
}

// Classify resolves the classification for (type, name). The returned
// warning is non-nil when the registry missed and a fallback was applied;
// the error is non-nil only for repository failures, never for an unknown
// category.
func (c *Classifier) Classify(ctx context.Context, companyID CompanyID, txType TransactionType, name string) (Classification, *UnresolvedCategoryWarning, error) {
	cat, err := c.Registry.Lookup(ctx, companyID, txType, name)
	if err != nil {
		return Classification{}, nil, err
	}
	if cat != nil {
		return cat.Classification(), nil, nil
	}

	warning := &UnresolvedCategoryWarning{Type: txType, Category: name}
	if known, err := c.Registry.Categories.ListCategories(ctx, companyID); err == nil {
		warning.Suggestion = nearestCategory(name, txType, known)
	}

	if cls, ok := staticFallback[fallbackKey{Type: txType, Name: name}]; ok {
		return cls, warning, nil
	}
	return DefaultClassification(), warning, nil
}

// ApplyTo stamps a classification onto a transaction.
func (cls Classification) ApplyTo(t *Transaction) {
	t.Activity = cls.Activity
	t.Nature = cls.Nature
	t.IncludeInProfitLoss = cls.IncludeInProfitLoss
}

// =============================================================================
// SUGGESTION - Nearest known category by edit distance
// =============================================================================

// maxSuggestionDistance bounds how far a name can be from a known category
// before we stop suggesting anything.
const maxSuggestionDistance = 3

func nearestCategory(name string, txType TransactionType, known []Category) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, cat := range known {
		if cat.Type != txType {
			continue
		}
		d := levenshtein.ComputeDistance(name, cat.Name)
		if d < bestDist {
			best = cat.Name
			bestDist = d
		}
	}
	return best
}
