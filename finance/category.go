/*
category.go - Category records and the registry

PURPOSE:
  The category registry is the source of truth for transaction
  classification. Each category maps a (type, name) pair to a
  (cash-flow activity, transaction nature, include-in-profit-loss) triple.

CASCADE POLICY:
  Renaming or merging a category ALWAYS re-derives the denormalized
  classification fields on every transaction that referenced it. The
  category is the source of truth; leaving stale activity/nature values on
  historical transactions is exactly the inconsistency this engine exists
  to prevent. The rewrite is idempotent, so a pure rename (same
  classification, new name) is safe.

MERGE SEMANTICS:
  Merge(source, target) repoints all of source's transactions to target's
  name and classification, then deletes source. Only categories of the same
  transaction type can merge - income cannot merge into expense.

SEE ALSO:
  - classify.go: Consumes Lookup at transaction write time
  - repo.go: Repository interfaces the registry drives
*/
package finance

import (
	"context"
	"fmt"
)

// =============================================================================
// CATEGORY - Registry record
// =============================================================================

// Category maps a (type, name) pair to a classification triple. Name is
// unique per type within a company. IsSystem marks seeded categories that
// ship with the product.
type Category struct {
	ID                  CategoryID
	CompanyID           CompanyID
	Type                TransactionType
	Name                string
	Activity            CashFlowActivity
	Nature              *TransactionNature
	IncludeInProfitLoss bool
	IsSystem            bool
}

// Classification returns the triple stamped onto transactions.
func (c Category) Classification() Classification {
	return Classification{
		Activity:            c.Activity,
		Nature:              c.Nature,
		IncludeInProfitLoss: c.IncludeInProfitLoss,
	}
}

// Validate checks registry invariants before save.
func (c Category) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if c.Type != TypeIncome && c.Type != TypeExpense {
		return &ValidationError{Field: "type", Message: "must be income or expense"}
	}
	switch c.Activity {
	case ActivityOperating, ActivityInvesting, ActivityFinancing:
	default:
		return &ValidationError{Field: "cash_flow_activity", Message: "must be operating, investing or financing"}
	}
	if c.IncludeInProfitLoss && c.Nature == nil {
		return &ValidationError{Field: "transaction_nature", Message: "is required when included in profit/loss"}
	}
	return nil
}

// =============================================================================
// REGISTRY - Lookup, upsert, rename, merge
// =============================================================================

// Registry drives category mutations and cascades them onto transactions.
// The caller is responsible for wrapping rename/merge in a storage-level
// transaction where the repository supports it.
type Registry struct {
	Categories   CategoryRepository
	Transactions TransactionRepository
}

func NewRegistry(categories CategoryRepository, transactions TransactionRepository) *Registry {
	return &Registry{Categories: categories, Transactions: transactions}
}

// Lookup resolves a classification by (type, name). Returns nil (not an
// error) when no entry exists - absence of a category must never block
// transaction entry; the classifier applies a total default instead.
func (r *Registry) Lookup(ctx context.Context, companyID CompanyID, txType TransactionType, name string) (*Category, error) {
	cat, err := r.Categories.GetCategoryByName(ctx, companyID, txType, name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cat, nil
}

// Upsert validates and saves a category.
func (r *Registry) Upsert(ctx context.Context, c Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.Categories.SaveCategory(ctx, c)
}

// Rename changes a category's name and cascades the change - name AND
// classification - onto every transaction referencing the old name.
// Returns the number of transactions updated.
func (r *Registry) Rename(ctx context.Context, companyID CompanyID, id CategoryID, newName string) (int, error) {
	if newName == "" {
		return 0, &ValidationError{Field: "name", Message: "is required"}
	}

	cat, err := r.Categories.GetCategory(ctx, companyID, id)
	if err != nil {
		return 0, err
	}

	// Name uniqueness is per (company, type).
	if existing, err := r.Categories.GetCategoryByName(ctx, companyID, cat.Type, newName); err != nil && !IsNotFound(err) {
		return 0, err
	} else if existing != nil && existing.ID != id {
		return 0, &ValidationError{Field: "name", Message: fmt.Sprintf("%q already exists for type %s", newName, cat.Type)}
	}

	oldName := cat.Name
	cat.Name = newName
	if err := r.Categories.SaveCategory(ctx, *cat); err != nil {
		return 0, err
	}

	return r.Transactions.Reclassify(ctx, companyID, cat.Type, oldName, newName, cat.Classification())
}

// Merge repoints all of source's transactions to target, then deletes
// source. Fails with InvalidMergeError for self-merge or cross-type merge.
// Returns the number of transactions moved.
func (r *Registry) Merge(ctx context.Context, companyID CompanyID, sourceID, targetID CategoryID) (int, error) {
	if sourceID == targetID {
		return 0, &InvalidMergeError{SourceID: sourceID, TargetID: targetID, Reason: "source and target are the same category"}
	}

	source, err := r.Categories.GetCategory(ctx, companyID, sourceID)
	if err != nil {
		return 0, err
	}
	target, err := r.Categories.GetCategory(ctx, companyID, targetID)
	if err != nil {
		return 0, err
	}
	if source.Type != target.Type {
		return 0, &InvalidMergeError{
			SourceID: sourceID,
			TargetID: targetID,
			Reason:   fmt.Sprintf("type mismatch: %s vs %s", source.Type, target.Type),
		}
	}

	moved, err := r.Transactions.Reclassify(ctx, companyID, source.Type, source.Name, target.Name, target.Classification())
	if err != nil {
		return 0, err
	}

	if err := r.Categories.DeleteCategory(ctx, companyID, sourceID); err != nil {
		return moved, err
	}
	return moved, nil
}
