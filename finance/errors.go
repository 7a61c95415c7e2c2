/*
errors.go - Centralized error types for the statement engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Layers above (api, store) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Malformed input, rejected before classification
  2. Consolidation errors - Stores that cannot participate in a statement
  3. Registry errors - Invalid category operations
  4. Warnings - Non-fatal data-quality signals (classifier fallback)

USAGE:
  Callers branch with errors.Is / errors.As:

    var merr *finance.MissingInitialBalanceError
    if errors.As(err, &merr) {
        // prompt the user to set up the store's opening balance
    }

SEE ALSO:
  - category.go: Returns InvalidMergeError
  - classify.go: Produces UnresolvedCategoryWarning
  - types.go: Validate methods returning ValidationError
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrMissingInitialBalance is returned when consolidation encounters a
	// store with no initial balance date. The caller must exclude the store
	// or prompt for setup; the engine never guesses a treatment.
	ErrMissingInitialBalance = errors.New("store has no initial balance date")

	// ErrInvalidMerge is returned when a category merge is not allowed
	// (cross-type, or source equals target).
	ErrInvalidMerge = errors.New("invalid category merge")

	// ErrCategoryNotFound is returned when a referenced category doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStoreNotFound is returned when a referenced store doesn't exist.
	ErrStoreNotFound = errors.New("store not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a malformed field on input. Rejected before
// classification, never silently coerced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingInitialBalanceError identifies the store that blocked consolidation.
type MissingInitialBalanceError struct {
	StoreID   StoreID
	StoreName string
}

func (e *MissingInitialBalanceError) Error() string {
	return fmt.Sprintf("store %s (%s) has no initial balance date", e.StoreName, e.StoreID)
}

func (e *MissingInitialBalanceError) Unwrap() error { return ErrMissingInitialBalance }

// InvalidMergeError explains why two categories cannot be merged.
type InvalidMergeError struct {
	SourceID CategoryID
	TargetID CategoryID
	Reason   string
}

func (e *InvalidMergeError) Error() string {
	return fmt.Sprintf("cannot merge category %s into %s: %s", e.SourceID, e.TargetID, e.Reason)
}

func (e *InvalidMergeError) Unwrap() error { return ErrInvalidMerge }

// =============================================================================
// WARNINGS - Non-fatal signals
// =============================================================================

// UnresolvedCategoryWarning records a classifier fallback: the category had
// no registry entry, so the static default mapping was used. It is a
// data-quality signal, never a blocking error - transaction entry must
// always succeed.
type UnresolvedCategoryWarning struct {
	Type       TransactionType
	Category   string
	Suggestion string // nearest known category name, empty if none close
}

func (w *UnresolvedCategoryWarning) Error() string {
	if w.Suggestion != "" {
		return fmt.Sprintf("category %q (%s) not in registry, used default classification; did you mean %q?",
			w.Category, w.Type, w.Suggestion)
	}
	return fmt.Sprintf("category %q (%s) not in registry, used default classification", w.Category, w.Type)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidMerge) ||
		errors.Is(err, ErrMissingInitialBalance)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrStoreNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
