package finance

import "context"

// =============================================================================
// REPOSITORY INTERFACES - Implemented by finance/store (memory) and
// store/sqlite. The engine itself never fetches data; these interfaces exist
// for the registry cascade and the api layer.
// =============================================================================

// CategoryRepository persists category records.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, c Category) error
	GetCategory(ctx context.Context, companyID CompanyID, id CategoryID) (*Category, error)
	GetCategoryByName(ctx context.Context, companyID CompanyID, txType TransactionType, name string) (*Category, error)
	ListCategories(ctx context.Context, companyID CompanyID) ([]Category, error)
	DeleteCategory(ctx context.Context, companyID CompanyID, id CategoryID) error
}

// TransactionRepository persists transaction records.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, t Transaction) error
	GetTransaction(ctx context.Context, companyID CompanyID, id TransactionID) (*Transaction, error)
	ListTransactions(ctx context.Context, companyID CompanyID) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, companyID CompanyID, id TransactionID) error

	// Reclassify moves every transaction referencing (type, oldName) to
	// newName and stamps the given classification onto it. Returns the
	// number of transactions touched. Must be atomic.
	Reclassify(ctx context.Context, companyID CompanyID, txType TransactionType, oldName, newName string, cls Classification) (int, error)
}

// StoreRepository persists store records.
type StoreRepository interface {
	SaveStore(ctx context.Context, s Store) error
	GetStore(ctx context.Context, companyID CompanyID, id StoreID) (*Store, error)
	ListStores(ctx context.Context, companyID CompanyID) ([]Store, error)
	DeleteStore(ctx context.Context, companyID CompanyID, id StoreID) error
}
