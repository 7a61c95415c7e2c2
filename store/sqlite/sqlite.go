/*
Package sqlite provides a SQLite-backed implementation of the repositories.

PURPOSE:
  Implements finance.TransactionRepository, finance.CategoryRepository and
  finance.StoreRepository using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  transactions: Classified cash movements (denormalized activity/nature)
  categories:   The category registry
  stores:       Retail locations with their ledger opening date/balance

RECLASSIFY:
  The registry cascade (rename/merge) is a single UPDATE inside an SQL
  transaction: category name and classification fields move together, so a
  crash can never leave half-cascaded rows.

AMOUNTS:
  Stored as TEXT and parsed with shopspring/decimal. REAL columns would
  reintroduce the floating-point drift the engine exists to avoid.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  db, err := sqlite.New("./data/statements.db")
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()

SEE ALSO:
  - finance/repo.go: Interface definitions
  - finance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/statement-engine/finance"
)

// DB implements the finance repositories using SQLite.
type DB struct {
	db *sql.DB
}

// Compile-time checks
var (
	_ finance.TransactionRepository = (*DB)(nil)
	_ finance.CategoryRepository    = (*DB)(nil)
	_ finance.StoreRepository       = (*DB)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		store_id TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		tx_date TEXT NOT NULL,
		description TEXT,
		cash_flow_activity TEXT NOT NULL,
		transaction_nature TEXT,
		include_in_profit_loss INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_company_store_date
		ON transactions(company_id, store_id, tx_date);
	CREATE INDEX IF NOT EXISTS idx_transactions_company_category
		ON transactions(company_id, tx_type, category);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		name TEXT NOT NULL,
		cash_flow_activity TEXT NOT NULL,
		transaction_nature TEXT,
		include_in_profit_loss INTEGER NOT NULL DEFAULT 1,
		is_system INTEGER NOT NULL DEFAULT 0,
		UNIQUE(company_id, tx_type, name)
	);

	CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		initial_balance_date TEXT,
		initial_balance TEXT NOT NULL DEFAULT '0'
	);
	CREATE INDEX IF NOT EXISTS idx_stores_company ON stores(company_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *DB) SaveTransaction(ctx context.Context, t finance.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO transactions
		(id, company_id, store_id, tx_type, category, amount, tx_date, description,
		 cash_flow_activity, transaction_nature, include_in_profit_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), string(t.CompanyID), string(t.StoreID), string(t.Type),
		t.Category, t.Amount.String(), t.Date.String(), t.Description,
		string(t.Activity), natureString(t.Nature), boolToInt(t.IncludeInProfitLoss),
	)
	return err
}

func (s *DB) GetTransaction(ctx context.Context, companyID finance.CompanyID, id finance.TransactionID) (*finance.Transaction, error) {
	rows, err := s.queryTransactions(ctx, `
		SELECT id, company_id, store_id, tx_type, category, amount, tx_date, description,
		       cash_flow_activity, transaction_nature, include_in_profit_loss
		FROM transactions WHERE company_id = ? AND id = ?`,
		string(companyID), string(id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, finance.ErrTransactionNotFound
	}
	return &rows[0], nil
}

func (s *DB) ListTransactions(ctx context.Context, companyID finance.CompanyID) ([]finance.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, company_id, store_id, tx_type, category, amount, tx_date, description,
		       cash_flow_activity, transaction_nature, include_in_profit_loss
		FROM transactions WHERE company_id = ? ORDER BY tx_date, id`,
		string(companyID))
}

func (s *DB) UpdateTransaction(ctx context.Context, t finance.Transaction) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET store_id = ?, tx_type = ?, category = ?, amount = ?,
			tx_date = ?, description = ?, cash_flow_activity = ?,
			transaction_nature = ?, include_in_profit_loss = ?
		WHERE company_id = ? AND id = ?`,
		string(t.StoreID), string(t.Type), t.Category, t.Amount.String(),
		t.Date.String(), t.Description, string(t.Activity),
		natureString(t.Nature), boolToInt(t.IncludeInProfitLoss),
		string(t.CompanyID), string(t.ID),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

func (s *DB) DeleteTransaction(ctx context.Context, companyID finance.CompanyID, id finance.TransactionID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE company_id = ? AND id = ?`,
		string(companyID), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

func (s *DB) Reclassify(ctx context.Context, companyID finance.CompanyID, txType finance.TransactionType, oldName, newName string, cls finance.Classification) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET category = ?, cash_flow_activity = ?,
			transaction_nature = ?, include_in_profit_loss = ?
		WHERE company_id = ? AND tx_type = ? AND category = ?`,
		newName, string(cls.Activity), natureString(cls.Nature),
		boolToInt(cls.IncludeInProfitLoss),
		string(companyID), string(txType), oldName,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *DB) queryTransactions(ctx context.Context, query string, args ...any) ([]finance.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []finance.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (finance.Transaction, error) {
	var (
		t       finance.Transaction
		id      string
		company string
		storeID string
		txType  string
		amount  string
		date    string
		desc    sql.NullString
		act     string
		nature  sql.NullString
		inPL    int
	)
	if err := rows.Scan(&id, &company, &storeID, &txType, &t.Category, &amount,
		&date, &desc, &act, &nature, &inPL); err != nil {
		return finance.Transaction{}, err
	}

	t.ID = finance.TransactionID(id)
	t.CompanyID = finance.CompanyID(company)
	t.StoreID = finance.StoreID(storeID)
	t.Type = finance.TransactionType(txType)
	t.Description = desc.String
	t.Activity = finance.CashFlowActivity(act)
	t.Nature = natureFromString(nature)
	t.IncludeInProfitLoss = inPL != 0

	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return finance.Transaction{}, fmt.Errorf("bad amount %q: %w", amount, err)
	}
	if t.Date, err = finance.ParseDate(date); err != nil {
		return finance.Transaction{}, fmt.Errorf("bad date %q: %w", date, err)
	}
	return t, nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *DB) SaveCategory(ctx context.Context, c finance.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO categories
		(id, company_id, tx_type, name, cash_flow_activity, transaction_nature,
		 include_in_profit_loss, is_system)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(c.ID), string(c.CompanyID), string(c.Type), c.Name,
		string(c.Activity), natureString(c.Nature),
		boolToInt(c.IncludeInProfitLoss), boolToInt(c.IsSystem),
	)
	return err
}

func (s *DB) GetCategory(ctx context.Context, companyID finance.CompanyID, id finance.CategoryID) (*finance.Category, error) {
	return s.getCategory(ctx, `company_id = ? AND id = ?`, string(companyID), string(id))
}

func (s *DB) GetCategoryByName(ctx context.Context, companyID finance.CompanyID, txType finance.TransactionType, name string) (*finance.Category, error) {
	return s.getCategory(ctx, `company_id = ? AND tx_type = ? AND name = ?`,
		string(companyID), string(txType), name)
}

func (s *DB) getCategory(ctx context.Context, where string, args ...any) (*finance.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, tx_type, name, cash_flow_activity, transaction_nature,
		       include_in_profit_loss, is_system
		FROM categories WHERE `+where, args...)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, finance.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DB) ListCategories(ctx context.Context, companyID finance.CompanyID) ([]finance.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, tx_type, name, cash_flow_activity, transaction_nature,
		       include_in_profit_loss, is_system
		FROM categories WHERE company_id = ? ORDER BY tx_type, name`,
		string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []finance.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, *c)
	}
	return cats, rows.Err()
}

func (s *DB) DeleteCategory(ctx context.Context, companyID finance.CompanyID, id finance.CategoryID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE company_id = ? AND id = ?`,
		string(companyID), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.ErrCategoryNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*finance.Category, error) {
	var (
		c        finance.Category
		id       string
		company  string
		txType   string
		act      string
		nature   sql.NullString
		inPL     int
		isSystem int
	)
	if err := row.Scan(&id, &company, &txType, &c.Name, &act, &nature, &inPL, &isSystem); err != nil {
		return nil, err
	}
	c.ID = finance.CategoryID(id)
	c.CompanyID = finance.CompanyID(company)
	c.Type = finance.TransactionType(txType)
	c.Activity = finance.CashFlowActivity(act)
	c.Nature = natureFromString(nature)
	c.IncludeInProfitLoss = inPL != 0
	c.IsSystem = isSystem != 0
	return &c, nil
}

// =============================================================================
// STORES
// =============================================================================

func (s *DB) SaveStore(ctx context.Context, st finance.Store) error {
	var openDate any
	if st.InitialBalanceDate != nil {
		openDate = st.InitialBalanceDate.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO stores
		(id, company_id, name, status, initial_balance_date, initial_balance)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(st.ID), string(st.CompanyID), st.Name, string(st.Status),
		openDate, st.InitialBalance.String(),
	)
	return err
}

func (s *DB) GetStore(ctx context.Context, companyID finance.CompanyID, id finance.StoreID) (*finance.Store, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, status, initial_balance_date, initial_balance
		FROM stores WHERE company_id = ? AND id = ?`,
		string(companyID), string(id))

	st, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, finance.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *DB) ListStores(ctx context.Context, companyID finance.CompanyID) ([]finance.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, status, initial_balance_date, initial_balance
		FROM stores WHERE company_id = ? ORDER BY name`,
		string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []finance.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *st)
	}
	return stores, rows.Err()
}

func (s *DB) DeleteStore(ctx context.Context, companyID finance.CompanyID, id finance.StoreID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM stores WHERE company_id = ? AND id = ?`,
		string(companyID), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.ErrStoreNotFound
	}
	return nil
}

func scanStore(row scanner) (*finance.Store, error) {
	var (
		st       finance.Store
		id       string
		company  string
		status   string
		openDate sql.NullString
		balance  string
	)
	if err := row.Scan(&id, &company, &st.Name, &status, &openDate, &balance); err != nil {
		return nil, err
	}
	st.ID = finance.StoreID(id)
	st.CompanyID = finance.CompanyID(company)
	st.Status = finance.StoreStatus(status)

	var err error
	if st.InitialBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("bad balance %q: %w", balance, err)
	}
	if openDate.Valid {
		d, err := finance.ParseDate(openDate.String)
		if err != nil {
			return nil, fmt.Errorf("bad initial balance date %q: %w", openDate.String, err)
		}
		st.InitialBalanceDate = &d
	}
	return &st, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func natureString(n *finance.TransactionNature) any {
	if n == nil {
		return nil
	}
	return string(*n)
}

func natureFromString(s sql.NullString) *finance.TransactionNature {
	if !s.Valid || s.String == "" {
		return nil
	}
	n := finance.TransactionNature(s.String)
	return &n
}
