// Package store provides in-memory repository implementations (for testing/dev).
package store

import (
	"context"
	"sync"

	"github.com/warp/statement-engine/finance"
)

// =============================================================================
// MEMORY - In-memory implementation of the finance repositories
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions map[finance.CompanyID]map[finance.TransactionID]finance.Transaction
	categories   map[finance.CompanyID]map[finance.CategoryID]finance.Category
	stores       map[finance.CompanyID]map[finance.StoreID]finance.Store
}

func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[finance.CompanyID]map[finance.TransactionID]finance.Transaction),
		categories:   make(map[finance.CompanyID]map[finance.CategoryID]finance.Category),
		stores:       make(map[finance.CompanyID]map[finance.StoreID]finance.Store),
	}
}

// Compile-time checks
var (
	_ finance.TransactionRepository = (*Memory)(nil)
	_ finance.CategoryRepository    = (*Memory)(nil)
	_ finance.StoreRepository       = (*Memory)(nil)
)

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) SaveTransaction(ctx context.Context, t finance.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transactions[t.CompanyID] == nil {
		m.transactions[t.CompanyID] = make(map[finance.TransactionID]finance.Transaction)
	}
	m.transactions[t.CompanyID][t.ID] = t
	return nil
}

func (m *Memory) GetTransaction(ctx context.Context, companyID finance.CompanyID, id finance.TransactionID) (*finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transactions[companyID][id]
	if !ok {
		return nil, finance.ErrTransactionNotFound
	}
	return &t, nil
}

func (m *Memory) ListTransactions(ctx context.Context, companyID finance.CompanyID) ([]finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := make([]finance.Transaction, 0, len(m.transactions[companyID]))
	for _, t := range m.transactions[companyID] {
		txs = append(txs, t)
	}
	return txs, nil
}

func (m *Memory) UpdateTransaction(ctx context.Context, t finance.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[t.CompanyID][t.ID]; !ok {
		return finance.ErrTransactionNotFound
	}
	m.transactions[t.CompanyID][t.ID] = t
	return nil
}

func (m *Memory) DeleteTransaction(ctx context.Context, companyID finance.CompanyID, id finance.TransactionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[companyID][id]; !ok {
		return finance.ErrTransactionNotFound
	}
	delete(m.transactions[companyID], id)
	return nil
}

func (m *Memory) Reclassify(ctx context.Context, companyID finance.CompanyID, txType finance.TransactionType, oldName, newName string, cls finance.Classification) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for id, t := range m.transactions[companyID] {
		if t.Type != txType || t.Category != oldName {
			continue
		}
		t.Category = newName
		cls.ApplyTo(&t)
		m.transactions[companyID][id] = t
		count++
	}
	return count, nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (m *Memory) SaveCategory(ctx context.Context, c finance.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categories[c.CompanyID] == nil {
		m.categories[c.CompanyID] = make(map[finance.CategoryID]finance.Category)
	}
	m.categories[c.CompanyID][c.ID] = c
	return nil
}

func (m *Memory) GetCategory(ctx context.Context, companyID finance.CompanyID, id finance.CategoryID) (*finance.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[companyID][id]
	if !ok {
		return nil, finance.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *Memory) GetCategoryByName(ctx context.Context, companyID finance.CompanyID, txType finance.TransactionType, name string) (*finance.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories[companyID] {
		if c.Type == txType && c.Name == name {
			return &c, nil
		}
	}
	return nil, finance.ErrCategoryNotFound
}

func (m *Memory) ListCategories(ctx context.Context, companyID finance.CompanyID) ([]finance.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cats := make([]finance.Category, 0, len(m.categories[companyID]))
	for _, c := range m.categories[companyID] {
		cats = append(cats, c)
	}
	return cats, nil
}

func (m *Memory) DeleteCategory(ctx context.Context, companyID finance.CompanyID, id finance.CategoryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[companyID][id]; !ok {
		return finance.ErrCategoryNotFound
	}
	delete(m.categories[companyID], id)
	return nil
}

// =============================================================================
// STORES
// =============================================================================

func (m *Memory) SaveStore(ctx context.Context, s finance.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stores[s.CompanyID] == nil {
		m.stores[s.CompanyID] = make(map[finance.StoreID]finance.Store)
	}
	m.stores[s.CompanyID][s.ID] = s
	return nil
}

func (m *Memory) GetStore(ctx context.Context, companyID finance.CompanyID, id finance.StoreID) (*finance.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stores[companyID][id]
	if !ok {
		return nil, finance.ErrStoreNotFound
	}
	return &s, nil
}

func (m *Memory) ListStores(ctx context.Context, companyID finance.CompanyID) ([]finance.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stores := make([]finance.Store, 0, len(m.stores[companyID]))
	for _, s := range m.stores[companyID] {
		stores = append(stores, s)
	}
	return stores, nil
}

func (m *Memory) DeleteStore(ctx context.Context, companyID finance.CompanyID, id finance.StoreID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[companyID][id]; !ok {
		return finance.ErrStoreNotFound
	}
	delete(m.stores[companyID], id)
	return nil
}
