package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testCompany = finance.CompanyID("co-1")

func newTestDB(t *testing.T) *sqlite.DB {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTx(id, category string) finance.Transaction {
	nature := finance.NatureOperating
	return finance.Transaction{
		ID:                  finance.TransactionID(id),
		CompanyID:           testCompany,
		StoreID:             "s1",
		Type:                finance.TypeExpense,
		Category:            category,
		Amount:              finance.MustParseMoney("123.45"),
		Date:                finance.NewDate(2025, time.February, 10),
		Description:         "february bill",
		Activity:            finance.ActivityOperating,
		Nature:              &nature,
		IncludeInProfitLoss: true,
	}
}

// =============================================================================
// TRANSACTION TESTS
// =============================================================================

func TestDB_Transaction_SaveAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	want := sampleTx("t1", "utilities")
	require.NoError(t, db.SaveTransaction(ctx, want))

	got, err := db.GetTransaction(ctx, testCompany, "t1")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, got.Amount.Equal(want.Amount), "amount must survive the TEXT round trip exactly")
	assert.True(t, got.Date.Equal(want.Date))
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Activity, got.Activity)
	require.NotNil(t, got.Nature)
	assert.Equal(t, finance.NatureOperating, *got.Nature)
	assert.True(t, got.IncludeInProfitLoss)
}

func TestDB_Transaction_NilNature_RoundTrips(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tx := sampleTx("t1", "loan repayment")
	tx.Nature = nil
	tx.IncludeInProfitLoss = false
	require.NoError(t, db.SaveTransaction(ctx, tx))

	got, err := db.GetTransaction(ctx, testCompany, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.Nature)
	assert.False(t, got.IncludeInProfitLoss)
}

func TestDB_Transaction_GetMissing_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetTransaction(context.Background(), testCompany, "ghost")
	assert.ErrorIs(t, err, finance.ErrTransactionNotFound)
}

func TestDB_Transaction_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tx := sampleTx("t1", "utilities")
	require.NoError(t, db.SaveTransaction(ctx, tx))

	tx.Amount = finance.MustParseMoney("200")
	require.NoError(t, db.UpdateTransaction(ctx, tx))

	got, err := db.GetTransaction(ctx, testCompany, "t1")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(finance.MustParseMoney("200")))

	require.NoError(t, db.DeleteTransaction(ctx, testCompany, "t1"))
	_, err = db.GetTransaction(ctx, testCompany, "t1")
	assert.ErrorIs(t, err, finance.ErrTransactionNotFound)

	assert.ErrorIs(t, db.DeleteTransaction(ctx, testCompany, "t1"), finance.ErrTransactionNotFound)
}

func TestDB_Transaction_CompanyIsolation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTransaction(ctx, sampleTx("t1", "utilities")))

	_, err := db.GetTransaction(ctx, "other-co", "t1")
	assert.ErrorIs(t, err, finance.ErrTransactionNotFound)

	txs, err := db.ListTransactions(ctx, "other-co")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDB_Reclassify_RewritesNameAndClassification(t *testing.T) {
	// GIVEN: Two utilities expenses and one rent expense
	// WHEN: Reclassifying utilities -> "water & power" with a new triple
	// THEN: Exactly the two utilities rows change, atomically

	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTransaction(ctx, sampleTx("t1", "utilities")))
	require.NoError(t, db.SaveTransaction(ctx, sampleTx("t2", "utilities")))
	require.NoError(t, db.SaveTransaction(ctx, sampleTx("t3", "rent")))

	nature := finance.NatureNonOperating
	cls := finance.Classification{
		Activity:            finance.ActivityInvesting,
		Nature:              &nature,
		IncludeInProfitLoss: false,
	}

	n, err := db.Reclassify(ctx, testCompany, finance.TypeExpense, "utilities", "water & power", cls)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := db.GetTransaction(ctx, testCompany, "t1")
	require.NoError(t, err)
	assert.Equal(t, "water & power", got.Category)
	assert.Equal(t, finance.ActivityInvesting, got.Activity)
	require.NotNil(t, got.Nature)
	assert.Equal(t, finance.NatureNonOperating, *got.Nature)
	assert.False(t, got.IncludeInProfitLoss)

	rent, err := db.GetTransaction(ctx, testCompany, "t3")
	require.NoError(t, err)
	assert.Equal(t, "rent", rent.Category)
}

// =============================================================================
// CATEGORY TESTS
// =============================================================================

func TestDB_Category_SaveGetByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	nature := finance.NatureOperating
	cat := finance.Category{
		ID: "c1", CompanyID: testCompany,
		Type: finance.TypeExpense, Name: "utilities",
		Activity: finance.ActivityOperating, Nature: &nature,
		IncludeInProfitLoss: true, IsSystem: true,
	}
	require.NoError(t, db.SaveCategory(ctx, cat))

	got, err := db.GetCategoryByName(ctx, testCompany, finance.TypeExpense, "utilities")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
	assert.True(t, got.IsSystem)

	_, err = db.GetCategoryByName(ctx, testCompany, finance.TypeIncome, "utilities")
	assert.ErrorIs(t, err, finance.ErrCategoryNotFound, "lookup is per (type, name)")
}

func TestDB_Category_ListAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	nature := finance.NatureOperating
	for _, name := range []string{"rent", "utilities"} {
		require.NoError(t, db.SaveCategory(ctx, finance.Category{
			ID: finance.CategoryID("c-" + name), CompanyID: testCompany,
			Type: finance.TypeExpense, Name: name,
			Activity: finance.ActivityOperating, Nature: &nature,
			IncludeInProfitLoss: true,
		}))
	}

	cats, err := db.ListCategories(ctx, testCompany)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "rent", cats[0].Name, "list is ordered by type then name")

	require.NoError(t, db.DeleteCategory(ctx, testCompany, "c-rent"))
	assert.ErrorIs(t, db.DeleteCategory(ctx, testCompany, "c-rent"), finance.ErrCategoryNotFound)
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestDB_Store_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	opened := finance.NewDate(2025, time.February, 10)
	store := finance.Store{
		ID: "s1", CompanyID: testCompany, Name: "Harbor",
		Status:             finance.StoreActive,
		InitialBalanceDate: &opened,
		InitialBalance:     finance.MustParseMoney("500.00"),
	}
	require.NoError(t, db.SaveStore(ctx, store))

	got, err := db.GetStore(ctx, testCompany, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor", got.Name)
	require.NotNil(t, got.InitialBalanceDate)
	assert.True(t, got.InitialBalanceDate.Equal(opened))
	assert.True(t, got.InitialBalance.Equal(finance.MustParseMoney("500")))
}

func TestDB_Store_NilInitialBalanceDate_RoundTrips(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	store := finance.Store{
		ID: "s1", CompanyID: testCompany, Name: "Preparing",
		Status:         finance.StorePreparing,
		InitialBalance: finance.MustParseMoney("0"),
	}
	require.NoError(t, db.SaveStore(ctx, store))

	got, err := db.GetStore(ctx, testCompany, "s1")
	require.NoError(t, err)
	assert.Nil(t, got.InitialBalanceDate)
}

func TestDB_Store_GetMissing_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetStore(context.Background(), testCompany, "ghost")
	assert.ErrorIs(t, err, finance.ErrStoreNotFound)
}
