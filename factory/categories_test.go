package factory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/statement-engine/factory"
	"github.com/warp/statement-engine/finance"
	"github.com/warp/statement-engine/finance/store"
)

const testCompany = finance.CompanyID("co-1")

func TestParseCategories_FromJSON(t *testing.T) {
	data := []byte(`[
		{"type": "expense", "name": "utilities", "cash_flow_activity": "operating", "transaction_nature": "operating"},
		{"type": "income", "name": "loan proceeds", "cash_flow_activity": "financing", "include_in_profit_loss": false}
	]`)

	cats, err := factory.ParseCategories(data, testCompany, true)
	require.NoError(t, err)
	require.Len(t, cats, 2)

	utilities := cats[0]
	assert.Equal(t, finance.TypeExpense, utilities.Type)
	assert.Equal(t, finance.ActivityOperating, utilities.Activity)
	require.NotNil(t, utilities.Nature)
	assert.Equal(t, finance.NatureOperating, *utilities.Nature)
	assert.True(t, utilities.IncludeInProfitLoss, "include defaults to true")
	assert.True(t, utilities.IsSystem)
	assert.NotEmpty(t, utilities.ID)

	loan := cats[1]
	assert.Nil(t, loan.Nature)
	assert.False(t, loan.IncludeInProfitLoss)
}

func TestParseCategories_InvalidDefinition_Rejected(t *testing.T) {
	data := []byte(`[{"type": "expense", "name": "", "cash_flow_activity": "operating"}]`)

	_, err := factory.ParseCategories(data, testCompany, false)
	assert.ErrorIs(t, err, finance.ErrValidation)
}

func TestSeedSystemCategories_Idempotent(t *testing.T) {
	// GIVEN: An empty registry
	// WHEN: Seeding twice
	// THEN: The first run creates the full chart, the second creates nothing

	mem := store.NewMemory()
	registry := finance.NewRegistry(mem, mem)
	ctx := context.Background()

	first, err := factory.SeedSystemCategories(ctx, registry, testCompany)
	require.NoError(t, err)
	assert.Equal(t, 16, first)

	second, err := factory.SeedSystemCategories(ctx, registry, testCompany)
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	cats, err := mem.ListCategories(ctx, testCompany)
	require.NoError(t, err)
	assert.Len(t, cats, 16)
}

func TestSeedSystemCategories_ScopedPerCompany(t *testing.T) {
	mem := store.NewMemory()
	registry := finance.NewRegistry(mem, mem)
	ctx := context.Background()

	_, err := factory.SeedSystemCategories(ctx, registry, "co-a")
	require.NoError(t, err)

	cats, err := mem.ListCategories(ctx, "co-b")
	require.NoError(t, err)
	assert.Empty(t, cats, "seeding one company must not leak into another")
}
