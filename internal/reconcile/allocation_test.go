package reconcile_test

import (
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestGenerateAllocations() {
	t := suite.T()

	essentials := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Essentials", TargetPercentage: decimal.NewFromInt(50), SortOrder: 0})
	fun := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Fun", TargetPercentage: decimal.NewFromInt(30), SortOrder: 1})
	savings := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Savings", TargetPercentage: decimal.NewFromInt(20), SortOrder: 2})

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{Amount: decimal.NewFromInt(1000)})

	allocations, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	require.Nil(t, err)
	require.Len(t, allocations, 3)

	byCategory := make(map[uuid.UUID]models.BudgetAllocation, len(allocations))
	for _, a := range allocations {
		byCategory[a.BudgetCategoryID] = a
	}

	assert.True(t, byCategory[essentials.ID].Amount.Equal(decimal.NewFromInt(500)), "amount is %s", byCategory[essentials.ID].Amount)
	assert.True(t, byCategory[fun.ID].Amount.Equal(decimal.NewFromInt(300)), "amount is %s", byCategory[fun.ID].Amount)
	assert.True(t, byCategory[savings.ID].Amount.Equal(decimal.NewFromInt(200)), "amount is %s", byCategory[savings.ID].Amount)
}

func (suite *TestSuiteStandard) TestGenerateAllocationsDrift() {
	t := suite.T()

	// Three equal categories of 33.33% plus one with 0.01% would each
	// round individually, the drift goes to the largest percentage
	first := suite.createTestBudgetCategory(models.BudgetCategory{Name: "A", TargetPercentage: decimal.RequireFromString("33.34"), SortOrder: 0})
	_ = suite.createTestBudgetCategory(models.BudgetCategory{Name: "B", TargetPercentage: decimal.RequireFromString("33.33"), SortOrder: 1})
	_ = suite.createTestBudgetCategory(models.BudgetCategory{Name: "C", TargetPercentage: decimal.RequireFromString("33.33"), SortOrder: 2})

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{Amount: decimal.RequireFromString("100.01")})

	allocations, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	require.Nil(t, err)
	require.Len(t, allocations, 3)

	// The percentages total 100, so the amounts must sum to the
	// income amount exactly
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	assert.True(t, sum.Equal(incomeEvent.Amount), "allocations sum to %s, income is %s", sum, incomeEvent.Amount)

	// The drift is absorbed by the category with the largest percentage
	for _, a := range allocations {
		if a.BudgetCategoryID != first.ID {
			assert.True(t, a.Amount.Equal(decimal.RequireFromString("33.33")), "amount is %s", a.Amount)
		}
	}
}

func (suite *TestSuiteStandard) TestGenerateAllocationsOverrides() {
	t := suite.T()

	essentials := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Essentials", TargetPercentage: decimal.NewFromInt(50), SortOrder: 0})
	fun := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Fun", TargetPercentage: decimal.NewFromInt(30), SortOrder: 1})

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{Amount: decimal.NewFromInt(1000)})

	allocations, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, map[uuid.UUID]decimal.Decimal{
		fun.ID: decimal.NewFromInt(10),
	})
	require.Nil(t, err)
	require.Len(t, allocations, 2)

	for _, a := range allocations {
		switch a.BudgetCategoryID {
		case essentials.ID:
			assert.True(t, a.Amount.Equal(decimal.NewFromInt(500)))
		case fun.ID:
			assert.True(t, a.Amount.Equal(decimal.NewFromInt(100)), "override was not applied, amount is %s", a.Amount)
			assert.True(t, a.Percentage.Equal(decimal.NewFromInt(10)))
		}
	}
}

func (suite *TestSuiteStandard) TestGenerateAllocationsErrors() {
	t := suite.T()

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})

	// No active categories at all
	_, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	assert.ErrorIs(t, err, reconcile.ErrNoCategories)

	// Archived and sub-categories do not count
	parent := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Archived", TargetPercentage: decimal.NewFromInt(50), Archived: true})
	_ = suite.createTestBudgetCategory(models.BudgetCategory{Name: "Child", ParentID: &parent.ID})
	_, err = reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	assert.ErrorIs(t, err, reconcile.ErrNoCategories)

	category := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Essentials", TargetPercentage: decimal.NewFromInt(60)})

	// Overrides may not push the total over 100
	_, err = reconcile.GenerateAllocations(models.DB, incomeEvent.ID, map[uuid.UUID]decimal.Decimal{
		category.ID: decimal.RequireFromString("100.01"),
	})
	assert.ErrorIs(t, err, reconcile.ErrExceedsIncome)

	// Unknown income event
	_, err = reconcile.GenerateAllocations(models.DB, uuid.New(), nil)
	assert.ErrorIs(t, err, models.ErrResourceNotFound)

	// Generating twice fails and leaves the first run untouched
	first, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	require.Nil(t, err)

	_, err = reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	assert.ErrorIs(t, err, reconcile.ErrAlreadyAllocated)

	var count int64
	models.DB.Model(&models.BudgetAllocation{}).Count(&count)
	assert.Equal(t, int64(len(first)), count)
}

func (suite *TestSuiteStandard) TestUpdateAllocation() {
	t := suite.T()

	essentials := suite.createTestBudgetCategory(models.BudgetCategory{Name: "Essentials", TargetPercentage: decimal.NewFromInt(50), SortOrder: 0})
	_ = suite.createTestBudgetCategory(models.BudgetCategory{Name: "Fun", TargetPercentage: decimal.NewFromInt(30), SortOrder: 1})

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{Amount: decimal.NewFromInt(1000)})

	allocations, err := reconcile.GenerateAllocations(models.DB, incomeEvent.ID, nil)
	require.Nil(t, err)

	var essentialsAllocation models.BudgetAllocation
	for _, a := range allocations {
		if a.BudgetCategoryID == essentials.ID {
			essentialsAllocation = a
		}
	}

	// Updating by amount recomputes the percentage
	amount := decimal.NewFromInt(600)
	updated, err := reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{Amount: &amount})
	require.Nil(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	assert.True(t, updated.Percentage.Equal(decimal.NewFromInt(60)), "percentage is %s", updated.Percentage)

	// Updating by percentage recomputes the amount
	percentage := decimal.NewFromInt(40)
	updated, err = reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{Percentage: &percentage})
	require.Nil(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(400)))

	// Exactly one of amount and percentage must be set
	_, err = reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{})
	assert.ErrorIs(t, err, reconcile.ErrInvalidUpdate)

	_, err = reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{Amount: &amount, Percentage: &percentage})
	assert.ErrorIs(t, err, reconcile.ErrInvalidUpdate)

	// The other allocation holds 300, so 701 overruns the income amount
	overrun := decimal.NewFromInt(701)
	_, err = reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{Amount: &overrun})
	assert.ErrorIs(t, err, reconcile.ErrExceedsIncome)

	// 700 exactly fills it
	limit := decimal.NewFromInt(700)
	_, err = reconcile.UpdateAllocation(models.DB, essentialsAllocation.ID, reconcile.AllocationUpdate{Amount: &limit})
	assert.Nil(t, err)
}
