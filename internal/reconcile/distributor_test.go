package reconcile_test

import (
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestDistributeFIFO() {
	t := suite.T()

	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(750)})
	older := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "January",
		Amount:        decimal.NewFromInt(500),
		ScheduledDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	newer := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "February",
		Amount:        decimal.NewFromInt(400),
		ScheduledDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	attributions, err := reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{newer.ID, older.ID})
	require.Nil(t, err)
	require.Len(t, attributions, 2)

	// The oldest income event is consumed first, the rest comes from
	// the next one
	byIncome := make(map[uuid.UUID]models.PaymentAttribution, len(attributions))
	for _, a := range attributions {
		byIncome[a.IncomeEventID] = a
	}

	assert.True(t, byIncome[older.ID].Amount.Equal(decimal.NewFromInt(500)), "amount is %s", byIncome[older.ID].Amount)
	assert.True(t, byIncome[newer.ID].Amount.Equal(decimal.NewFromInt(250)), "amount is %s", byIncome[newer.ID].Amount)
}

func (suite *TestSuiteStandard) TestDistributeIdempotent() {
	t := suite.T()

	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(100)})
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{Amount: decimal.NewFromInt(1000)})

	attributions, err := reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{incomeEvent.ID})
	require.Nil(t, err)
	require.Len(t, attributions, 1)

	// The payment is fully covered now, a second run changes nothing
	attributions, err = reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{incomeEvent.ID})
	require.Nil(t, err)
	assert.Empty(t, attributions)

	var count int64
	models.DB.Model(&models.PaymentAttribution{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *TestSuiteStandard) TestDistributeSkipsConsumed() {
	t := suite.T()

	blocker := suite.createTestPayment(models.Payment{Payee: "Blocker", Amount: decimal.NewFromInt(500)})
	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(300)})

	consumed := suite.createTestIncomeEvent(models.IncomeEvent{Name: "Consumed", Amount: decimal.NewFromInt(500)})
	fresh := suite.createTestIncomeEvent(models.IncomeEvent{Name: "Fresh", Amount: decimal.NewFromInt(1000)})

	_, err := reconcile.Attribute(models.DB, blocker.ID, consumed.ID, decimal.NewFromInt(500))
	require.Nil(t, err)

	attributions, err := reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{consumed.ID, fresh.ID})
	require.Nil(t, err)
	require.Len(t, attributions, 1)
	assert.Equal(t, fresh.ID, attributions[0].IncomeEventID)
	assert.True(t, attributions[0].Amount.Equal(decimal.NewFromInt(300)))
}

func (suite *TestSuiteStandard) TestDistributeProRata() {
	t := suite.T()

	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(900)})
	first := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "First",
		Amount:        decimal.NewFromInt(400),
		ScheduledDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	second := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "Second",
		Amount:        decimal.NewFromInt(200),
		ScheduledDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	// Combined capacity of 600 cannot cover 900, everything is consumed
	attributions, err := reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{first.ID, second.ID})
	require.Nil(t, err)
	require.Len(t, attributions, 2)

	byIncome := make(map[uuid.UUID]models.PaymentAttribution, len(attributions))
	for _, a := range attributions {
		byIncome[a.IncomeEventID] = a
	}

	assert.True(t, byIncome[first.ID].Amount.Equal(decimal.NewFromInt(400)), "amount is %s", byIncome[first.ID].Amount)
	assert.True(t, byIncome[second.ID].Amount.Equal(decimal.NewFromInt(200)), "amount is %s", byIncome[second.ID].Amount)

	summary, err := reconcile.ForPayment(models.DB, payment.ID)
	require.Nil(t, err)
	assert.True(t, summary.Remaining.Equal(decimal.NewFromInt(300)), "remaining is %s", summary.Remaining)
}

func (suite *TestSuiteStandard) TestDistributeAtomic() {
	t := suite.T()

	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(500)})
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{
		Amount:        decimal.NewFromInt(300),
		ScheduledDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	// One candidate does not exist, the whole distribution must roll back
	_, err := reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{incomeEvent.ID, uuid.New()})
	assert.ErrorIs(t, err, models.ErrResourceNotFound)

	var count int64
	models.DB.Model(&models.PaymentAttribution{}).Count(&count)
	assert.Equal(t, int64(0), count, "a failed distribution must not leave partial attributions")
}

func (suite *TestSuiteStandard) TestDistributeExistingLinkAborts() {
	t := suite.T()

	payment := suite.createTestPayment(models.Payment{Amount: decimal.NewFromInt(500)})
	linked := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "Linked",
		Amount:        decimal.NewFromInt(1000),
		ScheduledDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	other := suite.createTestIncomeEvent(models.IncomeEvent{
		Name:          "Other",
		Amount:        decimal.NewFromInt(1000),
		ScheduledDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	_, err := reconcile.Attribute(models.DB, payment.ID, linked.ID, decimal.NewFromInt(100))
	require.Nil(t, err)

	// The linked income event still has capacity, so FIFO would pick it
	// again. The existing link aborts the run without partial writes.
	_, err = reconcile.Distribute(models.DB, payment.ID, []uuid.UUID{linked.ID, other.ID})
	assert.ErrorIs(t, err, models.ErrAttributionExists)

	var count int64
	models.DB.Model(&models.PaymentAttribution{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
