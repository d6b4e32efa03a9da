package reconcile

import (
	"github.com/famfin/backend/internal/currency"
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GenerateAllocations splits an income event across all active
// top-level categories according to their target percentages.
//
// Overrides replace the target percentage for single categories. After
// per-category rounding, the rounding drift against
// round2(amount × totalPercentage / 100) is absorbed by the allocation
// with the largest percentage, ties broken by sort order. For a
// category set totaling 100% the allocation amounts therefore sum to
// the income amount exactly.
func GenerateAllocations(db *gorm.DB, incomeEventID uuid.UUID, overrides map[uuid.UUID]decimal.Decimal) ([]models.BudgetAllocation, error) {
	var allocations []models.BudgetAllocation

	err := db.Transaction(func(tx *gorm.DB) error {
		var incomeEvent models.IncomeEvent
		err := tx.First(&incomeEvent, incomeEventID).Error
		if err != nil {
			return err
		}

		var existing int64
		err = tx.Model(&models.BudgetAllocation{}).
			Where(&models.BudgetAllocation{IncomeEventID: incomeEventID}).
			Count(&existing).Error
		if err != nil {
			return err
		}

		if existing > 0 {
			return ErrAlreadyAllocated
		}

		var categories []models.BudgetCategory
		err = tx.Where("NOT archived AND parent_id IS NULL").
			Order("sort_order asc").
			Find(&categories).Error
		if err != nil {
			return err
		}

		if len(categories) == 0 {
			return ErrNoCategories
		}

		income := currency.FromDecimal(incomeEvent.Amount)

		var sum currency.Cents
		totalPercentage := decimal.Zero
		largest := 0
		amounts := make([]currency.Cents, len(categories))
		percentages := make([]decimal.Decimal, len(categories))

		for i, category := range categories {
			percentage := category.TargetPercentage
			if override, ok := overrides[category.ID]; ok {
				percentage = override
			}

			amounts[i] = currency.Share(income, percentage)
			percentages[i] = percentage
			sum += amounts[i]
			totalPercentage = totalPercentage.Add(percentage)

			// Categories are ordered by sort order, so on ties the
			// first stays the largest
			if percentage.GreaterThan(percentages[largest]) {
				largest = i
			}
		}

		if totalPercentage.GreaterThan(percentageCeiling) {
			return ErrExceedsIncome
		}

		// Absorb the rounding drift
		amounts[largest] += currency.Share(income, totalPercentage) - sum

		for i, category := range categories {
			allocation := models.BudgetAllocation{
				IncomeEventID:    incomeEventID,
				BudgetCategoryID: category.ID,
				Amount:           amounts[i].Decimal(),
				Percentage:       percentages[i],
			}

			err = tx.Create(&allocation).Error
			if err != nil {
				return err
			}

			allocations = append(allocations, allocation)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// AllocationUpdate is a single-field update for an allocation. Exactly
// one of Amount and Percentage must be set, the other field is
// recomputed from the income event amount.
type AllocationUpdate struct {
	Amount     *decimal.Decimal
	Percentage *decimal.Decimal
}

// UpdateAllocation applies an AllocationUpdate. Fails with
// ErrExceedsIncome when the other allocations for the same income event
// plus the new amount exceed the income event amount.
func UpdateAllocation(db *gorm.DB, id uuid.UUID, update AllocationUpdate) (models.BudgetAllocation, error) {
	if (update.Amount == nil) == (update.Percentage == nil) {
		return models.BudgetAllocation{}, ErrInvalidUpdate
	}

	var allocation models.BudgetAllocation

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&allocation, id).Error
		if err != nil {
			return err
		}

		var incomeEvent models.IncomeEvent
		err = tx.First(&incomeEvent, allocation.IncomeEventID).Error
		if err != nil {
			return err
		}

		income := currency.FromDecimal(incomeEvent.Amount)

		var amount currency.Cents
		var percentage decimal.Decimal
		if update.Amount != nil {
			amount = currency.FromDecimal(*update.Amount)
			percentage = currency.PercentageOf(amount, income)
		} else {
			percentage = *update.Percentage
			amount = currency.Share(income, percentage)
		}

		others, err := allocatedToIncomeEvent(tx, allocation.IncomeEventID, allocation.ID)
		if err != nil {
			return err
		}

		if others+amount > income {
			return ErrExceedsIncome
		}

		allocation.Amount = amount.Decimal()
		allocation.Percentage = percentage

		return tx.Model(&allocation).
			Select("Amount", "Percentage").
			Updates(models.BudgetAllocation{Amount: allocation.Amount, Percentage: allocation.Percentage}).Error
	})
	if err != nil {
		return models.BudgetAllocation{}, err
	}

	return allocation, nil
}
