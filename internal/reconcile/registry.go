package reconcile

import (
	"database/sql"

	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var percentageCeiling = decimal.NewFromInt(100)

// validTolerance is how far the total of a category set may be away
// from 100 and still be considered valid.
var validTolerance = decimal.NewFromFloat(0.01)

// AddCategory creates a new category. The sort order is appended at the
// end. Fails with ErrPercentageExceeded when the target percentages of
// all active top-level categories would exceed 100.
func AddCategory(db *gorm.DB, category models.BudgetCategory) (models.BudgetCategory, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		// Sub-categories group spending under their parent and do not
		// take part in allocation, so they are exempt from the ceiling.
		if category.ParentID == nil {
			total, err := activePercentageTotal(tx, uuid.Nil)
			if err != nil {
				return err
			}

			if total.Add(category.TargetPercentage).GreaterThan(percentageCeiling) {
				return ErrPercentageExceeded
			}
		}

		var maxOrder sql.NullInt64
		err := tx.Model(&models.BudgetCategory{}).
			Select("MAX(sort_order)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		category.SortOrder = 0
		if maxOrder.Valid {
			category.SortOrder = uint(maxOrder.Int64) + 1
		}

		return tx.Create(&category).Error
	})
	if err != nil {
		return models.BudgetCategory{}, err
	}

	return category, nil
}

// UpdateCategoryPercentage sets a new target percentage for a category.
// The ceiling check excludes the category being updated.
func UpdateCategoryPercentage(db *gorm.DB, id uuid.UUID, percentage decimal.Decimal) (models.BudgetCategory, error) {
	var category models.BudgetCategory

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, id).Error
		if err != nil {
			return err
		}

		if category.ParentID == nil && !category.Archived {
			total, err := activePercentageTotal(tx, id)
			if err != nil {
				return err
			}

			if total.Add(percentage).GreaterThan(percentageCeiling) {
				return ErrPercentageExceeded
			}
		}

		return tx.Model(&category).Select("TargetPercentage").Updates(models.BudgetCategory{TargetPercentage: percentage}).Error
	})
	if err != nil {
		return models.BudgetCategory{}, err
	}

	return category, nil
}

// DeactivateCategory archives a category. Fails with
// ErrCategoryReferenced while active sub-categories or non-zero
// allocations still reference it. Categories are never hard-deleted.
func DeactivateCategory(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var category models.BudgetCategory
		err := tx.First(&category, id).Error
		if err != nil {
			return err
		}

		var children int64
		err = tx.Model(&models.BudgetCategory{}).
			Where("parent_id = ? AND NOT archived", id).
			Count(&children).Error
		if err != nil {
			return err
		}

		var allocations int64
		err = tx.Model(&models.BudgetAllocation{}).
			Where("budget_category_id = ? AND amount != 0", id).
			Count(&allocations).Error
		if err != nil {
			return err
		}

		if children > 0 || allocations > 0 {
			return ErrCategoryReferenced
		}

		return tx.Model(&category).Select("Archived").Updates(models.BudgetCategory{Archived: true}).Error
	})
}

// activePercentageTotal sums the target percentages of all active
// top-level categories, excluding the category with the given ID if it
// is not uuid.Nil.
func activePercentageTotal(tx *gorm.DB, exclude uuid.UUID) (decimal.Decimal, error) {
	var categories []models.BudgetCategory
	err := tx.Where("NOT archived AND parent_id IS NULL").Find(&categories).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, c := range categories {
		if c.ID == exclude {
			continue
		}
		total = total.Add(c.TargetPercentage)
	}

	return total, nil
}

// CategoryPercentage is one category in a percentage validation request.
type CategoryPercentage struct {
	ID               uuid.UUID
	TargetPercentage decimal.Decimal
}

// PercentageSuggestion proposes a corrected percentage for one category.
type PercentageSuggestion struct {
	CategoryID uuid.UUID
	Current    decimal.Decimal
	Suggested  decimal.Decimal
}

// PercentageValidation is the result of ValidatePercentages.
type PercentageValidation struct {
	IsValid         bool
	TotalPercentage decimal.Decimal
	Difference      decimal.Decimal
	Suggestions     []PercentageSuggestion
}

// ValidatePercentages checks whether a set of category percentages adds
// up to 100 and proposes corrections if it does not.
//
// When the total exceeds 100 every category is scaled by 100/total.
// When it falls short the entire shortfall is added to the category
// with the largest percentage, ties broken by first occurrence.
func ValidatePercentages(categories []CategoryPercentage) PercentageValidation {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.TargetPercentage)
	}

	difference := percentageCeiling.Sub(total)

	result := PercentageValidation{
		IsValid:         difference.Abs().LessThan(validTolerance),
		TotalPercentage: total,
		Difference:      difference,
		Suggestions:     []PercentageSuggestion{},
	}

	if result.IsValid || len(categories) == 0 {
		return result
	}

	if total.GreaterThan(percentageCeiling) {
		// Proportional shrink
		for _, c := range categories {
			result.Suggestions = append(result.Suggestions, PercentageSuggestion{
				CategoryID: c.ID,
				Current:    c.TargetPercentage,
				Suggested:  c.TargetPercentage.Mul(percentageCeiling).Div(total).Round(2),
			})
		}

		return result
	}

	// Add the whole shortfall to the largest category
	largest := 0
	for i, c := range categories {
		if c.TargetPercentage.GreaterThan(categories[largest].TargetPercentage) {
			largest = i
		}
	}

	result.Suggestions = append(result.Suggestions, PercentageSuggestion{
		CategoryID: categories[largest].ID,
		Current:    categories[largest].TargetPercentage,
		Suggested:  categories[largest].TargetPercentage.Add(difference),
	})

	return result
}
