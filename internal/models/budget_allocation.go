package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetAllocation is the share of one income event assigned to one
// budget category. There is at most one allocation per income event
// and category.
type BudgetAllocation struct {
	DefaultModel
	IncomeEventID    uuid.UUID       `gorm:"uniqueIndex:allocation_income_category"`
	IncomeEvent      IncomeEvent     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetCategoryID uuid.UUID       `gorm:"uniqueIndex:allocation_income_category"`
	BudgetCategory   BudgetCategory  `json:"-"`
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Percentage       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

var (
	ErrAllocationExistsForCategory = errors.New("there already is an allocation for this income event and category")
	ErrAllocationAmountNegative    = errors.New("allocation amounts must not be negative")
)

func (a *BudgetAllocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetAllocation)
	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies that the income event and the category exist.
func (a *BudgetAllocation) checkIntegrity(tx *gorm.DB, toSave BudgetAllocation) error {
	err := tx.Session(&gorm.Session{NewDB: true}).First(&IncomeEvent{}, toSave.IncomeEventID).Error
	if err != nil {
		return err
	}

	return tx.Session(&gorm.Session{NewDB: true}).First(&BudgetCategory{}, toSave.BudgetCategoryID).Error
}

func (a *BudgetAllocation) BeforeSave(_ *gorm.DB) error {
	a.Amount = a.Amount.Round(2)
	a.Percentage = a.Percentage.Round(2)

	if a.Amount.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}
