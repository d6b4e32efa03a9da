package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetCategory represents a percentage-based budget category.
// Deposits are split across the active categories according to their
// target percentages.
//
// Categories can be nested one level: a category with a ParentID is a
// spending sub-category of its parent and does not take part in
// allocation itself.
type BudgetCategory struct {
	DefaultModel
	Name             string          `gorm:"uniqueIndex"`
	ParentID         *uuid.UUID
	Parent           *BudgetCategory `json:"-"`
	TargetPercentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived         bool
	SortOrder        uint
}

var (
	ErrCategoryNameNotUnique        = errors.New("the category name must be unique")
	ErrCategoryPercentageOutOfRange = errors.New("the target percentage must be between 0 and 100")
)

func (c *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetCategory)
	return c.checkIntegrity(tx, *toSave)
}

func (c *BudgetCategory) BeforeUpdate(tx *gorm.DB) (err error) {
	if tx.Statement.Changed("ParentID") {
		toSave := tx.Statement.Dest.(BudgetCategory)
		err = c.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the parent category exists.
func (c *BudgetCategory) checkIntegrity(tx *gorm.DB, toSave BudgetCategory) error {
	if toSave.ParentID == nil || *toSave.ParentID == uuid.Nil {
		return nil
	}

	return tx.Session(&gorm.Session{NewDB: true}).First(&BudgetCategory{}, *toSave.ParentID).Error
}

func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.TargetPercentage = c.TargetPercentage.Round(2)

	if c.TargetPercentage.IsNegative() || c.TargetPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrCategoryPercentageOutOfRange
	}

	return nil
}
