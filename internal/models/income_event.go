package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statuses for an income event.
const (
	IncomeEventStatusScheduled = "scheduled"
	IncomeEventStatusReceived  = "received"
	IncomeEventStatusCancelled = "cancelled"
)

// IncomeEvent represents a single expected or received deposit,
// e.g. a paycheck.
type IncomeEvent struct {
	DefaultModel
	Name          string
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ScheduledDate time.Time
	Status        string
}

var (
	ErrIncomeEventAmountNotPositive = errors.New("income event amounts must be larger than zero")
	ErrIncomeEventStatusInvalid     = errors.New("the income event status must be one of scheduled, received, cancelled")
	ErrIncomeEventAmountLocked      = errors.New("the income event amount can no longer be changed since allocations or attributions exist for it")
)

// BeforeSave
//   - rounds the amount to two decimal places
//   - defaults the status and validates it
//   - sets the timezone for the scheduled date to UTC
//   - trims whitespace from string fields
func (i *IncomeEvent) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Amount = i.Amount.Round(2)

	if i.Status == "" {
		i.Status = IncomeEventStatusScheduled
	}

	switch i.Status {
	case IncomeEventStatusScheduled, IncomeEventStatusReceived, IncomeEventStatusCancelled:
	default:
		return ErrIncomeEventStatusInvalid
	}

	if i.ScheduledDate.IsZero() {
		i.ScheduledDate = time.Now().In(time.UTC)
	} else {
		i.ScheduledDate = i.ScheduledDate.In(time.UTC)
	}

	return nil
}

// BeforeUpdate locks the amount as soon as allocations or attributions
// reference the income event. Changing it would retroactively break
// their bound invariants.
func (i *IncomeEvent) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("Amount") {
		return nil
	}

	var allocations, attributions int64
	err := tx.Session(&gorm.Session{NewDB: true}).Model(&BudgetAllocation{}).
		Where(&BudgetAllocation{IncomeEventID: i.ID}).
		Count(&allocations).Error
	if err != nil {
		return err
	}

	err = tx.Session(&gorm.Session{NewDB: true}).Model(&PaymentAttribution{}).
		Where(&PaymentAttribution{IncomeEventID: i.ID}).
		Count(&attributions).Error
	if err != nil {
		return err
	}

	if allocations > 0 || attributions > 0 {
		return ErrIncomeEventAmountLocked
	}

	return nil
}

func (i *IncomeEvent) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(i.Amount) {
		return ErrIncomeEventAmountNotPositive
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (i *IncomeEvent) AfterFind(tx *gorm.DB) (err error) {
	err = i.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	i.ScheduledDate = i.ScheduledDate.In(time.UTC)
	return
}
