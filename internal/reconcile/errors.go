package reconcile

import "errors"

var (
	// Registry errors
	ErrPercentageExceeded = errors.New("the target percentages of all active categories must not exceed 100")
	ErrCategoryReferenced = errors.New("the category cannot be deactivated while active sub-categories or allocations reference it")

	// Allocation errors
	ErrAlreadyAllocated = errors.New("allocations already exist for this income event")
	ErrNoCategories     = errors.New("there are no active categories to allocate to")
	ErrInvalidUpdate    = errors.New("exactly one of amount and percentage must be set")

	// Ledger errors
	ErrExceedsPayment = errors.New("the amount would exceed the amount of the payment")
	ErrExceedsIncome  = errors.New("the amount would exceed the amount of the income event")

	// Matcher errors
	ErrInvalidDateRange = errors.New("the start of the date range must not be after its end")
)
