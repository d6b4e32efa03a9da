package v1

import (
	"errors"
	"net/http"

	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for an error from the models
// or reconcile layer
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, reconcile.ErrCategoryReferenced) ||
		errors.Is(err, reconcile.ErrAlreadyAllocated) ||
		errors.Is(err, models.ErrAllocationExistsForCategory) ||
		errors.Is(err, models.ErrAttributionExists) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
	errPaymentIDParameter  = errors.New("the payment or income query parameter must be set")
	errNoTransactionsPost  = errors.New("you must send at least one transaction to this endpoint")
)
