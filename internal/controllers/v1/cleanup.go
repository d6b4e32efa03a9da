package v1

import (
	"net/http"

	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterCleanupRoutes registers the routes for cleanup with the
// RouterGroup that is passed.
func RegisterCleanupRoutes(r *gin.RouterGroup) {
	r.DELETE("", Cleanup)
}

// Cleanup deletes all resources
//
//	@Summary		Delete everything
//	@Description	Permanently deletes all resources
//	@Tags			v1
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			confirm	query	string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
//	@Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	if c.Query("confirm") != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{Error: errCleanupConfirmation.Error()})
		return
	}

	// The order is important as there are foreign key constraints
	resources := []any{
		models.PaymentAttribution{},
		models.BudgetAllocation{},
		models.BankTransaction{},
		models.PayeeRule{},
		models.Payment{},
		models.IncomeEvent{},
		models.BudgetCategory{},
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range resources {
			err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
