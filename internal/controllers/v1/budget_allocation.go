package v1

import (
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterBudgetAllocationRoutes registers the routes for allocations
// with the RouterGroup that is passed.
func RegisterBudgetAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetAllocationList)
		r.GET("", GetBudgetAllocations)
	}

	// BudgetAllocation with ID
	{
		r.OPTIONS("/:id", OptionsBudgetAllocationDetail)
		r.GET("/:id", GetBudgetAllocation)
		r.PATCH("/:id", UpdateBudgetAllocation)
		r.DELETE("/:id", DeleteBudgetAllocation)
	}
}

// OptionsBudgetAllocationList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Allocations
//	@Success		204
//	@Router			/v1/allocations [options]
func OptionsBudgetAllocationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsBudgetAllocationDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Allocations
//	@Success		204
//	@Failure		400	{object}	BudgetAllocationResponse
//	@Failure		404	{object}	BudgetAllocationResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/allocations/{id} [options]
func OptionsBudgetAllocationDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationResponse{Error: &e})
		return
	}

	var allocation models.BudgetAllocation
	err := models.DB.First(&allocation, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// GetBudgetAllocations returns a list of allocations matching the search parameters
//
//	@Summary		Get allocations
//	@Description	Returns a list of allocations
//	@Tags			Allocations
//	@Produce		json
//	@Success		200	{object}	BudgetAllocationListResponse
//	@Failure		400	{object}	BudgetAllocationListResponse
//	@Failure		500	{object}	BudgetAllocationListResponse
//	@Router			/v1/allocations [get]
//	@Param			income		query	string	false	"Filter by income event ID"
//	@Param			category	query	string	false	"Filter by category ID"
//	@Param			offset		query	uint	false	"The offset of the first allocation returned. Defaults to 0."
//	@Param			limit		query	int		false	"Maximum number of allocations to return. Defaults to 50."
func GetBudgetAllocations(c *gin.Context) {
	var filter BudgetAllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationListResponse{Error: &e})
		return
	}

	q := models.DB.Order("created_at ASC, id ASC")

	if filter.IncomeEvent != ff_uuid.Nil {
		q = q.Where("income_event_id = ?", filter.IncomeEvent.UUID)
	}

	if filter.Category != ff_uuid.Nil {
		q = q.Where("budget_category_id = ?", filter.Category.UUID)
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q = q.Offset(int(filter.Offset))

	// Default to 50 allocations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var allocations []models.BudgetAllocation
	err := q.Find(&allocations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationListResponse{Error: &e})
		return
	}

	data := make([]BudgetAllocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newBudgetAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, BudgetAllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetBudgetAllocation returns a specific allocation
//
//	@Summary		Get allocation
//	@Description	Returns a specific allocation
//	@Tags			Allocations
//	@Produce		json
//	@Success		200	{object}	BudgetAllocationResponse
//	@Failure		400	{object}	BudgetAllocationResponse
//	@Failure		404	{object}	BudgetAllocationResponse
//	@Failure		500	{object}	BudgetAllocationResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/allocations/{id} [get]
func GetBudgetAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationResponse{Error: &e})
		return
	}

	var allocation models.BudgetAllocation
	err := models.DB.First(&allocation, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	data := newBudgetAllocation(c, allocation)
	c.JSON(http.StatusOK, BudgetAllocationResponse{Data: &data})
}

// UpdateBudgetAllocation updates an allocation
//
//	@Summary		Update allocation
//	@Description	Updates an allocation. Exactly one of amount and percentage must be set, the other is recomputed.
//	@Tags			Allocations
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	BudgetAllocationResponse
//	@Failure		400			{object}	BudgetAllocationResponse
//	@Failure		404			{object}	BudgetAllocationResponse
//	@Failure		500			{object}	BudgetAllocationResponse
//	@Param			id			path		URIID					true	"ID formatted as string"
//	@Param			allocation	body		BudgetAllocationUpdate	true	"Allocation"
//	@Router			/v1/allocations/{id} [patch]
func UpdateBudgetAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationResponse{Error: &e})
		return
	}

	var update BudgetAllocationUpdate
	err := httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	allocation, err := reconcile.UpdateAllocation(models.DB, uri.ID.UUID, reconcile.AllocationUpdate{
		Amount:     update.Amount,
		Percentage: update.Percentage,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	data := newBudgetAllocation(c, allocation)
	c.JSON(http.StatusOK, BudgetAllocationResponse{Data: &data})
}

// DeleteBudgetAllocation deletes an allocation
//
//	@Summary		Delete allocation
//	@Description	Deletes an allocation
//	@Tags			Allocations
//	@Success		204
//	@Failure		400	{object}	BudgetAllocationResponse
//	@Failure		404	{object}	BudgetAllocationResponse
//	@Failure		500	{object}	BudgetAllocationResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/allocations/{id} [delete]
func DeleteBudgetAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationResponse{Error: &e})
		return
	}

	var allocation models.BudgetAllocation
	err := models.DB.First(&allocation, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	err = models.DB.Delete(&allocation).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
