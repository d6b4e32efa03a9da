package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterIncomeEventRoutes registers the routes for income events with
// the RouterGroup that is passed.
func RegisterIncomeEventRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsIncomeEventList)
		r.GET("", GetIncomeEvents)
		r.POST("", CreateIncomeEvent)
	}

	// IncomeEvent with ID
	{
		r.OPTIONS("/:id", OptionsIncomeEventDetail)
		r.GET("/:id", GetIncomeEvent)
		r.PATCH("/:id", UpdateIncomeEvent)
		r.DELETE("/:id", DeleteIncomeEvent)

		r.OPTIONS("/:id/allocations", OptionsIncomeEventAllocations)
		r.POST("/:id/allocations", GenerateAllocations)
	}
}

// OptionsIncomeEventList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			IncomeEvents
//	@Success		204
//	@Router			/v1/income-events [options]
func OptionsIncomeEventList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsIncomeEventDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			IncomeEvents
//	@Success		204
//	@Failure		400	{object}	IncomeEventResponse
//	@Failure		404	{object}	IncomeEventResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/income-events/{id} [options]
func OptionsIncomeEventDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeEventResponse{Error: &e})
		return
	}

	var incomeEvent models.IncomeEvent
	err := models.DB.First(&incomeEvent, uri.ID.UUID).Error
	if err != nil {
		s := status(err)
		e := err.Error()
		c.JSON(s, IncomeEventResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// OptionsIncomeEventAllocations returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			IncomeEvents
//	@Success		204
//	@Router			/v1/income-events/{id}/allocations [options]
func OptionsIncomeEventAllocations(c *gin.Context) {
	httputil.OptionsPost(c)
}

// CreateIncomeEvent creates a new income event
//
//	@Summary		Create income event
//	@Description	Creates a new income event
//	@Tags			IncomeEvents
//	@Produce		json
//	@Success		201			{object}	IncomeEventResponse
//	@Failure		400			{object}	IncomeEventResponse
//	@Failure		500			{object}	IncomeEventResponse
//	@Param			incomeEvent	body		IncomeEventEditable	true	"IncomeEvent"
//	@Router			/v1/income-events [post]
func CreateIncomeEvent(c *gin.Context) {
	var editable IncomeEventEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	incomeEvent := editable.model()
	err = models.DB.Create(&incomeEvent).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	data := newIncomeEvent(c, incomeEvent)
	c.JSON(http.StatusCreated, IncomeEventResponse{Data: &data})
}

// GetIncomeEvents returns a list of income events matching the search parameters
//
//	@Summary		Get income events
//	@Description	Returns a list of income events
//	@Tags			IncomeEvents
//	@Produce		json
//	@Success		200	{object}	IncomeEventListResponse
//	@Failure		400	{object}	IncomeEventListResponse
//	@Failure		500	{object}	IncomeEventListResponse
//	@Router			/v1/income-events [get]
//	@Param			status		query	string	false	"Filter by status"
//	@Param			fromDate	query	string	false	"Income events scheduled at or after this date"
//	@Param			untilDate	query	string	false	"Income events scheduled before or at this date"
//	@Param			offset		query	uint	false	"The offset of the first income event returned. Defaults to 0."
//	@Param			limit		query	int		false	"Maximum number of income events to return. Defaults to 50."
func GetIncomeEvents(c *gin.Context) {
	var filter IncomeEventQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, IncomeEventListResponse{Error: &e})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	q := models.DB.
		Order("scheduled_date ASC, id ASC").
		Where(&model, queryFields...)

	if !filter.FromDate.IsZero() {
		q = q.Where("scheduled_date >= date(?)", time.Date(filter.FromDate.Year(), filter.FromDate.Month(), filter.FromDate.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("scheduled_date < date(?)", time.Date(filter.UntilDate.Year(), filter.UntilDate.Month(), filter.UntilDate.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	q = q.Offset(int(filter.Offset))

	// Default to 50 income events and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var incomeEvents []models.IncomeEvent
	err := q.Find(&incomeEvents).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventListResponse{Error: &e})
		return
	}

	data := make([]IncomeEvent, 0, len(incomeEvents))
	for _, incomeEvent := range incomeEvents {
		data = append(data, newIncomeEvent(c, incomeEvent))
	}

	c.JSON(http.StatusOK, IncomeEventListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetIncomeEvent returns a specific income event
//
//	@Summary		Get income event
//	@Description	Returns a specific income event
//	@Tags			IncomeEvents
//	@Produce		json
//	@Success		200	{object}	IncomeEventResponse
//	@Failure		400	{object}	IncomeEventResponse
//	@Failure		404	{object}	IncomeEventResponse
//	@Failure		500	{object}	IncomeEventResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/income-events/{id} [get]
func GetIncomeEvent(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeEventResponse{Error: &e})
		return
	}

	var incomeEvent models.IncomeEvent
	err := models.DB.First(&incomeEvent, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	data := newIncomeEvent(c, incomeEvent)
	c.JSON(http.StatusOK, IncomeEventResponse{Data: &data})
}

// UpdateIncomeEvent updates an income event
//
//	@Summary		Update income event
//	@Description	Updates an existing income event. Only values to be updated need to be specified.
//	@Tags			IncomeEvents
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	IncomeEventResponse
//	@Failure		400			{object}	IncomeEventResponse
//	@Failure		404			{object}	IncomeEventResponse
//	@Failure		500			{object}	IncomeEventResponse
//	@Param			id			path		URIID				true	"ID formatted as string"
//	@Param			incomeEvent	body		IncomeEventEditable	true	"IncomeEvent"
//	@Router			/v1/income-events/{id} [patch]
func UpdateIncomeEvent(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeEventResponse{Error: &e})
		return
	}

	var incomeEvent models.IncomeEvent
	err := models.DB.First(&incomeEvent, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeEventEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	var editable IncomeEventEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	err = models.DB.Model(&incomeEvent).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	data := newIncomeEvent(c, incomeEvent)
	c.JSON(http.StatusOK, IncomeEventResponse{Data: &data})
}

// DeleteIncomeEvent deletes an income event
//
//	@Summary		Delete income event
//	@Description	Deletes an income event. All its allocations and attributions are deleted with it.
//	@Tags			IncomeEvents
//	@Success		204
//	@Failure		400	{object}	IncomeEventResponse
//	@Failure		404	{object}	IncomeEventResponse
//	@Failure		500	{object}	IncomeEventResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/income-events/{id} [delete]
func DeleteIncomeEvent(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeEventResponse{Error: &e})
		return
	}

	var incomeEvent models.IncomeEvent
	err := models.DB.First(&incomeEvent, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	err = models.DB.Delete(&incomeEvent).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GenerateAllocations creates allocations for all active categories
//
//	@Summary		Generate allocations
//	@Description	Creates one allocation per active top level category, splitting the income event amount by target percentage
//	@Tags			IncomeEvents
//	@Accept			json
//	@Produce		json
//	@Success		201			{object}	BudgetAllocationListResponse
//	@Failure		400			{object}	BudgetAllocationListResponse
//	@Failure		404			{object}	BudgetAllocationListResponse
//	@Failure		500			{object}	BudgetAllocationListResponse
//	@Param			id			path		URIID						true	"ID formatted as string"
//	@Param			overrides	body		GenerateAllocationsRequest	false	"Percentage overrides"
//	@Router			/v1/income-events/{id}/allocations [post]
func GenerateAllocations(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetAllocationListResponse{Error: &e})
		return
	}

	var request GenerateAllocationsRequest
	err := httputil.BindData(c, &request)
	if err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationListResponse{Error: &e})
		return
	}

	allocations, err := reconcile.GenerateAllocations(models.DB, uri.ID.UUID, request.Overrides)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetAllocationListResponse{Error: &e})
		return
	}

	data := make([]BudgetAllocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newBudgetAllocation(c, allocation))
	}

	c.JSON(http.StatusCreated, BudgetAllocationListResponse{Data: data})
}
