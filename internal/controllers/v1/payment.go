package v1

import (
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterPaymentRoutes registers the routes for payments with the
// RouterGroup that is passed.
func RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentList)
		r.GET("", GetPayments)
		r.POST("", CreatePayment)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", OptionsPaymentDetail)
		r.GET("/:id", GetPayment)
		r.PATCH("/:id", UpdatePayment)
		r.DELETE("/:id", DeletePayment)

		r.OPTIONS("/:id/distribute", OptionsPaymentDistribute)
		r.POST("/:id/distribute", DistributePayment)
	}
}

// OptionsPaymentList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Payments
//	@Success		204
//	@Router			/v1/payments [options]
func OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsPaymentDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Payments
//	@Success		204
//	@Failure		400	{object}	PaymentResponse
//	@Failure		404	{object}	PaymentResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payments/{id} [options]
func OptionsPaymentDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentResponse{Error: &e})
		return
	}

	var payment models.Payment
	err := models.DB.First(&payment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// OptionsPaymentDistribute returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Payments
//	@Success		204
//	@Router			/v1/payments/{id}/distribute [options]
func OptionsPaymentDistribute(c *gin.Context) {
	httputil.OptionsPost(c)
}

// CreatePayment creates a new payment
//
//	@Summary		Create payment
//	@Description	Creates a new payment
//	@Tags			Payments
//	@Produce		json
//	@Success		201		{object}	PaymentResponse
//	@Failure		400		{object}	PaymentResponse
//	@Failure		500		{object}	PaymentResponse
//	@Param			payment	body		PaymentEditable	true	"Payment"
//	@Router			/v1/payments [post]
func CreatePayment(c *gin.Context) {
	var editable PaymentEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	payment := editable.model()
	err = models.DB.Create(&payment).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusCreated, PaymentResponse{Data: &data})
}

// GetPayments returns a list of payments matching the search parameters
//
//	@Summary		Get payments
//	@Description	Returns a list of payments
//	@Tags			Payments
//	@Produce		json
//	@Success		200	{object}	PaymentListResponse
//	@Failure		400	{object}	PaymentListResponse
//	@Failure		500	{object}	PaymentListResponse
//	@Router			/v1/payments [get]
//	@Param			payee	query	string	false	"Filter by payee. Fuzzy search."
//	@Param			status	query	string	false	"Filter by status"
//	@Param			offset	query	uint	false	"The offset of the first payment returned. Defaults to 0."
//	@Param			limit	query	int		false	"Maximum number of payments to return. Defaults to 50."
func GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, PaymentListResponse{Error: &e})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	q := models.DB.
		Order("due_date ASC, id ASC").
		Where(&model, queryFields...)

	if filter.Payee != "" {
		q = q.Where("payee LIKE ?", "%"+filter.Payee+"%")
	}

	q = q.Offset(int(filter.Offset))

	// Default to 50 payments and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var payments []models.Payment
	err := q.Find(&payments).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	data := make([]Payment, 0, len(payments))
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetPayment returns a specific payment
//
//	@Summary		Get payment
//	@Description	Returns a specific payment
//	@Tags			Payments
//	@Produce		json
//	@Success		200	{object}	PaymentResponse
//	@Failure		400	{object}	PaymentResponse
//	@Failure		404	{object}	PaymentResponse
//	@Failure		500	{object}	PaymentResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payments/{id} [get]
func GetPayment(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentResponse{Error: &e})
		return
	}

	var payment models.Payment
	err := models.DB.First(&payment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// UpdatePayment updates a payment
//
//	@Summary		Update payment
//	@Description	Updates an existing payment. Only values to be updated need to be specified.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	PaymentResponse
//	@Failure		400		{object}	PaymentResponse
//	@Failure		404		{object}	PaymentResponse
//	@Failure		500		{object}	PaymentResponse
//	@Param			id		path		URIID			true	"ID formatted as string"
//	@Param			payment	body		PaymentEditable	true	"Payment"
//	@Router			/v1/payments/{id} [patch]
func UpdatePayment(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentResponse{Error: &e})
		return
	}

	var payment models.Payment
	err := models.DB.First(&payment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PaymentEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	var editable PaymentEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	err = models.DB.Model(&payment).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// DeletePayment deletes a payment
//
//	@Summary		Delete payment
//	@Description	Deletes a payment. All its attributions are deleted with it.
//	@Tags			Payments
//	@Success		204
//	@Failure		400	{object}	PaymentResponse
//	@Failure		404	{object}	PaymentResponse
//	@Failure		500	{object}	PaymentResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payments/{id} [delete]
func DeletePayment(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentResponse{Error: &e})
		return
	}

	var payment models.Payment
	err := models.DB.First(&payment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	err = models.DB.Delete(&payment).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// DistributePayment covers a payment from the given income events
//
//	@Summary		Distribute payment
//	@Description	Covers the unattributed rest of the payment from the income events with the given IDs. All attributions succeed or none are created.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		201			{object}	PaymentAttributionListResponse
//	@Failure		400			{object}	PaymentAttributionListResponse
//	@Failure		404			{object}	PaymentAttributionListResponse
//	@Failure		500			{object}	PaymentAttributionListResponse
//	@Param			id			path		URIID				true	"ID formatted as string"
//	@Param			candidates	body		DistributeRequest	true	"Candidate income events"
//	@Router			/v1/payments/{id}/distribute [post]
func DistributePayment(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionListResponse{Error: &e})
		return
	}

	var request DistributeRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionListResponse{Error: &e})
		return
	}

	attributions, err := reconcile.Distribute(models.DB, uri.ID.UUID, request.IncomeEventIDs)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionListResponse{Error: &e})
		return
	}

	data := make([]PaymentAttribution, 0, len(attributions))
	for _, attribution := range attributions {
		data = append(data, newPaymentAttribution(c, attribution))
	}

	c.JSON(http.StatusCreated, PaymentAttributionListResponse{Data: data})
}
