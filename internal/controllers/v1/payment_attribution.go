package v1

import (
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

// RegisterPaymentAttributionRoutes registers the routes for attributions
// with the RouterGroup that is passed.
func RegisterPaymentAttributionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentAttributionList)
		r.GET("", GetPaymentAttributions)
		r.POST("", CreatePaymentAttribution)
	}

	// PaymentAttribution with ID
	{
		r.OPTIONS("/:id", OptionsPaymentAttributionDetail)
		r.GET("/:id", GetPaymentAttribution)
		r.PATCH("/:id", UpdatePaymentAttribution)
		r.DELETE("/:id", DeletePaymentAttribution)
	}
}

// OptionsPaymentAttributionList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Attributions
//	@Success		204
//	@Router			/v1/attributions [options]
func OptionsPaymentAttributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsPaymentAttributionDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Attributions
//	@Success		204
//	@Failure		400	{object}	PaymentAttributionResponse
//	@Failure		404	{object}	PaymentAttributionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/attributions/{id} [options]
func OptionsPaymentAttributionDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionResponse{Error: &e})
		return
	}

	var attribution models.PaymentAttribution
	err := models.DB.First(&attribution, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreatePaymentAttribution attributes part of a payment to an income event
//
//	@Summary		Create attribution
//	@Description	Attributes part of a payment to the income event that funds it. The attribution must fit within both the payment and the income event.
//	@Tags			Attributions
//	@Produce		json
//	@Success		201			{object}	PaymentAttributionResponse
//	@Failure		400			{object}	PaymentAttributionResponse
//	@Failure		404			{object}	PaymentAttributionResponse
//	@Failure		500			{object}	PaymentAttributionResponse
//	@Param			attribution	body		PaymentAttributionEditable	true	"Attribution"
//	@Router			/v1/attributions [post]
func CreatePaymentAttribution(c *gin.Context) {
	var editable PaymentAttributionEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	attribution, err := reconcile.Attribute(models.DB, editable.PaymentID, editable.IncomeEventID, editable.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	data := newPaymentAttribution(c, attribution)
	c.JSON(http.StatusCreated, PaymentAttributionResponse{Data: &data})
}

// GetPaymentAttributions returns the ledger for a payment or an income event
//
//	@Summary		Get attributions
//	@Description	Returns all attributions for a payment or an income event together with the attributed total and the remaining amount. Exactly one of the payment and income parameters must be set.
//	@Tags			Attributions
//	@Produce		json
//	@Success		200	{object}	PaymentAttributionSummaryResponse
//	@Failure		400	{object}	PaymentAttributionSummaryResponse
//	@Failure		404	{object}	PaymentAttributionSummaryResponse
//	@Failure		500	{object}	PaymentAttributionSummaryResponse
//	@Router			/v1/attributions [get]
//	@Param			payment	query	string	false	"Summary for this payment ID"
//	@Param			income	query	string	false	"Summary for this income event ID"
func GetPaymentAttributions(c *gin.Context) {
	var filter PaymentAttributionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionSummaryResponse{Error: &e})
		return
	}

	if (filter.Payment == ff_uuid.Nil) == (filter.Income == ff_uuid.Nil) {
		e := errPaymentIDParameter.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionSummaryResponse{Error: &e})
		return
	}

	var summary reconcile.AttributionSummary
	var err error

	if filter.Payment != ff_uuid.Nil {
		summary, err = reconcile.ForPayment(models.DB, filter.Payment.UUID)
	} else {
		summary, err = reconcile.ForIncomeEvent(models.DB, filter.Income.UUID)
	}

	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionSummaryResponse{Error: &e})
		return
	}

	attributions := make([]PaymentAttribution, 0, len(summary.Attributions))
	for _, attribution := range summary.Attributions {
		attributions = append(attributions, newPaymentAttribution(c, attribution))
	}

	c.JSON(http.StatusOK, PaymentAttributionSummaryResponse{
		Data: &PaymentAttributionSummary{
			Attributions:    attributions,
			TotalAttributed: summary.TotalAttributed,
			Remaining:       summary.Remaining,
		},
	})
}

// GetPaymentAttribution returns a specific attribution
//
//	@Summary		Get attribution
//	@Description	Returns a specific attribution
//	@Tags			Attributions
//	@Produce		json
//	@Success		200	{object}	PaymentAttributionResponse
//	@Failure		400	{object}	PaymentAttributionResponse
//	@Failure		404	{object}	PaymentAttributionResponse
//	@Failure		500	{object}	PaymentAttributionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/attributions/{id} [get]
func GetPaymentAttribution(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionResponse{Error: &e})
		return
	}

	var attribution models.PaymentAttribution
	err := models.DB.First(&attribution, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	data := newPaymentAttribution(c, attribution)
	c.JSON(http.StatusOK, PaymentAttributionResponse{Data: &data})
}

// UpdatePaymentAttribution updates the amount of an attribution
//
//	@Summary		Update attribution
//	@Description	Updates the amount of an attribution. The new amount must still fit within the payment and the income event.
//	@Tags			Attributions
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	PaymentAttributionResponse
//	@Failure		400			{object}	PaymentAttributionResponse
//	@Failure		404			{object}	PaymentAttributionResponse
//	@Failure		500			{object}	PaymentAttributionResponse
//	@Param			id			path		URIID						true	"ID formatted as string"
//	@Param			attribution	body		PaymentAttributionUpdate	true	"Attribution"
//	@Router			/v1/attributions/{id} [patch]
func UpdatePaymentAttribution(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionResponse{Error: &e})
		return
	}

	var update PaymentAttributionUpdate
	err := httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	attribution, err := reconcile.UpdateAttribution(models.DB, uri.ID.UUID, update.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	data := newPaymentAttribution(c, attribution)
	c.JSON(http.StatusOK, PaymentAttributionResponse{Data: &data})
}

// DeletePaymentAttribution deletes an attribution
//
//	@Summary		Delete attribution
//	@Description	Deletes an attribution, freeing its amount on both the payment and the income event
//	@Tags			Attributions
//	@Success		204
//	@Failure		400	{object}	PaymentAttributionResponse
//	@Failure		404	{object}	PaymentAttributionResponse
//	@Failure		500	{object}	PaymentAttributionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/attributions/{id} [delete]
func DeletePaymentAttribution(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PaymentAttributionResponse{Error: &e})
		return
	}

	err := reconcile.RemoveAttribution(models.DB, uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentAttributionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
