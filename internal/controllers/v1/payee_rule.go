package v1

import (
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterPayeeRuleRoutes registers the routes for payee rules with the
// RouterGroup that is passed.
func RegisterPayeeRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPayeeRuleList)
		r.GET("", GetPayeeRules)
		r.POST("", CreatePayeeRule)
	}

	// PayeeRule with ID
	{
		r.OPTIONS("/:id", OptionsPayeeRuleDetail)
		r.GET("/:id", GetPayeeRule)
		r.PATCH("/:id", UpdatePayeeRule)
		r.DELETE("/:id", DeletePayeeRule)
	}
}

// OptionsPayeeRuleList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			PayeeRules
//	@Success		204
//	@Router			/v1/payee-rules [options]
func OptionsPayeeRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsPayeeRuleDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			PayeeRules
//	@Success		204
//	@Failure		400	{object}	PayeeRuleResponse
//	@Failure		404	{object}	PayeeRuleResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payee-rules/{id} [options]
func OptionsPayeeRuleDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayeeRuleResponse{Error: &e})
		return
	}

	var rule models.PayeeRule
	err := models.DB.First(&rule, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreatePayeeRule creates a new payee rule
//
//	@Summary		Create payee rule
//	@Description	Creates a new payee rule
//	@Tags			PayeeRules
//	@Produce		json
//	@Success		201			{object}	PayeeRuleResponse
//	@Failure		400			{object}	PayeeRuleResponse
//	@Failure		500			{object}	PayeeRuleResponse
//	@Param			payeeRule	body		PayeeRuleEditable	true	"PayeeRule"
//	@Router			/v1/payee-rules [post]
func CreatePayeeRule(c *gin.Context) {
	var editable PayeeRuleEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	rule := editable.model()
	err = models.DB.Create(&rule).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	data := newPayeeRule(c, rule)
	c.JSON(http.StatusCreated, PayeeRuleResponse{Data: &data})
}

// GetPayeeRules returns a list of payee rules matching the search parameters
//
//	@Summary		Get payee rules
//	@Description	Returns a list of payee rules in priority order
//	@Tags			PayeeRules
//	@Produce		json
//	@Success		200	{object}	PayeeRuleListResponse
//	@Failure		400	{object}	PayeeRuleListResponse
//	@Failure		500	{object}	PayeeRuleListResponse
//	@Router			/v1/payee-rules [get]
//	@Param			payee	query	string	false	"Filter by payee. Fuzzy search."
//	@Param			offset	query	uint	false	"The offset of the first payee rule returned. Defaults to 0."
//	@Param			limit	query	int		false	"Maximum number of payee rules to return. Defaults to 50."
func GetPayeeRules(c *gin.Context) {
	var filter PayeeRuleQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, PayeeRuleListResponse{Error: &e})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("priority ASC, id ASC")

	if filter.Payee != "" {
		q = q.Where("payee LIKE ?", "%"+filter.Payee+"%")
	}

	q = q.Offset(int(filter.Offset))

	// Default to 50 payee rules and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var rules []models.PayeeRule
	err := q.Find(&rules).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleListResponse{Error: &e})
		return
	}

	data := make([]PayeeRule, 0, len(rules))
	for _, rule := range rules {
		data = append(data, newPayeeRule(c, rule))
	}

	c.JSON(http.StatusOK, PayeeRuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetPayeeRule returns a specific payee rule
//
//	@Summary		Get payee rule
//	@Description	Returns a specific payee rule
//	@Tags			PayeeRules
//	@Produce		json
//	@Success		200	{object}	PayeeRuleResponse
//	@Failure		400	{object}	PayeeRuleResponse
//	@Failure		404	{object}	PayeeRuleResponse
//	@Failure		500	{object}	PayeeRuleResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payee-rules/{id} [get]
func GetPayeeRule(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayeeRuleResponse{Error: &e})
		return
	}

	var rule models.PayeeRule
	err := models.DB.First(&rule, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	data := newPayeeRule(c, rule)
	c.JSON(http.StatusOK, PayeeRuleResponse{Data: &data})
}

// UpdatePayeeRule updates a payee rule
//
//	@Summary		Update payee rule
//	@Description	Updates an existing payee rule. Only values to be updated need to be specified.
//	@Tags			PayeeRules
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	PayeeRuleResponse
//	@Failure		400			{object}	PayeeRuleResponse
//	@Failure		404			{object}	PayeeRuleResponse
//	@Failure		500			{object}	PayeeRuleResponse
//	@Param			id			path		URIID				true	"ID formatted as string"
//	@Param			payeeRule	body		PayeeRuleEditable	true	"PayeeRule"
//	@Router			/v1/payee-rules/{id} [patch]
func UpdatePayeeRule(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayeeRuleResponse{Error: &e})
		return
	}

	var rule models.PayeeRule
	err := models.DB.First(&rule, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PayeeRuleEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	var editable PayeeRuleEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	data := newPayeeRule(c, rule)
	c.JSON(http.StatusOK, PayeeRuleResponse{Data: &data})
}

// DeletePayeeRule deletes a payee rule
//
//	@Summary		Delete payee rule
//	@Description	Deletes a payee rule
//	@Tags			PayeeRules
//	@Success		204
//	@Failure		400	{object}	PayeeRuleResponse
//	@Failure		404	{object}	PayeeRuleResponse
//	@Failure		500	{object}	PayeeRuleResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/payee-rules/{id} [delete]
func DeletePayeeRule(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayeeRuleResponse{Error: &e})
		return
	}

	var rule models.PayeeRule
	err := models.DB.First(&rule, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeRuleResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
