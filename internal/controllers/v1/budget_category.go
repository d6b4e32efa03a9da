package v1

import (
	"fmt"
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterBudgetCategoryRoutes registers the routes for budget
// categories with the RouterGroup that is passed.
func RegisterBudgetCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetCategories)
		r.GET("", GetBudgetCategories)
		r.POST("", CreateBudgetCategory)
	}

	// Validation of percentage sets
	{
		r.OPTIONS("/validate", httputil.OptionsPost)
		r.POST("/validate", ValidatePercentages)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", OptionsBudgetCategoryDetail)
		r.GET("/:id", GetBudgetCategory)
		r.PATCH("/:id", UpdateBudgetCategory)
		r.DELETE("/:id", DeactivateBudgetCategory)
	}
}

// OptionsBudgetCategories returns the allowed HTTP verbs.
func OptionsBudgetCategories(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsBudgetCategoryDetail returns the allowed HTTP verbs.
func OptionsBudgetCategoryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.BudgetCategory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateBudgetCategory creates a new category. The registry rejects the
// category when the active percentages would exceed 100.
func CreateBudgetCategory(c *gin.Context) {
	var editable BudgetCategoryEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	category, err := reconcile.AddCategory(models.DB, editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	data := newBudgetCategory(c, category)
	c.JSON(http.StatusCreated, BudgetCategoryResponse{Data: &data})
}

// GetBudgetCategory returns a specific category.
func GetBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	var category models.BudgetCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	data := newBudgetCategory(c, category)
	c.JSON(http.StatusOK, BudgetCategoryResponse{Data: &data})
}

// GetBudgetCategories returns a list of categories.
func GetBudgetCategories(c *gin.Context) {
	var filter BudgetCategoryQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, BudgetCategoryListResponse{Error: &s})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	q := models.DB.Order("sort_order asc").Where(&model, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	if slices.Contains(setFields, "Parent") {
		q = q.Where("parent_id = ?", filter.Parent.UUID)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var categories []models.BudgetCategory
	err := q.Find(&categories).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryListResponse{Error: &e})
		return
	}

	data := make([]BudgetCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newBudgetCategory(c, category))
	}

	c.JSON(http.StatusOK, BudgetCategoryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// UpdateBudgetCategory updates an existing category. Only values to be
// updated need to be specified. A percentage change re-checks the 100%
// ceiling with the category itself excluded.
func UpdateBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	var category models.BudgetCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetCategoryEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	var update BudgetCategoryEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{Error: &e})
		return
	}

	// The ceiling check for the percentage lives in the registry
	if slices.Contains(updateFields, "TargetPercentage") {
		category, err = reconcile.UpdateCategoryPercentage(models.DB, category.ID, update.TargetPercentage)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), BudgetCategoryResponse{Error: &e})
			return
		}

		updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == "TargetPercentage" })
	}

	if len(updateFields) > 0 {
		err = models.DB.Model(&category).Select("", updateFields...).Updates(update.model()).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), BudgetCategoryResponse{Error: &e})
			return
		}
	}

	data := newBudgetCategory(c, category)
	c.JSON(http.StatusOK, BudgetCategoryResponse{Data: &data})
}

// DeactivateBudgetCategory archives a category. Categories are never
// hard-deleted while anything references them.
func DeactivateBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = reconcile.DeactivateCategory(models.DB, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ValidatePercentages checks a set of category percentages against the
// 100% target and returns suggested corrections.
func ValidatePercentages(c *gin.Context) {
	var request ValidatePercentagesRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ValidatePercentagesResponse{Error: &e})
		return
	}

	categories := make([]reconcile.CategoryPercentage, 0, len(request.Categories))
	for _, category := range request.Categories {
		categories = append(categories, reconcile.CategoryPercentage{
			ID:               category.ID,
			TargetPercentage: category.TargetPercentage,
		})
	}

	validation := reconcile.ValidatePercentages(categories)

	suggestions := make([]ValidatePercentagesSuggestion, 0, len(validation.Suggestions))
	for _, suggestion := range validation.Suggestions {
		suggestions = append(suggestions, ValidatePercentagesSuggestion{
			CategoryID: suggestion.CategoryID,
			Current:    suggestion.Current,
			Suggested:  suggestion.Suggested,
		})
	}

	data := ValidatePercentagesData{
		IsValid:         validation.IsValid,
		TotalPercentage: validation.TotalPercentage,
		Difference:      validation.Difference,
		Suggestions:     suggestions,
	}
	c.JSON(http.StatusOK, ValidatePercentagesResponse{Data: &data})
}
