package v1

import (
	"fmt"
	"net/http"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRootRoutes registers the routes for the v1 root with the
// RouterGroup that is passed.
func RegisterRootRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsRoot)
	r.GET("", GetRoot)
}

type RootLinks struct {
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`     // URL of the category collection
	IncomeEvents string `json:"incomeEvents" example:"https://example.com/api/v1/income-events"` // URL of the income event collection
	Allocations  string `json:"allocations" example:"https://example.com/api/v1/allocations"`   // URL of the allocation collection
	Payments     string `json:"payments" example:"https://example.com/api/v1/payments"`         // URL of the payment collection
	Attributions string `json:"attributions" example:"https://example.com/api/v1/attributions"` // URL of the attribution collection
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"` // URL of the transaction collection
	PayeeRules   string `json:"payeeRules" example:"https://example.com/api/v1/payee-rules"`    // URL of the payee rule collection
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// GetRoot returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	RootResponse
//	@Router			/v1 [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.ContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Categories:   fmt.Sprintf("%s/v1/categories", url),
			IncomeEvents: fmt.Sprintf("%s/v1/income-events", url),
			Allocations:  fmt.Sprintf("%s/v1/allocations", url),
			Payments:     fmt.Sprintf("%s/v1/payments", url),
			Attributions: fmt.Sprintf("%s/v1/attributions", url),
			Transactions: fmt.Sprintf("%s/v1/transactions", url),
			PayeeRules:   fmt.Sprintf("%s/v1/payee-rules", url),
		},
	})
}
