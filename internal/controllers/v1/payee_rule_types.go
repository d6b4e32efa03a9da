package v1

import (
	"fmt"

	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// PayeeRuleEditable represents all user configurable parameters
type PayeeRuleEditable struct {
	Priority uint   `json:"priority" example:"1" default:"0"`          // Rules are evaluated in priority order, lowest first
	Match    string `json:"match" example:"PG&E*" default:""`          // Glob pattern matched against merchant name and description
	Payee    string `json:"payee" example:"Pacific Gas & Electric" default:""` // Payee the rule pins matching transactions to
}

func (editable PayeeRuleEditable) model() models.PayeeRule {
	return models.PayeeRule{
		Priority: editable.Priority,
		Match:    editable.Match,
		Payee:    editable.Payee,
	}
}

type PayeeRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/payee-rules/95018a69-758b-4eb4-a03f-a0af96b0b7cd"` // The payee rule itself
}

type PayeeRule struct {
	models.DefaultModel
	PayeeRuleEditable
	Links PayeeRuleLinks `json:"links"`
}

func newPayeeRule(c *gin.Context, model models.PayeeRule) PayeeRule {
	url := c.GetString(string(models.ContextURL))

	return PayeeRule{
		DefaultModel: model.DefaultModel,
		PayeeRuleEditable: PayeeRuleEditable{
			Priority: model.Priority,
			Match:    model.Match,
			Payee:    model.Payee,
		},
		Links: PayeeRuleLinks{
			Self: fmt.Sprintf("%s/v1/payee-rules/%s", url, model.ID),
		},
	}
}

type PayeeRuleResponse struct {
	Data  *PayeeRule `json:"data"`                                                          // Data for the payee rule
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PayeeRuleListResponse struct {
	Data       []PayeeRule `json:"data"`                                                          // List of payee rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PayeeRuleQueryFilter struct {
	Payee  string `form:"payee" filterField:"false"`  // By payee, fuzzy matching
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first payee rule returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of payee rules to return. Defaults to 50.
}
