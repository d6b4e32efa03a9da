package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/famfin/backend/internal/httputil"
	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterBankTransactionRoutes registers the routes for transactions
// with the RouterGroup that is passed.
func RegisterBankTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBankTransactionList)
		r.GET("", GetBankTransactions)
		r.POST("", CreateBankTransactions)

		r.OPTIONS("/match", OptionsBankTransactionMatch)
		r.POST("/match", MatchBankTransactions)
	}

	// BankTransaction with ID
	{
		r.OPTIONS("/:id", OptionsBankTransactionDetail)
		r.GET("/:id", GetBankTransaction)
		r.PATCH("/:id", UpdateBankTransaction)
		r.DELETE("/:id", DeleteBankTransaction)
	}
}

// OptionsBankTransactionList returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Transactions
//	@Success		204
//	@Router			/v1/transactions [options]
func OptionsBankTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsBankTransactionMatch returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Transactions
//	@Success		204
//	@Router			/v1/transactions/match [options]
func OptionsBankTransactionMatch(c *gin.Context) {
	httputil.OptionsPost(c)
}

// OptionsBankTransactionDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Transactions
//	@Success		204
//	@Failure		400	{object}	BankTransactionResponse
//	@Failure		404	{object}	BankTransactionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [options]
func OptionsBankTransactionDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BankTransactionResponse{Error: &e})
		return
	}

	var transaction models.BankTransaction
	err := models.DB.First(&transaction, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateBankTransactions creates transactions from an import batch
//
//	@Summary		Create transactions
//	@Description	Creates imported transactions. Either all transactions in the batch are created or none.
//	@Tags			Transactions
//	@Produce		json
//	@Success		201				{object}	BankTransactionListResponse
//	@Failure		400				{object}	BankTransactionListResponse
//	@Failure		404				{object}	BankTransactionListResponse
//	@Failure		500				{object}	BankTransactionListResponse
//	@Param			transactions	body		[]BankTransactionEditable	true	"Transactions"
//	@Router			/v1/transactions [post]
func CreateBankTransactions(c *gin.Context) {
	var editables []BankTransactionEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionListResponse{Error: &e})
		return
	}

	if len(editables) == 0 {
		e := errNoTransactionsPost.Error()
		c.JSON(http.StatusBadRequest, BankTransactionListResponse{Error: &e})
		return
	}

	transactions := make([]models.BankTransaction, 0, len(editables))
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, editable := range editables {
			transaction := editable.model()
			err := tx.Create(&transaction).Error
			if err != nil {
				return err
			}

			transactions = append(transactions, transaction)
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionListResponse{Error: &e})
		return
	}

	data := make([]BankTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newBankTransaction(c, transaction))
	}

	c.JSON(http.StatusCreated, BankTransactionListResponse{Data: data})
}

// GetBankTransactions returns a list of transactions matching the search parameters
//
//	@Summary		Get transactions
//	@Description	Returns a list of transactions
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{object}	BankTransactionListResponse
//	@Failure		400	{object}	BankTransactionListResponse
//	@Failure		500	{object}	BankTransactionListResponse
//	@Router			/v1/transactions [get]
//	@Param			account		query	string	false	"Filter by bank account ID"
//	@Param			fromDate	query	string	false	"Transactions booked at or after this date"
//	@Param			untilDate	query	string	false	"Transactions booked before or at this date"
//	@Param			reconciled	query	bool	false	"Only reconciled or only unreconciled transactions"
//	@Param			offset		query	uint	false	"The offset of the first transaction returned. Defaults to 0."
//	@Param			limit		query	int		false	"Maximum number of transactions to return. Defaults to 50."
func GetBankTransactions(c *gin.Context) {
	var filter BankTransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, BankTransactionListResponse{Error: &e})
		return
	}

	q := models.DB.Order("date DESC, id ASC")

	if filter.Account != ff_uuid.Nil {
		q = q.Where("account_id = ?", filter.Account.UUID)
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("date >= date(?)", time.Date(filter.FromDate.Year(), filter.FromDate.Month(), filter.FromDate.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("date < date(?)", time.Date(filter.UntilDate.Year(), filter.UntilDate.Month(), filter.UntilDate.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	if filter.Reconciled != nil {
		if *filter.Reconciled {
			q = q.Where("payment_id IS NOT NULL")
		} else {
			q = q.Where("payment_id IS NULL")
		}
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q = q.Offset(int(filter.Offset))

	// Default to 50 transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.BankTransaction
	err := q.Find(&transactions).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionListResponse{Error: &e})
		return
	}

	data := make([]BankTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newBankTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, BankTransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetBankTransaction returns a specific transaction
//
//	@Summary		Get transaction
//	@Description	Returns a specific transaction
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{object}	BankTransactionResponse
//	@Failure		400	{object}	BankTransactionResponse
//	@Failure		404	{object}	BankTransactionResponse
//	@Failure		500	{object}	BankTransactionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [get]
func GetBankTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BankTransactionResponse{Error: &e})
		return
	}

	var transaction models.BankTransaction
	err := models.DB.First(&transaction, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	data := newBankTransaction(c, transaction)
	c.JSON(http.StatusOK, BankTransactionResponse{Data: &data})
}

// UpdateBankTransaction updates a transaction
//
//	@Summary		Update transaction
//	@Description	Updates an existing transaction. Setting the paymentId reconciles the transaction against that payment, setting it to null undoes the reconciliation.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	BankTransactionResponse
//	@Failure		400			{object}	BankTransactionResponse
//	@Failure		404			{object}	BankTransactionResponse
//	@Failure		500			{object}	BankTransactionResponse
//	@Param			id			path		URIID					true	"ID formatted as string"
//	@Param			transaction	body		BankTransactionEditable	true	"Transaction"
//	@Router			/v1/transactions/{id} [patch]
func UpdateBankTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BankTransactionResponse{Error: &e})
		return
	}

	var transaction models.BankTransaction
	err := models.DB.First(&transaction, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BankTransactionEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	var editable BankTransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	err = models.DB.Model(&transaction).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	data := newBankTransaction(c, transaction)
	c.JSON(http.StatusOK, BankTransactionResponse{Data: &data})
}

// DeleteBankTransaction deletes a transaction
//
//	@Summary		Delete transaction
//	@Description	Deletes a transaction
//	@Tags			Transactions
//	@Success		204
//	@Failure		400	{object}	BankTransactionResponse
//	@Failure		404	{object}	BankTransactionResponse
//	@Failure		500	{object}	BankTransactionResponse
//	@Param			id	path		URIID	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [delete]
func DeleteBankTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BankTransactionResponse{Error: &e})
		return
	}

	var transaction models.BankTransaction
	err := models.DB.First(&transaction, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	err = models.DB.Delete(&transaction).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankTransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// MatchBankTransactions suggests matches between transactions and payments
//
//	@Summary		Match transactions
//	@Description	Scores all unreconciled transactions against all pending payments and returns the likely pairs, best first. No matches are persisted.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	TransactionMatchListResponse
//	@Failure		400		{object}	TransactionMatchListResponse
//	@Failure		500		{object}	TransactionMatchListResponse
//	@Param			options	body		MatchRequest	false	"Matching options"
//	@Router			/v1/transactions/match [post]
func MatchBankTransactions(c *gin.Context) {
	var request MatchRequest
	err := httputil.BindData(c, &request)
	if err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		e := err.Error()
		c.JSON(status(err), TransactionMatchListResponse{Error: &e})
		return
	}

	matches, err := reconcile.MatchTransactions(models.DB, reconcile.MatchOptions{
		DateRangeStart: request.DateRangeStart,
		DateRangeEnd:   request.DateRangeEnd,
		AccountIDs:     request.AccountIDs,
		DateWindowDays: request.DateWindowDays,
		MinConfidence:  request.MinConfidence,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionMatchListResponse{Error: &e})
		return
	}

	data := make([]TransactionMatch, 0, len(matches))
	for _, match := range matches {
		data = append(data, newTransactionMatch(match))
	}

	c.JSON(http.StatusOK, TransactionMatchListResponse{Data: data})
}
