package controllers

import (
	"context"
	"net/http"

	"fabstore/models"
	"fabstore/repository"

	"github.com/gin-gonic/gin"
)

type TransactionLedger interface {
	List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error)
	Get(ctx context.Context, paymentID string) (*models.Transaction, error)
}

type TransactionController struct {
	transactions TransactionLedger
}

func NewTransactionController(transactions TransactionLedger) *TransactionController {
	return &TransactionController{transactions: transactions}
}

func (tc *TransactionController) GetTransactionsAdmin(c *gin.Context) {
	filter := repository.TransactionFilter{
		Status: c.Query("status"),
		UserID: c.Query("userId"),
	}
	txns, err := tc.transactions.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(txns), "data": txns})
}

func (tc *TransactionController) GetTransactionAdmin(c *gin.Context) {
	txn, err := tc.transactions.Get(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": txn})
}
