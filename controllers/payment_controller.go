package controllers

import (
	"context"
	"net/http"

	"fabstore/services"

	"github.com/gin-gonic/gin"
)

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, req services.VerifyPaymentRequest) (*services.VerificationResult, error)
}

type PaymentController struct {
	payments PaymentVerifier
}

func NewPaymentController(payments PaymentVerifier) *PaymentController {
	return &PaymentController{payments: payments}
}

// VerifyPayment handles the checkout widget callback. The signature is the
// only proof of authenticity, so this route carries no session.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var body services.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}

	result, err := pc.payments.VerifyPayment(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
