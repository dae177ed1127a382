package controllers

import (
	"context"
	"net/http"

	"fabstore/middleware"
	"fabstore/models"
	"fabstore/promo"
	"fabstore/services"

	"github.com/gin-gonic/gin"
)

type Checkout interface {
	CreateOrder(ctx context.Context, userID string, req services.CreateOrderRequest) (*services.CheckoutResult, error)
}

type OrderManager interface {
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetUserOrder(ctx context.Context, userID, id string) (*models.Order, error)
	CancelUserOrder(ctx context.Context, userID, id string) (*models.Order, error)
}

type OrderController struct {
	checkout Checkout
	orders   OrderManager
	promos   *promo.Table
}

func NewOrderController(checkout Checkout, orders OrderManager, promos *promo.Table) *OrderController {
	return &OrderController{checkout: checkout, orders: orders, promos: promos}
}

// CreateOrder prices the cart against the live catalog and opens a gateway
// order for the client's checkout widget.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body services.CreateOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}

	result, err := oc.checkout.CreateOrder(c.Request.Context(), middleware.UserID(c), body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.orders.ListUserOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.orders.GetUserOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	order, err := oc.orders.CancelUserOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "data": order})
}

// GetPromoCodes serves the same table the server prices with.
func (oc *OrderController) GetPromoCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": oc.promos.Version, "codes": oc.promos.List()})
}
