package controllers

import (
	"net/http"

	"fabstore/models"

	"github.com/gin-gonic/gin"
)

func (oc *OrderController) GetOrdersAdmin(c *gin.Context) {
	orders, err := oc.orders.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(orders), "data": orders})
}

func (oc *OrderController) GetOrderByIDAdmin(c *gin.Context) {
	order, err := oc.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}

	order, err := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "data": order})
}

func (oc *OrderController) CancelOrderAdmin(c *gin.Context) {
	order, err := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), string(models.StatusCancelled))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "data": order})
}
