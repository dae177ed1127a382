package controllers

import (
	"context"
	"net/http"

	"fabstore/middleware"
	"fabstore/services"

	"github.com/gin-gonic/gin"
)

type CartManager interface {
	Get(ctx context.Context, userID string) (*services.CartView, error)
	Add(ctx context.Context, userID string, req services.AddToCartRequest) (*services.CartView, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*services.CartView, error)
	Remove(ctx context.Context, userID, productID string) (*services.CartView, error)
	Clear(ctx context.Context, userID string) (*services.CartView, error)
}

type CartController struct {
	carts CartManager
}

func NewCartController(carts CartManager) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) respond(c *gin.Context, message string, view *services.CartView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "data": view})
}

func (cc *CartController) GetCart(c *gin.Context) {
	view, err := cc.carts.Get(c.Request.Context(), middleware.UserID(c))
	cc.respond(c, "Fetch success", view, err)
}

func (cc *CartController) AddToCart(c *gin.Context) {
	var body services.AddToCartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}
	view, err := cc.carts.Add(c.Request.Context(), middleware.UserID(c), body)
	cc.respond(c, "Added to cart", view, err)
}

func (cc *CartController) UpdateCart(c *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}
	view, err := cc.carts.UpdateQuantity(c.Request.Context(), middleware.UserID(c), c.Param("productId"), *body.Quantity)
	cc.respond(c, "Cart updated", view, err)
}

func (cc *CartController) RemoveFromCart(c *gin.Context) {
	view, err := cc.carts.Remove(c.Request.Context(), middleware.UserID(c), c.Param("productId"))
	cc.respond(c, "Removed from cart", view, err)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	view, err := cc.carts.Clear(c.Request.Context(), middleware.UserID(c))
	cc.respond(c, "Cart cleared", view, err)
}
