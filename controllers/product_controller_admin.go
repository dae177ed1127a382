package controllers

import (
	"net/http"

	"fabstore/services"

	"github.com/gin-gonic/gin"
)

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var body services.ProductInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	product, err := pc.products.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

func (pc *ProductController) GetProductsAdmin(c *gin.Context) {
	pc.GetProductsPublic(c)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var body services.ProductPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}

	product, err := pc.products.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	product, err := pc.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "id": product.ID.Hex()})
}
