package controllers

import (
	"context"
	"net/http"
	"strconv"

	"fabstore/models"
	"fabstore/repository"
	"fabstore/services"

	"github.com/gin-gonic/gin"
)

type ProductCatalog interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in services.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, patch services.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
}

type ProductController struct {
	products ProductCatalog
}

func NewProductController(products ProductCatalog) *ProductController {
	return &ProductController{products: products}
}

// productFilter reads ?featured=&q=&sort=&limit= from the query string.
func productFilter(c *gin.Context) (repository.ProductFilter, bool) {
	filter := repository.ProductFilter{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
	}
	if v := c.Query("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return filter, false
		}
		filter.Featured = &featured
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, false
		}
		filter.Limit = limit
	}
	return filter, true
}

func (pc *ProductController) GetProductsPublic(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	products, err := pc.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Fetch products success",
		"count":    len(products),
		"products": products,
	})
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": product})
}
