package services

import (
	"context"
	"errors"

	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Price       *decimal.Decimal  `json:"price" validate:"required"`
	Stock       *int              `json:"stock" validate:"required,gte=0"`
	Images      []string          `json:"images" validate:"dive,url"`
	Specs       map[string]string `json:"specs"`
	Featured    bool              `json:"featured"`
}

// ProductPatch updates only the fields that are present. A nil Images or
// Specs leaves the stored value alone; an empty one clears it.
type ProductPatch struct {
	Title       *string           `json:"title" validate:"omitempty,min=1"`
	Description *string           `json:"description"`
	Price       *decimal.Decimal  `json:"price"`
	Stock       *int              `json:"stock" validate:"omitempty,gte=0"`
	Images      []string          `json:"images" validate:"omitempty,dive,url"`
	Specs       map[string]string `json:"specs"`
	Featured    *bool             `json:"featured"`
}

type ProductService struct {
	products repository.ProductRepository
	log      zerolog.Logger
}

func NewProductService(repos Repositories, log zerolog.Logger) *ProductService {
	return &ProductService{
		products: repos.Products,
		log:      log.With().Str("component", "products").Logger(),
	}
}

var productSorts = map[string]bool{
	"":           true,
	"price":      true,
	"-price":     true,
	"title":      true,
	"createdAt":  true,
	"-createdAt": true,
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	if !productSorts[filter.Sort] {
		return nil, invalid("Invalid sort %q", filter.Sort)
	}
	if filter.Limit < 0 {
		return nil, invalid("Invalid limit")
	}
	return s.products.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, oid)
}

func productError(err error) error {
	switch {
	case errors.Is(err, models.ErrNegativePrice):
		return invalid("Price must not be negative")
	case errors.Is(err, repository.ErrDuplicate):
		return invalid("Product title already exists")
	}
	return err
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       *in.Stock,
		Images:      in.Images,
		Specs:       in.Specs,
		Featured:    in.Featured,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if err := product.Validate(); err != nil {
		if errors.Is(err, models.ErrNegativePrice) {
			return nil, productError(err)
		}
		return nil, validationFailure(err)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, productError(err)
	}
	s.log.Info().Str("product_id", product.ID.Hex()).Str("title", product.Title).Msg("product created")
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	if err := validate(patch); err != nil {
		return nil, err
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, productError(models.ErrNegativePrice)
	}

	update := repository.ProductUpdate{
		Title:       patch.Title,
		Description: patch.Description,
		Price:       patch.Price,
		Stock:       patch.Stock,
		Featured:    patch.Featured,
	}
	if patch.Images != nil {
		update.Images = &patch.Images
	}
	if patch.Specs != nil {
		update.Specs = &patch.Specs
	}

	product, err := s.products.Update(ctx, oid, update)
	if err != nil {
		return nil, productError(err)
	}
	s.log.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return product, nil
}
