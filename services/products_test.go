package services

import (
	"context"
	"fmt"
	"testing"

	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProductService() (*ProductService, *MockProductRepository) {
	products := new(MockProductRepository)
	return NewProductService(Repositories{Products: products}, zerolog.Nop()), products
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductService_Create(t *testing.T) {
	svc, products := newProductService()
	ctx := context.Background()

	products.On("Create", ctx, mock.AnythingOfType("*models.Product")).
		Return(nil).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*models.Product)
			assert.Equal(t, "CNC bracket", p.Title)
			assert.Equal(t, 12, p.Stock)
			assert.NotNil(t, p.Images)
			p.ID = primitive.NewObjectID()
		})

	p, err := svc.Create(ctx, ProductInput{Title: "CNC bracket", Price: decPtr("499.00"), Stock: intPtr(12)})

	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	products.AssertExpectations(t)
}

func TestProductService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   ProductInput
	}{
		{"missing title", ProductInput{Price: decPtr("1"), Stock: intPtr(1)}},
		{"missing price", ProductInput{Title: "PCB", Stock: intPtr(1)}},
		{"missing stock", ProductInput{Title: "PCB", Price: decPtr("1")}},
		{"negative stock", ProductInput{Title: "PCB", Price: decPtr("1"), Stock: intPtr(-1)}},
		{"negative price", ProductInput{Title: "PCB", Price: decPtr("-1"), Stock: intPtr(1)}},
		{"bad image url", ProductInput{Title: "PCB", Price: decPtr("1"), Stock: intPtr(1), Images: []string{"not a url"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, products := newProductService()

			_, err := svc.Create(context.Background(), tt.in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_DuplicateTitle(t *testing.T) {
	svc, products := newProductService()
	products.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("product %q: %w", "PCB", repository.ErrDuplicate))

	_, err := svc.Create(context.Background(), ProductInput{Title: "PCB", Price: decPtr("1"), Stock: intPtr(1)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Product title already exists", verr.Message)
}

func TestProductService_Update(t *testing.T) {
	svc, products := newProductService()
	ctx := context.Background()
	id := primitive.NewObjectID()
	images := []string{}

	products.On("Update", ctx, id, mock.AnythingOfType("repository.ProductUpdate")).
		Return(&models.Product{ID: id, Stock: 3}, nil).
		Run(func(args mock.Arguments) {
			u := args.Get(2).(repository.ProductUpdate)
			require.NotNil(t, u.Stock)
			assert.Equal(t, 3, *u.Stock)
			assert.Nil(t, u.Title)
			assert.Nil(t, u.Specs)
			require.NotNil(t, u.Images)
			assert.Empty(t, *u.Images)
		})

	p, err := svc.Update(ctx, id.Hex(), ProductPatch{Stock: intPtr(3), Images: images})

	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestProductService_Update_Invalid(t *testing.T) {
	svc, products := newProductService()
	id := primitive.NewObjectID().Hex()

	_, err := svc.Update(context.Background(), id, ProductPatch{Price: decPtr("-5")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Update(context.Background(), id, ProductPatch{Stock: intPtr(-2)})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Update(context.Background(), "zzz", ProductPatch{})
	require.ErrorAs(t, err, &verr)

	products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_GetAndDelete_NotFound(t *testing.T) {
	svc, products := newProductService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	products.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)
	products.On("Delete", ctx, id).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(ctx, id.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(ctx, id.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_List_RejectsUnknownSort(t *testing.T) {
	svc, products := newProductService()
	ctx := context.Background()

	products.On("List", ctx, repository.ProductFilter{Sort: "-price"}).Return([]models.Product{}, nil)

	_, err := svc.List(ctx, repository.ProductFilter{Sort: "-price"})
	require.NoError(t, err)

	_, err = svc.List(ctx, repository.ProductFilter{Sort: "stock"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
