package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"fabstore/database"
	"fabstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepositoryMongo struct {
	db CollectionProvider
}

func NewProductRepositoryMongo(db CollectionProvider) *ProductRepositoryMongo {
	return &ProductRepositoryMongo{db: db}
}

func (r *ProductRepositoryMongo) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, database.ProductCollection)
}

func (r *ProductRepositoryMongo) Create(ctx context.Context, product *models.Product) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %q: %w", product.Title, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryMongo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

var productSorts = map[string]bson.D{
	"price":      {{Key: "price", Value: 1}},
	"-price":     {{Key: "price", Value: -1}},
	"title":      {{Key: "title", Value: 1}},
	"createdAt":  {{Key: "createdAt", Value: 1}},
	"-createdAt": {{Key: "createdAt", Value: -1}},
}

func productQuery(filter ProductFilter) (bson.M, *options.FindOptions) {
	query := bson.M{}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	if filter.Query != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Query), "$options": "i"}
	}

	sort, ok := productSorts[filter.Sort]
	if !ok {
		sort = productSorts["-createdAt"]
	}
	opts := options.Find().SetSort(sort)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return query, opts
}

func (r *ProductRepositoryMongo) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query, opts := productQuery(filter)
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func productSet(update ProductUpdate) bson.M {
	set := bson.M{"updatedAt": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.Specs != nil {
		set["specs"] = *update.Specs
	}
	if update.Featured != nil {
		set["featured"] = *update.Featured
	}
	return set
}

func (r *ProductRepositoryMongo) Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": productSet(update)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("product title: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

func (r *ProductRepositoryMongo) Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var deleted models.Product
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return &deleted, nil
}

// DecrementStock takes every line out of stock or none of them. Each line is a
// conditional $inc guarded by stock >= quantity; a miss restores the lines
// already taken.
func (r *ProductRepositoryMongo) DecrementStock(ctx context.Context, lines []StockLine) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	done := make([]StockLine, 0, len(lines))
	for _, line := range lines {
		result, err := coll.UpdateOne(ctx,
			bson.M{"_id": line.ProductID, "stock": bson.M{"$gte": line.Quantity}},
			bson.M{"$inc": bson.M{"stock": -line.Quantity}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err == nil && result.MatchedCount == 0 {
			err = fmt.Errorf("product %s: %w", line.ProductID.Hex(), ErrInsufficientStock)
		}
		if err != nil {
			if rbErr := r.restore(ctx, coll, done); rbErr != nil {
				return errors.Join(err, fmt.Errorf("stock rollback failed: %w", rbErr))
			}
			return err
		}
		done = append(done, line)
	}
	return nil
}

func (r *ProductRepositoryMongo) RestoreStock(ctx context.Context, lines []StockLine) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	return r.restore(ctx, coll, lines)
}

func (r *ProductRepositoryMongo) restore(ctx context.Context, coll *mongo.Collection, lines []StockLine) error {
	var errs []error
	for _, line := range lines {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": line.ProductID},
			bson.M{"$inc": bson.M{"stock": line.Quantity}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", line.ProductID.Hex(), err))
		}
	}
	return errors.Join(errs...)
}
