package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fabstore/database"
	"fabstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepositoryMongo struct {
	db CollectionProvider
}

func NewOrderRepositoryMongo(db CollectionProvider) *OrderRepositoryMongo {
	return &OrderRepositoryMongo{db: db}
}

func (r *OrderRepositoryMongo) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, database.OrderCollection)
}

func (r *OrderRepositoryMongo) Create(ctx context.Context, order *models.Order) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepositoryMongo) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := coll.FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepositoryMongo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OrderRepositoryMongo) GetByPaymentIntent(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"paymentIntentId": gatewayOrderID})
}

func (r *OrderRepositoryMongo) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepositoryMongo) CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &updated, nil
}
