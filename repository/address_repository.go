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
)

type AddressRepositoryMongo struct {
	db CollectionProvider
}

func NewAddressRepositoryMongo(db CollectionProvider) *AddressRepositoryMongo {
	return &AddressRepositoryMongo{db: db}
}

func (r *AddressRepositoryMongo) Create(ctx context.Context, address *models.Address) error {
	coll, err := r.db.Collection(ctx, database.AddressCollection)
	if err != nil {
		return err
	}

	address.ID = primitive.NewObjectID()
	address.CreatedAt = time.Now()
	if _, err := coll.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (r *AddressRepositoryMongo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Address, error) {
	coll, err := r.db.Collection(ctx, database.AddressCollection)
	if err != nil {
		return nil, err
	}

	var address models.Address
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&address); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find address: %w", err)
	}
	return &address, nil
}

func (r *AddressRepositoryMongo) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.db.Collection(ctx, database.AddressCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
