package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fabstore/database"
	"fabstore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepositoryMongo struct {
	db CollectionProvider
}

func NewUserRepositoryMongo(db CollectionProvider) *UserRepositoryMongo {
	return &UserRepositoryMongo{db: db}
}

func (r *UserRepositoryMongo) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, database.UserCollection)
}

func (r *UserRepositoryMongo) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	insert := bson.M{
		"externalId": user.ExternalID,
		"email":      user.Email,
		"name":       user.Name,
		"role":       role,
		"createdAt":  time.Now(),
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.User
	err = coll.FindOneAndUpdate(ctx, bson.M{"externalId": user.ExternalID}, bson.M{"$setOnInsert": insert}, opts).Decode(&stored)
	if err != nil {
		// two first requests can race on the unique index; the loser reads the winner's row
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByExternalID(ctx, user.ExternalID)
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &stored, nil
}

func (r *UserRepositoryMongo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepositoryMongo) List(ctx context.Context) ([]models.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepositoryMongo) UpdateRole(ctx context.Context, externalID, role string) (*models.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = coll.FindOneAndUpdate(ctx, bson.M{"externalId": externalID}, bson.M{"$set": bson.M{"role": role}}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return &updated, nil
}
