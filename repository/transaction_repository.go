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

type TransactionRepositoryMongo struct {
	db CollectionProvider
}

func NewTransactionRepositoryMongo(db CollectionProvider) *TransactionRepositoryMongo {
	return &TransactionRepositoryMongo{db: db}
}

func (r *TransactionRepositoryMongo) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, database.TransactionCollection)
}

func (r *TransactionRepositoryMongo) Upsert(ctx context.Context, txn *models.Transaction) (*models.Transaction, bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	set := bson.M{
		"orderId":   txn.OrderID,
		"userId":    txn.UserID,
		"amount":    txn.Amount,
		"currency":  txn.Currency,
		"method":    txn.Method,
		"status":    txn.Status,
		"metadata":  txn.Metadata,
		"updatedAt": now,
	}
	if txn.LocalOrderID != "" {
		set["localOrderId"] = txn.LocalOrderID
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"paymentId": txn.PaymentID, "createdAt": now},
	}

	result, err := coll.UpdateOne(ctx, bson.M{"paymentId": txn.PaymentID}, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// concurrent first delivery inserted the row; retry as a plain update
			result, err = coll.UpdateOne(ctx, bson.M{"paymentId": txn.PaymentID}, update)
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to upsert transaction: %w", err)
		}
	}

	stored, err := r.GetByPaymentID(ctx, txn.PaymentID)
	if err != nil {
		return nil, false, err
	}
	return stored, result.UpsertedCount > 0, nil
}

func (r *TransactionRepositoryMongo) GetByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var txn models.Transaction
	if err := coll.FindOne(ctx, bson.M{"paymentId": paymentID}).Decode(&txn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &txn, nil
}

func (r *TransactionRepositoryMongo) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}

	cursor, err := coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txns := []models.Transaction{}
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txns, nil
}
