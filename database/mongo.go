package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const (
	ProductCollection     = "products"
	OrderCollection       = "orders"
	AddressCollection     = "addresses"
	UserCollection        = "users"
	TransactionCollection = "transactions"
)

var ErrClosed = errors.New("database provider closed")

// Provider owns the MongoDB client. The first caller of Database connects;
// concurrent first callers share that single attempt. A failed attempt is not
// cached, so the next call retries.
type Provider struct {
	uri    string
	dbName string
	log    zerolog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	closed bool
}

func NewProvider(uri, dbName string, log zerolog.Logger) *Provider {
	return &Provider{
		uri:    uri,
		dbName: dbName,
		log:    log.With().Str("component", "mongo").Logger(),
	}
}

func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	p.mu.RLock()
	db, closed := p.db, p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if db != nil {
		return db, nil
	}

	v, err, _ := p.group.Do("connect", func() (any, error) {
		p.mu.RLock()
		db := p.db
		p.mu.RUnlock()
		if db != nil {
			return db, nil
		}
		// shared by every caller in the flight, so one caller's cancel must not fail the rest
		return p.connect(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Database), nil
}

func (p *Provider) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (p *Provider) connect(ctx context.Context) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p.log.Info().Str("db", p.dbName).Msg("connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.uri).SetRegistry(NewRegistry()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(p.dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = client.Disconnect(context.Background())
		return nil, ErrClosed
	}
	p.client = client
	p.db = db

	p.log.Info().Str("db", p.dbName).Msg("connected to MongoDB")
	return db, nil
}

func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client, p.db = nil, nil
	return err
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ProductCollection: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "featured", Value: 1}}},
		},
		TransactionCollection: {
			{Keys: bson.D{{Key: "paymentId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "orderId", Value: 1}}},
		},
		UserCollection: {
			{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		OrderCollection: {
			{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		AddressCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
