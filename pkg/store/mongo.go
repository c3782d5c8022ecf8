package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default Mongo locations.
const (
	// DefaultDatabase is the Mongo database name.
	DefaultDatabase = "flowdraw"

	// DefaultCollection is the collection holding shared diagrams.
	DefaultCollection = "diagrams"
)

// MongoConfig configures the Mongo connection.
type MongoConfig struct {
	// URI is the Mongo connection string (mongodb://...).
	URI string

	// Database overrides DefaultDatabase when non-empty.
	Database string

	// Collection overrides DefaultCollection when non-empty.
	Collection string
}

// MongoStore is a Mongo-backed diagram store for multi-instance
// deployments. All preview instances pointed at the same database see
// the same shared diagrams.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to Mongo and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a diagram by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Diagram, error) {
	var d Diagram
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.IsExpired() {
		return nil, ErrExpired
	}
	return &d, nil
}

// Put stores a diagram, replacing any existing document with the same id.
func (s *MongoStore) Put(ctx context.Context, d *Diagram) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": d.ID},
		d,
		options.Replace().SetUpsert(true))
	return err
}

// Delete removes a diagram.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Cleanup removes expired diagrams.
func (s *MongoStore) Cleanup(ctx context.Context) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{
			"$gt": time.Time{},
			"$lt": time.Now(),
		},
	})
	return err
}

// Close disconnects from Mongo.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
