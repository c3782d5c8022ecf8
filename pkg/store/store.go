// Package store provides storage for shared diagrams.
//
// The preview service's share feature stores diagram sources under a
// generated id so a share link can re-render them later. The Store
// interface supports:
//   - Get/Put/Delete operations
//   - Automatic expiration checking
//   - Cleanup of expired diagrams
//
// Implementations:
//   - MemoryStore: in-memory storage for development and tests
//   - MongoStore: Mongo-backed storage for multi-instance deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	store := store.NewMemoryStore()
//
//	// Production
//	store, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Manage diagrams:
//
//	d := store.NewDiagram(source, title, store.DefaultTTL)
//	if err := st.Put(ctx, d); err != nil {
//	    return err
//	}
//
//	d, err := st.Get(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // Unknown or already deleted
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a diagram does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a diagram exists but has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default lifetime of a shared diagram.
const DefaultTTL = 30 * 24 * time.Hour

// Diagram is a stored diagram source.
type Diagram struct {
	ID        string    `json:"id" bson:"_id"`
	Source    string    `json:"source" bson:"source"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the diagram has exceeded its TTL.
func (d *Diagram) IsExpired() bool {
	return !d.ExpiresAt.IsZero() && time.Now().After(d.ExpiresAt)
}

// NewDiagram creates a diagram with a fresh id and the given TTL.
// A TTL of 0 means the diagram never expires.
func NewDiagram(source, title string, ttl time.Duration) *Diagram {
	now := time.Now()
	d := &Diagram{
		ID:        uuid.NewString(),
		Source:    source,
		Title:     title,
		CreatedAt: now,
	}
	if ttl > 0 {
		d.ExpiresAt = now.Add(ttl)
	}
	return d
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a diagram by id.
	// Returns ErrNotFound if the diagram doesn't exist and ErrExpired if
	// it exists but has exceeded its TTL.
	Get(ctx context.Context, id string) (*Diagram, error)

	// Put stores a diagram, replacing any existing diagram with the same id.
	Put(ctx context.Context, d *Diagram) error

	// Delete removes a diagram. Deleting a missing diagram is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired diagrams.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
