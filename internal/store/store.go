// Package store provides keyed document persistence for contact records.
//
// Every backend exposes the same two operations: a single keyed read and a
// full-replace write. Documents are free-form attribute maps; callers coerce
// values through the Document accessors so backend-specific number and time
// representations do not leak upward.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists for the key.
var ErrNotFound = errors.New("store: document not found")

// Store reads and writes documents keyed by id within a named collection.
type Store interface {
	// Get returns the document stored under id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Put replaces the document stored under id with doc.
	Put(ctx context.Context, collection, id string, doc Document) error
	// Backend names the implementation for logs and metrics.
	Backend() string
}

// Backend identifiers accepted by configuration.
const (
	BackendMemory    = "memory"
	BackendDynamoDB  = "dynamodb"
	BackendFirestore = "firestore"
	BackendMongoDB   = "mongodb"
	BackendPostgres  = "postgres"
)
