package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore maps collections to Firestore collections and ids to
// document ids.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreClient opens a Firestore client. credentialsFile may be empty to
// use application default credentials (or FIRESTORE_EMULATOR_HOST).
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, errors.New("store: firestore project id required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreStore wraps an open client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		panic("store: firestore client cannot be nil")
	}
	return &FirestoreStore{client: client}
}

// Get reads a single document snapshot.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if id == "" {
		return nil, errors.New("store: id required")
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: firestore get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return nil, ErrNotFound
	}
	return Document(snap.Data()), nil
}

// Put overwrites the document; Set without merge options replaces all fields.
func (s *FirestoreStore) Put(ctx context.Context, collection, id string, doc Document) error {
	if id == "" {
		return errors.New("store: id required")
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return fmt.Errorf("store: firestore set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Backend implements Store.
func (s *FirestoreStore) Backend() string { return BackendFirestore }

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
