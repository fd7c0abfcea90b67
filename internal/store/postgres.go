package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps documents as JSONB rows in the documents table created
// by the migrations package.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgresStore initializes a store backed by pgxpool (or a compatible mock).
func NewPostgresStore(pool pgxPool) *PostgresStore {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

const (
	selectDocumentSQL = `SELECT body FROM documents WHERE collection = $1 AND id = $2`
	upsertDocumentSQL = `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
)

// Get selects the JSONB body for the key.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if id == "" {
		return nil, errors.New("store: id required")
	}
	var body []byte
	if err := s.pool.QueryRow(ctx, selectDocumentSQL, collection, id).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: postgres get %s/%s: %w", collection, id, err)
	}
	doc := Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("store: postgres decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Put upserts the row, replacing the whole body.
func (s *PostgresStore) Put(ctx context.Context, collection, id string, doc Document) error {
	if id == "" {
		return errors.New("store: id required")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: postgres encode %s/%s: %w", collection, id, err)
	}
	if _, err := s.pool.Exec(ctx, upsertDocumentSQL, collection, id, body); err != nil {
		return fmt.Errorf("store: postgres put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Backend implements Store.
func (s *PostgresStore) Backend() string { return BackendPostgres }
