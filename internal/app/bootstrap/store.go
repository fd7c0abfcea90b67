package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/contact-bridge/internal/config"
	"github.com/wolfman30/contact-bridge/internal/store"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

// BuildStore opens the document store selected by STORE_BACKEND and wraps it
// with instrumentation. The returned func releases the backend's connections.
func BuildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, observer store.OpObserver) (store.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	raw, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("document store ready",
		"backend", raw.Backend(),
		"contacts_collection", cfg.ContactsCollection,
		"pending_collection", cfg.PendingContactsCollection,
	)
	return store.Instrument(raw, observer, cfg.StoreTimeout), closeFn, nil
}

func openStore(ctx context.Context, cfg *appconfig.Config) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case store.BackendMemory:
		return store.NewMemoryStore(), noop, nil

	case store.BackendDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return store.NewDynamoStore(NewDynamoClient(awsCfg, cfg), cfg.DynamoKeyAttribute), noop, nil

	case store.BackendFirestore:
		client, err := store.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: %w", err)
		}
		return store.NewFirestoreStore(client), func() { _ = client.Close() }, nil

	case store.BackendMongoDB:
		client, err := store.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: %w", err)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return store.NewMongoStore(client.Database(cfg.MongoDatabase)), closeFn, nil

	case store.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: postgres ping: %w", err)
		}
		return store.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown store backend %q", cfg.StoreBackend)
	}
}
