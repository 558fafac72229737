package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/staybae/staybae-api/internal/storage"
	"github.com/staybae/staybae-api/pkg/config"
)

// Store implements MongoDB storage
type Store struct {
	cfg    *config.MongoConfig
	logger *zap.Logger

	mu     sync.RWMutex
	client *mongo.Client
}

// NewStore creates a MongoDB store. No connection is made until Connect.
func NewStore(cfg *config.MongoConfig, logger *zap.Logger) *Store {
	return &Store{
		cfg:    cfg,
		logger: logger.Named("mongodb"),
	}
}

// Connect dials uri and pings the primary until it answers. Failed pings are
// retried with exponential backoff for at most cfg.ConnectTimeout seconds;
// a zero timeout retries until ctx is done. Connecting an already connected
// store is a no-op.
func (s *Store) Connect(ctx context.Context, uri string) error {
	if s.Connected() {
		return nil
	}

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = time.Duration(s.cfg.ConnectTimeout) * time.Second

	ping := func() error {
		return client.Ping(ctx, readpref.Primary())
	}
	notify := func(err error, next time.Duration) {
		s.logger.Warn("MongoDB not reachable, retrying",
			zap.Error(err),
			zap.Duration("retry_in", next))
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	s.logger.Info("Connected to MongoDB")
	return nil
}

// Connected reports whether Connect has succeeded and Close has not been called.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return storage.ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
