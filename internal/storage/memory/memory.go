// Package memory provides an in-process storage.Database that never leaves
// the process. It records connection attempts so callers can assert on them.
package memory

import (
	"context"
	"sync"

	"github.com/staybae/staybae-api/internal/storage"
)

// Store implements an in-memory storage
type Store struct {
	mu        sync.Mutex
	uris      []string
	connected bool
	closed    bool
	connectFn func(ctx context.Context, uri string) error
	done      chan struct{}
}

// NewStore creates a new in-memory store whose Connect always succeeds
func NewStore() *Store {
	return &Store{done: make(chan struct{}, 1)}
}

// NewFailingStore creates a store whose Connect returns err
func NewFailingStore(err error) *Store {
	s := NewStore()
	s.connectFn = func(context.Context, string) error { return err }
	return s
}

// NewBlockingStore creates a store whose Connect waits for ctx to be done
func NewBlockingStore() *Store {
	s := NewStore()
	s.connectFn = func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}
	return s
}

func (s *Store) Connect(ctx context.Context, uri string) error {
	s.mu.Lock()
	s.uris = append(s.uris, uri)
	fn := s.connectFn
	s.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(ctx, uri)
	}

	s.mu.Lock()
	s.connected = err == nil
	s.mu.Unlock()

	select {
	case s.done <- struct{}{}:
	default:
	}
	return err
}

// ConnectAttempted returns a channel that receives once a Connect call returns.
func (s *Store) ConnectAttempted() <-chan struct{} {
	return s.done
}

// URIs returns every URI passed to Connect, in call order.
func (s *Store) URIs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uris...)
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return storage.ErrNotConnected
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.closed = true
	return nil
}

var _ storage.Database = (*Store)(nil)
