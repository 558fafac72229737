// Package storage defines the database contract the server bootstrapper
// depends on. Implementations live in the mongodb and memory subpackages.
package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotConnected = errors.New("database not connected")
)

// Database is a connection to the document database.
type Database interface {
	// Connect establishes the connection described by uri. It may block
	// until the database is reachable or ctx is done.
	Connect(ctx context.Context, uri string) error

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error

	// Close releases the connection
	Close(ctx context.Context) error
}
