package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/urban-mobility/routeplan/config"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("blob: object not found")

// Store is the durable-tier contract. Implementations must be safe for
// concurrent use at the single-operation level; no transactional guarantees
// are made across a read-then-write cycle.
type Store interface {
	// Get returns the object bytes, or ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes the object, overwriting any previous version.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// List returns all keys under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes the object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewFromConfig constructs the store selected by cfg.Backend.
func NewFromConfig(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "minio":
		return NewMinioStore(cfg)
	case "fs", "":
		return NewFSStore(cfg.LocalPath), nil
	default:
		return nil, fmt.Errorf("blob: unknown backend %q", cfg.Backend)
	}
}
