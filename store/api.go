package store

import (
	"context"

	"github.com/viant/pprl/bloom"
)

// Store defines the persistence boundary for encodings.
type Store interface {
	// Load returns the stored encodings of the given record keys under
	// fingerprint. Keys without a stored encoding are absent from the result.
	Load(ctx context.Context, fingerprint string, keys []string) (map[string]*bloom.Encoding, error)

	// Save stores encodings under fingerprint, replacing existing entries with
	// the same record key.
	Save(ctx context.Context, fingerprint string, encodings map[string]*bloom.Encoding) error

	// Count returns the number of encodings stored under fingerprint.
	Count(ctx context.Context, fingerprint string) (int, error)

	// Close releases resources held by the store.
	Close() error
}
