package store

import (
	"context"
	"strings"

	"github.com/viant/pprl/pprlerr"
)

// Kind selects a backend.
type Kind string

const (
	KindNone   Kind = "none"
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
	KindRedis  Kind = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Kind Kind `yaml:"kind"`
	// Path is the SQLite database path or the snapshot directory.
	Path string `yaml:"path"`
	// Addr and DB address the Redis server.
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
	// Recreate ignores stored encodings and overwrites them.
	Recreate bool `yaml:"recreate"`
}

// Validate reports an ErrConfig error for an unknown kind or a missing
// location.
func (c Config) Validate() error {
	switch Kind(strings.ToLower(string(c.Kind))) {
	case "", KindNone:
		return nil
	case KindSQLite, KindFile:
		if c.Path == "" {
			return pprlerr.Config("store: %s storage needs a path", c.Kind)
		}
		return nil
	case KindRedis:
		if c.Addr == "" {
			return pprlerr.Config("store: redis storage needs an addr")
		}
		return nil
	}
	return pprlerr.Config("store: unknown storage kind %q", c.Kind)
}

// Open returns the configured store, or nil for kind none.
func Open(ctx context.Context, c Config) (Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var (
		s   Store
		err error
	)
	switch Kind(strings.ToLower(string(c.Kind))) {
	case KindSQLite:
		s, err = OpenSQLite(ctx, c.Path)
	case KindFile:
		s, err = NewFileStore(c.Path)
	case KindRedis:
		s, err = NewRedisStore(ctx, c.Addr, c.DB)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
