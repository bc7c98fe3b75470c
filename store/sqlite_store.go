package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/engine"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/similarity"
)

// SQLiteStore keeps encodings in the encodings table of a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// NewSQLiteStore creates a SQLite-backed Store on db. It ensures the
// encodings schema exists. The caller keeps ownership of db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLite opens the database at path with the similarity functions
// registered. Close closes the database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// Save upserts encodings in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, fingerprint string, encodings map[string]*bloom.Encoding) error {
	if len(encodings) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO encodings(fingerprint, record_key, bit_length, filter) VALUES(?, ?, ?, ?)
ON CONFLICT(fingerprint, record_key) DO UPDATE SET bit_length = excluded.bit_length, filter = excluded.filter`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, e := range encodings {
		blob, err := bloom.EncodeFilter(e)
		if err != nil {
			return err
		}
		if blob == nil {
			return pprlerr.InvalidArgument("store: encoding of %q is nil", key)
		}
		if _, err := stmt.ExecContext(ctx, fingerprint, key, e.Length, blob); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the encodings stored under fingerprint and keeps the requested
// keys.
func (s *SQLiteStore) Load(ctx context.Context, fingerprint string, keys []string) (map[string]*bloom.Encoding, error) {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	rows, err := s.db.QueryContext(ctx, `SELECT record_key, filter FROM encodings WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*bloom.Encoding)
	for rows.Next() {
		var key string
		var blob []byte
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, err
		}
		if !wanted[key] {
			continue
		}
		e, err := bloom.DecodeFilter(blob)
		if err != nil {
			return nil, fmt.Errorf("store: record %q: %w", key, err)
		}
		out[key] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, fingerprint string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM encodings WHERE fingerprint = ?`, fingerprint).Scan(&n)
	return n, err
}

// Similarity computes the similarity of two stored encodings inside SQLite
// with bf_jaccard or bf_dice. The database must have been opened through
// engine.Open.
func (s *SQLiteStore) Similarity(ctx context.Context, fingerprint, keyA, keyB string, metric similarity.Metric) (float64, error) {
	query := `SELECT ` + engine.FunctionName(metric) + `(a.filter, b.filter)
FROM encodings a JOIN encodings b ON a.fingerprint = b.fingerprint
WHERE a.fingerprint = ? AND a.record_key = ? AND b.record_key = ?`
	var sim sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, fingerprint, keyA, keyB).Scan(&sim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, pprlerr.NotFound("store: no encodings for %q and %q", keyA, keyB)
	}
	if err != nil {
		return 0, err
	}
	return sim.Float64, nil
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
