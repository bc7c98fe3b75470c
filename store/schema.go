package store

import (
	"context"
	"database/sql"
)

const encodingsSchema = `
CREATE TABLE IF NOT EXISTS encodings (
    fingerprint TEXT NOT NULL,
    record_key TEXT NOT NULL,
    bit_length INTEGER NOT NULL,
    filter BLOB NOT NULL,
    PRIMARY KEY (fingerprint, record_key)
);
`

// EnsureSchema creates the encodings table in the provided database if it
// does not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, encodingsSchema)
	return err
}
