package engine

import (
	"database/sql"
	"fmt"
)

// Open registers the Bloom filter similarity functions and opens dsn with the
// modernc.org/sqlite driver, so every connection of the returned pool can call
// bf_jaccard and bf_dice.
//
// Pass a path like "./pprl.sqlite" for a file database or ":memory:" for an
// in-memory one.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterFunctions(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("engine: open %s: %w", dsn, err)
	}
	return db, nil
}
