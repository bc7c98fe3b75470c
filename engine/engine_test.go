package engine

import (
	"math"
	"testing"

	"github.com/viant/pprl/bloom"
)

// TestOpen_FunctionsAvailable opens a database without registering anything
// first and scores stored filters in SQL.
func TestOpen_FunctionsAvailable(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE filters(id TEXT PRIMARY KEY, filter BLOB NOT NULL)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	rows := map[string]*bloom.Encoding{
		"a": bloom.FromBits(true, true, false, false),
		"b": bloom.FromBits(true, false, false, false),
		"c": bloom.FromBits(false, false, true, true),
	}
	for id, enc := range rows {
		blob, err := bloom.EncodeFilter(enc)
		if err != nil {
			t.Fatalf("EncodeFilter(%s) failed: %v", id, err)
		}
		if _, err := db.Exec("INSERT INTO filters(id, filter) VALUES (?, ?)", id, blob); err != nil {
			t.Fatalf("INSERT %s failed: %v", id, err)
		}
	}

	var sim float64
	err = db.QueryRow(`SELECT bf_jaccard(x.filter, y.filter) FROM filters x, filters y WHERE x.id = 'a' AND y.id = 'b'`).Scan(&sim)
	if err != nil {
		t.Fatalf("bf_jaccard query failed: %v", err)
	}
	if math.Abs(sim-0.5) > 1e-9 {
		t.Fatalf("bf_jaccard(a,b) = %v, want 0.5", sim)
	}

	var best string
	err = db.QueryRow(`SELECT y.id FROM filters x, filters y WHERE x.id = 'a' AND y.id <> 'a' ORDER BY bf_dice(x.filter, y.filter) DESC LIMIT 1`).Scan(&best)
	if err != nil {
		t.Fatalf("bf_dice ranking query failed: %v", err)
	}
	if best != "b" {
		t.Fatalf("best match for a = %s, want b", best)
	}
}
