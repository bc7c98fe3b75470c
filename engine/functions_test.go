package engine

import (
	"database/sql"
	"math"
	"testing"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/similarity"
)

func TestRegisterFunctionsAndUse(t *testing.T) {
	if err := RegisterFunctions(); err != nil {
		t.Fatalf("RegisterFunctions failed: %v", err)
	}
	if err := RegisterFunctions(); err != nil {
		t.Fatalf("second RegisterFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	aBlob, err := bloom.EncodeFilter(bloom.FromBits(true, true, false, false, true))
	if err != nil {
		t.Fatalf("EncodeFilter a failed: %v", err)
	}
	bBlob, err := bloom.EncodeFilter(bloom.FromBits(true, false, false, true, true))
	if err != nil {
		t.Fatalf("EncodeFilter b failed: %v", err)
	}

	var sim float64
	if err := db.QueryRow(`SELECT bf_jaccard(?, ?)`, aBlob, bBlob).Scan(&sim); err != nil {
		t.Fatalf("bf_jaccard(a,b) query failed: %v", err)
	}
	if math.Abs(sim-0.5) > 1e-9 {
		t.Fatalf("bf_jaccard(a,b) = %v, want 0.5", sim)
	}
	if err := db.QueryRow(`SELECT `+FunctionName(similarity.MetricDice)+`(?, ?)`, aBlob, bBlob).Scan(&sim); err != nil {
		t.Fatalf("bf_dice(a,b) query failed: %v", err)
	}
	if math.Abs(sim-2.0/3.0) > 1e-9 {
		t.Fatalf("bf_dice(a,b) = %v, want 0.667", sim)
	}

	var null sql.NullFloat64
	if err := db.QueryRow(`SELECT bf_jaccard(NULL, ?)`, bBlob).Scan(&null); err != nil {
		t.Fatalf("bf_jaccard(NULL,b) query failed: %v", err)
	}
	if null.Valid {
		t.Fatalf("bf_jaccard(NULL,b) = %v, want NULL", null.Float64)
	}

	shortBlob, _ := bloom.EncodeFilter(bloom.FromBits(true))
	if err := db.QueryRow(`SELECT bf_jaccard(?, ?)`, aBlob, shortBlob).Scan(&sim); err == nil {
		t.Fatalf("expected error for filters of different length")
	}
	if err := db.QueryRow(`SELECT bf_dice(?, 42)`, aBlob).Scan(&sim); err == nil {
		t.Fatalf("expected error for non-BLOB argument")
	}
}
