package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/pprlerr"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestJaccardDice_Example(t *testing.T) {
	a := bloom.FromBits(true, true, false, false, true)
	b := bloom.FromBits(true, false, false, true, true)
	j, err := Jaccard(a, b)
	if err != nil {
		t.Fatalf("Jaccard failed: %v", err)
	}
	if !approx(j, 0.5) {
		t.Fatalf("Jaccard = %v, want 0.5", j)
	}
	d, err := Dice(a, b)
	if err != nil {
		t.Fatalf("Dice failed: %v", err)
	}
	if !approx(d, 2.0/3.0) {
		t.Fatalf("Dice = %v, want 0.667", d)
	}
}

func TestSimilarity_Properties(t *testing.T) {
	vectors := []*bloom.Encoding{
		bloom.FromBits(true, false, false, false, false, false),
		bloom.FromBits(true, true, true, false, false, false),
		bloom.FromBits(false, true, false, true, false, true),
		bloom.FromBits(true, true, true, true, true, true),
		bloom.FromBits(false, false, false, false, false, true),
	}
	for i, a := range vectors {
		if j, _ := Jaccard(a, a); !approx(j, 1) {
			t.Fatalf("Jaccard(v%d, v%d) = %v, want 1", i, i, j)
		}
		if d, _ := Dice(a, a); !approx(d, 1) {
			t.Fatalf("Dice(v%d, v%d) = %v, want 1", i, i, d)
		}
		for k, b := range vectors {
			jab, _ := Jaccard(a, b)
			jba, _ := Jaccard(b, a)
			dab, _ := Dice(a, b)
			dba, _ := Dice(b, a)
			if jab != jba || dab != dba {
				t.Fatalf("asymmetric similarity for v%d, v%d", i, k)
			}
			if dab < jab {
				t.Fatalf("Dice(v%d, v%d) = %v < Jaccard %v", i, k, dab, jab)
			}
		}
	}
}

func TestSimilarity_AllZero(t *testing.T) {
	z := bloom.FromBits(false, false, false)
	if j, err := Jaccard(z, z); err != nil || j != 0 {
		t.Fatalf("Jaccard(zero, zero) = %v, %v, want 0, nil", j, err)
	}
	if d, err := Dice(z, z); err != nil || d != 0 {
		t.Fatalf("Dice(zero, zero) = %v, %v, want 0, nil", d, err)
	}
}

func TestSimilarity_LengthMismatch(t *testing.T) {
	a := bloom.FromBits(true, false)
	b := bloom.FromBits(true, false, true)
	if _, err := Jaccard(a, b); !errors.Is(err, pprlerr.ErrInvalidArgument) {
		t.Fatalf("Jaccard mismatch error = %v, want ErrInvalidArgument", err)
	}
	if _, err := Dice(a, b); !errors.Is(err, pprlerr.ErrInvalidArgument) {
		t.Fatalf("Dice mismatch error = %v, want ErrInvalidArgument", err)
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric("DICE"); err != nil || m != MetricDice {
		t.Fatalf("ParseMetric(DICE) = %v, %v", m, err)
	}
	if m, _ := ParseMetric(""); m != MetricJaccard {
		t.Fatalf("ParseMetric(\"\") = %v, want jaccard", m)
	}
	if _, err := ParseMetric("cosine"); !errors.Is(err, pprlerr.ErrConfig) {
		t.Fatalf("ParseMetric(cosine) error = %v, want ErrConfig", err)
	}
	a := bloom.FromBits(true, true, false, false, true)
	b := bloom.FromBits(true, false, false, true, true)
	if d, _ := MetricDice.Func()(a, b); !approx(d, 2.0/3.0) {
		t.Fatalf("MetricDice.Func() = %v", d)
	}
}
