package similarity

import (
	"strings"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/pprlerr"
)

// Func scores two encodings of equal length in [0, 1].
type Func func(a, b *bloom.Encoding) (float64, error)

// Jaccard returns |a ∩ b| / |a ∪ b|. Two all-zero encodings score 0.
func Jaccard(a, b *bloom.Encoding) (float64, error) {
	inter, err := a.Intersection(b)
	if err != nil {
		return 0, err
	}
	union, err := a.Union(b)
	if err != nil {
		return 0, err
	}
	if union == 0 {
		return 0, nil
	}
	return float64(inter) / float64(union), nil
}

// Dice returns 2|a ∩ b| / (|a| + |b|). Two all-zero encodings score 0.
func Dice(a, b *bloom.Encoding) (float64, error) {
	inter, err := a.Intersection(b)
	if err != nil {
		return 0, err
	}
	total := a.Count() + b.Count()
	if total == 0 {
		return 0, nil
	}
	return 2 * float64(inter) / float64(total), nil
}

// Metric selects a similarity function.
type Metric string

const (
	MetricJaccard Metric = "jaccard"
	MetricDice    Metric = "dice"
)

// ParseMetric parses a metric name case-insensitively; "" selects Jaccard.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricJaccard:
		return MetricJaccard, nil
	case MetricDice:
		return MetricDice, nil
	}
	return "", pprlerr.Config("similarity: unknown metric %q", s)
}

// Func returns the similarity function of m; unknown metrics fall back to
// Jaccard.
func (m Metric) Func() Func {
	if m == MetricDice {
		return Dice
	}
	return Jaccard
}
