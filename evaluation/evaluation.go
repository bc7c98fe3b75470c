package evaluation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

// Link is a predicted match by identifier, A side first.
type Link struct {
	A, B string
}

// Result holds the confusion counts and derived quality measures.
type Result struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	// TotalPairs is the size of the comparison space, |A|·|B|.
	TotalPairs int64
	Precision  float64
	Recall     float64
	FMeasure   float64
}

// TrueNegatives returns the pairs neither predicted nor truly matching.
func (r Result) TrueNegatives() int64 {
	return r.TotalPairs - int64(r.TruePositives+r.FalsePositives+r.FalseNegatives)
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tp", r.TruePositives),
		slog.Int("fp", r.FalsePositives),
		slog.Int("fn", r.FalseNegatives),
		slog.Float64("precision", r.Precision),
		slog.Float64("recall", r.Recall),
		slog.Float64("f_measure", r.FMeasure),
	)
}

// Links converts pairs into identifier links.
func Links(pairs []record.Pair) []Link {
	out := make([]Link, len(pairs))
	for i, p := range pairs {
		out[i] = Link{A: p.A.Identifier(), B: p.B.Identifier()}
	}
	return out
}

// Evaluate scores pairs against the identifiers of records.
func Evaluate(records []*record.Record, pairs []record.Pair) Result {
	return EvaluateLinks(records, Links(pairs))
}

// EvaluateLinks scores identifier links against records. Duplicate links
// count once. The true links are the identifiers present in both sources;
// records of neither source are ignored. Measures with a zero denominator
// are 0.
func EvaluateLinks(records []*record.Record, links []Link) Result {
	var sizeA, sizeB int64
	inA := map[string]bool{}
	inB := map[string]bool{}
	for _, r := range records {
		switch r.Side() {
		case record.SideA:
			sizeA++
			inA[r.Identifier()] = true
		case record.SideB:
			sizeB++
			inB[r.Identifier()] = true
		}
	}
	truth := 0
	for id := range inA {
		if inB[id] {
			truth++
		}
	}

	predicted := make(map[Link]bool, len(links))
	for _, l := range links {
		predicted[l] = true
	}
	res := Result{TotalPairs: sizeA * sizeB}
	for l := range predicted {
		if l.A == l.B && inA[l.A] && inB[l.B] {
			res.TruePositives++
		} else {
			res.FalsePositives++
		}
	}
	res.FalseNegatives = truth - res.TruePositives
	res.Precision = ratio(res.TruePositives, res.TruePositives+res.FalsePositives)
	res.Recall = ratio(res.TruePositives, truth)
	if res.Precision+res.Recall > 0 {
		res.FMeasure = 2 * res.Precision * res.Recall / (res.Precision + res.Recall)
	}
	return res
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// ReadLinks parses a two-column match file as written by
// dataset.WritePairsCSV. A leading header row naming the schema's pair
// columns is skipped; extra columns are ignored.
func ReadLinks(r io.Reader, schema *record.Schema) ([]Link, error) {
	id := schema.Roles().Identifier
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var links []Link
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return links, nil
		}
		if err != nil {
			return nil, fmt.Errorf("evaluation: failed to read matches: %w", err)
		}
		if len(row) < 2 {
			return nil, pprlerr.InvalidArgument("evaluation: line %d has %d fields, want at least 2", line, len(row))
		}
		if line == 1 && row[0] == id+"_A" && row[1] == id+"_B" {
			continue
		}
		links = append(links, Link{A: row[0], B: row[1]})
	}
}
