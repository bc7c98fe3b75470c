package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

// ReadOptions controls CSV parsing.
type ReadOptions struct {
	// Header marks the first row as attribute names. The names must match
	// the schema in order.
	Header bool
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// ReadCSV reads every row of r as a record of schema. A row whose field
// count differs from the schema size fails with ErrInvalidArgument.
func ReadCSV(r io.Reader, schema *record.Schema, opts ReadOptions) ([]*record.Record, error) {
	if schema == nil {
		return nil, pprlerr.InvalidArgument("dataset: schema is nil")
	}
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var records []*record.Record
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: failed to read csv: %w", err)
		}
		line++
		if line == 1 && opts.Header {
			if err := checkHeader(row, schema); err != nil {
				return nil, err
			}
			continue
		}
		if len(row) != schema.Len() {
			return nil, pprlerr.InvalidArgument("dataset: line %d has %d fields, schema has %d", line, len(row), schema.Len())
		}
		rec, err := record.New(schema, row...)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(row []string, schema *record.Schema) error {
	attrs := schema.Attributes()
	if len(row) != len(attrs) {
		return pprlerr.InvalidArgument("dataset: header has %d columns, schema has %d", len(row), len(attrs))
	}
	for i, a := range attrs {
		if row[i] != a.Name {
			return pprlerr.InvalidArgument("dataset: header column %d is %q, want %q", i+1, row[i], a.Name)
		}
	}
	return nil
}

// WriteCSV writes records in schema order, preceded by the attribute names
// when header is set.
func WriteCSV(w io.Writer, records []*record.Record, schema *record.Schema, header bool) error {
	writer := csv.NewWriter(w)
	if header {
		attrs := schema.Attributes()
		names := make([]string, len(attrs))
		for i, a := range attrs {
			names[i] = a.Name
		}
		if err := writer.Write(names); err != nil {
			return fmt.Errorf("dataset: failed to write header: %w", err)
		}
	}
	for _, r := range records {
		if err := writer.Write(r.Values()); err != nil {
			return fmt.Errorf("dataset: failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// PairColumns returns the output column names for matches: the identifier
// attribute suffixed with _A and _B.
func PairColumns(schema *record.Schema) [2]string {
	id := schema.Roles().Identifier
	return [2]string{id + "_A", id + "_B"}
}

// WritePairsCSV writes one row per pair holding the identifiers of the side A
// and side B record. When withSimilarity is set a third column carries the
// score.
func WritePairsCSV(w io.Writer, pairs []record.Pair, schema *record.Schema, withSimilarity bool) error {
	writer := csv.NewWriter(w)
	cols := PairColumns(schema)
	header := []string{cols[0], cols[1]}
	if withSimilarity {
		header = append(header, "similarity")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("dataset: failed to write header: %w", err)
	}
	row := make([]string, len(header))
	for _, p := range pairs {
		row[0], row[1] = p.A.Identifier(), p.B.Identifier()
		if withSimilarity {
			row[2] = strconv.FormatFloat(p.Similarity, 'f', 6, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("dataset: failed to write pair: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
