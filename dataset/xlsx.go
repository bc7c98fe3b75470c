package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/viant/pprl/record"
)

// MatchesSheet is the worksheet WritePairsXLSX fills.
const MatchesSheet = "matches"

// WritePairsXLSX saves pairs as a spreadsheet at path with the identifier
// columns of WritePairsCSV followed by the similarity.
func WritePairsXLSX(path string, pairs []record.Pair, schema *record.Schema) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(MatchesSheet); err != nil {
		return fmt.Errorf("dataset: failed to create sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("dataset: failed to create header style: %w", err)
	}

	cols := PairColumns(schema)
	headers := []string{cols[0], cols[1], "similarity"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		if err := f.SetCellValue(MatchesSheet, cell, header); err != nil {
			return fmt.Errorf("dataset: failed to write header: %w", err)
		}
		if err := f.SetCellStyle(MatchesSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("dataset: failed to style header: %w", err)
		}
	}

	for i, p := range pairs {
		row := i + 2
		values := []any{p.A.Identifier(), p.B.Identifier(), p.Similarity}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("dataset: %w", err)
			}
			if err := f.SetCellValue(MatchesSheet, cell, v); err != nil {
				return fmt.Errorf("dataset: failed to write pair: %w", err)
			}
		}
	}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(MatchesSheet, col, col, 20)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	index, err := f.GetSheetIndex(MatchesSheet)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("dataset: failed to save %s: %w", path, err)
	}
	return nil
}
