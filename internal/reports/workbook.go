package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"assetdesk/internal/lookup"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	summarySheet     = "Summary"
	allRecordsPeriod = "All records"
)

// GenerateWorkbook writes a data sheet named def.Sheet and a Summary sheet
// with the report metadata and a per-group breakdown.
func GenerateWorkbook[T any](def Definition[T], records []T, lookups *lookup.Index, meta Meta) (artifact *Artifact, err error) {
	if len(records) == 0 {
		return nil, ErrNoMatches
	}
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = fmt.Errorf("%w: %v", ErrWorkbookGeneration, r)
		}
	}()

	f := excelize.NewFile()
	defer func() {
		if err = closeErr(err, f.Close()); err != nil {
			artifact = nil
		}
	}()

	data, err := buildWorkbook(f, def, records, lookups, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookGeneration, err)
	}

	return &Artifact{
		FileName:    fileName(def.Entity, meta.GeneratedAt, FormatXLSX),
		ContentType: xlsxContentType,
		Format:      FormatXLSX,
		Records:     len(records),
		Data:        data,
	}, nil
}

// closeErr reports a failed Close of the workbook's temporary files unless
// generation already failed.
func closeErr(err, cerr error) error {
	if err != nil || cerr == nil {
		return err
	}
	return fmt.Errorf("%w: close: %v", ErrWorkbookGeneration, cerr)
}

func buildWorkbook[T any](f *excelize.File, def Definition[T], records []T, lookups *lookup.Index, meta Meta) ([]byte, error) {
	if err := f.SetSheetName(f.GetSheetName(0), def.Sheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	// Data sheet
	headers := make([]any, len(def.Columns))
	for i, col := range def.Columns {
		headers[i] = col.Header
	}
	if err := f.SetSheetRow(def.Sheet, "A1", &headers); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(def.Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(def.Sheet, "A1", last, bold); err != nil {
		return nil, err
	}
	for r, record := range records {
		row := make([]any, len(def.Columns))
		for i, col := range def.Columns {
			row[i] = col.Value(record, lookups)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(def.Sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	for i, col := range def.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(def.Sheet, name, name, max(12, col.Width/2)); err != nil {
			return nil, err
		}
	}

	// Summary sheet
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	period, ok := meta.Criteria.Period()
	if !ok {
		period = allRecordsPeriod
	}
	summary := [][]any{
		{"Report", def.Title},
		{"Generated", meta.GeneratedAt.Format(timestampFmt)},
		{"Requested by", meta.RequestedBy},
		{"Period", period},
	}
	if meta.Criteria.HasCategory() {
		summary = append(summary, []any{"Category", meta.Criteria.Category})
	}
	summary = append(summary, []any{"Total records", len(records)}, []any{})
	groupRow := len(summary) + 1
	summary = append(summary, []any{def.GroupHeader, "Count"})
	for _, g := range Breakdown(records, def.GroupOf, lookups) {
		summary = append(summary, []any{g.Key, g.Count})
	}

	for r, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", groupRow), fmt.Sprintf("B%d", groupRow), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
