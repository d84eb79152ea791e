package reports

import "errors"

var (
	// ErrNoMatches is returned before any artifact is built when the
	// criteria select no records.
	ErrNoMatches = errors.New("no records match the report criteria")

	ErrDocumentGeneration = errors.New("failed to generate PDF document")
	ErrWorkbookGeneration = errors.New("failed to generate spreadsheet workbook")

	// ErrExportInProgress is returned while the same session is already
	// building an export.
	ErrExportInProgress = errors.New("an export is already in progress")

	ErrInvalidPeriod     = errors.New("report start date is after end date")
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
