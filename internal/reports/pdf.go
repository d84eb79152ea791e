package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"assetdesk/internal/lookup"
)

const (
	pdfContentType = "application/pdf"
	pdfMargin      = 10.0
	pdfRowHeight   = 7.0
	pdfFooterSpace = 15.0
	timestampFmt   = "2006-01-02 15:04:05"
)

// compressDocuments is switched off in tests so page content can be searched.
var compressDocuments = true

// GenerateDocument renders records as a landscape A4 table. The header row is
// repeated on every page and every page carries a "Page i of N" footer.
func GenerateDocument[T any](def Definition[T], records []T, lookups *lookup.Index, meta Meta) (artifact *Artifact, err error) {
	if len(records) == 0 {
		return nil, ErrNoMatches
	}
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = fmt.Errorf("%w: %v", ErrDocumentGeneration, r)
		}
	}()

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(compressDocuments)
	pdf.SetTitle(def.Title, false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin - 2)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128) // Gray
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin
	widths := scaleWidths(def.Columns, usable)

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41) // Dark gray
	pdf.Cell(0, 10, tr(def.Title))
	pdf.Ln(12)

	// Metadata
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr("Generated: "+meta.GeneratedAt.Format(timestampFmt)))
	pdf.Ln(6)
	if meta.RequestedBy != "" {
		pdf.Cell(0, 6, tr("Requested by: "+meta.RequestedBy))
		pdf.Ln(6)
	}
	if period, ok := meta.Criteria.Period(); ok {
		pdf.Cell(0, 6, tr("Period: "+period))
		pdf.Ln(6)
	}
	if meta.Criteria.HasCategory() {
		pdf.Cell(0, 6, tr("Category: "+meta.Criteria.Category))
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total records: %d", len(records)))
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(33, 37, 41)
		pdf.SetFillColor(240, 240, 240) // Light gray background
		for i, col := range def.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight+1, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		pdf.SetFillColor(255, 255, 255)
	}
	header()

	limit := pageHeight - pdfMargin - pdfFooterSpace
	for _, record := range records {
		if pdf.GetY()+pdfRowHeight > limit {
			pdf.AddPage()
			header()
		}
		for i, col := range def.Columns {
			text := col.Value(record, lookups)
			if col.MaxChars > 0 {
				text = truncate(text, col.MaxChars)
			}
			text = fitWidth(pdf, tr(text), widths[i]-2)
			pdf.CellFormat(widths[i], pdfRowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pages := pdf.PageNo()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}

	return &Artifact{
		FileName:    fileName(def.Entity, meta.GeneratedAt, FormatPDF),
		ContentType: pdfContentType,
		Format:      FormatPDF,
		Records:     len(records),
		Pages:       pages,
		Data:        buf.Bytes(),
	}, nil
}

func scaleWidths[T any](columns []Column[T], usable float64) []float64 {
	var total float64
	for _, c := range columns {
		total += c.Width
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		if total == 0 {
			widths[i] = usable / float64(len(columns))
			continue
		}
		widths[i] = c.Width * usable / total
	}
	return widths
}

// truncate cuts s to at most n runes, ending in "..." when shortened.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// fitWidth shortens already translated text until it fits the cell.
func fitWidth(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
