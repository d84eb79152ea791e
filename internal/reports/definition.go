package reports

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"assetdesk/internal/lookup"
)

// Format selects the artifact type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts the route spelling of a format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// Column is one column of both artifacts. Width is relative; MaxChars, when
// set, truncates the value in the PDF.
type Column[T any] struct {
	Header   string
	Width    float64
	MaxChars int
	Value    func(record T, lookups *lookup.Index) string
}

// Definition describes how one entity is reported.
type Definition[T any] struct {
	Entity      string
	Title       string
	Sheet       string
	Columns     []Column[T]
	DateOf      func(T) time.Time
	CategoryOf  func(T) string
	GroupHeader string
	GroupOf     func(record T, lookups *lookup.Index) string
}

// Meta is stamped on every artifact.
type Meta struct {
	GeneratedAt time.Time
	RequestedBy string
	Criteria    Criteria
}

// Artifact is a generated file.
type Artifact struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Format      Format `json:"format"`
	Records     int    `json:"records"`
	Pages       int    `json:"pages,omitempty"`
	Data        []byte `json:"-"`
}

// GroupCount is one row of the summary breakdown.
type GroupCount struct {
	Key   string
	Count int
}

// Breakdown counts records per group key. Every distinct key appears once
// and the counts sum to len(records).
func Breakdown[T any](records []T, groupOf func(T, *lookup.Index) string, lookups *lookup.Index) []GroupCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[groupOf(r, lookups)]++
	}
	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupCount{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b GroupCount) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Build filters records with the meta criteria and generates the artifact.
func Build[T any](def Definition[T], records []T, format Format, lookups *lookup.Index, meta Meta) (*Artifact, error) {
	if err := meta.Criteria.Validate(); err != nil {
		return nil, err
	}
	filtered := Filter(records, meta.Criteria, def.DateOf, def.CategoryOf)
	if len(filtered) == 0 {
		return nil, ErrNoMatches
	}

	switch format {
	case FormatPDF:
		return GenerateDocument(def, filtered, lookups, meta)
	case FormatXLSX:
		return GenerateWorkbook(def, filtered, lookups, meta)
	}
	return nil, ErrUnsupportedFormat
}

func fileName(entity string, generatedAt time.Time, format Format) string {
	return entity + "_" + strconv.FormatInt(generatedAt.UnixMilli(), 10) + "." + string(format)
}
