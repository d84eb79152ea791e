package reports

import (
	"strings"
	"time"
)

// AllCategories is the selector value that imposes no category constraint.
const AllCategories = "all"

const dateLayout = "2006-01-02"

// Criteria narrows the records of one report. Bounds have calendar-day
// granularity and are inclusive.
type Criteria struct {
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Category string     `json:"category,omitempty"`
}

// Validate rejects a period whose start falls after its end.
func (c Criteria) Validate() error {
	if c.Start != nil && c.End != nil && startOfDay(*c.Start).After(endOfDay(*c.End)) {
		return ErrInvalidPeriod
	}
	return nil
}

// HasCategory reports whether the category selector constrains anything.
func (c Criteria) HasCategory() bool {
	cat := strings.TrimSpace(c.Category)
	return cat != "" && !strings.EqualFold(cat, AllCategories)
}

// Period renders the date bounds, or false when neither is set.
func (c Criteria) Period() (string, bool) {
	switch {
	case c.Start != nil && c.End != nil:
		return c.Start.Format(dateLayout) + " to " + c.End.Format(dateLayout), true
	case c.Start != nil:
		return "from " + c.Start.Format(dateLayout), true
	case c.End != nil:
		return "until " + c.End.Format(dateLayout), true
	}
	return "", false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Filter returns the records inside the criteria as a new slice. dateOf and
// categoryOf may be nil for reports without that dimension.
func Filter[T any](records []T, c Criteria, dateOf func(T) time.Time, categoryOf func(T) string) []T {
	var start, end time.Time
	hasStart := c.Start != nil && dateOf != nil
	hasEnd := c.End != nil && dateOf != nil
	if hasStart {
		start = startOfDay(*c.Start)
	}
	if hasEnd {
		end = endOfDay(*c.End)
	}
	category := strings.TrimSpace(c.Category)
	hasCategory := c.HasCategory() && categoryOf != nil

	out := make([]T, 0, len(records))
	for _, r := range records {
		if hasStart || hasEnd {
			t := dateOf(r)
			if hasStart && t.Before(start) {
				continue
			}
			if hasEnd && t.After(end) {
				continue
			}
		}
		if hasCategory && categoryOf(r) != category {
			continue
		}
		out = append(out, r)
	}
	return out
}
