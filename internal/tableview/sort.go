package tableview

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SortKey is one (column, direction) pair.
type SortKey struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

// SortState is the ordered list of sort keys. Only the first entry is
// applied.
type SortState []SortKey

func (s SortState) cacheKey() string {
	if len(s) == 0 {
		return "-"
	}
	if s[0].Desc {
		return strconv.Quote(s[0].Column) + ":desc"
	}
	return strconv.Quote(s[0].Column) + ":asc"
}

// toggle cycles none -> asc -> desc -> none for one column. Activating a
// different column starts over at asc.
func (s SortState) toggle(column string) SortState {
	if len(s) == 0 || s[0].Column != column {
		return SortState{{Column: column}}
	}
	if !s[0].Desc {
		return SortState{{Column: column, Desc: true}}
	}
	return nil
}

// compareValues orders two natural values. nil sorts after everything.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			if c := strings.Compare(strings.ToLower(x), strings.ToLower(y)); c != 0 {
				return c
			}
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case *time.Time:
		if y, ok := b.(*time.Time); ok {
			return compareValues(derefTime(x), derefTime(y))
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func derefTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case *int64:
		if n == nil {
			return 0, false
		}
		return float64(*n), true
	}
	return 0, false
}
