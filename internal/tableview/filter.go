package tableview

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// GlobalFilterKey is the JSON field holding the free-text search.
const GlobalFilterKey = "globalFilter"

// FilterDef is one filter dimension. By default a record passes when Value
// equals the filter value after case normalisation; Match replaces that test
// for dimensions that are not discrete, such as date bounds.
type FilterDef[T any] struct {
	Key     string
	Value   func(T) string
	Match   func(record T, value string) bool
	Options []string
}

// FilterState holds the active search and discrete filters. An empty value
// imposes no constraint.
type FilterState struct {
	GlobalFilter string
	Values       map[string]string
}

// Active reports whether any constraint is set.
func (s FilterState) Active() bool {
	if strings.TrimSpace(s.GlobalFilter) != "" {
		return true
	}
	for _, v := range s.Values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func (s FilterState) clone() FilterState {
	out := FilterState{GlobalFilter: s.GlobalFilter, Values: make(map[string]string, len(s.Values))}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	return out
}

// cacheKey is deterministic regardless of map ordering. Every part is
// quoted so separators inside user values cannot collide with another state.
func (s FilterState) cacheKey() string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(strconv.Quote(strings.ToLower(strings.TrimSpace(s.GlobalFilter))))
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(strings.ToLower(strings.TrimSpace(s.Values[k]))))
	}
	return b.String()
}

// MarshalJSON writes the flat layout {"globalFilter": "...", "<key>": "..."}.
func (s FilterState) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(s.Values)+1)
	for k, v := range s.Values {
		flat[k] = v
	}
	flat[GlobalFilterKey] = s.GlobalFilter
	return json.Marshal(flat)
}

func (s *FilterState) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if flat == nil {
		return fmt.Errorf("filter state must be a JSON object")
	}
	s.GlobalFilter = flat[GlobalFilterKey]
	delete(flat, GlobalFilterKey)
	s.Values = flat
	return nil
}

// emptyFilterState returns the all-empty state for the given filter keys.
func emptyFilterState(keys []string) FilterState {
	s := FilterState{Values: make(map[string]string, len(keys))}
	for _, k := range keys {
		s.Values[k] = ""
	}
	return s
}

// normalize keeps only the configured keys and fills the missing ones.
func (s FilterState) normalize(keys []string) FilterState {
	out := emptyFilterState(keys)
	out.GlobalFilter = s.GlobalFilter
	for _, k := range keys {
		out.Values[k] = s.Values[k]
	}
	return out
}

// matcher is the compiled predicate for one FilterState.
type matcher[T any] struct {
	search     string
	searchable []Renderer[T]
	discrete   []discreteMatch[T]
}

type discreteMatch[T any] struct {
	value func(T) string
	match func(T, string) bool
	raw   string
	want  string
}

func newMatcher[T any](state FilterState, columns []Column[T], filters []FilterDef[T]) matcher[T] {
	m := matcher[T]{search: strings.ToLower(strings.TrimSpace(state.GlobalFilter))}
	if m.search != "" {
		for _, c := range columns {
			if c.Searchable {
				m.searchable = append(m.searchable, c.Renderer)
			}
		}
	}
	for _, f := range filters {
		raw := strings.TrimSpace(state.Values[f.Key])
		if raw == "" {
			continue
		}
		m.discrete = append(m.discrete, discreteMatch[T]{
			value: f.Value,
			match: f.Match,
			raw:   raw,
			want:  strings.ToLower(raw),
		})
	}
	return m
}

// match is the conjunction of the search and every active discrete filter.
func (m matcher[T]) match(record T) bool {
	for _, d := range m.discrete {
		if d.match != nil {
			if !d.match(record, d.raw) {
				return false
			}
			continue
		}
		if strings.ToLower(strings.TrimSpace(d.value(record))) != d.want {
			return false
		}
	}
	if m.search == "" {
		return true
	}
	for _, r := range m.searchable {
		if strings.Contains(strings.ToLower(r.Cell(record).Text), m.search) {
			return true
		}
	}
	return false
}
