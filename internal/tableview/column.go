package tableview

// CellKind tells the front end how to draw a cell.
type CellKind string

const (
	CellText    CellKind = "text"
	CellBadge   CellKind = "badge"
	CellLookup  CellKind = "lookup"
	CellActions CellKind = "actions"
)

// Cell is the display value of one column for one record.
type Cell struct {
	Kind    CellKind `json:"kind"`
	Text    string   `json:"text"`
	Variant string   `json:"variant,omitempty"`
	Actions []string `json:"actions,omitempty"`
}

// Renderer produces the header label and the cells of a column.
type Renderer[T any] interface {
	Header() string
	Cell(record T) Cell
}

// Column binds a renderer to table behaviour. SortValue returns the natural
// ordering value (string, integer, float, time.Time or nil); when it is nil
// the rendered text is used.
type Column[T any] struct {
	Key        string
	Renderer   Renderer[T]
	SortValue  func(T) any
	Searchable bool
	Sortable   bool
	Hideable   bool
}

// TextColumn renders a plain string field.
type TextColumn[T any] struct {
	Label string
	Value func(T) string
}

func (c TextColumn[T]) Header() string { return c.Label }

func (c TextColumn[T]) Cell(record T) Cell {
	return Cell{Kind: CellText, Text: c.Value(record)}
}

// BadgeColumn renders an enumerated value with a variant picked from Variants.
type BadgeColumn[T any] struct {
	Label    string
	Value    func(T) string
	Variants map[string]string
}

func (c BadgeColumn[T]) Header() string { return c.Label }

func (c BadgeColumn[T]) Cell(record T) Cell {
	v := c.Value(record)
	variant, ok := c.Variants[v]
	if !ok {
		variant = "default"
	}
	return Cell{Kind: CellBadge, Text: v, Variant: variant}
}

// LookupColumn renders a foreign key through Resolve.
type LookupColumn[T any] struct {
	Label   string
	Resolve func(T) string
}

func (c LookupColumn[T]) Header() string { return c.Label }

func (c LookupColumn[T]) Cell(record T) Cell {
	return Cell{Kind: CellLookup, Text: c.Resolve(record)}
}

// ActionColumn renders the row action menu.
type ActionColumn[T any] struct {
	Label   string
	Actions func(T) []string
}

func (c ActionColumn[T]) Header() string { return c.Label }

func (c ActionColumn[T]) Cell(record T) Cell {
	return Cell{Kind: CellActions, Actions: c.Actions(record)}
}
