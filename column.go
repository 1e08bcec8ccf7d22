package gridengine

import (
	"errors"
	"fmt"
)

// Record is one row of grid data. Nested fields are addressed with dot paths.
type Record = map[string]interface{}

// Structure errors
var (
	ErrMissingKey        = errors.New("column key is required")
	ErrDuplicateKey      = errors.New("duplicate column key")
	ErrNestedColumnGroup = errors.New("column group cannot contain another column group")
	ErrEmptyColumnGroup  = errors.New("column group has no members")
	ErrGroupWithValue    = errors.New("column group cannot carry its own value source")
	ErrNoValueSource     = errors.New("column has no value source")
)

// RenderFunc produces a cell value. isExport is true when the value ends up in a CSV file.
type RenderFunc func(rec Record, isExport bool, rowID string, rowIndex int) interface{}

// RowSpanFunc overrides the group-derived row span of a cell.
type RowSpanFunc func(rec Record, index int, all []Record) int

// Comparator orders two records ascending; negative when a sorts before b.
type Comparator func(a, b Record) int

// Value is the closed set of column value sources: PathValue, RenderValue, NumericValue.
type Value interface {
	valueSource()
}

// PathValue reads the cell straight from the record.
type PathValue struct {
	Path string
}

// RenderValue delegates to a host supplied callback.
type RenderValue struct {
	Render RenderFunc
}

// NumericValue formats a number found at Path (or the column DataIndex).
type NumericValue struct {
	Path             string
	DecimalPlaces    *int
	MinDecimalPlaces *int
	MaxDecimalPlaces *int
	Currency         string // empty means plain decimal formatting
	Monetary         bool   // currency formatting with the engine default currency
}

func (PathValue) valueSource()    {}
func (RenderValue) valueSource()  {}
func (NumericValue) valueSource() {}

type sorterKind int

const (
	sortNone sorterKind = iota
	sortDataIndex
	sortPath
	sortFunc
)

// Sorter describes how a column sorts. The zero value is not sortable.
type Sorter struct {
	kind sorterKind
	path string
	cmp  Comparator
}

// SortByDataIndex sorts naturally on the column DataIndex.
func SortByDataIndex() Sorter { return Sorter{kind: sortDataIndex} }

// SortByPath sorts naturally on an alternate path.
func SortByPath(path string) Sorter { return Sorter{kind: sortPath, path: path} }

// SortWith sorts with a custom ascending comparator.
func SortWith(cmp Comparator) Sorter { return Sorter{kind: sortFunc, cmp: cmp} }

// Sortable reports whether the sorter is set.
func (s Sorter) Sortable() bool { return s.kind != sortNone }

// FilterColumn marks a column as filterable. Empty Path means the column DataIndex,
// empty Type means string.
type FilterColumn struct {
	Path string `json:"path,omitempty"`
	Type Type   `json:"type,omitempty"`
}

// Column describes one grid column or a column group.
type Column struct {
	Key       string
	DataIndex string
	Title     string
	TitleFunc func(records []Record) string // takes precedence over Title
	Sorter    Sorter
	Filter    *FilterColumn
	GroupBy   string
	RowSpan   RowSpanFunc
	Value     Value    // nil means PathValue{DataIndex}
	Members   []Column // non-empty for a column group
}

// IsGroup reports whether the column is a column group.
func (c Column) IsGroup() bool { return len(c.Members) > 0 }

// Source returns the effective value source of a leaf column.
func (c Column) Source() Value {
	if c.Value != nil {
		return c.Value
	}
	if c.DataIndex != "" {
		return PathValue{Path: c.DataIndex}
	}
	return nil
}

// ResolveTitle returns the static title or evaluates the dynamic one against the dataset.
func (c Column) ResolveTitle(records []Record) string {
	if c.TitleFunc != nil {
		return c.TitleFunc(records)
	}
	return c.Title
}

// FilterTarget returns the path and canonical type used when filtering on this column.
func (c Column) FilterTarget() (path string, typ Type, ok bool) {
	if c.Filter == nil {
		return "", "", false
	}
	path = c.Filter.Path
	if path == "" {
		path = c.DataIndex
	}
	typ = c.Filter.Type
	if typ == "" {
		typ = TypeString
	}
	return path, typ, path != ""
}

// Structure is a validated, ordered column list.
type Structure struct {
	columns []Column
	flat    []Column
}

// NewStructure validates the column list.
func NewStructure(cols ...Column) (Structure, error) {
	seen := make(map[string]bool)
	flat := make([]Column, 0, len(cols))

	check := func(c Column) error {
		if c.Key == "" {
			return ErrMissingKey
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, c.Key)
		}
		seen[c.Key] = true
		return nil
	}

	for _, c := range cols {
		if err := check(c); err != nil {
			return Structure{}, err
		}
		if c.Members == nil {
			if c.Source() == nil {
				return Structure{}, fmt.Errorf("%w: %q", ErrNoValueSource, c.Key)
			}
			flat = append(flat, c)
			continue
		}

		if len(c.Members) == 0 {
			return Structure{}, fmt.Errorf("%w: %q", ErrEmptyColumnGroup, c.Key)
		}
		if c.Value != nil || c.DataIndex != "" {
			return Structure{}, fmt.Errorf("%w: %q", ErrGroupWithValue, c.Key)
		}
		for _, m := range c.Members {
			if m.Members != nil {
				return Structure{}, fmt.Errorf("%w: %q in %q", ErrNestedColumnGroup, m.Key, c.Key)
			}
			if err := check(m); err != nil {
				return Structure{}, err
			}
			if m.Source() == nil {
				return Structure{}, fmt.Errorf("%w: %q", ErrNoValueSource, m.Key)
			}
			flat = append(flat, m)
		}
	}

	return Structure{columns: cols, flat: flat}, nil
}

// MustStructure is NewStructure that panics on a malformed column list.
func MustStructure(cols ...Column) Structure {
	s, err := NewStructure(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns the top level columns, groups included.
func (s Structure) Columns() []Column { return s.columns }

// Flatten returns the leaf columns with column groups expanded in place.
func (s Structure) Flatten() []Column { return s.flat }

// Lookup finds the leaf column whose key or data index equals key.
func (s Structure) Lookup(key string) (Column, bool) {
	for _, c := range s.flat {
		if c.Key == key {
			return c, true
		}
	}
	for _, c := range s.flat {
		if c.DataIndex != "" && c.DataIndex == key {
			return c, true
		}
	}
	return Column{}, false
}
