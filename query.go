package gridengine

import (
	"errors"
	"fmt"
)

// Type is a canonical filter/sort type.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
)

// Operator is a filter operator. The string values are wire stable.
type Operator string

const (
	OpExists       Operator = "exists"
	OpNotExists    Operator = "!exists"
	OpContains     Operator = "~"
	OpNotContains  Operator = "!~"
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

var (
	ErrInvalidOperator  = errors.New("invalid filter operator")
	ErrInvalidType      = errors.New("invalid filter type")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// Valid reports whether t is one of the canonical types. The empty type is valid and
// compares raw values.
func (t Type) Valid() bool {
	switch t {
	case "", TypeString, TypeNumber, TypeBoolean, TypeDate:
		return true
	}
	return false
}

// Valid reports whether op belongs to the operator vocabulary.
func (op Operator) Valid() bool {
	switch op {
	case OpExists, OpNotExists, OpContains, OpNotContains, OpEqual, OpNotEqual,
		OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

// ActiveFilter is one predicate applied to the dataset.
type ActiveFilter struct {
	ID       string      `json:"id"`
	Path     string      `json:"path"`
	Type     Type        `json:"type,omitempty"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Validate checks the operator and type vocabulary.
func (f ActiveFilter) Validate() error {
	if f.Path == "" {
		return &ValidationError{Field: "path", Message: "filter path is required"}
	}
	if !f.Operator.Valid() {
		return &ValidationError{Field: "operator", Message: fmt.Sprintf("unknown operator %q", f.Operator), err: ErrInvalidOperator}
	}
	if !f.Type.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", f.Type), err: ErrInvalidType}
	}
	return nil
}

// Direction is a sort direction. The empty direction means unsorted.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the requested ordering.
type Sort struct {
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether the sort changes the order at all.
func (s Sort) Active() bool {
	return s.Key != "" && (s.Direction == Asc || s.Direction == Desc)
}

// Window is a complete query: ordering, filters and the page to show.
// RowsPerPage zero returns every row.
type Window struct {
	Sort          Sort           `json:"sort"`
	ActiveFilters []ActiveFilter `json:"activeFilters"`
	Page          int            `json:"page"`
	RowsPerPage   int            `json:"rowsPerPage,omitempty"`
}

// State is the serializable snapshot of a Window a host may persist.
type State struct {
	SortKey       string         `json:"sortKey,omitempty"`
	SortDirection Direction      `json:"sortDirection,omitempty"`
	Limit         int            `json:"limit,omitempty"`
	Skip          int            `json:"skip"`
	ColumnFilters []ActiveFilter `json:"columnFilters"`
}

// State snapshots the window.
func (w Window) State() State {
	filters := w.ActiveFilters
	if filters == nil {
		filters = []ActiveFilter{}
	}
	return State{
		SortKey:       w.Sort.Key,
		SortDirection: w.Sort.Direction,
		Limit:         w.RowsPerPage,
		Skip:          w.Page * w.RowsPerPage,
		ColumnFilters: filters,
	}
}

// Window restores the query window from a snapshot.
func (s State) Window() Window {
	w := Window{
		Sort:          Sort{Key: s.SortKey, Direction: s.SortDirection},
		ActiveFilters: s.ColumnFilters,
		RowsPerPage:   s.Limit,
	}
	if s.Limit > 0 {
		w.Page = s.Skip / s.Limit
	}
	return w
}
