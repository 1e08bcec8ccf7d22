package gridengine

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed catalog.schema.json
var catalogSchema string

var ErrUnknownRenderer = errors.New("unknown renderer")

// Catalog is the declarative JSON description of a grid.
type Catalog struct {
	Version  string      `json:"version"`
	Title    string      `json:"title,omitempty"`
	Defaults Defaults    `json:"defaults"`
	Columns  []ColumnDef `json:"columns"`
}

// Defaults is the initial query of a catalog grid.
type Defaults struct {
	SortKey       string    `json:"sortKey,omitempty"`
	SortDirection Direction `json:"sortDirection,omitempty"`
	RowsPerPage   int       `json:"rowsPerPage,omitempty"`
}

// Window returns the default query window.
func (d Defaults) Window() Window {
	return Window{
		Sort:        Sort{Key: d.SortKey, Direction: d.SortDirection},
		RowsPerPage: d.RowsPerPage,
	}
}

// ColumnDef is a column in catalog form. Sorter, FilterColumn, Numerical and Monetary
// accept `true`, a path string, or (except Sorter) an object.
type ColumnDef struct {
	Key          string          `json:"key"`
	DataIndex    string          `json:"dataIndex,omitempty"`
	Title        string          `json:"title,omitempty"`
	Total        *TotalDef       `json:"total,omitempty"`
	Sorter       json.RawMessage `json:"sorter,omitempty"`
	FilterColumn json.RawMessage `json:"filterColumn,omitempty"`
	GroupBy      string          `json:"groupBy,omitempty"`
	Numerical    json.RawMessage `json:"numerical,omitempty"`
	Monetary     json.RawMessage `json:"monetary,omitempty"`
	Render       string          `json:"render,omitempty"` // name in the renderer registry
	ColGroup     []ColumnDef     `json:"colGroup,omitempty"`
}

// TotalDef turns the title into "<title> (<aggregate>)".
type TotalDef struct {
	Path string `json:"path"`
	Func string `json:"func,omitempty"`
}

type numericDef struct {
	Path             string `json:"path"`
	DecimalPlaces    *int   `json:"decimalPlaces"`
	MinDecimalPlaces *int   `json:"minDecimalPlaces"`
	MaxDecimalPlaces *int   `json:"maxDecimalPlaces"`
	Currency         string `json:"currency"`
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog validates data against the catalog schema and decodes it.
func ParseCatalog(data []byte) (*Catalog, error) {
	if err := ValidateCatalog(data); err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &cat, nil
}

// ValidateCatalog checks data against the embedded catalog schema. Schema violations are
// reported as a *ValidationError.
func ValidateCatalog(data []byte) error {
	return validateAgainst(gojsonschema.NewStringLoader(catalogSchema), data)
}

// ValidateCatalogWith checks data against an external schema file.
func ValidateCatalogWith(schemaPath string, data []byte) error {
	return validateAgainst(gojsonschema.NewReferenceLoader("file://"+schemaPath), data)
}

func validateAgainst(schema gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Field: "catalog", Message: "catalog does not match schema"}
	for _, desc := range result.Errors() {
		verr.Details = append(verr.Details, desc.String())
	}
	return verr
}

// Structure builds the column structure. Render names are looked up in renderers.
func (c *Catalog) Structure(renderers map[string]RenderFunc) (Structure, error) {
	cols := make([]Column, 0, len(c.Columns))
	for _, def := range c.Columns {
		col, err := def.column(renderers)
		if err != nil {
			return Structure{}, err
		}
		cols = append(cols, col)
	}
	return NewStructure(cols...)
}

func (d ColumnDef) column(renderers map[string]RenderFunc) (Column, error) {
	col := Column{
		Key:       d.Key,
		DataIndex: d.DataIndex,
		Title:     d.Title,
		GroupBy:   d.GroupBy,
	}
	if d.Total != nil {
		col.TitleFunc = TotalTitle(d.Title, d.Total.Path, d.Total.Func)
	}

	if d.ColGroup != nil {
		col.Members = make([]Column, 0, len(d.ColGroup))
		for _, m := range d.ColGroup {
			mc, err := m.column(renderers)
			if err != nil {
				return Column{}, err
			}
			col.Members = append(col.Members, mc)
		}
		return col, nil
	}

	var err error
	if col.Sorter, err = decodeSorter(d.Sorter); err != nil {
		return Column{}, fmt.Errorf("column %q sorter: %w", d.Key, err)
	}
	if col.Filter, err = decodeFilterColumn(d.FilterColumn); err != nil {
		return Column{}, fmt.Errorf("column %q filterColumn: %w", d.Key, err)
	}

	switch {
	case len(d.Monetary) > 0:
		n, ok, err := decodeNumeric(d.Monetary)
		if err != nil {
			return Column{}, fmt.Errorf("column %q monetary: %w", d.Key, err)
		}
		if ok {
			n.Monetary = true
			col.Value = n
		}
	case len(d.Numerical) > 0:
		n, ok, err := decodeNumeric(d.Numerical)
		if err != nil {
			return Column{}, fmt.Errorf("column %q numerical: %w", d.Key, err)
		}
		if ok {
			col.Value = n
		}
	}
	if col.Value == nil && d.Render != "" {
		fn, ok := renderers[d.Render]
		if !ok {
			return Column{}, fmt.Errorf("%w: %q in column %q", ErrUnknownRenderer, d.Render, d.Key)
		}
		col.Value = RenderValue{Render: fn}
	}
	return col, nil
}

func decodeSorter(raw json.RawMessage) (Sorter, error) {
	if len(raw) == 0 {
		return Sorter{}, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return Sorter{}, err
	}
	switch s := v.(type) {
	case nil:
		return Sorter{}, nil
	case bool:
		if s {
			return SortByDataIndex(), nil
		}
		return Sorter{}, nil
	case string:
		return SortByPath(s), nil
	}
	return Sorter{}, fmt.Errorf("unsupported value %s", raw)
}

func decodeFilterColumn(raw json.RawMessage) (*FilterColumn, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if s {
			return &FilterColumn{}, nil
		}
		return nil, nil
	case string:
		return &FilterColumn{Path: s}, nil
	case map[string]interface{}:
		var fc FilterColumn
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, err
		}
		if !fc.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, fc.Type)
		}
		return &fc, nil
	}
	return nil, fmt.Errorf("unsupported value %s", raw)
}

func decodeNumeric(raw json.RawMessage) (NumericValue, bool, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return NumericValue{}, false, err
	}
	switch s := v.(type) {
	case nil:
		return NumericValue{}, false, nil
	case bool:
		return NumericValue{}, s, nil
	case string:
		return NumericValue{Path: s}, true, nil
	case map[string]interface{}:
		var def numericDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return NumericValue{}, false, err
		}
		return NumericValue{
			Path:             def.Path,
			DecimalPlaces:    def.DecimalPlaces,
			MinDecimalPlaces: def.MinDecimalPlaces,
			MaxDecimalPlaces: def.MaxDecimalPlaces,
			Currency:         def.Currency,
		}, true, nil
	}
	return NumericValue{}, false, fmt.Errorf("unsupported value %s", raw)
}
