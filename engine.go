// Package gridengine filters, sorts, pages and renders in-memory record collections for
// data grids, and serves them over HTTP from declarative JSON catalogs.
package gridengine

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"
)

var defaultLocale = language.English

// Engine applies query windows to in-memory record collections. It holds no per-query
// state; one Engine may serve many grids.
type Engine struct {
	locale   language.Tag
	location *time.Location
	currency string
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale sets the locale for text collation and number formatting.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.locale = tag }
}

// WithLocation sets the time zone whose midnight date filters compare against.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithCurrency sets the currency of monetary columns that do not name one.
func WithCurrency(code string) Option {
	return func(e *Engine) { e.currency = code }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		locale:   defaultLocale,
		location: time.UTC,
		currency: DefaultCurrency,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Row is a record with its identity. Index is the position in the unfiltered collection,
// so IDs derived from it survive filtering and sorting.
type Row struct {
	Record Record
	ID     string
	Index  int
}

func rowsOf(records []Record) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Record: rec, ID: RowID(rec, i), Index: i}
	}
	return rows
}

func rowRecord(r Row) Record { return r.Record }

// Result is one page of a query.
type Result struct {
	Rows        []Row
	Total       int // matching rows before pagination
	Page        int
	RowsPerPage int
	Pages       int
}

// Records returns the page records.
func (r *Result) Records() []Record {
	out := make([]Record, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Record
	}
	return out
}

// Cell is a resolved cell. A Span of 0 means the cell is covered by the row above.
type Cell struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Span  int         `json:"span"`
}

// Header describes a leaf column for the presentation layer.
type Header struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Group      string `json:"group,omitempty"` // key of the enclosing column group
	GroupTitle string `json:"groupTitle,omitempty"`
	Sortable   bool   `json:"sortable"`
	FilterPath string `json:"filterPath,omitempty"`
	FilterType Type   `json:"filterType,omitempty"`
}

// Query filters, sorts and pages records.
func (e *Engine) Query(records []Record, cols Structure, w Window) *Result {
	rows := e.arrange(records, cols, w)
	page := window(rows, w.RowsPerPage, w.Page)

	e.logger.Debug("grid query",
		"records", len(records),
		"matched", len(rows),
		"filters", len(w.ActiveFilters),
		"sort", w.Sort.Key,
		"direction", w.Sort.Direction,
		"page", w.Page,
		"rowsPerPage", w.RowsPerPage)

	return &Result{
		Rows:        page,
		Total:       len(rows),
		Page:        w.Page,
		RowsPerPage: w.RowsPerPage,
		Pages:       PageCount(len(rows), w.RowsPerPage),
	}
}

// arrange filters and sorts without paging.
func (e *Engine) arrange(records []Record, cols Structure, w Window) []Row {
	rows := filterIn(rowsOf(records), rowRecord, w.ActiveFilters, e.location)
	return sortIn(rows, rowRecord, w.Sort, cols, e.locale)
}

// Cells resolves every visible cell of the page. Row spans are computed over the page
// so a group cut by a page boundary starts again on the next page.
func (e *Engine) Cells(res *Result, cols Structure) [][]Cell {
	values := newResolver(e.locale, e.currency, e.logger)
	page := res.Records()
	flat := cols.Flatten()

	out := make([][]Cell, len(res.Rows))
	for i, row := range res.Rows {
		cells := make([]Cell, len(flat))
		for j, c := range flat {
			cells[j] = Cell{Key: c.Key, Span: CellSpan(c, page, i)}
			if cells[j].Span > 0 {
				cells[j].Value = values.resolve(c, row.Record, row.ID, row.Index, false)
			}
		}
		out[i] = cells
	}
	return out
}

// Value resolves one cell for display.
func (e *Engine) Value(col Column, row Row) interface{} {
	return newResolver(e.locale, e.currency, e.logger).resolve(col, row.Record, row.ID, row.Index, false)
}

// Export renders the whole filtered and sorted collection, ignoring pagination, as CSV.
// Dynamic titles see the full dataset.
func (e *Engine) Export(records []Record, cols Structure, w Window) string {
	rows := e.arrange(records, cols, w)
	csv := newResolver(e.locale, e.currency, e.logger).csv(rows, records, cols)
	e.logger.Debug("grid export", "rows", len(rows), "columns", len(cols.Flatten()))
	return csv
}

// Headers lists the leaf columns with titles resolved against records.
func (e *Engine) Headers(records []Record, cols Structure) []Header {
	var out []Header
	add := func(c Column, group *Column) {
		h := Header{Key: c.Key, Title: c.ResolveTitle(records), Sortable: c.Sorter.Sortable()}
		if group != nil {
			h.Group = group.Key
			h.GroupTitle = group.ResolveTitle(records)
		}
		if path, typ, ok := c.FilterTarget(); ok {
			h.FilterPath, h.FilterType = path, typ
		}
		out = append(out, h)
	}
	for _, c := range cols.Columns() {
		if !c.IsGroup() {
			add(c, nil)
			continue
		}
		for _, m := range c.Members {
			add(m, &c)
		}
	}
	return out
}
