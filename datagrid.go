package gridengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that keys persisted query state.
const SessionCookie = "datagrid_session"

// Source supplies the full record collection of a grid.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// StaticSource serves a fixed collection.
type StaticSource []Record

func (s StaticSource) Records(context.Context) ([]Record, error) { return s, nil }

// StateStore persists query state between requests. Get returns nil when nothing is stored.
type StateStore interface {
	Get(ctx context.Context, key string) (*State, error)
	Set(ctx context.Context, key string, st State) error
}

// RowView is a rendered row.
type RowView struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// TableResult is the JSON body served for a grid page.
type TableResult struct {
	Title       string    `json:"title,omitempty"`
	Rows        []RowView `json:"rows"`
	Total       int       `json:"total"`
	Page        int       `json:"page"`
	RowsPerPage int       `json:"rowsPerPage"`
	Pages       int       `json:"pages"`
	Columns     []Header  `json:"columns"`
	State       State     `json:"state"`
}

// Handler serves grid pages and CSV exports over HTTP.
//
// Stored query state is keyed by session and Name, so every route serving the same
// grid sees the same filters and sort. Without a Name the request path is used.
type Handler struct {
	Name     string
	Engine   *Engine
	Source   Source
	Columns  Structure
	Defaults Window
	States   StateStore
	Title    string
	Logger   *slog.Logger
}

// NewHandler creates a Handler without state persistence.
func NewHandler(engine *Engine, src Source, cols Structure, defaults Window) *Handler {
	if engine == nil {
		engine = NewEngine()
	}
	return &Handler{
		Engine:   engine,
		Source:   src,
		Columns:  cols,
		Defaults: defaults,
		Logger:   engine.logger,
	}
}

// NewHandlerFromCatalog initializes a Handler from a JSON catalog file.
func NewHandlerFromCatalog(engine *Engine, src Source, catalogPath string, renderers map[string]RenderFunc) (*Handler, error) {
	cat, err := LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalogPath, err)
	}
	cols, err := cat.Structure(renderers)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", catalogPath, err)
	}
	h := NewHandler(engine, src, cols, cat.Defaults.Window())
	h.Title = cat.Title
	return h, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	win, explicit, err := h.ParseParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var stateKey string
	if h.States != nil {
		stateKey = h.sessionID(w, r) + ":" + firstOf(h.Name, r.URL.Path)
		if !explicit {
			st, err := h.States.Get(ctx, stateKey)
			if err != nil {
				h.logger().Error("load grid state", "key", stateKey, "error", err)
			} else if st != nil {
				win = st.Window()
			}
		}
	}

	records, err := h.Source.Records(ctx)
	if err != nil {
		h.fail(w, fmt.Errorf("load records: %w", err))
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
		if _, err := w.Write([]byte(h.Engine.Export(records, h.Columns, win))); err != nil {
			h.logger().Error("write grid export", "error", err)
		}
		return
	}

	res := h.Engine.Query(records, h.Columns, win)
	cells := h.Engine.Cells(res, h.Columns)

	out := TableResult{
		Title:       h.Title,
		Rows:        make([]RowView, len(res.Rows)),
		Total:       res.Total,
		Page:        res.Page,
		RowsPerPage: res.RowsPerPage,
		Pages:       res.Pages,
		Columns:     h.Engine.Headers(records, h.Columns),
		State:       win.State(),
	}
	for i, row := range res.Rows {
		out.Rows[i] = RowView{ID: row.ID, Cells: cells[i]}
	}

	if h.States != nil {
		if err := h.States.Set(ctx, stateKey, win.State()); err != nil {
			h.logger().Error("save grid state", "key", stateKey, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger().Error("encode grid page", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	h.logger().Error("grid request failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return sid
}

// ParseParams reads the query window from the request, starting from the handler
// defaults. explicit reports whether the request named any query parameter.
//
//	sort=key:asc|desc   (key alone or key: leaves the grid unsorted)
//	page=N rowsPerPage=N, or offset=N limit=N
//	filters=[{"path":"balance","operator":">","value":50}]
func (h *Handler) ParseParams(r *http.Request) (win Window, explicit bool, err error) {
	q := r.URL.Query()
	win = h.Defaults

	if q.Has("sort") {
		explicit = true
		win.Sort, err = ParseSort(q.Get("sort"))
		if err != nil {
			return Window{}, false, err
		}
	}

	if l := firstOf(q.Get("rowsPerPage"), q.Get("limit")); l != "" {
		explicit = true
		if win.RowsPerPage, err = parseCount("rowsPerPage", l); err != nil {
			return Window{}, false, err
		}
	}
	win.Page = 0
	if p := q.Get("page"); p != "" {
		explicit = true
		if win.Page, err = parseCount("page", p); err != nil {
			return Window{}, false, err
		}
	} else if o := q.Get("offset"); o != "" {
		explicit = true
		offset, err := parseCount("offset", o)
		if err != nil {
			return Window{}, false, err
		}
		if win.RowsPerPage > 0 {
			win.Page = offset / win.RowsPerPage
		}
	}

	if q.Has("filters") {
		explicit = true
		if win.ActiveFilters, err = ParseFilters(q.Get("filters")); err != nil {
			return Window{}, false, err
		}
	}
	return win, explicit, nil
}

// ParseSort reads "key:dir". A bare key or an empty direction leaves the grid unsorted.
func ParseSort(s string) (Sort, error) {
	key, dir, _ := strings.Cut(s, ":")
	sort := Sort{Key: strings.TrimSpace(key)}
	switch d := Direction(strings.ToLower(strings.TrimSpace(dir))); d {
	case "":
	case Asc, Desc:
		sort.Direction = d
	default:
		return Sort{}, &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown direction %q", dir), err: ErrInvalidDirection}
	}
	return sort, nil
}

func parseCount(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("expected a non-negative integer, got %q", s)}
	}
	return n, nil
}

// ParseFilters decodes a JSON array of filters, validating each and assigning IDs to
// those without one.
func ParseFilters(s string) ([]ActiveFilter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var filters []ActiveFilter
	if err := json.Unmarshal([]byte(s), &filters); err != nil {
		return nil, &ValidationError{Field: "filters", Message: "filters must be a JSON array", err: err}
	}
	for i := range filters {
		if err := filters[i].Validate(); err != nil {
			return nil, err
		}
		if filters[i].ID == "" {
			filters[i].ID = uuid.NewString()
		}
	}
	return filters, nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
