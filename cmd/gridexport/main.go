package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/gnemet/gridengine"
	"github.com/gnemet/gridengine/database/recordsource"
	"github.com/gnemet/gridengine/internal/renderers"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// grid is everything a command needs to query one catalog.
type grid struct {
	engine  *gridengine.Engine
	cols    gridengine.Structure
	window  gridengine.Window
	records []gridengine.Record
}

func getString(cmd *cobra.Command, name string) string {
	result, _ := cmd.Flags().GetString(name)
	return result
}

func getInt(cmd *cobra.Command, name string) int {
	result, _ := cmd.Flags().GetInt(name)
	return result
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
}

// loadGrid reads the catalog and the records, and applies --sort and --filters over
// the catalog defaults.
func loadGrid(cmd *cobra.Command) (*grid, error) {
	logger := newLogger(cmd)

	tag, err := language.Parse(getString(cmd, "locale"))
	if err != nil {
		return nil, fmt.Errorf("locale: %w", err)
	}
	engine := gridengine.NewEngine(
		gridengine.WithLocale(tag),
		gridengine.WithCurrency(getString(cmd, "currency")),
		gridengine.WithLogger(logger))

	cat, err := gridengine.LoadCatalog(getString(cmd, "catalog"))
	if err != nil {
		return nil, err
	}
	cols, err := cat.Structure(renderers.Registry)
	if err != nil {
		return nil, err
	}

	win := cat.Defaults.Window()
	if cmd.Flags().Changed("sort") {
		if win.Sort, err = gridengine.ParseSort(getString(cmd, "sort")); err != nil {
			return nil, err
		}
	}
	if win.ActiveFilters, err = gridengine.ParseFilters(getString(cmd, "filters")); err != nil {
		return nil, err
	}

	var src gridengine.Source
	switch dsn, data := getString(cmd, "dsn"), getString(cmd, "data"); {
	case dsn != "":
		loader, err := recordsource.Open(dsn, 2, time.Minute, 10*time.Minute)
		if err != nil {
			return nil, err
		}
		defer loader.Close()
		src = loader.WithLogger(logger).Source(getString(cmd, "query"))
	case data != "":
		src = recordsource.File(data)
	default:
		return nil, fmt.Errorf("one of --data or --dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	records, err := src.Records(ctx)
	if err != nil {
		return nil, err
	}
	return &grid{engine: engine, cols: cols, window: win, records: records}, nil
}

func output(cmd *cobra.Command) (*os.File, func()) {
	out := getString(cmd, "out")
	if out == "" || out == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(out)
	if err != nil {
		fatal("%s", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fatal("%s", err)
		}
	}
}

func exportCSV(cmd *cobra.Command, args []string) {
	g, err := loadGrid(cmd)
	if err != nil {
		fatal("%s", err)
	}
	f, done := output(cmd)
	defer done()
	if _, err := f.WriteString(g.engine.Export(g.records, g.cols, g.window)); err != nil {
		fatal("%s", err)
	}
}

type pageOutput struct {
	Columns []gridengine.Header  `json:"columns"`
	Rows    []gridengine.RowView `json:"rows"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	Pages   int                  `json:"pages"`
	State   gridengine.State     `json:"state"`
}

func showPage(cmd *cobra.Command, args []string) {
	g, err := loadGrid(cmd)
	if err != nil {
		fatal("%s", err)
	}
	if cmd.Flags().Changed("rows") {
		g.window.RowsPerPage = getInt(cmd, "rows")
	}
	g.window.Page = getInt(cmd, "page")

	res := g.engine.Query(g.records, g.cols, g.window)
	cells := g.engine.Cells(res, g.cols)
	out := pageOutput{
		Columns: g.engine.Headers(g.records, g.cols),
		Rows:    make([]gridengine.RowView, len(res.Rows)),
		Total:   res.Total,
		Page:    res.Page,
		Pages:   res.Pages,
		State:   g.window.State(),
	}
	for i, row := range res.Rows {
		out.Rows[i] = gridengine.RowView{ID: row.ID, Cells: cells[i]}
	}

	f, done := output(cmd)
	defer done()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("%s", err)
	}
}

func listChoices(cmd *cobra.Command, args []string) {
	g, err := loadGrid(cmd)
	if err != nil {
		fatal("%s", err)
	}
	f, done := output(cmd)
	defer done()
	for _, item := range gridengine.FilterChoices(g.records, args[0]) {
		fmt.Fprintf(f, "%s\t%d\n", item.Label, item.Count)
	}
}

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export the filtered and sorted grid as CSV",
		Args:  cobra.NoArgs,
		Run:   exportCSV}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "page",
		Short: "Print one page of resolved cells as JSON",
		Args:  cobra.NoArgs,
		Run:   showPage}
	cmd.Flags().Int("page", 0, "zero-based page index")
	cmd.Flags().Int("rows", 0, "rows per page (default: catalog default)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "choices path",
		Short: "List the distinct values at path with their counts",
		Args:  cobra.ExactArgs(1),
		Run:   listChoices}
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "gridexport", Short: "Query grid catalogs from the command line"}
	root.PersistentFlags().String("catalog", "", "catalog file")
	root.PersistentFlags().String("data", "", "JSON file holding an array of records")
	root.PersistentFlags().String("dsn", "", "Postgres connection string")
	root.PersistentFlags().String("query", "", "SQL query returning the records (with --dsn)")
	root.PersistentFlags().String("sort", "", "sort as key:asc|desc (default: catalog default)")
	root.PersistentFlags().String("filters", "", `filters as JSON, e.g. [{"path":"balance","operator":">","value":50}]`)
	root.PersistentFlags().String("locale", "en", "BCP 47 locale for collation and number formatting")
	root.PersistentFlags().String("currency", gridengine.DefaultCurrency, "currency of monetary columns")
	root.PersistentFlags().StringP("out", "o", "-", "output file")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	root.MarkPersistentFlagRequired("catalog")
	addCommands(root)
	root.Execute()
}
