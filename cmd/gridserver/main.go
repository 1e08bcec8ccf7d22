package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"

	"github.com/gnemet/gridengine"
	"github.com/gnemet/gridengine/database/recordsource"
	"github.com/gnemet/gridengine/database/statestore"
	"github.com/gnemet/gridengine/internal/renderers"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.logLevel(),
		NoColor:    cfg.Logging.NoColor || runtime.GOOS == "windows",
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	tag, loc, err := cfg.locale()
	if err != nil {
		return err
	}
	opts := []gridengine.Option{
		gridengine.WithLocale(tag),
		gridengine.WithLocation(loc),
		gridengine.WithLogger(logger),
	}
	if cfg.Locale.Currency != "" {
		opts = append(opts, gridengine.WithCurrency(cfg.Locale.Currency))
	}
	engine := gridengine.NewEngine(opts...)

	var loader *recordsource.Loader
	if connStr := cfg.connString(); connStr != "" {
		maxConns, idle, abs := cfg.poolSettings()
		loader, err = recordsource.Open(connStr, maxConns, idle, abs)
		if err != nil {
			return err
		}
		defer loader.Close()
		loader.WithLogger(logger)
	}

	var states gridengine.StateStore = statestore.NewMemory()
	if cfg.State.Store == "postgres" {
		if loader == nil {
			return fmt.Errorf("postgres state store needs a default database")
		}
		pg := statestore.NewPostgres(loader.DB(), cfg.State.Table)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pg.Init(ctx); err != nil {
			return err
		}
		states = pg
	}

	mux := http.NewServeMux()
	for _, g := range cfg.Grids {
		var src gridengine.Source
		if g.Query != "" {
			if loader == nil {
				return fmt.Errorf("grid %q queries a database but none is configured", g.Name)
			}
			src = loader.Source(g.Query)
		} else {
			src = recordsource.File(g.Data)
		}

		h, err := gridengine.NewHandlerFromCatalog(engine, src, g.Catalog, renderers.Registry)
		if err != nil {
			return err
		}
		h.Name = g.Name
		h.States = states
		h.Logger = logger.With("grid", g.Name)

		mux.Handle("/list/"+g.Name, h)
		mux.Handle("/export/"+g.Name, exportHandler(h))
		logger.Info("grid registered", "name", g.Name, "catalog", g.Catalog, "title", h.Title)
	}

	logger.Info("Server starting", "app", cfg.Application.Name, "version", cfg.Application.Version,
		"url", "http://localhost:"+cfg.Server.Port)
	return http.ListenAndServe(":"+cfg.Server.Port, mux)
}

// exportHandler serves the grid as CSV regardless of the format parameter.
func exportHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		q := r2.URL.Query()
		q.Set("format", "csv")
		r2.URL.RawQuery = q.Encode()
		h.ServeHTTP(w, r2)
	})
}
