package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Application struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"application"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level   string `yaml:"level"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"logging"`
	Locale struct {
		Language string `yaml:"language"`
		Timezone string `yaml:"timezone"`
		Currency string `yaml:"currency"`
	} `yaml:"locale"`
	Database []struct {
		Name     string `yaml:"name"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		Schema   string `yaml:"schema"`
		Default  bool   `yaml:"default"`
	} `yaml:"database"`
	Pool struct {
		MaxConnections int    `yaml:"max_connections"`
		IdleTimeout    string `yaml:"idle_timeout"`
		AbsTimeout     string `yaml:"abs_timeout"`
	} `yaml:"pool"`
	State struct {
		Store string `yaml:"store"` // memory or postgres
		Table string `yaml:"table"`
	} `yaml:"state"`
	Grids []GridConfig `yaml:"grids"`
}

// GridConfig binds a catalog to its records: a SQL query against the default
// database, or a JSON file.
type GridConfig struct {
	Name    string `yaml:"name"`
	Catalog string `yaml:"catalog"`
	Query   string `yaml:"query"`
	Data    string `yaml:"data"`
}

func loadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // Ignore error as it might not exist in prod

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	for _, g := range cfg.Grids {
		if g.Name == "" || g.Catalog == "" {
			return nil, fmt.Errorf("grid %q: name and catalog are required", g.Name)
		}
		if (g.Query == "") == (g.Data == "") {
			return nil, fmt.Errorf("grid %q: exactly one of query or data is required", g.Name)
		}
	}
	return &cfg, nil
}

// connString returns the DSN of the default database, or "" when none is configured.
func (c *Config) connString() string {
	for _, d := range c.Database {
		if d.Default {
			schema := d.Schema
			if schema == "" {
				schema = "public"
			}
			return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=%s,public",
				d.Host, d.Port, d.User, d.Password, d.Database, schema)
		}
	}
	return ""
}

func (c *Config) poolSettings() (maxConns int, idle, abs time.Duration) {
	idle, _ = time.ParseDuration(c.Pool.IdleTimeout)
	if idle == 0 {
		idle = 5 * time.Minute
	}
	abs, _ = time.ParseDuration(c.Pool.AbsTimeout)
	if abs == 0 {
		abs = 1 * time.Hour
	}
	maxConns = c.Pool.MaxConnections
	if maxConns == 0 {
		maxConns = 10
	}
	return maxConns, idle, abs
}

func (c *Config) logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) locale() (language.Tag, *time.Location, error) {
	tag := language.English
	if c.Locale.Language != "" {
		t, err := language.Parse(c.Locale.Language)
		if err != nil {
			return tag, nil, fmt.Errorf("locale language: %w", err)
		}
		tag = t
	}
	loc := time.UTC
	if c.Locale.Timezone != "" {
		l, err := time.LoadLocation(c.Locale.Timezone)
		if err != nil {
			return tag, nil, fmt.Errorf("locale timezone: %w", err)
		}
		loc = l
	}
	return tag, loc, nil
}
