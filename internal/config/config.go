// Package config provides hierarchical configuration loading for RANForge.
// Precedence: defaults < YAML file < environment variables.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all runtime configuration for the RANForge orchestrator.
type Config struct {
	Server    Server    `yaml:"server"`
	State     State     `yaml:"state"`
	Workflows Workflows `yaml:"workflows"`
	Executor  Executor  `yaml:"executor"`
	Postgres  Postgres  `yaml:"postgres"`
	NATS      NATS      `yaml:"nats"`
	Cache     Cache     `yaml:"cache"`
	Tracing   Tracing   `yaml:"tracing"`
	Logging   Logging   `yaml:"logging"`
}

// Server holds HTTP server configuration for serve mode.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	// MaxConcurrentRuns caps how many workflow runs started over the API
	// may execute at once. Each stage spawns an agent CLI process.
	MaxConcurrentRuns int `yaml:"max_concurrent_runs"`
}

// State holds run state persistence configuration.
type State struct {
	// Dir is the base directory for run state files.
	Dir string `yaml:"dir"`
}

// Workflows holds workflow definition discovery configuration.
type Workflows struct {
	// Dir is an optional directory of YAML workflow definitions that
	// extend or override the built-in catalog.
	Dir string `yaml:"dir"`
}

// Executor holds agent executor configuration.
type Executor struct {
	// Binary is the CLI executable used to invoke agents.
	Binary string `yaml:"binary"`
}

// Postgres holds the optional run archive configuration.
// An empty DSN disables archiving.
type Postgres struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// NATS holds the optional event bus configuration.
// An empty URL disables event publishing.
type NATS struct {
	URL string `yaml:"url"`
}

// Cache holds the in-process definition cache configuration.
type Cache struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// Tracing holds the optional OpenTelemetry exporter configuration.
// An empty endpoint leaves tracing on the noop provider.
type Tracing struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:              "8080",
			CORSOrigin:        "http://localhost:3000",
			MaxConcurrentRuns: 4,
		},
		State: State{
			Dir: defaultStateDir(),
		},
		Executor: Executor{
			Binary: "claude",
		},
		Postgres: Postgres{
			MaxConns: 10,
			MinConns: 2,
		},
		Cache: Cache{
			MaxSizeMB: 16,
		},
		Logging: Logging{
			Level:   "info",
			Service: "ranforge",
		},
	}
}

// defaultStateDir resolves ~/.ranforge/runs, falling back to a relative
// path when the home directory is unknown.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ranforge/runs"
	}
	return filepath.Join(home, ".ranforge", "runs")
}
