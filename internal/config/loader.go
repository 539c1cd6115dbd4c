package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/RANForge/ranforge/internal/secrets"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "ranforge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "RANFORGE_PORT")
	setString(&cfg.Server.CORSOrigin, "RANFORGE_CORS_ORIGIN")
	setInt(&cfg.Server.MaxConcurrentRuns, "RANFORGE_MAX_RUNS")
	setString(&cfg.State.Dir, "RANFORGE_STATE_DIR")
	setString(&cfg.Workflows.Dir, "RANFORGE_WORKFLOWS_DIR")
	setString(&cfg.Executor.Binary, "RANFORGE_AGENT_BINARY")
	setInt32(&cfg.Postgres.MaxConns, "RANFORGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "RANFORGE_PG_MIN_CONNS")
	setInt64(&cfg.Cache.MaxSizeMB, "RANFORGE_CACHE_SIZE_MB")
	setString(&cfg.Tracing.OTLPEndpoint, "RANFORGE_OTLP_ENDPOINT")
	setString(&cfg.Logging.Level, "RANFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "RANFORGE_LOG_SERVICE")

	// Credential-bearing values are read through the secrets vault.
	vault, err := secrets.NewVault(secrets.EnvLoader("DATABASE_URL", "NATS_URL"))
	if err != nil {
		return
	}
	if v := vault.Get("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := vault.Get("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
}

// validate checks that required fields are set. Postgres and NATS stay
// optional; empty values disable those adapters.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.State.Dir == "" {
		return errors.New("state.dir is required")
	}
	if cfg.Executor.Binary == "" {
		return errors.New("executor.binary is required")
	}
	if cfg.Postgres.DSN != "" && cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	if cfg.Server.MaxConcurrentRuns < 1 {
		return errors.New("server.max_concurrent_runs must be >= 1")
	}
	return nil
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
