// Package config resolves tasktree settings from defaults, an optional YAML
// file and TASKTREE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Backends a Config may select.
const (
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config is the resolved runtime configuration.
type Config struct {
	DBPath   string
	Backend  string
	API      APIConfig
	Log      LogConfig
	Priority PriorityConfig
}

// APIConfig configures the REST task backend.
type APIConfig struct {
	URL        string
	TimeoutMs  int
	MaxRetries int
}

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Level  string
	Format string
}

// PriorityConfig selects the reorder failure policy. With RetainOnFailure
// a failed save keeps the pending order so it can be retried.
type PriorityConfig struct {
	RetainOnFailure bool
}

// fileConfig mirrors config.yaml. Pointer fields distinguish an explicit zero
// from an absent key.
type fileConfig struct {
	DB      string `yaml:"db"`
	Backend string `yaml:"backend"`
	API     struct {
		URL        string `yaml:"url"`
		TimeoutMs  *int   `yaml:"timeout_ms"`
		MaxRetries *int   `yaml:"max_retries"`
	} `yaml:"api"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Priority struct {
		RetainOnFailure *bool `yaml:"retain_on_failure"`
	} `yaml:"priority"`
}

// Default returns the configuration used when nothing is overridden: a local
// SQLite store under ~/.tasktree.
func Default() Config {
	return Config{
		DBPath:  defaultDBPath(),
		Backend: BackendSQLite,
		API: APIConfig{
			URL:        "http://localhost:8080",
			TimeoutMs:  5000,
			MaxRetries: 1,
		},
		Log: LogConfig{Level: "warn", Format: logging.FormatText},
	}
}

// DefaultPath returns ~/.tasktree/config.yaml.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".tasktree", "config.yaml")
}

// Overrides holds command-line values that take precedence over both the
// file and the environment. Empty fields leave the loaded value alone.
type Overrides struct {
	DBPath  string
	Backend string
	APIURL  string
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides is Load with flag values merged in after the environment.
// Validation runs once, on the merged result.
func LoadWithOverrides(path string, o Overrides) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	applyOverrides(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o Overrides) {
	cfg.DBPath = domain.CoalesceStr(o.DBPath, cfg.DBPath)
	cfg.Backend = domain.CoalesceStr(strings.ToLower(o.Backend), cfg.Backend)
	cfg.API.URL = domain.CoalesceStr(o.APIURL, cfg.API.URL)
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.DBPath = domain.CoalesceStr(fc.DB, cfg.DBPath)
	cfg.Backend = domain.CoalesceStr(fc.Backend, cfg.Backend)
	cfg.API.URL = domain.CoalesceStr(fc.API.URL, cfg.API.URL)
	cfg.API.TimeoutMs = domain.IntFromPtrWithDefault(cfg.API.TimeoutMs, fc.API.TimeoutMs)
	cfg.API.MaxRetries = domain.IntFromPtrWithDefault(cfg.API.MaxRetries, fc.API.MaxRetries)
	cfg.Log.Level = domain.CoalesceStr(fc.Log.Level, cfg.Log.Level)
	cfg.Log.Format = domain.CoalesceStr(fc.Log.Format, cfg.Log.Format)
	if fc.Priority.RetainOnFailure != nil {
		cfg.Priority.RetainOnFailure = *fc.Priority.RetainOnFailure
	}
	return nil
}

// applyEnv overlays TASKTREE_* variables. Unparseable numbers and booleans
// are ignored, leaving the earlier value in place.
func applyEnv(cfg *Config) {
	cfg.DBPath = domain.CoalesceStr(os.Getenv("TASKTREE_DB"), cfg.DBPath)
	cfg.Backend = domain.CoalesceStr(strings.ToLower(os.Getenv("TASKTREE_BACKEND")), cfg.Backend)
	cfg.API.URL = domain.CoalesceStr(os.Getenv("TASKTREE_API_URL"), cfg.API.URL)
	cfg.Log.Level = domain.CoalesceStr(os.Getenv("TASKTREE_LOG_LEVEL"), cfg.Log.Level)
	cfg.Log.Format = domain.CoalesceStr(os.Getenv("TASKTREE_LOG_FORMAT"), cfg.Log.Format)

	if v := os.Getenv("TASKTREE_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutMs = n
		}
	}
	if v := os.Getenv("TASKTREE_API_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.API.MaxRetries = n
		}
	}
	if v := os.Getenv("TASKTREE_RETAIN_ON_FAILURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Priority.RetainOnFailure = b
		}
	}
}

// Validate reports every problem at once, joined and wrapped in ErrInvalid.
func (c Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db path is required for the sqlite backend"))
		}
	case BackendHTTP:
		if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("api url %q must be an absolute http(s) URL", c.API.URL))
		}
	default:
		errs = append(errs, fmt.Errorf("backend %q must be %s or %s", c.Backend, BackendSQLite, BackendHTTP))
	}
	if c.API.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("api timeout_ms must be positive, got %d", c.API.TimeoutMs))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api max_retries must be non-negative, got %d", c.API.MaxRetries))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func defaultDBPath() string {
	return filepath.Join(homeDir(), ".tasktree", "tasktree.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
