package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Config is the root application configuration (SPEC_FULL.md §10), loaded
// with NewDefaultConfig -> LoadFromFiles -> applyEnvOverrides -> CLI flag
// overrides, in that increasing order of precedence.
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Engine      EngineConfig    `toml:"engine"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	HTTP        HTTPConfig      `toml:"http"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	CFBypass    CFBypassConfig  `toml:"cfbypass"`
	Sources     SourcesConfig   `toml:"sources"`
	Keys        KeysDirConfig   `toml:"keys"`
}

// ServerConfig holds the host and port reported as the service URL in the
// startup banner. cmd/bookscraper has no subcommand that listens on them.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// EngineConfig bounds the source engine's pagination loops and analysis
// cache (spec.md §4.8, §4.3).
type EngineConfig struct {
	MaxTocPages           int  `toml:"max_toc_pages"`
	MaxContentPages       int  `toml:"max_content_pages"`
	AnalysisCacheCapacity int  `toml:"analysis_cache_capacity"`
	EnableBrowser         bool `toml:"enable_browser"`
}

// StorageConfig groups the badger-backed collaborators (spec.md §3).
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Output     []string `toml:"output"`
	TimeFormat string   `toml:"time_format"`
}

// HTTPConfig configures the transport collaborator (spec.md §6 non-goal
// surface: HTTP details live outside the core).
type HTTPConfig struct {
	UserAgent          string        `toml:"user_agent"`
	RequestTimeout     time.Duration `toml:"request_timeout"`
	RateLimitPerSecond float64       `toml:"rate_limit_per_second"`
	RetryMax           int           `toml:"retry_max"`
	RetryBackoff       time.Duration `toml:"retry_backoff"`
}

// SchedulerConfig controls the periodic check(source) sweep
// (internal/scheduler).
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	CronSpec string `toml:"cron_spec"`
}

// CFBypassConfig configures the Cloudflare bypass side-channel
// (interfaces.CloudflareBypass, SPEC_FULL.md §12).
type CFBypassConfig struct {
	Enabled  bool          `toml:"enabled"`
	Endpoint string        `toml:"endpoint"`
	Timeout  time.Duration `toml:"timeout"`
}

// SourcesConfig points at the on-disk SourceSpec directory
// (internal/services/sources.FileStore).
type SourcesConfig struct {
	Dir string `toml:"dir"`
}

// NewDefaultConfig returns the baseline configuration LoadFromFiles starts
// from before any file, env, or CLI override is applied.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			MaxTocPages:           50,
			MaxContentPages:       20,
			AnalysisCacheCapacity: 4096,
			EnableBrowser:         true,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/bookscraper.db",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		HTTP: HTTPConfig{
			UserAgent:          "bookscraper/1.0",
			RequestTimeout:     30 * time.Second,
			RateLimitPerSecond: 5,
			RetryMax:           3,
			RetryBackoff:       500 * time.Millisecond,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			CronSpec: "0 */6 * * *",
		},
		CFBypass: CFBypassConfig{
			Enabled: false,
			Timeout: 30 * time.Second,
		},
		Sources: SourcesConfig{
			Dir: "./sources",
		},
		Keys: KeysDirConfig{
			Dir: "./keys",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env.
// kv may be nil, in which case {key-name} replacement is skipped.
func LoadFromFile(kv interfaces.KeyValueStore, path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles(kv)
	}
	return LoadFromFiles(kv, path)
}

// LoadFromFiles loads configuration from multiple TOML files in order
// (later files override earlier ones), applies {key-name} substitution
// from kv, then environment overrides. kv may be nil.
func LoadFromFiles(kv interfaces.KeyValueStore, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if kv != nil {
		ctx := context.Background()
		kvMap, err := kv.List(ctx, "")
		logger := arbor.NewLogger()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to list KV store for config replacement, skipping")
		} else if err := ReplaceInStruct(config, kvMap, logger); err != nil {
			logger.Warn().Err(err).Msg("failed to replace key references in config")
		} else {
			logger.Info().Int("keys", len(kvMap)).Msg("applied key/value replacements to config")
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies BOOKSCRAPER_* environment variables, the
// second-highest priority tier after CLI flags.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BOOKSCRAPER_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("BOOKSCRAPER_SERVER_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			config.Server.Port = v
		}
	}
	if host := os.Getenv("BOOKSCRAPER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if path := os.Getenv("BOOKSCRAPER_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if level := os.Getenv("BOOKSCRAPER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("BOOKSCRAPER_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if ua := os.Getenv("BOOKSCRAPER_HTTP_USER_AGENT"); ua != "" {
		config.HTTP.UserAgent = ua
	}
	if timeout := os.Getenv("BOOKSCRAPER_HTTP_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.HTTP.RequestTimeout = d
		}
	}
	if cronSpec := os.Getenv("BOOKSCRAPER_SCHEDULER_CRON_SPEC"); cronSpec != "" {
		config.Scheduler.CronSpec = cronSpec
	}
	if endpoint := os.Getenv("BOOKSCRAPER_CFBYPASS_ENDPOINT"); endpoint != "" {
		config.CFBypass.Endpoint = endpoint
	}
	if dir := os.Getenv("BOOKSCRAPER_SOURCES_DIR"); dir != "" {
		config.Sources.Dir = dir
	}
	if dir := os.Getenv("BOOKSCRAPER_KEYS_DIR"); dir != "" {
		config.Keys.Dir = dir
	}
}

// ApplyFlagOverrides applies CLI flag values, the highest-priority tier.
// A zero value for port or an empty host leaves the existing config value
// untouched.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction reports whether the config targets a production
// environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
