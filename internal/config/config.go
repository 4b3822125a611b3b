package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input      string           `yaml:"input" mapstructure:"input"`
	Resume     string           `yaml:"resume" mapstructure:"resume"`
	Output     string           `yaml:"output" mapstructure:"output"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Schema     SchemaConfig     `yaml:"schema" mapstructure:"schema"`
	SerpAPI    SerpAPIConfig    `yaml:"serpapi" mapstructure:"serpapi"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the company summary cache.
type CacheConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	BackupPath string `yaml:"backup_path" mapstructure:"backup_path"`
}

// SchemaConfig configures the persisted extraction schema.
type SchemaConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"` // 0 = never expires
}

// SerpAPIConfig holds SerpAPI search settings.
type SerpAPIConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	Engine          string  `yaml:"engine" mapstructure:"engine"`
	ResultCount     int     `yaml:"result_count" mapstructure:"result_count"`
	MinIntervalSecs float64 `yaml:"min_interval_secs" mapstructure:"min_interval_secs"`
}

// GenerationConfig holds text-generation settings.
type GenerationConfig struct {
	Provider        string  `yaml:"provider" mapstructure:"provider"` // "anthropic" or "fireworks"
	Style           string  `yaml:"style" mapstructure:"style"`       // "delimiter" or "json"
	AnthropicKey    string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel  string  `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	FireworksKey    string  `yaml:"fireworks_key" mapstructure:"fireworks_key"`
	FireworksModel  string  `yaml:"fireworks_model" mapstructure:"fireworks_model"`
	FireworksURL    string  `yaml:"fireworks_url" mapstructure:"fireworks_url"`
	MaxTokens       int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	MinIntervalSecs float64 `yaml:"min_interval_secs" mapstructure:"min_interval_secs"`
}

// FetchConfig configures the page renderer.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	SaveEvery        int     `yaml:"save_every" mapstructure:"save_every"`
	RowDelaySecs     float64 `yaml:"row_delay_secs" mapstructure:"row_delay_secs"`
	RequestCharLimit int     `yaml:"request_char_limit" mapstructure:"request_char_limit"`
}

// RetryConfig configures retry behavior for external calls.
type RetryConfig struct {
	MaxAttempts    int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelaySecs  float64 `yaml:"base_delay_secs" mapstructure:"base_delay_secs"`
	MaxElapsedSecs float64 `yaml:"max_elapsed_secs" mapstructure:"max_elapsed_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// RowDelay returns the inter-row delay as a duration.
func (b BatchConfig) RowDelay() time.Duration {
	return time.Duration(b.RowDelaySecs * float64(time.Second))
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys that default to empty still need an entry here:
	// AutomaticEnv only surfaces env values for keys viper knows about.
	v.SetDefault("input", "")
	v.SetDefault("resume", "")
	v.SetDefault("output", "")
	v.SetDefault("serpapi.key", "")
	v.SetDefault("generation.anthropic_key", "")
	v.SetDefault("generation.fireworks_key", "")
	v.SetDefault("cache.path", "company_cache.txt")
	v.SetDefault("cache.backup_path", "company_cache.backup.txt")
	v.SetDefault("schema.path", "extraction_schema.json")
	v.SetDefault("schema.max_age_days", 0)
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.engine", "google")
	v.SetDefault("serpapi.result_count", 5)
	v.SetDefault("serpapi.min_interval_secs", 1.0)
	v.SetDefault("generation.provider", "anthropic")
	v.SetDefault("generation.style", "delimiter")
	v.SetDefault("generation.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("generation.fireworks_model", "accounts/fireworks/models/gpt-oss-120b")
	v.SetDefault("generation.fireworks_url", "https://api.fireworks.ai/inference/v1")
	v.SetDefault("generation.max_tokens", 1024)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.min_interval_secs", 1.0)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_body_bytes", 512*1024)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; OutreachBot/1.0)")
	v.SetDefault("batch.save_every", 5)
	v.SetDefault("batch.row_delay_secs", 1.0)
	v.SetDefault("batch.request_char_limit", 300)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay_secs", 1.0)
	v.SetDefault("retry.max_elapsed_secs", 60.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that required settings for a batch run are present.
// Missing credentials abort the run before any row is touched.
func (c *Config) Validate() error {
	var missing []string

	if c.Input == "" {
		missing = append(missing, "input (leads spreadsheet path)")
	}
	if c.Resume == "" {
		missing = append(missing, "resume (resume text path)")
	}
	if c.SerpAPI.Key == "" {
		missing = append(missing, "OUTREACH_SERPAPI_KEY (person research)")
	}
	switch c.Generation.Provider {
	case "anthropic":
		if c.Generation.AnthropicKey == "" {
			missing = append(missing, "OUTREACH_GENERATION_ANTHROPIC_KEY (generation)")
		}
	case "fireworks":
		if c.Generation.FireworksKey == "" {
			missing = append(missing, "OUTREACH_GENERATION_FIREWORKS_KEY (generation)")
		}
	default:
		return eris.Errorf("config: unknown generation provider %q (want anthropic or fireworks)", c.Generation.Provider)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.File)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
