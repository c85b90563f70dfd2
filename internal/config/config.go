package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	EDGAR   EDGARConfig   `yaml:"edgar" mapstructure:"edgar"`
	Locator LocatorConfig `yaml:"locator" mapstructure:"locator"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// EDGARConfig configures access to the SEC endpoints.
type EDGARConfig struct {
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinIntervalMs int    `yaml:"min_interval_ms" mapstructure:"min_interval_ms"`
	WWWBaseURL    string `yaml:"www_base_url" mapstructure:"www_base_url"`
	DataBaseURL   string `yaml:"data_base_url" mapstructure:"data_base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// LocatorConfig selects and tunes the filing selection policy.
type LocatorConfig struct {
	Policy        string `yaml:"policy" mapstructure:"policy"`
	LookbackYears int    `yaml:"lookback_years" mapstructure:"lookback_years"`
	MaxFilings    int    `yaml:"max_filings" mapstructure:"max_filings"`
}

// ExtractConfig configures instance document extraction.
type ExtractConfig struct {
	MinFacts        int      `yaml:"min_facts" mapstructure:"min_facts"`
	ExtraTaxonomies []string `yaml:"extra_taxonomies" mapstructure:"extra_taxonomies"`
}

// StoreConfig configures the table storage backend.
type StoreConfig struct {
	Driver      string   `yaml:"driver" mapstructure:"driver"`
	Dir         string   `yaml:"dir" mapstructure:"dir"`
	Prefix      string   `yaml:"prefix" mapstructure:"prefix"`
	DatabaseURL string   `yaml:"database_url" mapstructure:"database_url"`
	B2          B2Config `yaml:"b2" mapstructure:"b2"`
}

// B2Config holds Backblaze B2 credentials for the object store driver.
type B2Config struct {
	KeyID          string `yaml:"key_id" mapstructure:"key_id"`
	ApplicationKey string `yaml:"application_key" mapstructure:"application_key"`
	Bucket         string `yaml:"bucket" mapstructure:"bucket"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	Limit       int `yaml:"limit" mapstructure:"limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverB2       = "b2"
)

// Locator policies.
const (
	PolicyWindowed = "windowed"
	PolicyFixed    = "fixed"
)

// Validate checks that the fields required by the configured drivers are set.
func (c *Config) Validate() error {
	var missing []string

	if c.EDGAR.UserAgent == "" {
		missing = append(missing, "edgar.user_agent is required")
	}

	switch c.Locator.Policy {
	case PolicyWindowed, PolicyFixed:
	default:
		missing = append(missing, fmt.Sprintf("locator.policy %q is not one of windowed, fixed", c.Locator.Policy))
	}

	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Dir == "" {
			missing = append(missing, "store.dir is required")
		}
	case DriverPostgres, DriverSQLite:
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required")
		}
	case DriverB2:
		if c.Store.B2.KeyID == "" || c.Store.B2.ApplicationKey == "" {
			missing = append(missing, "store.b2.key_id and store.b2.application_key are required")
		}
		if c.Store.B2.Bucket == "" {
			missing = append(missing, "store.b2.bucket is required")
		}
	default:
		missing = append(missing, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}

	if c.Batch.Concurrency < 1 {
		missing = append(missing, "batch.concurrency must be at least 1")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from an optional .env file, config.yaml and
// FACTSYNC_ environment variables.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FACTSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("edgar.user_agent", "")
	v.SetDefault("edgar.timeout_secs", 12)
	v.SetDefault("edgar.min_interval_ms", 110)
	v.SetDefault("edgar.www_base_url", "https://www.sec.gov")
	v.SetDefault("edgar.data_base_url", "https://data.sec.gov")
	v.SetDefault("edgar.search_base_url", "https://efts.sec.gov")
	v.SetDefault("locator.policy", PolicyWindowed)
	v.SetDefault("locator.lookback_years", 5)
	v.SetDefault("locator.max_filings", 10)
	v.SetDefault("extract.min_facts", 1000)
	v.SetDefault("extract.extra_taxonomies", []string{})
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.dir", "data")
	v.SetDefault("store.prefix", "company-csv-data/")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.b2.key_id", "")
	v.SetDefault("store.b2.application_key", "")
	v.SetDefault("store.b2.bucket", "")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.limit", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
