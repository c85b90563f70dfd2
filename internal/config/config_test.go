package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.Dir)
	assert.Equal(t, "company-csv-data/", cfg.Store.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 12, cfg.EDGAR.TimeoutSecs)
	assert.Equal(t, 110, cfg.EDGAR.MinIntervalMs)
	assert.Equal(t, "https://www.sec.gov", cfg.EDGAR.WWWBaseURL)
	assert.Equal(t, "https://data.sec.gov", cfg.EDGAR.DataBaseURL)
	assert.Equal(t, "https://efts.sec.gov", cfg.EDGAR.SearchBaseURL)
	assert.Equal(t, "windowed", cfg.Locator.Policy)
	assert.Equal(t, 5, cfg.Locator.LookbackYears)
	assert.Equal(t, 10, cfg.Locator.MaxFilings)
	assert.Equal(t, 1000, cfg.Extract.MinFacts)
	assert.Empty(t, cfg.Extract.ExtraTaxonomies)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 0, cfg.Batch.Limit)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
  database_url: facts.db
log:
  level: debug
  format: console
locator:
  policy: fixed
  max_filings: 4
extract:
  extra_taxonomies:
    - http://fasb.org/abc
batch:
  concurrency: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "facts.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "fixed", cfg.Locator.Policy)
	assert.Equal(t, 4, cfg.Locator.MaxFilings)
	assert.Equal(t, []string{"http://fasb.org/abc"}, cfg.Extract.ExtraTaxonomies)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, 1000, cfg.Extract.MinFacts)
	assert.Equal(t, 5, cfg.Locator.LookbackYears)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FACTSYNC_STORE_DRIVER", "postgres")
	t.Setenv("FACTSYNC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FACTSYNC_EDGAR_USER_AGENT", "Example Research ops@example.com")
	t.Setenv("FACTSYNC_EXTRACT_MIN_FACTS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Example Research ops@example.com", cfg.EDGAR.UserAgent)
	assert.Equal(t, 250, cfg.Extract.MinFacts)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FACTSYNC_BATCH_CONCURRENCY=2\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FACTSYNC_BATCH_CONCURRENCY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.EDGAR.UserAgent = "Example Research ops@example.com"
	cfg.Locator.Policy = PolicyWindowed
	cfg.Store.Driver = DriverFile
	cfg.Store.Dir = "data"
	cfg.Batch.Concurrency = 4
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingUserAgent(t *testing.T) {
	cfg := validDefaults()
	cfg.EDGAR.UserAgent = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edgar.user_agent is required")
}

func TestValidate_UnknownPolicy(t *testing.T) {
	cfg := validDefaults()
	cfg.Locator.Policy = "quarterly"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locator.policy")
}

func TestValidate_SQLStoresNeedURL(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		cfg := validDefaults()
		cfg.Store.Driver = driver

		err := cfg.Validate()
		require.Error(t, err, driver)
		assert.Contains(t, err.Error(), "store.database_url is required")

		cfg.Store.DatabaseURL = "postgres://localhost/facts"
		assert.NoError(t, cfg.Validate(), driver)
	}
}

func TestValidate_B2(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = DriverB2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.b2.key_id")
	assert.Contains(t, err.Error(), "store.b2.bucket is required")

	cfg.Store.B2 = B2Config{KeyID: "k", ApplicationKey: "s", Bucket: "facts"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mongo"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `store.driver "mongo" is not supported`)
}

func TestValidate_Concurrency(t *testing.T) {
	cfg := validDefaults()
	cfg.Batch.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.concurrency")
}
