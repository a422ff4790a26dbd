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

	assert.Equal(t, "files", cfg.Reference.Source)
	assert.Equal(t, "MATCHING_Prof_Robot_19012021.xlsx", cfg.Reference.Professions)
	assert.Equal(t, "Tabella_MATCHING", cfg.Reference.ProfessionsSheet)
	assert.Equal(t, "IFR_Classification_Application.xlsx", cfg.Reference.Classifications)
	assert.Equal(t, "robots_it.csv", cfg.Reference.Installations)
	assert.Equal(t, ',', cfg.Reference.Delimiter())
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "robot-exposure.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.InDelta(t, 20.0, cfg.Server.RatePerSecond, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
reference:
  source: store
  installations: https://example.com/robots_it.csv
  csv_delimiter: ";"
store:
  driver: postgres
  database_url: postgres://localhost/robots
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "store", cfg.Reference.Source)
	assert.Equal(t, "https://example.com/robots_it.csv", cfg.Reference.Installations)
	assert.Equal(t, ';', cfg.Reference.Delimiter())
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, "Tabella_MATCHING", cfg.Reference.ProfessionsSheet)
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

	t.Setenv("ROBOTEXP_STORE_DRIVER", "postgres")
	t.Setenv("ROBOTEXP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ROBOTEXP_SERVER_PORT", "3000")
	t.Setenv("ROBOTEXP_REFERENCE_PROFESSIONS", "ftp://ftp.example.com/matching.xlsx")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "ftp://ftp.example.com/matching.xlsx", cfg.Reference.Professions)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
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
	cfg.Reference.Source = "files"
	cfg.Reference.Professions = "matching.xlsx"
	cfg.Reference.Classifications = "ifr.xlsx"
	cfg.Reference.Installations = "robots.csv"
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "robots.db"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateFiles_MissingSources(t *testing.T) {
	cfg := validDefaults()
	cfg.Reference.Professions = ""
	cfg.Reference.Installations = ""

	err := cfg.Validate("lookup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.professions is required")
	assert.Contains(t, err.Error(), "reference.installations is required")
	assert.NotContains(t, err.Error(), "reference.classifications")
}

func TestValidateStoreSource(t *testing.T) {
	cfg := validDefaults()
	cfg.Reference.Source = "store"
	cfg.Reference.Professions = ""
	assert.NoError(t, cfg.Validate("lookup"), "file locations are not needed when serving from the store")

	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("lookup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "robots.db"
	cfg.Store.Driver = "mysql"
	err = cfg.Validate("lookup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestValidateImport(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("import"))

	cfg.Reference.Source = "store"
	err := cfg.Validate("import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.source must be files")
}

func TestValidateBadSourceAndDelimiter(t *testing.T) {
	cfg := validDefaults()
	cfg.Reference.Source = "s3"
	cfg.Reference.CSVDelimiter = ";;"

	err := cfg.Validate("lookup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.source must be files or store")
	assert.Contains(t, err.Error(), "csv_delimiter")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestDelimiter_Empty(t *testing.T) {
	assert.Equal(t, rune(0), ReferenceConfig{}.Delimiter())
}
