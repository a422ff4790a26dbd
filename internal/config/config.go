package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ReferenceConfig locates the reference tables.
type ReferenceConfig struct {
	// Source is "files" (read the spreadsheets) or "store" (read the last
	// snapshot saved by the import command).
	Source               string `yaml:"source" mapstructure:"source"`
	Professions          string `yaml:"professions" mapstructure:"professions"`
	ProfessionsSheet     string `yaml:"professions_sheet" mapstructure:"professions_sheet"`
	Classifications      string `yaml:"classifications" mapstructure:"classifications"`
	ClassificationsSheet string `yaml:"classifications_sheet" mapstructure:"classifications_sheet"`
	Installations        string `yaml:"installations" mapstructure:"installations"`
	CSVDelimiter         string `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	TempDir              string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// StoreConfig configures the snapshot database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures remote source downloads.
type FetchConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerHost float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROBOTEXP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("reference.source", "files")
	v.SetDefault("reference.professions", "MATCHING_Prof_Robot_19012021.xlsx")
	v.SetDefault("reference.professions_sheet", "Tabella_MATCHING")
	v.SetDefault("reference.classifications", "IFR_Classification_Application.xlsx")
	v.SetDefault("reference.classifications_sheet", "")
	v.SetDefault("reference.installations", "robots_it.csv")
	v.SetDefault("reference.csv_delimiter", ",")
	v.SetDefault("reference.temp_dir", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "robot-exposure.db")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("fetch.user_agent", "robot-exposure/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_host", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_per_second", 20)
	v.SetDefault("server.rate_burst", 40)
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

// Validate checks the settings required by the given mode: "serve",
// "import" or "lookup". All problems are reported together.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Reference.Source {
	case "files":
		if c.Reference.Professions == "" {
			errs = append(errs, "reference.professions is required")
		}
		if c.Reference.Classifications == "" {
			errs = append(errs, "reference.classifications is required")
		}
		if c.Reference.Installations == "" {
			errs = append(errs, "reference.installations is required")
		}
	case "store":
	default:
		errs = append(errs, fmt.Sprintf("reference.source must be files or store, got %q", c.Reference.Source))
	}

	if utf8.RuneCountInString(c.Reference.CSVDelimiter) > 1 {
		errs = append(errs, fmt.Sprintf("reference.csv_delimiter must be a single character, got %q", c.Reference.CSVDelimiter))
	}

	if c.Reference.Source == "store" || mode == "import" {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RatePerSecond < 0 || c.Server.RateBurst < 0 {
			errs = append(errs, "server.rate_per_second and server.rate_burst must be >= 0")
		}
	case "import":
		if c.Reference.Source == "store" {
			errs = append(errs, "import reads the source files; reference.source must be files")
		}
	case "lookup":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Delimiter returns the configured CSV delimiter rune, 0 for the default.
func (r ReferenceConfig) Delimiter() rune {
	for _, c := range r.CSVDelimiter {
		return c
	}
	return 0
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
