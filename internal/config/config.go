package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SAMPLEDATA_GENERATE_YEAR.
const EnvPrefix = "SAMPLEDATA"

// FileName is the config file looked up in the working directory when none is given.
const FileName = "sampledata"

// Config holds all configuration for the sample data generator
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// GenerateConfig holds data generation settings
type GenerateConfig struct {
	// Generation year (0 = current calendar year)
	Year int `mapstructure:"year"`

	// Random seed for reproducibility (0 = random)
	Seed int64 `mapstructure:"seed"`

	// Parallelism for generation (0 = auto-detect CPUs)
	Workers int `mapstructure:"workers"`

	// Definitions workbook: a CSV directory, SQLite file or .xlsx workbook. Empty uses the built-in sample.
	Definitions string `mapstructure:"definitions"`

	BankReferences bool `mapstructure:"bank_references"`
}

// OutputConfig holds where generated sheets go
type OutputConfig struct {
	// CSV directory, or a .db/.sqlite/.xlsx file
	Path string `mapstructure:"path"`

	Compress bool `mapstructure:"compress"`
	XZPreset int  `mapstructure:"xz_preset"`

	// Optional OFX statement file
	OFX string `mapstructure:"ofx"`
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	// Connection string (DSN)
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Year:           DefaultYear,
			Seed:           DefaultSeed,
			Workers:        DefaultWorkers,
			BankReferences: DefaultBankReferences,
		},
		Output: OutputConfig{
			Path:     DefaultOutput,
			Compress: DefaultCompress,
			XZPreset: DefaultXZPreset,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    DBMaxOpenConns,
			MaxIdleConns:    DBMaxIdleConns,
			ConnMaxLifetime: DBConnMaxLifetime,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// SetDefaults registers every default with v so environment variables can
// override keys that never appear in a config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("generate.year", d.Generate.Year)
	v.SetDefault("generate.seed", d.Generate.Seed)
	v.SetDefault("generate.workers", d.Generate.Workers)
	v.SetDefault("generate.definitions", d.Generate.Definitions)
	v.SetDefault("generate.bank_references", d.Generate.BankReferences)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.compress", d.Output.Compress)
	v.SetDefault("output.xz_preset", d.Output.XZPreset)
	v.SetDefault("output.ofx", d.Output.OFX)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", d.Database.ConnMaxLifetime)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Init prepares v: defaults, SAMPLEDATA_ environment variables, and the config
// file. An explicit file must exist; the default sampledata.yaml is optional.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load reads configuration from v into a Config struct
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	if c.Generate.Year < 0 || c.Generate.Year > 9999 {
		errs = append(errs, "generate.year must be between 0 and 9999")
	}
	if c.Generate.Workers < 0 {
		errs = append(errs, "generate.workers must be non-negative")
	}

	if c.Output.Path == "" {
		errs = append(errs, "output.path must not be empty")
	}
	if c.Output.XZPreset < 0 || c.Output.XZPreset > 9 {
		errs = append(errs, "output.xz_preset must be 0-9")
	}

	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, "database.max_open_conns must be >= 1")
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, "database.max_idle_conns must be >= 0")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "database.max_idle_conns should not exceed max_open_conns")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be console or json (got %q)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	result := errs[0]
	for i := 1; i < len(errs); i++ {
		result += "\n  - " + errs[i]
	}
	return result
}
