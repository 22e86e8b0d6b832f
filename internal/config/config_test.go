package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   []string
	}{
		{
			name:   "negative workers",
			modify: func(c *Config) { c.Generate.Workers = -1 },
			want:   []string{"generate.workers"},
		},
		{
			name:   "year out of range",
			modify: func(c *Config) { c.Generate.Year = 10000 },
			want:   []string{"generate.year"},
		},
		{
			name: "pool settings",
			modify: func(c *Config) {
				c.Database.MaxOpenConns = 2
				c.Database.MaxIdleConns = 3
			},
			want: []string{"database.max_idle_conns should not exceed"},
		},
		{
			name: "several at once",
			modify: func(c *Config) {
				c.Output.Path = ""
				c.Output.XZPreset = 12
				c.Log.Level = "loud"
				c.Log.Format = "xml"
			},
			want: []string{"output.path", "output.xz_preset", "log.level", "log.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			msg := err.Error()
			if !strings.HasPrefix(msg, "validation errors:\n  - ") {
				t.Errorf("unexpected format: %q", msg)
			}
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("error %q does not mention %q", msg, w)
				}
			}
			if got := strings.Count(msg, "\n  - "); got != len(tt.want) {
				t.Errorf("got %d bullets, want %d", got, len(tt.want))
			}
		})
	}
}

func TestInitReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `generate:
  year: 2023
  seed: 42
  bank_references: true
output:
  path: out.db
database:
  conn_max_lifetime: 90s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Generate.Year != 2023 || cfg.Generate.Seed != 42 || !cfg.Generate.BankReferences {
		t.Errorf("Generate = %+v", cfg.Generate)
	}
	if cfg.Output.Path != "out.db" || cfg.Output.XZPreset != DefaultXZPreset {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Database.ConnMaxLifetime != 90*time.Second || cfg.Database.MaxOpenConns != DBMaxOpenConns {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestInitMissingFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit missing config file")
	}
}

func TestInitEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SAMPLEDATA_GENERATE_YEAR", "2021")
	t.Setenv("SAMPLEDATA_LOG_LEVEL", "debug")

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generate.Year != 2021 {
		t.Errorf("Year = %d, want 2021", cfg.Generate.Year)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Output.Path != DefaultOutput {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
}
