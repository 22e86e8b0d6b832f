package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willfong/sample-data-generator/internal/config"
	"github.com/willfong/sample-data-generator/internal/logger"
	"github.com/willfong/sample-data-generator/internal/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	// v holds layered settings: defaults, config file, SAMPLEDATA_* env, flags
	v = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sampledata",
	Short: "Synthetic personal-finance transaction generator",
	Long: `Generate a year of realistic personal-finance transactions from a small
set of recurring rules (definitions).

Each definition names payees, a schedule (Weekly, Monthly, SemiMonthly...),
date and amount jitter, a category and a yearly amount. Definitions sharing
a group key become one multi-split transaction, such as a paycheck with
its withholdings.

Output goes to a directory of CSV sheets, a SQLite file or an Excel
workbook, and optionally to an OFX statement and a MySQL/MariaDB database.

Settings come from flags, SAMPLEDATA_* environment variables, and
sampledata.yaml (or --config), in that order of precedence.

Example usage:
  sampledata generate --seed 42 --output ./output
  sampledata generate --output finance.db --ofx statement.ofx
  sampledata import --input ./output --db "user:pass@tcp(host:3306)/finance"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init(v, cfgFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./sampledata.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (debug logging)")
	flags.BoolVar(&noColor, "no-color", false, "disable colors and animations")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console or json)")

	mustBind(v.BindPFlag("log.level", flags.Lookup("log-level")))
	mustBind(v.BindPFlag("log.format", flags.Lookup("log-format")))

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	// Set version template
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// mustBind panics when a flag cannot be bound; flag names are static, so
// that only happens on a typo.
func mustBind(err error) {
	if err != nil {
		panic(err)
	}
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}

// newUI creates the terminal UI honoring --no-color
func newUI() *ui.UI {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}
	return u
}

// loadConfig reads and validates the layered configuration and returns the
// command's context carrying a logger built from it. --verbose raises the
// level to debug.
func loadConfig(cmd *cobra.Command) (*config.Config, context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, ctx, err
	}
	if verbose {
		cfg.Log.Level = zerolog.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, ctx, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, ctx, err
	}
	return cfg, logger.WithContext(ctx, log), nil
}

// fail prints err in the UI's error style and exits 1
func fail(u *ui.UI, err error) {
	fmt.Fprintln(os.Stderr, u.Error(err.Error()))
	Exit(1)
}

// Exit with code
func Exit(code int) {
	os.Exit(code)
}
