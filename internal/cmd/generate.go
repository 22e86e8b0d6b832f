package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willfong/sample-data-generator/internal/config"
	"github.com/willfong/sample-data-generator/internal/data"
	"github.com/willfong/sample-data-generator/internal/generator"
	"github.com/willfong/sample-data-generator/internal/logger"
	"github.com/willfong/sample-data-generator/internal/tabular"
	"github.com/willfong/sample-data-generator/internal/ui"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a year of transactions from definitions",
	Long: `Generate transactions, splits, payees and budget lines for one year.

Definitions are read from the Definitions sheet of a workbook: a directory
holding Definitions.csv (or .csv.xz), a SQLite file with a Definitions
table, or an .xlsx workbook with a Definitions sheet. Without --definitions
the built-in sample household is used.

Output sheets:
- Transaction   one row per transaction (ID set on multi-split ones)
- Split         category lines of multi-split transactions
- Payee         distinct payees with their default category
- BudgetTx      yearly total per category

A fixed --seed gives identical output for any --workers value.

Example:
  sampledata generate --seed 42
  sampledata generate --definitions ./household --year 2023 --output 2023.db
  sampledata generate --ofx statement.ofx --bank-references
  sampledata generate --db "user:pass@tcp(localhost:3306)/finance"`,
	Run: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.String("definitions", "", "definitions workbook: CSV directory, .db or .xlsx file (default: built-in sample)")
	flags.Int("year", config.DefaultYear, "year to generate (0 = current year)")
	flags.Int64("seed", config.DefaultSeed, "random seed for reproducibility (0 = random)")
	flags.Int("workers", config.DefaultWorkers, "number of parallel workers (0 = auto-detect CPUs)")
	flags.Bool("bank-references", config.DefaultBankReferences, "give every transaction a random bank reference")
	flags.String("output", config.DefaultOutput, "output CSV directory, or a .db/.sqlite/.xlsx file")
	flags.Bool("compress", config.DefaultCompress, "compress CSV output with xz (creates .csv.xz files)")
	flags.String("ofx", "", "also write an OFX statement to this file")
	flags.String("db", "", "also load the output into this MySQL/MariaDB DSN")

	mustBind(v.BindPFlag("generate.definitions", flags.Lookup("definitions")))
	mustBind(v.BindPFlag("generate.year", flags.Lookup("year")))
	mustBind(v.BindPFlag("generate.seed", flags.Lookup("seed")))
	mustBind(v.BindPFlag("generate.workers", flags.Lookup("workers")))
	mustBind(v.BindPFlag("generate.bank_references", flags.Lookup("bank-references")))
	mustBind(v.BindPFlag("output.path", flags.Lookup("output")))
	mustBind(v.BindPFlag("output.compress", flags.Lookup("compress")))
	mustBind(v.BindPFlag("output.ofx", flags.Lookup("ofx")))
	mustBind(v.BindPFlag("database.dsn", flags.Lookup("db")))
}

func runGenerate(cmd *cobra.Command, args []string) {
	u := newUI()

	cfg, ctx, err := loadConfig(cmd)
	if err != nil {
		fail(u, err)
	}

	// Check xz availability if compression is requested
	if cfg.Output.Compress && tabular.IsCSVDir(cfg.Output.Path) {
		if err := tabular.CheckXZAvailable(); err != nil {
			fmt.Fprintln(os.Stderr, u.Error("xz compression requested but xz is not available"))
			fmt.Fprintln(os.Stderr, "Install with: apt install xz-utils (Linux) or brew install xz (macOS)")
			Exit(1)
		}
	}

	bar := u.NewProgressBar("Work units", 0)
	orchestrator := generator.NewOrchestrator(generator.OrchestratorConfig{
		Year:           cfg.Generate.Year,
		Seed:           cfg.Generate.Seed,
		Workers:        cfg.Generate.Workers,
		BankReferences: cfg.Generate.BankReferences,
	}, generator.OrchestratorOptions{
		Logger:     logger.FromContext(ctx),
		OnProgress: bar.Update,
	})

	source := cfg.Generate.Definitions
	if source == "" {
		source = u.Muted("built-in sample")
	}

	u.Println(u.Header("Sample Data Generator"))
	u.Println()
	u.Println(u.KeyValue("Year", fmt.Sprintf("%d", orchestrator.Year())))
	u.Println(u.KeyValue("Seed", fmt.Sprintf("%d", orchestrator.Seed())))
	u.Println(u.KeyValue("Workers", fmt.Sprintf("%d", generator.GetWorkerCount(cfg.Generate.Workers))))
	u.Println(u.KeyValue("Input", source))
	u.Println(u.KeyValue("Output", cfg.Output.Path))
	if cfg.Output.Compress {
		u.Println(u.KeyValue("Compress", "xz (.csv.xz)"))
	}
	if cfg.Output.OFX != "" {
		u.Println(u.KeyValue("OFX", cfg.Output.OFX))
	}
	if cfg.Database.DSN != "" {
		u.Println(u.KeyValue("Database", tabular.MaskDSN(cfg.Database.DSN)))
	}
	warnIgnoredCompress(u, cfg.Output)
	u.Println()

	spin := u.NewSpinner("Loading definitions")
	spin.Start()
	if err := loadDefinitions(ctx, orchestrator, cfg.Generate.Definitions); err != nil {
		spin.Error(err.Error())
		Exit(1)
	}
	spin.Success(fmt.Sprintf("%d definitions", len(orchestrator.Definitions)))

	result, err := orchestrator.GenerateAll()
	if err != nil {
		bar.Fail(err)
		Exit(1)
	}
	bar.Complete()

	tables := orchestrator.Tables()

	u.Section("Writing " + cfg.Output.Path)
	if err := saveTables(ctx, u, cfg, tables); err != nil {
		fail(u, err)
	}

	if cfg.Output.OFX != "" {
		spin := u.NewSpinner("Exporting OFX")
		spin.Start()
		if err := writeOFX(cfg.Output.OFX, orchestrator); err != nil {
			spin.Error(err.Error())
			Exit(1)
		}
		spin.Success(cfg.Output.OFX)
	}

	if cfg.Database.DSN != "" {
		if err := loadIntoMySQL(ctx, u, cfg.Database, tables); err != nil {
			fail(u, err)
		}
	}

	printGenerateSummary(u, result)
}

// warnIgnoredCompress reports --compress combined with a SQLite or Excel
// output, where it has no effect.
func warnIgnoredCompress(u *ui.UI, out config.OutputConfig) bool {
	if !out.Compress || tabular.IsCSVDir(out.Path) {
		return false
	}
	u.Println(u.Warning("--compress only applies to CSV output; " + out.Path + " is written uncompressed"))
	return true
}

// loadDefinitions reads definitions from path, or the built-in sample when
// path is empty.
func loadDefinitions(ctx context.Context, o *generator.Orchestrator, path string) error {
	if path == "" {
		return o.LoadDefinitions(ctx, data.Reader())
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("definitions workbook: %w", err)
	}
	store, err := tabular.Open(path, tabular.Options{})
	if err != nil {
		return err
	}
	defer store.Close()

	return o.LoadDefinitions(ctx, store)
}

func saveTables(ctx context.Context, u *ui.UI, cfg *config.Config, tables []*tabular.Table) error {
	store, err := tabular.Open(cfg.Output.Path, tabular.Options{
		Compress: cfg.Output.Compress,
		XZPreset: cfg.Output.XZPreset,
	})
	if err != nil {
		return err
	}

	for _, t := range tables {
		if err := store.WriteTable(ctx, t); err != nil {
			store.Close()
			return err
		}
		u.PrintSheet(t.Name, t.Len())
	}
	return store.Close()
}

func writeOFX(path string, o *generator.Orchestrator) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := o.ExportOFX(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printGenerateSummary prints a styled generation summary
func printGenerateSummary(u *ui.UI, result *generator.GenerationResult) {
	items := []ui.KV{
		{Key: "Run ID", Value: result.RunID},
		{Key: "Seed", Value: fmt.Sprintf("%d", result.Seed)},
		{Key: "Year", Value: fmt.Sprintf("%d", result.Year)},
		{Key: "Definitions", Value: fmt.Sprintf("%d (%d solo, %d groups)", result.DefinitionCount, result.SoloCount, result.GroupCount)},
		{Key: "Transactions", Value: fmt.Sprintf("%d", result.TransactionCount)},
		{Key: "Multi-split", Value: fmt.Sprintf("%d (%d splits)", result.SplitTransactions, result.SplitCount)},
		{Key: "Payees", Value: fmt.Sprintf("%d", result.PayeeCount)},
		{Key: "Budget lines", Value: fmt.Sprintf("%d", result.BudgetCount)},
		{Key: "Duration", Value: ui.FormatDuration(result.Duration)},
		{Key: "Status", Value: "Success"},
	}

	u.Println(u.SummaryBox("Generation Complete", items))
}
