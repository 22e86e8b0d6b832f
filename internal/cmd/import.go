package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/willfong/sample-data-generator/internal/config"
	"github.com/willfong/sample-data-generator/internal/tabular"
	"github.com/willfong/sample-data-generator/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a saved workbook into MySQL/MariaDB",
	Long: `Import the output sheets of a previous run into a MySQL/MariaDB database
using LOAD DATA LOCAL INFILE, streamed from memory.

The workbook is a CSV directory (plain or .csv.xz) a SQLite file, or an .xlsx workbook. Each
sheet replaces the contents of its table:

  Transaction -> transactions
  Split       -> splits
  Payee       -> payees
  BudgetTx    -> budget_txs

The import process:
1. Creates tables if they don't exist
2. Loads each sheet present in the workbook
3. Creates indexes after loading

The server must allow local_infile.

Examples:
  sampledata import --db "user:pass@tcp(localhost:3306)/finance"
  sampledata import --input 2023.db --db "user:pass@tcp(localhost:3306)/finance"`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("input", config.DefaultOutput, "workbook to import: CSV directory, .db or .xlsx file")
	importCmd.Flags().String("db", "", "database connection string (default: database.dsn from config)")
}

// loadResult holds the result of loading a table
type loadResult struct {
	table    string
	rows     int64
	duration time.Duration
	err      error
}

func runImport(cmd *cobra.Command, args []string) {
	u := newUI()

	cfg, ctx, err := loadConfig(cmd)
	if err != nil {
		fail(u, err)
	}
	input, _ := cmd.Flags().GetString("input")
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if cfg.Database.DSN == "" {
		fail(u, errors.New("a database DSN is required (--db or database.dsn)"))
	}

	u.Println(u.Header("Sample Data Importer"))
	u.Println()
	u.Println(u.KeyValue("Database", tabular.MaskDSN(cfg.Database.DSN)))
	u.Println(u.KeyValue("Input", input))
	u.Println(u.KeyValue("DB Pool", fmt.Sprintf("%d open / %d idle", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)))
	u.Println()

	tables, err := readOutputTables(ctx, u, input)
	if err != nil {
		fail(u, err)
	}
	if len(tables) == 0 {
		fail(u, fmt.Errorf("no output sheets found in %s", input))
	}

	if err := loadIntoMySQL(ctx, u, cfg.Database, tables); err != nil {
		fail(u, err)
	}
}

// readOutputTables reads every output sheet present in the workbook,
// reporting the missing ones as skipped.
func readOutputTables(ctx context.Context, u *ui.UI, path string) ([]*tabular.Table, error) {
	store, err := tabular.Open(path, tabular.Options{})
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var tables []*tabular.Table
	for _, sheet := range []string{tabular.SheetTransactions, tabular.SheetSplits, tabular.SheetPayees, tabular.SheetBudget} {
		t, err := store.ReadTable(ctx, sheet)
		if errors.Is(err, tabular.ErrTableNotFound) {
			u.PrintSkipped(sheet, "not in workbook")
			continue
		}
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// loadIntoMySQL creates the schema, loads each table in order, then adds
// indexes. Loading stops at the first failed table.
func loadIntoMySQL(ctx context.Context, u *ui.UI, cfg config.DatabaseConfig, tables []*tabular.Table) error {
	spin := u.NewSpinner("Connecting to database")
	spin.Start()
	db, err := tabular.OpenMySQL(ctx, tabular.MySQLConfig{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		spin.Error("connection failed")
		return err
	}
	defer db.Close()
	spin.Success("connected!")

	spinTables := u.NewSpinner("Creating tables")
	spinTables.Start()
	if err := db.CreateTables(ctx); err != nil {
		spinTables.Error("failed")
		return err
	}
	spinTables.Success("tables ready")

	u.Section("Loading data...")
	startTime := time.Now()
	var results []loadResult
	for _, t := range tables {
		start := time.Now()
		rows, err := db.LoadTable(ctx, t)
		r := loadResult{table: t.Name, rows: rows, duration: time.Since(start), err: err}
		results = append(results, r)
		u.PrintTableLoadResult(r.table, r.rows, r.duration, r.err)
		if err != nil {
			printImportSummary(u, results, time.Since(startTime))
			return fmt.Errorf("import stopped: %w", err)
		}
	}
	loadDuration := time.Since(startTime)

	spinIndexes := u.NewSpinner("Creating indexes")
	spinIndexes.Start()
	if err := db.CreateIndexes(ctx); err != nil {
		spinIndexes.Error("failed")
		return err
	}
	spinIndexes.Success("indexes ready")

	printImportSummary(u, results, loadDuration)
	return nil
}

func printImportSummary(u *ui.UI, results []loadResult, totalDuration time.Duration) {
	var totalRows int64
	var failures int

	for _, r := range results {
		if r.err != nil {
			failures++
		} else {
			totalRows += r.rows
		}
	}

	items := []ui.KV{
		{Key: "Tables", Value: fmt.Sprintf("%d", len(results))},
		{Key: "Total rows", Value: fmt.Sprintf("%d", totalRows)},
		{Key: "Total time", Value: ui.FormatDuration(totalDuration)},
	}

	if failures > 0 {
		items = append(items, ui.KV{Key: "Failed", Value: fmt.Sprintf("%d tables", failures)})
		items = append(items, ui.KV{Key: "Status", Value: "Failed"})
	} else {
		items = append(items, ui.KV{Key: "Status", Value: "Success"})
	}

	u.Println(u.SummaryBox("Import Summary", items))
}
