package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/willfong/sample-data-generator/internal/config"
	"github.com/willfong/sample-data-generator/internal/logger"
	"github.com/willfong/sample-data-generator/internal/ofx"
	"github.com/willfong/sample-data-generator/internal/tabular"
)

var ofxCmd = &cobra.Command{
	Use:   "ofx",
	Short: "Export saved transactions as an OFX statement",
	Long: `Read the Transaction and Split sheets of a previous run and write them
as an OFX (SGML) bank statement that personal-finance tools can import.

Examples:
  sampledata ofx --input ./output --out statement.ofx
  sampledata ofx --input 2023.db > statement.ofx`,
	Run: runOFX,
}

func init() {
	rootCmd.AddCommand(ofxCmd)

	ofxCmd.Flags().String("input", config.DefaultOutput, "workbook holding the Transaction sheet")
	ofxCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")
}

func runOFX(cmd *cobra.Command, args []string) {
	u := newUI()

	_, ctx, err := loadConfig(cmd)
	if err != nil {
		fail(u, err)
	}
	input, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("out")

	if err := exportOFX(ctx, input, out); err != nil {
		fail(u, err)
	}
	if out != "" {
		fmt.Fprintln(os.Stderr, u.Success("Statement written to: "+out))
	}
}

// exportOFX converts the saved transactions in input to an OFX statement at
// out, or stdout when out is empty.
func exportOFX(ctx context.Context, input, out string) error {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input workbook: %w", err)
	}
	store, err := tabular.Open(input, tabular.Options{})
	if err != nil {
		return err
	}
	defer store.Close()

	txTable, err := store.ReadTable(ctx, tabular.SheetTransactions)
	if err != nil {
		return err
	}
	splitTable, err := store.ReadTable(ctx, tabular.SheetSplits)
	if err != nil {
		return err
	}
	txs, err := tabular.TransactionsFromTables(txTable, splitTable)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("input", input).Int("transactions", len(txs)).Msg("read saved transactions")

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	return ofx.Export(w, txs)
}
