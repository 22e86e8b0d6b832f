package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willfong/sample-data-generator/internal/tabular"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Output the MySQL schema for the output sheets",
	Long: `Output the SQL schema used when loading output sheets into MySQL/MariaDB.

Available schema types:
  full      Tables and indexes (default)
  tables    Tables only, no indexes (for bulk loading)
  indexes   Indexes only (run after bulk data load)

Examples:
  sampledata schema                              # Output complete schema
  sampledata schema full > schema.sql            # Save full schema to file
  sampledata schema tables | mysql -u root finance
  sampledata schema indexes -o indexes.sql`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"full", "tables", "indexes"},
	Run:       runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

func runSchema(cmd *cobra.Command, args []string) {
	u := newUI()

	schemaType := "full"
	if len(args) > 0 {
		schemaType = args[0]
	}

	content, err := tabular.Schema(schemaType)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		fmt.Fprintln(os.Stderr, "Valid types: full, tables, indexes")
		Exit(1)
	}

	outputFile, _ := cmd.Flags().GetString("output")
	if outputFile == "" {
		fmt.Print(content)
		return
	}

	// Ensure directory exists
	if dir := filepath.Dir(outputFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fail(u, fmt.Errorf("creating directory: %w", err))
		}
	}
	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		fail(u, fmt.Errorf("writing file: %w", err))
	}
	fmt.Fprintln(os.Stderr, u.Success("Schema written to: "+outputFile))
}
