package tabular

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/willfong/sample-data-generator/internal/logger"
)

//go:embed schemas/*.sql
var schemaFS embed.FS

// Schema returns the MySQL DDL for the output sheets. kind is "tables",
// "indexes" or "full".
func Schema(kind string) (string, error) {
	switch kind {
	case "tables", "indexes":
		content, err := schemaFS.ReadFile("schemas/" + kind + ".sql")
		if err != nil {
			return "", fmt.Errorf("failed to read schema: %w", err)
		}
		return string(content), nil
	case "full", "":
		tables, err := Schema("tables")
		if err != nil {
			return "", err
		}
		indexes, err := Schema("indexes")
		if err != nil {
			return "", err
		}
		return tables + "\n" + indexes, nil
	}
	return "", fmt.Errorf("unknown schema type %q", kind)
}

// mysqlSheet describes how one sheet lands in its MySQL table.
type mysqlSheet struct {
	table   string
	columns []string // sheet columns, in load order
	loadSQL string   // format string taking the reader name
}

var mysqlSheets = map[string]mysqlSheet{
	SheetTransactions: {
		table:   "transactions",
		columns: transactionHeader,
		loadSQL: `LOAD DATA LOCAL INFILE 'Reader::%s'
INTO TABLE transactions
FIELDS TERMINATED BY ',' ENCLOSED BY '"' ESCAPED BY ''
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(transaction_id, payee, posted_on, amount, @category, @bank_reference)
SET
    category = NULLIF(@category, ''),
    bank_reference = NULLIF(@bank_reference, '')`,
	},
	SheetSplits: {
		table:   "splits",
		columns: splitHeader,
		loadSQL: `LOAD DATA LOCAL INFILE 'Reader::%s'
INTO TABLE splits
FIELDS TERMINATED BY ',' ENCLOSED BY '"' ESCAPED BY ''
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(transaction_id, category, amount)`,
	},
	SheetPayees: {
		table:   "payees",
		columns: payeeHeader,
		loadSQL: `LOAD DATA LOCAL INFILE 'Reader::%s'
INTO TABLE payees
FIELDS TERMINATED BY ',' ENCLOSED BY '"' ESCAPED BY ''
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(name, @category)
SET
    category = NULLIF(@category, '')`,
	},
	SheetBudget: {
		table:   "budget_txs",
		columns: budgetHeader,
		loadSQL: `LOAD DATA LOCAL INFILE 'Reader::%s'
INTO TABLE budget_txs
FIELDS TERMINATED BY ',' ENCLOSED BY '"' ESCAPED BY ''
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(category, amount, posted_on)`,
	},
}

// MySQLConfig holds connection pool settings for the MySQL sink
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MySQL is a write-only sink loading sheets into typed tables with
// LOAD DATA LOCAL INFILE, streamed from memory.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL opens the pool and verifies the connection.
func OpenMySQL(ctx context.Context, cfg MySQLConfig) (*MySQL, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQL{db: db}, nil
}

// MaskDSN hides the password in a DSN for display.
func MaskDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil || cfg.Passwd == "" {
		return dsn
	}
	cfg.Passwd = "***"
	return cfg.FormatDSN()
}

// Close closes the connection pool
func (m *MySQL) Close() error {
	return m.db.Close()
}

// CreateTables creates every output table that does not exist yet.
func (m *MySQL) CreateTables(ctx context.Context) error {
	ddl, err := Schema("tables")
	if err != nil {
		return err
	}
	for _, stmt := range splitSQLStatements(ddl) {
		stmt = strings.Replace(stmt, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// CreateIndexes adds secondary indexes, skipping ones that already exist.
func (m *MySQL) CreateIndexes(ctx context.Context) error {
	ddl, err := Schema("indexes")
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	for _, stmt := range splitSQLStatements(ddl) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), "Duplicate") || strings.Contains(err.Error(), "already exists") {
				log.Debug().Err(err).Msg("index already exists")
				continue
			}
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// WriteTable implements Writer. The target table is emptied first.
func (m *MySQL) WriteTable(ctx context.Context, t *Table) error {
	_, err := m.LoadTable(ctx, t)
	return err
}

// LoadTable replaces the contents of the sheet's table and returns the
// number of rows loaded.
func (m *MySQL) LoadTable(ctx context.Context, t *Table) (int64, error) {
	sheet, ok := mysqlSheets[t.Name]
	if !ok {
		return 0, fmt.Errorf("sheet %s has no MySQL table", t.Name)
	}

	ordered, err := reorder(t, sheet.columns)
	if err != nil {
		return 0, err
	}

	if _, err := m.db.ExecContext(ctx, "DELETE FROM "+sheet.table); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", sheet.table, err)
	}

	name := t.Name + "_" + uuid.NewString()
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writeCSV(pw, ordered))
	}()
	defer pr.Close()

	mysql.RegisterReaderHandler(name, func() io.Reader { return pr })
	defer mysql.DeregisterReaderHandler(name)

	res, err := m.db.ExecContext(ctx, fmt.Sprintf(sheet.loadSQL, name))
	if err != nil {
		return 0, fmt.Errorf("LOAD DATA into %s failed: %w", sheet.table, err)
	}
	rows, _ := res.RowsAffected()
	log := logger.FromContext(ctx)
	log.Debug().Str("table", sheet.table).Int64("rows", rows).Msg("loaded table")
	return rows, nil
}

// reorder returns a copy of t whose columns follow want.
func reorder(t *Table, want []string) (*Table, error) {
	idx := make([]int, len(want))
	var missing []string
	for i, name := range want {
		idx[i] = t.Column(name)
		if idx[i] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet %s: missing column(s) %s", t.Name, strings.Join(missing, ", "))
	}

	out := NewTable(t.Name, want...)
	for _, row := range t.Rows {
		cells := make([]string, len(want))
		for i, j := range idx {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		out.Append(cells...)
	}
	return out, nil
}

func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// splitSQLStatements splits a script on semicolons, dropping comment lines
// and empty statements.
func splitSQLStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
