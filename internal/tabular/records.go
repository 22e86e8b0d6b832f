package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// DateLayout is the cell format of every date column
const DateLayout = "2006-01-02"

var (
	transactionHeader = []string{"ID", "Payee", "Timestamp", "Amount", "Category", "BankReference"}
	splitHeader       = []string{"TransactionID", "Category", "Amount"}
	payeeHeader       = []string{"Name", "Category"}
	budgetHeader      = []string{"Category", "Amount", "Timestamp"}
)

// columnSet resolves header names to column indexes for one table.
type columnSet struct {
	table *Table
	index map[string]int
}

// columns looks up every named column. Names listed in required must be
// present; the others resolve to -1 when missing.
func columns(t *Table, required []string, optional ...string) (columnSet, error) {
	cs := columnSet{table: t, index: make(map[string]int)}

	var missing []string
	for _, name := range required {
		i := t.Column(name)
		if i < 0 {
			missing = append(missing, name)
		}
		cs.index[name] = i
	}
	for _, name := range optional {
		cs.index[name] = t.Column(name)
	}

	if len(missing) > 0 {
		return columnSet{}, fmt.Errorf("sheet %s: missing column(s) %s", t.Name, strings.Join(missing, ", "))
	}
	return cs, nil
}

// get returns the trimmed cell of the named column, or "" when the column is
// absent or the row is short.
func (cs columnSet) get(row []string, name string) string {
	i := cs.index[name]
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowError names the sheet and the 1-based spreadsheet line (header is line 1).
func rowError(t *Table, i int, err error) error {
	return fmt.Errorf("sheet %s line %d: %w", t.Name, i+2, err)
}

// DefinitionsFromTable maps a Definitions sheet to definitions, skipping blank rows.
func DefinitionsFromTable(t *Table) ([]models.Definition, error) {
	cs, err := columns(t,
		[]string{"Payee", "Scheme", "Category", "YearlyAmount"},
		"DateJitter", "AmountJitter", "Group",
	)
	if err != nil {
		return nil, err
	}

	defs := make([]models.Definition, 0, t.Len())
	for i, row := range t.Rows {
		if blank(row) {
			continue
		}

		scheme, err := models.ParseScheme(cs.get(row, "Scheme"))
		if err != nil {
			return nil, rowError(t, i, err)
		}
		dateJitter, err := models.ParseJitter(cs.get(row, "DateJitter"))
		if err != nil {
			return nil, rowError(t, i, err)
		}
		amountJitter, err := models.ParseJitter(cs.get(row, "AmountJitter"))
		if err != nil {
			return nil, rowError(t, i, err)
		}
		amount, err := utils.ParseAmount(cs.get(row, "YearlyAmount"))
		if err != nil {
			return nil, rowError(t, i, err)
		}

		defs = append(defs, models.Definition{
			Payee:        cs.get(row, "Payee"),
			Scheme:       scheme,
			DateJitter:   dateJitter,
			AmountJitter: amountJitter,
			Category:     cs.get(row, "Category"),
			YearlyAmount: amount,
			Group:        cs.get(row, "Group"),
		})
	}

	return defs, nil
}

// TransactionsTable renders transactions as a Transaction sheet.
func TransactionsTable(txs []models.Transaction) *Table {
	t := NewTable(SheetTransactions, transactionHeader...)
	for _, tx := range txs {
		t.Append(
			strconv.Itoa(tx.ID),
			tx.Payee,
			tx.Timestamp.Format(DateLayout),
			utils.FormatAmount(tx.Amount),
			tx.Category,
			tx.BankReference,
		)
	}
	return t
}

// SplitsTable renders the splits of every multi-split transaction, in
// transaction order.
func SplitsTable(txs []models.Transaction) *Table {
	t := NewTable(SheetSplits, splitHeader...)
	for _, tx := range txs {
		for _, s := range tx.Splits {
			t.Append(strconv.Itoa(s.TransactionID), s.Category, utils.FormatAmount(s.Amount))
		}
	}
	return t
}

// PayeesTable renders payees as a Payee sheet.
func PayeesTable(payees []models.Payee) *Table {
	t := NewTable(SheetPayees, payeeHeader...)
	for _, p := range payees {
		t.Append(p.Name, p.Category)
	}
	return t
}

// BudgetTable renders budget lines as a BudgetTx sheet.
func BudgetTable(budget []models.BudgetTx) *Table {
	t := NewTable(SheetBudget, budgetHeader...)
	for _, b := range budget {
		t.Append(b.Category, utils.FormatAmount(b.Amount), b.Timestamp.Format(DateLayout))
	}
	return t
}

// TransactionsFromTables loads a Transaction sheet and re-attaches the rows
// of an optional Split sheet to their parent by TransactionID. Split rows
// whose parent is missing are an error.
func TransactionsFromTables(txTable, splitTable *Table) ([]models.Transaction, error) {
	cs, err := columns(txTable,
		[]string{"Payee", "Timestamp", "Amount"},
		"ID", "Category", "BankReference",
	)
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, txTable.Len())
	byID := make(map[int]int)

	for i, row := range txTable.Rows {
		if blank(row) {
			continue
		}

		id, err := parseID(cs.get(row, "ID"))
		if err != nil {
			return nil, rowError(txTable, i, err)
		}
		ts, err := time.Parse(DateLayout, cs.get(row, "Timestamp"))
		if err != nil {
			return nil, rowError(txTable, i, err)
		}
		amount, err := utils.ParseAmount(cs.get(row, "Amount"))
		if err != nil {
			return nil, rowError(txTable, i, err)
		}

		if id != 0 {
			byID[id] = len(txs)
		}
		txs = append(txs, models.Transaction{
			ID:            id,
			Payee:         cs.get(row, "Payee"),
			Timestamp:     ts,
			Amount:        amount,
			Category:      cs.get(row, "Category"),
			BankReference: cs.get(row, "BankReference"),
		})
	}

	if splitTable == nil {
		return txs, nil
	}

	ss, err := columns(splitTable, []string{"TransactionID", "Category", "Amount"})
	if err != nil {
		return nil, err
	}
	for i, row := range splitTable.Rows {
		if blank(row) {
			continue
		}

		id, err := parseID(ss.get(row, "TransactionID"))
		if err != nil {
			return nil, rowError(splitTable, i, err)
		}
		parent, ok := byID[id]
		if !ok {
			return nil, rowError(splitTable, i, fmt.Errorf("no transaction with ID %d", id))
		}
		amount, err := utils.ParseAmount(ss.get(row, "Amount"))
		if err != nil {
			return nil, rowError(splitTable, i, err)
		}

		txs[parent].Splits = append(txs[parent].Splits, models.Split{
			TransactionID: id,
			Category:      ss.get(row, "Category"),
			Amount:        amount,
		})
	}

	return txs, nil
}

// PayeesFromTable loads a Payee sheet.
func PayeesFromTable(t *Table) ([]models.Payee, error) {
	cs, err := columns(t, []string{"Name"}, "Category")
	if err != nil {
		return nil, err
	}

	payees := make([]models.Payee, 0, t.Len())
	for _, row := range t.Rows {
		if blank(row) {
			continue
		}
		payees = append(payees, models.Payee{Name: cs.get(row, "Name"), Category: cs.get(row, "Category")})
	}
	return payees, nil
}

// BudgetFromTable loads a BudgetTx sheet.
func BudgetFromTable(t *Table) ([]models.BudgetTx, error) {
	cs, err := columns(t, []string{"Category", "Amount", "Timestamp"})
	if err != nil {
		return nil, err
	}

	budget := make([]models.BudgetTx, 0, t.Len())
	for i, row := range t.Rows {
		if blank(row) {
			continue
		}
		amount, err := utils.ParseAmount(cs.get(row, "Amount"))
		if err != nil {
			return nil, rowError(t, i, err)
		}
		ts, err := time.Parse(DateLayout, cs.get(row, "Timestamp"))
		if err != nil {
			return nil, rowError(t, i, err)
		}
		budget = append(budget, models.BudgetTx{Category: cs.get(row, "Category"), Amount: amount, Timestamp: ts})
	}
	return budget, nil
}

func parseID(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", text, err)
	}
	return id, nil
}
