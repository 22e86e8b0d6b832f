package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willfong/sample-data-generator/internal/utils"
)

// Transaction is one generated occurrence of a definition or group.
type Transaction struct {
	// Assigned after generation for group transactions so splits can reference it.
	// Solo transactions keep 0.
	ID int

	Payee     string
	Timestamp time.Time
	Amount    decimal.Decimal

	// Set only when a single definition contributed
	Category string

	// Reference number shown on bank statements; optional
	BankReference string

	// Populated only when more than one definition contributed
	Splits []Split
}

// Split is one category line within a multi-category transaction.
type Split struct {
	TransactionID int
	Category      string
	Amount        decimal.Decimal
}

// Payee is a derived payee with its default category.
type Payee struct {
	Name     string
	Category string
}

// BudgetTx is a derived yearly budget line for one category.
type BudgetTx struct {
	Category  string
	Amount    decimal.Decimal
	Timestamp time.Time
}

// NewTransaction builds a transaction from its contributing splits.
// A single split collapses into a flat Category/Amount with no Splits; more than
// one keeps the splits and sums them into Amount.
func NewTransaction(payee string, timestamp time.Time, splits []Split) Transaction {
	tx := Transaction{
		Payee:     payee,
		Timestamp: timestamp,
	}

	switch len(splits) {
	case 0:
		tx.Amount = decimal.Zero
	case 1:
		tx.Category = splits[0].Category
		tx.Amount = splits[0].Amount
	default:
		amounts := make([]decimal.Decimal, len(splits))
		for i, s := range splits {
			amounts[i] = s.Amount
		}
		tx.Amount = utils.SumAmounts(amounts...)
		tx.Splits = splits
	}

	return tx
}

// AssignID sets the transaction ID and links every split back to it.
func (t *Transaction) AssignID(id int) {
	t.ID = id
	for i := range t.Splits {
		t.Splits[i].TransactionID = id
	}
}

// HasSplits returns true if more than one category contributed.
func (t *Transaction) HasSplits() bool {
	return len(t.Splits) > 1
}

// IsDebit returns true if money leaves the account
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
