// Package ofx writes transactions as an OFX 1.02 (SGML) bank statement.
package ofx

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// ErrNoTransactions is returned when there is nothing to export.
var ErrNoTransactions = errors.New("no transactions to export")

var (
	//go:embed templates/header.ofx
	header string

	//go:embed templates/footer.ofx
	footer string
)

const (
	dateLayout     = "20060102"
	postedLayout   = "20060102000000.000"
	transactionTag = "STMTTRN"
)

// SGML special characters in element text
var escape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Export writes a complete statement: header, the statement date range, one
// STMTTRN block per transaction in order, then the footer.
func Export(w io.Writer, txs []models.Transaction) error {
	if len(txs) == 0 {
		return ErrNoTransactions
	}

	first, last := txs[0].Timestamp, txs[0].Timestamp
	for _, tx := range txs[1:] {
		if tx.Timestamp.Before(first) {
			first = tx.Timestamp
		}
		if tx.Timestamp.After(last) {
			last = tx.Timestamp
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	fmt.Fprintf(bw, "<DTSTART>%s\n", first.Format(dateLayout))
	fmt.Fprintf(bw, "<DTEND>%s\n", last.Format(dateLayout))

	for i, tx := range txs {
		writeTransaction(bw, i+1, tx)
	}

	bw.WriteString(footer)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ofx: %w", err)
	}
	return nil
}

// writeTransaction writes one block. seq is 1-based and makes the FITID
// unique within the export.
func writeTransaction(w *bufio.Writer, seq int, tx models.Transaction) {
	trnType := "CREDIT"
	if tx.IsDebit() {
		trnType = "DEBIT"
	}

	fmt.Fprintf(w, "<%s>\n", transactionTag)
	fmt.Fprintf(w, "<TRNTYPE>%s\n", trnType)
	fmt.Fprintf(w, "<DTPOSTED>%s\n", tx.Timestamp.Format(postedLayout))
	fmt.Fprintf(w, "<FITID>%s%08d\n", tx.Timestamp.Format(dateLayout), seq)
	fmt.Fprintf(w, "<TRNAMT>%s\n", utils.FormatAmount(tx.Amount))
	fmt.Fprintf(w, "<MEMO>%s\n", escape.Replace(tx.Payee))
	if tx.BankReference != "" {
		fmt.Fprintf(w, "<REFNUM>%s\n", tx.BankReference)
	}
	fmt.Fprintf(w, "</%s>\n", transactionTag)
}
