// Package writer serializes analysis results for downstream consumers: CSV
// for the scrubbed transaction register, JSON for the full analysis.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// CSVWriter writes the scrubbed transaction register in CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the register to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, a *models.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, a)
}

// Write writes the register in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, a *models.Analysis) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Format", string(a.Format)})
		if a.Info.AccountNumber != "" {
			writer.Write([]string{"# Account Number", a.Info.AccountNumber})
		}
		if !a.Info.Period.IsZero() {
			writer.Write([]string{"# Statement Period",
				a.Info.Period.Start.Format("2006-01-02") + " to " + a.Info.Period.End.Format("2006-01-02")})
		}
		writer.Write([]string{"# Quality", fmt.Sprintf("%d (%s)", a.Quality.Score, a.Quality.Status)})
		writer.Write([]string{"# Risk", fmt.Sprintf("%d (tier %s)", a.Risk.Score, a.Risk.Tier)})
	}

	header := []string{"Date", "Description", "Category", "Internal Transfer", "Amount", "Balance"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range a.Scrub.Transactions {
		balance := ""
		if txn.Balance != nil {
			balance = formatAmount(*txn.Balance)
		}
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Category),
			strconv.FormatBool(txn.InternalTransfer),
			formatAmount(txn.Amount),
			balance,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
