package parser

import (
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// WellsFargoParser handles Wells Fargo business checking statements.
//
// The "Transaction history" table prints one row per item with an optional
// ending daily balance in the last column:
//
//	1/5  Shift4 Settlement 240105 Acme LLC  1,250.00  8,340.22
//	1/9  OnDeck Cap Pymt 240109 <  199.00
//
// Business ACH debits carry a trailing '<' marker. Rows without a marker or
// balance are classified by balance progression, then description.
type WellsFargoParser struct{}

func (p *WellsFargoParser) Format() models.BankFormat { return models.FormatWellsFargo }

func (p *WellsFargoParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatWellsFargo, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	var resolver signResolver
	inTable := false

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "TRANSACTION HISTORY") {
			inTable = true
			continue
		}
		if strings.HasPrefix(upper, "ENDING BALANCE ON") || strings.HasPrefix(upper, "TOTALS") {
			inTable = false
			continue
		}
		if isSummaryLine(line) {
			continue
		}
		if !inTable && !dateSlashShort.MatchString(line) {
			continue
		}
		if !dateSlashShort.MatchString(line) {
			// Wrapped description from the previous row.
			if inTable && !strings.Contains(line, "$") {
				appendContinuation(txns, line)
			}
			continue
		}

		date, ok := parseDate(line, info.Period, yearHint)
		if !ok {
			continue
		}
		rest := dateSlashShort.ReplaceAllString(line, "")
		marker := strings.Contains(rest, "<")
		if marker {
			rest = strings.ReplaceAll(rest, "<", "")
		}
		desc, amounts := trailingAmounts(rest)
		if len(amounts) == 0 || desc == "" {
			continue
		}

		var bal *float64
		amt := amounts[0]
		if len(amounts) >= 2 {
			b := amounts[len(amounts)-1]
			bal = &b
		}
		if marker && amt > 0 {
			amt = -amt
		}
		amt = resolver.resolve(amt, bal, desc, 0)

		txns = append(txns, models.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amt,
			Balance:     bal,
			Line:        i + 1,
		})
	}

	return &models.Extraction{Info: info, Transactions: txns}, nil
}
