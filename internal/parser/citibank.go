package parser

import (
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// CitibankParser handles CitiBusiness checking statements.
//
// The "CHECKING ACTIVITY" register prints debit/credit columns plus a running
// balance:
//
//	01/05 DEPOSIT ACH SHIFT4 SETTLEMENT      1,250.00  8,340.22
//	01/09 ACH DEBIT ONDECK CAPITAL             199.00  8,141.22
//
// Column positions are lost in text extraction, so the sign comes from
// balance progression against the previous row.
type CitibankParser struct{}

func (p *CitibankParser) Format() models.BankFormat { return models.FormatCitibank }

var citiContinuations = []string{"CHECK NO:", "REF NO:", "TRACE:"}

func (p *CitibankParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatCitibank, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	var resolver signResolver
	inRegister := false

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "CHECKING ACTIVITY") {
			inRegister = true
			continue
		}
		if strings.HasPrefix(upper, "TOTAL DEBITS") || strings.HasPrefix(upper, "TOTAL CREDITS") {
			inRegister = false
			continue
		}
		if isSummaryLine(line) {
			continue
		}
		if !inRegister {
			continue
		}

		if !dateSlashShort.MatchString(line) {
			if isCitiContinuation(line) {
				appendContinuation(txns, line)
			}
			continue
		}

		date, ok := parseDate(line, info.Period, yearHint)
		if !ok {
			continue
		}
		rest := dateSlashShort.ReplaceAllString(line, "")
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

func isCitiContinuation(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range citiContinuations {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
