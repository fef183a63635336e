package parser

import (
	"strings"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// WebsterParser handles Webster Bank analyzed business checking statements.
//
// Two register layouts appear in the wild. The analyzed layout prints full
// dates with a running balance:
//
//	01/05/2024  ACH SETTLEMENT SHIFT4  1,250.00  8,340.22
//
// The activity layout prints "Mon DD" dates with signed amounts:
//
//	Jan 9  ACH DEBIT ONDECK CAPITAL  -199.00  8,141.22
//
// Unsigned rows are classified by balance progression.
type WebsterParser struct{}

func (p *WebsterParser) Format() models.BankFormat { return models.FormatWebster }

func (p *WebsterParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatWebster, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	var resolver signResolver

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) || isSummaryLine(line) {
			continue
		}

		var when time.Time
		var rest string
		ok := false
		if loc := dateSlashFull.FindStringIndex(line); loc != nil && loc[0] <= 2 {
			when, ok = parseDate(line[loc[0]:loc[1]], info.Period, yearHint)
			rest = line[loc[1]:]
		} else if dateMonthDay.MatchString(line) {
			when, ok = parseDate(line, info.Period, yearHint)
			rest = dateMonthDay.ReplaceAllString(line, "")
		}
		if !ok {
			continue
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
		amt = resolver.resolve(amt, bal, desc, 0)

		txns = append(txns, models.Transaction{
			Date:        when,
			Description: desc,
			Amount:      amt,
			Balance:     bal,
			Line:        i + 1,
		})
	}

	return &models.Extraction{Info: info, Transactions: txns}, nil
}
