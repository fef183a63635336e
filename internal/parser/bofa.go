package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// BofAParser handles Bank of America business checking statements.
//
// Activity is grouped under mixed-case section headers:
//
//	Deposits and other credits
//	  01/05/24 BANKCARD DES:MERCH SETL ID:43... 1,250.00
//	Withdrawals and other debits
//	  01/09/24 ONDECK DES:PAYMENT ID:... -199.00
//	Checks
//	  01/08/24 1234 500.00
//
// Dates carry a two-digit year; debits often repeat a leading minus.
type BofAParser struct{}

func (p *BofAParser) Format() models.BankFormat { return models.FormatBofA }

var bofaSections = []sectionRule{
	{"DEPOSITS AND OTHER CREDITS", +1},
	{"WITHDRAWALS AND OTHER DEBITS", -1},
	{"CHECKS", -1},
	{"SERVICE FEES", -1},
	{"OTHER SUBTRACTIONS", -1},
}

// Check register line: date, check number (optionally starred), amount.
var bofaCheckPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s+(\d{3,6})\*?\s+(-?\$?[\d,]+\.\d{2})\s*$`)

var bofaContinuations = []string{
	"DES:", "ID:", "INDN:", "CO ID:", "PMT INFO:", "REF:", "ARC ID:",
}

func (p *BofAParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatBofA, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	section := 0

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		if sign, ok := matchSection(line, bofaSections); ok {
			section = sign
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "DAILY LEDGER BALANCES") {
			section = 0
			continue
		}
		if isSummaryLine(line) {
			continue
		}

		if m := bofaCheckPattern.FindStringSubmatch(line); m != nil && section < 0 {
			date, ok := parseDate(m[1], info.Period, yearHint)
			if !ok {
				continue
			}
			amt, ok := parseAmount(m[3])
			if !ok {
				continue
			}
			txns = append(txns, models.Transaction{
				Date:        date,
				Description: fmt.Sprintf("CHECK #%s", m[2]),
				Amount:      -abs(amt),
				Line:        i + 1,
			})
			continue
		}

		if dateSlashFull.MatchString(line) && section != 0 {
			loc := dateSlashFull.FindStringIndex(line)
			if loc[0] > 2 {
				continue
			}
			date, ok := parseDate(line[loc[0]:loc[1]], info.Period, yearHint)
			if !ok {
				continue
			}
			desc, amounts := trailingAmounts(line[loc[1]:])
			if len(amounts) == 0 || desc == "" {
				continue
			}
			amt := amounts[0]
			if amt > 0 && section < 0 {
				amt = -amt
			}
			txns = append(txns, models.Transaction{
				Date:        date,
				Description: desc,
				Amount:      amt,
				Line:        i + 1,
			})
			continue
		}

		if section != 0 && isBofAContinuation(line) {
			appendContinuation(txns, line)
		}
	}

	return &models.Extraction{Info: info, Transactions: txns}, nil
}

func isBofAContinuation(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range bofaContinuations {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
