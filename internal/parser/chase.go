package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// ChaseParser handles Chase business checking statements.
//
// Chase groups activity under signed section headers:
//
//	DEPOSITS AND ADDITIONS
//	  01/05 ORIG CO NAME:SHIFT4 ... 1,250.00
//	CHECKS PAID
//	  1234 ^ 01/08 500.00
//	ELECTRONIC WITHDRAWALS
//	  01/09 ORIG CO NAME:ONDECK ... 199.00
//
// Dates are MM/DD; the year comes from the statement period header.
type ChaseParser struct{}

func (p *ChaseParser) Format() models.BankFormat { return models.FormatChase }

var chaseSections = []sectionRule{
	{"DEPOSITS AND ADDITIONS", +1},
	{"CHECKS PAID", -1},
	{"ATM & DEBIT CARD WITHDRAWALS", -1},
	{"ATM AND DEBIT CARD WITHDRAWALS", -1},
	{"ELECTRONIC WITHDRAWALS", -1},
	{"OTHER WITHDRAWALS", -1},
	{"FEES", -1},
}

// Check register entry: number, optional cleared marker, date, amount. Chase
// prints up to three of these per physical row, and the columns read down
// before across, so checks arrive out of date order.
var chaseCheckPattern = regexp.MustCompile(`(\d{3,6})\s*\^?\s*\*?\s*(\d{1,2}/\d{1,2})\s+(\$?[\d,]+\.\d{2})`)

// ACH detail fragments Chase wraps onto their own lines.
var chaseContinuations = []string{
	"ORIG CO NAME", "ORIG ID:", "ENTRY DESCR:", "ENTRY CLASS",
	"IND NAME:", "IND ID:", "TRN:", "WEB ID:", "PPD ID:", "CCD ID:", "TEL ID:",
}

func (p *ChaseParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatChase, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	var checks []models.Transaction
	section := 0

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		if sign, ok := matchSection(line, chaseSections); ok {
			section = sign
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "DAILY ENDING BALANCE") {
			section = 0
			continue
		}
		if isSummaryLine(line) {
			continue
		}

		if entries := chaseCheckEntries(line); len(entries) > 0 {
			for _, m := range entries {
				date, ok := parseDate(m[2], info.Period, yearHint)
				if !ok {
					continue
				}
				amt, ok := parseAmount(m[3])
				if !ok {
					continue
				}
				checks = append(checks, models.Transaction{
					Date:        date,
					Description: fmt.Sprintf("CHECK #%s", m[1]),
					Amount:      -amt,
					Line:        i + 1,
				})
			}
			continue
		}

		if dateSlashShort.MatchString(line) && section != 0 {
			date, ok := parseDate(line, info.Period, yearHint)
			if !ok {
				continue
			}
			rest := dateSlashShort.ReplaceAllString(line, "")
			desc, amounts := trailingAmounts(rest)
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

		if section != 0 && isChaseContinuation(line) {
			appendContinuation(txns, line)
		}
	}

	// The check columns read down before across; restore date order.
	sort.SliceStable(checks, func(i, j int) bool { return checks[i].Date.Before(checks[j].Date) })
	txns = append(txns, checks...)

	return &models.Extraction{Info: info, Transactions: txns}, nil
}

// chaseCheckEntries splits a check register row into its entries. A row
// qualifies only when check entries account for the entire line: partial
// matches inside ordinary activity lines are not checks.
func chaseCheckEntries(line string) [][]string {
	locs := chaseCheckPattern.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}
	if strings.TrimSpace(line[:locs[0][0]]) != "" || strings.TrimSpace(line[locs[len(locs)-1][1]:]) != "" {
		return nil
	}
	for i := 1; i < len(locs); i++ {
		if strings.TrimSpace(line[locs[i-1][1]:locs[i][0]]) != "" {
			return nil
		}
	}
	return chaseCheckPattern.FindAllStringSubmatch(line, -1)
}

func isChaseContinuation(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range chaseContinuations {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
