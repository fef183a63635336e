package parser

import (
	"strings"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// GenericParser is the fallback strategy for statements from banks without a
// dedicated layout. It tries recovered table grids first, then date-led text
// lines, classifying signs by explicit markers, balance progression, and
// finally description keywords.
type GenericParser struct{}

func (p *GenericParser) Format() models.BankFormat { return models.FormatGeneric }

func (p *GenericParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatGeneric, raw.Text)
	yearHint := extractYearHint(raw.Text)

	txns := p.parseTables(raw.Tables, info.Period, yearHint)
	if len(txns) == 0 {
		txns = p.parseLines(raw.Text, info.Period, yearHint)
	}

	return &models.Extraction{Info: info, Transactions: txns}, nil
}

// parseTables converts recovered table rows of the shape
// [date, description..., amount] or [date, description..., amount, balance].
func (p *GenericParser) parseTables(tables [][]string, period models.Period, yearHint int) []models.Transaction {
	var txns []models.Transaction
	var resolver signResolver

	for _, row := range tables {
		if len(row) < 3 {
			continue
		}
		date, ok := parseDate(row[0], period, yearHint)
		if !ok {
			continue
		}

		// Trailing numeric cells are amount then balance; everything between
		// the date and the first numeric cell is description.
		var amounts []float64
		numStart := len(row)
		for i := len(row) - 1; i >= 1; i-- {
			v, isAmt := parseAmount(row[i])
			if !isAmt {
				break
			}
			amounts = append([]float64{v}, amounts...)
			numStart = i
		}
		if len(amounts) == 0 || numStart <= 1 {
			continue
		}
		desc := cleanDescription(strings.Join(row[1:numStart], " "))
		if desc == "" {
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
		})
	}
	return txns
}

func (p *GenericParser) parseLines(text string, period models.Period, yearHint int) []models.Transaction {
	var txns []models.Transaction
	var resolver signResolver

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) || isSummaryLine(line) {
			continue
		}

		var when time.Time
		var rest string
		ok := false
		switch {
		case dateSlashShort.MatchString(line):
			when, ok = parseDate(line, period, yearHint)
			rest = dateSlashShort.ReplaceAllString(line, "")
		case dateSlashFull.MatchString(line):
			loc := dateSlashFull.FindStringIndex(line)
			if loc[0] <= 2 {
				when, ok = parseDate(line[loc[0]:loc[1]], period, yearHint)
				rest = line[loc[1]:]
			}
		case dateMonthDay.MatchString(line):
			when, ok = parseDate(line, period, yearHint)
			rest = dateMonthDay.ReplaceAllString(line, "")
		case dateISO.MatchString(line):
			loc := dateISO.FindStringIndex(line)
			if loc[0] <= 2 {
				when, ok = parseDate(line[loc[0]:loc[1]], period, yearHint)
				rest = line[loc[1]:]
			}
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
	return txns
}
