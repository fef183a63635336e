package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// Common date patterns found in US bank statements.
var (
	// MM/DD/YYYY or MM/DD/YY
	dateSlashFull = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	// MM/DD with no year (Chase, Citibank)
	dateSlashShort = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:\s|$)`)
	// Mon DD with no year (US Bank, Webster money-transfer activity), e.g. "Feb 3"
	dateMonthDay = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2})\b`)
	// Month DD, YYYY, e.g. "February 3, 2024"
	dateLong = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
	// ISO dates, mostly from recovered table grids
	dateISO = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

// amountToken matches a monetary amount with optional sign decorations:
// $1,234.56  -1,234.56  (1,234.56)  1,234.56-  1,234.56<
var amountToken = regexp.MustCompile(`\(?-?\$?[\d,]+\.\d{2}\)?[\-<]?`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[strings.ToLower(name[:3])]
	return m, ok
}

// parseAmount converts a currency token to a signed float64.
// Negative indicators: leading '-', surrounding parens, trailing '-', and the
// Wells Fargo '<' ACH-debit marker.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if strings.Contains(s, "<") {
		negative = true
		s = strings.ReplaceAll(s, "<", "")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// civilDate builds a date at midnight UTC.
func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// resolveYear infers the year for a month/day-only date from the statement
// period: if the month precedes the period's start month, the statement
// rolled over into the next calendar year.
func resolveYear(month time.Month, period models.Period, yearHint int) int {
	if !period.IsZero() {
		if month < period.Start.Month() && period.End.Year() > period.Start.Year() {
			return period.End.Year()
		}
		return period.Start.Year()
	}
	if yearHint > 0 {
		return yearHint
	}
	return time.Now().Year()
}

// parseDate parses any supported date token, inferring the year from the
// statement period when the source omits it.
func parseDate(s string, period models.Period, yearHint int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dateISO.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return civilDate(y, time.Month(mo), d), true
		}
		return time.Time{}, false
	}

	if m := dateSlashFull.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return civilDate(y, time.Month(mo), d), true
		}
		return time.Time{}, false
	}

	if m := dateLong.FindStringSubmatch(s); m != nil {
		mo, ok := monthFromName(m[1])
		if !ok {
			return time.Time{}, false
		}
		d, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		return civilDate(y, mo, d), true
	}

	if m := dateSlashShort.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			return time.Time{}, false
		}
		month := time.Month(mo)
		return civilDate(resolveYear(month, period, yearHint), month, d), true
	}

	if m := dateMonthDay.FindStringSubmatch(s); m != nil {
		mo, ok := monthFromName(m[1])
		if !ok {
			return time.Time{}, false
		}
		d, _ := strconv.Atoi(m[2])
		if d < 1 || d > 31 {
			return time.Time{}, false
		}
		return civilDate(resolveYear(mo, period, yearHint), mo, d), true
	}

	return time.Time{}, false
}

// Period header patterns, most specific first.
var (
	periodLong  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\s+(?:through|thru|to|[-\x{2013}])\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)
	periodSlash = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{2,4})\s*(?:through|thru|to|[-\x{2013}])\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
	yearToken   = regexp.MustCompile(`\b(20\d{2})\b`)
)

// extractPeriod locates the statement period in the header region.
// A zero Period is a valid outcome; callers treat it as "unknown".
func extractPeriod(text string) models.Period {
	if m := periodLong.FindStringSubmatch(text); m != nil {
		sm, ok1 := monthFromName(m[1])
		em, ok2 := monthFromName(m[4])
		if ok1 && ok2 {
			sd, _ := strconv.Atoi(m[2])
			sy, _ := strconv.Atoi(m[3])
			ed, _ := strconv.Atoi(m[5])
			ey, _ := strconv.Atoi(m[6])
			return models.Period{Start: civilDate(sy, sm, sd), End: civilDate(ey, em, ed)}
		}
	}
	if m := periodSlash.FindStringSubmatch(text); m != nil {
		start, ok1 := parseDate(m[1], models.Period{}, 0)
		end, ok2 := parseDate(m[2], models.Period{}, 0)
		if ok1 && ok2 && !end.Before(start) {
			return models.Period{Start: start, End: end}
		}
	}
	return models.Period{}
}

// extractYearHint finds a plausible statement year anywhere in the text, used
// only when no full period header exists.
func extractYearHint(text string) int {
	if m := yearToken.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y
	}
	return 0
}

// findAccountNumber locates a masked or full account number near its label.
var accountNumberPattern = regexp.MustCompile(`(?i)Account\s*(?:Number|No\.?|#)?\s*[:#]?\s+([Xx*]*\d{4,})`)

func findAccountNumber(text string) string {
	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Stated balance labels, captured for the validator when present.
var (
	beginBalancePattern = regexp.MustCompile(`(?i)(?:Beginning|Opening|Previous)\s+Balance[^\d(\-]*(\(?-?\$?[\d,]+\.\d{2}\)?)`)
	endBalancePattern   = regexp.MustCompile(`(?i)(?:Ending|Closing|New)\s+Balance[^\d(\-]*(\(?-?\$?[\d,]+\.\d{2}\)?)`)
)

func findStatedBalance(text string, pat *regexp.Regexp) *float64 {
	if m := pat.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return &v
		}
	}
	return nil
}

// Page-break boilerplate repeated on every page. Filtered before
// continuation-line merging or it glues onto real descriptions.
var boilerplateMarkers = []string{
	"page ", "continued on next", "member fdic", "equal housing",
	"deposit products offered by", "please examine", "if you see an error",
	"customer service", "important information", "all rights reserved",
	"para espanol", "how to reach us", "questions about",
	"thank you for banking",
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range boilerplateMarkers {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isSummaryLine identifies totals rows that must not parse as transactions.
func isSummaryLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	prefixes := []string{
		"total ", "totals", "subtotal", "daily ending balance",
		"daily ledger balance", "average ", "number of ", "items ",
		"beginning balance", "ending balance", "opening balance",
		"closing balance", "previous balance", "new balance",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// trailingAmounts returns the run of amount tokens at the end of a line and
// the description text preceding them. Tokens in the run may be separated
// only by whitespace; anything else ends the run.
func trailingAmounts(line string) (desc string, amounts []float64) {
	trimmed := strings.TrimRight(line, " \t")
	locs := amountToken.FindAllStringIndex(trimmed, -1)
	if len(locs) == 0 {
		return line, nil
	}
	last := locs[len(locs)-1]
	if strings.TrimSpace(trimmed[last[1]:]) != "" {
		return line, nil
	}
	start := len(locs) - 1
	cut := last[0]
	for i := len(locs) - 2; i >= 0; i-- {
		if strings.TrimSpace(trimmed[locs[i][1]:cut]) != "" {
			break
		}
		start = i
		cut = locs[i][0]
	}
	for _, loc := range locs[start:] {
		if v, ok := parseAmount(trimmed[loc[0]:loc[1]]); ok {
			amounts = append(amounts, v)
		}
	}
	return cleanDescription(trimmed[:cut]), amounts
}

// cleanDescription collapses runs of whitespace and trims column debris.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.Trim(s, " |")
}
