// Package scrub turns a validated extraction into classified, analysis-ready
// data: categorized transactions, internal-transfer flags, daily balances,
// and revenue metrics.
package scrub

import (
	"sort"
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

type Scrubber struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scrubber {
	return &Scrubber{cfg: cfg}
}

// Scrub classifies every transaction and derives the daily-balance series and
// revenue metrics. Input order is preserved.
func (s *Scrubber) Scrub(ex *models.Extraction) models.ScrubResult {
	scrubbed := make([]models.ScrubbedTransaction, 0, len(ex.Transactions))
	for _, t := range ex.Transactions {
		scrubbed = append(scrubbed, models.ScrubbedTransaction{
			Transaction:      t,
			Category:         s.categorize(t),
			InternalTransfer: s.isInternalTransfer(t.Description),
		})
	}

	return models.ScrubResult{
		Transactions:  scrubbed,
		DailyBalances: s.dailyBalances(ex),
		Revenue:       s.revenue(scrubbed),
	}
}

// categorize assigns the first matching category. Debt recognition runs
// before the keyword rules: a lender-matching debit is debt no matter what
// else its description mentions.
func (s *Scrubber) categorize(t models.Transaction) models.Category {
	upper := strings.ToUpper(t.Description)

	if t.IsDebit() && s.matchesLender(upper) {
		return models.CategoryDebt
	}
	for _, rule := range s.cfg.Keywords.Categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(upper, kw) {
				return rule.Category
			}
		}
	}
	if t.Amount > 0 {
		return models.CategoryRevenue
	}
	return models.CategoryOther
}

// matchesLender checks the three lender vocabularies: exact ACH identifiers,
// known lender aliases, then structural MCA phrases.
func (s *Scrubber) matchesLender(upper string) bool {
	for id := range s.cfg.Lenders.ACHIdentifiers {
		if strings.Contains(upper, strings.ToUpper(id)) {
			return true
		}
	}
	for _, variants := range s.cfg.Lenders.Aliases {
		for _, v := range variants {
			if strings.Contains(upper, v) {
				return true
			}
		}
	}
	for _, phrase := range s.cfg.Lenders.GenericMCA {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}

// isInternalTransfer flags transfer-vocabulary descriptions. Known revenue
// sources take precedence: a processor settlement that mentions "transfer"
// is still revenue.
func (s *Scrubber) isInternalTransfer(desc string) bool {
	upper := strings.ToUpper(desc)
	for _, kw := range s.cfg.Keywords.RevenueSources {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	for _, kw := range s.cfg.Keywords.InternalTransfer {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// dailyBalances builds one entry per calendar day of the statement span,
// carrying the last printed running balance forward across quiet days.
// Days before the first known balance stay nil.
func (s *Scrubber) dailyBalances(ex *models.Extraction) []models.DailyBalance {
	start, end := ex.Info.Period.Start, ex.Info.Period.End
	if ex.Info.Period.IsZero() {
		if len(ex.Transactions) == 0 {
			return nil
		}
		start, end = ex.Transactions[0].Date, ex.Transactions[0].Date
		for _, t := range ex.Transactions {
			if t.Date.Before(start) {
				start = t.Date
			}
			if t.Date.After(end) {
				end = t.Date
			}
		}
	}

	// Last printed balance per day.
	lastByDay := map[string]float64{}
	for _, t := range ex.Transactions {
		if t.Balance != nil {
			lastByDay[t.Date.Format("2006-01-02")] = *t.Balance
		}
	}

	var series []models.DailyBalance
	var current *float64
	if ex.Info.BeginningBalance != nil {
		v := *ex.Info.BeginningBalance
		current = &v
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if v, ok := lastByDay[d.Format("2006-01-02")]; ok {
			bal := v
			current = &bal
		}
		series = append(series, models.DailyBalance{Date: d, Balance: current})
	}
	return series
}

// revenue aggregates deposit and withdrawal activity. Internal transfers are
// excluded from the deposit side only; debt payments are excluded from both
// sides so that existing obligations do not distort operating cash flow.
func (s *Scrubber) revenue(txns []models.ScrubbedTransaction) models.RevenueMetrics {
	var m models.RevenueMetrics
	bySource := map[string]float64{}
	byMonth := map[string]*models.MonthMetrics{}

	for _, t := range txns {
		if t.Category == models.CategoryDebt {
			continue
		}
		month := t.Date.Format("2006-01")
		mm, ok := byMonth[month]
		if !ok {
			mm = &models.MonthMetrics{Month: month}
			byMonth[month] = mm
		}

		if t.Amount > 0 {
			if t.InternalTransfer {
				continue
			}
			m.GrossDeposits += t.Amount
			mm.Deposits += t.Amount
			bySource[depositSource(t.Description)] += t.Amount
			if s.isCashDeposit(t.Description) {
				m.CashDepositTotal += t.Amount
			}
		} else {
			m.GrossWithdrawals += -t.Amount
			mm.Withdrawals += -t.Amount
		}
	}

	m.NetRevenue = m.GrossDeposits - m.GrossWithdrawals

	for _, mm := range byMonth {
		mm.Net = mm.Deposits - mm.Withdrawals
		m.Monthly = append(m.Monthly, *mm)
	}
	sort.Slice(m.Monthly, func(i, j int) bool { return m.Monthly[i].Month < m.Monthly[j].Month })

	if m.GrossDeposits > 0 {
		for src, total := range bySource {
			share := total / m.GrossDeposits
			if share > m.DepositConcentration {
				m.DepositConcentration = share
				m.TopDepositSource = src
			}
		}
	}
	return m
}

func (s *Scrubber) isCashDeposit(desc string) bool {
	upper := strings.ToUpper(desc)
	for _, kw := range s.cfg.Keywords.CashDeposit {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// depositSource normalizes a deposit description to a source key: the first
// three tokens with trailing reference numbers stripped.
func depositSource(desc string) string {
	fields := strings.Fields(strings.ToUpper(desc))
	n := len(fields)
	if n > 3 {
		n = 3
	}
	for n > 1 && isReference(fields[n-1]) {
		n--
	}
	return strings.Join(fields[:n], " ")
}

func isReference(tok string) bool {
	digits := 0
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits > 0 && digits*2 >= len(tok)
}

// AvgDailyBalance fills the average over days with a known balance; exposed
// separately so callers can attach it after the series is built.
func AvgDailyBalance(series []models.DailyBalance) float64 {
	var sum float64
	var n int
	for _, d := range series {
		if d.Balance != nil {
			sum += *d.Balance
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// NegativeDays counts days in the series with a known balance below zero.
func NegativeDays(series []models.DailyBalance) (neg, known int) {
	for _, d := range series {
		if d.Balance == nil {
			continue
		}
		known++
		if *d.Balance < 0 {
			neg++
		}
	}
	return neg, known
}
