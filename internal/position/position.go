// Package position reconstructs outstanding merchant cash advance positions
// from classified transaction activity. Matching runs in four confidence
// tiers: exact ACH originator identifiers, known lender name variants,
// structural MCA phrases, and finally any unexplained debit that recurs on a
// regular cadence.
package position

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

const (
	// minRecurring is the occurrence floor for a tier-4 match.
	minRecurring = 4
	// maxGapCV is the regularity bound for a tier-4 match: coefficient of
	// variation of the gaps between consecutive payments.
	maxGapCV = 0.5
	// fundingWindowDays is how far before the first payment a funding
	// deposit is searched for.
	fundingWindowDays = 30
	// activeWindowDays bounds how stale a position's last payment may be
	// while still counting toward stacking.
	activeWindowDays = 21
)

// Frequency bands, in average payments per covered calendar month. The
// weekly floor is 3, not 4: a weekly cadence with one missed or off-window
// payment still lands at 3 in a month and must not demote to biweekly.
const (
	dailyBand    = 15
	weeklyBand   = 3
	biweeklyBand = 1.8
)

type Reconstructor struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Reconstructor {
	return &Reconstructor{cfg: cfg}
}

// Reconstruct identifies MCA positions and back-calculates their terms.
// All "now"-relative measures use the statement period end so identical
// input always produces identical output.
func (r *Reconstructor) Reconstruct(scrub models.ScrubResult, period models.Period) models.PositionReport {
	asOf := periodEnd(scrub, period)

	groups := r.groupPayments(scrub.Transactions)
	positions := make([]models.MCAPosition, 0, len(groups))
	for _, g := range groups {
		positions = append(positions, r.build(g, scrub, asOf))
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Tier != positions[j].Tier {
			return positions[i].Tier < positions[j].Tier
		}
		return positions[i].Lender < positions[j].Lender
	})

	report := models.PositionReport{
		Positions:            positions,
		DaysSinceLastFunding: r.daysSinceLastFunding(scrub, asOf),
	}
	for _, p := range positions {
		if p.Trend != models.TrendStopped && asOf.Sub(p.LastPayment) <= activeWindowDays*24*time.Hour {
			report.Stacking++
			report.TotalMonthlyDebt += p.MonthlyCost
			report.TotalRemaining += p.EstRemaining
		}
	}
	return report
}

func periodEnd(scrub models.ScrubResult, period models.Period) time.Time {
	if !period.IsZero() {
		return period.End
	}
	var max time.Time
	for _, t := range scrub.Transactions {
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return max
}

// paymentGroup collects the debits attributed to one obligation.
type paymentGroup struct {
	lender   string
	tier     int
	payments []models.Transaction
}

// groupPayments buckets debt-category debits by lender identity and then
// sweeps the remaining debits for tier-4 recurring patterns.
func (r *Reconstructor) groupPayments(txns []models.ScrubbedTransaction) []*paymentGroup {
	byKey := map[string]*paymentGroup{}
	order := []string{}
	add := func(key, lender string, tier int, t models.Transaction) {
		g, ok := byKey[key]
		if !ok {
			g = &paymentGroup{lender: lender, tier: tier}
			byKey[key] = g
			order = append(order, key)
		}
		if tier < g.tier {
			g.tier = tier
			g.lender = lender
		}
		g.payments = append(g.payments, t)
	}

	var residual []models.Transaction
	for _, t := range txns {
		if !t.IsDebit() {
			continue
		}
		if t.Category != models.CategoryDebt {
			if t.Category == models.CategoryOther || t.Category == models.CategoryCheck {
				residual = append(residual, t.Transaction)
			}
			continue
		}
		lender, tier := r.matchLender(t.Description)
		add(lender, lender, tier, t.Transaction)
	}

	// Tier 4: regular unexplained debits grouped by normalized description.
	byDesc := map[string][]models.Transaction{}
	for _, t := range residual {
		key := normalizeKey(t.Description)
		if key == "" {
			continue
		}
		byDesc[key] = append(byDesc[key], t)
	}
	descKeys := make([]string, 0, len(byDesc))
	for k := range byDesc {
		descKeys = append(descKeys, k)
	}
	sort.Strings(descKeys)
	for _, key := range descKeys {
		pays := byDesc[key]
		if len(pays) < minRecurring {
			continue
		}
		sort.Slice(pays, func(i, j int) bool { return pays[i].Date.Before(pays[j].Date) })
		if gapCV(pays) >= maxGapCV {
			continue
		}
		add("t4:"+key, key, 4, pays[0])
		for _, t := range pays[1:] {
			byKey["t4:"+key].payments = append(byKey["t4:"+key].payments, t)
		}
	}

	groups := make([]*paymentGroup, 0, len(order))
	for _, k := range order {
		g := byKey[k]
		sort.Slice(g.payments, func(i, j int) bool { return g.payments[i].Date.Before(g.payments[j].Date) })
		groups = append(groups, g)
	}
	return groups
}

// matchLender resolves a debt debit to a lender identity and match tier.
func (r *Reconstructor) matchLender(desc string) (string, int) {
	upper := strings.ToUpper(desc)
	for id, lender := range r.cfg.Lenders.ACHIdentifiers {
		if strings.Contains(upper, strings.ToUpper(id)) {
			return lender, 1
		}
	}
	for lender, variants := range r.cfg.Lenders.Aliases {
		for _, v := range variants {
			if strings.Contains(upper, v) {
				return lender, 2
			}
		}
	}
	for _, phrase := range r.cfg.Lenders.GenericMCA {
		if strings.Contains(upper, phrase) {
			return normalizeKey(desc), 3
		}
	}
	return normalizeKey(desc), 3
}

// build reconstructs the terms of one position.
func (r *Reconstructor) build(g *paymentGroup, scrub models.ScrubResult, asOf time.Time) models.MCAPosition {
	p := models.MCAPosition{
		Lender:       g.lender,
		Tier:         g.tier,
		Payments:     g.payments,
		FirstPayment: g.payments[0].Date,
		LastPayment:  g.payments[len(g.payments)-1].Date,
	}

	var total float64
	for _, t := range g.payments {
		total += -t.Amount
	}
	p.TotalPaid = total
	p.AveragePayment = total / float64(len(g.payments))
	p.Frequency = classifyFrequency(g.payments)
	p.MonthlyCost = p.AveragePayment * r.cfg.Rates.PerMonth(p.Frequency)
	p.Trend = classifyTrend(g.payments, asOf)

	if deposit, ok := r.findFundingDeposit(scrub, p.FirstPayment); ok {
		p.FundingObserved = true
		p.FundingDeposit = deposit
		p.EstFunding = deposit
	} else {
		// No funding wire in view: project the payment stream over the
		// assumed term and unwind the factor rate.
		totalPayback := p.MonthlyCost * r.cfg.Rates.TermMonths
		p.EstFunding = totalPayback / r.cfg.Rates.FactorRate(p.Lender)
	}

	remaining := p.EstFunding - p.TotalPaid
	if remaining < 0 {
		remaining = 0
	}
	p.EstRemaining = remaining
	if p.MonthlyCost > 0 && remaining > 0 {
		monthsLeft := remaining / p.MonthlyCost
		p.EstPayoffDate = p.LastPayment.AddDate(0, 0, int(monthsLeft*30.44))
	} else {
		p.EstPayoffDate = p.LastPayment
	}
	return p
}

// findFundingDeposit looks for a large funding-vocabulary credit shortly
// before the first payment; seeing the actual wire beats back-calculating.
func (r *Reconstructor) findFundingDeposit(scrub models.ScrubResult, firstPayment time.Time) (float64, bool) {
	windowStart := firstPayment.AddDate(0, 0, -fundingWindowDays)
	var best float64
	for _, t := range scrub.Transactions {
		if t.Amount < r.cfg.Rates.MinFundingDeposit {
			continue
		}
		if t.Date.Before(windowStart) || t.Date.After(firstPayment) {
			continue
		}
		if !matchesAny(t.Description, r.cfg.Keywords.Funding) {
			continue
		}
		if t.Amount > best {
			best = t.Amount
		}
	}
	return best, best > 0
}

func (r *Reconstructor) daysSinceLastFunding(scrub models.ScrubResult, asOf time.Time) int {
	var last time.Time
	for _, t := range scrub.Transactions {
		if t.Amount < r.cfg.Rates.MinFundingDeposit {
			continue
		}
		if !matchesAny(t.Description, r.cfg.Keywords.Funding) {
			continue
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	if last.IsZero() {
		return -1
	}
	return int(asOf.Sub(last).Hours() / 24)
}

// classifyFrequency bands the average payment count per covered calendar
// month. Counting occurrences is robust to missed lines in a way that
// measuring gaps is not.
func classifyFrequency(payments []models.Transaction) models.PaymentFrequency {
	months := map[string]bool{}
	for _, t := range payments {
		months[t.Date.Format("2006-01")] = true
	}
	avg := float64(len(payments)) / float64(len(months))
	switch {
	case avg >= dailyBand:
		return models.FreqDaily
	case avg >= weeklyBand:
		return models.FreqWeekly
	case avg >= biweeklyBand:
		return models.FreqBiweekly
	default:
		return models.FreqMonthly
	}
}

// classifyTrend compares early and late payment sizes and checks whether the
// cadence carried through to the end of the statement.
func classifyTrend(payments []models.Transaction, asOf time.Time) models.PaymentTrend {
	if len(payments) >= 2 {
		gap := medianGap(payments)
		if gap > 0 && asOf.Sub(payments[len(payments)-1].Date) > 2*gap {
			return models.TrendStopped
		}
	}
	if len(payments) < 4 {
		return models.TrendStable
	}
	half := len(payments) / 2
	early := avgAbs(payments[:half])
	late := avgAbs(payments[half:])
	switch {
	case late > early*1.1:
		return models.TrendIncreased
	case late < early*0.9:
		return models.TrendDecreased
	default:
		return models.TrendStable
	}
}

func avgAbs(payments []models.Transaction) float64 {
	var sum float64
	for _, t := range payments {
		sum += math.Abs(t.Amount)
	}
	return sum / float64(len(payments))
}

func medianGap(payments []models.Transaction) time.Duration {
	if len(payments) < 2 {
		return 0
	}
	gaps := make([]time.Duration, 0, len(payments)-1)
	for i := 1; i < len(payments); i++ {
		gaps = append(gaps, payments[i].Date.Sub(payments[i-1].Date))
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2]
}

// gapCV measures cadence regularity: standard deviation of the day gaps
// between consecutive payments over their mean.
func gapCV(payments []models.Transaction) float64 {
	if len(payments) < 3 {
		return math.Inf(1)
	}
	gaps := make([]float64, 0, len(payments)-1)
	var sum float64
	for i := 1; i < len(payments); i++ {
		g := payments[i].Date.Sub(payments[i-1].Date).Hours() / 24
		gaps = append(gaps, g)
		sum += g
	}
	mean := sum / float64(len(gaps))
	if mean <= 0 {
		return math.Inf(1)
	}
	var variance float64
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))
	return math.Sqrt(variance) / mean
}

// normalizeKey reduces a description to a grouping identity: uppercase, first
// three tokens, trailing reference numbers stripped.
func normalizeKey(desc string) string {
	fields := strings.Fields(strings.ToUpper(desc))
	out := make([]string, 0, 3)
	for _, f := range fields {
		if isReferenceToken(f) {
			continue
		}
		out = append(out, f)
		if len(out) == 3 {
			break
		}
	}
	return strings.Join(out, " ")
}

func isReferenceToken(tok string) bool {
	digits := 0
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits > 0 && digits*2 >= len(tok)
}

func matchesAny(desc string, keywords []string) bool {
	upper := strings.ToUpper(desc)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
