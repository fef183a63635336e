// Package risk turns classified activity and reconstructed debt positions
// into an underwriting score. The score starts at 100 and each adverse
// signal deducts a configured weight; red flags are emitted alongside and a
// subset of them (keyword findings with no numeric signal of their own)
// deduct through severity caps.
package risk

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
	"github.com/insightdelivered/mca-underwriting-engine/internal/scrub"
)

const (
	// revenueDeclinePct is the month-over-month deposit drop that counts as
	// a decline.
	revenueDeclinePct = 0.20
	// newAccountDays flags statements covering too little history.
	newAccountDays = 60
	// stackingFlagFloor and stackingCriticalFloor band the stacking flag.
	stackingFlagFloor     = 3
	stackingCriticalFloor = 5
)

type Scorer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score produces the risk profile for one analyzed statement.
func (s *Scorer) Score(sc models.ScrubResult, positions models.PositionReport, period models.Period) models.RiskProfile {
	p := models.RiskProfile{Signals: map[string]float64{}}
	deduct := func(name string, amount float64) {
		if amount <= 0 {
			return
		}
		p.Signals[name] = amount
	}
	flag := func(code string, sev models.Severity, detail string) {
		p.RedFlags = append(p.RedFlags, models.RedFlag{Code: code, Severity: sev, Detail: detail})
	}

	pol := s.cfg.Risk

	// NSF events, net of waived and reversed fees.
	p.NSFCount, p.NSFFees = s.countNSF(sc.Transactions)
	if p.NSFCount > 0 {
		d := float64(p.NSFCount) * pol.NSFPerEvent
		if d > pol.NSFCap {
			d = pol.NSFCap
		}
		deduct("nsf", d)
		sev := models.SeverityMedium
		if p.NSFCount >= 5 {
			sev = models.SeverityHigh
		}
		flag("NSF_ACTIVITY", sev, fmt.Sprintf("%d NSF events totaling %.2f in fees", p.NSFCount, p.NSFFees))
	}

	// Negative balance days.
	neg, known := scrub.NegativeDays(sc.DailyBalances)
	p.NegDays = neg
	if known > 0 {
		p.NegDaysPct = float64(neg) / float64(known) * 100
	}
	if neg > 0 {
		d := p.NegDaysPct * pol.NegDayPctMultiplier
		if d > pol.NegDayCap {
			d = pol.NegDayCap
		}
		deduct("negative_days", d)
		if p.NegDaysPct >= 20 {
			flag("NEGATIVE_BALANCE_DAYS", models.SeverityHigh, fmt.Sprintf("balance negative on %d days (%.0f%%)", neg, p.NegDaysPct))
		}
	}

	// Gambling activity.
	if n := s.countMatching(sc.Transactions, s.cfg.Keywords.Gambling); n > 0 {
		deduct("gambling", pol.GamblingDeduction)
		flag("GAMBLING_ACTIVITY", models.SeverityHigh, fmt.Sprintf("%d gambling transactions", n))
	}

	// Existing debt load.
	switch {
	case positions.Stacking >= 2:
		d := float64(positions.Stacking) * pol.StackingPerPosition
		if d > pol.StackingCap {
			d = pol.StackingCap
		}
		deduct("stacking", d)
		if positions.Stacking >= stackingCriticalFloor {
			flag("STACKING", models.SeverityCritical, fmt.Sprintf("%d concurrent advance positions", positions.Stacking))
		} else if positions.Stacking >= stackingFlagFloor {
			flag("STACKING", models.SeverityHigh, fmt.Sprintf("%d concurrent advance positions", positions.Stacking))
		}
	case positions.Stacking == 1:
		deduct("existing_position", pol.SinglePositionDeduct)
	}

	// Debt service against deposits.
	monthlyDeposits := avgMonthlyDeposits(sc.Revenue)
	if monthlyDeposits > 0 {
		p.DTI = positions.TotalMonthlyDebt / monthlyDeposits
		if p.DTI > pol.HighDTIThreshold {
			deduct("debt_to_income", pol.HighDTIDeduction)
			sev := models.SeverityHigh
			if p.DTI > 2*pol.HighDTIThreshold {
				sev = models.SeverityCritical
			}
			flag("HIGH_DEBT_SERVICE", sev, fmt.Sprintf("debt service is %.0f%% of monthly deposits", p.DTI*100))
		}
	}

	// Fresh capital taken recently.
	if positions.DaysSinceLastFunding >= 0 && positions.DaysSinceLastFunding <= pol.RecentFundingDays {
		deduct("recent_funding", pol.RecentFundingDeduct)
		flag("RECENT_FUNDING", models.SeverityMedium, fmt.Sprintf("funding deposit %d days before period end", positions.DaysSinceLastFunding))
	}

	// Revenue level and direction.
	if monthlyDeposits > 0 && monthlyDeposits < pol.LowRevenueFloor {
		deduct("low_revenue", pol.LowRevenueDeduct)
		flag("LOW_REVENUE", models.SeverityMedium, fmt.Sprintf("average monthly deposits %.2f", monthlyDeposits))
	}
	declining, accelerating := revenueTrend(sc.Revenue.Monthly)
	if accelerating {
		deduct("revenue_decline", pol.AccelDeclineDeduct)
		flag("REVENUE_DECLINING", models.SeverityHigh, "month-over-month deposit decline is accelerating")
	} else if declining {
		deduct("revenue_decline", pol.DecliningRevDeduct)
		flag("REVENUE_DECLINING", models.SeverityHigh, "deposits declined month over month")
	}

	// Cash-heavy deposit mix.
	if sc.Revenue.GrossDeposits > 0 {
		cashPct := sc.Revenue.CashDepositTotal / sc.Revenue.GrossDeposits * 100
		if cashPct > pol.CashPctFlagThreshold {
			deduct("cash_concentration", pol.CashDeduction)
			flag("CASH_DEPOSIT_CONCENTRATION", models.SeverityMedium, fmt.Sprintf("%.0f%% of deposits are cash", cashPct))
		}
	}

	// Keyword findings with no numeric signal deduct via severity caps.
	var high, medium, critical float64
	if n := s.countMatching(sc.Transactions, s.cfg.Keywords.RedFlag); n > 0 {
		critical += float64(n) * pol.CriticalFlagDeduct
		flag("LEGAL_FINANCIAL_DISTRESS", models.SeverityCritical, fmt.Sprintf("%d garnishment, levy, or judgment items", n))
	}
	if n := s.countMatching(sc.Transactions, s.cfg.Keywords.ReturnedDeposit); n > 0 {
		high += float64(n) * pol.HighFlagDeduction
		flag("RETURNED_DEPOSITS", models.SeverityHigh, fmt.Sprintf("%d returned or reversed deposits", n))
	}
	if days := period.Days(); days > 0 && days <= newAccountDays {
		medium += pol.MediumFlagDeduction
		flag("NEW_BANK_ACCOUNT", models.SeverityMedium, fmt.Sprintf("only %d days of history", days))
	}
	if high > pol.HighFlagCap {
		high = pol.HighFlagCap
	}
	if medium > pol.MediumFlagCap {
		medium = pol.MediumFlagCap
	}
	deduct("critical_findings", critical)
	deduct("high_findings", high)
	deduct("medium_findings", medium)

	score := 100.0
	for _, d := range p.Signals {
		score -= d
	}
	if score < 0 {
		score = 0
	}
	p.Score = int(score + 0.5)
	p.Tier = s.tier(p.Score)
	p.Approved = p.Tier != models.TierDecline
	return p
}

func (s *Scorer) tier(score int) models.RiskTier {
	pol := s.cfg.Risk
	switch {
	case score >= pol.TierA:
		return models.TierA
	case score >= pol.TierB:
		return models.TierB
	case score >= pol.TierC:
		return models.TierC
	case score >= pol.TierD:
		return models.TierD
	default:
		return models.TierDecline
	}
}

// countNSF counts NSF fee events, suppressing waived and reversed fees.
func (s *Scorer) countNSF(txns []models.ScrubbedTransaction) (int, float64) {
	count := 0
	var fees float64
	for _, t := range txns {
		upper := strings.ToUpper(t.Description)
		if !containsAny(upper, s.cfg.Keywords.NSF) {
			continue
		}
		if containsAny(upper, s.cfg.Keywords.NSFWaiver) {
			continue
		}
		count++
		if t.Amount < 0 {
			fees += -t.Amount
		}
	}
	return count, fees
}

func (s *Scorer) countMatching(txns []models.ScrubbedTransaction, keywords []string) int {
	n := 0
	for _, t := range txns {
		if containsAny(strings.ToUpper(t.Description), keywords) {
			n++
		}
	}
	return n
}

func containsAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func avgMonthlyDeposits(rev models.RevenueMetrics) float64 {
	if len(rev.Monthly) == 0 {
		return 0
	}
	return rev.GrossDeposits / float64(len(rev.Monthly))
}

// revenueTrend inspects the monthly deposit series: declining when the last
// full month dropped more than the threshold from its predecessor,
// accelerating when each of the last two drops was steeper than the one
// before it.
func revenueTrend(monthly []models.MonthMetrics) (declining, accelerating bool) {
	n := len(monthly)
	if n < 2 {
		return false, false
	}
	last, prev := monthly[n-1].Deposits, monthly[n-2].Deposits
	declining = prev > 0 && (prev-last)/prev > revenueDeclinePct
	if n >= 3 && declining {
		prev2 := monthly[n-3].Deposits
		drop1 := safeDropPct(prev2, prev)
		drop2 := safeDropPct(prev, last)
		accelerating = drop1 > revenueDeclinePct/2 && drop2 > drop1
	}
	return declining, accelerating
}

func safeDropPct(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (from - to) / from
}
