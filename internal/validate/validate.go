// Package validate scores extraction quality before any downstream analysis
// runs. Checks never fail the pipeline; they deduct from a 0-100 score that
// decides whether the extraction is trusted, reviewed, or re-attempted.
package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// balanceTolerance absorbs float drift when reconciling printed balances.
const balanceTolerance = 0.015

// Validator runs the extraction quality checks under a policy.
type Validator struct {
	policy config.QualityPolicy
}

func New(policy config.QualityPolicy) *Validator {
	return &Validator{policy: policy}
}

// Check scores the extraction. The score starts at 100 and each failed check
// deducts its configured weight; the floor is 0.
func (v *Validator) Check(ex *models.Extraction) models.QualityReport {
	// Nothing extracted means nothing to grade: automatic floor.
	if len(ex.Transactions) == 0 {
		return models.QualityReport{
			Score:  0,
			Status: models.StatusPoor,
			Checks: []models.QualityCheck{{
				Name:   "transaction_count",
				Passed: false,
				Detail: "no transactions extracted",
			}},
		}
	}

	score := 100
	var checks []models.QualityCheck

	run := func(c models.QualityCheck, deduction int) {
		if !c.Passed {
			score -= deduction
		}
		checks = append(checks, c)
	}

	run(v.checkBalances(ex), v.policy.BalanceMismatchDeduction)
	run(v.checkCount(ex), v.policy.LowCountDeduction)
	run(v.checkTwoSided(ex), v.policy.OneSidedDeduction)
	run(v.checkDescriptions(ex), v.policy.DescriptionDeduction)

	dupCheck, dupDeduction := v.checkDuplicates(ex)
	run(dupCheck, dupDeduction)

	run(v.checkDates(ex), v.policy.DateDeduction)

	if score < 0 {
		score = 0
	}
	return models.QualityReport{
		Score:  score,
		Status: v.status(score),
		Checks: checks,
	}
}

func (v *Validator) status(score int) models.QualityStatus {
	switch {
	case score >= v.policy.GoodThreshold:
		return models.StatusGood
	case score >= v.policy.ReviewThreshold:
		return models.StatusNeedsReview
	default:
		return models.StatusPoor
	}
}

// checkBalances reconciles every consecutive pair of printed running
// balances: the later balance must equal the earlier one plus the amounts
// between them. The stated ending balance, when the header carries one, must
// match the last printed running balance. Statements that never print a
// balance pass by default.
func (v *Validator) checkBalances(ex *models.Extraction) models.QualityCheck {
	check := models.QualityCheck{Name: "balance_reconciliation", Passed: true}

	prevIdx := -1
	mismatches := 0
	pairs := 0
	for i, t := range ex.Transactions {
		if t.Balance == nil {
			continue
		}
		if prevIdx >= 0 {
			expected := *ex.Transactions[prevIdx].Balance
			for j := prevIdx + 1; j <= i; j++ {
				expected += ex.Transactions[j].Amount
			}
			pairs++
			if math.Abs(expected-*t.Balance) > balanceTolerance {
				mismatches++
			}
		}
		prevIdx = i
	}

	if prevIdx >= 0 && ex.Info.EndingBalance != nil {
		pairs++
		if math.Abs(*ex.Transactions[prevIdx].Balance-*ex.Info.EndingBalance) > balanceTolerance {
			mismatches++
		}
	}

	if pairs == 0 {
		check.Detail = "no running balances printed"
		return check
	}
	if mismatches > 0 {
		check.Passed = false
		check.Detail = fmt.Sprintf("%d of %d balance transitions do not reconcile", mismatches, pairs)
		return check
	}
	check.Detail = fmt.Sprintf("%d balance transitions reconcile", pairs)
	return check
}

// checkCount flags implausibly sparse extractions: an active business account
// produces at least one transaction every few days.
func (v *Validator) checkCount(ex *models.Extraction) models.QualityCheck {
	check := models.QualityCheck{Name: "transaction_count", Passed: true}
	n := len(ex.Transactions)
	if n == 0 {
		check.Passed = false
		check.Detail = "no transactions extracted"
		return check
	}

	days := ex.Info.Period.Days()
	if days > 0 && v.policy.DaysPerTransactionFloor > 0 {
		if n < days/v.policy.DaysPerTransactionFloor {
			check.Passed = false
			check.Detail = fmt.Sprintf("%d transactions over %d days is below the expected floor", n, days)
			return check
		}
	} else if n < 3 {
		check.Passed = false
		check.Detail = fmt.Sprintf("only %d transactions with no period to judge against", n)
		return check
	}
	check.Detail = fmt.Sprintf("%d transactions", n)
	return check
}

// checkTwoSided flags extractions where every item landed on one side of the
// ledger, which almost always means a section or sign column was missed.
func (v *Validator) checkTwoSided(ex *models.Extraction) models.QualityCheck {
	check := models.QualityCheck{Name: "credit_debit_presence", Passed: true}
	if len(ex.Transactions) < 10 {
		check.Detail = "too few transactions to judge"
		return check
	}
	credits, debits := 0, 0
	for _, t := range ex.Transactions {
		if t.IsDebit() {
			debits++
		} else {
			credits++
		}
	}
	if credits == 0 || debits == 0 {
		check.Passed = false
		check.Detail = fmt.Sprintf("one-sided extraction: %d credits, %d debits", credits, debits)
		return check
	}
	check.Detail = fmt.Sprintf("%d credits, %d debits", credits, debits)
	return check
}

// checkDescriptions flags extractions where too many descriptions are
// truncated or purely numeric column debris.
func (v *Validator) checkDescriptions(ex *models.Extraction) models.QualityCheck {
	check := models.QualityCheck{Name: "description_quality", Passed: true}
	if len(ex.Transactions) == 0 {
		check.Detail = "no transactions"
		return check
	}
	bad := 0
	for _, t := range ex.Transactions {
		if len(strings.TrimSpace(t.Description)) < 5 || isNumericOnly(t.Description) {
			bad++
		}
	}
	pct := float64(bad) / float64(len(ex.Transactions))
	if pct > 0.2 {
		check.Passed = false
		check.Detail = fmt.Sprintf("%.0f%% of descriptions are truncated or numeric", pct*100)
		return check
	}
	check.Detail = fmt.Sprintf("%d of %d descriptions look degraded", bad, len(ex.Transactions))
	return check
}

func isNumericOnly(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seen = true
		case r == ' ' || r == '.' || r == ',' || r == '-' || r == '#' || r == '/':
		default:
			return false
		}
	}
	return seen
}

// checkDuplicates deducts per exact (date, description, amount) duplicate
// beyond the allowance. Legitimate same-day repeats exist, so the first
// duplicate is tolerated.
func (v *Validator) checkDuplicates(ex *models.Extraction) (models.QualityCheck, int) {
	check := models.QualityCheck{Name: "duplicate_detection", Passed: true}
	seen := map[string]int{}
	dups := 0
	for _, t := range ex.Transactions {
		key := fmt.Sprintf("%s|%s|%.2f", t.Date.Format("2006-01-02"), t.Description, t.Amount)
		seen[key]++
		if seen[key] > 1 {
			dups++
		}
	}
	if dups <= v.policy.AllowedExactDuplicates {
		check.Detail = fmt.Sprintf("%d exact duplicates within allowance", dups)
		return check, 0
	}
	check.Passed = false
	check.Detail = fmt.Sprintf("%d exact duplicates beyond allowance", dups)
	deduction := (dups - v.policy.AllowedExactDuplicates) * v.policy.DuplicateDeduction
	if deduction > v.policy.DuplicateDeductionCap {
		deduction = v.policy.DuplicateDeductionCap
	}
	return check, deduction
}

// checkDates flags transactions dated outside the statement period. With no
// period located, it falls back to requiring all dates within one calendar
// year of each other.
func (v *Validator) checkDates(ex *models.Extraction) models.QualityCheck {
	check := models.QualityCheck{Name: "date_sanity", Passed: true}
	if len(ex.Transactions) == 0 {
		check.Detail = "no transactions"
		return check
	}

	if !ex.Info.Period.IsZero() {
		// Banks post a trailing item or two outside the printed period.
		margin := 5 * 24 * time.Hour
		outside := 0
		for _, t := range ex.Transactions {
			if t.Date.Before(ex.Info.Period.Start.Add(-margin)) || t.Date.After(ex.Info.Period.End.Add(margin)) {
				outside++
			}
		}
		if outside > 0 {
			check.Passed = false
			check.Detail = fmt.Sprintf("%d transactions dated outside the statement period", outside)
			return check
		}
		check.Detail = "all dates inside the statement period"
		return check
	}

	min, max := ex.Transactions[0].Date, ex.Transactions[0].Date
	for _, t := range ex.Transactions[1:] {
		if t.Date.Before(min) {
			min = t.Date
		}
		if t.Date.After(max) {
			max = t.Date
		}
	}
	if max.Sub(min) > 370*24*time.Hour {
		check.Passed = false
		check.Detail = fmt.Sprintf("dates span %s to %s with no period header", min.Format("2006-01-02"), max.Format("2006-01-02"))
		return check
	}
	check.Detail = "date span plausible"
	return check
}
