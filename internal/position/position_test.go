package position

import (
	"testing"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func janPeriod() models.Period {
	return models.Period{Start: day(1), End: day(31)}
}

func debtTxn(d int, desc string, amount float64) models.ScrubbedTransaction {
	return models.ScrubbedTransaction{
		Transaction: models.Transaction{Date: day(d), Description: desc, Amount: amount},
		Category:    models.CategoryDebt,
	}
}

func otherTxn(d int, desc string, amount float64) models.ScrubbedTransaction {
	cat := models.CategoryOther
	if amount > 0 {
		cat = models.CategoryRevenue
	}
	return models.ScrubbedTransaction{
		Transaction: models.Transaction{Date: day(d), Description: desc, Amount: amount},
		Category:    cat,
	}
}

func TestReconstructWeeklyPosition(t *testing.T) {
	scrubbed := models.ScrubResult{Transactions: []models.ScrubbedTransaction{
		debtTxn(1, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(8, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(15, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(22, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(29, "ACH DEBIT LENDERCO PMT", -500),
	}}

	report := New(config.Default()).Reconstruct(scrubbed, janPeriod())
	if len(report.Positions) != 1 {
		t.Fatalf("got %d positions, want 1: %+v", len(report.Positions), report.Positions)
	}
	p := report.Positions[0]
	if p.Frequency != models.FreqWeekly {
		t.Errorf("frequency = %q, want weekly", p.Frequency)
	}
	if p.AveragePayment != 500 {
		t.Errorf("average payment = %.2f, want 500", p.AveragePayment)
	}
	if p.Tier != 3 {
		t.Errorf("tier = %d, want 3", p.Tier)
	}
	if p.TotalPaid != 2500 {
		t.Errorf("total paid = %.2f, want 2500", p.TotalPaid)
	}
	if p.EstFunding <= 0 || p.EstRemaining < 0 {
		t.Errorf("reconstruction produced EstFunding %.2f, EstRemaining %.2f", p.EstFunding, p.EstRemaining)
	}
	if report.Stacking != 1 {
		t.Errorf("stacking = %d, want 1", report.Stacking)
	}
}

// One skipped week must not demote a weekly cadence: four payments in a
// month still classify weekly under count-per-month, where gap-averaging
// would see a 14-day hole and waver toward biweekly.
func TestReconstructWeeklyWithSkippedPayment(t *testing.T) {
	scrubbed := models.ScrubResult{Transactions: []models.ScrubbedTransaction{
		debtTxn(1, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(8, "ACH DEBIT LENDERCO PMT", -500),
		// Jan 15 payment missed.
		debtTxn(22, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(29, "ACH DEBIT LENDERCO PMT", -500),
	}}

	report := New(config.Default()).Reconstruct(scrubbed, janPeriod())
	if len(report.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(report.Positions))
	}
	if got := report.Positions[0].Frequency; got != models.FreqWeekly {
		t.Errorf("frequency = %q, want weekly", got)
	}
}

func TestMatchTiers(t *testing.T) {
	r := New(config.Default())

	tests := []struct {
		desc   string
		lender string
		tier   int
	}{
		{"ACH WITHDRAWAL 9144978400 DAILY", "eFinancialTree", 1},
		{"ONDECK CAPITAL PMT 123", "OnDeck", 2},
		{"MERCHANT CASH PMT ACME", "MERCHANT CASH PMT", 3},
	}
	for _, tt := range tests {
		lender, tier := r.matchLender(tt.desc)
		if lender != tt.lender || tier != tt.tier {
			t.Errorf("matchLender(%q) = %q, %d; want %q, %d", tt.desc, lender, tier, tt.lender, tt.tier)
		}
	}
}

// A debit with no lender evidence at all still becomes a position when it
// recurs at near-constant amount and interval.
func TestTier4RecurringDebit(t *testing.T) {
	scrubbed := models.ScrubResult{Transactions: []models.ScrubbedTransaction{
		otherTxn(2, "WD AUTOPAY GHOSTCO", -350),
		otherTxn(9, "WD AUTOPAY GHOSTCO", -350),
		otherTxn(16, "WD AUTOPAY GHOSTCO", -350),
		otherTxn(23, "WD AUTOPAY GHOSTCO", -350),
		otherTxn(30, "WD AUTOPAY GHOSTCO", -350),
		// Irregular noise that must not form a position.
		otherTxn(5, "OFFICE SUPPLY STORE", -80),
		otherTxn(19, "OFFICE SUPPLY STORE", -45),
	}}

	report := New(config.Default()).Reconstruct(scrubbed, janPeriod())
	if len(report.Positions) != 1 {
		t.Fatalf("got %d positions, want 1: %+v", len(report.Positions), report.Positions)
	}
	p := report.Positions[0]
	if p.Tier != 4 {
		t.Errorf("tier = %d, want 4", p.Tier)
	}
	if len(p.Payments) != 5 {
		t.Errorf("got %d payments, want 5", len(p.Payments))
	}
}

func TestFundingDepositPinsEstimate(t *testing.T) {
	scrubbed := models.ScrubResult{Transactions: []models.ScrubbedTransaction{
		otherTxn(2, "INCOMING WIRE QUICK BRIDGE FUNDING", 20000),
		debtTxn(5, "ACH DEBIT QUICKBRDG", -450),
		debtTxn(12, "ACH DEBIT QUICKBRDG", -450),
		debtTxn(19, "ACH DEBIT QUICKBRDG", -450),
		debtTxn(26, "ACH DEBIT QUICKBRDG", -450),
	}}

	report := New(config.Default()).Reconstruct(scrubbed, janPeriod())
	if len(report.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(report.Positions))
	}
	p := report.Positions[0]
	if p.Tier != 1 {
		t.Errorf("tier = %d, want 1 (exact ACH identifier)", p.Tier)
	}
	if !p.FundingObserved || p.FundingDeposit != 20000 {
		t.Errorf("funding deposit = %.2f (observed %v), want 20000", p.FundingDeposit, p.FundingObserved)
	}
	if p.EstFunding != 20000 {
		t.Errorf("estimated funding = %.2f, want the observed 20000", p.EstFunding)
	}
	if report.DaysSinceLastFunding != 29 {
		t.Errorf("days since last funding = %d, want 29", report.DaysSinceLastFunding)
	}
}

func TestStoppedTrend(t *testing.T) {
	scrubbed := models.ScrubResult{Transactions: []models.ScrubbedTransaction{
		debtTxn(1, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(4, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(7, "ACH DEBIT LENDERCO PMT", -500),
		debtTxn(10, "ACH DEBIT LENDERCO PMT", -500),
		// Then silence through Jan 31.
	}}

	report := New(config.Default()).Reconstruct(scrubbed, janPeriod())
	if len(report.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(report.Positions))
	}
	if got := report.Positions[0].Trend; got != models.TrendStopped {
		t.Errorf("trend = %q, want stopped", got)
	}
	if report.Stacking != 0 {
		t.Errorf("stacking = %d, want 0 for a stopped position", report.Stacking)
	}
}
