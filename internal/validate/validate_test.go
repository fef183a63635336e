package validate

import (
	"testing"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func f(v float64) *float64 { return &v }

func janPeriod() models.Period {
	return models.Period{Start: day(1), End: day(31)}
}

func goodExtraction() *models.Extraction {
	return &models.Extraction{
		Info: models.StatementInfo{Period: janPeriod()},
		Transactions: []models.Transaction{
			{Date: day(1), Description: "DEPOSIT ACH SETTLEMENT", Amount: 5000, Balance: f(5000)},
			{Date: day(3), Description: "WIRE OUT ACME SUPPLY", Amount: -2000, Balance: f(3000)},
			{Date: day(8), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(2500)},
			{Date: day(15), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(2000)},
			{Date: day(22), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(1500)},
		},
	}
}

func newValidator() *Validator {
	return New(config.Default().Quality)
}

func TestCheckCleanExtractionScores100(t *testing.T) {
	report := newValidator().Check(goodExtraction())
	if report.Score != 100 {
		t.Fatalf("score = %d, want 100; checks: %+v", report.Score, report.Checks)
	}
	if report.Status != models.StatusGood {
		t.Errorf("status = %q, want GOOD", report.Status)
	}
	if len(report.Checks) != 6 {
		t.Errorf("got %d checks, want 6", len(report.Checks))
	}
}

func TestCheckCatchesBalanceViolation(t *testing.T) {
	ex := goodExtraction()
	// Deliberately broken: the running balance skips 300 that no
	// transaction accounts for.
	ex.Transactions[2].Balance = f(2200)

	report := newValidator().Check(ex)
	if report.Score != 100-config.Default().Quality.BalanceMismatchDeduction {
		t.Fatalf("score = %d; checks: %+v", report.Score, report.Checks)
	}
	for _, c := range report.Checks {
		if c.Name == "balance_reconciliation" && c.Passed {
			t.Error("balance_reconciliation passed on a violated fixture")
		}
	}
}

// The stated ending balance, when the header carries one, must agree with the
// last printed running balance.
func TestCheckStatedEndingBalance(t *testing.T) {
	ex := goodExtraction()
	ex.Info.EndingBalance = f(1500)
	if report := newValidator().Check(ex); report.Score != 100 {
		t.Fatalf("matching stated balance scored %d; checks: %+v", report.Score, report.Checks)
	}

	ex.Info.EndingBalance = f(9999)
	report := newValidator().Check(ex)
	if report.Score != 100-config.Default().Quality.BalanceMismatchDeduction {
		t.Fatalf("mismatched stated balance scored %d; checks: %+v", report.Score, report.Checks)
	}
}

func TestCheckOneSidedExtraction(t *testing.T) {
	ex := &models.Extraction{Info: models.StatementInfo{Period: janPeriod()}}
	for i := 1; i <= 12; i++ {
		ex.Transactions = append(ex.Transactions, models.Transaction{
			Date: day(i), Description: "CARD SETTLEMENT DAILY", Amount: 100,
		})
	}

	report := newValidator().Check(ex)
	var found bool
	for _, c := range report.Checks {
		if c.Name == "credit_debit_presence" && !c.Passed {
			found = true
		}
	}
	if !found {
		t.Fatalf("one-sided extraction not flagged; checks: %+v", report.Checks)
	}
}

func TestCheckEmptyExtractionIsPoor(t *testing.T) {
	report := newValidator().Check(&models.Extraction{Info: models.StatementInfo{Period: janPeriod()}})
	if report.Status != models.StatusPoor {
		t.Fatalf("status = %q, want POOR (score %d)", report.Status, report.Score)
	}
}

func TestCheckDuplicates(t *testing.T) {
	ex := goodExtraction()
	dup := ex.Transactions[0]
	dup.Balance = nil
	// Four identical copies: three duplicates, two beyond the allowance.
	ex.Transactions = append(ex.Transactions, dup, dup, dup)

	report := newValidator().Check(ex)
	pol := config.Default().Quality
	want := 100 - 2*pol.DuplicateDeduction
	if report.Score != want {
		t.Fatalf("score = %d, want %d; checks: %+v", report.Score, want, report.Checks)
	}
}

func TestCheckDatesOutsidePeriod(t *testing.T) {
	ex := goodExtraction()
	ex.Transactions[4].Date = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	report := newValidator().Check(ex)
	var found bool
	for _, c := range report.Checks {
		if c.Name == "date_sanity" && !c.Passed {
			found = true
		}
	}
	if !found {
		t.Fatalf("out-of-period date not flagged; checks: %+v", report.Checks)
	}
}
