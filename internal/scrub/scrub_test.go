package scrub

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

func testExtraction() *models.Extraction {
	return &models.Extraction{
		Info: models.StatementInfo{
			Period: models.Period{Start: day(1), End: day(31)},
		},
		Transactions: []models.Transaction{
			{Date: day(1), Description: "DEPOSIT ACH SHIFT4 SETTLEMENT", Amount: 5000, Balance: f(5000)},
			{Date: day(3), Description: "WIRE OUT ACME SUPPLY", Amount: -2000, Balance: f(3000)},
			{Date: day(8), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(2500)},
			{Date: day(15), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(2000)},
			{Date: day(22), Description: "ACH DEBIT LENDERCO", Amount: -500, Balance: f(1500)},
		},
	}
}

func TestScrubCategories(t *testing.T) {
	res := New(config.Default()).Scrub(testExtraction())

	want := []models.Category{
		models.CategoryRevenue,
		models.CategoryTransfer,
		models.CategoryDebt,
		models.CategoryDebt,
		models.CategoryDebt,
	}
	for i, cat := range want {
		if got := res.Transactions[i].Category; got != cat {
			t.Errorf("txn %d category = %q, want %q", i, got, cat)
		}
	}
	if !res.Transactions[1].InternalTransfer {
		t.Error("outbound wire not flagged as internal transfer")
	}
}

// A processor settlement that mentions "transfer" is revenue, not a
// transfer: the revenue vocabulary outranks the transfer vocabulary.
func TestScrubRevenueOutranksTransfer(t *testing.T) {
	ex := &models.Extraction{
		Transactions: []models.Transaction{
			{Date: day(5), Description: "SQUARE INC TRANSFER FROM SETTLEMENT", Amount: 900},
		},
	}
	res := New(config.Default()).Scrub(ex)

	if res.Transactions[0].InternalTransfer {
		t.Error("settlement flagged as internal transfer despite revenue source")
	}
	if res.Transactions[0].Category != models.CategoryRevenue {
		t.Errorf("category = %q, want revenue", res.Transactions[0].Category)
	}
	if res.Revenue.GrossDeposits != 900 {
		t.Errorf("gross deposits = %.2f, want 900", res.Revenue.GrossDeposits)
	}
}

func TestScrubRevenueMetrics(t *testing.T) {
	res := New(config.Default()).Scrub(testExtraction())
	rev := res.Revenue

	// Transfers leave the deposit side only; debt leaves both sides.
	if rev.GrossDeposits != 5000 {
		t.Errorf("gross deposits = %.2f, want 5000", rev.GrossDeposits)
	}
	if rev.GrossWithdrawals != 2000 {
		t.Errorf("gross withdrawals = %.2f, want 2000", rev.GrossWithdrawals)
	}
	if rev.NetRevenue != 3000 {
		t.Errorf("net revenue = %.2f, want 3000", rev.NetRevenue)
	}

	if len(rev.Monthly) != 1 || rev.Monthly[0].Month != "2024-01" {
		t.Fatalf("monthly breakdown = %+v", rev.Monthly)
	}
	if rev.Monthly[0].Net != 3000 {
		t.Errorf("monthly net = %.2f, want 3000", rev.Monthly[0].Net)
	}
	if rev.DepositConcentration != 1 {
		t.Errorf("concentration = %.2f, want 1", rev.DepositConcentration)
	}
}

func TestScrubDailyBalancesCarryForward(t *testing.T) {
	res := New(config.Default()).Scrub(testExtraction())

	if len(res.DailyBalances) != 31 {
		t.Fatalf("got %d daily balances, want 31", len(res.DailyBalances))
	}
	// Jan 4 through Jan 7 have no activity; the Jan 3 balance carries.
	for i := 3; i <= 6; i++ {
		d := res.DailyBalances[i]
		if d.Balance == nil || *d.Balance != 3000 {
			t.Errorf("day %s balance = %v, want 3000", d.Date.Format("2006-01-02"), d.Balance)
		}
	}
	last := res.DailyBalances[30]
	if last.Balance == nil || *last.Balance != 1500 {
		t.Errorf("final balance = %v, want 1500", last.Balance)
	}

	neg, known := NegativeDays(res.DailyBalances)
	if neg != 0 || known != 31 {
		t.Errorf("NegativeDays = %d/%d, want 0/31", neg, known)
	}
}

func TestScrubCashDeposits(t *testing.T) {
	ex := &models.Extraction{
		Transactions: []models.Transaction{
			{Date: day(2), Description: "CASH DEPOSIT BRANCH 0412", Amount: 700},
			{Date: day(4), Description: "CARD SETTLEMENT TOAST", Amount: 300},
		},
	}
	res := New(config.Default()).Scrub(ex)
	if res.Revenue.CashDepositTotal != 700 {
		t.Errorf("cash deposit total = %.2f, want 700", res.Revenue.CashDepositTotal)
	}
}
