package parser

import (
	"strings"
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

const chaseFixture = `JPMorgan Chase Bank, N.A.
Account Number: 000000123456
January 1, 2024 through January 31, 2024
CHECKING SUMMARY
Beginning Balance $4,000.00
Ending Balance $5,135.00
DEPOSITS AND ADDITIONS
01/05 ORIG CO NAME:SHIFT4 ENTRY DESCR:SETTLEMENT 1,250.00
01/12 REMOTE ONLINE DEPOSIT 800.00
Total Deposits and Additions $2,050.00
CHECKS PAID
1234 ^ 01/08 500.00
ELECTRONIC WITHDRAWALS
01/09 ORIG CO NAME:ONDECK CAPITAL 199.00
TRN: 0109123456TC
FEES
01/31 MONTHLY SERVICE FEE 16.00
DAILY ENDING BALANCE
01/05 5,250.00
Page 1 of 3`

func TestChaseParse(t *testing.T) {
	ex, err := (&ChaseParser{}).Parse(models.RawStatement{Text: chaseFixture})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if ex.Info.Format != models.FormatChase {
		t.Errorf("format = %q", ex.Info.Format)
	}
	if ex.Info.AccountNumber != "000000123456" {
		t.Errorf("account = %q", ex.Info.AccountNumber)
	}
	if ex.Info.Period.IsZero() {
		t.Fatal("period not located")
	}
	if got := ex.Info.Period.Start.Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("period start = %s", got)
	}
	if ex.Info.BeginningBalance == nil || *ex.Info.BeginningBalance != 4000 {
		t.Errorf("beginning balance = %v", ex.Info.BeginningBalance)
	}

	if len(ex.Transactions) != 5 {
		t.Fatalf("got %d transactions, want 5:\n%+v", len(ex.Transactions), ex.Transactions)
	}

	// Checks re-sort by date and land after the dated activity.
	want := []struct {
		date   string
		amount float64
	}{
		{"2024-01-05", 1250},
		{"2024-01-12", 800},
		{"2024-01-09", -199},
		{"2024-01-31", -16},
		{"2024-01-08", -500},
	}
	for i, w := range want {
		got := ex.Transactions[i]
		if got.Date.Format("2006-01-02") != w.date || got.Amount != w.amount {
			t.Errorf("txn %d = %s %.2f, want %s %.2f", i, got.Date.Format("2006-01-02"), got.Amount, w.date, w.amount)
		}
	}

	if ex.Transactions[4].Description != "CHECK #1234" {
		t.Errorf("check description = %q", ex.Transactions[4].Description)
	}
	if !strings.Contains(ex.Transactions[2].Description, "TRN: 0109123456TC") {
		t.Errorf("continuation not merged: %q", ex.Transactions[2].Description)
	}
}

// Chase prints the check register in columns that read down before across;
// every entry on a row must parse and the block must come back in date order.
func TestChaseMultiColumnChecks(t *testing.T) {
	text := `JPMORGAN CHASE BANK
January 1, 2024 through January 31, 2024
CHECKS PAID
1234 ^ 01/08 500.00   1237 * 01/03 120.00   1240 01/22 75.50
1235 01/16 300.00   1238 ^ 01/10 42.00`

	ex, err := (&ChaseParser{}).Parse(models.RawStatement{Text: text})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ex.Transactions) != 5 {
		t.Fatalf("got %d transactions, want 5:\n%+v", len(ex.Transactions), ex.Transactions)
	}

	wantDates := []string{"2024-01-03", "2024-01-08", "2024-01-10", "2024-01-16", "2024-01-22"}
	for i, d := range wantDates {
		if got := ex.Transactions[i].Date.Format("2006-01-02"); got != d {
			t.Errorf("check %d date = %s, want %s", i, got, d)
		}
	}
	if ex.Transactions[0].Description != "CHECK #1237" || ex.Transactions[0].Amount != -120 {
		t.Errorf("earliest check = %+v", ex.Transactions[0])
	}
}

// Rows under DAILY ENDING BALANCE look like transactions but are summary
// data; they must not leak into the register.
func TestChaseSkipsDailyEndingBalance(t *testing.T) {
	ex, err := (&ChaseParser{}).Parse(models.RawStatement{Text: chaseFixture})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, txn := range ex.Transactions {
		if txn.Amount == 5250 {
			t.Fatalf("daily ending balance row parsed as a transaction: %+v", txn)
		}
	}
}
