package parser

import (
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func TestGenericParseLines(t *testing.T) {
	text := `First Community Bank
Statement period 01/01/2024 - 01/31/2024
01/05/2024 MERCHANT SETTLEMENT CLOVER 1,250.00 8,340.22
01/09/2024 ACH PAYMENT QUICK FUNDING LLC 199.00 8,141.22
01/16/2024 DEPOSIT 600.00 8,741.22`

	ex, err := (&GenericParser{}).Parse(models.RawStatement{Text: text})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ex.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3:\n%+v", len(ex.Transactions), ex.Transactions)
	}
	want := []float64{1250, -199, 600}
	for i, amount := range want {
		if got := ex.Transactions[i].Amount; got != amount {
			t.Errorf("txn %d amount = %.2f, want %.2f", i, got, amount)
		}
	}
}

// Recovered table grids take precedence over line parsing when present.
func TestGenericParseTables(t *testing.T) {
	raw := models.RawStatement{
		Text: "Statement period 01/01/2024 - 01/31/2024",
		Tables: [][]string{
			{"2024-01-05", "MERCHANT SETTLEMENT", "CLOVER", "1,250.00", "8,340.22"},
			{"2024-01-09", "ACH PAYMENT QUICK FUNDING", "199.00", "8,141.22"},
			{"not a date", "junk row", "1.00"},
			{"short"},
		},
	}

	ex, err := (&GenericParser{}).Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ex.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2:\n%+v", len(ex.Transactions), ex.Transactions)
	}
	if ex.Transactions[0].Description != "MERCHANT SETTLEMENT CLOVER" {
		t.Errorf("description = %q", ex.Transactions[0].Description)
	}
	if ex.Transactions[1].Amount != -199 {
		t.Errorf("amount = %.2f, want -199", ex.Transactions[1].Amount)
	}
}
