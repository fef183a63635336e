package parser

import (
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

const wellsFixture = `Wells Fargo Bank, N.A.
Optimize Business Checking
Account number: 1234567890
Statement period 01/01/2024 - 01/31/2024
Transaction history
1/5 Shift4 Sttlmt 240105 Acme LLC 1,250.00 8,340.22
1/9 OnDeck Cap Pymt 240109 < 199.00 8,141.22
1/12 Purchase authorized on 01/11 Costco Whse 86.40 8,054.82
1/16 Counter Deposit 600.00 8,654.82
Ending balance on 1/31`

func TestWellsFargoParse(t *testing.T) {
	ex, err := (&WellsFargoParser{}).Parse(models.RawStatement{Text: wellsFixture})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(ex.Transactions) != 4 {
		t.Fatalf("got %d transactions, want 4:\n%+v", len(ex.Transactions), ex.Transactions)
	}

	want := []float64{1250, -199, -86.40, 600}
	for i, amount := range want {
		if got := ex.Transactions[i].Amount; got != amount {
			t.Errorf("txn %d amount = %.2f, want %.2f", i, got, amount)
		}
	}

	// The '<' ACH-debit marker must not survive into the description.
	if desc := ex.Transactions[1].Description; desc != "OnDeck Cap Pymt 240109" {
		t.Errorf("marker row description = %q", desc)
	}

	// Running balances ride along for the validator.
	if ex.Transactions[0].Balance == nil || *ex.Transactions[0].Balance != 8340.22 {
		t.Errorf("balance = %v", ex.Transactions[0].Balance)
	}
}
