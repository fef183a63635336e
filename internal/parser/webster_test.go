package parser

import (
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

const websterFixture = `Webster Bank, N.A.
PLATINUM BUSINESS ANALYZED CHECKING
January 1, 2024 through January 31, 2024
Beginning Balance $7,090.22
01/05/2024 ACH SETTLEMENT SHIFT4 1,250.00 8,340.22
01/09/2024 ACH DEBIT ONDECK CAPITAL 199.00 8,141.22
Jan 16 OUTGOING WIRE ACME SUPPLY -600.00 7,541.22
Jan 22 MERCHANT SETTLEMENT CLOVER 300.00 7,841.22`

func TestWebsterParse(t *testing.T) {
	ex, err := (&WebsterParser{}).Parse(models.RawStatement{Text: websterFixture})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(ex.Transactions) != 4 {
		t.Fatalf("got %d transactions, want 4:\n%+v", len(ex.Transactions), ex.Transactions)
	}

	// Both register layouts in one statement: full dates with unsigned
	// amounts resolved by balance progression, Mon DD dates with explicit
	// signs passed through.
	want := []float64{1250, -199, -600, 300}
	for i, amount := range want {
		if got := ex.Transactions[i].Amount; got != amount {
			t.Errorf("txn %d amount = %.2f, want %.2f", i, got, amount)
		}
	}

	if got := ex.Transactions[3].Date.Format("2006-01-02"); got != "2024-01-22" {
		t.Errorf("Mon DD date = %s", got)
	}
}
