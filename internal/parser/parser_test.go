package parser

import (
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(config.Default().Detection)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func TestDetect(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		name string
		text string
		want models.BankFormat
	}{
		{"chase", "JPMorgan Chase Bank, N.A.\nCHECKING SUMMARY", models.FormatChase},
		{"bofa", "Bank of America, N.A.\nBusiness Advantage", models.FormatBofA},
		{"wellsfargo", "WELLS FARGO BANK\nTransaction history", models.FormatWellsFargo},
		{"citibank", "CitiBusiness\nCHECKING ACTIVITY", models.FormatCitibank},
		{"usbank", "U.S. Bank National Association", models.FormatUSBank},
		{"webster", "Webster Bank\nPLATINUM BUSINESS ANALYZED", models.FormatWebster},
		{"unknown", "First Community Credit Union statement", models.FormatGeneric},
		{"empty", "", models.FormatGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A Wells Fargo statement full of card activity contains "PURCHASE
// AUTHORIZED" on nearly every line, and "CHASE" is a substring of
// "PURCHASE". The ordered table must resolve this to Wells Fargo.
func TestDetectOrderBreaksSubstringTie(t *testing.T) {
	d := newTestDetector(t)

	text := `WELLS FARGO BANK, N.A.
Transaction history
1/12 PURCHASE AUTHORIZED ON 01/11 COSTCO WHSE 86.40`

	if got := d.Detect(text); got != models.FormatWellsFargo {
		t.Fatalf("Detect() = %q, want %q", got, models.FormatWellsFargo)
	}
}

func TestNewFallsBackToGeneric(t *testing.T) {
	p := New(models.BankFormat("no-such-bank"))
	if p.Format() != models.FormatGeneric {
		t.Fatalf("New() fallback format = %q, want generic", p.Format())
	}
	for _, f := range []models.BankFormat{
		models.FormatChase, models.FormatBofA, models.FormatWellsFargo,
		models.FormatCitibank, models.FormatUSBank, models.FormatWebster,
	} {
		if got := New(f).Format(); got != f {
			t.Errorf("New(%q).Format() = %q", f, got)
		}
	}
}
