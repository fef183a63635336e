package advisor

import (
	"context"
	"testing"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func TestNewDisabledReturnsNil(t *testing.T) {
	if a := New(config.AdvisorConfig{Enabled: false}); a != nil {
		t.Error("disabled advisor is not nil")
	}
	if a := New(config.AdvisorConfig{Enabled: true, APIKey: ""}); a != nil {
		t.Error("advisor with no API key is not nil")
	}
}

// A nil advisor must be safe to call; the pipeline relies on it.
func TestNilAdvisorRecommendsNothing(t *testing.T) {
	var a *Advisor
	if rec := a.Recommend(context.Background(), "text", models.QualityReport{}); rec != nil {
		t.Errorf("nil advisor recommended %+v", rec)
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []models.BankFormat{
		models.FormatChase, models.FormatBofA, models.FormatWellsFargo,
		models.FormatCitibank, models.FormatUSBank, models.FormatWebster,
		models.FormatGeneric,
	} {
		if !validFormat(f) {
			t.Errorf("validFormat(%q) = false", f)
		}
	}
	if validFormat("hallucinated_bank") {
		t.Error("unknown format accepted")
	}
}
