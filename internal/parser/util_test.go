package parser

import (
	"testing"
	"time"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.56", 1234.56, true},
		{"$1,234.56", 1234.56, true},
		{"-199.00", -199, true},
		{"(1,234.56)", -1234.56, true},
		{"199.00-", -199, true},
		{"199.00<", -199, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseAmount(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDateYearInference(t *testing.T) {
	period := models.Period{
		Start: time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		in   string
		want time.Time
	}{
		// December is at or after the period's start month: start year.
		{"12/20 HOLIDAY DEPOSIT", time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC)},
		// January precedes the start month: the statement rolled over.
		{"01/05 NEW YEAR DEPOSIT", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"Jan 5 DEPOSIT", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		// Explicit years pass through untouched.
		{"01/05/2022", time.Date(2022, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"01/05/24", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"February 3, 2024", time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)},
		{"2024-02-03", time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in, period, 0)
		if !ok || !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}

	if _, ok := parseDate("13/45 NOT A DATE", period, 0); ok {
		t.Error("parseDate accepted an impossible month/day")
	}
}

func TestExtractPeriod(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end string
	}{
		{
			"long form",
			"Statement\nJanuary 1, 2024 through January 31, 2024\n",
			"2024-01-01", "2024-01-31",
		},
		{
			"slash form",
			"Statement period 12/15/2023 - 01/14/2024",
			"2023-12-15", "2024-01-14",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := extractPeriod(tt.text)
			if p.IsZero() {
				t.Fatal("extractPeriod found nothing")
			}
			if got := p.Start.Format("2006-01-02"); got != tt.start {
				t.Errorf("start = %s, want %s", got, tt.start)
			}
			if got := p.End.Format("2006-01-02"); got != tt.end {
				t.Errorf("end = %s, want %s", got, tt.end)
			}
		})
	}

	if p := extractPeriod("no period header here"); !p.IsZero() {
		t.Errorf("expected zero period, got %+v", p)
	}
}

func TestTrailingAmounts(t *testing.T) {
	tests := []struct {
		in      string
		desc    string
		amounts []float64
	}{
		{"SHIFT4 SETTLEMENT 1,250.00", "SHIFT4 SETTLEMENT", []float64{1250}},
		{"ACH DEBIT ONDECK 199.00 8,141.22", "ACH DEBIT ONDECK", []float64{199, 8141.22}},
		{"NO AMOUNTS HERE", "NO AMOUNTS HERE", nil},
		{"REF 240105 TRAILING TEXT 1,250.00 posted", "REF 240105 TRAILING TEXT 1,250.00 posted", nil},
	}
	for _, tt := range tests {
		desc, amounts := trailingAmounts(tt.in)
		if desc != tt.desc {
			t.Errorf("trailingAmounts(%q) desc = %q, want %q", tt.in, desc, tt.desc)
		}
		if len(amounts) != len(tt.amounts) {
			t.Errorf("trailingAmounts(%q) amounts = %v, want %v", tt.in, amounts, tt.amounts)
			continue
		}
		for i := range amounts {
			if amounts[i] != tt.amounts[i] {
				t.Errorf("trailingAmounts(%q) amounts = %v, want %v", tt.in, amounts, tt.amounts)
				break
			}
		}
	}
}
