package parser

import (
	"fmt"
	"regexp"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// Parser defines the interface for bank statement extraction strategies.
type Parser interface {
	// Parse takes a raw statement and returns structured metadata plus the
	// ordered transaction list. A statement with zero recognizable
	// transactions is a valid result, not an error.
	Parse(raw models.RawStatement) (*models.Extraction, error)
	// Format returns the bank format this parser handles.
	Format() models.BankFormat
}

// New returns the extraction strategy for the given format. Unrecognized
// formats fall back to the generic strategy.
func New(format models.BankFormat) Parser {
	if p, ok := parsers[format]; ok {
		return p
	}
	return &GenericParser{}
}

var parsers = map[models.BankFormat]Parser{
	models.FormatChase:      &ChaseParser{},
	models.FormatBofA:       &BofAParser{},
	models.FormatWellsFargo: &WellsFargoParser{},
	models.FormatCitibank:   &CitibankParser{},
	models.FormatUSBank:     &USBankParser{},
	models.FormatWebster:    &WebsterParser{},
	models.FormatGeneric:    &GenericParser{},
}

// Detector identifies the bank format from statement text using a
// priority-ordered pattern table.
type Detector struct {
	rules []compiledRule
}

type compiledRule struct {
	format   models.BankFormat
	patterns []*regexp.Regexp
}

// NewDetector compiles the configured detection table. Rule order is
// preserved: the first rule with any matching pattern wins.
func NewDetector(rules []config.DetectionRule) (*Detector, error) {
	d := &Detector{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{format: r.Format}
		for _, p := range r.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("detection pattern %q for %s: %w", p, r.Format, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		d.rules = append(d.rules, cr)
	}
	return d, nil
}

// Detect returns the first format whose patterns match the text, or
// FormatGeneric when nothing matches. Detection never fails.
func (d *Detector) Detect(text string) models.BankFormat {
	for _, r := range d.rules {
		for _, re := range r.patterns {
			if re.MatchString(text) {
				return r.format
			}
		}
	}
	return models.FormatGeneric
}
