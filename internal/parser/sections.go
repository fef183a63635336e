package parser

import (
	"math"
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// balanceTolerance absorbs float drift when reconciling against a printed
// running balance.
const balanceTolerance = 0.015

// headerInfo extracts the statement metadata every strategy shares.
func headerInfo(format models.BankFormat, text string) models.StatementInfo {
	return models.StatementInfo{
		Format:           format,
		AccountNumber:    findAccountNumber(text),
		Period:           extractPeriod(text),
		BeginningBalance: findStatedBalance(text, beginBalancePattern),
		EndingBalance:    findStatedBalance(text, endBalancePattern),
	}
}

// sectionRule maps a section header prefix to the sign it imposes on the
// amounts beneath it: +1 credits, -1 debits.
type sectionRule struct {
	prefix string
	sign   int
}

// matchSection returns the sign for a line that is a section header, or
// (0, false) when the line is not one.
func matchSection(line string, rules []sectionRule) (int, bool) {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, r := range rules {
		if strings.HasPrefix(upper, r.prefix) {
			return r.sign, true
		}
	}
	return 0, false
}

// signResolver assigns debit/credit signs to amounts that carry no explicit
// marker, preferring the section sign, then running-balance progression,
// then a description heuristic.
type signResolver struct {
	prev *float64
}

func (r *signResolver) resolve(amt float64, bal *float64, desc string, section int) float64 {
	defer r.update(bal)

	if amt < 0 {
		return amt
	}
	if section > 0 {
		return amt
	}
	if section < 0 {
		return -amt
	}
	if r.prev != nil && bal != nil {
		debitDiff := math.Abs((*r.prev - amt) - *bal)
		creditDiff := math.Abs((*r.prev + amt) - *bal)
		if debitDiff < balanceTolerance && creditDiff >= balanceTolerance {
			return -amt
		}
		if creditDiff < balanceTolerance && debitDiff >= balanceTolerance {
			return amt
		}
	}
	if looksDebit(desc) {
		return -amt
	}
	return amt
}

func (r *signResolver) update(bal *float64) {
	if bal != nil {
		v := *bal
		r.prev = &v
	}
}

func looksDebit(desc string) bool {
	lower := strings.ToLower(desc)
	keywords := []string{
		"withdrawal", "payment", "purchase", "debit", "fee", "charge",
		"check", "ach debit", "pos ", "atm ", "wire out", "transfer to",
	}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// appendContinuation merges an ACH detail line onto the previous
// transaction's description.
func appendContinuation(txns []models.Transaction, line string) bool {
	if len(txns) == 0 {
		return false
	}
	txns[len(txns)-1].Description = cleanDescription(
		txns[len(txns)-1].Description + " " + cleanDescription(line))
	return true
}
