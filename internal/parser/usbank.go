package parser

import (
	"strings"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// USBankParser handles U.S. Bank business checking statements.
//
// Activity is grouped under section headers and dated "Mon DD"; debit
// amounts carry a trailing minus:
//
//	Other Deposits
//	  Jan 5  Electronic Deposit  SHIFT4 SETTLEMENT  1,250.00
//	Other Withdrawals
//	  Jan 9  Electronic Withdrawal  ONDECK CAPITAL  199.00-
type USBankParser struct{}

func (p *USBankParser) Format() models.BankFormat { return models.FormatUSBank }

var usbankSections = []sectionRule{
	{"CUSTOMER DEPOSITS", +1},
	{"OTHER DEPOSITS", +1},
	{"DEPOSITS / CREDITS", +1},
	{"CARD WITHDRAWALS", -1},
	{"OTHER WITHDRAWALS", -1},
	{"WITHDRAWALS / DEBITS", -1},
	{"CHECKS PRESENTED", -1},
}

func (p *USBankParser) Parse(raw models.RawStatement) (*models.Extraction, error) {
	info := headerInfo(models.FormatUSBank, raw.Text)
	yearHint := extractYearHint(raw.Text)

	var txns []models.Transaction
	section := 0

	for i, line := range strings.Split(raw.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		if sign, ok := matchSection(line, usbankSections); ok {
			section = sign
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "BALANCE SUMMARY") {
			section = 0
			continue
		}
		if isSummaryLine(line) {
			continue
		}

		if !dateMonthDay.MatchString(line) {
			if section != 0 && strings.Contains(strings.ToUpper(line), "REF=") {
				appendContinuation(txns, line)
			}
			continue
		}
		if section == 0 {
			continue
		}

		date, ok := parseDate(line, info.Period, yearHint)
		if !ok {
			continue
		}
		rest := dateMonthDay.ReplaceAllString(line, "")
		desc, amounts := trailingAmounts(rest)
		if len(amounts) == 0 || desc == "" {
			continue
		}
		amt := amounts[0]
		if amt > 0 && section < 0 {
			amt = -amt
		}
		txns = append(txns, models.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amt,
			Line:        i + 1,
		})
	}

	return &models.Extraction{Info: info, Transactions: txns}, nil
}
