package config

import "github.com/insightdelivered/mca-underwriting-engine/internal/models"

// Default returns the built-in configuration tables. These mirror the
// versioned YAML shipped with the engine; a config file overrides them
// wholesale per section.
func Default() *Config {
	return &Config{
		Detection: defaultDetection(),
		Lenders:   defaultLenders(),
		Keywords:  defaultKeywords(),
		Rates: Rates{
			DefaultFactorRate: 1.35,
			LenderFactorRates: map[string]float64{},
			TermMonths:        6,
			PaymentsPerMonth: map[models.PaymentFrequency]float64{
				models.FreqDaily:    21,
				models.FreqWeekly:   4.33,
				models.FreqBiweekly: 2.17,
				models.FreqMonthly:  1,
			},
			MinFundingDeposit: 5000,
		},
		Quality: QualityPolicy{
			BalanceMismatchDeduction: 20,
			LowCountDeduction:        15,
			OneSidedDeduction:        25,
			DescriptionDeduction:     15,
			DuplicateDeduction:       5,
			DuplicateDeductionCap:    15,
			DateDeduction:            10,
			GoodThreshold:            85,
			ReviewThreshold:          70,
			DaysPerTransactionFloor:  7,
			AllowedExactDuplicates:   1,
		},
		Risk: RiskPolicy{
			NSFPerEvent:          5,
			NSFCap:               25,
			NegDayPctMultiplier:  1.5,
			NegDayCap:            20,
			GamblingDeduction:    15,
			StackingPerPosition:  8,
			StackingCap:          25,
			SinglePositionDeduct: 10,
			HighDTIDeduction:     15,
			HighDTIThreshold:     0.15,
			RecentFundingDeduct:  10,
			RecentFundingDays:    30,
			HighFlagDeduction:    10,
			HighFlagCap:          30,
			MediumFlagDeduction:  5,
			MediumFlagCap:        15,
			CriticalFlagDeduct:   20,
			DecliningRevDeduct:   10,
			AccelDeclineDeduct:   15,
			LowRevenueDeduct:     10,
			LowRevenueFloor:      10000,
			CashPctFlagThreshold: 20,
			CashDeduction:        10,
			TierA:                80,
			TierB:                60,
			TierC:                40,
			TierD:                20,
		},
		Advisor: AdvisorConfig{
			Enabled:        false,
			Model:          "gpt-4o",
			TimeoutSeconds: 30,
			RequestsPerMin: 3,
			MaxTextChars:   5000,
		},
	}
}

// defaultDetection returns the priority-ordered bank detection table.
// Distinctive multi-word identifiers come first; Chase sits last among the
// named banks because its bare "CHASE" token is a substring of words like
// "PURCHASE" that show up in every card-heavy statement.
func defaultDetection() []DetectionRule {
	return []DetectionRule{
		{Format: models.FormatWebster, Patterns: []string{
			`Webster\s*Bank`, `websterbank\.com`, `PLATINUM\s+BUSINESS\s+ANALYZED`,
		}},
		{Format: models.FormatWellsFargo, Patterns: []string{
			`WELLS\s+FARGO`, `wellsfargo\.com`, `Wells\s+Fargo\s+Bank`,
			`Optimize\s+Business\s+Checking`,
		}},
		{Format: models.FormatBofA, Patterns: []string{
			`BANK\s+OF\s+AMERICA`, `bankofamerica\.com`,
			`Bank\s+of\s+America,?\s+N\.?A\.?`, `Business\s+Advantage`,
		}},
		{Format: models.FormatCitibank, Patterns: []string{
			`CITIBANK`, `CitiBusiness`, `Citibank,?\s+N\.?A\.?`, `Citi\s+CBO\s+Services`,
		}},
		{Format: models.FormatUSBank, Patterns: []string{
			`U\.?S\.?\s+Bank`, `usbank\.com`, `US\s+Bank\s+National\s+Association`,
			`Silver\s+Business\s+Checking`,
		}},
		{Format: models.FormatChase, Patterns: []string{
			`JPMorgan\s+Chase`, `chase\.com`, `JPMORGAN\s+CHASE\s+BANK`,
			`CHECKING\s+SUMMARY`, `CHASE`,
		}},
	}
}

func defaultLenders() Lenders {
	return Lenders{
		ACHIdentifiers: map[string]string{
			"9144978400": "eFinancialTree",
			"5612081085": "Capybara Capital",
			"7183166893": "Ivy Receivables",
			"SLRECOVERY": "SL Recovery",
			"MINPMT":     "SpotOn Capital",
			"LIBERTAS":   "Libertas Funding",
			"QUICKBRDG":  "Quick Bridge",
		},
		Aliases: map[string][]string{
			"OnDeck":             {"ONDECK", "ON DECK CAPITAL"},
			"Kabbage":            {"KABBAGE"},
			"Fundbox":            {"FUNDBOX"},
			"BlueVine":           {"BLUEVINE", "BLUE VINE"},
			"Credibly":           {"CREDIBLY"},
			"CAN Capital":        {"CAN CAPITAL"},
			"Forward Financing":  {"FORWARD FINANCING", "FORWARD FIN"},
			"Fora Financial":     {"FORA FINANCIAL"},
			"National Funding":   {"NATIONAL FUNDING"},
			"Reliant Funding":    {"RELIANT FUNDING"},
			"Rapid Finance":      {"RAPID FINANCE", "RAPID ADVANCE"},
			"Everest Business":   {"EVEREST BUSINESS", "EVEREST FUNDING"},
			"Yellowstone":        {"YELLOWSTONE CAP"},
			"Square Capital":     {"SQUARE CAPITAL"},
			"Shopify Capital":    {"SHOPIFY CAPITAL"},
			"Stripe Capital":     {"STRIPE CAPITAL"},
			"PayPal Working Cap": {"PAYPAL WORKING"},
			"DoorDash Capital":   {"DOORDASH CAPITAL"},
			"Fox Capital":        {"FOX CAPITAL"},
			"Clearview Funding":  {"CLEARVIEW FUNDING", "CLEARVIEW CAP"},
		},
		GenericMCA: []string{
			"MERCHANT CASH", "DAILY ACH", "MCA PAYMENT", "ACH DEBIT",
			"CAPITAL LLC", "FUNDING LLC", "ADVANCE LLC", "RECEIVABLES",
		},
	}
}

func defaultKeywords() Keywords {
	return Keywords{
		// Ordered; first match wins. The transfer rule sits below revenue so
		// a processor settlement mentioning "transfer" still lands in revenue.
		// Debt is not keyword-driven: the scrubber checks the lender tables
		// before these rules run.
		Categories: []CategoryRule{
			{Category: models.CategoryFee, Keywords: []string{
				"NSF FEE", "OVERDRAFT", "SERVICE CHARGE", "MONTHLY FEE",
				"MAINTENANCE FEE", "WIRE FEE", "ANALYSIS CHARGE", "RETURNED ITEM",
			}},
			{Category: models.CategoryGambling, Keywords: []string{
				"DRAFTKINGS", "FANDUEL", "BETMGM", "CAESARS", "POINTSBET",
				"BOVADA", "CASINO", "POKER", "LOTTERY", "POWERBALL",
			}},
			{Category: models.CategoryPayroll, Keywords: []string{
				"ADP", "PAYCHEX", "GUSTO", "PAYROLL", "DIRECT DEP EMP",
			}},
			{Category: models.CategoryRent, Keywords: []string{
				"RENT", "LEASE PAYMENT", "LANDLORD", "PROPERTY MGMT",
			}},
			{Category: models.CategoryUtility, Keywords: []string{
				"ELECTRIC", "DUKE ENERGY", "FPL", "COMCAST", "SPECTRUM",
				"VERIZON", "T-MOBILE", "WATER UTIL", "GAS CO",
			}},
			{Category: models.CategoryCash, Keywords: []string{
				"CASH DEPOSIT", "COUNTER DEPOSIT", "BRANCH DEPOSIT", "ATM DEPOSIT",
			}},
			{Category: models.CategoryATM, Keywords: []string{
				"ATM WITHDRAWAL", "ATM CASH", "CASH WITHDRAWAL",
			}},
			{Category: models.CategoryCheck, Keywords: []string{
				"CHECK #", "CHECK NO", "CHK ",
			}},
			{Category: models.CategoryRevenue, Keywords: []string{
				"SHIFT4", "HARBORTOUCH", "SQUARE INC", "SQ *", "STRIPE",
				"CLOVER", "TOAST", "SPOTON SETTLEMENT", "DOORDASH", "GRUBHUB",
				"UBER EATS", "UBEREATS", "POSTMATES", "MERCH DEP", "MERCHANT SETTLEMENT",
				"CARD SETTLEMENT", "DEPOSIT ACH", "DIRECT DEPOSIT", "INVOICE",
				"REMITTANCE", "AMEX SETTLEMENT",
			}},
			{Category: models.CategoryTransfer, Keywords: []string{
				"WIRE TRANSFER", "WIRE OUT", "WIRE IN", "ZELLE", "VENMO",
				"PAYPAL TRANSFER", "CASH APP", "TRANSFER TO", "TRANSFER FROM",
				"ONLINE TRANSFER", "XFER", "TFR",
			}},
		},
		InternalTransfer: []string{
			"WIRE TRANSFER", "WIRE OUT", "WIRE IN", "ZELLE", "VENMO",
			"PAYPAL TRANSFER", "CASH APP", "TRANSFER TO", "TRANSFER FROM",
			"ONLINE TRANSFER", "INTERNAL TRANSFER", "XFER", "TFR",
		},
		// Revenue-source vocabulary outranks the transfer vocabulary: a
		// processor settlement that happens to contain "TRANSFER" stays revenue.
		RevenueSources: []string{
			"SHIFT4", "HARBORTOUCH", "SQUARE INC", "SQ *", "STRIPE", "CLOVER",
			"TOAST", "SPOTON SETTLEMENT", "DOORDASH", "GRUBHUB", "UBER EATS",
			"MERCHANT SETTLEMENT", "CARD SETTLEMENT", "AMEX SETTLEMENT",
		},
		NSF: []string{
			"NSF FEE", "INSUFFICIENT FUNDS", "OVERDRAFT FEE", "RETURNED ITEM",
			"OD FEE", "NON-SUFFICIENT", "OVERDRAFT CHARGE",
		},
		NSFWaiver: []string{
			"NOT CHARGED", "WAIVED", "REVERSED", "FEE REVERSAL", "FEE REFUND",
			"CREDIT BACK", "OVERDRAFT TRANSFER", "OD TRANSFER",
		},
		Gambling: []string{
			"DRAFTKINGS", "FANDUEL", "BETMGM", "CAESARS SPORTS", "POINTSBET",
			"BET365", "BOVADA", "CASINO", "POKER", "GAMBLING", "LOTTERY",
			"LOTTO", "POWERBALL", "MEGA MILLIONS",
		},
		CashDeposit: []string{
			"CASH DEPOSIT", "COUNTER DEPOSIT", "BRANCH DEPOSIT", "ATM DEPOSIT",
		},
		RedFlag: []string{
			"GARNISHMENT", "WAGE GARNISH", "COURT ORDER", "TAX LEVY",
			"IRS LEVY", "STATE LEVY", "TAX LIEN", "JUDGMENT", "LEGAL JUDGMENT",
			"BANKRUPTCY", "BK TRUSTEE",
		},
		ReturnedDeposit: []string{
			"RETURN DEPOSIT ITEM", "RETURNED ITEM", "CHARGEBACK", "DEPOSIT REVERSAL",
		},
		Funding: []string{
			"WIRE TRANSFER", "INCOMING WIRE", "FED WIRE", "FEDWIRE",
			"ACH CREDIT", "EXTERNAL DEPOSIT", "SAME DAY CREDIT",
		},
	}
}
