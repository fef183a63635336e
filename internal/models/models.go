package models

import "time"

// BankFormat identifies a supported bank statement layout.
type BankFormat string

const (
	FormatChase      BankFormat = "chase"
	FormatBofA       BankFormat = "bofa"
	FormatWellsFargo BankFormat = "wellsfargo"
	FormatCitibank   BankFormat = "citibank"
	FormatUSBank     BankFormat = "usbank"
	FormatWebster    BankFormat = "webster"
	FormatGeneric    BankFormat = "generic"
)

// RawStatement is the immutable input to the pipeline: text extracted from a
// statement PDF plus any structured table grids the extractor recovered.
type RawStatement struct {
	Text     string     `json:"text"`
	Tables   [][]string `json:"tables,omitempty"`
	SourceID string     `json:"sourceId,omitempty"`
}

// Period is the statement's date range, inclusive on both ends.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the period (with no margin).
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days the period spans.
func (p Period) Days() int {
	if p.Start.IsZero() || p.End.IsZero() {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// IsZero reports whether the period was never located.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Transaction is one canonical statement line item.
// Amount is signed: positive for credits, negative for debits.
// Balance is the running balance after the transaction, when printed.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Balance     *float64  `json:"balance,omitempty"`
	Line        int       `json:"line,omitempty"`
}

// IsDebit reports whether the transaction took money out of the account.
func (t Transaction) IsDebit() bool { return t.Amount < 0 }

// StatementInfo holds header metadata located alongside the transactions.
type StatementInfo struct {
	Format           BankFormat `json:"format"`
	AccountNumber    string     `json:"accountNumber,omitempty"`
	Period           Period     `json:"period"`
	BeginningBalance *float64   `json:"beginningBalance,omitempty"`
	EndingBalance    *float64   `json:"endingBalance,omitempty"`
}

// Extraction is the full output of a parse: metadata plus ordered transactions.
type Extraction struct {
	Info         StatementInfo `json:"info"`
	Transactions []Transaction `json:"transactions"`
}

// QualityStatus classifies an extraction's overall quality.
type QualityStatus string

const (
	StatusGood        QualityStatus = "GOOD"
	StatusNeedsReview QualityStatus = "NEEDS_REVIEW"
	StatusPoor        QualityStatus = "POOR"
)

// QualityCheck is the outcome of one validation check.
type QualityCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// QualityReport scores extraction quality from 0 to 100.
type QualityReport struct {
	Score  int            `json:"score"`
	Status QualityStatus  `json:"status"`
	Checks []QualityCheck `json:"checks"`
}

// Category buckets a transaction by what it appears to be.
type Category string

const (
	CategoryRevenue  Category = "revenue"
	CategoryTransfer Category = "transfer"
	CategoryDebt     Category = "debt"
	CategoryCheck    Category = "check"
	CategoryFee      Category = "fee"
	CategoryPayroll  Category = "payroll"
	CategoryRent     Category = "rent"
	CategoryUtility  Category = "utility"
	CategoryGambling Category = "gambling"
	CategoryCash     Category = "cash"
	CategoryATM      Category = "atm"
	CategoryOther    Category = "other"
)

// ScrubbedTransaction is a Transaction plus classification results.
// A transfer is excluded from revenue regardless of its category.
type ScrubbedTransaction struct {
	Transaction
	Category         Category `json:"category"`
	InternalTransfer bool     `json:"internalTransfer"`
}

// DailyBalance is the ending balance for one calendar day of the period.
// Balance is nil for days before any running balance is known.
type DailyBalance struct {
	Date    time.Time `json:"date"`
	Balance *float64  `json:"balance"`
}

// MonthMetrics is one month's slice of the revenue breakdown.
type MonthMetrics struct {
	Month       string  `json:"month"` // YYYY-MM
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Net         float64 `json:"net"`
}

// RevenueMetrics aggregates deposit/withdrawal activity over the statement.
type RevenueMetrics struct {
	GrossDeposits        float64        `json:"grossDeposits"`
	GrossWithdrawals     float64        `json:"grossWithdrawals"`
	NetRevenue           float64        `json:"netRevenue"`
	Monthly              []MonthMetrics `json:"monthly"`
	DepositConcentration float64        `json:"depositConcentration"` // 0..1, largest single source
	TopDepositSource     string         `json:"topDepositSource,omitempty"`
	AvgDailyBalance      float64        `json:"avgDailyBalance"`
	CashDepositTotal     float64        `json:"cashDepositTotal"`
}

// ScrubResult bundles everything the scrubber derives.
type ScrubResult struct {
	Transactions  []ScrubbedTransaction `json:"transactions"`
	DailyBalances []DailyBalance        `json:"dailyBalances"`
	Revenue       RevenueMetrics        `json:"revenue"`
}

// PaymentFrequency classifies how often a recurring debit fires.
type PaymentFrequency string

const (
	FreqDaily    PaymentFrequency = "daily"
	FreqWeekly   PaymentFrequency = "weekly"
	FreqBiweekly PaymentFrequency = "biweekly"
	FreqMonthly  PaymentFrequency = "monthly"
)

// PaymentTrend describes how a position's payments are evolving.
type PaymentTrend string

const (
	TrendStable    PaymentTrend = "stable"
	TrendIncreased PaymentTrend = "increased"
	TrendDecreased PaymentTrend = "decreased"
	TrendStopped   PaymentTrend = "stopped"
)

// MCAPosition is a reconstructed recurring-debt obligation. Tier records how
// the position was matched: 1 exact ACH identifier, 2 known lender alias,
// 3 structural MCA pattern, 4 suspicious recurring debit.
type MCAPosition struct {
	Lender           string           `json:"lender"`
	Tier             int              `json:"tier"`
	Payments         []Transaction    `json:"payments"`
	Frequency        PaymentFrequency `json:"frequency"`
	AveragePayment   float64          `json:"averagePayment"`
	MonthlyCost      float64          `json:"monthlyCost"`
	EstFunding       float64          `json:"estFunding"`
	EstRemaining     float64          `json:"estRemaining"`
	EstPayoffDate    time.Time        `json:"estPayoffDate"`
	Trend            PaymentTrend     `json:"trend"`
	FirstPayment     time.Time        `json:"firstPayment"`
	LastPayment      time.Time        `json:"lastPayment"`
	FundingObserved  bool             `json:"fundingObserved"`
	FundingDeposit   float64          `json:"fundingDeposit,omitempty"`
	TotalPaid        float64          `json:"totalPaid"`
}

// PositionReport is the Position Reconstructor's full output.
type PositionReport struct {
	Positions            []MCAPosition `json:"positions"`
	Stacking             int           `json:"stacking"` // concurrently active positions
	TotalMonthlyDebt     float64       `json:"totalMonthlyDebt"`
	TotalRemaining       float64       `json:"totalRemaining"`
	DaysSinceLastFunding int           `json:"daysSinceLastFunding"` // -1 when no funding seen
}

// Severity grades a red flag.
type Severity string

const (
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// RedFlag is a qualitative warning generated independently of the score.
type RedFlag struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}

// RiskTier maps a score band to an underwriting grade.
type RiskTier string

const (
	TierA       RiskTier = "A"
	TierB       RiskTier = "B"
	TierC       RiskTier = "C"
	TierD       RiskTier = "D"
	TierDecline RiskTier = "Decline"
)

// RiskProfile is the Risk Scorer's output: a 0-100 score, its tier, the
// per-signal deductions that produced it, and the independent red-flag list.
type RiskProfile struct {
	Score      int                `json:"score"`
	Tier       RiskTier           `json:"tier"`
	Signals    map[string]float64 `json:"signals"`
	RedFlags   []RedFlag          `json:"redFlags"`
	Approved   bool               `json:"approved"`
	NSFCount   int                `json:"nsfCount"`
	NSFFees    float64            `json:"nsfFees"`
	NegDays    int                `json:"negDays"`
	NegDaysPct float64            `json:"negDaysPct"`
	DTI        float64            `json:"dti"`
}

// Analysis is the complete structured output handed to the reporting
// collaborator. Plain data, suitable for serialization.
type Analysis struct {
	ID        string         `json:"id"`
	SourceID  string         `json:"sourceId,omitempty"`
	Format    BankFormat     `json:"format"`
	Info      StatementInfo  `json:"info"`
	Quality   QualityReport  `json:"quality"`
	Scrub     ScrubResult    `json:"scrub"`
	Positions PositionReport `json:"positions"`
	Risk      RiskProfile    `json:"risk"`
}
