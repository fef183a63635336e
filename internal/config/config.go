package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// Config carries every static table the pipeline consumes. It is loaded once,
// never mutated afterwards, and passed explicitly into each stage so that
// concurrent statement runs can share it safely.
type Config struct {
	Detection []DetectionRule `mapstructure:"detection" yaml:"detection"`
	Lenders   Lenders         `mapstructure:"lenders" yaml:"lenders"`
	Keywords  Keywords        `mapstructure:"keywords" yaml:"keywords"`
	Rates     Rates           `mapstructure:"rates" yaml:"rates"`
	Quality   QualityPolicy   `mapstructure:"quality" yaml:"quality"`
	Risk      RiskPolicy      `mapstructure:"risk" yaml:"risk"`
	Advisor   AdvisorConfig   `mapstructure:"advisor" yaml:"advisor"`
}

// DetectionRule maps a bank format to the regex patterns that identify it.
// Rules are evaluated strictly in order: banks whose identifying strings can
// appear inside another statement's boilerplate (short tokens like "CHASE",
// which also matches "PURCHASE") must sit lower in the list than banks with
// distinctive multi-word patterns.
type DetectionRule struct {
	Format   models.BankFormat `mapstructure:"format" yaml:"format"`
	Patterns []string          `mapstructure:"patterns" yaml:"patterns"`
}

// Lenders holds the MCA lender lookup tables.
type Lenders struct {
	// ACHIdentifiers maps exact routing/originator identifiers to the lender
	// behind them. Highest-confidence match (tier 1).
	ACHIdentifiers map[string]string `mapstructure:"ach_identifiers" yaml:"ach_identifiers"`
	// Aliases maps a canonical lender name to the name variants seen in
	// transaction descriptions (tier 2).
	Aliases map[string][]string `mapstructure:"aliases" yaml:"aliases"`
	// GenericMCA are structural phrases typical of MCA debits with no
	// specific lender identity (tier 3).
	GenericMCA []string `mapstructure:"generic_mca" yaml:"generic_mca"`
}

// CategoryRule assigns a category to descriptions matching any keyword.
// Rules are ordered; the first match wins.
type CategoryRule struct {
	Category models.Category `mapstructure:"category" yaml:"category"`
	Keywords []string        `mapstructure:"keywords" yaml:"keywords"`
}

// Keywords holds the description-matching vocabulary for scrubbing and risk.
type Keywords struct {
	Categories       []CategoryRule `mapstructure:"categories" yaml:"categories"`
	InternalTransfer []string       `mapstructure:"internal_transfer" yaml:"internal_transfer"`
	RevenueSources   []string       `mapstructure:"revenue_sources" yaml:"revenue_sources"`
	NSF              []string       `mapstructure:"nsf" yaml:"nsf"`
	NSFWaiver        []string       `mapstructure:"nsf_waiver" yaml:"nsf_waiver"`
	Gambling         []string       `mapstructure:"gambling" yaml:"gambling"`
	CashDeposit      []string       `mapstructure:"cash_deposit" yaml:"cash_deposit"`
	RedFlag          []string       `mapstructure:"red_flag" yaml:"red_flag"`
	ReturnedDeposit  []string       `mapstructure:"returned_deposit" yaml:"returned_deposit"`
	Funding          []string       `mapstructure:"funding" yaml:"funding"`
}

// Rates holds the heuristic constants used to back-calculate MCA terms.
// None of these are observed ground truth; they are tunable policy.
type Rates struct {
	DefaultFactorRate float64            `mapstructure:"default_factor_rate" yaml:"default_factor_rate"`
	LenderFactorRates map[string]float64 `mapstructure:"lender_factor_rates" yaml:"lender_factor_rates"`
	TermMonths        float64            `mapstructure:"term_months" yaml:"term_months"`
	// PaymentsPerMonth converts a payment frequency to expected occurrences
	// per month.
	PaymentsPerMonth map[models.PaymentFrequency]float64 `mapstructure:"payments_per_month" yaml:"payments_per_month"`
	// MinFundingDeposit is the smallest deposit considered a possible MCA
	// funding event.
	MinFundingDeposit float64 `mapstructure:"min_funding_deposit" yaml:"min_funding_deposit"`
}

// FactorRate returns the lender-specific factor rate, or the default.
func (r Rates) FactorRate(lender string) float64 {
	if v, ok := r.LenderFactorRates[lender]; ok {
		return v
	}
	return r.DefaultFactorRate
}

// PerMonth returns the expected payments per month for a frequency.
func (r Rates) PerMonth(f models.PaymentFrequency) float64 {
	if v, ok := r.PaymentsPerMonth[f]; ok {
		return v
	}
	return 1
}

// QualityPolicy holds the extraction validator's deduction weights and the
// score cut points for status assignment.
type QualityPolicy struct {
	BalanceMismatchDeduction int `mapstructure:"balance_mismatch_deduction" yaml:"balance_mismatch_deduction"`
	LowCountDeduction        int `mapstructure:"low_count_deduction" yaml:"low_count_deduction"`
	OneSidedDeduction        int `mapstructure:"one_sided_deduction" yaml:"one_sided_deduction"`
	DescriptionDeduction     int `mapstructure:"description_deduction" yaml:"description_deduction"`
	DuplicateDeduction       int `mapstructure:"duplicate_deduction" yaml:"duplicate_deduction"`
	DuplicateDeductionCap    int `mapstructure:"duplicate_deduction_cap" yaml:"duplicate_deduction_cap"`
	DateDeduction            int `mapstructure:"date_deduction" yaml:"date_deduction"`
	GoodThreshold            int `mapstructure:"good_threshold" yaml:"good_threshold"`
	ReviewThreshold          int `mapstructure:"review_threshold" yaml:"review_threshold"`
	// DaysPerTransactionFloor flags statements with fewer than one
	// transaction per this many days.
	DaysPerTransactionFloor int `mapstructure:"days_per_transaction_floor" yaml:"days_per_transaction_floor"`
	// AllowedExactDuplicates is how many exact (date, description, amount)
	// duplicates are tolerated before deducting.
	AllowedExactDuplicates int `mapstructure:"allowed_exact_duplicates" yaml:"allowed_exact_duplicates"`
}

// RiskPolicy holds the risk scorer's deduction weights and tier bands.
type RiskPolicy struct {
	NSFPerEvent          float64 `mapstructure:"nsf_per_event" yaml:"nsf_per_event"`
	NSFCap               float64 `mapstructure:"nsf_cap" yaml:"nsf_cap"`
	NegDayPctMultiplier  float64 `mapstructure:"neg_day_pct_multiplier" yaml:"neg_day_pct_multiplier"`
	NegDayCap            float64 `mapstructure:"neg_day_cap" yaml:"neg_day_cap"`
	GamblingDeduction    float64 `mapstructure:"gambling_deduction" yaml:"gambling_deduction"`
	StackingPerPosition  float64 `mapstructure:"stacking_per_position" yaml:"stacking_per_position"`
	StackingCap          float64 `mapstructure:"stacking_cap" yaml:"stacking_cap"`
	SinglePositionDeduct float64 `mapstructure:"single_position_deduct" yaml:"single_position_deduct"`
	HighDTIDeduction     float64 `mapstructure:"high_dti_deduction" yaml:"high_dti_deduction"`
	HighDTIThreshold     float64 `mapstructure:"high_dti_threshold" yaml:"high_dti_threshold"`
	RecentFundingDeduct  float64 `mapstructure:"recent_funding_deduct" yaml:"recent_funding_deduct"`
	RecentFundingDays    int     `mapstructure:"recent_funding_days" yaml:"recent_funding_days"`
	HighFlagDeduction    float64 `mapstructure:"high_flag_deduction" yaml:"high_flag_deduction"`
	HighFlagCap          float64 `mapstructure:"high_flag_cap" yaml:"high_flag_cap"`
	MediumFlagDeduction  float64 `mapstructure:"medium_flag_deduction" yaml:"medium_flag_deduction"`
	MediumFlagCap        float64 `mapstructure:"medium_flag_cap" yaml:"medium_flag_cap"`
	CriticalFlagDeduct   float64 `mapstructure:"critical_flag_deduct" yaml:"critical_flag_deduct"`
	DecliningRevDeduct   float64 `mapstructure:"declining_rev_deduct" yaml:"declining_rev_deduct"`
	AccelDeclineDeduct   float64 `mapstructure:"accel_decline_deduct" yaml:"accel_decline_deduct"`
	LowRevenueDeduct     float64 `mapstructure:"low_revenue_deduct" yaml:"low_revenue_deduct"`
	LowRevenueFloor      float64 `mapstructure:"low_revenue_floor" yaml:"low_revenue_floor"`
	CashPctFlagThreshold float64 `mapstructure:"cash_pct_flag_threshold" yaml:"cash_pct_flag_threshold"`
	CashDeduction        float64 `mapstructure:"cash_deduction" yaml:"cash_deduction"`
	// Tier bands: score >= TierA -> A, >= TierB -> B, and so on; below
	// TierD is a Decline.
	TierA int `mapstructure:"tier_a" yaml:"tier_a"`
	TierB int `mapstructure:"tier_b" yaml:"tier_b"`
	TierC int `mapstructure:"tier_c" yaml:"tier_c"`
	TierD int `mapstructure:"tier_d" yaml:"tier_d"`
}

// AdvisorConfig configures the optional external re-extraction advisor.
type AdvisorConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	Model          string  `mapstructure:"model" yaml:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMin float64 `mapstructure:"requests_per_min" yaml:"requests_per_min"`
	MaxTextChars   int     `mapstructure:"max_text_chars" yaml:"max_text_chars"`
}

// Load returns the default configuration, overlaid with the viper-resolved
// config file when one is set (via --config or the MCA_* environment).
func Load() (*Config, error) {
	cfg := Default()
	if viper.ConfigFileUsed() == "" {
		return cfg, nil
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Rates.DefaultFactorRate <= 1.0 {
		return fmt.Errorf("config: default_factor_rate must exceed 1.0, got %v", c.Rates.DefaultFactorRate)
	}
	if c.Rates.TermMonths <= 0 {
		return fmt.Errorf("config: term_months must be positive, got %v", c.Rates.TermMonths)
	}
	if c.Quality.GoodThreshold <= c.Quality.ReviewThreshold {
		return fmt.Errorf("config: good_threshold must exceed review_threshold")
	}
	for i, rule := range c.Detection {
		if rule.Format == "" || len(rule.Patterns) == 0 {
			return fmt.Errorf("config: detection rule %d is incomplete", i)
		}
	}
	return nil
}
