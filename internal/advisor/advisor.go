// Package advisor consults an external model when an extraction scores POOR:
// given the raw text and the failed checks, it recommends a different bank
// format to retry with. The advisor is strictly best-effort; every failure
// path degrades to "no recommendation".
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// Recommendation is the advisor's verdict on a poor extraction.
type Recommendation struct {
	Format     models.BankFormat `json:"format"`
	Confidence string            `json:"confidence"` // high, medium, low
	Reason     string            `json:"reason"`
}

type Advisor struct {
	client  *openai.Client
	cfg     config.AdvisorConfig
	limiter *rate.Limiter
}

// New returns a ready advisor, or nil when the advisor is disabled or has no
// API key. Callers treat a nil advisor as "never recommends".
func New(cfg config.AdvisorConfig) *Advisor {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 3
	}
	return &Advisor{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rpm/60), 1),
	}
}

const systemPrompt = `You identify US business bank statement formats from raw text.
Respond with JSON only: {"format": one of chase|bofa|wellsfargo|citibank|usbank|webster|generic, "confidence": high|medium|low, "reason": short string}.`

// Recommend asks for a format recommendation. Returns nil on any failure:
// rate limit, timeout, transport error, or an unparseable reply.
func (a *Advisor) Recommend(ctx context.Context, text string, report models.QualityReport) *Recommendation {
	if a == nil {
		return nil
	}
	timeout := time.Duration(a.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return nil
	}

	if a.cfg.MaxTextChars > 0 && len(text) > a.cfg.MaxTextChars {
		text = text[:a.cfg.MaxTextChars]
	}

	var failed []string
	for _, c := range report.Checks {
		if !c.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", c.Name, c.Detail))
		}
	}
	user := fmt.Sprintf(
		"Extraction scored %d/100. Failed checks:\n%s\n\nStatement text:\n%s",
		report.Score, strings.Join(failed, "\n"), text,
	)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil || len(resp.Choices) == 0 {
		return nil
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &rec); err != nil {
		return nil
	}
	if !validFormat(rec.Format) {
		return nil
	}
	return &rec
}

func validFormat(f models.BankFormat) bool {
	switch f {
	case models.FormatChase, models.FormatBofA, models.FormatWellsFargo,
		models.FormatCitibank, models.FormatUSBank, models.FormatWebster,
		models.FormatGeneric:
		return true
	}
	return false
}
