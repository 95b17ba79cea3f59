package gemini

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"fraudscan/internal/ai"
)

// DefaultModels is the ranked fallback order, cheapest and newest first.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-flash",
	"gemini-pro",
}

const defaultRetryDelay = 30 * time.Second

var retryHintPattern = regexp.MustCompile(`(?i)retry in (\d+\.?\d*)s`)

// modelCaller is the slice of Client the chain needs.
type modelCaller interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Chain walks a ranked, immutable model list. Each call starts from the
// top: there is no shared cursor, so concurrent requests cannot affect
// each other's fallback decisions.
type Chain struct {
	caller modelCaller
	models []string
	logger *zap.Logger
}

func NewChain(caller modelCaller, models []string, logger *zap.Logger) *Chain {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Chain{caller: caller, models: models, logger: logger}
}

// GenerateContent tries each model in order until one succeeds. A
// quota-classified failure stops the chain immediately: the remaining
// models share the same quota and would fail too. Any other failure
// advances to the next model; when none are left the error is terminal.
func (c *Chain) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var last error

	for _, model := range c.models {
		output, err := c.caller.Generate(ctx, model, prompt)
		if err == nil {
			return output, nil
		}

		classified := Classify(model, err)

		var quota *ai.QuotaError
		if errors.As(classified, &quota) {
			c.logger.Warn("quota exceeded, not trying further models",
				zap.String("model", model),
				zap.Duration("retry_after", quota.RetryAfter),
			)
			return "", classified
		}

		c.logger.Warn("model failed, trying next",
			zap.String("model", model),
			zap.Error(err),
		)
		last = classified
	}

	return "", &ai.ExhaustedError{Attempts: len(c.models), Last: last}
}

// Classify converts a raw provider error into the typed taxonomy. It is
// the single place where quota detection happens; everything downstream
// works with the typed variants.
func Classify(model string, err error) error {
	if isQuotaError(err) {
		return &ai.QuotaError{
			Provider:   model,
			RetryAfter: retryDelay(err),
			Err:        err,
		}
	}
	return &ai.TransientError{Provider: model, Err: err}
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, token := range []string{"429", "quota", "exceeded", "rate limit", "billing"} {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}

// retryDelay extracts the provider's "retry in Ns" hint, defaulting to
// 30s when the message carries none.
func retryDelay(err error) time.Duration {
	match := retryHintPattern.FindStringSubmatch(err.Error())
	if len(match) == 2 {
		if seconds, perr := strconv.ParseFloat(match[1], 64); perr == nil {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return defaultRetryDelay
}
