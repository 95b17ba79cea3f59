package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fraudscan/internal/ai/gemini"
	"fraudscan/internal/features"
	"fraudscan/internal/jobsearch"
	"fraudscan/internal/logger"
	"fraudscan/internal/predict"
	"fraudscan/internal/research"
	"fraudscan/internal/risk"
	"fraudscan/internal/search"
	"fraudscan/internal/secrets"
	"fraudscan/internal/server"
)

// buildPipeline wires the scoring pipeline from the configuration. The
// returned analyzer is nil when AI is disabled; the aggregator then
// scores with the ML branch only.
func buildPipeline(ctx context.Context, config *Config, log *zap.Logger) (*risk.Aggregator, server.Analyzer, error) {
	searchClient := search.New(log)
	if config.UserAgent != "" {
		searchClient.UserAgent = config.UserAgent
	}

	lookup := jobsearch.New(searchClient, log)
	builder := features.NewBuilder(lookup, log)

	if config.Predict == nil || config.Predict.Script == "" {
		return nil, nil, fmt.Errorf("predict.script is required to run the classifier")
	}

	classifier := predict.New(config.Predict.Script, log)
	if config.Predict.Interpreter != "" {
		classifier.Interpreter = config.Predict.Interpreter
	}
	if config.Predict.Dir != "" {
		classifier.Dir = config.Predict.Dir
	}

	deps := &risk.Deps{
		Builder:   builder,
		Predictor: classifier,
		Logger:    log,
	}

	var analyzer server.Analyzer

	if config.AI != nil && config.AI.Enabled {
		judge, chain, err := newGeminiJudge(ctx, config.AI, log)
		if err != nil {
			return nil, nil, fmt.Errorf("building gemini judge: %w", err)
		}

		deps.Researcher = research.New(searchClient, judge, chain, log)
		analyzer = judge
	}

	return risk.NewAggregator(deps), analyzer, nil
}

func newGeminiJudge(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Judge, *gemini.Chain, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	models := cfg.Gemini.Models
	if len(models) == 0 {
		models = gemini.DefaultModels
	}

	genLogger := logger.WithCommonFields(log, "gemini", strings.Join(models, ","))

	client, err := gemini.NewClient(ctx, apiKey, genLogger)
	if err != nil {
		return nil, nil, err
	}

	chain := gemini.NewChain(client, models, genLogger)
	judge := gemini.NewJudge(chain, genLogger, cfg.Gemini.MaxLogLength)

	return judge, chain, nil
}
