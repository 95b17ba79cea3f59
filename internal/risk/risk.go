// Package risk merges classifier probability, rule-based signals and the
// optional model judgment into the final risk assessment.
package risk

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"fraudscan/internal/features"
	"fraudscan/internal/predict"
	"fraudscan/internal/research"
)

// Risk levels as the classifier and the API report them.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// Combined-score thresholds. Boundaries are exclusive: a score of
// exactly 70 is Medium.
const (
	highThreshold   = 70
	mediumThreshold = 40
)

// neutralScore is returned when prediction fails outright. Neither
// clearing nor condemning: the caller sees a populated error instead.
const neutralScore = 50

// Predictor produces the classifier verdict for a feature vector.
type Predictor interface {
	Predict(ctx context.Context, vector features.Vector, companyName string) (*predict.Result, error)
}

// Researcher runs the search-plus-judgment enrichment pass.
type Researcher interface {
	Research(ctx context.Context, companyName string) *research.Report
}

// FeatureBuilder assembles the classifier input.
type FeatureBuilder interface {
	Build(ctx context.Context, companyName, description string) *features.Set
}

// Assessment is the final, request-scoped result. It is never mutated
// after construction and never persisted.
type Assessment struct {
	Company   string          `json:"company"`
	RiskScore int             `json:"riskScore"`
	RiskLevel string          `json:"riskLevel"`
	Insight   string          `json:"insight"`
	Signals   []string        `json:"signals"`
	Features  features.Vector `json:"features"`

	// Raw sub-results for callers that want them.
	Prediction *predict.Result  `json:"mlAnalysis,omitempty"`
	Research   *research.Report `json:"research,omitempty"`

	// Error carries the failure reason when the neutral fallback was
	// applied.
	Error string `json:"error,omitempty"`
}

// Deps aggregates the pipeline collaborators.
type Deps struct {
	Builder    FeatureBuilder
	Predictor  Predictor
	Researcher Researcher
	Logger     *zap.Logger
}

type Aggregator struct {
	builder    FeatureBuilder
	predictor  Predictor
	researcher Researcher
	logger     *zap.Logger
}

func NewAggregator(deps *Deps) *Aggregator {
	return &Aggregator{
		builder:    deps.Builder,
		predictor:  deps.Predictor,
		researcher: deps.Researcher,
		logger:     deps.Logger,
	}
}

// Assess runs the full pipeline: feature building and ML prediction on
// one branch, research on the other, joined here. It always returns a
// well-formed assessment; a classifier failure degrades to the neutral
// fallback with the reason attached.
func (a *Aggregator) Assess(ctx context.Context, companyName, description string) *Assessment {
	return a.assess(ctx, companyName, description, a.researcher != nil)
}

// AssessML runs the pipeline without the research branch.
func (a *Aggregator) AssessML(ctx context.Context, companyName, description string) *Assessment {
	return a.assess(ctx, companyName, description, false)
}

func (a *Aggregator) assess(ctx context.Context, companyName, description string, withResearch bool) *Assessment {
	var report *research.Report
	researchDone := make(chan struct{})

	if withResearch {
		go func() {
			defer close(researchDone)
			report = a.researcher.Research(ctx, companyName)
		}()
	} else {
		close(researchDone)
	}

	set := a.builder.Build(ctx, companyName, description)
	prediction, err := a.predictor.Predict(ctx, set.Vector, companyName)

	<-researchDone

	if err != nil {
		a.logger.Error("prediction failed, returning neutral fallback",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return &Assessment{
			Company:   companyName,
			RiskScore: neutralScore,
			RiskLevel: LevelMedium,
			Signals:   set.Signals,
			Features:  set.Vector,
			Research:  report,
			Error:     err.Error(),
		}
	}

	mlScore := int(math.Round(prediction.Probability * 100))
	mlLevel := prediction.RiskLevel
	if mlLevel == "" {
		mlLevel = LevelLow
	}

	assessment := &Assessment{
		Company:    companyName,
		RiskScore:  mlScore,
		RiskLevel:  mlLevel,
		Signals:    set.Signals,
		Features:   set.Vector,
		Prediction: prediction,
		Research:   report,
	}

	if report.Succeeded() && report.Judgment != nil {
		judgment := report.Judgment

		// A zero model score means the model declined to commit; use
		// the ML score so the average stays meaningful.
		modelScore := judgment.RiskScore
		if modelScore == 0 {
			modelScore = mlScore
		}

		assessment.RiskScore = roundedMean(mlScore, modelScore)
		assessment.RiskLevel = LevelFor(assessment.RiskScore)
		assessment.Insight = fmt.Sprintf("ML Model: %d%%. Search Analysis: %d%%. %s",
			mlScore, modelScore, judgment.Insight)

		if len(judgment.Warnings) > 0 {
			assessment.Signals = judgment.Warnings
		}

		a.logger.Info("combined assessment",
			zap.String("company", companyName),
			zap.Int("ml_score", mlScore),
			zap.Int("model_score", modelScore),
			zap.Int("final_score", assessment.RiskScore),
			zap.String("final_level", assessment.RiskLevel),
		)

		return assessment
	}

	assessment.Insight = mlOnlyInsight(mlScore, len(set.Signals))

	a.logger.Info("ml-only assessment",
		zap.String("company", companyName),
		zap.Int("score", mlScore),
		zap.String("level", assessment.RiskLevel),
		zap.Int("signals", len(set.Signals)),
	)

	return assessment
}

// LevelFor maps a combined score onto a risk level.
func LevelFor(score int) string {
	switch {
	case score > highThreshold:
		return LevelHigh
	case score > mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// roundedMean averages two scores, rounding halves up the way the
// UI-facing scores always have.
func roundedMean(a, b int) int {
	return (a + b + 1) / 2
}

func mlOnlyInsight(mlScore, signalCount int) string {
	if signalCount > 0 {
		return fmt.Sprintf("ML Model Confidence: %d%%. Found %d warning signals.", mlScore, signalCount)
	}
	return fmt.Sprintf("ML Model Confidence: %d%%. No additional warning signals detected.", mlScore)
}
