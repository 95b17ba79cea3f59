// Package ai defines the contract between the risk pipeline and the
// generative-model providers behind it.
package ai

import "context"

// Judgment is the structured risk opinion produced by a model from
// company research material.
type Judgment struct {
	RiskScore int      `json:"riskScore" mapstructure:"riskScore"`
	RiskLevel string   `json:"riskLevel" mapstructure:"riskLevel"`
	Insight   string   `json:"insight" mapstructure:"insight"`
	Warnings  []string `json:"warnings,omitempty" mapstructure:"warnings"`
	Keywords  []string `json:"keywords,omitempty" mapstructure:"keywords"`
	Raw       string   `json:"-" mapstructure:"-"`
}

// Generator produces free text from a prompt, possibly falling back
// across several model backends.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
