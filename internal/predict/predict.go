// Package predict invokes the external fraud classifier process and
// parses its structured result.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"fraudscan/internal/features"
)

const (
	defaultInterpreter = "python"
	defaultTimeout     = 15 * time.Second
)

// Result is the classifier's verdict, trusted as-is.
type Result struct {
	Probability float64 `json:"probability"`
	RiskLevel   string  `json:"risk_level"`
	Company     string  `json:"company,omitempty"`
}

// ProcessError reports a non-zero exit from the classifier process.
type ProcessError struct {
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("classifier process failed: %v: %s", e.Err, e.Stderr)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ParseError reports unusable classifier output.
type ParseError struct {
	Output string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("classifier output not parsable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// runCommand is swapped out in tests.
var runCommand = func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// Classifier runs the trained model's prediction script as a
// subprocess. The script owns the model weights and feature scaling; we
// only speak its argv/stdout contract.
type Classifier struct {
	Interpreter string
	Script      string
	Dir         string
	Timeout     time.Duration

	logger *zap.Logger
}

func New(script string, logger *zap.Logger) *Classifier {
	return &Classifier{
		Interpreter: defaultInterpreter,
		Script:      script,
		Timeout:     defaultTimeout,
		logger:      logger,
	}
}

// Predict sends the ordered feature values plus the company name to the
// classifier and parses its JSON verdict. There is no retry here: the
// caller decides how to degrade.
func (c *Classifier) Predict(ctx context.Context, vector features.Vector, companyName string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	args := append([]string{c.Script}, vector.Args()...)
	args = append(args, companyName)

	c.logger.Debug("running classifier",
		zap.String("script", c.Script),
		zap.String("company", companyName),
	)

	stdout, stderr, err := runCommand(ctx, c.Dir, c.Interpreter, args...)
	if err != nil {
		return nil, &ProcessError{Stderr: string(bytes.TrimSpace(stderr)), Err: err}
	}

	var result Result
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &result); err != nil {
		return nil, &ParseError{Output: string(stdout), Err: err}
	}

	c.logger.Debug("classifier verdict",
		zap.Float64("probability", result.Probability),
		zap.String("risk_level", result.RiskLevel),
	)

	return &result, nil
}
