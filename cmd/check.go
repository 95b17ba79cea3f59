package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"fraudscan/internal/logger"
	"fraudscan/internal/risk"
)

const (
	PromptReport = "Show report"
	PromptDump   = "Dump assessment to file"
	PromptExit   = "Exit"
)

var errExit = errors.New("exit requested")

var checkPrompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptReport, PromptDump, PromptExit},
}

var checkCmd = &cobra.Command{
	Use:   "check <company name>",
	Short: "Run a one-shot fraud-risk check for a company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("description", "m", "", "job description or offer text to analyze")
	checkCmd.Flags().StringP("output", "o", "", "file for the dumped assessment (default is <company>-assessment.json)")
	checkCmd.Flags().BoolP("report-only", "y", false, "print the report and exit without prompting")
}

func check(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	companyName := strings.Join(args, " ")
	description, _ := cmd.Flags().GetString("description")

	log.Info("starting the check",
		zap.String("version", version),
		zap.String("company", companyName),
	)

	aggregator, _, err := buildPipeline(ctx, config, log)
	if err != nil {
		return err
	}

	assessment := aggregator.Assess(ctx, companyName, description)

	printReport(assessment)

	if reportOnly, _ := cmd.Flags().GetBool("report-only"); reportOnly {
		return nil
	}

	for {
		_, action, err := checkPrompt.Run()
		if err != nil {
			return err
		}

		if err := handleCheckAction(cmd, action, assessment); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleCheckAction(cmd *cobra.Command, action string, assessment *risk.Assessment) error {
	switch action {
	case PromptReport:
		printReport(assessment)
		return nil
	case PromptDump:
		path, _ := cmd.Flags().GetString("output")
		return dumpAssessment(assessment, path)
	case PromptExit:
		return errExit
	}

	return nil
}

func printReport(a *risk.Assessment) {
	fmt.Printf("Company: %s\n", a.Company)
	fmt.Printf("Risk score: %d/100\n", a.RiskScore)
	fmt.Printf("Risk level: %s\n", a.RiskLevel)

	if a.Insight != "" {
		fmt.Printf("Insight: %s\n", a.Insight)
	}

	if len(a.Signals) > 0 {
		fmt.Println("Signals:")
		for _, signal := range a.Signals {
			fmt.Printf("  - %s\n", signal)
		}
	}

	if a.Error != "" {
		fmt.Printf("Warning: %s\n", a.Error)
	}
}

func dumpAssessment(a *risk.Assessment, path string) error {
	if path == "" {
		slug := strings.Join(strings.Fields(strings.ToLower(a.Company)), "-")
		path = slug + "-assessment.json"
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling assessment: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing assessment to %q: %w", path, err)
	}

	fmt.Printf("Assessment written to %s\n", path)
	return nil
}
