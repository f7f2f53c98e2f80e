package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/reporting"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Write a preventative maintenance plan for a report",
	Long: `Generate a maintenance plan from a report's defects, grouped into
immediate, short-term and long-term actions. With --apply the plan is
saved into the report's maintenance_plan field.`,
	RunE: runPlan,
}

var (
	planConfigPath string
	planReportFile string
	planAPIKey     string
	planApply      bool
)

func init() {
	planCmd.Flags().StringVar(&planConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	planCmd.Flags().StringVarP(&planReportFile, "report", "r", "", "Path to report JSON file (required)")
	planCmd.Flags().StringVar(&planAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	planCmd.Flags().BoolVar(&planApply, "apply", false, "Save the plan into the report file")

	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(planConfigPath)
	if err != nil {
		return err
	}

	reportPath := planReportFile
	if reportPath == "" {
		reportPath = cfg.Report
	}
	if reportPath == "" {
		return fmt.Errorf("a report file is required (use --report or the config 'report' field)")
	}

	apiKey, err := resolveAPIKey(planAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	report, err := readReportFile(reportPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	text, err := reporting.MaintenancePlan(ctx, client, report)
	if err != nil {
		return fmt.Errorf("failed to generate maintenance plan: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s\n", text)

	if planApply {
		report.MaintenancePlan = text
		if err := writeJSONFile(reportPath, report); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "\nApplied to: %s\n", reportPath)
	}

	return nil
}
