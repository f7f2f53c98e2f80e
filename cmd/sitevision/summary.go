package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/reporting"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Write an executive summary for a report",
	Long: `Generate the executive summary section for a report file: overall
condition, the items that need immediate attention and the estimated
repair exposure. With --apply the summary is saved into the report's
exec_summary field.`,
	RunE: runSummary,
}

var (
	summaryConfigPath string
	summaryReportFile string
	summaryAPIKey     string
	summaryApply      bool
)

func init() {
	summaryCmd.Flags().StringVar(&summaryConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	summaryCmd.Flags().StringVarP(&summaryReportFile, "report", "r", "", "Path to report JSON file (required)")
	summaryCmd.Flags().StringVar(&summaryAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	summaryCmd.Flags().BoolVar(&summaryApply, "apply", false, "Save the summary into the report file")

	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(summaryConfigPath)
	if err != nil {
		return err
	}

	reportPath := summaryReportFile
	if reportPath == "" {
		reportPath = cfg.Report
	}
	if reportPath == "" {
		return fmt.Errorf("a report file is required (use --report or the config 'report' field)")
	}

	apiKey, err := resolveAPIKey(summaryAPIKey, cfg.APIKey)
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

	text, err := reporting.ExecSummary(ctx, client, report)
	if err != nil {
		return fmt.Errorf("failed to generate summary: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s\n", text)

	if summaryApply {
		report.ExecSummary = text
		if err := writeJSONFile(reportPath, report); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "\nApplied to: %s\n", reportPath)
	}

	return nil
}
