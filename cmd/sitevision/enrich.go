package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/observability"
	"github.com/jonathan/sitevision/internal/reporting"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill in advisory text for every defect in a report",
	Long: `Generate scope of works, impact statement, trade suggestion and
liability wording for each defect in a report file. Fields that already
have text are left untouched, so a partially enriched report can be
resumed. Progress is printed per defect.`,
	RunE: runEnrich,
}

var (
	enrichConfigPath string
	enrichReportFile string
	enrichOutputFile string
	enrichAPIKey     string
)

func init() {
	enrichCmd.Flags().StringVar(&enrichConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	enrichCmd.Flags().StringVarP(&enrichReportFile, "report", "r", "", "Path to report JSON file (required)")
	enrichCmd.Flags().StringVarP(&enrichOutputFile, "out", "o", "", "Path for the enriched report (defaults to overwriting the input)")
	enrichCmd.Flags().StringVar(&enrichAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(enrichConfigPath)
	if err != nil {
		return err
	}

	reportPath := enrichReportFile
	if reportPath == "" {
		reportPath = cfg.Report
	}
	if reportPath == "" {
		return fmt.Errorf("a report file is required (use --report or the config 'report' field)")
	}

	apiKey, err := resolveAPIKey(enrichAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	report, err := readReportFile(reportPath)
	if err != nil {
		return err
	}
	if len(report.Defects) == 0 {
		return fmt.Errorf("report has no defects to enrich")
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	printer := observability.NewPrinter(os.Stdout)
	for i := range report.Defects {
		printer.EnrichStart(i+1, len(report.Defects), report.Defects[i].Title)
		enriched, err := reporting.EnrichDefect(ctx, client, report.Defects[i])
		if err != nil {
			return fmt.Errorf("failed to enrich defect %q: %w", report.Defects[i].Title, err)
		}
		report.Defects[i] = enriched
		printer.EnrichDone(enriched)
	}

	outputPath := enrichOutputFile
	if outputPath == "" {
		outputPath = reportPath
	}
	if err := writeJSONFile(outputPath, report); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Enriched %d defects\n", len(report.Defects))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outputPath)

	return nil
}
