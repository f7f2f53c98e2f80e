package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/estimation"
)

var estimateCostCmd = &cobra.Command{
	Use:   "estimate-cost",
	Short: "Suggest repair cost ranges",
	Long: `Ask the model for a licensed-contractor repair cost range. With
--defect a single defect file is estimated and the suggestion printed.
With --report every defect in the report that has no cost yet is
estimated. --apply writes the results back into the input file.`,
	RunE: runEstimateCost,
}

var (
	estimateConfigPath string
	estimateDefectFile string
	estimateReportFile string
	estimateAPIKey     string
	estimateApply      bool
)

func init() {
	estimateCostCmd.Flags().StringVar(&estimateConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	estimateCostCmd.Flags().StringVarP(&estimateDefectFile, "defect", "d", "", "Path to defect JSON file (mutually exclusive with --report)")
	estimateCostCmd.Flags().StringVarP(&estimateReportFile, "report", "r", "", "Path to report JSON file (mutually exclusive with --defect)")
	estimateCostCmd.Flags().StringVar(&estimateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	estimateCostCmd.Flags().BoolVar(&estimateApply, "apply", false, "Write the suggested ranges back into the input file")

	rootCmd.AddCommand(estimateCostCmd)
}

func runEstimateCost(_ *cobra.Command, _ []string) error {
	if estimateDefectFile != "" && estimateReportFile != "" {
		return fmt.Errorf("--defect and --report are mutually exclusive; provide only one")
	}
	if estimateDefectFile == "" && estimateReportFile == "" {
		return fmt.Errorf("must provide either --defect or --report")
	}

	cfg, err := loadConfigFile(estimateConfigPath)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(estimateAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if estimateReportFile != "" {
		report, err := readReportFile(estimateReportFile)
		if err != nil {
			return err
		}

		missing := 0
		for i := range report.Defects {
			if strings.TrimSpace(report.Defects[i].Cost) == "" {
				missing++
			}
		}
		if missing == 0 {
			_, _ = fmt.Fprintf(os.Stdout, "Every defect already has a cost estimate\n")
			return nil
		}

		client, err := newModelClient(ctx, apiKey)
		if err != nil {
			return err
		}
		defer client.Close()

		estimated, estErr := estimation.EstimateMissing(ctx, client, report.Defects)
		report.Defects = estimated

		for i := range report.Defects {
			_, _ = fmt.Fprintf(os.Stdout, "%-45s %s\n", report.Defects[i].Title, report.Defects[i].Cost)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Estimated %d of %d defects\n", missing, len(report.Defects))

		if estimateApply {
			if err := writeJSONFile(estimateReportFile, report); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "Applied to: %s\n", estimateReportFile)
		}

		// Partial failures fall back to "N/A"; surface the first one
		// after any --apply write so the successes are kept.
		if estErr != nil {
			return fmt.Errorf("some estimates failed: %w", estErr)
		}
		return nil
	}

	defect, err := readDefectFile(estimateDefectFile)
	if err != nil {
		return err
	}

	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	suggestion, err := estimation.EstimateCost(ctx, client, *defect)
	if err != nil {
		return fmt.Errorf("failed to estimate cost: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Defect:    %s\n", defect.Title)
	_, _ = fmt.Fprintf(os.Stdout, "Suggested: %s\n", suggestion)

	if estimateApply {
		defect.Cost = suggestion
		if err := writeJSONFile(estimateDefectFile, defect); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Applied to: %s\n", estimateDefectFile)
	}

	return nil
}
