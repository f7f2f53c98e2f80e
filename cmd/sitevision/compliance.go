package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/compliance"
	"github.com/jonathan/sitevision/internal/observability"
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Check a defect against Australian building standards",
	Long: `Check a defect file against the Australian standards that apply to its
inspection area, or ask a free-form compliance question with --query.`,
	RunE: runCompliance,
}

var (
	complianceConfigPath string
	complianceDefectFile string
	complianceQuery      string
	complianceAPIKey     string
)

func init() {
	complianceCmd.Flags().StringVar(&complianceConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	complianceCmd.Flags().StringVarP(&complianceDefectFile, "defect", "d", "", "Path to defect JSON file (mutually exclusive with --query)")
	complianceCmd.Flags().StringVarP(&complianceQuery, "query", "q", "", "Free-form compliance question (mutually exclusive with --defect)")
	complianceCmd.Flags().StringVar(&complianceAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(complianceCmd)
}

func runCompliance(_ *cobra.Command, _ []string) error {
	if complianceDefectFile != "" && complianceQuery != "" {
		return fmt.Errorf("--defect and --query are mutually exclusive; provide only one")
	}
	if complianceDefectFile == "" && complianceQuery == "" {
		return fmt.Errorf("must provide either --defect or --query")
	}

	cfg, err := loadConfigFile(complianceConfigPath)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(complianceAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	if complianceQuery != "" {
		answer, err := compliance.Ask(ctx, client, complianceQuery)
		if err != nil {
			return fmt.Errorf("failed to answer compliance query: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", answer)
		return nil
	}

	defect, err := readDefectFile(complianceDefectFile)
	if err != nil {
		return err
	}

	note, err := compliance.CheckDefect(ctx, client, *defect)
	if err != nil {
		return fmt.Errorf("failed to check compliance: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintCompliance(note, compliance.StandardsFor(defect.Area))

	return nil
}
