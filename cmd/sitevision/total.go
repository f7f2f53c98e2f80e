package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/observability"
)

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Total the estimated repair costs in a report",
	Long: `Print a summary of a report file: defect and safety hazard counts,
defects per area and the combined repair cost range. Runs entirely
offline; no API key is needed.`,
	RunE: runTotal,
}

var (
	totalConfigPath string
	totalReportFile string
)

func init() {
	totalCmd.Flags().StringVar(&totalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	totalCmd.Flags().StringVarP(&totalReportFile, "report", "r", "", "Path to report JSON file (required)")

	rootCmd.AddCommand(totalCmd)
}

func runTotal(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(totalConfigPath)
	if err != nil {
		return err
	}

	reportPath := totalReportFile
	if reportPath == "" {
		reportPath = cfg.Report
	}
	if reportPath == "" {
		return fmt.Errorf("a report file is required (use --report or the config 'report' field)")
	}

	report, err := readReportFile(reportPath)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintReportSummary(report)

	return nil
}
