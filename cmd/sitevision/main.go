// Package main provides the SiteVision CLI and API server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sitevision",
	Short: "SiteVision building inspection assistant",
	Long:  "SiteVision drafts building inspection defects from photos, estimates repair costs, researches property history, and renders AS 4349.1 style reports to PDF and DOCX.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
