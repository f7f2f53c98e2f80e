package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/analysis"
	"github.com/jonathan/sitevision/internal/observability"
)

var analyzePhotoCmd = &cobra.Command{
	Use:   "analyze-photo",
	Short: "Draft a defect entry from an inspection photo",
	Long: `Send an inspection photo to the vision model and draft a defect entry
from it: area, title, observation and recommendation. The drafted defect
is printed and can be written to a JSON file for later enrichment.`,
	RunE: runAnalyzePhoto,
}

var (
	analyzeConfigPath string
	analyzeImagePath  string
	analyzeArea       string
	analyzeOutputFile string
	analyzeAPIKey     string
)

func init() {
	analyzePhotoCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzePhotoCmd.Flags().StringVarP(&analyzeImagePath, "image", "i", "", "Path to the defect photo (required)")
	analyzePhotoCmd.Flags().StringVarP(&analyzeArea, "area", "a", "", "Inspection area the photo was taken in (e.g. \"Roof Exterior\")")
	analyzePhotoCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to write the drafted defect as JSON (optional)")
	analyzePhotoCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(analyzePhotoCmd)
}

func runAnalyzePhoto(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(analyzeConfigPath)
	if err != nil {
		return err
	}

	imagePath := analyzeImagePath
	if imagePath == "" {
		imagePath = cfg.Image
	}
	if imagePath == "" {
		return fmt.Errorf("an image is required (use --image or the config 'image' field)")
	}

	apiKey, err := resolveAPIKey(analyzeAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	defect, err := analysis.AnalyzePhoto(ctx, client, imageData, imageMIMEType(imagePath), analyzeArea)
	if err != nil {
		return fmt.Errorf("failed to analyze photo: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintDefect(defect)

	if analyzeOutputFile != "" {
		if err := writeJSONFile(analyzeOutputFile, defect); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", analyzeOutputFile)
	}

	return nil
}

// imageMIMEType maps a photo file extension onto the MIME type the
// vision API expects. Unknown extensions are treated as JPEG.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
