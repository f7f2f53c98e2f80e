package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/sitevision/internal/config"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/types"
)

// loadConfigFile loads the optional --config JSON file. An empty path
// yields a zero config.
func loadConfigFile(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

// resolveAPIKey returns the Gemini API key with precedence
// flag > config file > environment.
func resolveAPIKey(flagKey, configKey string) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}
	if configKey != "" {
		return configKey, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("a Gemini API key is required (set GEMINI_API_KEY or use --api-key)")
}

// newModelClient builds the Gemini client used by the one-shot commands.
func newModelClient(ctx context.Context, apiKey string) (llm.Client, error) {
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// readReportFile loads a report JSON file from disk.
func readReportFile(path string) (*types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report types.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}
	return &report, nil
}

// readDefectFile loads a single-defect JSON file from disk.
func readDefectFile(path string) (*types.Defect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defect file: %w", err)
	}

	var defect types.Defect
	if err := json.Unmarshal(data, &defect); err != nil {
		return nil, fmt.Errorf("failed to parse defect JSON: %w", err)
	}
	if defect.Title == "" {
		return nil, fmt.Errorf("defect file has no title")
	}
	return &defect, nil
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
