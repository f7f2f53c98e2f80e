// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Report    string `json:"report,omitempty"`     // Path to report JSON file
	Image     string `json:"image,omitempty"`      // Path to defect photo
	ExportDir string `json:"export_dir,omitempty"` // Directory for rendered PDF/DOCX output
	Template  string `json:"template,omitempty"`   // Path to a LaTeX template override

	// Inspection defaults
	Inspector string `json:"inspector,omitempty"` // Inspector name stamped on reports
	Address   string `json:"address,omitempty"`   // Property address

	// Services
	APIKey         string `json:"api_key,omitempty"`          // Gemini API key
	SearchAPIKey   string `json:"search_api_key,omitempty"`   // Google Custom Search API key
	SearchEngineID string `json:"search_engine_id,omitempty"` // Custom Search engine ID (cx)
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL
	SQLitePath     string `json:"sqlite_path,omitempty"`      // SQLite database file

	// Server
	Addr string `json:"addr,omitempty"` // Listen address for serve mode

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for JS-heavy listing pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced later by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.DatabaseURL != "" && c.SQLitePath != "" {
		return fmt.Errorf("config error: 'database_url' and 'sqlite_path' are mutually exclusive")
	}

	if c.Report != "" {
		if _, err := os.Stat(c.Report); os.IsNotExist(err) {
			return fmt.Errorf("config error: report file not found: %s", c.Report)
		}
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Report == "" {
		result.Report = defaults.Report
	}
	if result.Image == "" {
		result.Image = defaults.Image
	}
	if result.ExportDir == "" {
		result.ExportDir = defaults.ExportDir
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Inspector == "" {
		result.Inspector = defaults.Inspector
	}
	if result.Address == "" {
		result.Address = defaults.Address
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}

	// Bool fields: unset and false are indistinguishable, so CLI flags always win.

	return result
}
