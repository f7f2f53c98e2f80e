package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/fetch"
	"github.com/jonathan/sitevision/internal/observability"
	"github.com/jonathan/sitevision/internal/research"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Research the sale and build history of a property",
	Long: `Search public listing portals for an address and extract property
details: year built, property type, land size and last sale. Requires
Google Custom Search credentials and a Gemini API key.`,
	RunE: runHistory,
}

var (
	historyConfigPath string
	historyAddress    string
	historySearchKey  string
	historySearchCX   string
	historyUseBrowser bool
	historyOutputFile string
	historyAPIKey     string
)

func init() {
	historyCmd.Flags().StringVar(&historyConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	historyCmd.Flags().StringVarP(&historyAddress, "address", "a", "", "Property address to research (required)")
	historyCmd.Flags().StringVar(&historySearchKey, "search-key", "", "Google Custom Search API key (overrides GOOGLE_SEARCH_API_KEY env var)")
	historyCmd.Flags().StringVar(&historySearchCX, "search-cx", "", "Google Custom Search engine ID (overrides GOOGLE_SEARCH_CX env var)")
	historyCmd.Flags().BoolVar(&historyUseBrowser, "use-browser", false, "Use a headless browser for JS-heavy listing pages (requires Chrome)")
	historyCmd.Flags().StringVarP(&historyOutputFile, "out", "o", "", "Path to write the property details as JSON (optional)")
	historyCmd.Flags().StringVar(&historyAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(historyConfigPath)
	if err != nil {
		return err
	}

	address := historyAddress
	if address == "" {
		address = cfg.Address
	}
	if address == "" {
		return fmt.Errorf("an address is required (use --address or the config 'address' field)")
	}

	searchKey := historySearchKey
	if searchKey == "" {
		searchKey = cfg.SearchAPIKey
	}
	if searchKey == "" {
		searchKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	engineID := historySearchCX
	if engineID == "" {
		engineID = cfg.SearchEngineID
	}
	if engineID == "" {
		engineID = os.Getenv("GOOGLE_SEARCH_CX")
	}
	if searchKey == "" || engineID == "" {
		return fmt.Errorf("search credentials are required (set GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX, or use --search-key and --search-cx)")
	}

	apiKey, err := resolveAPIKey(historyAPIKey, cfg.APIKey)
	if err != nil {
		return err
	}

	useBrowser := cfg.UseBrowser
	if cmd.Flags().Changed("use-browser") {
		useBrowser = historyUseBrowser
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	researcher, err := research.NewResearcher(ctx, searchKey, engineID)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	lookup := research.NewPropertyLookup(researcher, fetch.NewCachedFetcher(nil), client, research.LookupOptions{
		UseBrowser: useBrowser,
	})

	details, err := lookup.History(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to research property history: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintPropertyDetails(details)

	if historyOutputFile != "" {
		if err := writeJSONFile(historyOutputFile, details); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", historyOutputFile)
	}

	return nil
}
