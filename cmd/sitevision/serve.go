package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sitevision/internal/config"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/fetch"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/logging"
	"github.com/jonathan/sitevision/internal/research"
	"github.com/jonathan/sitevision/internal/server"
)

var (
	serveConfigPath  string
	serveAddr        string
	serveDatabaseURL string
	serveSQLitePath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the inspection report endpoints:
auth, report snapshots, photo analysis, enrichment, cost estimation,
compliance checks, property history and PDF/DOCX export.

Without a Gemini API key the server still runs; the AI endpoints return
errors until one is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveSQLitePath, "sqlite", "", "SQLite database file (used when no PostgreSQL URL is configured)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfigFile(serveConfigPath)
	if err != nil {
		return err
	}

	addr := cfg.Addr
	if cmd.Flags().Changed("addr") || addr == "" {
		addr = serveAddr
	}
	databaseURL := cfg.DatabaseURL
	if cmd.Flags().Changed("db") {
		databaseURL = serveDatabaseURL
	}
	sqlitePath := cfg.SQLitePath
	if cmd.Flags().Changed("sqlite") {
		sqlitePath = serveSQLitePath
	}

	store, err := openStore(ctx, databaseURL, sqlitePath)
	if err != nil {
		return err
	}

	// The model client is optional for serve; without it the AI
	// endpoints report that no client is configured.
	var modelClient llm.Client
	apiKey, keyErr := resolveAPIKey("", cfg.APIKey)
	if keyErr != nil {
		logging.Sugar.Warnw("no Gemini API key configured, AI endpoints disabled")
	} else {
		modelClient, err = newModelClient(ctx, apiKey)
		if err != nil {
			_ = store.Close()
			return err
		}
	}

	lookup := newPropertyLookup(ctx, &cfg, modelClient)

	srv, err := server.New(server.Config{
		Addr:   addr,
		Store:  store,
		LLM:    modelClient,
		Lookup: lookup,
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// openStore picks the persistence engine: PostgreSQL when a URL is
// configured, otherwise the single-file SQLite store.
func openStore(ctx context.Context, databaseURL, sqlitePath string) (server.Store, error) {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	if databaseURL != "" {
		if sqlitePath != "" {
			return nil, fmt.Errorf("--db and --sqlite are mutually exclusive")
		}
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.InitSchema(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		logging.Sugar.Infow("using PostgreSQL store")
		return database, nil
	}

	if sqlitePath == "" {
		sqlitePath = os.Getenv("SQLITE_PATH")
	}
	local, err := db.OpenLocal(sqlitePath)
	if err != nil {
		return nil, err
	}
	logging.Sugar.Infow("using SQLite store", "path", localPathLabel(sqlitePath))
	return local, nil
}

func localPathLabel(path string) string {
	if path == "" {
		return db.DefaultLocalPath
	}
	return path
}

// newPropertyLookup wires the history endpoint when search credentials
// are present; otherwise the endpoint reports search as unavailable.
func newPropertyLookup(ctx context.Context, cfg *config.Config, client llm.Client) *research.PropertyLookup {
	searchKey := cfg.SearchAPIKey
	if searchKey == "" {
		searchKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	engineID := cfg.SearchEngineID
	if engineID == "" {
		engineID = os.Getenv("GOOGLE_SEARCH_CX")
	}
	if searchKey == "" || engineID == "" {
		logging.Sugar.Warnw("no search credentials configured, property history disabled")
		return nil
	}

	researcher, err := research.NewResearcher(ctx, searchKey, engineID)
	if err != nil {
		logging.Sugar.Warnw("failed to create search client, property history disabled", "error", err)
		return nil
	}

	return research.NewPropertyLookup(researcher, fetch.NewCachedFetcher(nil), client, research.LookupOptions{
		UseBrowser: cfg.UseBrowser,
	})
}
