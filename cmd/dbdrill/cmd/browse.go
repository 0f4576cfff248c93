package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/dbdrill/internal/catalog"
	"github.com/solatis/dbdrill/internal/config"
	"github.com/solatis/dbdrill/internal/db"
	"github.com/solatis/dbdrill/internal/nav"
	"github.com/solatis/dbdrill/internal/query"
)

const Version = "0.1.0"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Start an interactive drilling session",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if resourcesFile != "" {
		cfg.ResourcesFile = resourcesFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	cat, err := catalog.LoadFile(cfg.ResourcesFile)
	if err != nil {
		return fmt.Errorf("error validating resources: %w", err)
	}

	logger.Info("connecting to database", slog.String("version", Version))
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error connecting to DB: %w", err)
	}
	defer database.Close()

	session := nav.NewSession(cat, query.NewExecutor(database, logger))

	return runLoop(ctx, session, os.Stdin, os.Stdout)
}
