// Package cli holds the repurposer-ctl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"repurposer/internal/config"
	"repurposer/internal/logger"
	"repurposer/internal/storage"

	"github.com/spf13/cobra"
)

type app struct {
	cfg      config.Config
	dbURL    string
	logLevel string
}

// NewRootCmd builds the command tree. Configuration is read from the
// environment when a command runs, so tests can set env first.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "repurposer-ctl",
		Short: "Operate the research content repurposer",
		Long: `repurposer-ctl fetches research papers into the local store and turns
them into blog drafts without running the HTTP server.

Example usage:
  repurposer-ctl init-db
  repurposer-ctl fetch
  repurposer-ctl search "video diffusion"
  repurposer-ctl generate 1a2b3c4d5e6f --out draft.md`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if a.dbURL != "" {
				a.cfg.DatabaseURL = a.dbURL
			}
			if a.logLevel != "" {
				a.cfg.LogLevel = a.logLevel
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), a.cfg.LogLevel))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.dbURL, "db", "", "database path or postgres:// URL (default $REPURPOSER_DATABASE_URL)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	root.AddCommand(
		a.initDBCmd(),
		a.fetchCmd(),
		a.searchCmd(),
		a.articlesCmd(),
		a.generateCmd(),
		a.draftsCmd(),
		a.draftCmd(),
		a.checkLLMCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) openDB(ctx context.Context) (*storage.DB, error) {
	db, err := storage.NewDB(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Init(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	return db, nil
}

func (a *app) initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the articles and drafts tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized (%s)\n", db.Dialect)
			return nil
		},
	}
}
