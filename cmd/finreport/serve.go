package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/finreport/store"
	"github.com/hazyhaar/finreport/viewer"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report viewer API",
		Long: `Serve exposes the snapshot archive and summary files over HTTP and
accepts monthly legal-detail submissions at POST /api/legal-details.

Set VIEWER_PASSWORD_HASH (bcrypt) to require Basic Auth.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)

	addr := cfg.Viewer.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var index *store.Index
	db, err := store.OpenDB(cfg.Output.IndexDB)
	if err != nil {
		logger.Warn("snapshot index unavailable, period listing disabled", "error", err)
	} else {
		defer db.Close()
		index = store.NewIndex(db)
		if err := index.Init(ctx); err != nil {
			return err
		}
	}

	srv := viewer.New(viewer.Config{
		SummaryDir:   cfg.Output.SummaryDir,
		SnapshotDir:  cfg.Output.SnapshotDir,
		User:         cfg.Viewer.User,
		PasswordHash: cfg.Viewer.PasswordHash,
		Logger:       logger,
	}, index)

	return srv.ListenAndServe(ctx, addr)
}
