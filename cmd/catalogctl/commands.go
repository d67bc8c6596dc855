package main

import (
	"errors"
	"fmt"
	"time"

	"storesync/internal/config"
	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/shopify"

	"github.com/spf13/cobra"
)

type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.Database
	repo   *repository.GormCatalogRepository
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL, cfg.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger.New(cfg.LogLevel),
		db:     db,
		repo:   repository.NewCatalogRepository(db.DB),
	}, nil
}

func (a *app) close() {
	a.logger.Sync()
	a.db.Close()
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one full catalog sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cfg.ValidateShopify(); err != nil {
				return err
			}

			publisher := events.New(a.cfg.KafkaBrokers, a.cfg.KafkaSyncEventTopic)
			defer publisher.Close()

			connector := shopifyconn.New(a.cfg, shopify.NewClient(a.cfg, a.logger), a.repo, publisher, a.logger)
			result, err := connector.SyncProducts(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d products in %d pages at %s\n",
				result.Synced, result.Pages, result.CompletedAt.Format(time.RFC3339))
			if result.SkippedProducts > 0 || result.SkippedVariants > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d malformed products, %d variants\n",
					result.SkippedProducts, result.SkippedVariants)
			}
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last sync result",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			state, err := a.repo.GetSyncState(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:       %s\n", state.Status)
			fmt.Fprintf(out, "Last sync:    %s\n", formatTime(state.LastSyncAt))
			fmt.Fprintf(out, "Products:     %d\n", state.LastSyncCount)
			fmt.Fprintf(out, "Last attempt: %s\n", formatTime(state.LastAttemptAt))
			if state.LastError != "" {
				fmt.Fprintf(out, "Last error:   %s\n", state.LastError)
			}
			return nil
		},
	}
}

func newPurgeCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every mirrored product and the sync state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to purge without --yes")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			deleted, err := a.repo.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d products\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm the purge")

	return cmd
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
