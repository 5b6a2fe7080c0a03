package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/starterapp/rkeeper-adapter/models"
)

var syncClientID string

func newSyncCommand(use, short string, one func(*app) func(context.Context, *models.Client) error, all func(*app) func(context.Context)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if syncClientID == "" {
				all(application)(ctx)
				return nil
			}
			client, err := application.clients.ByClientID(syncClientID)
			if err != nil {
				return err
			}
			return one(application)(ctx, client)
		},
	}
	cmd.Flags().StringVar(&syncClientID, "client-id", "", "limit the sync to one client")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		newSyncCommand("sync-shops", "Mirror POS restaurants to the platform",
			func(a *app) func(context.Context, *models.Client) error { return a.sync.SyncShops },
			func(a *app) func(context.Context) { return a.sync.SyncShopsAll },
		),
		newSyncCommand("sync-menu", "Reconcile the POS menu into the platform",
			func(a *app) func(context.Context, *models.Client) error { return a.sync.SyncMenu },
			func(a *app) func(context.Context) { return a.sync.SyncMenuAll },
		),
		newSyncCommand("sync-orders", "Poll order statuses and push them to the platform",
			func(a *app) func(context.Context, *models.Client) error { return a.sync.SyncOrderStatuses },
			func(a *app) func(context.Context) { return a.sync.SyncOrderStatusesAll },
		),
	)
}
