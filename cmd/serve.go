package cmd

import (
	"github.com/spf13/cobra"

	"github.com/starterapp/rkeeper-adapter/controllers"
	"github.com/starterapp/rkeeper-adapter/router"
	"github.com/starterapp/rkeeper-adapter/services"
	"github.com/starterapp/rkeeper-adapter/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and the periodic syncs",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}

		scheduler := services.NewScheduler(
			application.sync,
			application.cfg.CronSyncShops,
			application.cfg.CronSyncMenu,
			application.cfg.CronSyncStatuses,
		)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Stop()

		orderCtrl := controllers.NewOrderController(application.orderSvc)
		projectCtrl := controllers.NewProjectController(
			application.clients,
			application.transfer,
			application.sync,
			application.newGW,
		)
		syncCtrl := controllers.NewSyncController(application.sync, application.clients)

		r := router.SetupRouter(orderCtrl, projectCtrl, syncCtrl, application.clients)
		utils.InfoLogger.Printf("Listening on %s", application.cfg.Addr)
		return r.Run(application.cfg.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
