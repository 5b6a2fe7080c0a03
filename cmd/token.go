package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/starterapp/rkeeper-adapter/config"
	"github.com/starterapp/rkeeper-adapter/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an ops token for the admin endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		utils.InitJWT(cfg.JWTSecret)

		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := utils.GenerateOpsToken(subject, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("subject", "ops", "token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
