package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/models"
)

var addClientCmd = &cobra.Command{
	Use:   "add-client",
	Short: "Register a tenant manually",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}

		clientID, _ := cmd.Flags().GetString("client-id")
		clientSecret, _ := cmd.Flags().GetString("client-secret")
		apiKey, _ := cmd.Flags().GetString("api-key")
		projectTitle, _ := cmd.Flags().GetString("project")
		currency, _ := cmd.Flags().GetString("currency")
		if apiKey == "" {
			apiKey = uuid.NewString()
		}

		var project models.Project
		err = application.db.Where("title = ?", projectTitle).First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			project = models.Project{Title: projectTitle}
			err = application.db.Create(&project).Error
		}
		if err != nil {
			return err
		}

		client := models.Client{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			APIKey:       apiKey,
			IsActive:     true,
			CurrencyCode: currency,
			ProjectID:    &project.ID,
		}
		if err := application.db.Create(&client).Error; err != nil {
			return err
		}
		fmt.Printf("client %s created, api key: %s\n", clientID, apiKey)
		return nil
	},
}

var removeClientCmd = &cobra.Command{
	Use:   "remove-client",
	Short: "Delete a tenant and its whole catalog mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client-id")
		if err := application.clients.RemoveClient(clientID); err != nil {
			return err
		}
		fmt.Printf("client %s removed\n", clientID)
		return nil
	},
}

var setFlagCmd = &cobra.Command{
	Use:   "set-flag",
	Short: "Toggle a behavior flag of a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client-id")
		name, _ := cmd.Flags().GetString("flag")
		value, _ := cmd.Flags().GetBool("value")

		client, err := application.clients.ByClientID(clientID)
		if err != nil {
			return err
		}
		switch name {
		case "use_modifier_max_amount":
			client.UseModifierMaxAmount = value
		case "is_use_loyalty":
			client.IsUseLoyalty = value
		case "is_split_order_items_for_keeper":
			client.IsSplitOrderItemsForKeeper = value
		case "is_use_modifier_external_id":
			client.IsUseModifierExternalID = value
		case "is_use_meal_external_id":
			client.IsUseMealExternalID = value
		case "is_use_discounts_as_variable":
			client.IsUseDiscountsAsVariable = value
		case "is_use_global_modifier_complex":
			client.IsUseGlobalModifierComplex = value
		case "is_skip_update_order_payment_status":
			client.IsSkipUpdateOrderPaymentState = value
		case "is_use_minus_for_discount_amount":
			client.IsUseMinusForDiscountAmount = value
		case "is_active":
			client.IsActive = value
		default:
			return fmt.Errorf("unknown flag: %s", name)
		}
		if err := application.clients.Save(client); err != nil {
			return err
		}
		fmt.Printf("%s set to %v for client %s\n", name, value, clientID)
		return nil
	},
}

var createDiscountCmd = &cobra.Command{
	Use:   "create-discount",
	Short: "Map a platform discount id to an rkeeper discount id",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client-id")
		starterID, _ := cmd.Flags().GetString("starter-id")
		posID, _ := cmd.Flags().GetInt("pos-id")

		client, err := application.clients.ByClientID(clientID)
		if err != nil {
			return err
		}
		discount := models.Discount{ClientID: client.ID, StarterID: starterID, PosID: posID}
		if err := application.discounts.Create(&discount); err != nil {
			return err
		}
		fmt.Printf("discount %s -> %d created for client %s\n", starterID, posID, clientID)
		return nil
	},
}

var clearDiscountsCmd = &cobra.Command{
	Use:   "clear-discounts",
	Short: "Drop every discount mapping of a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client-id")
		client, err := application.clients.ByClientID(clientID)
		if err != nil {
			return err
		}
		return application.discounts.ClearByClient(client.ID)
	},
}

var ignoreOrderCmd = &cobra.Command{
	Use:   "ignore-order",
	Short: "Journal a platform order as done so it is never sent to the POS",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client-id")
		globalID, _ := cmd.Flags().GetString("global-id")

		client, err := application.clients.ByClientID(clientID)
		if err != nil {
			return err
		}
		order := models.Order{GlobalID: globalID, ClientID: client.ID, Done: true}
		if err := application.orders.Create(&order); err != nil {
			return err
		}
		fmt.Printf("order %s ignored for client %s\n", globalID, clientID)
		return nil
	},
}

func init() {
	addClientCmd.Flags().String("client-id", "", "rkeeper client id")
	addClientCmd.Flags().String("client-secret", "", "rkeeper client secret")
	addClientCmd.Flags().String("api-key", "", "gateway api key, generated when empty")
	addClientCmd.Flags().String("project", "", "project title")
	addClientCmd.Flags().String("currency", "", "rkeeper currency code")
	_ = addClientCmd.MarkFlagRequired("client-id")
	_ = addClientCmd.MarkFlagRequired("client-secret")
	_ = addClientCmd.MarkFlagRequired("project")

	removeClientCmd.Flags().String("client-id", "", "rkeeper client id")
	_ = removeClientCmd.MarkFlagRequired("client-id")

	setFlagCmd.Flags().String("client-id", "", "rkeeper client id")
	setFlagCmd.Flags().String("flag", "", "flag name, snake case")
	setFlagCmd.Flags().Bool("value", false, "flag value")
	_ = setFlagCmd.MarkFlagRequired("client-id")
	_ = setFlagCmd.MarkFlagRequired("flag")

	createDiscountCmd.Flags().String("client-id", "", "rkeeper client id")
	createDiscountCmd.Flags().String("starter-id", "", "platform discount id")
	createDiscountCmd.Flags().Int("pos-id", 0, "rkeeper discount id")
	_ = createDiscountCmd.MarkFlagRequired("client-id")
	_ = createDiscountCmd.MarkFlagRequired("starter-id")
	_ = createDiscountCmd.MarkFlagRequired("pos-id")

	clearDiscountsCmd.Flags().String("client-id", "", "rkeeper client id")
	_ = clearDiscountsCmd.MarkFlagRequired("client-id")

	ignoreOrderCmd.Flags().String("client-id", "", "rkeeper client id")
	ignoreOrderCmd.Flags().String("global-id", "", "platform global order id")
	_ = ignoreOrderCmd.MarkFlagRequired("client-id")
	_ = ignoreOrderCmd.MarkFlagRequired("global-id")

	rootCmd.AddCommand(addClientCmd, removeClientCmd, setFlagCmd, createDiscountCmd, clearDiscountsCmd, ignoreOrderCmd)
}
