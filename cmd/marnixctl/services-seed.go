package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/services"
	"github.com/pashioya/marnix13/pkg/validation"
)

// servicesSeedCmd represents the services seed command
var servicesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register the services configured for the portal",
	Long: `Register a service for every portal link with a configured URL
(jellyfin_url, nextcloud_url, radarr_url, sonarr_url), using the presets of
its service type. Services that are already registered are left alone.

Example:
  marnixctl services seed --admin owner@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := seedServices(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed services: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	servicesCmd.AddCommand(servicesSeedCmd)
	servicesSeedCmd.Flags().String("admin", "", "Email or id of the admin owning the services (required)")
}

func seedServices(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, stores, err := openStores(cmd)
	if err != nil {
		return err
	}
	defer closeDB(database)

	actor, err := adminActor(ctx, cmd, stores.Accounts)
	if err != nil {
		return err
	}

	reqs := services.SeedRequests(cfg)
	if len(reqs) == 0 {
		fmt.Println("No service URLs configured, nothing to seed")
		return nil
	}

	for _, req := range reqs {
		if verr := validation.ValidateStruct(&req); verr != nil {
			return fmt.Errorf("%s: %w", req.Name, verr)
		}
		svc := req.ToModel(actor.ID, actor.ID)
		err := stores.Services.CreateService(ctx, &svc)
		switch {
		case errors.Is(err, store.ErrServiceExists):
			fmt.Printf("%-12s already registered\n", svc.ServiceKey)
			continue
		case err != nil:
			return fmt.Errorf("registering %s: %w", svc.ServiceKey, err)
		}

		audit.Log(audit.ServiceChangeEvent{
			UserID:     actor.ID.String(),
			ClientIP:   actor.ClientIP,
			ServiceKey: svc.ServiceKey,
			Operation:  "create",
			Success:    true,
		})
		fmt.Printf("%-12s registered at %s\n", svc.ServiceKey, svc.URL)
	}
	return nil
}
