package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/services"
)

// servicesListCmd represents the services list command
var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered services",
	Long: `List registered services with their last known health.

Example:
  marnixctl services list`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listServices(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list services: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	servicesCmd.AddCommand(servicesListCmd)
}

func listServices(cmd *cobra.Command) error {
	database, stores, err := openStores(cmd)
	if err != nil {
		return err
	}
	defer closeDB(database)

	rows, err := stores.Services.ListServices(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Print(formatServices(services.ToViews(rows)))
	return nil
}

func formatServices(views []services.View) string {
	if len(views) == 0 {
		return "No services registered\n"
	}
	out := fmt.Sprintf("%-24s  %-20s  %-8s  %-8s  %s\n", "KEY", "NAME", "ENABLED", "STATUS", "URL")
	for _, v := range views {
		out += fmt.Sprintf("%-24s  %-20s  %-8t  %-8s  %s\n", v.ID, v.Name, v.Enabled, v.Status, v.URL)
	}
	return out
}
