package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// servicesCmd represents the services command
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the services registry",
	Long:  `List, seed and health-check the self-hosted services shown in the portal.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'services' requires a subcommand (list, seed, check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
