package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marnixctl",
	Short: "Run and administer the Marnix 13 portal",
	Long: `marnixctl runs the Marnix 13 portal API server and provides the
administrative commands around it: database migrations, configuration,
account approval and the services registry.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
