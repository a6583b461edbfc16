package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show portal configuration attributes and their sources",
	Long: `Show portal configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources: the environment variables and the config file.
These may not reflect the values used by a running server that has not
been reloaded.

Config file location: /etc/marnix13/config/marnix13.yml (or MARNIX_CONFIG_PATH)

Example:
  marnixctl configuration show
  marnixctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
	case "text":
		fmt.Print(cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}
