package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/config"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Signal the portal server to reload its configuration",
	Long: `Validate the current state of the configuration file and then signal
the running portal server to reload it.

Note that this will NOT incorporate changes to environment variables because
Linux process environments are static once a process has started.

Use --test to validate configuration without signalling the server.

Example:
  marnixctl configuration apply
  marnixctl configuration apply --test`,
	Run: func(cmd *cobra.Command, args []string) {
		testMode, _ := cmd.Flags().GetBool("test")

		if err := applyConfiguration(testMode); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without reloading")
}

func applyConfiguration(testMode bool) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if os.Getenv("DATABASE_URL") == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if config.JWTSecret() == "" {
		return fmt.Errorf("MARNIX_JWT_SECRET is not set")
	}
	if cfg.MailTransport == "smtp" && cfg.SMTPUsername != "" && cfg.SMTPPassword() == "" {
		return fmt.Errorf("MARNIX_SMTP_PASSWORD is not set")
	}

	fmt.Println("Configuration is valid.")

	if testMode {
		fmt.Println("Test mode: not signalling server.")
		return nil
	}

	fmt.Println("Sending reload signal to server...")

	output, err := exec.Command("pgrep", "-f", "marnixctl server").Output()
	if err != nil {
		return fmt.Errorf("no running marnixctl server found")
	}

	pids, err := parsePIDs(string(output))
	if err != nil {
		return err
	}
	for _, pid := range pids {
		process, err := os.FindProcess(pid)
		if err != nil {
			return fmt.Errorf("failed to find process: %w", err)
		}
		if err := process.Signal(syscall.SIGHUP); err != nil {
			return fmt.Errorf("failed to send signal to %d: %w", pid, err)
		}
		fmt.Printf("Sent reload signal to process %d\n", pid)
	}

	fmt.Println("Server will reload configuration.")
	return nil
}

// parsePIDs parses pgrep output, skipping this process.
func parsePIDs(output string) ([]int, error) {
	self := os.Getpid()
	var pids []int
	for _, field := range strings.Fields(output) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PID %q: %w", field, err)
		}
		if pid != self {
			pids = append(pids, pid)
		}
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("no running marnixctl server found")
	}
	return pids, nil
}
