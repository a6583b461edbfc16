package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/services"
)

// servicesCheckCmd represents the services check command
var servicesCheckCmd = &cobra.Command{
	Use:   "check [key]",
	Short: "Run health checks now",
	Long: `Probe registered services and record the results, the same way the
server's background monitor does. Without a key every service is checked,
including disabled ones.

Exits non-zero when any checked service is not online.

Example:
  marnixctl services check
  marnixctl services check jellyfin`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		healthy, err := checkServices(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
			os.Exit(1)
		}
		if !healthy {
			os.Exit(2)
		}
	},
}

func init() {
	servicesCmd.AddCommand(servicesCheckCmd)
}

func checkServices(cmd *cobra.Command, args []string) (bool, error) {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, stores, err := openStores(cmd)
	if err != nil {
		return false, err
	}
	defer closeDB(database)

	checker := services.NewChecker(cfg.HealthCheckTimeout())
	defer checker.CloseIdleConnections()
	monitor := services.NewMonitor(stores.Services, checker, 0)

	results := map[string]store.HealthResult{}
	if len(args) == 1 {
		result, err := monitor.CheckOne(ctx, args[0])
		if err != nil {
			return false, err
		}
		results[args[0]] = result
	} else {
		results, err = monitor.CheckAll(ctx)
		if err != nil {
			return false, err
		}
	}

	out, healthy := formatResults(results)
	fmt.Print(out)
	return healthy, nil
}

func formatResults(results map[string]store.HealthResult) (string, bool) {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	healthy := true
	out := ""
	for _, k := range keys {
		r := results[k]
		line := fmt.Sprintf("%-24s  %-8s  %6dms", k, r.Status, r.ResponseTime.Milliseconds())
		if r.Error != "" {
			line += "  " + r.Error
		}
		out += line + "\n"
		if r.Status != model.ServiceStatusOnline {
			healthy = false
		}
	}
	return out, healthy
}
