package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/approval"
	"github.com/pashioya/marnix13/pkg/model"
)

// accountPendingCmd represents the account pending command
var accountPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List sign-ups awaiting approval",
	Long: `List sign-ups awaiting approval, oldest first.

Example:
  marnixctl account pending
  marnixctl account pending --stats`,
	Run: func(cmd *cobra.Command, args []string) {
		stats, _ := cmd.Flags().GetBool("stats")
		if err := listPending(cmd, stats); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list pending accounts: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	accountCmd.AddCommand(accountPendingCmd)
	accountPendingCmd.Flags().Bool("stats", false, "Also print approval statistics")
}

func listPending(cmd *cobra.Command, stats bool) error {
	database, stores, err := openStores(cmd)
	if err != nil {
		return err
	}
	defer closeDB(database)

	svc := approval.NewService(stores.Approval)
	users, err := svc.GetPendingUsers(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Print(formatPending(users))

	if stats {
		s, err := svc.GetApprovalStatistics(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("\npending: %d  approved: %d  rejected: %d  total: %d\n", s.Pending, s.Approved, s.Rejected, s.Total)
	}
	return nil
}

func formatPending(users []model.PendingUser) string {
	if len(users) == 0 {
		return "No accounts awaiting approval\n"
	}
	out := fmt.Sprintf("%-36s  %-24s  %-32s  %s\n", "ID", "NAME", "EMAIL", "REQUESTED")
	for _, u := range users {
		out += fmt.Sprintf("%-36s  %-24s  %-32s  %s\n",
			u.ID, u.Name, displayEmail(u.Email), u.RequestedAt.Format(time.RFC3339))
	}
	return out
}
