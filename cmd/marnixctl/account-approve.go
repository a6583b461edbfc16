package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/approval"
)

// accountApproveCmd represents the account approve command
var accountApproveCmd = &cobra.Command{
	Use:   "approve <user-id|email>",
	Short: "Approve a pending sign-up",
	Long: `Approve a pending sign-up on behalf of an administrator.

The user is notified by email using the configured mail transport. A
notification failure is reported in the log but does not undo the approval.

Example:
  marnixctl account approve new.user@example.com --admin owner@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := approveAccount(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to approve account: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Approved %s\n", args[0])
	},
}

func init() {
	accountCmd.AddCommand(accountApproveCmd)
	accountApproveCmd.Flags().String("admin", "", "Email or id of the approving admin (required)")
}

func approveAccount(cmd *cobra.Command, ref string) error {
	ctx := cmd.Context()
	database, stores, err := openStores(cmd)
	if err != nil {
		return err
	}
	defer closeDB(database)

	actor, err := adminActor(ctx, cmd, stores.Accounts)
	if err != nil {
		return err
	}
	user, err := resolveAccount(ctx, stores.Accounts, ref)
	if err != nil {
		return fmt.Errorf("account %s: %w", ref, err)
	}
	workflow, err := newWorkflow(stores)
	if err != nil {
		return err
	}
	return workflow.Approve(ctx, actor, approval.ApprovalActionParams{UserID: user.ID.String()})
}
