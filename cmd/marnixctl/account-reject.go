package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/approval"
)

// accountRejectCmd represents the account reject command
var accountRejectCmd = &cobra.Command{
	Use:   "reject <user-id|email>",
	Short: "Reject a pending sign-up",
	Long: `Reject a pending sign-up on behalf of an administrator.

A reason is required; it is stored on the account and included in the
email sent to the user.

Example:
  marnixctl account reject spam@example.com --admin owner@example.com --reason "Unknown requester"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := rejectAccount(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reject account: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rejected %s\n", args[0])
	},
}

func init() {
	accountCmd.AddCommand(accountRejectCmd)
	accountRejectCmd.Flags().String("admin", "", "Email or id of the rejecting admin (required)")
	accountRejectCmd.Flags().String("reason", "", "Reason for the rejection (required)")
}

func rejectAccount(cmd *cobra.Command, ref string) error {
	ctx := cmd.Context()
	reason, _ := cmd.Flags().GetString("reason")

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
	return workflow.Reject(ctx, actor, approval.RejectUserForm{UserID: user.ID.String(), Reason: reason})
}
