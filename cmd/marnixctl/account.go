package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/approval"
	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/notify"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// cliClientIP is recorded as the client address of actions taken here.
const cliClientIP = "local"

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage portal accounts",
	Long:  `Review sign-ups and manage account roles.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'account' requires a subcommand (pending, approve, reject, promote)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

// resolveAccount finds an account by id or email.
func resolveAccount(ctx context.Context, accounts store.AccountsStore, ref string) (*model.Account, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return accounts.FetchAccount(ctx, id)
	}
	return accounts.FindByEmail(ctx, ref)
}

// adminActor resolves the --admin flag to the acting administrator.
func adminActor(ctx context.Context, cmd *cobra.Command, accounts store.AccountsStore) (approval.Actor, error) {
	ref, _ := cmd.Flags().GetString("admin")
	if ref == "" {
		return approval.Actor{}, fmt.Errorf("--admin is required")
	}
	admin, err := resolveAccount(ctx, accounts, ref)
	if err != nil {
		return approval.Actor{}, fmt.Errorf("admin %s: %w", ref, err)
	}
	if !admin.IsAdmin() {
		return approval.Actor{}, fmt.Errorf("%s is not an admin", ref)
	}
	return approval.Actor{ID: admin.ID, ClientIP: cliClientIP}, nil
}

// newWorkflow builds the approval workflow used by the server, sending
// notifications through the configured mailer.
func newWorkflow(stores server.Stores) (*approval.Workflow, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return approval.NewWorkflow(
		approval.NewService(stores.Approval),
		stores.Accounts,
		notify.FromConfig(cfg),
	), nil
}

func displayEmail(email *string) string {
	if email == nil {
		return "-"
	}
	return *email
}
