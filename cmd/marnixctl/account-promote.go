package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/model"
)

// accountPromoteCmd represents the account promote command
var accountPromoteCmd = &cobra.Command{
	Use:   "promote <user-id|email>",
	Short: "Change the account type of a user",
	Long: `Change the account type of a user. Without --type the account becomes
an admin, which is how the first administrator is created.

Admins can use the admin area regardless of their own approval state.

Example:
  marnixctl account promote owner@example.com
  marnixctl account promote helper@example.com --type moderator
  marnixctl account promote former.admin@example.com --type user`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		typeName, _ := cmd.Flags().GetString("type")
		accountType, err := model.AccountTypeString(typeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid account type %q (user, admin, moderator)\n", typeName)
			os.Exit(1)
		}

		if err := promoteAccount(cmd, args[0], accountType); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to change account type: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s is now %s\n", args[0], accountType)
	},
}

func init() {
	accountCmd.AddCommand(accountPromoteCmd)
	accountPromoteCmd.Flags().String("type", model.AccountTypeAdmin.String(), "Account type to assign (user, admin, moderator)")
}

func promoteAccount(cmd *cobra.Command, ref string, accountType model.AccountType) error {
	ctx := cmd.Context()
	database, stores, err := openStores(cmd)
	if err != nil {
		return err
	}
	defer closeDB(database)

	account, err := resolveAccount(ctx, stores.Accounts, ref)
	if err != nil {
		return fmt.Errorf("account %s: %w", ref, err)
	}
	if err := stores.Accounts.SetAccountType(ctx, account.ID, accountType); err != nil {
		return err
	}

	audit.Log(audit.RoleChangeEvent{
		ActorID:     operator(),
		AccountID:   account.ID.String(),
		AccountType: accountType.String(),
	})
	return nil
}

// operator names the local user running the command.
func operator() string {
	if u, err := user.Current(); err == nil {
		return "cli:" + u.Username
	}
	return "cli"
}
