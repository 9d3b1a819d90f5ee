package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/environment"
)

// subscriptionsCmd signs in interactively and lists the reachable
// subscriptions, for finding the resource id of an account to register.
var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Sign in and list reachable subscriptions",
	Long: `Sign in with a delegated identity and list the subscriptions the signed-in
user can reach in the chosen environment. Useful for locating the resource id
of a Media Services account before registering it.`,
	RunE: executeSubscriptionsCommand,
}

func executeSubscriptionsCommand(cmd *cobra.Command, args []string) error {
	envName, _ := cmd.Flags().GetString("environment")
	env, err := environment.WellKnown(envName)
	if err != nil {
		return err
	}

	prompt := auth.PromptAuto
	if selectAccount, _ := cmd.Flags().GetBool("select-account"); selectAccount {
		prompt = auth.PromptSelectAccount
	}

	broker, _, err := newBroker(prompt)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := broker.InteractiveDelegatedLogin(ctx, env, prompt)
	if err != nil {
		return err
	}

	subs, err := broker.ListSubscriptions(ctx, env, result.TokenCredential())
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(os.Stdout, "No subscriptions reachable with this identity.")
		return nil
	}

	for _, sub := range subs {
		fmt.Fprintf(os.Stdout, "%-38s %s\n", sub.ID, sub.DisplayName)
	}
	return nil
}

func init() {
	subscriptionsCmd.Flags().String("environment", environment.AzureGlobal, "Well-known environment name")
	subscriptionsCmd.Flags().Bool("select-account", false, "Skip cached sessions and always show the account picker")
	RootCmd.AddCommand(subscriptionsCmd)
}
