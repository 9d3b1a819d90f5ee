package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/environment"
	"github.com/mediaops/amsctl/pkg/registry"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the credential registry",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	RunE:  executeAccountsList,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account entry",
	Long: `Add an account entry, either from flags or from the JSON document printed
by "az ams account sp create" (--from-sp-json).`,
	RunE: executeAccountsAdd,
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the account entry at the given index",
	Args:  cobra.ExactArgs(1),
	RunE:  executeAccountsRemove,
}

var accountsDescribeCmd = &cobra.Command{
	Use:   "describe <index> <description>",
	Short: "Set the description of the account entry at the given index",
	Args:  cobra.ExactArgs(2),
	RunE:  executeAccountsDescribe,
}

func executeAccountsList(cmd *cobra.Command, args []string) error {
	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}

	entries := s.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No accounts registered. Add one with 'amsctl accounts add'.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorCyan))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))

	fmt.Fprintln(os.Stdout, headerStyle.Render(fmt.Sprintf("%-4s %-24s %-18s %-18s %s",
		"#", "ACCOUNT", "AUTH", "ENVIRONMENT", "DESCRIPTION")))
	for i, e := range entries {
		envName := e.Environment.Name
		if e.Environment.Kind == environment.KindCustom {
			envName = "custom"
		}
		fmt.Fprintf(os.Stdout, "%-4d %-24s %-18s %-18s %s\n",
			i, e.AccountName, string(e.AuthMode), envName, dimStyle.Render(e.Description))
	}
	return nil
}

func executeAccountsAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}

	if jsonPath, _ := cmd.Flags().GetString("from-sp-json"); jsonPath != "" {
		if !strings.HasSuffix(strings.ToLower(jsonPath), ".json") {
			return fmt.Errorf("%w: service principal credential file must have a .json extension", errUtils.ErrMalformedInput)
		}
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return err
		}
		entry, err := s.AddFromCLICredential(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added service principal entry for account %q.\n", entry.AccountName)
		return nil
	}

	resourceID, _ := cmd.Flags().GetString("resource-id")
	location, _ := cmd.Flags().GetString("location")
	envName, _ := cmd.Flags().GetString("environment")
	description, _ := cmd.Flags().GetString("description")
	authMode, _ := cmd.Flags().GetString("auth-mode")

	env, err := environment.WellKnown(envName)
	if err != nil {
		return err
	}

	var sp *registry.ServicePrincipal
	mode := registry.AuthMode(authMode)
	if mode == registry.AuthModeServicePrincipal {
		tenantID, _ := cmd.Flags().GetString("tenant-id")
		clientID, _ := cmd.Flags().GetString("client-id")
		secret, _ := cmd.Flags().GetString("client-secret")
		sp = &registry.ServicePrincipal{TenantID: tenantID, ClientID: clientID, ClearSecret: secret}
	}

	entry, err := registry.NewEntry(resourceID, location, env, mode, sp)
	if err != nil {
		return err
	}
	entry.Description = description

	if err := s.Add(entry); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added entry for account %q.\n", entry.AccountName)
	return nil
}

func executeAccountsRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}
	if err := s.RemoveAt(index); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed entry %d.\n", index)
	return nil
}

func executeAccountsDescribe(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}
	return s.SetDescription(index, args[1])
}

// parseIndex parses an entry index as shown by 'accounts list'.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an entry index", errUtils.ErrNoEntrySelected, arg)
	}
	return index, nil
}

func init() {
	accountsAddCmd.Flags().String("from-sp-json", "", "Path to the JSON file printed by 'az ams account sp create'")
	accountsAddCmd.Flags().String("resource-id", "", "ARM resource id of the Media Services account")
	accountsAddCmd.Flags().String("location", "", "Azure region of the account")
	accountsAddCmd.Flags().String("environment", environment.AzureGlobal, "Well-known environment name")
	accountsAddCmd.Flags().String("description", "", "Display description")
	accountsAddCmd.Flags().String("auth-mode", string(registry.AuthModeInteractive), "Authentication mode (interactive or servicePrincipal)")
	accountsAddCmd.Flags().String("tenant-id", "", "Service principal tenant id")
	accountsAddCmd.Flags().String("client-id", "", "Service principal client id")
	accountsAddCmd.Flags().String("client-secret", "", "Service principal client secret")

	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	accountsCmd.AddCommand(accountsDescribeCmd)
	RootCmd.AddCommand(accountsCmd)
}
