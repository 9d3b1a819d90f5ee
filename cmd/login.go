package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/registry"
	"github.com/mediaops/amsctl/pkg/session"
)

// loginCmd signs in to the selected account and connects to its management
// plane.
var loginCmd = &cobra.Command{
	Use:   "login <index>",
	Short: "Sign in to the account entry at the given index",
	Long: `Sign in to the account entry at the given index using its configured
authentication mode, then connect to the Media Services management plane and
refresh the account's storage associations.`,
	Args: cobra.ExactArgs(1),
	RunE: executeLoginCommand,
}

func executeLoginCommand(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	prompt := auth.PromptAuto
	if selectAccount, _ := cmd.Flags().GetBool("select-account"); selectAccount {
		prompt = auth.PromptSelectAccount
	}

	s, err := newSession(prompt)
	if err != nil {
		return err
	}

	_, entry, err := s.Login(context.Background(), index)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	displayLoginSuccess(entry, s.State())
	return nil
}

// displayLoginSuccess renders the post-login summary box.
func displayLoginSuccess(entry registry.Entry, state session.State) {
	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorGreen)).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorGreen)).
		Padding(1, 2).
		Width(60)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDarkGray)).
		Width(14)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorWhite)).
		Bold(true)

	checkmark := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorCheckOK)).
		SetString("✓")

	title := checkmark.Render() + " " + successStyle.Render("Connected!")

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Account:")+" "+valueStyle.Render(entry.AccountName))
	lines = append(lines, labelStyle.Render("Auth mode:")+" "+valueStyle.Render(string(entry.AuthMode)))

	if entry.Location != "" {
		lines = append(lines, labelStyle.Render("Location:")+" "+valueStyle.Render(entry.Location))
	}
	if entry.SubscriptionID != "" {
		lines = append(lines, labelStyle.Render("Subscription:")+" "+valueStyle.Render(entry.SubscriptionID))
	}
	if len(entry.StorageAccounts) > 0 {
		lines = append(lines, labelStyle.Render("Storage:")+" "+valueStyle.Render(fmt.Sprintf("%d account(s)", len(entry.StorageAccounts))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := boxStyle.Render(content)

	fmt.Fprintln(os.Stderr, "\n"+box+"\n")

	if state == session.StatePartiallyConnected {
		warnStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorYellow)).
			Bold(true)
		fmt.Fprintln(os.Stderr, warnStyle.Render("Warning:")+
			" account metadata could not be refreshed; storage associations may be stale.")
		fmt.Fprintln(os.Stderr)
	}
}

func init() {
	loginCmd.Flags().Bool("select-account", false, "Skip cached sessions and always show the account picker")
	RootCmd.AddCommand(loginCmd)
}
