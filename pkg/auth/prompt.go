package auth

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pkg/browser"

	log "github.com/mediaops/amsctl/pkg/logger"
)

const (
	colorCyan  = "#00FFFF"
	colorGreen = "#00FF00"
	colorGray  = "#808080"
	colorBlue  = "#5F87FF"
)

// isTTY checks if stderr is a terminal. Device-code sign-in needs one so the
// user can see the verification URL.
func isTTY() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// displayDeviceCodePrompt shows the verification code and URL, and opens the
// browser with the code pre-filled.
func displayDeviceCodePrompt(userCode, verificationURL string) {
	log.Debug("Displaying sign-in prompt", "url", verificationURL, "code", userCode)

	if isTTY() {
		displayVerificationDialog(userCode, verificationURL)
	} else {
		displayVerificationPlainText(userCode, verificationURL)
	}

	if verificationURL != "" {
		urlToOpen := fmt.Sprintf("%s?otc=%s", verificationURL, userCode)
		if err := browser.OpenURL(urlToOpen); err != nil {
			log.Debug("Failed to open browser automatically", "error", err)
		}
	}
}

func displayVerificationDialog(code, url string) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorCyan))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorGray))

	codeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorGreen)).
		Padding(0, 1)

	urlStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorBlue))

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, titleStyle.Render("Azure sign-in required"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s %s\n", labelStyle.Render("Verification code:"), codeStyle.Render(code))
	fmt.Fprintf(os.Stderr, "%s %s\n", labelStyle.Render("Verification URL: "), urlStyle.Render(url))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, labelStyle.Render("Opening browser..."))
	fmt.Fprintln(os.Stderr)
}

func displayVerificationPlainText(code, url string) {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Azure sign-in required")
	fmt.Fprintf(os.Stderr, "Verification code: %s\n", code)
	fmt.Fprintf(os.Stderr, "Verification URL:  %s\n", url)
	fmt.Fprintln(os.Stderr, "Open the URL and enter the code to sign in.")
	fmt.Fprintln(os.Stderr, "")
}
