package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/registry"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import account entries from an exported registry file",
	Long: `Import account entries from a previously exported registry file. By default
imported entries are merged after the existing ones; --replace discards the
existing registry first. A malformed file leaves the registry untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: executeImportCommand,
}

func executeImportCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return fmt.Errorf("%w: import file must have a .json extension", errUtils.ErrMalformedInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	mode := registry.ImportMerge
	if replace, _ := cmd.Flags().GetBool("replace"); replace {
		mode = registry.ImportReplace
	}

	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}
	if err := s.ImportFrom(data, mode); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %s. Registry now has %d entries.\n", path, s.Len())
	return nil
}

func init() {
	importCmd.Flags().Bool("replace", false, "Replace the existing registry instead of merging")
	RootCmd.AddCommand(importCmd)
}
