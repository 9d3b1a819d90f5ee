package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/registry"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the registry to a file",
	Long: `Export the registry, or a single entry with --entry, to a JSON file.
Encrypted service principal secrets are omitted unless --include-secrets is
set. Clear secrets are never written in any mode.`,
	Args: cobra.ExactArgs(1),
	RunE: executeExportCommand,
}

func executeExportCommand(cmd *cobra.Command, args []string) error {
	mode := registry.ExportWithoutSecret
	if includeSecrets, _ := cmd.Flags().GetBool("include-secrets"); includeSecrets {
		mode = registry.ExportWithSecret
	}

	s, err := newSession(auth.PromptAuto)
	if err != nil {
		return err
	}

	var data []byte
	if cmd.Flags().Changed("entry") {
		index, _ := cmd.Flags().GetInt("entry")
		data, err = s.ExportEntry(index, mode)
	} else {
		data, err = s.ExportAll(mode)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported to %s.\n", args[0])
	return nil
}

func init() {
	exportCmd.Flags().Int("entry", 0, "Export only the entry at this index")
	exportCmd.Flags().Bool("include-secrets", false, "Include encrypted service principal secrets in the export")
	RootCmd.AddCommand(exportCmd)
}
