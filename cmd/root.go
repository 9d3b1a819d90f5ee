// Package cmd implements the amsctl command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/config"
	log "github.com/mediaops/amsctl/pkg/logger"
	"github.com/mediaops/amsctl/pkg/secrets"
	"github.com/mediaops/amsctl/pkg/session"
	"github.com/mediaops/amsctl/pkg/store"
)

var appConfig config.Config

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "amsctl",
	Short: "Manage Azure Media Services account credentials and sign-ins",
	Long: `amsctl keeps a registry of Azure Media Services account credentials,
signs in with delegated or service principal identities, and connects to the
management plane of the selected account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg

		levelName := cfg.LogLevel
		if flag, _ := cmd.Flags().GetString("logs-level"); flag != "" {
			levelName = flag
		}
		level, err := log.ParseLevel(levelName)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("logs-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// newBroker opens the secret-key keyring and builds an authentication broker
// over it.
func newBroker(prompt auth.PromptPolicy) (*auth.Broker, secrets.Cipher, error) {
	ring, err := secrets.OpenKeyring(secrets.KeyringOptions{
		Path:        appConfig.Keyring.Path,
		PasswordEnv: appConfig.Keyring.PasswordEnv,
	})
	if err != nil {
		return nil, nil, err
	}
	cipher, err := secrets.NewCipher(ring)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewBroker(cipher, prompt), cipher, nil
}

// newSession wires the settings store, the secret cipher and the broker into
// a login session over the persisted registry.
func newSession(prompt auth.PromptPolicy) (*session.Session, error) {
	broker, cipher, err := newBroker(prompt)
	if err != nil {
		return nil, err
	}
	st := store.NewFileStore(appConfig.AccountsFile)
	return session.New(st, broker, cipher)
}
