// Package config loads tool configuration from the user's config file and
// AMSCTL_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDirName     = ".amsctl"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "AMSCTL"

	defaultAccountsFileName = "accounts.json"
	defaultKeyringDirName   = "keyring"
	defaultLogLevel         = "info"
	defaultPasswordEnv      = "AMSCTL_KEYRING_PASSWORD"
)

// Keyring configures where the secret-encryption key lives and how the
// encrypted-file fallback backend gets its password in non-interactive runs.
type Keyring struct {
	Path        string `mapstructure:"path"`
	PasswordEnv string `mapstructure:"password_env"`
}

// Config is the resolved tool configuration.
type Config struct {
	AccountsFile string  `mapstructure:"accounts_file"`
	LogLevel     string  `mapstructure:"log_level"`
	Keyring      Keyring `mapstructure:"keyring"`
}

// Load resolves configuration from ~/.amsctl/config.yaml, overridden by
// AMSCTL_* environment variables. A missing config file is not an error;
// defaults apply.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, appDirName))
}

// LoadFrom resolves configuration rooted at the given directory instead of
// ~/.amsctl.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("accounts_file", filepath.Join(dir, defaultAccountsFileName))
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("keyring.path", filepath.Join(dir, defaultKeyringDirName))
	v.SetDefault("keyring.password_env", defaultPasswordEnv)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
