package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/spf13/viper"

	errUtils "github.com/mediaops/amsctl/errors"
)

const (
	// KeyringDirPermissions is the permission for the file-backend keyring
	// directory (owner only).
	KeyringDirPermissions = 0o700

	serviceName = "amsctl"
)

// ErrKeyringPasswordRequired indicates the file keyring needs a password but
// none was provided.
var ErrKeyringPasswordRequired = errors.New("keyring password required")

// KeyringOptions configures how the secret-key keyring is opened.
type KeyringOptions struct {
	// Path is the directory for the file backend. Empty uses ~/.amsctl/keyring.
	Path string
	// PasswordEnv is the environment variable consulted for the file-backend
	// password. Empty uses AMSCTL_KEYRING_PASSWORD.
	PasswordEnv string
}

// defaultKeyringPath returns the default keyring directory.
func defaultKeyringPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".amsctl", "keyring"), nil
}

// OpenKeyring opens the OS keyring (with an encrypted-file fallback) that
// holds the local secret-encryption key.
func OpenKeyring(opts KeyringOptions) (keyring.Keyring, error) {
	path := opts.Path
	if path == "" {
		defaultPath, err := defaultKeyringPath()
		if err != nil {
			return nil, errors.Join(errUtils.ErrSecretCipher, err)
		}
		path = defaultPath
	}

	passwordEnv := opts.PasswordEnv
	if passwordEnv == "" {
		passwordEnv = "AMSCTL_KEYRING_PASSWORD"
	}

	if err := os.MkdirAll(path, KeyringDirPermissions); err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, fmt.Errorf("failed to create keyring directory: %w", err))
	}

	passwordFunc := passwordFromEnv(passwordEnv)

	ring, err := keyring.Open(keyring.Config{
		ServiceName:                    serviceName,
		FileDir:                        path,
		FilePasswordFunc:               passwordFunc,
		KeychainName:                   serviceName,
		KeychainPasswordFunc:           passwordFunc,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		KeychainTrustApplication:       false,
	})
	if err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, fmt.Errorf("failed to open keyring: %w", err))
	}

	return ring, nil
}

// passwordFromEnv returns a prompt function that reads the file-backend
// password from the environment. Login may run in scripts, so a missing
// password is an error rather than an interactive prompt.
func passwordFromEnv(passwordEnv string) keyring.PromptFunc {
	return func(prompt string) (string, error) {
		_ = viper.BindEnv(passwordEnv)
		if password := viper.GetString(passwordEnv); password != "" {
			return password, nil
		}
		return "", fmt.Errorf("%w: set %s", ErrKeyringPasswordRequired, passwordEnv)
	}
}
