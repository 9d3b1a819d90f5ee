package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "accounts.json"), cfg.AccountsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "keyring"), cfg.Keyring.Path)
	assert.Equal(t, "AMSCTL_KEYRING_PASSWORD", cfg.Keyring.PasswordEnv)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("accounts_file: /var/lib/amsctl/accounts.json\nlog_level: debug\nkeyring:\n  path: /var/lib/amsctl/keyring\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/amsctl/accounts.json", cfg.AccountsFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/amsctl/keyring", cfg.Keyring.Path)
	assert.Equal(t, "AMSCTL_KEYRING_PASSWORD", cfg.Keyring.PasswordEnv)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: debug\n"), 0o600))
	t.Setenv("AMSCTL_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: [unclosed\n"), 0o600))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}
