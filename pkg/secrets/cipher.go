// Package secrets encrypts service principal secrets at rest. The persisted
// form is reversible only on the machine holding the encryption key, which
// lives in the OS keyring (or its encrypted-file fallback).
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	errUtils "github.com/mediaops/amsctl/errors"
)

const (
	encryptionKeyItem = "secret-encryption-key"
	encryptionKeySize = 32 // AES-256
)

// ErrCiphertextTooShort indicates a ciphertext shorter than the GCM nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Cipher encrypts and decrypts service principal secrets. Ciphertexts are
// base64 strings safe to embed in the persisted registry blob.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// keyringCipher is an AES-256-GCM cipher whose key is stored in a keyring.
type keyringCipher struct {
	aead cipher.AEAD
}

// NewCipher loads the encryption key from the given keyring, generating and
// storing a fresh key on first use.
func NewCipher(ring keyring.Keyring) (Cipher, error) {
	key, err := loadOrCreateKey(ring)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, err)
	}

	return &keyringCipher{aead: aead}, nil
}

func loadOrCreateKey(ring keyring.Keyring) ([]byte, error) {
	item, err := ring.Get(encryptionKeyItem)
	if err == nil {
		if len(item.Data) != encryptionKeySize {
			return nil, fmt.Errorf("%w: stored key has wrong size %d", errUtils.ErrSecretCipher, len(item.Data))
		}
		return item.Data, nil
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, errors.Join(errUtils.ErrSecretCipher, fmt.Errorf("failed to read encryption key: %w", err))
	}

	key := make([]byte, encryptionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, err)
	}
	if err := ring.Set(keyring.Item{
		Key:   encryptionKeyItem,
		Data:  key,
		Label: "amsctl secret encryption key",
	}); err != nil {
		return nil, errors.Join(errUtils.ErrSecretCipher, fmt.Errorf("failed to store encryption key: %w", err))
	}

	return key, nil
}

// Encrypt seals the plaintext with a random nonce and returns
// base64(nonce || ciphertext).
func (c *keyringCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Join(errUtils.ErrSecretCipher, err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *keyringCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(errUtils.ErrSecretCipher, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", errors.Join(errUtils.ErrSecretCipher, ErrCiphertextTooShort)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Join(errUtils.ErrSecretCipher, err)
	}
	return string(plaintext), nil
}
