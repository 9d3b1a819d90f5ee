// Package session drives the login lifecycle: it binds the registry, the
// settings store and the authentication broker together and tracks where a
// login attempt is in its state machine.
package session

import (
	"context"
	"errors"
	"fmt"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/auth"
	log "github.com/mediaops/amsctl/pkg/logger"
	"github.com/mediaops/amsctl/pkg/registry"
	"github.com/mediaops/amsctl/pkg/secrets"
	"github.com/mediaops/amsctl/pkg/store"
)

// State is the observable phase of the most recent login attempt.
type State string

const (
	StateIdle               State = "idle"
	StateAuthenticating     State = "authenticating"
	StateAuthenticated      State = "authenticated"
	StateRefreshingMetadata State = "refreshingMetadata"
	StateConnected          State = "connected"
	// StatePartiallyConnected means authentication succeeded but the
	// dependent-metadata refresh did not. The client handle is usable.
	StatePartiallyConnected State = "partiallyConnected"
	StateFailed             State = "failed"
)

// Authenticator is the broker surface the session consumes. *auth.Broker
// implements it.
type Authenticator interface {
	ConnectAndGetClient(ctx context.Context, entry registry.Entry) (auth.MediaClient, registry.Entry, error)
	RefreshDependentMetadata(ctx context.Context, client auth.MediaClient, entry *registry.Entry) error
}

var _ Authenticator = (*auth.Broker)(nil)

// Session owns the in-memory registry and keeps the persisted blob in sync
// with every mutation.
type Session struct {
	registry *registry.Registry
	store    store.SettingsStore
	broker   Authenticator
	cipher   secrets.Cipher
	state    State
}

// New loads the persisted registry from the store and returns a session over
// it. A store with no persisted blob yields an empty registry.
func New(st store.SettingsStore, broker Authenticator, cipher secrets.Cipher) (*Session, error) {
	data, err := st.Load()
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	if len(data) > 0 {
		reg, err = registry.Deserialize(data)
		if err != nil {
			return nil, err
		}
	}

	return &Session{
		registry: reg,
		store:    st,
		broker:   broker,
		cipher:   cipher,
		state:    StateIdle,
	}, nil
}

// State returns the phase of the most recent login attempt.
func (s *Session) State() State {
	return s.state
}

// Len returns the number of registry entries.
func (s *Session) Len() int {
	return s.registry.Len()
}

// Entries returns a copy of the registry entries in display order.
func (s *Session) Entries() []registry.Entry {
	return s.registry.Entries()
}

// At returns the entry at the given position.
func (s *Session) At(index int) (registry.Entry, error) {
	return s.registry.At(index)
}

// Login authenticates the entry at the given position and returns a connected
// management client with the (possibly updated) entry. On success the entry
// is persisted with any rotated secrets; the metadata refresh then runs and
// its failure downgrades the state to PartiallyConnected without failing the
// login. On authentication failure nothing is persisted.
func (s *Session) Login(ctx context.Context, index int) (auth.MediaClient, registry.Entry, error) {
	entry, err := s.registry.At(index)
	if err != nil {
		return nil, registry.Entry{}, fmt.Errorf("%w: %w", errUtils.ErrNoEntrySelected, err)
	}

	s.state = StateAuthenticating
	log.Debug("Authenticating", "account", entry.AccountName, "authMode", entry.AuthMode)

	client, updated, err := s.broker.ConnectAndGetClient(ctx, entry)
	if err != nil {
		s.state = StateFailed
		return nil, registry.Entry{}, err
	}

	s.state = StateAuthenticated
	if err := s.replaceAndPersist(index, updated); err != nil {
		s.state = StateFailed
		return nil, registry.Entry{}, err
	}

	s.state = StateRefreshingMetadata
	if err := s.broker.RefreshDependentMetadata(ctx, client, &updated); err != nil {
		log.Warn("Connected, but refreshing account metadata failed; storage associations may be stale",
			"account", updated.AccountName, "error", err)
		s.state = StatePartiallyConnected
		return client, updated, nil
	}

	if err := s.replaceAndPersist(index, updated); err != nil {
		log.Warn("Connected, but persisting refreshed metadata failed",
			"account", updated.AccountName, "error", err)
		s.state = StatePartiallyConnected
		return client, updated, nil
	}

	s.state = StateConnected
	return client, updated, nil
}

// Add validates and appends an entry, then persists the registry.
func (s *Session) Add(entry registry.Entry) error {
	if err := s.registry.Add(entry); err != nil {
		return err
	}
	return s.persist()
}

// AddFromCLICredential parses the CLI JSON document, encrypts its secret and
// appends the resulting service principal entry. The clear secret never
// reaches the store.
func (s *Session) AddFromCLICredential(data []byte) (registry.Entry, error) {
	cred, err := registry.ParseCLICredential(data)
	if err != nil {
		return registry.Entry{}, err
	}
	entry, err := cred.Entry()
	if err != nil {
		return registry.Entry{}, err
	}

	enc, err := s.cipher.Encrypt(entry.ServicePrincipal.ClearSecret)
	if err != nil {
		return registry.Entry{}, err
	}
	entry.ServicePrincipal.EncryptedSecret = enc
	entry.ServicePrincipal.ClearSecret = ""

	if err := s.registry.Add(entry); err != nil {
		return registry.Entry{}, err
	}
	if err := s.persist(); err != nil {
		return registry.Entry{}, err
	}
	return entry, nil
}

// ImportFrom merges or replaces the registry with a previously exported
// document. A malformed document leaves the registry untouched.
func (s *Session) ImportFrom(data []byte, mode registry.ImportMode) error {
	imported, err := registry.Deserialize(data)
	if err != nil {
		return err
	}
	s.registry.MergeOrReplace(imported.Entries(), mode)
	return s.persist()
}

// ExportAll serializes the whole registry under the given redaction mode.
func (s *Session) ExportAll(mode registry.Redaction) ([]byte, error) {
	return s.registry.Serialize(mode)
}

// ExportEntry serializes the single entry at the given position.
func (s *Session) ExportEntry(index int, mode registry.Redaction) ([]byte, error) {
	return s.registry.ExportSubset([]int{index}, mode)
}

// RemoveAt removes the entry at the given position and persists.
func (s *Session) RemoveAt(index int) error {
	if err := s.registry.RemoveAt(index); err != nil {
		return err
	}
	return s.persist()
}

// SetDescription updates an entry's display description and persists.
func (s *Session) SetDescription(index int, description string) error {
	entry, err := s.registry.At(index)
	if err != nil {
		return err
	}
	entry.Description = description
	return s.replaceAndPersist(index, entry)
}

func (s *Session) replaceAndPersist(index int, entry registry.Entry) error {
	if err := s.registry.ReplaceAt(index, entry); err != nil {
		return err
	}
	return s.persist()
}

func (s *Session) persist() error {
	data, err := s.registry.Serialize(registry.PersistAll)
	if err != nil {
		return errors.Join(errUtils.ErrSettingsStore, err)
	}
	return s.store.Save(data)
}
