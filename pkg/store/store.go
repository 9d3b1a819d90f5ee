// Package store persists the serialized credential registry as an opaque
// blob. The store is injected into the login session; there is no global
// settings singleton.
package store

// SettingsStore is the persistence boundary for the registry blob. Load
// returns nil data when nothing has been persisted yet.
type SettingsStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
}
