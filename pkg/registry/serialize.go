package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	errUtils "github.com/mediaops/amsctl/errors"
)

// Redaction controls which secret fields survive serialization. The clear
// secret never survives under any mode; redaction is applied by projection
// before any bytes are produced.
type Redaction int

const (
	// PersistAll keeps the encrypted secret; used for the settings blob.
	PersistAll Redaction = iota
	// ExportWithSecret keeps the encrypted secret in an export file.
	ExportWithSecret
	// ExportWithoutSecret drops the encrypted secret as well.
	ExportWithoutSecret
)

// document is the persisted/export schema. The top-level key matches the
// registry the original client persisted.
type document struct {
	MediaServicesAccounts []Entry `json:"mediaServicesAccounts"`
}

// project returns a copy of the entry with secret fields removed per the
// redaction mode. The clear secret is excluded structurally (json:"-"), so
// the serialization buffer never contains it.
func project(e Entry, mode Redaction) Entry {
	out := e.Clone()
	if out.ServicePrincipal != nil {
		out.ServicePrincipal.ClearSecret = ""
		if mode == ExportWithoutSecret {
			out.ServicePrincipal.EncryptedSecret = ""
		}
	}
	return out
}

// Serialize produces the textual representation of the whole registry under
// the given redaction mode.
func (r *Registry) Serialize(mode Redaction) ([]byte, error) {
	return marshalEntries(r.entries, mode)
}

// ExportSubset serializes only the entries at the given positions, in the
// given order, for single-entry export.
func (r *Registry) ExportSubset(indices []int, mode Redaction) ([]byte, error) {
	subset := make([]Entry, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(r.entries) {
			return nil, fmt.Errorf("%w: %d (registry has %d entries)", errUtils.ErrIndexOutOfRange, i, len(r.entries))
		}
		subset = append(subset, r.entries[i])
	}
	return marshalEntries(subset, mode)
}

func marshalEntries(entries []Entry, mode Redaction) ([]byte, error) {
	doc := document{MediaServicesAccounts: make([]Entry, len(entries))}
	for i, e := range entries {
		doc.MediaServicesAccounts[i] = project(e, mode)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize registry: %w", err)
	}
	return data, nil
}

// Deserialize parses a serialized registry. It fails on parse errors, unknown
// fields and entries that violate the entry invariant; the returned registry
// is never partially populated.
func Deserialize(data []byte) (*Registry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrMalformedInput, err)
	}

	for i, e := range doc.MediaServicesAccounts {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", errUtils.ErrMalformedInput, i, err)
		}
	}

	r := New()
	r.MergeOrReplace(doc.MediaServicesAccounts, ImportReplace)
	return r, nil
}
