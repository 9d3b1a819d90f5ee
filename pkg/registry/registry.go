package registry

import (
	"fmt"

	errUtils "github.com/mediaops/amsctl/errors"
)

// ImportMode selects how imported entries combine with the existing registry.
type ImportMode string

const (
	// ImportMerge appends imported entries after the existing ones.
	ImportMerge ImportMode = "merge"
	// ImportReplace discards the existing entries first.
	ImportReplace ImportMode = "replace"
)

// Registry is the ordered collection of credential entries. Insertion order
// is display and selection order. Duplicate entries are permitted; no
// uniqueness constraint is enforced.
type Registry struct {
	entries []Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the entries in order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Clone()
	}
	return out
}

// At returns the entry at the given position.
func (r *Registry) At(index int) (Entry, error) {
	if index < 0 || index >= len(r.entries) {
		return Entry{}, fmt.Errorf("%w: %d (registry has %d entries)", errUtils.ErrIndexOutOfRange, index, len(r.entries))
	}
	return r.entries[index].Clone(), nil
}

// Add appends an entry. The only check is well-formedness of the entry
// itself; adding the same account twice is allowed.
func (r *Registry) Add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r.entries = append(r.entries, e.Clone())
	return nil
}

// RemoveAt removes the entry at the given position. The registry is left
// unmodified on an out-of-range index.
func (r *Registry) RemoveAt(index int) error {
	if index < 0 || index >= len(r.entries) {
		return fmt.Errorf("%w: %d (registry has %d entries)", errUtils.ErrIndexOutOfRange, index, len(r.entries))
	}
	r.entries = append(r.entries[:index], r.entries[index+1:]...)
	return nil
}

// ReplaceAt swaps the entry at the given position, typically after a login
// rotated its secrets or corrected account fields.
func (r *Registry) ReplaceAt(index int, e Entry) error {
	if index < 0 || index >= len(r.entries) {
		return fmt.Errorf("%w: %d (registry has %d entries)", errUtils.ErrIndexOutOfRange, index, len(r.entries))
	}
	if err := e.Validate(); err != nil {
		return err
	}
	r.entries[index] = e.Clone()
	return nil
}

// MergeOrReplace applies an imported entry collection. ImportReplace clears
// the registry first; ImportMerge appends without de-duplication.
func (r *Registry) MergeOrReplace(imported []Entry, mode ImportMode) {
	if mode == ImportReplace {
		r.entries = nil
	}
	for _, e := range imported {
		r.entries = append(r.entries, e.Clone())
	}
}
