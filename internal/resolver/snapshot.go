package resolver

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/afero"
)

// MarshalSnapshot renders the registry as pretty-printed JSON keyed by
// resolver name.
func MarshalSnapshot(reg Registry) ([]byte, error) {
	if reg == nil {
		reg = Registry{}
	}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("resolver: marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalSnapshot parses a snapshot produced by MarshalSnapshot. Records
// without a name take the key they are stored under.
func UnmarshalSnapshot(data []byte) (Registry, error) {
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("resolver: unmarshal snapshot: %w", err)
	}
	if reg == nil {
		reg = Registry{}
	}
	for key, rec := range reg {
		if rec.Name == "" {
			rec.Name = key
			reg[key] = rec
		}
	}
	return reg, nil
}

// WriteSnapshot writes the registry snapshot to path on fsys.
func WriteSnapshot(fsys afero.Fs, path string, reg Registry) error {
	data, err := MarshalSnapshot(reg)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("resolver: write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a registry snapshot from path on fsys.
func ReadSnapshot(fsys afero.Fs, path string) (Registry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("resolver: read snapshot %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}

// ChangeKind describes how a resolver differs between two registries.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeStatus  ChangeKind = "status"
)

// Change is one difference reported by Diff.
type Change struct {
	Name string
	Kind ChangeKind
	From Status
	To   Status
}

// Diff compares two registries by name and status. Changes are sorted by
// name.
func Diff(prev, next Registry) []Change {
	var changes []Change
	for name, rec := range next {
		old, ok := prev[name]
		switch {
		case !ok:
			changes = append(changes, Change{Name: name, Kind: ChangeAdded, To: rec.Status})
		case old.Status != rec.Status:
			changes = append(changes, Change{Name: name, Kind: ChangeStatus, From: old.Status, To: rec.Status})
		}
	}
	for name, rec := range prev {
		if _, ok := next[name]; !ok {
			changes = append(changes, Change{Name: name, Kind: ChangeRemoved, From: rec.Status})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes
}
