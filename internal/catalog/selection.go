// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateSelection is the sentinel error wrapped by SelectionError
	// when a key is selected twice.
	ErrDuplicateSelection = errors.New("module selected more than once")

	// ErrUnknownModule is the sentinel error wrapped by SelectionError when a
	// key is not in the catalog.
	ErrUnknownModule = errors.New("unknown module")
)

type (
	// Selection is an ordered list of distinct catalog keys. Order drives
	// display, file overlay and manifest merging; it never affects the
	// generated composition.
	Selection struct {
		keys []string
	}

	// SelectionError names the offending module key.
	SelectionError struct {
		Key string
		Err error
	}
)

// Error implements the error interface.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Key)
}

// Unwrap returns the sentinel error.
func (e *SelectionError) Unwrap() error { return e.Err }

// NewSelection validates keys against cat and keeps their order.
func NewSelection(cat *Catalog, keys []string) (Selection, error) {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return Selection{}, &SelectionError{Key: k, Err: ErrDuplicateSelection}
		}
		if !cat.Has(k) {
			return Selection{}, &SelectionError{Key: k, Err: ErrUnknownModule}
		}
		seen[k] = struct{}{}
	}
	return Selection{keys: slices.Clone(keys)}, nil
}

// SelectAll selects every module of cat in key order.
func SelectAll(cat *Catalog) Selection {
	return Selection{keys: cat.Keys()}
}

// Keys returns the selected keys in selection order.
func (s Selection) Keys() []string { return slices.Clone(s.keys) }

// Len returns the number of selected modules.
func (s Selection) Len() int { return len(s.keys) }

// Has reports whether key is selected.
func (s Selection) Has(key string) bool { return slices.Contains(s.keys, key) }

// Descriptors resolves the selection against cat, in selection order.
func (s Selection) Descriptors(cat *Catalog) []Descriptor {
	out := make([]Descriptor, 0, len(s.keys))
	for _, k := range s.keys {
		if d, ok := cat.Get(k); ok {
			out = append(out, d)
		}
	}
	return out
}
