// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// MetadataFile is the per-module metadata file name.
const MetadataFile = "phobos.meta.json"

// ErrInvalidComposition is returned when a composition declares a role that
// needs a component but leaves component or import empty.
var ErrInvalidComposition = errors.New("invalid composition")

type (
	// Injection inserts Insert as a new line after the first line that
	// contains After.
	Injection struct {
		After  string `json:"after"`
		Insert string `json:"insert"`
	}

	// Composition declares the element a module contributes to the
	// generated provider tree.
	Composition struct {
		Role Role `json:"role"`
		// Component is the JSX identifier, e.g. "ThemeProvider".
		Component string `json:"component,omitempty"`
		// Import is the module exporting Component: a project path starting
		// with "src/" or "./" (e.g. "src/contexts/ThemeContext"), or a
		// package import such as "react-router-dom" or "react-dom/client".
		Import string `json:"import,omitempty"`
		// Priority orders modules sharing a role; lower is outer.
		Priority int `json:"priority,omitempty"`
	}

	// Descriptor is the fixed-shape description of one module. Maps are
	// never nil.
	Descriptor struct {
		Key         string
		Name        string
		Description string
		// Dir is the module directory inside the template filesystem.
		Dir             string
		Dependencies    map[string]string
		DevDependencies map[string]string
		Scripts         map[string]string
		// Injections maps an output-relative target path to its rule.
		Injections map[string]Injection
		// CopyRules maps a module-relative source to an output-relative
		// destination. Empty means copy everything except metadata.
		CopyRules   map[string]string
		Composition Composition
		PostInstall []string
		NextSteps   []string
		// HasMetadata is false for defaulted and file-only modules.
		HasMetadata bool
	}

	// metaFile mirrors #Meta in meta_schema.cue.
	metaFile struct {
		Name            string               `json:"name"`
		Description     string               `json:"description"`
		Dependencies    map[string]string    `json:"dependencies"`
		DevDependencies map[string]string    `json:"devDependencies"`
		Scripts         map[string]string    `json:"scripts"`
		Injections      map[string]Injection `json:"injections"`
		CopyRules       map[string]string    `json:"copyRules"`
		Composition     *Composition         `json:"composition"`
		PostInstall     []string             `json:"postInstall"`
		NextSteps       []string             `json:"nextSteps"`
	}
)

// IsValid checks that a composition with a rendering role names both its
// component and its import path.
func (c Composition) IsValid() (bool, []error) {
	var errs []error
	if ok, roleErrs := c.Role.IsValid(); !ok {
		errs = append(errs, roleErrs...)
	}
	if c.Role != RoleNone && c.Role != "" {
		if c.Component == "" {
			errs = append(errs, fmt.Errorf("%w: role %s requires a component", ErrInvalidComposition, c.Role))
		}
		if c.Import == "" {
			errs = append(errs, fmt.Errorf("%w: role %s requires an import path", ErrInvalidComposition, c.Role))
		}
	}
	return len(errs) == 0, errs
}

// DefaultDescriptor returns the descriptor used for a module without a
// metadata file.
func DefaultDescriptor(key, dir string) Descriptor {
	return Descriptor{
		Key:             key,
		Name:            key,
		Description:     "Module " + key,
		Dir:             dir,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Scripts:         map[string]string{},
		Injections:      map[string]Injection{},
		CopyRules:       map[string]string{},
		Composition:     Composition{Role: RoleNone},
	}
}

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Dependencies = cloneMap(d.Dependencies)
	c.DevDependencies = cloneMap(d.DevDependencies)
	c.Scripts = cloneMap(d.Scripts)
	c.Injections = cloneMap(d.Injections)
	c.CopyRules = cloneMap(d.CopyRules)
	c.PostInstall = slices.Clone(d.PostInstall)
	c.NextSteps = slices.Clone(d.NextSteps)
	return c
}

// Label is the prompt label, "name - description".
func (d Descriptor) Label() string {
	if d.Description == "" {
		return d.Name
	}
	return d.Name + " - " + d.Description
}

// InjectionTargets returns the injection target paths sorted.
func (d Descriptor) InjectionTargets() []string {
	return slices.Sorted(maps.Keys(d.Injections))
}

// CopySources returns the copy-rule sources sorted.
func (d Descriptor) CopySources() []string {
	return slices.Sorted(maps.Keys(d.CopyRules))
}

func (m *metaFile) toDescriptor(key, dir string) Descriptor {
	d := DefaultDescriptor(key, dir)
	d.HasMetadata = true
	if m.Name != "" {
		d.Name = m.Name
	}
	if m.Description != "" {
		d.Description = m.Description
	}
	maps.Copy(d.Dependencies, m.Dependencies)
	maps.Copy(d.DevDependencies, m.DevDependencies)
	maps.Copy(d.Scripts, m.Scripts)
	maps.Copy(d.Injections, m.Injections)
	maps.Copy(d.CopyRules, m.CopyRules)
	if m.Composition != nil {
		d.Composition = *m.Composition
		if d.Composition.Role == "" {
			d.Composition.Role = RoleNone
		}
	}
	d.PostInstall = slices.Clone(m.PostInstall)
	d.NextSteps = slices.Clone(m.NextSteps)
	return d
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return maps.Clone(m)
}
