// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// OutcomeApplied means an injection or manifest change was written.
	OutcomeApplied Outcome = "applied"
	// OutcomeCopied means a file was placed in the output tree.
	OutcomeCopied Outcome = "copied"
	// OutcomeGenerated means a composition artifact was written.
	OutcomeGenerated Outcome = "generated"
	// OutcomeSkippedMissingAnchor means the injection anchor was not found.
	OutcomeSkippedMissingAnchor Outcome = "skipped-missing-anchor"
	// OutcomeSkippedMissingSource means a copy-rule source does not exist.
	OutcomeSkippedMissingSource Outcome = "skipped-missing-source"
	// OutcomeSkippedMissingTarget means the injection target file does not exist.
	OutcomeSkippedMissingTarget Outcome = "skipped-missing-target"
	// OutcomeSkippedAlreadyPresent means the inserted text already follows the anchor.
	OutcomeSkippedAlreadyPresent Outcome = "skipped-already-present"
	// OutcomeSkippedReserved means a module tried to place a file at a path
	// owned by the composition synthesizer.
	OutcomeSkippedReserved Outcome = "skipped-reserved"
	// OutcomeSkippedShadowed means a content provider was selected but
	// another one renders the content.
	OutcomeSkippedShadowed Outcome = "skipped-shadowed"
	// OutcomeMetadataInvalid means a module's metadata file could not be used.
	OutcomeMetadataInvalid Outcome = "metadata-invalid"
	// OutcomeFailed means a recoverable operation failed (for example the
	// package manager exited non-zero).
	OutcomeFailed Outcome = "failed"

	ComponentCatalog  Component = "catalog"
	ComponentOverlay  Component = "overlay"
	ComponentManifest Component = "manifest"
	ComponentInject   Component = "inject"
	ComponentSynth    Component = "synth"
	ComponentInstall  Component = "install"
)

type (
	// Outcome classifies the result of one item.
	Outcome string

	// Component names the step that produced an item.
	Component string

	// Item is the outcome of a single unit of work: one copied file, one
	// injection, one metadata file.
	Item struct {
		Component Component
		// Module is the module key, empty for base skeleton and synthesizer items.
		Module string
		// Path is relative to the output root or the catalog root.
		Path    string
		Outcome Outcome
		// Detail is a human-readable explanation, set for warnings.
		Detail string
	}

	// Report is an ordered collection of items. The zero value is ready to use.
	Report struct {
		items []Item
	}
)

// IsWarning reports whether the outcome is a recoverable problem the user
// should see.
func (o Outcome) IsWarning() bool {
	switch o {
	case OutcomeSkippedMissingAnchor, OutcomeSkippedMissingSource, OutcomeSkippedMissingTarget,
		OutcomeSkippedReserved, OutcomeSkippedShadowed, OutcomeMetadataInvalid, OutcomeFailed:
		return true
	default:
		return false
	}
}

// String returns a one-line description naming the module and path.
func (i Item) String() string {
	var b strings.Builder
	b.WriteString(string(i.Component))
	if i.Module != "" {
		fmt.Fprintf(&b, " [%s]", i.Module)
	}
	if i.Path != "" {
		b.WriteString(" ")
		b.WriteString(i.Path)
	}
	b.WriteString(": ")
	b.WriteString(string(i.Outcome))
	if i.Detail != "" {
		b.WriteString(" (")
		b.WriteString(i.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// New returns a report holding the given items.
func New(items ...Item) *Report {
	return &Report{items: slices.Clone(items)}
}

// Add appends items to the report.
func (r *Report) Add(items ...Item) {
	r.items = append(r.items, items...)
}

// Merge appends every item of other. A nil other is a no-op.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// Items returns a copy of all items in insertion order.
func (r *Report) Items() []Item {
	if r == nil {
		return nil
	}
	return slices.Clone(r.items)
}

// Len returns the number of items.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Warnings returns the items whose outcome is a warning.
func (r *Report) Warnings() []Item {
	return r.Filter(func(it Item) bool { return it.Outcome.IsWarning() })
}

// HasWarnings reports whether any item is a warning.
func (r *Report) HasWarnings() bool {
	if r == nil {
		return false
	}
	return slices.ContainsFunc(r.items, func(it Item) bool { return it.Outcome.IsWarning() })
}

// ByOutcome returns the items with the given outcome.
func (r *Report) ByOutcome(o Outcome) []Item {
	return r.Filter(func(it Item) bool { return it.Outcome == o })
}

// ByModule returns the items produced for the given module key.
func (r *Report) ByModule(key string) []Item {
	return r.Filter(func(it Item) bool { return it.Module == key })
}

// Filter returns the items for which keep returns true.
func (r *Report) Filter(keep func(Item) bool) []Item {
	if r == nil {
		return nil
	}
	var out []Item
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
