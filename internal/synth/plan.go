// SPDX-License-Identifier: MPL-2.0

package synth

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

const (
	// ContextComponent is the application context that wraps every composition.
	ContextComponent = "PhobosContext.Provider"

	fallbackComponent = "App"
	fallbackImport    = "src/App"
)

type (
	// Element is one component of the generated tree.
	Element struct {
		Module    string
		Role      catalog.Role
		Component string
		// Import is a project path ("src/router") or a package import.
		Import   string
		Priority int
		// Default marks a default export.
		Default bool
	}

	// Plan is the role-ordered composition for a selection. It depends only
	// on the set of selected modules, never on their order.
	Plan struct {
		// Modules holds the selected keys sorted.
		Modules []string
		// Wrappers are outermost first: outer wrappers, then context wrappers.
		Wrappers []Element
		Content  Element
		// Shadowed are content providers that lost to Content.
		Shadowed []Element
	}
)

// NewPlan builds the composition plan for sel.
func NewPlan(cat *catalog.Catalog, sel catalog.Selection) Plan {
	p := Plan{Modules: slices.Sorted(slices.Values(sel.Keys()))}

	var contents []Element
	for _, key := range p.Modules {
		d, ok := cat.Get(key)
		if !ok {
			continue
		}
		c := d.Composition
		el := Element{Module: key, Role: c.Role, Component: c.Component, Import: c.Import, Priority: c.Priority}
		switch c.Role {
		case catalog.RoleOuterWrapper, catalog.RoleContextWrapper:
			p.Wrappers = append(p.Wrappers, el)
		case catalog.RoleContentProvider:
			contents = append(contents, el)
		}
	}

	slices.SortStableFunc(p.Wrappers, compareElements)
	slices.SortStableFunc(contents, compareElements)

	if len(contents) == 0 {
		p.Content = Element{
			Role:      catalog.RoleContentProvider,
			Component: fallbackComponent,
			Import:    fallbackImport,
			Default:   true,
		}
	} else {
		p.Content = contents[0]
		p.Shadowed = contents[1:]
	}
	return p
}

// IsFallback reports whether no selected module provides the content.
func (p Plan) IsFallback() bool {
	return p.Content.Module == ""
}

// Report returns one warning per shadowed content provider.
func (p Plan) Report() *report.Report {
	rep := &report.Report{}
	for _, el := range p.Shadowed {
		rep.Add(report.Item{
			Component: report.ComponentSynth,
			Module:    el.Module,
			Path:      ProviderPath,
			Outcome:   report.OutcomeSkippedShadowed,
			Detail:    fmt.Sprintf("content is provided by %s; only one content provider is rendered", p.Content.Module),
		})
	}
	return rep
}

// compareElements orders by role rank (outermost first), priority, then key.
func compareElements(a, b Element) int {
	return cmp.Or(
		cmp.Compare(a.Role.Rank(), b.Role.Rank()),
		cmp.Compare(a.Priority, b.Priority),
		cmp.Compare(a.Module, b.Module),
	)
}
