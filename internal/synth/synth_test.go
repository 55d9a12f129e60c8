// SPDX-License-Identifier: MPL-2.0

package synth

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

func composed(key string, role catalog.Role, component, imp string, priority int) catalog.Descriptor {
	return catalog.Descriptor{
		Key: key,
		Composition: catalog.Composition{
			Role:      role,
			Component: component,
			Import:    imp,
			Priority:  priority,
		},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New("modules",
		composed("react-router", catalog.RoleContentProvider, "AppRouter", "src/router", 0),
		composed("pages", catalog.RoleContentProvider, "Pages", "src/pages", 5),
		composed("theme-dark-light", catalog.RoleContextWrapper, "ThemeProvider", "src/contexts/ThemeContext", 20),
		composed("theme-provider", catalog.RoleContextWrapper, "PhobosThemeProvider", "src/theme/provider", 10),
		composed("styled-ui", catalog.RoleOuterWrapper, "StyledRoot", "src/modules/styled-ui/StyledRoot", 0),
		composed("query", catalog.RoleOuterWrapper, "QueryClientProvider", "@tanstack/react-query", 0),
		composed("vitest", catalog.RoleNone, "", "", 0),
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func render(t *testing.T, cat *catalog.Catalog, keys ...string) map[string]string {
	t.Helper()
	sel, err := catalog.NewSelection(cat, keys)
	if err != nil {
		t.Fatalf("NewSelection() error = %v", err)
	}
	artifacts, err := Render(NewPlan(cat, sel))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := map[string]string{}
	for _, a := range artifacts {
		out[a.Path] = string(a.Content)
	}
	return out
}

func TestRender_SelectionOrderIndependent(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	orders := [][]string{
		{"react-router", "theme-dark-light"},
		{"theme-dark-light", "react-router"},
	}

	first := render(t, cat, orders[0]...)
	second := render(t, cat, orders[1]...)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("artifacts differ by selection order (-first +second):\n%s", diff)
	}

	all := render(t, cat, "vitest", "theme-provider", "styled-ui", "react-router", "theme-dark-light", "query")
	reversed := render(t, cat, "query", "theme-dark-light", "react-router", "styled-ui", "theme-provider", "vitest")
	if diff := cmp.Diff(all, reversed); diff != "" {
		t.Errorf("artifacts differ by selection order (-first +second):\n%s", diff)
	}
}

func TestRender_Provider(t *testing.T) {
	t.Parallel()

	got := render(t, testCatalog(t), "theme-dark-light", "react-router", "styled-ui", "theme-provider")[ProviderPath]

	want := `// Code generated by create-phobos. DO NOT EDIT.
// This file is rewritten every time the project is composed.

import { PhobosContext } from './context';
import { modules } from './modules';
import { ThemeProvider } from '../contexts/ThemeContext';
import { StyledRoot } from '../modules/styled-ui/StyledRoot';
import { AppRouter } from '../router';
import { PhobosThemeProvider } from '../theme/provider';

export const PhobosProvider = () => {
  return (
    <PhobosContext.Provider value={{ modules }}>
      <StyledRoot>
        <PhobosThemeProvider>
          <ThemeProvider>
            <AppRouter />
          </ThemeProvider>
        </PhobosThemeProvider>
      </StyledRoot>
    </PhobosContext.Provider>
  );
};
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("provider mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FallbackContent(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	sel, _ := catalog.NewSelection(cat, []string{"vitest"})
	plan := NewPlan(cat, sel)
	if !plan.IsFallback() {
		t.Error("IsFallback() = false, want true")
	}

	got := render(t, cat, "vitest")[ProviderPath]
	for _, want := range []string{
		"import App from '../App';",
		"    <PhobosContext.Provider value={{ modules }}>\n      <App />\n    </PhobosContext.Provider>\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("provider missing %q:\n%s", want, got)
		}
	}
}

func TestRender_Modules(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)

	got := render(t, cat, "vitest", "react-router")[ModulesPath]
	want := `// Code generated by create-phobos. DO NOT EDIT.

export const modules = [
  'react-router',
  'vitest',
] as const;

export type PhobosModule = (typeof modules)[number];
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("modules.ts mismatch (-want +got):\n%s", diff)
	}

	empty := render(t, cat)[ModulesPath]
	if !strings.Contains(empty, "export const modules = [] as const;\n\nexport type") {
		t.Errorf("empty modules.ts:\n%s", empty)
	}
}

func TestNewPlan_ShadowedContentProvider(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	sel, _ := catalog.NewSelection(cat, []string{"pages", "react-router"})
	plan := NewPlan(cat, sel)

	if plan.Content.Module != "react-router" {
		t.Errorf("Content = %s, want react-router (lowest priority)", plan.Content.Module)
	}
	items := plan.Report().Items()
	if len(items) != 1 || items[0].Module != "pages" || items[0].Outcome != report.OutcomeSkippedShadowed {
		t.Errorf("Report() = %v", items)
	}
}

func TestRender_PackageImport(t *testing.T) {
	t.Parallel()

	got := render(t, testCatalog(t), "query")[ProviderPath]
	if !strings.Contains(got, "import { QueryClientProvider } from '@tanstack/react-query';") {
		t.Errorf("package import not kept verbatim:\n%s", got)
	}
}

func TestRender_BindingConflict(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New("modules",
		composed("a", catalog.RoleContextWrapper, "Provider", "src/a", 0),
		composed("b", catalog.RoleOuterWrapper, "Provider", "src/b", 0),
	)
	if err != nil {
		t.Fatal(err)
	}
	sel := catalog.SelectAll(cat)
	if _, err := Render(NewPlan(cat, sel)); err == nil {
		t.Error("Render() should fail when one identifier is imported from two places")
	}
}

func TestSpecifier(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"src/App":                    "../App",
		"./src/router":               "../router",
		"src/phobos/extra":           "./extra",
		"./lib/shared/Provider":      "../../lib/shared/Provider",
		"react-router-dom":           "react-router-dom",
		"react-dom/client":           "react-dom/client",
		"lodash/fp":                  "lodash/fp",
		"@tanstack/react-query":      "@tanstack/react-query",
		"@mui/material/styles":       "@mui/material/styles",
		"src/contexts/ThemeContext/": "../contexts/ThemeContext",
	}
	for in, want := range tests {
		if got := specifier(in); got != want {
			t.Errorf("specifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "app/"+ProviderPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	artifacts := []Artifact{
		{Path: ProviderPath, Content: []byte("fresh provider")},
		{Path: ModulesPath, Content: []byte("fresh modules")},
	}
	rep, err := Write(fsys, "app", artifacts)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := len(rep.ByOutcome(report.OutcomeGenerated)); got != 2 {
		t.Errorf("generated items = %d, want 2", got)
	}

	for _, a := range artifacts {
		got, err := afero.ReadFile(fsys, "app/"+a.Path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(a.Content) {
			t.Errorf("%s = %q, want %q", a.Path, got, a.Content)
		}
	}
}

func TestReservedPaths(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{ProviderPath, ModulesPath}, ReservedPaths()); diff != "" {
		t.Errorf("ReservedPaths() mismatch (-want +got):\n%s", diff)
	}
}
