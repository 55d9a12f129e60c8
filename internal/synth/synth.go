// SPDX-License-Identifier: MPL-2.0

// Package synth generates the composition sources of a project: the provider
// tree that nests the selected modules' components around the app content,
// and the list of selected modules.
//
// Nesting is decided by each module's declared role, so any ordering of the
// same selection renders byte-identical files.
package synth

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

const (
	// ProviderPath is the generated provider tree.
	ProviderPath = "src/phobos/provider.tsx"
	// ModulesPath is the generated list of selected modules.
	ModulesPath = "src/phobos/modules.ts"

	artifactDir = "src/phobos"
)

//go:embed *.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "*.tmpl"))

// Artifact is a generated file, relative to the project root.
type Artifact struct {
	Path    string
	Content []byte
}

// ReservedPaths lists the files this package owns. Modules must not ship them.
func ReservedPaths() []string {
	return []string{ProviderPath, ModulesPath}
}

// Render renders the artifacts of p. It fails when two different imports
// bind the same identifier.
func Render(p Plan) ([]Artifact, error) {
	imports, err := p.imports()
	if err != nil {
		return nil, err
	}

	provider, err := execute("provider.tsx.tmpl", map[string]any{
		"Imports": imports,
		"Tree":    p.tree(),
	})
	if err != nil {
		return nil, err
	}

	modules, err := execute("modules.ts.tmpl", map[string]any{
		"Modules": p.Modules,
	})
	if err != nil {
		return nil, err
	}

	return []Artifact{
		{Path: ProviderPath, Content: provider},
		{Path: ModulesPath, Content: modules},
	}, nil
}

// Write writes artifacts under root, replacing existing files.
func Write(fsys afero.Fs, root string, artifacts []Artifact) (*report.Report, error) {
	rep := &report.Report{}
	for _, a := range artifacts {
		name := filepath.Join(root, filepath.FromSlash(a.Path))
		if err := fsutil.WriteFileAtomic(fsys, name, a.Content, fsutil.FilePerm); err != nil {
			return rep, fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
		rep.Add(report.Item{Component: report.ComponentSynth, Path: a.Path, Outcome: report.OutcomeGenerated})
	}
	return rep, nil
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// tree returns the JSX lines of the provider tree, indented two spaces per
// level.
func (p Plan) tree() []string {
	indent := func(depth int) string { return strings.Repeat("  ", depth) }

	lines := []string{"<" + ContextComponent + " value={{ modules }}>"}
	for i, w := range p.Wrappers {
		lines = append(lines, indent(i+1)+"<"+w.Component+">")
	}
	lines = append(lines, indent(len(p.Wrappers)+1)+"<"+p.Content.Component+" />")
	for i := len(p.Wrappers) - 1; i >= 0; i-- {
		lines = append(lines, indent(i+1)+"</"+p.Wrappers[i].Component+">")
	}
	return append(lines, "</"+ContextComponent+">")
}

// imports returns the import statements, sorted by specifier after the two
// built-in ones.
func (p Plan) imports() ([]string, error) {
	type spec struct {
		def   string
		named []string
	}
	specs := map[string]*spec{}
	bound := map[string]string{
		"PhobosContext": "./context",
		"modules":       "./modules",
	}

	elements := append(slices.Clone(p.Wrappers), p.Content)
	for _, el := range elements {
		binding, _, _ := strings.Cut(el.Component, ".")
		from := specifier(el.Import)

		if prev, ok := bound[binding]; ok {
			if prev != from {
				return nil, fmt.Errorf("component %s of module %s is imported from both %q and %q", binding, el.Module, prev, from)
			}
			continue
		}
		bound[binding] = from

		s, ok := specs[from]
		if !ok {
			s = &spec{}
			specs[from] = s
		}
		if el.Default {
			s.def = binding
		} else {
			s.named = append(s.named, binding)
		}
	}

	out := []string{
		"import { PhobosContext } from './context';",
		"import { modules } from './modules';",
	}
	froms := make([]string, 0, len(specs))
	for from := range specs {
		froms = append(froms, from)
	}
	slices.Sort(froms)

	for _, from := range froms {
		s := specs[from]
		slices.Sort(s.named)
		var clause []string
		if s.def != "" {
			clause = append(clause, s.def)
		}
		if len(s.named) > 0 {
			clause = append(clause, "{ "+strings.Join(s.named, ", ")+" }")
		}
		out = append(out, fmt.Sprintf("import %s from '%s';", strings.Join(clause, ", "), from))
	}
	return out, nil
}

// specifier turns a project-relative import ("src/router", "./lib/x") into a
// path relative to the artifact directory. Anything else is a package import
// ("react-router-dom", "react-dom/client", "@scope/pkg") and passes through.
func specifier(imp string) string {
	if !strings.HasPrefix(imp, "src/") && !strings.HasPrefix(imp, "./") {
		return imp
	}
	target := path.Clean(strings.TrimPrefix(imp, "./"))
	rel, err := filepath.Rel(artifactDir, filepath.FromSlash(target))
	if err != nil {
		return imp
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}
