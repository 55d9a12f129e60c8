// SPDX-License-Identifier: MPL-2.0

// Package compose runs the composition of a project: base skeleton, module
// files, generated sources, merged manifest and injections, in that order.
//
// Steps run sequentially. Pre-flight checks (the output path is free and the
// base manifest parses) happen before anything is written. A fatal error in a
// later step leaves the partially composed directory in place.
package compose

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/inject"
	"github.com/adrianoanschau/create-phobos/internal/issue"
	"github.com/adrianoanschau/create-phobos/internal/manifest"
	"github.com/adrianoanschau/create-phobos/internal/overlay"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/internal/synth"
)

// DefaultBaseDir is the base skeleton directory inside the template tree.
const DefaultBaseDir = "base"

// ErrProjectExists is returned when the output path already exists.
var ErrProjectExists = errors.New("project directory already exists")

type (
	// Composer composes projects from one catalog and template tree.
	Composer struct {
		cat       *catalog.Catalog
		templates afero.Fs
		out       afero.Fs
		baseDir   string
		mode      inject.Mode
		logger    *log.Logger
	}

	// Option configures a Composer.
	Option func(*Composer)
)

// WithBaseDir sets the base skeleton directory in the template filesystem.
func WithBaseDir(dir string) Option {
	return func(c *Composer) {
		c.baseDir = dir
	}
}

// WithInjectionMode sets how injections already present are handled.
func WithInjectionMode(m inject.Mode) Option {
	return func(c *Composer) {
		c.mode = m
	}
}

// WithLogger sets the logger shared by every step.
func WithLogger(l *log.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}

// New creates a Composer reading modules described by cat from templates and
// writing projects to out.
func New(cat *catalog.Catalog, templates, out afero.Fs, opts ...Option) *Composer {
	c := &Composer{
		cat:       cat,
		templates: templates,
		out:       out,
		baseDir:   DefaultBaseDir,
		mode:      inject.ModeAppend,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose creates projectDir with the base skeleton and the selected modules.
// Recoverable problems are items of the returned report; the error is
// non-nil only for fatal failures.
func (c *Composer) Compose(ctx context.Context, projectDir string, sel catalog.Selection) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := c.preflight(projectDir)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{}
	descs := sel.Descriptors(c.cat)

	c.logger.Info("copying base skeleton", "from", c.baseDir, "to", projectDir)
	ov := overlay.New(c.templates, c.out, overlay.WithReserved(synth.ReservedPaths()...), overlay.WithLogger(c.logger))
	r, err := ov.ApplyBase(c.baseDir, projectDir)
	rep.Merge(r)
	if err != nil {
		return rep, writeError("copy base skeleton", c.baseDir, err)
	}

	for _, d := range descs {
		c.logger.Info("copying module", "module", d.Key)
		r, err := ov.ApplyModule(d, projectDir)
		rep.Merge(r)
		if err != nil {
			return rep, writeError("copy module files", d.Key, err)
		}
	}

	plan := synth.NewPlan(c.cat, sel)
	rep.Merge(plan.Report())
	artifacts, err := synth.Render(plan)
	if err != nil {
		return rep, issue.NewErrorContext().
			WithOperation("generate composition sources").
			WithSuggestion("Check the composition.component and composition.import fields of the selected modules").
			Wrap(err).
			BuildError()
	}
	c.logger.Info("generating composition", "content", plan.Content.Component, "wrappers", len(plan.Wrappers))
	r, err = synth.Write(c.out, projectDir, artifacts)
	rep.Merge(r)
	if err != nil {
		return rep, writeError("write composition sources", projectDir, err)
	}

	c.logger.Info("merging manifest", "modules", len(descs))
	rep.Merge(base.Merge(descs...))
	if _, ok := base.Field("name"); ok {
		if err := base.SetField("name", filepath.Base(projectDir)); err != nil {
			return rep, err
		}
	}
	manifestPath := filepath.Join(projectDir, manifest.FileName)
	if err := base.Save(c.out, manifestPath); err != nil {
		return rep, writeError("write package.json", manifestPath, err)
	}

	inj := inject.New(c.out, inject.WithMode(c.mode), inject.WithLogger(c.logger))
	for _, d := range descs {
		r := inj.ApplyAll(projectDir, d)
		for _, w := range r.Warnings() {
			c.logger.Warn("injection skipped", "module", w.Module, "target", w.Path, "reason", w.Detail)
		}
		rep.Merge(r)
	}

	return rep, nil
}

// preflight checks the output path and parses the base manifest.
func (c *Composer) preflight(projectDir string) (*manifest.Manifest, error) {
	exists, err := fsutil.Exists(c.out, projectDir)
	if err != nil {
		return nil, writeError("inspect project directory", projectDir, err)
	}
	if exists {
		return nil, issue.NewErrorContext().
			WithOperation("create project").
			WithResource(projectDir).
			WithSuggestions(
				"Choose another project name",
				"Remove or rename the existing folder and try again",
			).
			Wrap(ErrProjectExists).
			BuildError()
	}

	basePath := path.Join(c.baseDir, manifest.FileName)
	base, err := manifest.Load(c.templates, basePath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load base manifest").
			WithResource(basePath).
			WithSuggestion("Make sure the base skeleton has a package.json whose top-level value is an object").
			Wrap(err).
			BuildError()
	}
	return base, nil
}

func writeError(op, resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(resource).
		WithSuggestion("Check that you can write to the target directory").
		Wrap(err).
		BuildError()
}
