// SPDX-License-Identifier: MPL-2.0

// Package overlay places base skeleton and module files into the output tree.
//
// The base skeleton is copied in full first. Each module is then applied in
// selection order, so the last module to write a path wins. Every write goes
// through a temp file and a rename; an I/O error aborts the step.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

type (
	// Engine copies files from a template filesystem into an output
	// filesystem.
	Engine struct {
		src      afero.Fs
		dst      afero.Fs
		reserved map[string]struct{}
		logger   *log.Logger
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithReserved marks output-relative paths (slash separated) that modules
// may not write, because a later step generates them.
func WithReserved(paths ...string) Option {
	return func(e *Engine) {
		for _, p := range paths {
			e.reserved[path.Clean(p)] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine reading from src and writing to dst.
func New(src, dst afero.Fs, opts ...Option) *Engine {
	e := &Engine{
		src:      src,
		dst:      dst,
		reserved: make(map[string]struct{}),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyBase copies every file under srcDir to the same relative path under
// dstRoot.
func (e *Engine) ApplyBase(srcDir, dstRoot string) (*report.Report, error) {
	rep := &report.Report{}
	err := fsutil.WalkFiles(e.src, srcDir, func(rel string) error {
		if err := e.copy(path.Join(srcDir, rel), dstRoot, rel); err != nil {
			return err
		}
		rep.Add(report.Item{Component: report.ComponentOverlay, Path: rel, Outcome: report.OutcomeCopied})
		return nil
	})
	if err != nil {
		return rep, fmt.Errorf("failed to copy base skeleton %s: %w", srcDir, err)
	}
	return rep, nil
}

// ApplyModule places the files of desc (read from desc.Dir) under dstRoot.
//
// Without copy rules every file except the metadata file and reserved paths
// is copied to the same relative path. With copy rules each rule is applied
// in sorted source order; a missing source is reported and skipped.
func (e *Engine) ApplyModule(desc catalog.Descriptor, dstRoot string) (*report.Report, error) {
	var (
		rep *report.Report
		err error
	)
	if len(desc.CopyRules) == 0 {
		rep, err = e.copyAll(desc, dstRoot)
	} else {
		rep, err = e.copyRules(desc, dstRoot)
	}
	if err != nil {
		return rep, fmt.Errorf("failed to copy files of module %s: %w", desc.Key, err)
	}
	return rep, nil
}

func (e *Engine) copyAll(desc catalog.Descriptor, dstRoot string) (*report.Report, error) {
	rep := &report.Report{}
	err := fsutil.WalkFiles(e.src, desc.Dir, func(rel string) error {
		if rel == catalog.MetadataFile {
			return nil
		}
		return e.place(desc.Key, path.Join(desc.Dir, rel), dstRoot, rel, rep)
	})
	return rep, err
}

func (e *Engine) copyRules(desc catalog.Descriptor, dstRoot string) (*report.Report, error) {
	rep := &report.Report{}
	for _, source := range desc.CopySources() {
		dest := desc.CopyRules[source]

		if !filepath.IsLocal(source) || !filepath.IsLocal(dest) {
			rep.Add(report.Item{
				Component: report.ComponentOverlay,
				Module:    desc.Key,
				Path:      dest,
				Outcome:   report.OutcomeFailed,
				Detail:    fmt.Sprintf("copy rule %s -> %s leaves the module or project directory", source, dest),
			})
			continue
		}

		srcPath := path.Join(desc.Dir, source)
		info, err := e.src.Stat(srcPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return rep, err
		}
		if err != nil {
			e.logger.Warn("copy rule source not found", "module", desc.Key, "source", source)
			rep.Add(report.Item{
				Component: report.ComponentOverlay,
				Module:    desc.Key,
				Path:      source,
				Outcome:   report.OutcomeSkippedMissingSource,
				Detail:    "source " + srcPath + " does not exist",
			})
			continue
		}

		if !info.IsDir() {
			if err := e.place(desc.Key, srcPath, dstRoot, dest, rep); err != nil {
				return rep, err
			}
			continue
		}

		err = fsutil.WalkFiles(e.src, srcPath, func(rel string) error {
			return e.place(desc.Key, path.Join(srcPath, rel), dstRoot, path.Join(dest, rel), rep)
		})
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// place copies one file unless its destination is reserved or is an
// existing directory.
func (e *Engine) place(key, srcPath, dstRoot, rel string, rep *report.Report) error {
	if e.isReserved(rel) {
		rep.Add(reservedItem(key, rel))
		return nil
	}
	dst := filepath.Join(dstRoot, filepath.FromSlash(rel))
	info, err := e.dst.Stat(dst)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err == nil && info.IsDir() {
		e.logger.Warn("copy destination is a directory", "module", key, "path", rel)
		rep.Add(report.Item{
			Component: report.ComponentOverlay,
			Module:    key,
			Path:      rel,
			Outcome:   report.OutcomeFailed,
			Detail:    "destination " + dst + " is a directory",
		})
		return nil
	}
	if err := e.copy(srcPath, dstRoot, rel); err != nil {
		return err
	}
	rep.Add(copiedItem(key, rel))
	return nil
}

func (e *Engine) copy(srcPath, dstRoot, rel string) error {
	dst := filepath.Join(dstRoot, filepath.FromSlash(rel))
	e.logger.Debug("copy", "from", srcPath, "to", dst)
	return fsutil.CopyFile(e.src, srcPath, e.dst, dst)
}

func (e *Engine) isReserved(rel string) bool {
	_, ok := e.reserved[path.Clean(filepath.ToSlash(rel))]
	return ok
}

func copiedItem(key, rel string) report.Item {
	return report.Item{Component: report.ComponentOverlay, Module: key, Path: rel, Outcome: report.OutcomeCopied}
}

func reservedItem(key, rel string) report.Item {
	return report.Item{
		Component: report.ComponentOverlay,
		Module:    key,
		Path:      rel,
		Outcome:   report.OutcomeSkippedReserved,
		Detail:    "path is generated by the composition step",
	}
}
