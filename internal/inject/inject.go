// SPDX-License-Identifier: MPL-2.0

// Package inject inserts module-declared lines into files of the output tree.
//
// A rule names an anchor substring and the text to insert. The text becomes a
// new line right after the first line containing the anchor. A missing target
// file or anchor is reported and leaves the file untouched; injection never
// aborts composition.
package inject

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

const (
	// ModeAppend inserts the text on every run, even if an earlier run
	// already inserted it.
	ModeAppend Mode = "append"
	// ModeSkipPresent skips a rule when the lines right after the anchor
	// already equal the inserted text.
	ModeSkipPresent Mode = "skip_present"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid injection mode")

type (
	// Mode selects how an already applied injection is treated.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}

	// Injector applies injection rules inside one filesystem.
	Injector struct {
		fsys   afero.Fs
		mode   Mode
		logger *log.Logger
	}

	// Option configures an Injector.
	Option func(*Injector)
)

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid injection mode %q (valid: append, skip_present)", e.Value)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// IsValid returns whether the Mode is one of the defined modes.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeAppend, ModeSkipPresent:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// WithMode sets the injection mode. The default is ModeAppend.
func WithMode(m Mode) Option {
	return func(i *Injector) {
		i.mode = m
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(i *Injector) {
		i.logger = l
	}
}

// New creates an Injector operating on fsys.
func New(fsys afero.Fs, opts ...Option) *Injector {
	i := &Injector{fsys: fsys, mode: ModeAppend, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ApplyAll applies every injection rule of desc, in sorted target order.
func (i *Injector) ApplyAll(root string, desc catalog.Descriptor) *report.Report {
	rep := &report.Report{}
	for _, target := range desc.InjectionTargets() {
		item := i.Apply(root, target, desc.Injections[target])
		item.Module = desc.Key
		rep.Add(item)
	}
	return rep
}

// Apply applies one rule to target (relative to root). The returned item
// never has an empty Outcome.
func (i *Injector) Apply(root, target string, rule catalog.Injection) report.Item {
	item := report.Item{Component: report.ComponentInject, Path: target}

	if !filepath.IsLocal(target) {
		item.Outcome = report.OutcomeFailed
		item.Detail = "target leaves the project directory"
		return item
	}
	name := filepath.Join(root, filepath.FromSlash(target))

	data, err := afero.ReadFile(i.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		item.Outcome = report.OutcomeSkippedMissingTarget
		item.Detail = "target file does not exist"
		return item
	}
	if err != nil {
		item.Outcome = report.OutcomeFailed
		item.Detail = err.Error()
		return item
	}

	out, outcome := Insert(string(data), rule, i.mode)
	item.Outcome = outcome
	switch outcome {
	case report.OutcomeSkippedMissingAnchor:
		item.Detail = fmt.Sprintf("anchor %q not found", rule.After)
		return item
	case report.OutcomeSkippedAlreadyPresent:
		return item
	}

	perm := fsutil.FilePerm
	if info, err := i.fsys.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsutil.WriteFileAtomic(i.fsys, name, []byte(out), perm); err != nil {
		item.Outcome = report.OutcomeFailed
		item.Detail = err.Error()
		return item
	}
	i.logger.Debug("injected", "target", target, "anchor", rule.After)
	return item
}

// Insert returns content with rule applied and the outcome. Lines are split
// on "\n"; the line separator of every other line is left as is.
func Insert(content string, rule catalog.Injection, mode Mode) (string, report.Outcome) {
	lines := strings.Split(content, "\n")

	idx := slices.IndexFunc(lines, func(line string) bool {
		return strings.Contains(line, rule.After)
	})
	if idx < 0 {
		return content, report.OutcomeSkippedMissingAnchor
	}

	inserted := strings.Split(rule.Insert, "\n")
	if mode == ModeSkipPresent && hasPrefixLines(lines[idx+1:], inserted) {
		return content, report.OutcomeSkippedAlreadyPresent
	}

	out := slices.Insert(lines, idx+1, rule.Insert)
	return strings.Join(out, "\n"), report.OutcomeApplied
}

func hasPrefixLines(lines, prefix []string) bool {
	if len(prefix) > len(lines) {
		return false
	}
	for n, p := range prefix {
		if strings.TrimRight(lines[n], "\r") != p {
			return false
		}
	}
	return true
}
