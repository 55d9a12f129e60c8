// SPDX-License-Identifier: MPL-2.0

// Package templates holds the project skeleton and module catalog bundled
// with the binary, and opens user-provided template directories with the
// same layout.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrianoanschau/create-phobos/internal/issue"

	"github.com/spf13/afero"
)

const (
	// BaseDir holds the skeleton every project starts from.
	BaseDir = "base"
	// ModulesDir holds one directory per optional module.
	ModulesDir = "modules"
)

// ErrInvalidTemplateDir is returned when a template directory lacks base/ or modules/.
var ErrInvalidTemplateDir = errors.New("invalid template directory")

// FS is the bundled template tree. The all: prefix keeps dotfiles such as
// .gitignore and .husky/.
//
//go:embed all:base all:modules
var FS embed.FS

// Embedded returns the bundled template tree as a read-only filesystem.
func Embedded() afero.Fs {
	return afero.FromIOFS{FS: FS}
}

// Open returns the template tree rooted at dir, or the bundled tree when dir
// is empty. The returned filesystem is read-only.
func Open(dir string) (afero.Fs, error) {
	if dir == "" {
		return Embedded(), nil
	}

	for _, sub := range []string{BaseDir, ModulesDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err == nil && info.IsDir() {
			continue
		}
		if err == nil {
			err = fmt.Errorf("%w: %s is not a directory", ErrInvalidTemplateDir, sub)
		} else {
			err = fmt.Errorf("%w: %w", ErrInvalidTemplateDir, err)
		}
		return nil, issue.NewErrorContext().
			WithOperation("open templates").
			WithResource(dir).
			WithSuggestion("A template directory needs a base/ skeleton and a modules/ folder").
			WithSuggestion("Omit --templates to use the bundled templates").
			Wrap(err).
			BuildError()
	}

	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}
