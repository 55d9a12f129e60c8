// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/adrianoanschau/create-phobos/internal/fsutil"

	"github.com/spf13/afero"
)

// WriteTree creates every file in files (slash paths relative to root) on fsys.
func WriteTree(t testing.TB, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := fsys.MkdirAll(filepath.Dir(full), fsutil.DirPerm); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := afero.WriteFile(fsys, full, []byte(content), fsutil.FilePerm); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// NewTree returns an in-memory filesystem holding files.
func NewTree(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	WriteTree(t, fsys, "", files)
	return fsys
}

// Snapshot reads every regular file below root, keyed by slash-relative path.
func Snapshot(t testing.TB, fsys afero.Fs, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := fsutil.WalkFiles(fsys, root, func(rel string) error {
		data, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", root, err)
	}
	return out
}

// MustReadFile returns the content of name.
func MustReadFile(t testing.TB, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// MustReadJSON decodes name as a JSON object.
func MustReadJSON(t testing.TB, fsys afero.Fs, name string) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal([]byte(MustReadFile(t, fsys, name)), &v); err != nil {
		t.Fatalf("%s is not a JSON object: %v", name, err)
	}
	return v
}
