// SPDX-License-Identifier: MPL-2.0

// Package fsutil holds the afero helpers shared by the composition steps:
// atomic writes and recursive copies between two filesystems.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// DirPerm is the mode used for every directory created in the output tree.
	DirPerm fs.FileMode = 0o755
	// FilePerm is the mode used for files whose source mode is unknown.
	FilePerm fs.FileMode = 0o644
)

// WriteFileAtomic writes data to name through a temporary file in the same
// directory followed by a rename, so readers see either the old content or
// the new one. Missing parent directories are created.
func WriteFileAtomic(fsys afero.Fs, name string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = fsys.Chmod(tmpName, perm)
	}
	if err != nil {
		_ = fsys.Remove(tmpName) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := fsys.Rename(tmpName, name); err != nil {
		_ = fsys.Remove(tmpName) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to rename temp file to %s: %w", name, err)
	}
	return nil
}

// CopyFile copies src (in srcFs) to dst (in dstFs) atomically, keeping the
// permission bits of the source.
func CopyFile(srcFs afero.Fs, src string, dstFs afero.Fs, dst string) error {
	info, err := srcFs.Stat(src)
	if err != nil {
		return err
	}
	data, err := afero.ReadFile(srcFs, src)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if perm == 0 {
		perm = FilePerm
	}
	// Embedded files report read-only modes; the output must stay editable.
	perm |= 0o200
	return WriteFileAtomic(dstFs, dst, data, perm)
}

// WalkFiles calls fn for every regular file below root in fsys, in lexical
// order. rel is the slash-separated path relative to root.
func WalkFiles(fsys afero.Fs, root string, fn func(rel string) error) error {
	return walk(fsys, root, "", fn)
}

func walk(fsys afero.Fs, root, rel string, fn func(rel string) error) error {
	entries, err := afero.ReadDir(fsys, path.Join(root, rel))
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := path.Join(rel, e.Name())
		if e.IsDir() {
			if err := walk(fsys, root, child, fn); err != nil {
				return err
			}
			continue
		}
		if !e.Mode().IsRegular() {
			continue
		}
		if err := fn(child); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether name exists in fsys. Errors other than
// fs.ErrNotExist are returned.
func Exists(fsys afero.Fs, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
