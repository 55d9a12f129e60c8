// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr detects the JavaScript package manager to use for a new
// project and runs it through an embedded POSIX shell interpreter.
//
// Installation and post-install commands are best effort: failures come back
// as report items carrying the command to run by hand, never as errors.
package pkgmgr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	NPM  Manager = "npm"
	Yarn Manager = "yarn"
	PNPM Manager = "pnpm"

	// UserAgentEnv is set by npm, yarn and pnpm when they launch a binary
	// (e.g. "pnpm/9.1.0 npm/? node/v20.11.0 linux x64").
	UserAgentEnv = "npm_config_user_agent"
)

// ErrInvalidManager is the sentinel error wrapped by InvalidManagerError.
var ErrInvalidManager = errors.New("invalid package manager")

type (
	// Manager is a supported package manager command.
	Manager string

	// InvalidManagerError is returned when a Manager value is not recognized.
	InvalidManagerError struct {
		Value Manager
	}
)

// lockFiles lists lock files in detection priority order.
var lockFiles = []struct {
	name    string
	manager Manager
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
}

// Error implements the error interface.
func (e *InvalidManagerError) Error() string {
	return fmt.Sprintf("invalid package manager %q (valid: npm, yarn, pnpm)", e.Value)
}

// Unwrap returns ErrInvalidManager for errors.Is() compatibility.
func (e *InvalidManagerError) Unwrap() error { return ErrInvalidManager }

// IsValid returns whether the Manager is supported.
func (m Manager) IsValid() (bool, []error) {
	switch m {
	case NPM, Yarn, PNPM:
		return true, nil
	default:
		return false, []error{&InvalidManagerError{Value: m}}
	}
}

// String returns the command name.
func (m Manager) String() string { return string(m) }

// InstallCommand returns the shell command that installs dependencies.
func (m Manager) InstallCommand() string {
	return string(m) + " install"
}

// RunCommand returns the shell command that runs a package.json script.
func (m Manager) RunCommand(script string) string {
	if m == NPM {
		return "npm run " + script
	}
	return string(m) + " " + script
}

// Detect picks the package manager for a project created in projectDir from
// cwd. The first match wins: a valid override, a lock file in projectDir, a
// lock file in cwd, the user agent of the package manager that launched us,
// then npm. env defaults to os.Getenv when nil.
func Detect(fsys afero.Fs, projectDir, cwd string, env func(string) string, override Manager) Manager {
	if ok, _ := override.IsValid(); ok {
		return override
	}

	for _, dir := range []string{projectDir, cwd} {
		if dir == "" {
			continue
		}
		for _, lf := range lockFiles {
			if _, err := fsys.Stat(filepath.Join(dir, lf.name)); err == nil {
				return lf.manager
			}
		}
	}

	if env == nil {
		env = os.Getenv
	}
	if m := FromUserAgent(env(UserAgentEnv)); m != "" {
		return m
	}
	return NPM
}

// FromUserAgent extracts the manager from an npm_config_user_agent value.
// It returns "" when the agent is empty or not supported.
func FromUserAgent(agent string) Manager {
	name, _, _ := strings.Cut(strings.TrimSpace(agent), "/")
	m := Manager(name)
	if ok, _ := m.IsValid(); ok {
		return m
	}
	return ""
}
