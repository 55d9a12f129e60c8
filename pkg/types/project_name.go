// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrianoanschau/create-phobos/internal/platform"
)

// ErrInvalidProjectName is the sentinel error wrapped by InvalidProjectNameError.
var ErrInvalidProjectName = errors.New("invalid project name")

type (
	// ProjectName is the positional argument naming the project directory.
	// It is resolved against the working directory, so nested relative paths
	// ("apps/web") are allowed. It must not be empty or whitespace-only,
	// must not start with "-" and no element may be a Windows device name.
	ProjectName string

	// InvalidProjectNameError is returned when a ProjectName is unusable.
	InvalidProjectNameError struct {
		Value  ProjectName
		Reason string
	}
)

// String returns the string representation of the ProjectName.
func (n ProjectName) String() string { return string(n) }

// Validate returns an error describing why the name cannot be used.
func (n ProjectName) Validate() error {
	trimmed := strings.TrimSpace(string(n))
	switch {
	case trimmed == "":
		return &InvalidProjectNameError{Value: n, Reason: "must not be empty"}
	case strings.HasPrefix(trimmed, "-"):
		return &InvalidProjectNameError{Value: n, Reason: "must not start with '-'"}
	}
	if seg := platform.ReservedSegment(trimmed); seg != "" {
		return &InvalidProjectNameError{Value: n, Reason: fmt.Sprintf("%q is a reserved file name on Windows", seg)}
	}
	return nil
}

// Error implements the error interface for InvalidProjectNameError.
func (e *InvalidProjectNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidProjectName for errors.Is() compatibility.
func (e *InvalidProjectNameError) Unwrap() error { return ErrInvalidProjectName }
