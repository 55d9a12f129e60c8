// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
)

const (
	// RoleNone marks a module that contributes no element to the composition.
	RoleNone Role = "none"
	// RoleContentProvider renders the innermost content (e.g. a router).
	RoleContentProvider Role = "content-provider"
	// RoleContextWrapper wraps the content (e.g. a theme provider).
	RoleContextWrapper Role = "context-wrapper"
	// RoleOuterWrapper wraps every context wrapper.
	RoleOuterWrapper Role = "outer-wrapper"
)

// ErrInvalidRole is the sentinel error wrapped by InvalidRoleError.
var ErrInvalidRole = errors.New("invalid composition role")

type (
	// Role is the structural category a module fills in the generated
	// composition. Nesting precedence is a function of Role alone.
	Role string

	// InvalidRoleError is returned when a Role value is not recognized.
	InvalidRoleError struct {
		Value Role
	}
)

// Error implements the error interface.
func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid composition role %q (valid: content-provider, context-wrapper, outer-wrapper, none)", e.Value)
}

// Unwrap returns ErrInvalidRole for errors.Is() compatibility.
func (e *InvalidRoleError) Unwrap() error { return ErrInvalidRole }

// IsValid returns whether the Role is one of the defined roles. The empty
// string is not valid; use RoleNone.
func (r Role) IsValid() (bool, []error) {
	switch r {
	case RoleNone, RoleContentProvider, RoleContextWrapper, RoleOuterWrapper:
		return true, nil
	default:
		return false, []error{&InvalidRoleError{Value: r}}
	}
}

// Rank orders roles from outermost (0) to innermost. RoleNone ranks last.
func (r Role) Rank() int {
	switch r {
	case RoleOuterWrapper:
		return 0
	case RoleContextWrapper:
		return 1
	case RoleContentProvider:
		return 2
	default:
		return 3
	}
}

// String returns the string representation of the Role.
func (r Role) String() string { return string(r) }
