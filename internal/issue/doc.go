// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the offending path or module
// key, and remediation hints. Issue holds longer Markdown guidance for the
// fatal failure classes of project creation, rendered with glamour.
package issue
