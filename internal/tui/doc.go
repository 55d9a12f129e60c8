// SPDX-License-Identifier: MPL-2.0

// Package tui wraps charmbracelet/huh prompts used by the create command:
// the module multi-select and the project name input.
//
// Prompts fall back to huh's accessible (line based) mode when stdin is not a
// terminal, which keeps them usable from scripts and screen readers.
package tui
