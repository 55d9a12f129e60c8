// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// InputOptions configures the Input component.
type InputOptions struct {
	Title       string
	Description string
	Placeholder string
	// Value pre-fills the field.
	Value string
	// Validate rejects an answer with a message shown under the field.
	Validate func(string) error
	Config   Config
}

// Input prompts for a single line of text. The answer is trimmed.
func Input(opts InputOptions) (string, error) {
	value := opts.Value

	field := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&value)
	if opts.Validate != nil {
		validate := opts.Validate
		field = field.Validate(func(s string) error {
			return validate(strings.TrimSpace(s))
		})
	}

	if err := runForm(newForm(opts.Config, field)); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
