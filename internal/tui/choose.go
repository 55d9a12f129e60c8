// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/huh"

// Option represents a selectable option with a display title and value.
type Option[T comparable] struct {
	Title string
	Value T
	// Selected pre-checks the option.
	Selected bool
}

// MultiChooseOptions configures the MultiChoose component.
type MultiChooseOptions[T comparable] struct {
	Title       string
	Description string
	Options     []Option[T]
	// Limit is the maximum number of selections (0 for no limit).
	Limit int
	// Height limits the number of visible options (0 for auto).
	Height int
	Config Config
}

// MultiChoose prompts the user to select any number of options.
// Returns the selected values in option order, or ErrAborted.
func MultiChoose[T comparable](opts MultiChooseOptions[T]) ([]T, error) {
	result := preselected(opts.Options)

	sel := huh.NewMultiSelect[T]().
		Title(opts.Title).
		Description(opts.Description).
		Options(huhOptions(opts.Options)...).
		Value(&result)
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.Height > 0 {
		sel = sel.Height(opts.Height)
	}

	if err := runForm(newForm(opts.Config, sel)); err != nil {
		return nil, err
	}
	return result, nil
}

func huhOptions[T comparable](options []Option[T]) []huh.Option[T] {
	out := make([]huh.Option[T], len(options))
	for i, opt := range options {
		out[i] = huh.NewOption(opt.Title, opt.Value).Selected(opt.Selected)
	}
	return out
}

func preselected[T comparable](options []Option[T]) []T {
	var values []T
	for _, opt := range options {
		if opt.Selected {
			values = append(values, opt.Value)
		}
	}
	return values
}
