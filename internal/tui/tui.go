// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for TUI components.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// ErrAborted is returned when the user cancels a prompt (ctrl+c or esc).
var ErrAborted = errors.New("prompt aborted")

// Config holds common configuration for TUI components.
type Config struct {
	Theme Theme
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// Input is where answers are read from. Nil means stdin.
	Input io.Reader
	// Output is where prompts are written. Nil means stdout, or stderr
	// in accessible mode.
	Output io.Writer
}

// DefaultConfig returns the configuration for prompts on the current
// terminal. Accessible mode is enabled when stdin is not a terminal or the
// ACCESSIBLE environment variable is set.
func DefaultConfig() Config {
	return Config{
		Theme:      ThemeCharm,
		Accessible: !isInputTerminal() || os.Getenv("ACCESSIBLE") != "",
	}
}

func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// shouldUseAccessible reports whether prompts must run in accessible mode.
// A missing terminal forces it regardless of cfg.
func shouldUseAccessible(cfg Config) bool {
	return cfg.Accessible || (cfg.Input == nil && !isInputTerminal())
}

// outputWriter keeps prompts off stdout in accessible mode so they are not
// captured by command substitution.
func outputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	if shouldUseAccessible(cfg) {
		return os.Stderr
	}
	return os.Stdout
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

func newForm(cfg Config, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huhTheme(cfg.Theme)).
		WithAccessible(shouldUseAccessible(cfg)).
		WithOutput(outputWriter(cfg))
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	return form
}

func runForm(form *huh.Form) error {
	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
