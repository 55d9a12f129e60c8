// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PackageManagerAuto detects the package manager from lockfiles.
	PackageManagerAuto PackageManager = ""
	// PackageManagerNPM forces npm.
	// Defined locally to avoid coupling config to internal/pkgmgr.
	PackageManagerNPM PackageManager = "npm"
	// PackageManagerYarn forces yarn.
	PackageManagerYarn PackageManager = "yarn"
	// PackageManagerPNPM forces pnpm.
	PackageManagerPNPM PackageManager = "pnpm"

	// InjectionAppend inserts the snippet after the anchor on every run.
	InjectionAppend InjectionMode = "append"
	// InjectionSkipPresent skips files that already carry the snippet after the anchor.
	InjectionSkipPresent InjectionMode = "skip_present"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidPackageManager is returned when a PackageManager value is not recognized.
	ErrInvalidPackageManager = errors.New("invalid package manager")
	// ErrInvalidInjectionMode is returned when an InjectionMode value is not recognized.
	ErrInvalidInjectionMode = errors.New("invalid injection mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidModuleKey is returned when a default module key is blank or a path.
	ErrInvalidModuleKey = errors.New("invalid module key")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// PackageManager names the tool used for the install step.
	// The orchestrator casts to pkgmgr.Manager at the boundary.
	PackageManager string

	// InvalidPackageManagerError is returned when a PackageManager value is not recognized.
	// It wraps ErrInvalidPackageManager for errors.Is() compatibility.
	InvalidPackageManagerError struct {
		Value PackageManager
	}

	// InjectionMode controls how repeated injections are handled.
	InjectionMode string

	// InvalidInjectionModeError is returned when an InjectionMode value is not recognized.
	InvalidInjectionModeError struct {
		Value InjectionMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidModuleKeyError is returned for a malformed entry in default_modules.
	InvalidModuleKeyError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InjectionConfig configures the snippet injector.
	InjectionConfig struct {
		Mode InjectionMode `json:"mode" mapstructure:"mode"`
	}

	// UIConfig configures terminal output and prompts.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		// Accessible renders prompts in huh's screen-reader friendly mode.
		Accessible bool `json:"accessible" mapstructure:"accessible"`
	}

	// Config holds the application configuration.
	Config struct {
		TemplatesDir   string          `json:"templates_dir" mapstructure:"templates_dir"`
		DefaultModules []string        `json:"default_modules" mapstructure:"default_modules"`
		PackageManager PackageManager  `json:"package_manager" mapstructure:"package_manager"`
		Install        bool            `json:"install" mapstructure:"install"`
		Injection      InjectionConfig `json:"injection" mapstructure:"injection"`
		UI             UIConfig        `json:"ui" mapstructure:"ui"`
	}
)

// String returns the string representation of the PackageManager.
func (p PackageManager) String() string { return string(p) }

// IsValid returns whether the PackageManager is one of the defined managers.
// The empty value means auto-detection and is valid.
func (p PackageManager) IsValid() (bool, []error) {
	switch p {
	case PackageManagerAuto, PackageManagerNPM, PackageManagerYarn, PackageManagerPNPM:
		return true, nil
	default:
		return false, []error{&InvalidPackageManagerError{Value: p}}
	}
}

// Error implements the error interface.
func (e *InvalidPackageManagerError) Error() string {
	return fmt.Sprintf("invalid package manager %q (valid: npm, yarn, pnpm, or empty for auto)", e.Value)
}

// Unwrap returns ErrInvalidPackageManager for errors.Is() compatibility.
func (e *InvalidPackageManagerError) Unwrap() error { return ErrInvalidPackageManager }

// String returns the string representation of the InjectionMode.
func (m InjectionMode) String() string { return string(m) }

// IsValid returns whether the InjectionMode is one of the defined modes.
func (m InjectionMode) IsValid() (bool, []error) {
	switch m {
	case InjectionAppend, InjectionSkipPresent:
		return true, nil
	default:
		return false, []error{&InvalidInjectionModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidInjectionModeError) Error() string {
	return fmt.Sprintf("invalid injection mode %q (valid: append, skip_present)", e.Value)
}

// Unwrap returns ErrInvalidInjectionMode for errors.Is() compatibility.
func (e *InvalidInjectionModeError) Unwrap() error { return ErrInvalidInjectionMode }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidModuleKeyError) Error() string {
	return fmt.Sprintf("invalid module key %q in default_modules", e.Value)
}

// Unwrap returns ErrInvalidModuleKey for errors.Is() compatibility.
func (e *InvalidModuleKeyError) Unwrap() error { return ErrInvalidModuleKey }

// IsValid returns whether every field of the Config holds an accepted value.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, key := range c.DefaultModules {
		if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) {
			errs = append(errs, &InvalidModuleKeyError{Value: key})
		}
	}
	if valid, fieldErrs := c.PackageManager.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Injection.Mode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		TemplatesDir:   "",
		DefaultModules: []string{"styled-ui", "react-router"},
		PackageManager: PackageManagerAuto,
		Install:        true,
		Injection: InjectionConfig{
			Mode: InjectionAppend,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
