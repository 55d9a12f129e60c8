// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/adrianoanschau/create-phobos/internal/issue"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if diff := cmp.Diff([]string{"styled-ui", "react-router"}, cfg.DefaultModules); diff != "" {
		t.Errorf("DefaultModules mismatch (-want +got):\n%s", diff)
	}
	if cfg.PackageManager != PackageManagerAuto {
		t.Errorf("PackageManager = %q, want auto-detect", cfg.PackageManager)
	}
	if !cfg.Install {
		t.Error("Install should default to true")
	}
	if cfg.Injection.Mode != InjectionAppend {
		t.Errorf("Injection.Mode = %q, want %q", cfg.Injection.Mode, InjectionAppend)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want %q", cfg.UI.ColorScheme, ColorSchemeAuto)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig should be valid, got %v", errs)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join("/custom/config", AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dev")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join("/home/dev", ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	got, err := FilePath("/etc/phobos")
	if err != nil {
		t.Fatalf("FilePath() error: %v", err)
	}
	if want := filepath.Join("/etc/phobos", "config.cue"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Resolve(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
package_manager: "yarn"
install: false
injection: mode: "skip_present"
`)

	cfg, resolved, err := NewProvider().Resolve(context.Background(), LoadOptions{ConfigDirPath: filepath.Dir(path)})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.PackageManager != PackageManagerYarn {
		t.Errorf("PackageManager = %q, want yarn", cfg.PackageManager)
	}
	if cfg.Install {
		t.Error("Install should be false")
	}
	if cfg.Injection.Mode != InjectionSkipPresent {
		t.Errorf("Injection.Mode = %q, want skip_present", cfg.Injection.Mode)
	}
	// Keys absent from the file keep their defaults.
	if diff := cmp.Diff([]string{"styled-ui", "react-router"}, cfg.DefaultModules); diff != "" {
		t.Errorf("DefaultModules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CustomPath_Valid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
templates_dir: "/srv/templates"
default_modules: ["vitest"]
ui: {
	color_scheme: "dark"
	verbose: true
}
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TemplatesDir != "/srv/templates" {
		t.Errorf("TemplatesDir = %q", cfg.TemplatesDir)
	}
	if diff := cmp.Diff([]string{"vitest"}, cfg.DefaultModules); diff != "" {
		t.Errorf("DefaultModules mismatch (-want +got):\n%s", diff)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark || !cfg.UI.Verbose {
		t.Errorf("UI = %+v, want dark and verbose", cfg.UI)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Resource != missing {
		t.Errorf("Resource = %q, want %q", ae.Resource, missing)
	}
	if !slices.Contains(ae.Suggestions, "Run 'create-phobos config init' to write a default configuration") {
		t.Errorf("Suggestions = %q, want the create-phobos config init hint", ae.Suggestions)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid syntax", content: `install: {{{`},
		{name: "unknown package manager", content: `package_manager: "bun"`},
		{name: "unknown injection mode", content: `injection: mode: "prepend"`},
		{name: "unknown top-level key", content: `container_engine: "docker"`},
		{name: "wrong type", content: `install: "yes"`},
		{name: "module key with slash", content: `default_modules: ["../evil"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() should reject the config")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Operation != "load configuration" {
				t.Errorf("Operation = %q", ae.Operation)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PHOBOS_INSTALL", "false")
	t.Setenv("PHOBOS_PACKAGE_MANAGER", "pnpm")
	t.Setenv("PHOBOS_INJECTION_MODE", "skip_present")
	t.Setenv("PHOBOS_DEFAULT_MODULES", "vitest,git-hooks")

	path := writeConfig(t, `package_manager: "yarn"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Install {
		t.Error("PHOBOS_INSTALL=false should disable install")
	}
	if cfg.PackageManager != PackageManagerPNPM {
		t.Errorf("PackageManager = %q, environment should win over the file", cfg.PackageManager)
	}
	if cfg.Injection.Mode != InjectionSkipPresent {
		t.Errorf("Injection.Mode = %q", cfg.Injection.Mode)
	}
	if diff := cmp.Diff([]string{"vitest", "git-hooks"}, cfg.DefaultModules); diff != "" {
		t.Errorf("DefaultModules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("PHOBOS_PACKAGE_MANAGER", "bun")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() should reject an invalid environment value")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := &Config{
		TemplatesDir:   "/srv/phobos",
		DefaultModules: []string{"react-router", "vitest"},
		PackageManager: PackageManagerPNPM,
		Install:        false,
		Injection:      InjectionConfig{Mode: InjectionSkipPresent},
		UI: UIConfig{
			ColorScheme: ColorSchemeLight,
			Verbose:     true,
			Accessible:  true,
		},
	}

	path := writeConfig(t, GenerateCUE(want))
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated CUE failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	dir := filepath.Join("home", "user", ".config", "phobos")

	path, written, err := CreateDefaultConfig(fsys, dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if !written {
		t.Fatal("first call should write the file")
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `default_modules: ["styled-ui", "react-router"]`) {
		t.Errorf("generated config missing default modules:\n%s", data)
	}

	if err := afero.WriteFile(fsys, path, []byte("// edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, written, err = CreateDefaultConfig(fsys, dir)
	if err != nil {
		t.Fatalf("second CreateDefaultConfig() error: %v", err)
	}
	if written {
		t.Error("existing config must not be overwritten")
	}
	data, _ = afero.ReadFile(fsys, path)
	if string(data) != "// edited\n" {
		t.Errorf("config was modified: %q", data)
	}
}
