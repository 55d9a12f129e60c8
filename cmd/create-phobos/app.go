// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/config"
	"github.com/adrianoanschau/create-phobos/internal/pkgmgr"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and reaches
	// configuration, prompts, the filesystem and the package manager through it.
	App struct {
		Config   ConfigProvider
		Prompter Prompter
		// FS is where projects are written and where lock files are looked up.
		FS     afero.Fs
		Getwd  func() (string, error)
		Getenv func(string) string

		installer func(*log.Logger) Installer
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Prompter  Prompter
		Installer Installer
		FS        afero.Fs
		Getwd     func() (string, error)
		Getenv    func(string) string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// Prompter asks the user for the inputs missing from the command line.
	Prompter interface {
		ProjectName(cfg tui.Config, validate func(string) error) (string, error)
		Modules(cfg tui.Config, options []tui.Option[string]) ([]string, error)
	}

	// Installer runs the package manager inside a created project.
	Installer interface {
		Install(ctx context.Context, dir string, m pkgmgr.Manager) report.Item
		PostInstall(ctx context.Context, dir string, descs ...catalog.Descriptor) *report.Report
	}

	// tuiPrompter implements Prompter with huh forms.
	tuiPrompter struct{}
)

// NewApp creates a new App with production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Prompter: deps.Prompter,
		FS:       deps.FS,
		Getwd:    deps.Getwd,
		Getenv:   deps.Getenv,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}

	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Prompter == nil {
		app.Prompter = tuiPrompter{}
	}
	if app.FS == nil {
		app.FS = afero.NewOsFs()
	}
	if app.Getwd == nil {
		app.Getwd = os.Getwd
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}

	if deps.Installer != nil {
		app.installer = func(*log.Logger) Installer { return deps.Installer }
	} else {
		app.installer = func(logger *log.Logger) Installer {
			// Package manager output goes to stderr so stdout only carries the summary.
			return pkgmgr.NewRunner(
				pkgmgr.WithStdIO(os.Stdin, app.stderr, app.stderr),
				pkgmgr.WithLogger(logger),
			)
		}
	}

	return app
}

// ProjectName prompts for the project directory name.
func (tuiPrompter) ProjectName(cfg tui.Config, validate func(string) error) (string, error) {
	return tui.Input(tui.InputOptions{
		Title:       "Project name",
		Description: "The folder that will be created in the current directory",
		Placeholder: "my-app",
		Validate:    validate,
		Config:      cfg,
	})
}

// Modules prompts for the modules to include.
func (tuiPrompter) Modules(cfg tui.Config, options []tui.Option[string]) ([]string, error) {
	return tui.MultiChoose(tui.MultiChooseOptions[string]{
		Title:       "Modules",
		Description: "Space toggles a module, enter confirms",
		Options:     options,
		Config:      cfg,
	})
}
