// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/compose"
	"github.com/adrianoanschau/create-phobos/internal/config"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/inject"
	"github.com/adrianoanschau/create-phobos/internal/issue"
	"github.com/adrianoanschau/create-phobos/internal/pkgmgr"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/internal/tui"
	"github.com/adrianoanschau/create-phobos/pkg/types"
	"github.com/adrianoanschau/create-phobos/templates"
)

// devScript is the package.json script every next-steps list ends with.
const devScript = "dev"

// runCreate renders any failure itself and returns an ExitError, so cobra
// and fang stay quiet.
func runCreate(cmd *cobra.Command, app *App, globals *globalFlags, flags *createFlags, args []string) error {
	ctx := cmd.Context()

	cfg, cfgPath, cfgErr := app.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: globals.configFile})
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}
	verbose := globals.verbose || cfg.UI.Verbose
	style := glamourStyle(cfg.UI.ColorScheme, app.stderr)

	fail := func(err error) error {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(app.stderr, WarningStyle.Render("Aborted."))
		} else {
			renderError(app.stderr, err, verbose, style)
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: types.ExitFailure}
	}

	if cfgErr != nil {
		return fail(cfgErr)
	}

	logger := newLogger(app, verbose)
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	c := &creation{app: app, cfg: cfg, flags: flags, logger: logger, verbose: verbose}
	if err := c.run(ctx, args); err != nil {
		return fail(err)
	}
	return nil
}

// newLogger returns the diagnostic logger. Debug output is only shown in
// verbose mode.
func newLogger(app *App, verbose bool) *log.Logger {
	level := log.ErrorLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(app.stderr, log.Options{
		Prefix: "phobos",
		Level:  level,
	})
}

// creation carries the state of one create-phobos invocation.
type creation struct {
	app     *App
	cfg     *config.Config
	flags   *createFlags
	logger  *log.Logger
	verbose bool
}

func (c *creation) run(ctx context.Context, args []string) error {
	pmOverride, err := c.packageManagerOverride()
	if err != nil {
		return err
	}

	templatesDir := c.flags.templatesDir
	if templatesDir == "" {
		templatesDir = c.cfg.TemplatesDir
	}
	tmpl, err := templates.Open(templatesDir)
	if err != nil {
		return err
	}

	cat, rep, err := catalog.LoadCatalog(tmpl, templates.ModulesDir, catalog.WithLogger(c.logger))
	if err != nil {
		return err
	}

	if c.flags.list {
		renderCatalog(c.app.stdout, cat)
		renderReport(c.app.stderr, rep, c.verbose)
		return nil
	}

	cwd, err := c.app.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	name, err := c.projectName(cwd, args)
	if err != nil {
		return err
	}
	projectDir := resolveProjectDir(cwd, name)

	sel, err := c.selection(cat)
	if err != nil {
		return err
	}

	composer := compose.New(cat, tmpl, c.app.FS,
		compose.WithBaseDir(templates.BaseDir),
		compose.WithInjectionMode(inject.Mode(c.cfg.Injection.Mode)),
		compose.WithLogger(c.logger),
	)
	composed, err := composer.Compose(ctx, projectDir, sel)
	rep.Merge(composed)
	if err != nil {
		renderReport(c.app.stderr, rep, c.verbose)
		return err
	}

	descs := sel.Descriptors(cat)
	pm := pkgmgr.Detect(c.app.FS, projectDir, cwd, c.app.Getenv, pmOverride)
	installed := false
	if !c.flags.noInstall && c.cfg.Install {
		c.logger.Debug("installing dependencies", "manager", pm, "dir", projectDir)
		installer := c.app.installer(c.logger)
		item := installer.Install(ctx, projectDir, pm)
		rep.Add(item)
		installed = item.Outcome == report.OutcomeApplied
		if installed {
			rep.Merge(installer.PostInstall(ctx, projectDir, descs...))
		} else {
			fmt.Fprintf(c.app.stderr, "\n%s %s\n", WarningStyle.Render("Warning:"), "dependency installation failed")
		}
	}

	renderReport(c.app.stderr, rep, c.verbose)
	renderSummary(c.app.stdout, summary{
		name:      name,
		modules:   descs,
		installed: installed,
		nextSteps: nextSteps(name, pm, installed, descs),
	})
	return nil
}

// packageManagerOverride returns the manager forced by --pm or the config,
// or "" to detect it.
func (c *creation) packageManagerOverride() (pkgmgr.Manager, error) {
	if c.flags.pm == "" {
		return pkgmgr.Manager(c.cfg.PackageManager), nil
	}
	m := pkgmgr.Manager(c.flags.pm)
	if ok, errs := m.IsValid(); !ok {
		return "", issue.NewErrorContext().
			WithOperation("select package manager").
			WithResource(c.flags.pm).
			WithSuggestion("Use one of npm, yarn or pnpm").
			Wrap(errs[0]).
			BuildError()
	}
	return m, nil
}

// projectName returns the positional argument, or prompts for it.
func (c *creation) projectName(cwd string, args []string) (string, error) {
	validate := func(name string) error {
		if err := types.ProjectName(name).Validate(); err != nil {
			return err
		}
		exists, err := fsutil.Exists(c.app.FS, resolveProjectDir(cwd, name))
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s already exists", name)
		}
		return nil
	}

	if len(args) > 0 {
		if err := types.ProjectName(args[0]).Validate(); err != nil {
			return "", issue.NewErrorContext().
				WithOperation("create project").
				WithResource(args[0]).
				WithSuggestion("Pass a folder name such as my-app").
				Wrap(err).
				BuildError()
		}
		return args[0], nil
	}

	return c.app.Prompter.ProjectName(c.tuiConfig(), validate)
}

// selection resolves the modules from --all, --modules or a prompt
// pre-checked with the configured defaults.
func (c *creation) selection(cat *catalog.Catalog) (catalog.Selection, error) {
	var keys []string
	switch {
	case c.flags.all:
		return catalog.SelectAll(cat), nil
	case c.flags.modules != nil:
		keys = c.flags.modules
	default:
		options := make([]tui.Option[string], 0, cat.Len())
		for _, d := range cat.Descriptors() {
			options = append(options, tui.Option[string]{
				Title:    d.Label(),
				Value:    d.Key,
				Selected: slices.Contains(c.cfg.DefaultModules, d.Key),
			})
		}
		for _, key := range c.cfg.DefaultModules {
			if !cat.Has(key) {
				c.logger.Warn("default module not in catalog", "module", key)
			}
		}
		var err error
		keys, err = c.app.Prompter.Modules(c.tuiConfig(), options)
		if err != nil {
			return catalog.Selection{}, err
		}
	}

	sel, err := catalog.NewSelection(cat, keys)
	if err != nil {
		return catalog.Selection{}, issue.NewErrorContext().
			WithOperation("select modules").
			WithSuggestion("Run 'create-phobos --list' to see the available modules").
			Wrap(err).
			BuildError()
	}
	return sel, nil
}

func (c *creation) tuiConfig() tui.Config {
	cfg := tui.DefaultConfig()
	if c.cfg.UI.Accessible {
		cfg.Accessible = true
	}
	return cfg
}

// resolveProjectDir joins name to cwd unless name is absolute.
func resolveProjectDir(cwd, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(cwd, name)
}

// nextSteps lists the commands the user runs after creation: enter the
// project, install when it was skipped or failed, start the dev server, then
// the scripts modules ask for. Duplicates are dropped.
func nextSteps(name string, pm pkgmgr.Manager, installed bool, descs []catalog.Descriptor) []string {
	steps := []string{"cd " + name}
	if !installed {
		steps = append(steps, pm.InstallCommand())
	}
	steps = append(steps, pm.RunCommand(devScript))
	for _, d := range descs {
		for _, script := range d.NextSteps {
			step := pm.RunCommand(script)
			if !slices.Contains(steps, step) {
				steps = append(steps, step)
			}
		}
	}
	return steps
}
