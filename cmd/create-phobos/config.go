// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianoanschau/create-phobos/internal/config"
	"github.com/adrianoanschau/create-phobos/internal/issue"
)

// configKeys lists the keys accepted by "config set".
var configKeys = []string{
	"templates_dir",
	"default_modules",
	"package_manager",
	"install",
	"injection.mode",
	"ui.color_scheme",
	"ui.verbose",
	"ui.accessible",
}

// newConfigCommand creates the `create-phobos config` command tree.
func newConfigCommand(app *App, globals *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage create-phobos configuration",
		Long: `Manage create-phobos configuration.

Configuration is stored in:
  - Linux: ~/.config/phobos/config.cue
  - macOS: ~/Library/Application Support/phobos/config.cue
  - Windows: %APPDATA%\phobos\config.cue

Every key can be overridden with a PHOBOS_ environment variable,
e.g. PHOBOS_PACKAGE_MANAGER=pnpm or PHOBOS_INJECTION_MODE=skip_present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, globals)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app, globals)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value.\n\nValid keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, globals, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.Config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: globals.configFile})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, globals *globalFlags) error {
	cfg, cfgPath, err := app.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: globals.configFile})
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(glamourStyle(config.ColorSchemeAuto, app.stderr)); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	templatesDir := cfg.TemplatesDir
	if templatesDir == "" {
		templatesDir = "(bundled)"
	}
	pm := cfg.PackageManager.String()
	if pm == "" {
		pm = "(detect)"
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("templates_dir"), valueStyle.Render(templatesDir))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("default_modules"), valueStyle.Render(strings.Join(cfg.DefaultModules, ", ")))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("package_manager"), valueStyle.Render(pm))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("install"), valueStyle.Render(strconv.FormatBool(cfg.Install)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("injection"))
	fmt.Fprintf(w, "  mode: %s\n", valueStyle.Render(cfg.Injection.Mode.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  accessible: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Accessible)))

	return nil
}

func initConfig(app *App) error {
	cfgPath, written, err := config.CreateDefaultConfig(app.FS, "")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App, globals *globalFlags) error {
	if globals.configFile != "" {
		fmt.Fprintf(app.stdout, "Config file: %s\n", globals.configFile)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.FilePath("")
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

func setConfigValue(ctx context.Context, app *App, globals *globalFlags, key, value string) error {
	cfg, cfgPath, err := app.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: globals.configFile})
	if err != nil {
		return err
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}
	if ok, errs := cfg.IsValid(); !ok {
		var invalid *config.InvalidConfigError
		if errors.As(errs[0], &invalid) {
			return fmt.Errorf("invalid value for %s: %w", key, errors.Join(invalid.FieldErrors...))
		}
		return errs[0]
	}

	if cfgPath == "" {
		cfgPath = globals.configFile
	}
	if cfgPath == "" {
		if cfgPath, err = config.FilePath(""); err != nil {
			return err
		}
	}
	if err := config.Save(app.FS, cfgPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	printSet(app.stdout, key, value)
	return nil
}

// applyConfigValue assigns value to the field named by key. Values are
// checked by Config.IsValid afterwards.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "templates_dir":
		cfg.TemplatesDir = value
	case "default_modules":
		cfg.DefaultModules = nil
		for _, m := range strings.Split(value, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.DefaultModules = append(cfg.DefaultModules, m)
			}
		}
	case "package_manager":
		cfg.PackageManager = config.PackageManager(value)
	case "install":
		cfg.Install = parseBool(value)
	case "injection.mode":
		cfg.Injection.Mode = config.InjectionMode(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		cfg.UI.Verbose = parseBool(value)
	case "ui.accessible":
		cfg.UI.Accessible = parseBool(value)
	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(configKeys, ", "))
	}
	return nil
}

func parseBool(value string) bool {
	return value == "true" || value == "1"
}

func printSet(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
}
