// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// globalFlags are shared by the root command and its subcommands.
	globalFlags struct {
		verbose    bool
		configFile string
	}

	// createFlags drive project creation on the root command.
	createFlags struct {
		all          bool
		modules      []string
		noInstall    bool
		templatesDir string
		list         bool
		pm           string
	}
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	globals := &globalFlags{}
	flags := &createFlags{}

	rootCmd := &cobra.Command{
		Use:   "create-phobos [project-name]",
		Short: "Scaffold a React project from composable modules",
		Long: TitleStyle.Render("create-phobos") + SubtitleStyle.Render(" - Scaffold a React project from composable modules") + `

create-phobos copies a base Vite + React skeleton into a new folder, layers
the selected feature modules on top of it, merges their dependencies into
package.json and generates the provider tree that wires them together.

` + SubtitleStyle.Render("Examples:") + `
  create-phobos                              Prompt for a name and modules
  create-phobos my-app                       Prompt for modules only
  create-phobos my-app --all                 Include every module
  create-phobos my-app --modules styled-ui   Include the listed modules
  create-phobos --list                       List the available modules
  create-phobos config show                  Show the current configuration`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, app, globals, flags, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&globals.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&globals.configFile, "config", "", "config file (default is $HOME/.config/phobos/config.cue)")

	f := rootCmd.Flags()
	f.BoolVar(&flags.all, "all", false, "include every module without prompting")
	f.StringSliceVar(&flags.modules, "modules", nil, "comma-separated module keys to include without prompting")
	f.BoolVar(&flags.noInstall, "no-install", false, "skip installing dependencies")
	f.StringVar(&flags.templatesDir, "templates", "", "template directory with base/ and modules/ (default is the bundled templates)")
	f.BoolVar(&flags.list, "list", false, "list the available modules and exit")
	f.StringVar(&flags.pm, "pm", "", "package manager to use: npm, yarn or pnpm (default is detected)")
	rootCmd.MarkFlagsMutuallyExclusive("all", "modules")

	rootCmd.AddCommand(newConfigCommand(app, globals))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}
