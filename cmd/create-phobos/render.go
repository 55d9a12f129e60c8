// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/compose"
	"github.com/adrianoanschau/create-phobos/internal/config"
	"github.com/adrianoanschau/create-phobos/internal/issue"
	"github.com/adrianoanschau/create-phobos/internal/manifest"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/pkg/types"
	"github.com/adrianoanschau/create-phobos/templates"
)

// summary is what the CLI prints after a project was created.
type summary struct {
	name      string
	modules   []catalog.Descriptor
	installed bool
	nextSteps []string
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// classifyError maps a fatal error to its issue catalog entry. It returns 0
// when no entry applies.
func classifyError(err error) issue.Id {
	switch {
	case errors.Is(err, compose.ErrProjectExists):
		return issue.ProjectExistsId
	case errors.Is(err, types.ErrInvalidProjectName):
		return issue.InvalidProjectNameId
	case errors.Is(err, templates.ErrInvalidTemplateDir):
		return issue.TemplatesNotFoundId
	case errors.Is(err, catalog.ErrCatalogUnreadable):
		return issue.CatalogUnreadableId
	case errors.Is(err, catalog.ErrUnknownModule), errors.Is(err, catalog.ErrDuplicateSelection):
		return issue.UnknownModuleId
	case errors.Is(err, manifest.ErrManifest):
		return issue.ManifestInvalidId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Operation == "load configuration" {
		return issue.ConfigLoadFailedId
	}
	return 0
}

// renderError prints a fatal error followed by its issue catalog entry.
func renderError(w io.Writer, err error, verbose bool, style string) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render(style)
		if renderErr != nil {
			log.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// glamourStyle picks the issue rendering style for the configured color
// scheme. "auto" renders without colors unless w is a terminal.
func glamourStyle(scheme config.ColorScheme, w io.Writer) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}

// renderReport prints the warnings of rep. In verbose mode every item is
// printed.
func renderReport(w io.Writer, rep *report.Report, verbose bool) {
	if rep == nil {
		return
	}

	if verbose {
		for _, it := range rep.Items() {
			if it.Outcome.IsWarning() {
				continue
			}
			fmt.Fprintf(w, "%s %s\n", VerboseStyle.Render("·"), VerboseStyle.Render(it.String()))
		}
	}

	warnings := rep.Warnings()
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("%d warning(s):", len(warnings))))
	for _, it := range warnings {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), it.String())
	}
}

// renderSummary prints the created project, its modules and the next steps.
func renderSummary(w io.Writer, s summary) {
	fmt.Fprintf(w, "\n%s Created %s\n", SuccessStyle.Render("✓"), TitleStyle.Render(s.name))
	if s.installed {
		fmt.Fprintf(w, "%s Dependencies installed\n", SuccessStyle.Render("✓"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("Modules:"))
	if len(s.modules) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none, base skeleton only)"))
	}
	for _, d := range s.modules {
		fmt.Fprintf(w, "  - %s %s\n", CmdStyle.Render(d.Key), SubtitleStyle.Render(d.Name))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("Next steps:"))
	for _, step := range s.nextSteps {
		fmt.Fprintf(w, "  %s\n", CmdStyle.Render(step))
	}
}

// renderCatalog prints one line per module: key, label and role.
func renderCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, TitleStyle.Render("Available modules"))
	fmt.Fprintln(w)

	width := 0
	for _, key := range cat.Keys() {
		width = max(width, len(key))
	}
	for _, d := range cat.Descriptors() {
		line := fmt.Sprintf("  %s  %s", CmdStyle.Render(d.Key+strings.Repeat(" ", width-len(d.Key))), d.Label())
		if role := d.Composition.Role; role != "" && role != catalog.RoleNone {
			line += " " + roleStyle.Render("("+role.String()+")")
		}
		fmt.Fprintln(w, line)
	}
}
