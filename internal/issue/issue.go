// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	TemplatesNotFoundId Id = iota + 1
	CatalogUnreadableId
	ManifestInvalidId
	ProjectExistsId
	InvalidProjectNameId
	UnknownModuleId
	MetadataInvalidId
	InstallFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue Markdown with glamour. stylePath is a glamour
// style name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	templatesNotFoundIssue = &Issue{
		id: TemplatesNotFoundId,
		mdMsg: `
# Template tree not found!

The directory given as the template tree does not exist or is not a directory.
A template tree must contain a ` + "`base/`" + ` project and a ` + "`modules/`" + ` directory.

## Things you can try:
- Drop the flag to use the templates bundled with the binary:
~~~
$ create-phobos my-app
~~~

- Or point to a valid template tree:
~~~
$ create-phobos my-app --templates ./path/to/templates
~~~`,
	}

	catalogUnreadableIssue = &Issue{
		id: CatalogUnreadableId,
		mdMsg: `
# Could not read the module catalog!

The ` + "`modules/`" + ` directory of the template tree could not be listed.

## Things you can try:
- Check that the directory exists and is readable
- Verify each module lives in its own subdirectory:
~~~
templates/
├── base/
└── modules/
    ├── styled-ui/
    │   └── phobos.meta.json
    └── react-router/
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# The base package.json is invalid!

The base project's ` + "`package.json`" + ` is missing or is not a JSON object.
Nothing was written to the output directory.

## Things you can try:
- Validate the file with a JSON linter
- Make sure the top-level value is an object, not an array or a string
- Sections such as ` + "`dependencies`" + ` and ` + "`scripts`" + ` must map names to strings`,
	}

	projectExistsIssue = &Issue{
		id: ProjectExistsId,
		mdMsg: `
# A folder with that name already exists!

The project is never created on top of an existing folder.

## Things you can try:
- Pick another project name
- Remove or rename the existing folder and try again`,
	}

	invalidProjectNameIssue = &Issue{
		id: InvalidProjectNameId,
		mdMsg: `
# Invalid project name!

The project name becomes the name of the output directory.

## Rules:
- It must not be empty or only whitespace
- It must not start with a dash
- No part of it may be a Windows device name such as ` + "`con`" + ` or ` + "`nul`" + `

## Example:
~~~
$ create-phobos my-app
~~~`,
	}

	unknownModuleIssue = &Issue{
		id: UnknownModuleId,
		mdMsg: `
# Unknown module!

One of the requested modules is not part of the catalog.

## Things you can try:
- List the available modules:
~~~
$ create-phobos --list
~~~

- Check the spelling of the keys passed to ` + "`--modules`" + `
- Module keys are directory names under ` + "`modules/`" + ` and are case sensitive`,
	}

	metadataInvalidIssue = &Issue{
		id: MetadataInvalidId,
		mdMsg: `
# A module has invalid metadata!

A ` + "`phobos.meta.json`" + ` file could not be parsed or does not match the metadata schema.
The module is still offered, but its dependencies, scripts, injections and copy rules are ignored.

## Expected shape:
~~~json
{
  "name": "Styled UI",
  "dependencies": { "styled-components": "^6.0.0" },
  "devDependencies": {},
  "scripts": {},
  "injections": {
    "src/main.tsx": { "after": "import App", "insert": "import './theme'" }
  },
  "copyRules": { "files/theme.ts": "src/theme.ts" }
}
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependency installation failed!

The project was created, but the package manager exited with an error.

## Things you can try:
- Enter the project directory and run the install yourself:
~~~
$ cd my-app
$ npm install
~~~

- Check your network connection and registry settings
- Skip installation next time with ` + "`--no-install`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file has errors or doesn't match the expected schema.

## Things you can try:
- Check the configuration file syntax
- Pass an explicit file with ` + "`--config`" + `
- Delete the file to fall back to the defaults

## Example configuration:
~~~cue
default_modules: ["styled-ui", "react-router"]
package_manager: "pnpm"
install: true
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The output directory or one of its files could not be written.

## Things you can try:
- Check the permissions of the parent directory:
~~~
$ ls -la .
~~~

- Create the project somewhere you own`,
	}

	issues = map[Id]*Issue{
		templatesNotFoundIssue.Id():  templatesNotFoundIssue,
		catalogUnreadableIssue.Id():  catalogUnreadableIssue,
		manifestInvalidIssue.Id():    manifestInvalidIssue,
		projectExistsIssue.Id():      projectExistsIssue,
		invalidProjectNameIssue.Id(): invalidProjectNameIssue,
		unknownModuleIssue.Id():      unknownModuleIssue,
		metadataInvalidIssue.Id():    metadataInvalidIssue,
		installFailedIssue.Id():      installFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
