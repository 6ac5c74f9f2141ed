// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	ConfigLoadFailedId
	CatalogLoadFailedId
	CatalogCycleId
	UnitNotFoundId
	PrefixNotFoundId
	UnitsNotCoherentId
	SyntaxErrorId
	ServerStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.ExtLinks()...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A file named on the command line or in your configuration does not exist.

## Things you can try:
- Check the path for typos
- Relative catalog paths are resolved from the current directory
- List the catalog sources currently configured:
~~~
$ unitfold config show
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be read or does not match the schema.

## Things you can try:
- Print the path unitfold reads configuration from:
~~~
$ unitfold config path
~~~

- Regenerate a default file and compare:
~~~
$ unitfold config init
~~~

- Environment overrides use the ` + "`UNITFOLD_`" + ` prefix, e.g.
  ` + "`UNITFOLD_OUTPUT_PRECISION=6`",
	}

	catalogLoadFailedIssue = &Issue{
		id: CatalogLoadFailedId,
		mdMsg: `
# Failed to load the unit catalog!

A catalog source is malformed or breaks a catalog rule.

## Common issues:
- A tag is defined twice in the same file
- A component names a unit that is not defined anywhere
- A composite unit (one with a ` + "`base`" + `) sets ` + "`mpl`" + `; put the factor on its component instead
- ` + "`pow: 0`" + ` or a negative ` + "`mpl`" + `

## Things you can try:
- Validate the file on its own:
~~~
$ unitfold catalog validate ./units.cue
~~~

## Example of a valid definition:
~~~cue
units: [
  {tag: "верста", base: [{tag: "м", mpl: 1066.8}]},
]
~~~`,
	}

	catalogCycleIssue = &Issue{
		id: CatalogCycleId,
		mdMsg: `
# Unit definition cycle!

A unit is defined, directly or through other units, in terms of itself.
Expanding it would never reach atomic units.

## Things you can try:
- Follow the cycle printed above and break one of its links
- Define one of the units in the cycle as atomic (no ` + "`base`" + `)`,
	}

	unitNotFoundIssue = &Issue{
		id: UnitNotFoundId,
		mdMsg: `
# Unit not found!

The expression names a unit that is not in the catalog.

## Things you can try:
- List the known units:
~~~
$ unitfold catalog list
~~~

- A prefix is separated from its unit by an underscore: ` + "`к_м`" + `, not ` + "`км`" + `
  (unless the catalog defines ` + "`км`" + ` itself)
- Add the unit to a catalog file listed in ` + "`catalog.sources`",
	}

	prefixNotFoundIssue = &Issue{
		id: PrefixNotFoundId,
		mdMsg: `
# Unit prefix not found!

The part before the underscore is not a known metric prefix.

## Things you can try:
- List the known prefixes:
~~~
$ unitfold catalog prefixes
~~~

- Add a prefix in a catalog file:
~~~cue
prefixes: {"Э": 18}
~~~`,
	}

	unitsNotCoherentIssue = &Issue{
		id: UnitsNotCoherentId,
		mdMsg: `
# Units are not coherent!

The two sides of the conversion reduce to different base units, so no factor
converts one into the other. Both signatures are printed above.

## Things you can try:
- Inspect each side on its own:
~~~
$ unitfold decompose 'Н/м^2'
~~~

- Check exponents and the side of the ` + "`/`" + ` each unit is on`,
	}

	syntaxErrorIssue = &Issue{
		id: SyntaxErrorId,
		mdMsg: `
# Syntax error!

## The grammar:
- Conversion: ` + "`<number> <units>=><units>`" + ` with exactly one space and one ` + "`=>`" + `
- Decomposition: ` + "`<units>`" + ` with no spaces
- Units: ` + "`a*b/c*d`" + ` with at most one ` + "`/`" + `
- Unit: ` + "`[prefix_]tag[^pow]`" + `, pow between -128 and 127

## Examples:
~~~
$ unitfold convert '1 к_Па=>Н/м^2'
$ unitfold decompose 'мк_м^3*с_м^2/н_м^2'
~~~`,
	}

	serverStartFailedIssue = &Issue{
		id: ServerStartFailedId,
		mdMsg: `
# Failed to start the calculator server!

## Things you can try:
- Another process may hold the port; pick a different one:
~~~
$ unitfold serve --port 2424
~~~

- Ports below 1024 need elevated privileges`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():      fileNotFoundIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		catalogLoadFailedIssue.Id(): catalogLoadFailedIssue,
		catalogCycleIssue.Id():      catalogCycleIssue,
		unitNotFoundIssue.Id():      unitNotFoundIssue,
		prefixNotFoundIssue.Id():    prefixNotFoundIssue,
		unitsNotCoherentIssue.Id():  unitsNotCoherentIssue,
		syntaxErrorIssue.Id():       syntaxErrorIssue,
		serverStartFailedIssue.Id(): serverStartFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
