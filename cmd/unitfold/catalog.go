// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/unitfold/unitfold/pkg/catalog"
	"github.com/unitfold/unitfold/pkg/units"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

type prefixEntry struct {
	Symbol   string `json:"symbol"`
	Exponent int    `json:"exponent"`
}

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate unit catalogs",
		Long: `Inspect the unit catalog selected by the configuration, or validate
catalog files before adding them to catalog.sources.`,
	}

	cmd.AddCommand(
		newCatalogListCommand(app),
		newCatalogShowCommand(app),
		newCatalogPrefixesCommand(app),
		newCatalogValidateCommand(app),
	)

	return cmd
}

func newCatalogListCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			tags := env.catalog.Tags()
			list := make([]catalog.Unit, 0, len(tags))
			for _, tag := range tags {
				u, _ := env.catalog.Resolve(tag)
				list = append(list, u)
			}

			if asJSON {
				return writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Units (%d)", len(list))))
			for _, u := range list {
				kind := "base"
				if units.IsDecomposable(env.catalog, u) {
					kind = "derived"
				}
				fmt.Fprintf(out, "  %s %-8s %s\n", tagColumnStyle.Render(u.Tag), kind, SubtitleStyle.Render(u.Name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the units as JSON")

	return cmd
}

func newCatalogShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag>",
		Short: "Show a unit definition and its base-unit expansion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			tag := args[0]
			u, ok := env.catalog.Resolve(tag)
			if !ok {
				return app.fail(cmd, &units.NoUnitError{Tag: tag})
			}
			in := env.interpreter()
			b, err := in.Decompose(tag)
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(u.Tag))
			if u.Name != "" {
				fmt.Fprintf(out, "  %s %s\n", TagStyle.Render("name:      "), u.Name)
			}
			fmt.Fprintf(out, "  %s %s\n", TagStyle.Render("definition:"), u.String())
			fmt.Fprintf(out, "  %s %s\n", TagStyle.Render("bases:     "), SuccessStyle.Render(in.Formatter().FormatDecomposition(b)))
			return nil
		},
	}
}

func newCatalogPrefixesCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "prefixes",
		Short: "List unit prefixes by exponent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			prefixes := env.catalog.Prefixes()
			symbols := maps.Keys(prefixes)
			entries := make([]prefixEntry, 0, len(symbols))
			for _, s := range symbols {
				entries = append(entries, prefixEntry{Symbol: s, Exponent: prefixes[s]})
			}
			slices.SortFunc(entries, func(a, b prefixEntry) int {
				return cmp.Or(cmp.Compare(a.Exponent, b.Exponent), cmp.Compare(a.Symbol, b.Symbol))
			})

			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Prefixes"))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s 1e%d\n", tagColumnStyle.Render(e.Symbol), e.Exponent)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the prefixes as JSON")

	return cmd
}

func newCatalogValidateCommand(app *App) *cobra.Command {
	var standalone bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate catalog files",
		Long: `Validate catalog files (.cue, .json, .toml, .yaml) against the catalog
schema, then check that every referenced tag resolves and that no unit is
defined in terms of itself.

Files are checked on top of the builtin catalog unless --standalone is set
or catalog.builtin is false.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			cat, err := catalog.Load(cmd.Context(),
				catalog.WithBuiltin(cfg.Catalog.Builtin && !standalone),
				catalog.WithFiles(args...),
			)
			if err != nil {
				return app.fail(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d file(s) valid, %d units, %d prefixes\n",
				SuccessStyle.Render("✓"), len(args), cat.Len(), len(cat.Prefixes()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&standalone, "standalone", false, "validate without the builtin catalog")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
