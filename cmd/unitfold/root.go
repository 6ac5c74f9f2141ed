// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "unitfold",
		Short: "Convert and decompose physical units",
		Long: TitleStyle.Render("unitfold") + SubtitleStyle.Render(" - physical unit conversion and decomposition") + `

unitfold folds unit expressions into base units. A statement is either a
conversion ("<value> <units>=><units>") or a decomposition ("<units>").
Units are written prefix_tag^pow and joined with '*' and at most one '/'.

` + SubtitleStyle.Render("Examples:") + `
  unitfold convert '1 км/ч=>м/с'      Convert a value between coherent units
  unitfold decompose 'к_Па'           Expand units into base units
  unitfold eval '1 ч=>с' 'Дж/с'       Evaluate several statements
  unitfold catalog show Н             Show a unit definition
  unitfold serve                      Run the SSH calculator`,
		PersistentPreRun: func(*cobra.Command, []string) {
			app.installLogger()
		},
	}

	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output and issue help pages")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/unitfold/config.cue)")
	root.PersistentFlags().IntVarP(&app.precision, "precision", "p", -1, "decimals for results (overrides output.precision)")

	root.AddCommand(
		newConvertCommand(app),
		newDecomposeCommand(app),
		newEvalCommand(app),
		newCatalogCommand(app),
		newConfigCommand(app),
		newServeCommand(app),
		newIssuesCommand(app),
	)

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler skips errors that were already rendered by App.fail.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(errorHandler),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCode(err))
	}
}
