// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/unitfold/unitfold/pkg/ast"
	"github.com/unitfold/unitfold/pkg/interpreter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// statementFromArgs lets callers skip shell quoting: `convert 1 км=>м`.
func statementFromArgs(args []string) string {
	return strings.Join(args, " ")
}

func newConvertCommand(app *App) *cobra.Command {
	var valueOnly bool

	cmd := &cobra.Command{
		Use:   "convert <value> <units>=><units>",
		Short: "Convert a value between coherent units",
		Long: `Convert a value between two unit expressions of the same dimension.

Prints "<value> <src> = <result> <dst>". Results below the scientific
threshold are printed with the configured precision.`,
		Example: `  unitfold convert '1 км/ч=>м/с'
  unitfold convert 3 фут=>м --value-only`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			in := env.interpreter()
			line := statementFromArgs(args)

			if valueOnly {
				v, err := in.Convert(line)
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), in.Formatter().FormatValue(v))
				return nil
			}

			res, err := in.Eval(line)
			if err == nil && res.Statement.Kind != ast.Conversion {
				err = &interpreter.StatementKindError{Want: ast.Conversion, Got: res.Statement.Kind}
			}
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&valueOnly, "value-only", false, "print only the converted value")

	return cmd
}

func newDecomposeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decompose <units>",
		Short: "Expand a unit expression into base units",
		Long: `Expand a unit expression into catalog base units.

Prints the multiplier followed by the base units sorted by tag, e.g.
"1000.000 [кг^1 * м^-1 * с^-2]" for к_Па.`,
		Example: `  unitfold decompose 'к_Па'
  unitfold decompose 'мк_м^3*с_м^2/н_м^2'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			in := env.interpreter()
			b, err := in.Decompose(statementFromArgs(args))
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), in.Formatter().FormatDecomposition(b))
			return nil
		},
	}
}

func newEvalCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [statement...]",
		Short: "Evaluate conversions and decompositions",
		Long: `Evaluate each argument as a statement. Statements containing "=>" are
conversions, anything else is a decomposition.

Without arguments, statements are read from stdin, one per line, until EOF
or "exit". A failing statement is reported and evaluation continues; the
exit status is 1 if any statement failed.`,
		Example: `  unitfold eval '1 ч=>с' 'Вт'
  printf '1 атм=>Па\nДж\n' | unitfold eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.loadEnvironment(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			in := env.interpreter()

			var failed error
			evalLine := func(line string) {
				res, err := in.Eval(line)
				if err != nil {
					failed = errors.Join(failed, err)
					fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, app.verbose))
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
			}

			if len(args) > 0 {
				for _, line := range args {
					evalLine(line)
				}
			} else if err := scanStatements(cmd.InOrStdin(), cmd.ErrOrStderr(), evalLine); err != nil {
				return app.fail(cmd, err)
			}

			if failed != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: 1, Err: failed}
			}
			return nil
		},
	}
}

// scanStatements feeds non-blank lines from r to fn. A prompt is written to
// prompt only when r is an interactive terminal.
func scanStatements(r io.Reader, prompt io.Writer, fn func(string)) error {
	interactive := false
	if f, ok := r.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	showPrompt := func() {
		if interactive {
			fmt.Fprint(prompt, SubtitleStyle.Render("unitfold> "))
		}
	}

	scanner := bufio.NewScanner(r)
	showPrompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "exit" || line == "quit":
			return nil
		default:
			fn(line)
		}
		showPrompt()
	}
	return scanner.Err()
}
