// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/unitfold/unitfold/internal/issue"

	"github.com/spf13/cobra"
)

func newIssuesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issues [id]",
		Short: "List troubleshooting pages or show one",
		Long: `Without arguments, list the troubleshooting pages unitfold can show
after an error. With an id, render that page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := app.loadConfig(cmd.Context()); err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				pages := issue.Values()
				slices.SortFunc(pages, func(a, b *issue.Issue) int { return cmp.Compare(a.Id(), b.Id()) })
				fmt.Fprintln(out, TitleStyle.Render("Troubleshooting pages"))
				for _, page := range pages {
					fmt.Fprintf(out, "  %s %s\n", tagColumnStyle.Render(strconv.Itoa(int(page.Id()))), issueTitle(page))
				}
				return nil
			}

			id, err := strconv.Atoi(args[0])
			page := issue.Get(issue.Id(id))
			if err != nil || page == nil {
				return app.fail(cmd, &UnknownIssueError{Arg: args[0]})
			}
			rendered, err := page.Render(app.style())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}

// UnknownIssueError is returned for an issue id that names no page.
type UnknownIssueError struct {
	Arg string
}

func (e *UnknownIssueError) Error() string {
	return fmt.Sprintf("no troubleshooting page %q (run 'unitfold issues' to list them)", e.Arg)
}

// issueTitle returns the first Markdown heading of the page.
func issueTitle(page *issue.Issue) string {
	for line := range strings.Lines(string(page.MarkdownMsg())) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSuffix(title, "!")
		}
	}
	return ""
}
