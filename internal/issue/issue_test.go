// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func mockRender(t *testing.T) {
	t.Helper()
	originalRender := render
	t.Cleanup(func() { render = originalRender })
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{FileNotFoundId, false, "File not found"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{CatalogLoadFailedId, false, "Failed to load the unit catalog"},
		{CatalogCycleId, false, "Unit definition cycle"},
		{UnitNotFoundId, false, "Unit not found"},
		{PrefixNotFoundId, false, "Unit prefix not found"},
		{UnitsNotCoherentId, false, "Units are not coherent"},
		{SyntaxErrorId, false, "Syntax error"},
		{ServerStartFailedId, false, "calculator server"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) != int(ServerStartFailedId) {
		t.Errorf("Values() returned %d issues, want %d", len(issues), ServerStartFailedId)
	}

	for _, issue := range issues {
		if issue.Id() == 0 {
			t.Error("found issue with ID 0")
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	mockRender(t)

	for _, issue := range Values() {
		rendered, err := issue.Render("dark")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if !strings.Contains(rendered, "# ") {
			t.Errorf("Issue %d rendered without a heading", issue.Id())
		}
	}
}

func TestIssue_Render_Links(t *testing.T) {
	mockRender(t)

	withLinks := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}
	rendered, err := withLinks.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"## See also", "- <https://docs.example.com>", "- <https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() missing %q\ngot:\n%s", want, rendered)
		}
	}

	noLinks := &Issue{id: Id(9998), mdMsg: "# Test Issue"}
	rendered, err = noLinks.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := &Issue{docLinks: []HttpLink{"a"}, extLinks: []HttpLink{"b"}}

	issue.DocLinks()[0] = "modified"
	issue.ExtLinks()[0] = "modified"

	if issue.docLinks[0] != "a" || issue.extLinks[0] != "b" {
		t.Error("DocLinks()/ExtLinks() should return clones")
	}
}

func TestIssue_RenderGlamour(t *testing.T) {
	rendered, err := Get(SyntaxErrorId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Syntax error") {
		t.Errorf("rendered output lost the heading:\n%s", rendered)
	}
}
