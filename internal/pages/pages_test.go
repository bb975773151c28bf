package pages

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/vango-dev/adminshell/pkg/router"
)

func TestPagesRender(t *testing.T) {
	tests := []struct {
		page  *Page
		query string
		want  []string
	}{
		{Resources, "category=compute", []string{"<h1>Resources</h1>", "page-resources", "<strong>compute</strong>"}},
		{Categories, "", []string{"<h1>Categories</h1>", "page-categories"}},
		{Users, "q=ada", []string{"<h1>Users</h1>", "<strong>ada</strong>"}},
		{Logs, "level=warn", []string{"<h1>Logs</h1>", "<strong>warn</strong>"}},
	}

	for _, tt := range tests {
		t.Run(tt.page.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			loc := &router.Location{Path: "/x", Query: tt.query}
			if err := tt.page.Render(&buf, loc); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

type namedOnly struct{ name string }

func (n namedOnly) Name() string { return n.name }

func (n namedOnly) Render(w io.Writer, loc *router.Location) error { return nil }

func TestTitleOf(t *testing.T) {
	tests := []struct {
		c    router.Component
		want string
	}{
		{Users, "Users"},
		{NewPage("Users", "User directory", "users"), "User directory"},
		{NewPage("Audit", "", "logs"), "Audit"},
		{namedOnly{"Settings"}, "Settings"},
	}
	for _, tt := range tests {
		if got := TitleOf(tt.c); got != tt.want {
			t.Errorf("TitleOf(%s) = %q, want %q", tt.c.Name(), got, tt.want)
		}
	}
}

func TestRenderEscapesQuery(t *testing.T) {
	var buf bytes.Buffer
	loc := &router.Location{Path: "/users", Query: "q=%3Cscript%3E"}
	if err := Users.Render(&buf, loc); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Errorf("query was not escaped:\n%s", buf.String())
	}
}

func TestRenderNilLocation(t *testing.T) {
	var buf bytes.Buffer
	if err := Categories.Render(&buf, nil); err != nil {
		t.Fatalf("Render(nil) error = %v", err)
	}
}

func TestRenderShell(t *testing.T) {
	content, err := RenderComponent(Logs, &router.Location{Path: "/logs"})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = RenderShell(&buf, ShellData{
		AppName:  "Admin Console",
		Title:    "Logs",
		HomeHref: "/admin/",
		Route:    "Logs",
		Links: []router.Link{
			{Name: "Resources", Path: "/resources", Href: "/admin/resources"},
			{Name: "Logs", Path: "/logs", Href: "/admin/logs", Active: true},
		},
		Content: content,
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"<title>Logs · Admin Console</title>",
		`<a href="/admin/resources">Resources</a>`,
		`<a href="/admin/logs" class="active" aria-current="page">Logs</a>`,
		`data-route="Logs"`,
		"<h1>Logs</h1>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNotFound(t *testing.T) {
	html, err := RenderNotFound("/unknown", "/")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "<code>/unknown</code>") {
		t.Errorf("RenderNotFound = %s", html)
	}
}
