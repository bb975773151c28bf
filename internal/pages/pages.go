// Package pages renders the console's page components and the HTML shell
// that frames them. Templates are embedded and parsed once at init.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/vango-dev/adminshell/pkg/router"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page is a router.Component backed by a named template.
type Page struct {
	name     string
	title    string
	template string
}

// NewPage creates a page rendering the template defined as tmpl.
func NewPage(name, title, tmpl string) *Page {
	return &Page{name: name, title: title, template: tmpl}
}

// The console's pages.
var (
	Resources  = NewPage("Resources", "Resources", "resources")
	Categories = NewPage("Categories", "Categories", "categories")
	Users      = NewPage("Users", "Users", "users")
	Logs       = NewPage("Logs", "Logs", "logs")
)

// PageData is passed to page templates.
type PageData struct {
	Title    string
	Location *router.Location
	Query    url.Values
}

// Name implements router.Component.
func (p *Page) Name() string { return p.name }

// Title returns the heading shown for the page.
func (p *Page) Title() string { return p.title }

// TitleOf returns the document title for a component: its Title when it
// has one, its name otherwise.
func TitleOf(c router.Component) string {
	if t, ok := c.(interface{ Title() string }); ok && t.Title() != "" {
		return t.Title()
	}
	return c.Name()
}

// Render implements router.Component.
func (p *Page) Render(w io.Writer, loc *router.Location) error {
	data := PageData{Title: p.title, Location: loc}
	if loc != nil {
		data.Query = loc.QueryValues()
	}
	if err := templates.ExecuteTemplate(w, p.template, data); err != nil {
		return fmt.Errorf("render %s: %w", p.name, err)
	}
	return nil
}

// ShellData is passed to the shell layout.
type ShellData struct {
	AppName  string
	Title    string
	HomeHref string
	Route    string
	Links    []router.Link
	Content  template.HTML
}

// RenderShell writes the full document around already rendered content.
func RenderShell(w io.Writer, data ShellData) error {
	return templates.ExecuteTemplate(w, "shell", data)
}

// RenderComponent renders c for loc and returns the HTML for ShellData.Content.
func RenderComponent(c router.Component, loc *router.Location) (template.HTML, error) {
	var b strings.Builder
	if err := c.Render(&b, loc); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

// RenderNotFound renders the body shown for unmatched paths.
func RenderNotFound(path, homeHref string) (template.HTML, error) {
	var b strings.Builder
	data := struct{ Path, HomeHref string }{path, homeHref}
	if err := templates.ExecuteTemplate(&b, "notfound", data); err != nil {
		return "", fmt.Errorf("render not found: %w", err)
	}
	return template.HTML(b.String()), nil
}
