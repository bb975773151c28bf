package router

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/vango-dev/adminshell/pkg/history"
)

// stubPage is a test component.
type stubPage struct{ name string }

func (p *stubPage) Name() string { return p.name }

func (p *stubPage) Render(w io.Writer, loc *Location) error {
	_, err := fmt.Fprintf(w, "<h1>%s</h1>", p.name)
	return err
}

var (
	home    = &stubPage{"Home"}
	users   = &stubPage{"Users"}
	user    = &stubPage{"User"}
	files   = &stubPage{"Files"}
	newUser = &stubPage{"NewUser"}
)

func testRoutes() []RouteDescriptor {
	return []RouteDescriptor{
		{Path: "/", Redirect: "/home"},
		{Path: "/home", Name: "Home", Component: home},
		{Path: "/users", Name: "Users", Component: users},
		{Path: "/users/new", Name: "NewUser", Component: newUser},
		{Path: "/users/:id", Name: "User", Component: user},
		{Path: "/files/*rest", Name: "Files", Component: files},
		{Path: "/people", Redirect: "/users"},
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := New(Options{History: history.NewMemory(), Routes: testRoutes()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestNewRequiresHistory(t *testing.T) {
	_, err := New(Options{Routes: testRoutes()})
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
}

func TestNewRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name   string
		routes []RouteDescriptor
		index  int
		want   error
	}{
		{
			name:   "empty path",
			routes: []RouteDescriptor{{Path: "", Component: home}},
			want:   ErrInvalidPath,
		},
		{
			name:   "relative path",
			routes: []RouteDescriptor{{Path: "home", Component: home}},
			want:   ErrInvalidPath,
		},
		{
			name:   "trailing slash",
			routes: []RouteDescriptor{{Path: "/home/", Component: home}},
			want:   ErrInvalidPath,
		},
		{
			name:   "catch-all not last",
			routes: []RouteDescriptor{{Path: "/files/*rest/x", Component: files}},
			want:   ErrInvalidPath,
		},
		{
			name:   "repeated param",
			routes: []RouteDescriptor{{Path: "/a/:id/:id", Component: files}},
			want:   ErrInvalidPath,
		},
		{
			name:   "component and redirect",
			routes: []RouteDescriptor{{Path: "/home", Component: home, Redirect: "/users"}},
			want:   ErrComponentAndRedirect,
		},
		{
			name:   "no destination",
			routes: []RouteDescriptor{{Path: "/home", Name: "Home"}},
			want:   ErrNoDestination,
		},
		{
			name: "duplicate name",
			routes: []RouteDescriptor{
				{Path: "/home", Name: "Home", Component: home},
				{Path: "/start", Name: "Home", Component: home},
			},
			index: 1,
			want:  ErrDuplicateName,
		},
		{
			name: "duplicate path",
			routes: []RouteDescriptor{
				{Path: "/home", Name: "Home", Component: home},
				{Path: "/home", Name: "Start", Component: home},
			},
			index: 1,
			want:  ErrDuplicatePath,
		},
		{
			name: "conflicting param",
			routes: []RouteDescriptor{
				{Path: "/users/:id", Component: user},
				{Path: "/users/:name/edit", Component: user},
			},
			index: 1,
			want:  ErrConflictingParam,
		},
		{
			name:   "redirect to nowhere",
			routes: []RouteDescriptor{{Path: "/", Redirect: "/missing"}},
			want:   ErrRedirectTarget,
		},
		{
			name: "redirect not canonical",
			routes: []RouteDescriptor{
				{Path: "/", Redirect: "/home/"},
				{Path: "/home", Component: home},
			},
			want: ErrRedirectTarget,
		},
		{
			name: "redirect query on non-canonical path",
			routes: []RouteDescriptor{
				{Path: "/", Redirect: "/home/?tab=all"},
				{Path: "/home", Component: home},
			},
			want: ErrRedirectTarget,
		},
		{
			name: "redirect loop",
			routes: []RouteDescriptor{
				{Path: "/a", Redirect: "/b"},
				{Path: "/b", Redirect: "/a"},
			},
			want: ErrRedirectLoop,
		},
		{
			name:   "self redirect",
			routes: []RouteDescriptor{{Path: "/a", Redirect: "/a"}},
			want:   ErrRedirectLoop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{History: history.NewMemory(), Routes: tt.routes})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err is %T, want *ConfigError", err)
			}
			if cfgErr.Index != tt.index {
				t.Errorf("Index = %d, want %d", cfgErr.Index, tt.index)
			}
		})
	}
}

func TestRoutesIsACopy(t *testing.T) {
	r := newTestRouter(t)

	routes := r.Routes()
	if len(routes) != len(testRoutes()) {
		t.Fatalf("len(Routes()) = %d", len(routes))
	}
	routes[1].Name = "Mutated"

	if got := r.Routes()[1].Name; got != "Home" {
		t.Errorf("table mutated through Routes(): %q", got)
	}
}

func TestNewCopiesInputTable(t *testing.T) {
	routes := testRoutes()
	r, err := New(Options{History: history.NewMemory(), Routes: routes})
	if err != nil {
		t.Fatal(err)
	}
	routes[2].Component = home

	loc, err := r.Resolve("/users")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Route.Component != users {
		t.Error("router observed a mutation of the caller's slice")
	}
}

func TestResolve(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path     string
		name     string
		params   map[string]string
		fullPath string
		from     string
	}{
		{path: "/home", name: "Home", fullPath: "/home"},
		{path: "/", name: "Home", fullPath: "/home", from: "/"},
		{path: "", name: "Home", fullPath: "/home", from: "/"},
		{path: "/users/", name: "Users", fullPath: "/users"},
		{path: "//users", name: "Users", fullPath: "/users"},
		{path: "/users/new", name: "NewUser", fullPath: "/users/new"},
		{path: "/users/42", name: "User", params: map[string]string{"id": "42"}, fullPath: "/users/42"},
		{path: "/users/a%20b", name: "User", params: map[string]string{"id": "a b"}, fullPath: "/users/a%20b"},
		{path: "/files/a/b/c.txt", name: "Files", params: map[string]string{"rest": "a/b/c.txt"}, fullPath: "/files/a/b/c.txt"},
		{path: "/people?sort=name#top", name: "Users", fullPath: "/users?sort=name#top", from: "/people"},
		{path: "/?tab=1", name: "Home", fullPath: "/home?tab=1", from: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := r.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.path, err)
			}
			if loc.Name != tt.name {
				t.Errorf("Name = %q, want %q", loc.Name, tt.name)
			}
			if loc.FullPath != tt.fullPath {
				t.Errorf("FullPath = %q, want %q", loc.FullPath, tt.fullPath)
			}
			if loc.RedirectedFrom != tt.from {
				t.Errorf("RedirectedFrom = %q, want %q", loc.RedirectedFrom, tt.from)
			}
			for k, v := range tt.params {
				if loc.Params[k] != v {
					t.Errorf("Params[%q] = %q, want %q", k, loc.Params[k], v)
				}
			}
			if loc.Route.IsRedirect() {
				t.Error("resolved to a redirect descriptor")
			}
		})
	}
}

func TestRedirectTargetQueryAndHash(t *testing.T) {
	r, err := New(Options{History: history.NewMemory(), Routes: []RouteDescriptor{
		{Path: "/users", Name: "Users", Component: users},
		{Path: "/staff", Redirect: "/users?role=staff"},
		{Path: "/team", Redirect: "/users#members"},
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		path     string
		fullPath string
	}{
		{"/staff", "/users?role=staff"},
		{"/staff?role=admin#top", "/users?role=staff#top"},
		{"/team", "/users#members"},
		{"/team?sort=name#top", "/users?sort=name#members"},
	}
	for _, tt := range tests {
		loc, err := r.Resolve(tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.path, err)
		}
		if loc.FullPath != tt.fullPath || loc.Name != "Users" {
			t.Errorf("Resolve(%q) = %s %q, want Users %q", tt.path, loc.Name, loc.FullPath, tt.fullPath)
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	r := newTestRouter(t)

	for _, p := range []string{"/unknown", "/users/1/edit", "/files"} {
		loc, err := r.Resolve(p)
		if loc != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", p, loc)
		}
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Resolve(%q) err = %v, want ErrNoMatch", p, err)
		}
		if !IsNavigationFailure(err, NavigationNoMatch) {
			t.Errorf("Resolve(%q) err kind mismatch: %v", p, err)
		}
	}
}

func TestResolveInvalid(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.Resolve("https://evil.example/users")
	if !IsNavigationFailure(err, NavigationInvalid) {
		t.Fatalf("err = %v, want invalid navigation", err)
	}
}

func TestResolveQueryValues(t *testing.T) {
	r := newTestRouter(t)
	loc, err := r.Resolve("/users?page=2&sort=name")
	if err != nil {
		t.Fatal(err)
	}
	q := loc.QueryValues()
	if q.Get("page") != "2" || q.Get("sort") != "name" {
		t.Errorf("QueryValues = %v", q)
	}
}

func TestResolveName(t *testing.T) {
	r := newTestRouter(t)

	loc, err := r.ResolveName("User", map[string]string{"id": "a/b"})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/users/a%2Fb" {
		t.Errorf("Path = %q, want /users/a%%2Fb", loc.Path)
	}

	loc, err = r.ResolveName("Files", map[string]string{"rest": "docs/readme.md"})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Params["rest"] != "docs/readme.md" {
		t.Errorf("rest = %q", loc.Params["rest"])
	}

	if _, err := r.ResolveName("User", nil); !errors.Is(err, ErrMissingParam) {
		t.Errorf("missing param err = %v", err)
	}
	if _, err := r.ResolveName("Nope", nil); !errors.Is(err, ErrUnknownName) {
		t.Errorf("unknown name err = %v", err)
	}
}

func TestLookup(t *testing.T) {
	r := newTestRouter(t)

	d, ok := r.Lookup("Users")
	if !ok || d.Path != "/users" || d.Component != users {
		t.Errorf("Lookup(Users) = %+v, %v", d, ok)
	}
	if _, ok := r.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should fail")
	}
}

func TestHref(t *testing.T) {
	r, err := New(Options{History: history.NewWeb("/admin"), Routes: testRoutes()})
	if err != nil {
		t.Fatal(err)
	}
	loc, _ := r.Resolve("/users?page=2")
	if got := r.Href(loc); got != "/admin/users?page=2" {
		t.Errorf("Href = %q", got)
	}
	if got := r.Href(nil); got != "/admin/" {
		t.Errorf("Href(nil) = %q", got)
	}
}

func TestNavLinks(t *testing.T) {
	r := newTestRouter(t)
	loc, _ := r.Resolve("/users")

	links := r.NavLinks(loc)
	var names []string
	for _, l := range links {
		names = append(names, l.Name)
		if l.Active != (l.Name == "Users") {
			t.Errorf("link %s Active = %v", l.Name, l.Active)
		}
	}
	want := []string{"Home", "Users", "NewUser"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("NavLinks names = %v, want %v", names, want)
	}
}

func TestNavigationErrorMessages(t *testing.T) {
	err := &NavigationError{Kind: NavigationDuplicated, From: "/a", To: "/a", Err: ErrDuplicated}
	if got := err.Error(); got != `navigation duplicated from "/a" to "/a": already at location` {
		t.Errorf("Error() = %q", got)
	}
	cfg := &ConfigError{Index: 2, Path: "/x", Err: ErrDuplicatePath}
	if got := cfg.Error(); got != `router: route 2 ("/x"): duplicate route path` {
		t.Errorf("Error() = %q", got)
	}
	if IsNavigationFailure(cfg) {
		t.Error("ConfigError is not a navigation failure")
	}
}
