package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/internal/pages"
	"github.com/vango-dev/adminshell/internal/publish"
	"github.com/vango-dev/adminshell/pkg/history"
	"github.com/vango-dev/adminshell/pkg/router"
)

// locationResponse is the JSON form of a resolved location.
type locationResponse struct {
	Path           string            `json:"path"`
	FullPath       string            `json:"fullPath"`
	Query          string            `json:"query,omitempty"`
	Hash           string            `json:"hash,omitempty"`
	Name           string            `json:"name,omitempty"`
	Route          string            `json:"route"`
	Component      string            `json:"component,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
	RedirectedFrom string            `json:"redirectedFrom,omitempty"`
	Href           string            `json:"href"`
}

func newLocationResponse(loc *router.Location, href string) *locationResponse {
	resp := &locationResponse{
		Path:           loc.Path,
		FullPath:       loc.FullPath,
		Query:          loc.Query,
		Hash:           loc.Hash,
		Name:           loc.Name,
		Route:          loc.Route.Path,
		RedirectedFrom: loc.RedirectedFrom,
		Href:           href,
	}
	if loc.Route.Component != nil {
		resp.Component = loc.Route.Component.Name()
	}
	if len(loc.Params) > 0 {
		resp.Params = loc.Params
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// navigationError maps a router failure to its coded application error.
func navigationError(err error, target string) *errors.Error {
	switch {
	case router.IsNavigationFailure(err, router.NavigationNoMatch):
		return errors.New("E101").WithDetail("No route matches " + target).Wrap(err)
	case router.IsNavigationFailure(err, router.NavigationInvalid):
		return errors.New("E102").WithDetail(target + " is not a valid navigation path").Wrap(err)
	case router.IsNavigationFailure(err, router.NavigationAborted):
		return errors.New("E104").WithDetail("Navigation to " + target + " was aborted").Wrap(err)
	case router.IsNavigationFailure(err, router.NavigationDuplicated):
		return errors.New("E105").WithDetail(target + " is already the current location").Wrap(err)
	default:
		return errors.FromError(err, "E101")
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publish.BuildManifest(s.router, s.cfg))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("path")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errors.New("E102").WithDetail("The path query parameter is required"))
		return
	}

	loc, err := s.resolve(r.Context(), target)
	if err != nil {
		status := http.StatusNotFound
		if router.IsNavigationFailure(err, router.NavigationInvalid) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, navigationError(err, target))
		return
	}
	writeJSON(w, http.StatusOK, newLocationResponse(loc, s.router.Href(loc)))
}

// routeTarget extracts the route path from a page request. Hash history
// keeps the route in the fragment, which never reaches the server, so every
// request under the base resolves the root.
func (s *Server) routeTarget(r *http.Request) (string, bool) {
	h := s.router.History()
	if _, ok := h.(*history.Hash); ok {
		p := strings.TrimSuffix(r.URL.EscapedPath(), "/")
		return "/", p == h.Base()
	}
	target := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return history.StripBase(h.Base(), target)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	target, ok := s.routeTarget(r)
	if !ok {
		s.renderNotFound(w, r.URL.Path)
		return
	}

	loc, err := s.resolve(r.Context(), target)
	switch {
	case router.IsNavigationFailure(err, router.NavigationInvalid):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	case err != nil:
		s.renderNotFound(w, r.URL.Path)
		return
	}

	// Hash history cannot express the redirect in a server response, so the
	// target renders in place.
	if _, hash := s.router.History().(*history.Hash); loc.RedirectedFrom != "" && !hash {
		http.Redirect(w, r, s.router.Href(loc), http.StatusFound)
		return
	}

	content, err := pages.RenderComponent(loc.Route.Component, loc)
	if err != nil {
		s.logger.Error("render failed", "route", loc.Route.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.renderShell(w, http.StatusOK, pages.ShellData{
		Title:   pages.TitleOf(loc.Route.Component),
		Route:   loc.Name,
		Links:   s.router.NavLinks(loc),
		Content: content,
	})
}

func (s *Server) renderNotFound(w http.ResponseWriter, path string) {
	content, err := pages.RenderNotFound(path, s.router.Href(nil))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	s.renderShell(w, http.StatusNotFound, pages.ShellData{
		Title:   "Not Found",
		Links:   s.router.NavLinks(nil),
		Content: content,
	})
}

// renderShell buffers the document so a template failure can still become a
// 500.
func (s *Server) renderShell(w http.ResponseWriter, status int, data pages.ShellData) {
	data.AppName = s.cfg.Name
	data.HomeHref = s.router.Href(nil)

	var buf bytes.Buffer
	if err := pages.RenderShell(&buf, data); err != nil {
		s.logger.Error("render shell failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
