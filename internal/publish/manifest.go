// Package publish writes the route manifest to a file or an S3 bucket so
// other tooling (edge rewrites, docs, audits) can see which paths the
// console serves.
package publish

import (
	"encoding/json"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/pkg/router"
)

// ManifestVersion is bumped on incompatible manifest changes.
const ManifestVersion = 1

// Manifest describes a route table and how its paths are addressed.
type Manifest struct {
	Version int             `json:"version"`
	Name    string          `json:"name,omitempty"`
	History ManifestHistory `json:"history"`
	Routes  []ManifestRoute `json:"routes"`
}

// ManifestHistory records the history mode hrefs were rendered with.
type ManifestHistory struct {
	Mode string `json:"mode"`
	Base string `json:"base,omitempty"`
}

// ManifestRoute is one table entry.
type ManifestRoute struct {
	Path      string `json:"path"`
	Name      string `json:"name,omitempty"`
	Component string `json:"component,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	Href      string `json:"href"`
}

// BuildManifest describes r's table. cfg supplies the name and history
// settings; r's own history renders the hrefs.
func BuildManifest(r *router.Router, cfg *config.Config) Manifest {
	m := Manifest{
		Version: ManifestVersion,
		Name:    cfg.Name,
		History: ManifestHistory{Mode: cfg.History.Mode, Base: r.History().Base()},
	}
	for _, d := range r.Routes() {
		mr := ManifestRoute{
			Path:     d.Path,
			Name:     d.Name,
			Redirect: d.Redirect,
			Href:     r.History().CreateHref(d.Path),
		}
		if d.Component != nil {
			mr.Component = d.Component.Name()
		}
		m.Routes = append(m.Routes, mr)
	}
	return m
}

// Encode renders m as indented JSON with a trailing newline.
func Encode(m Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.New("E162").Wrap(err)
	}
	return append(data, '\n'), nil
}
