package router

// Link is a navigation entry for a named component route.
type Link struct {
	Name   string
	Path   string
	Href   string
	Active bool
}

// NavLinks returns a link for every named, parameterless component route in
// table order. A link is active when current resolved to its route.
func (r *Router) NavLinks(current *Location) []Link {
	links := make([]Link, 0, len(r.table.routes))
	for _, d := range r.table.routes {
		if d.Name == "" || d.IsRedirect() || !isStatic(d.Path) {
			continue
		}
		links = append(links, Link{
			Name:   d.Name,
			Path:   d.Path,
			Href:   r.history.CreateHref(d.Path),
			Active: current != nil && current.Name == d.Name,
		})
	}
	return links
}

func isStatic(pattern string) bool {
	for _, seg := range splitPath(pattern) {
		if seg[0] == ':' || seg[0] == '*' {
			return false
		}
	}
	return true
}
