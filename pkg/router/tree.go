package router

import "strings"

// routeNode is a node in the radix tree.
type routeNode struct {
	// segment is the static path segment this node matches
	segment string

	// paramName is set on :param and *catchAll nodes
	paramName string

	isParam    bool
	isCatchAll bool

	// route is the index into the router's table, -1 when no route ends here
	route int

	children      []*routeNode
	paramChild    *routeNode
	catchAllChild *routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment, route: -1}
}

// findChild finds a child node with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

func (n *routeNode) addParamChild(name string) (*routeNode, error) {
	if n.paramChild != nil {
		if n.paramChild.paramName != name {
			return nil, ErrConflictingParam
		}
		return n.paramChild, nil
	}
	child := newRouteNode("")
	child.isParam = true
	child.paramName = name
	n.paramChild = child
	return child, nil
}

func (n *routeNode) addCatchAllChild(name string) (*routeNode, error) {
	if n.catchAllChild != nil {
		if n.catchAllChild.paramName != name {
			return nil, ErrConflictingParam
		}
		return n.catchAllChild, nil
	}
	child := newRouteNode("")
	child.isCatchAll = true
	child.paramName = name
	n.catchAllChild = child
	return child, nil
}

// insert adds the pattern to the tree and returns the node it ends on.
// The pattern must already have passed validPattern.
func (n *routeNode) insert(pattern string) (*routeNode, error) {
	current := n
	for _, seg := range splitPath(pattern) {
		var err error
		switch {
		case strings.HasPrefix(seg, "*"):
			current, err = current.addCatchAllChild(seg[1:])
		case strings.HasPrefix(seg, ":"):
			current, err = current.addParamChild(seg[1:])
		default:
			current = current.addChild(seg)
		}
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// match finds the node for the given decoded segments, filling params.
// Static children are tried first, then the param child, then catch-all.
func (n *routeNode) match(segments []string, params map[string]string) (*routeNode, bool) {
	if len(segments) == 0 {
		if n.route >= 0 {
			return n, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if node, ok := child.match(remaining, params); ok {
			return node, true
		}
	}

	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if node, ok := n.paramChild.match(remaining, params); ok {
			return node, true
		}
		// Backtrack on failure
		delete(params, n.paramChild.paramName)
	}

	if n.catchAllChild != nil && n.catchAllChild.route >= 0 {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild, true
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// validPattern checks parameter syntax: names are non-empty, unique within
// the pattern, and a catch-all may only be the last segment.
func validPattern(pattern string) bool {
	segments := splitPath(pattern)
	seen := make(map[string]bool)
	for i, seg := range segments {
		var name string
		switch {
		case strings.HasPrefix(seg, "*"):
			if i != len(segments)-1 {
				return false
			}
			name = seg[1:]
		case strings.HasPrefix(seg, ":"):
			name = seg[1:]
		default:
			continue
		}
		if name == "" || strings.ContainsAny(name, ":*") || seen[name] {
			return false
		}
		seen[name] = true
	}
	return true
}
