// Package routepath normalizes navigation paths before they reach the router.
//
// Every path that enters the router (from an HTTP request, a WebSocket
// navigation message, a redirect target or a history entry) goes through
// Canonicalize so that "/users/", "//users" and "/admin/../users" all
// resolve to the same route.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result is a canonicalized navigation target.
type Result struct {
	// Path is the canonical path, always starting with "/".
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Hash is the fragment without the leading "#".
	Hash string

	// Changed reports whether Path differs from the input path.
	Changed bool
}

// FullPath rebuilds path, query and hash.
func (r Result) FullPath() string {
	s := r.Path
	if r.Query != "" {
		s += "?" + r.Query
	}
	if r.Hash != "" {
		s += "#" + r.Hash
	}
	return s
}

// Canonicalization errors.
var (
	ErrAbsoluteURL          = errors.New("absolute URL not allowed")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize normalizes a navigation target.
//
// The path component is rewritten:
//   - a leading "/" is added when missing
//   - repeated slashes collapse, leading ones included (//users → /users)
//   - "." segments are dropped and ".." segments resolved
//   - a trailing slash is removed, except for "/"
//
// Absolute http(s) URLs, backslashes, NUL bytes, malformed percent escapes and ".."
// above the root are rejected. Query and hash are carried through untouched.
func Canonicalize(input string) (Result, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return Result{}, ErrAbsoluteURL
	}

	rest, hash, _ := strings.Cut(input, "#")
	path, query, _ := strings.Cut(rest, "?")

	if path == "" {
		return Result{Path: "/", Query: query, Hash: hash, Changed: true}, nil
	}

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := checkEscapes(path); err != nil {
			return Result{}, err
		}
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	canonical := "/" + strings.Join(segments, "/")
	return Result{
		Path:    canonical,
		Query:   query,
		Hash:    hash,
		Changed: canonical != path,
	}, nil
}

// IsCanonical reports whether p is already a canonical path with no query
// or hash.
func IsCanonical(p string) bool {
	if strings.ContainsAny(p, "?#") {
		return false
	}
	res, err := Canonicalize(p)
	return err == nil && !res.Changed
}

// Segments splits a canonical path into decoded segments. The root path has
// no segments.
func Segments(p string) ([]string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, nil
	}
	raw := strings.Split(p, "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		out = append(out, decoded)
	}
	return out, nil
}

// Join prefixes a route path with a base. An empty or "/" base is a no-op.
func Join(base, p string) string {
	base = strings.TrimSuffix(base, "/")
	if p == "" {
		p = "/"
	}
	if base == "" {
		return p
	}
	if p == "/" {
		return base + "/"
	}
	return base + p
}

func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
