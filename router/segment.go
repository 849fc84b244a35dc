package router

import (
	"net/url"
	"strings"
)

// Split returns the non-empty segments of the path component of p.
// p may be a bare path ("/pages/16?limit=2") or a full URL
// ("https://example.com/pages/16#top"); scheme, host, query and fragment
// are ignored. Every segment is trimmed of surrounding white space and
// empty segments are dropped, so "/a//b/" yields ["a", "b"].
// An empty or "/"-only path yields an empty slice.
//
// p is split in its escaped form and each segment is unescaped afterwards,
// so an encoded slash stays inside its segment: "/a/b%2Fc" yields
// ["a", "b/c"]. A segment with an invalid escape is kept as written.
func Split(p string) []string {
	return splitSegments(pathComponent(p))
}

// pathComponent extracts the escaped path from a bare path or an
// absolute URL.
func pathComponent(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	// Only absolute URLs go through url.Parse: a bare "//a/b" would
	// otherwise be read as a network-path reference with host "a".
	if strings.Contains(p, "://") {
		if u, err := url.Parse(p); err == nil {
			return u.EscapedPath()
		}
	}

	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	return p
}

func splitSegments(p string) []string {
	segments := make([]string, 0, strings.Count(p, "/")+1)

	for part := range strings.SplitSeq(p, "/") {
		if v, err := url.PathUnescape(part); err == nil {
			part = v
		}
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}
