package resolve

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Dated TR paths: /TR/2023/WD-css-color-4-20230101/
	datedTRRe = regexp.MustCompile(`^/TR/\d{4}/[A-Z]+-(.+)-\d{8}/?$`)

	// Plain TR paths: /TR/css-color-4/
	trRe = regexp.MustCompile(`^/TR/([^/]+)`)

	// Trailing numeric level: css-color-4
	levelRe = regexp.MustCompile(`^(.+?)-(\d+)$`)

	sanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Shortname derives a spec shortname from well-known URL shapes.
// W3C TR paths (dated and undated), WHATWG per-spec subdomains, CSSWG
// and FXTF draft hosts, GitHub Pages project paths and the Khronos
// registry are recognized; anything else falls back to a sanitized
// form of the URL itself.
func Shortname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return sanitize(rawURL)
	}

	host := strings.ToLower(u.Host)
	switch {
	case host == "www.w3.org" || host == "w3.org":
		if m := datedTRRe.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}
		if m := trRe.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}

	case strings.HasSuffix(host, ".spec.whatwg.org"):
		return strings.TrimSuffix(host, ".spec.whatwg.org")

	case host == "drafts.csswg.org" || host == "drafts.css-houdini.org" || host == "drafts.fxtf.org":
		if seg := firstPathSegment(u.Path); seg != "" {
			return seg
		}

	case strings.HasSuffix(host, ".github.io"):
		if seg := firstPathSegment(u.Path); seg != "" {
			return seg
		}

	case host == "registry.khronos.org":
		// /webgl/specs/latest/2.0/ identifies webgl2
		segs := pathSegments(u.Path)
		if len(segs) > 0 {
			name := segs[0]
			if last := segs[len(segs)-1]; last != name {
				if major, _, found := strings.Cut(last, "."); found {
					if _, err := strconv.Atoi(major); err == nil {
						return name + major
					}
				}
			}
			return name
		}
	}

	return sanitize(rawURL)
}

// Series splits a shortname into its series shortname and numeric
// version. Unversioned shortnames report version 0.
func Series(shortname string) (string, int) {
	m := levelRe.FindStringSubmatch(shortname)
	if m == nil {
		return shortname, 0
	}
	v, err := strconv.Atoi(m[2])
	if err != nil {
		return shortname, 0
	}
	return m[1], v
}

func firstPathSegment(path string) string {
	segs := pathSegments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

func pathSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// sanitize turns an unrecognized URL into a usable shortname.
func sanitize(rawURL string) string {
	s := strings.ToLower(rawURL)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = sanitizeRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
