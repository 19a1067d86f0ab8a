package urlhandler

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// uriPattern is the component splitter from RFC 3986 appendix B.
var uriPattern = regexp.MustCompile(`(?s)^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?$`)

// ResolvedURL is an absolute (or unresolvable relative) URL string with the
// fragment and userinfo removed.
type ResolvedURL struct {
	URL         string
	Fragment    string
	HasFragment bool
	HadUserinfo bool
}

// Resolver joins possibly-relative references against an optional base.
type Resolver struct {
	cfg *SecurityConfig
}

// NewResolver creates a Resolver bound to cfg.
func NewResolver(cfg *SecurityConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve turns raw into an absolute URL string. base may be empty.
// On failure the returned ResolvedURL still holds the best-effort string.
func (r *Resolver) Resolve(raw, base string) (ResolvedURL, *URLError) {
	raw = strings.TrimSpace(raw)
	base = strings.TrimSpace(base)
	result := ResolvedURL{URL: raw}

	if raw == "" {
		return result, newURLError(KindEmptyInput, "URL is empty or only whitespace")
	}
	if strings.IndexByte(raw, 0) >= 0 {
		return result, newURLError(KindNullByte, "URL contains a null byte")
	}
	if controlCharsPattern.MatchString(raw) {
		return result, newURLError(KindControlCharacter, "URL contains control characters")
	}
	// Checked before any join so a base can never mask the scheme.
	if scheme, ok := leadingScheme(raw); ok && r.cfg.IsSchemeDisallowed(scheme) {
		return result, newURLError(KindDisallowedScheme, "scheme '%s' is not allowed", scheme)
	}
	if strings.HasPrefix(raw, `\\`) {
		return result, newURLError(KindUncPathDisallowed, "UNC paths are not allowed")
	}

	ref, fragment, hasFragment := splitFragment(raw)
	ref = forwardSlashes(ref)
	result.Fragment = fragment
	result.HasFragment = hasFragment
	result.URL = ref

	var resolved string
	switch {
	case hasScheme(ref):
		resolved = ref
	case strings.HasPrefix(ref, "//"):
		scheme := "http"
		if s, ok := leadingScheme(base); ok {
			scheme = s
		}
		resolved = scheme + ":" + ref
	case base == "":
		if ref == "" {
			return result, newURLError(KindEmptyInput, "URL has only a fragment and no base")
		}
		if looksLikeHost(ref) {
			resolved = "http://" + ref
		} else {
			resolved = ref
		}
	default:
		joined, err := r.join(ref, base)
		if err != nil {
			return result, err
		}
		resolved = joined
	}

	result.URL, result.HadUserinfo = stripUserinfo(resolved)
	return result, nil
}

// join performs RFC 3986 reference resolution of ref against base.
func (r *Resolver) join(ref, base string) (string, *URLError) {
	baseStr, _, _ := splitFragment(base)
	baseStr = forwardSlashes(baseStr)
	if !hasScheme(baseStr) {
		if strings.HasPrefix(baseStr, "//") {
			baseStr = "http:" + baseStr
		} else {
			baseStr = "http://" + baseStr
		}
	}

	if ref == "" {
		return baseStr, nil
	}

	baseURL, err := url.Parse(escapeStrayPercents(baseStr))
	if err != nil {
		return "", wrapURLError(KindResolutionFailed, err, "could not parse base URL '"+baseStr+"'")
	}
	refURL, err := url.Parse(escapeStrayPercents(ref))
	if err != nil {
		return "", wrapURLError(KindResolutionFailed, err, "could not parse reference '"+ref+"'")
	}

	if refURL.Path != "" && isDirectoryLike(baseURL) {
		baseURL.Path += "/"
		if baseURL.RawPath != "" {
			baseURL.RawPath += "/"
		}
	}

	resolved := baseURL.ResolveReference(refURL)
	if resolved == nil || resolved.Scheme == "" {
		return "", newURLError(KindResolutionFailed, "error resolving '%s' with base '%s'", ref, baseStr)
	}
	return resolved.String(), nil
}

// isDirectoryLike reports whether base names a directory that lacks its trailing slash.
func isDirectoryLike(base *url.URL) bool {
	if base.RawQuery != "" || base.ForceQuery || base.Opaque != "" {
		return false
	}
	if strings.HasSuffix(base.Path, "/") {
		return false
	}
	return !strings.Contains(path.Base("/"+base.Path), ".")
}

// leadingScheme returns the lower-cased pre-colon token of s when it is a scheme.
// "example.com:8080" is a host with a port, not a scheme.
func leadingScheme(s string) (string, bool) {
	m := schemePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	token := strings.ToLower(m[1])
	rest := s[len(m[0]):]
	if (strings.Contains(token, ".") || token == "localhost") && rest != "" && rest[0] >= '0' && rest[0] <= '9' {
		return "", false
	}
	return token, true
}

func hasScheme(s string) bool {
	_, ok := leadingScheme(s)
	return ok
}

// looksLikeHost reports whether a scheme-less string starts with something host-shaped.
func looksLikeHost(s string) bool {
	head := s
	if i := strings.IndexAny(head, "/?"); i >= 0 {
		head = head[:i]
	}
	if h, _, ok := strings.Cut(head, ":"); ok {
		head = h
	}
	if head == "" || strings.HasPrefix(head, ".") {
		return false
	}
	return strings.Contains(head, ".") || strings.EqualFold(head, "localhost")
}

func splitFragment(s string) (string, string, bool) {
	before, after, found := strings.Cut(s, "#")
	return before, after, found
}

// forwardSlashes converts Windows-style separators before the query to '/'.
func forwardSlashes(s string) string {
	head, tail, hasQuery := strings.Cut(s, "?")
	if !strings.Contains(head, `\`) {
		return s
	}
	head = strings.ReplaceAll(head, `\`, "/")
	if hasQuery {
		return head + "?" + tail
	}
	return head
}

// stripUserinfo removes "user:pass@" from the authority of s.
func stripUserinfo(s string) (string, bool) {
	m := uriPattern.FindStringSubmatchIndex(s)
	if m == nil || m[8] < 0 {
		return s, false
	}
	authority := s[m[8]:m[9]]
	at := strings.LastIndexByte(authority, '@')
	if at < 0 {
		return s, false
	}
	return s[:m[8]] + authority[at+1:] + s[m[9]:], true
}
