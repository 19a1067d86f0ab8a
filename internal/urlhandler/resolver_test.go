package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver(DefaultSecurityConfig())

	tests := []struct {
		name         string
		raw          string
		base         string
		expected     string
		fragment     string
		hasFragment  bool
		hadUserinfo  bool
		expectedKind ErrorKind
	}{
		{name: "absolute unchanged", raw: "https://docs.example.com/a/../b", expected: "https://docs.example.com/a/../b"},
		{name: "sibling file", raw: "install.html", base: "https://docs.example.com/guide/index.html", expected: "https://docs.example.com/guide/install.html"},
		{name: "parent directory", raw: "../images/logo.png", base: "https://docs.example.com/guide/page.html", expected: "https://docs.example.com/images/logo.png"},
		{name: "directory-like base", raw: "install", base: "https://docs.example.com/guide", expected: "https://docs.example.com/guide/install"},
		{name: "base with query is not directory-like", raw: "install", base: "https://docs.example.com/guide?v=2", expected: "https://docs.example.com/install"},
		{name: "query-only reference", raw: "?page=2", base: "https://docs.example.com/list", expected: "https://docs.example.com/list?page=2"},
		{name: "absolute path", raw: "/api/", base: "https://docs.example.com/guide/page.html", expected: "https://docs.example.com/api/"},
		{name: "protocol relative with base", raw: "//cdn.example.com/app.js", base: "https://docs.example.com/", expected: "https://cdn.example.com/app.js"},
		{name: "protocol relative without base", raw: "//cdn.example.com/app.js", expected: "http://cdn.example.com/app.js"},
		{name: "bare host", raw: "docs.example.com/guide", expected: "http://docs.example.com/guide"},
		{name: "bare host with port", raw: "docs.example.com:8080/guide", expected: "http://docs.example.com:8080/guide"},
		{name: "bare localhost", raw: "localhost:3000", expected: "http://localhost:3000"},
		{name: "schemeless base", raw: "b.html", base: "docs.example.com/a/", expected: "http://docs.example.com/a/b.html"},
		{name: "backslashes", raw: `..\assets\app.css`, base: "https://docs.example.com/guide/page.html", expected: "https://docs.example.com/assets/app.css"},
		{name: "backslash in query kept", raw: `https://docs.example.com/a\b?path=c:\d`, expected: `https://docs.example.com/a/b?path=c:\d`},
		{name: "fragment stripped", raw: "page.html#setup", base: "https://docs.example.com/guide/", expected: "https://docs.example.com/guide/page.html", fragment: "setup", hasFragment: true},
		{name: "fragment only", raw: "#top", base: "https://docs.example.com/guide/", expected: "https://docs.example.com/guide/", fragment: "top", hasFragment: true},
		{name: "userinfo stripped", raw: "https://bob:pw@docs.example.com/", expected: "https://docs.example.com/", hadUserinfo: true},
		{name: "surrounding whitespace", raw: "  https://docs.example.com/  ", expected: "https://docs.example.com/"},
		{name: "empty", raw: "", expectedKind: KindEmptyInput},
		{name: "fragment without base", raw: "#top", expectedKind: KindEmptyInput},
		{name: "script scheme with base", raw: "javascript:alert(1)", base: "https://docs.example.com/", expectedKind: KindDisallowedScheme},
		{name: "unc path", raw: `\\server\share`, expectedKind: KindUncPathDisallowed},
		{name: "trailing line break trimmed", raw: "https://docs.example.com/\r\n", expected: "https://docs.example.com/"},
		{name: "embedded control character", raw: "https://docs.example.com/a\rb", expectedKind: KindControlCharacter},
		{name: "stray percent in reference", raw: "100%.html", base: "https://docs.example.com/guide/", expected: "https://docs.example.com/guide/100%25.html"},
		{name: "malformed escape in reference", raw: "notes%zz.html", base: "https://docs.example.com/guide/", expected: "https://docs.example.com/guide/notes%25zz.html"},
		{name: "valid escape in reference kept", raw: "a%20b.html", base: "https://docs.example.com/guide/", expected: "https://docs.example.com/guide/a%20b.html"},
		{name: "unparseable reference", raw: ":no-scheme", base: "https://docs.example.com/", expectedKind: KindResolutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.raw, tt.base)
			if tt.expectedKind != KindNone {
				require.NotNil(t, err)
				assert.Equal(t, tt.expectedKind, err.Kind)
				return
			}
			require.Nil(t, err, "unexpected error: %v", err)
			assert.Equal(t, tt.expected, got.URL)
			assert.Equal(t, tt.fragment, got.Fragment)
			assert.Equal(t, tt.hasFragment, got.HasFragment)
			assert.Equal(t, tt.hadUserinfo, got.HadUserinfo)
		})
	}
}

func TestLeadingScheme(t *testing.T) {
	tests := []struct {
		in     string
		scheme string
		ok     bool
	}{
		{"https://example.com", "https", true},
		{"JavaScript:alert(1)", "javascript", true},
		{"mailto:a@example.com", "mailto", true},
		{"example.com:8080/x", "", false},
		{"localhost:3000", "", false},
		{"/relative/path", "", false},
		{"1http://x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			scheme, ok := leadingScheme(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.scheme, scheme)
		})
	}
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser(DefaultSecurityConfig())

	p, err := parser.Parse(ResolvedURL{URL: "HTTPS://Docs.Example.COM.:8443/a/b/?x=1"})
	require.Nil(t, err)
	assert.Equal(t, "https", p.Scheme)
	assert.True(t, p.HasAuthority)
	assert.Equal(t, "Docs.Example.COM.", p.Host)
	assert.Equal(t, "docs.example.com", p.Hostname())
	assert.Equal(t, "8443", p.Port)
	assert.Equal(t, "/a/b/", p.Path)
	assert.True(t, p.HasQuery)
	assert.Equal(t, "x=1", p.Query)
	assert.True(t, p.HadTrailingSlash)

	p, err = parser.Parse(ResolvedURL{URL: "http://[2001:db8::1]:80/"})
	require.Nil(t, err)
	assert.True(t, p.IsIPv6Literal)
	assert.Equal(t, "2001:db8::1", p.Host)
	assert.Equal(t, "80", p.Port)

	_, err = parser.Parse(ResolvedURL{URL: "data:text/plain,hi"})
	require.NotNil(t, err)
	assert.Equal(t, KindDisallowedScheme, err.Kind)
}

func TestEngine_StrayPercentRelativeMatchesAbsolute(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		relative string
		absolute string
	}{
		{"100%.html", "https://docs.example.com/guide/100%.html"},
		{"notes%zz.html", "https://docs.example.com/guide/notes%zz.html"},
		{"50%", "https://docs.example.com/guide/50%"},
	}

	for _, tt := range tests {
		t.Run(tt.relative, func(t *testing.T) {
			rel := engine.Create(tt.relative, "https://docs.example.com/guide/")
			abs := engine.Create(tt.absolute, "")
			require.True(t, rel.IsValid(), "relative: %v", rel.Err())
			require.True(t, abs.IsValid(), "absolute: %v", abs.Err())
			assert.Equal(t, abs.NormalizedURL(), rel.NormalizedURL())
		})
	}
}

func TestEscapeStrayPercents(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"plain", "plain"},
		{"%", "%25"},
		{"%4", "%254"},
		{"%41", "%41"},
		{"%zz%2f", "%25zz%2f"},
		{"100%", "100%25"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeStrayPercents(tt.in))
		})
	}
}
