package urlhandler

import (
	"strings"
)

// ParsedURL holds the raw components of a resolved URL. Values are as written,
// except Scheme which is lower-cased.
type ParsedURL struct {
	Resolved         string
	Scheme           string
	HasAuthority     bool
	Host             string
	IsIPv6Literal    bool
	Port             string
	HasPort          bool
	Path             string
	Query            string
	HasQuery         bool
	Fragment         string
	HasFragment      bool
	HadUserinfo      bool
	HadTrailingSlash bool
}

// Hostname returns the lower-cased host without a trailing dot.
func (p ParsedURL) Hostname() string {
	return strings.TrimSuffix(strings.ToLower(p.Host), ".")
}

// Parser splits resolved URLs into components.
type Parser struct {
	cfg *SecurityConfig
}

// NewParser creates a Parser bound to cfg.
func NewParser(cfg *SecurityConfig) *Parser {
	return &Parser{cfg: cfg}
}

// Parse splits r into components, drops any userinfo and rejects disallowed schemes.
func (p *Parser) Parse(r ResolvedURL) (ParsedURL, *URLError) {
	parsed := ParsedURL{
		Resolved:    r.URL,
		Fragment:    r.Fragment,
		HasFragment: r.HasFragment,
		HadUserinfo: r.HadUserinfo,
	}

	m := uriPattern.FindStringSubmatch(r.URL)
	if m == nil {
		return parsed, newURLError(KindResolutionFailed, "URL '%s' is not syntactically parseable", r.URL)
	}

	parsed.Scheme = strings.ToLower(m[2])
	if p.cfg.IsSchemeDisallowed(parsed.Scheme) {
		return parsed, newURLError(KindDisallowedScheme, "scheme '%s' is not allowed", parsed.Scheme)
	}

	parsed.HasAuthority = m[3] != ""
	parsed.Path = m[5]
	parsed.HasQuery = m[6] != ""
	parsed.Query = m[7]
	if m[8] != "" && !parsed.HasFragment {
		parsed.Fragment = m[9]
		parsed.HasFragment = true
	}
	parsed.HadTrailingSlash = strings.HasSuffix(parsed.Path, "/")

	if parsed.HasAuthority {
		if err := splitAuthority(m[4], &parsed); err != nil {
			return parsed, err
		}
	}
	return parsed, nil
}

func splitAuthority(authority string, parsed *ParsedURL) *URLError {
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		authority = authority[at+1:]
		parsed.HadUserinfo = true
	}

	hostport := authority
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return newURLError(KindInvalidDomainLabel, "unterminated IPv6 literal '%s'", hostport)
		}
		parsed.Host = hostport[1:end]
		parsed.IsIPv6Literal = true
		rest := hostport[end+1:]
		if rest == "" {
			return nil
		}
		if rest[0] != ':' {
			return newURLError(KindInvalidPort, "unexpected '%s' after IPv6 literal", rest)
		}
		parsed.Port = rest[1:]
		parsed.HasPort = parsed.Port != ""
		return nil
	}

	if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
		parsed.Host = hostport[:i]
		parsed.Port = hostport[i+1:]
		parsed.HasPort = parsed.Port != ""
		return nil
	}
	parsed.Host = hostport
	return nil
}
