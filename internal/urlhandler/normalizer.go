package urlhandler

import (
	"strconv"
	"strings"
)

// NormalizedURL is the canonical form of a validated URL and its components.
type NormalizedURL struct {
	URL    string
	Scheme string
	// Host is the ASCII hostname, without IPv6 brackets.
	Host   string
	IPv6   bool
	Port   string
	Path   string
	Query  string
	Params QueryParams
}

// Normalizer produces canonical URL strings. It is idempotent: normalizing
// an already normalized URL yields the same string.
type Normalizer struct {
	cfg *SecurityConfig
}

// NewNormalizer creates a Normalizer bound to cfg.
func NewNormalizer(cfg *SecurityConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize canonicalizes p. It must only be called on URLs that passed validation.
func (n *Normalizer) Normalize(p ParsedURL) (NormalizedURL, *URLError) {
	out := NormalizedURL{
		Scheme: strings.ToLower(p.Scheme),
		IPv6:   p.IsIPv6Literal,
	}

	host, err := normalizeHost(p)
	if err != nil {
		return out, err
	}
	out.Host = host

	port, err := n.normalizePort(out.Scheme, p)
	if err != nil {
		return out, err
	}
	out.Port = port

	out.Path = normalizePath(p.Path, p.HadTrailingSlash)
	if p.HasQuery {
		out.Params = parseQuery(p.Query)
		out.Query = out.Params.encode()
	}

	out.URL = out.build()
	return out, nil
}

// Authority returns host[:port] with IPv6 brackets restored.
func (u NormalizedURL) Authority() string {
	host := u.Host
	if u.IPv6 {
		host = "[" + host + "]"
	}
	if u.Port != "" {
		return host + ":" + u.Port
	}
	return host
}

func (u NormalizedURL) build() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Authority())
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	return b.String()
}

func normalizeHost(p ParsedURL) (string, *URLError) {
	host := p.Hostname()
	if host == "" || p.IsIPv6Literal || isASCII(host) {
		return host, nil
	}
	ascii, err := hostToASCII(host)
	if err != nil {
		if err.Kind == KindInternalError {
			return "", err
		}
		return "", wrapURLError(KindNormalizationFailed, err, "could not encode host")
	}
	return ascii, nil
}

// normalizePort drops the port when it is the default for this exact scheme.
// https://host:80 keeps its port.
func (n *Normalizer) normalizePort(scheme string, p ParsedURL) (string, *URLError) {
	if !p.HasPort {
		return "", nil
	}
	port, err := strconv.Atoi(p.Port)
	if err != nil {
		return "", wrapURLError(KindNormalizationFailed, err, "could not parse port '"+p.Port+"'")
	}
	if def, ok := n.cfg.DefaultPort(scheme); ok && def == port {
		return "", nil
	}
	return strconv.Itoa(port), nil
}

// normalizePath decodes the path, collapses empty and dot segments without
// climbing above root, then re-encodes every segment. A single trailing slash
// is kept only when the original path had one.
func normalizePath(raw string, trailingSlash bool) string {
	if raw == "" {
		return ""
	}
	decoded := strings.ReplaceAll(unescape(raw, false), `\`, "/")

	segments := make([]string, 0, strings.Count(decoded, "/")+1)
	for _, seg := range strings.Split(decoded, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		if trailingSlash {
			return "/"
		}
		return ""
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(escape(seg, isPathSafe, false))
	}
	if trailingSlash {
		b.WriteByte('/')
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
