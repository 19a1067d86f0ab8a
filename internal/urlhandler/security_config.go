package urlhandler

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

// Default security limits
const (
	DefaultMaxPathLength  = 2048
	DefaultMaxQueryLength = 2048
	DefaultMaxHostLength  = 253
	MaxLabelLength        = 63
)

var (
	defaultAllowedSchemes    = []string{"http", "https"}
	defaultDisallowedSchemes = []string{"javascript", "data", "vbscript"}

	// loopbackHosts are names and literals rejected as DisallowedHost unless
	// private networks are allowed.
	loopbackHosts = []string{
		"localhost",
		"localhost.localdomain",
		"0.0.0.0",
		"127.0.0.1",
		"::1",
		"::",
	}

	// metadataHosts are always rejected, even when private networks are allowed.
	metadataHosts = []string{
		"169.254.169.254",
		"fd00:ec2::254",
		"100.100.100.200",
		"metadata",
		"metadata.google.internal",
		"metadata.azure.internal",
		"instance-data",
		"instance-data.ec2.internal",
	}

	privateNetworks = []string{
		"0.0.0.0/8",
		"10.0.0.0/8",
		"100.64.0.0/10",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"172.16.0.0/12",
		"192.0.0.0/24",
		"192.168.0.0/16",
		"198.18.0.0/15",
		"224.0.0.0/4",
		"240.0.0.0/4",
		"::/128",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
		"ff00::/8",
	}

	metadataNetworks = []string{
		"169.254.169.254/32",
		"fd00:ec2::254/128",
	}

	defaultPorts = map[string]int{
		"http":  80,
		"https": 443,
		"ftp":   21,
	}
)

// Detection patterns shared by every SecurityConfig.
var (
	controlCharsPattern  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	pathTraversalPattern = regexp.MustCompile(`(^|/)\.\.(/|$)`)
	xssPattern           = regexp.MustCompile(`(?i)(<\s*/?\s*script|<\s*(iframe|svg|object|embed|img|body|math)\b|\bon(load|error|click|dblclick|mouse[a-z]*|focus[a-z]*|blur|key[a-z]*|submit|change|input|abort|begin|end|toggle|pointer[a-z]*|animation[a-z]*|transition[a-z]*|wheel|drag[a-z]*|drop|touch[a-z]*|page(show|hide)|before[a-z]*|after[a-z]*|unload|resize|scroll|select|reset|message|hashchange|popstate|storage|play[a-z]*|pause|show|copy|cut|paste|contextmenu)\s*=|\beval\s*\(|\balert\s*\(|\bprompt\s*\(|document\s*\.\s*(cookie|domain|write)|expression\s*\()`)
	schemeLiteralPattern = regexp.MustCompile(`(?i)\b(javascript|vbscript|data)\s*:`)
	sqliPattern          = regexp.MustCompile(`(?i)('\s*(or|and)\s*'|'\s*(or|and)\s+\d|\bor\s+1\s*=\s*1\b|\bunion\b[\s+]+(all[\s+]+)?select\b|'\s*--|\s--(\s|$)|;\s*(drop|delete|insert|update|truncate|alter|shutdown)\b|\b(sleep|benchmark|pg_sleep)\s*\(\s*\d|\bwaitfor\s+delay\b|\bxp_cmdshell\b)`)
	cmdInjectionPattern  = regexp.MustCompile("(?i)(`[^`]*`|\\$\\([^)]*\\)|\\$\\{[^}]*\\}|(;|\\|\\|?|&&)\\s*(cat|ls|id|whoami|uname|curl|wget|nc|ncat|bash|sh|zsh|python[0-9.]*|perl|ruby|php|rm|chmod|chown|echo|ping|nslookup|sleep|powershell|cmd)(\\s|$|[;|&<>]))")
	uncPathPattern       = regexp.MustCompile(`^(//|\\\\)`)
	domainLabelPattern   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	topLevelLabelPattern = regexp.MustCompile(`^[a-z]{2,63}$`)
	schemePattern        = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)
	legacyIPv4Pattern    = regexp.MustCompile(`^(0x[0-9a-f]*|[0-9]+)(\.(0x[0-9a-f]*|[0-9]+)){0,3}\.?$`)
)

// SecurityOptions are the user-tunable inputs of a SecurityConfig.
type SecurityOptions struct {
	AllowedSchemes          []string
	ExtraDisallowedHosts    []string
	ExtraDisallowedNetworks []string
	AllowPrivateNetworks    bool
	MaxPathLength           int
	MaxQueryLength          int
}

// DefaultSecurityOptions returns the options used by DefaultSecurityConfig.
func DefaultSecurityOptions() SecurityOptions {
	return SecurityOptions{
		AllowedSchemes: append([]string(nil), defaultAllowedSchemes...),
		MaxPathLength:  DefaultMaxPathLength,
		MaxQueryLength: DefaultMaxQueryLength,
	}
}

// SecurityConfig is the read-only policy shared by every pipeline stage.
// It is built once and never mutated, so it is safe for concurrent use.
type SecurityConfig struct {
	allowedSchemes     map[string]struct{}
	disallowedSchemes  map[string]struct{}
	disallowedHosts    map[string]struct{}
	disallowedNetworks []netip.Prefix
	defaultPorts       map[string]int
	maxPathLength      int
	maxQueryLength     int
}

var defaultSecurityConfig = mustSecurityConfig(DefaultSecurityOptions())

// DefaultSecurityConfig returns the process-wide default policy.
func DefaultSecurityConfig() *SecurityConfig {
	return defaultSecurityConfig
}

func mustSecurityConfig(opts SecurityOptions) *SecurityConfig {
	cfg, err := NewSecurityConfig(opts)
	if err != nil {
		panic(err)
	}
	return cfg
}

// NewSecurityConfig validates opts and builds an immutable SecurityConfig.
func NewSecurityConfig(opts SecurityOptions) (*SecurityConfig, error) {
	cfg := &SecurityConfig{
		allowedSchemes:    make(map[string]struct{}),
		disallowedSchemes: make(map[string]struct{}),
		disallowedHosts:   make(map[string]struct{}),
		defaultPorts:      make(map[string]int, len(defaultPorts)),
		maxPathLength:     opts.MaxPathLength,
		maxQueryLength:    opts.MaxQueryLength,
	}

	for _, s := range defaultDisallowedSchemes {
		cfg.disallowedSchemes[s] = struct{}{}
	}

	schemes := opts.AllowedSchemes
	if len(schemes) == 0 {
		schemes = defaultAllowedSchemes
	}
	for _, s := range schemes {
		s = strings.ToLower(strings.TrimSpace(s))
		if !schemePattern.MatchString(s + ":") {
			return nil, fmt.Errorf("invalid scheme %q in allowed schemes", s)
		}
		if _, bad := cfg.disallowedSchemes[s]; bad {
			return nil, fmt.Errorf("scheme %q can never be allowed", s)
		}
		cfg.allowedSchemes[s] = struct{}{}
	}

	for k, v := range defaultPorts {
		cfg.defaultPorts[k] = v
	}

	if cfg.maxPathLength <= 0 {
		cfg.maxPathLength = DefaultMaxPathLength
	}
	if cfg.maxQueryLength <= 0 {
		cfg.maxQueryLength = DefaultMaxQueryLength
	}

	hosts := append([]string(nil), metadataHosts...)
	if !opts.AllowPrivateNetworks {
		hosts = append(hosts, loopbackHosts...)
	}
	hosts = append(hosts, opts.ExtraDisallowedHosts...)
	for _, h := range hosts {
		h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
		h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
		if h != "" {
			cfg.disallowedHosts[h] = struct{}{}
		}
	}

	networks := append([]string(nil), metadataNetworks...)
	if !opts.AllowPrivateNetworks {
		networks = append(networks, privateNetworks...)
	}
	networks = append(networks, opts.ExtraDisallowedNetworks...)
	for _, n := range networks {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("invalid disallowed network %q: %w", n, err)
		}
		cfg.disallowedNetworks = append(cfg.disallowedNetworks, prefix.Masked())
	}

	return cfg, nil
}

// IsSchemeAllowed reports whether scheme (lower-case) may be crawled.
func (c *SecurityConfig) IsSchemeAllowed(scheme string) bool {
	_, ok := c.allowedSchemes[scheme]
	return ok
}

// IsSchemeDisallowed reports whether scheme is one of the always-rejected schemes.
func (c *SecurityConfig) IsSchemeDisallowed(scheme string) bool {
	_, ok := c.disallowedSchemes[strings.ToLower(scheme)]
	return ok
}

// IsHostDisallowed reports whether host (lower-case, no brackets) is on the host deny list.
// Any name below localhost is treated as localhost itself.
func (c *SecurityConfig) IsHostDisallowed(host string) bool {
	if _, ok := c.disallowedHosts[host]; ok {
		return true
	}
	if _, ok := c.disallowedHosts["localhost"]; ok && strings.HasSuffix(host, ".localhost") {
		return true
	}
	return false
}

// IsAddrDisallowed reports whether addr falls in a disallowed network.
func (c *SecurityConfig) IsAddrDisallowed(addr netip.Addr) bool {
	addr = addr.Unmap().WithZone("")
	for _, prefix := range c.disallowedNetworks {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// DefaultPort returns the default port for scheme and whether one is known.
func (c *SecurityConfig) DefaultPort(scheme string) (int, bool) {
	p, ok := c.defaultPorts[scheme]
	return p, ok
}

// MaxPathLength is the maximum decoded path length.
func (c *SecurityConfig) MaxPathLength() int { return c.maxPathLength }

// MaxQueryLength is the maximum decoded query length.
func (c *SecurityConfig) MaxQueryLength() int { return c.maxQueryLength }
