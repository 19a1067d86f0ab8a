package urlhandler

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// idnaProfile maps hosts for lookup with non-transitional (UTS #46) processing.
var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.BidiRule(),
)

// idnaToASCII is the host encoder; tests replace it.
var idnaToASCII = idnaProfile.ToASCII

// hostToASCII IDNA-encodes host. A panic inside the encoder becomes InternalError.
func hostToASCII(host string) (ascii string, uerr *URLError) {
	defer func() {
		if r := recover(); r != nil {
			ascii = ""
			uerr = wrapURLError(KindInternalError, fmt.Errorf("%v", r), "IDNA encoder panicked for host '"+host+"'")
		}
	}()
	out, err := idnaToASCII(host)
	if err != nil {
		return "", wrapURLError(KindInvalidDomainLabel, err, "host '"+host+"' cannot be IDNA-encoded")
	}
	return strings.ToLower(out), nil
}

type validationCheck struct {
	name  string
	check func(p *ParsedURL) *URLError
}

// Validator runs an ordered chain of checks; the first failure wins.
type Validator struct {
	cfg    *SecurityConfig
	checks []validationCheck
}

// NewValidator creates a Validator bound to cfg.
func NewValidator(cfg *SecurityConfig) *Validator {
	v := &Validator{cfg: cfg}
	v.checks = []validationCheck{
		{name: "scheme", check: v.checkScheme},
		{name: "authority", check: v.checkAuthority},
		{name: "port", check: v.checkPort},
		{name: "path", check: v.checkPath},
		{name: "query", check: v.checkQuery},
		{name: "security", check: v.checkSecurityPatterns},
	}
	return v
}

// Validate returns the first failing check's error, or nil.
func (v *Validator) Validate(p ParsedURL) *URLError {
	for _, c := range v.checks {
		if err := c.check(&p); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) checkScheme(p *ParsedURL) *URLError {
	switch {
	case p.Scheme == "":
		return newURLError(KindInvalidScheme, "URL has no scheme")
	case v.cfg.IsSchemeDisallowed(p.Scheme):
		return newURLError(KindDisallowedScheme, "scheme '%s' is not allowed", p.Scheme)
	case !v.cfg.IsSchemeAllowed(p.Scheme):
		return newURLError(KindInvalidScheme, "scheme '%s' is not in the allowed schemes", p.Scheme)
	}
	return nil
}

func (v *Validator) checkAuthority(p *ParsedURL) *URLError {
	if p.HadUserinfo {
		return newURLError(KindAuthNotAllowed, "credentials in the authority are not allowed")
	}

	host := p.Hostname()
	if p.Scheme == "file" {
		if host != "" {
			return newURLError(KindUncPathDisallowed, "file URL with host '%s' is a UNC path", host)
		}
		return nil
	}
	if !p.HasAuthority || host == "" {
		return newURLError(KindMissingHost, "URL has no host")
	}
	return v.checkHost(host, p.IsIPv6Literal)
}

// checkHost applies the host deny list before the IP range check, so
// 127.0.0.1 is always DisallowedHost and 127.0.0.2 is PrivateIpNotAllowed.
func (v *Validator) checkHost(host string, ipv6Literal bool) *URLError {
	if ipv6Literal {
		addr, err := netip.ParseAddr(host)
		if err != nil || !addr.Is6() {
			return newURLError(KindInvalidDomainLabel, "invalid IPv6 literal '%s'", host)
		}
		return v.checkAddr(host, addr)
	}

	if v.cfg.IsHostDisallowed(host) {
		return newURLError(KindDisallowedHost, "host '%s' is not allowed", host)
	}

	if addr, ok := parseIPv4Host(host); ok {
		if err := v.checkAddr(host, addr); err != nil {
			return err
		}
		if addr.String() != host {
			return newURLError(KindInvalidDomainLabel, "non-canonical IPv4 address '%s'", host)
		}
		return nil
	}

	return v.checkDomain(host)
}

func (v *Validator) checkAddr(host string, addr netip.Addr) *URLError {
	canonical := addr.Unmap().WithZone("").String()
	if v.cfg.IsHostDisallowed(host) || v.cfg.IsHostDisallowed(canonical) {
		return newURLError(KindDisallowedHost, "host '%s' is not allowed", host)
	}
	if v.cfg.IsAddrDisallowed(addr) {
		return newURLError(KindPrivateIPNotAllowed, "address '%s' is in a disallowed network", canonical)
	}
	return nil
}

func (v *Validator) checkDomain(host string) *URLError {
	if len(host) > 4*DefaultMaxHostLength {
		return newURLError(KindDomainTooLong, "host is %d bytes long", len(host))
	}

	ascii, err := hostToASCII(host)
	if err != nil {
		return err
	}
	if len(ascii) > DefaultMaxHostLength {
		return newURLError(KindDomainTooLong, "host is %d characters long (max %d)", len(ascii), DefaultMaxHostLength)
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return newURLError(KindInvalidDomainLabel, "host '%s' has no top-level domain", host)
	}
	for _, label := range labels {
		switch {
		case label == "":
			return newURLError(KindInvalidDomainLabel, "host '%s' has an empty label", host)
		case len(label) > MaxLabelLength:
			return newURLError(KindInvalidDomainLabel, "label '%s' exceeds %d characters", label, MaxLabelLength)
		case !domainLabelPattern.MatchString(label):
			return newURLError(KindInvalidDomainLabel, "invalid label '%s'", label)
		}
	}

	tld := labels[len(labels)-1]
	if !strings.HasPrefix(tld, "xn--") && !topLevelLabelPattern.MatchString(tld) {
		return newURLError(KindInvalidDomainLabel, "invalid top-level domain '%s'", tld)
	}
	return nil
}

func (v *Validator) checkPort(p *ParsedURL) *URLError {
	if !p.HasPort {
		return nil
	}
	if len(p.Port) > 5 {
		return newURLError(KindInvalidPort, "port '%s' is out of range", p.Port)
	}
	for i := 0; i < len(p.Port); i++ {
		if p.Port[i] < '0' || p.Port[i] > '9' {
			return newURLError(KindInvalidPort, "port '%s' is not numeric", p.Port)
		}
	}
	n, err := strconv.Atoi(p.Port)
	if err != nil || n < 0 || n > 65535 {
		return newURLError(KindInvalidPort, "port '%s' is out of range", p.Port)
	}
	return nil
}

func (v *Validator) checkPath(p *ParsedURL) *URLError {
	if uncPathPattern.MatchString(p.Path) {
		return newURLError(KindUncPathDisallowed, "path '%s' is a UNC path", p.Path)
	}

	decoded := unescape(p.Path, false)
	if len(decoded) > v.cfg.MaxPathLength() {
		return newURLError(KindPathTooLong, "decoded path is %d characters long (max %d)", len(decoded), v.cfg.MaxPathLength())
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return newURLError(KindNullByte, "path contains a null byte")
	}
	if controlCharsPattern.MatchString(decoded) {
		return newURLError(KindControlCharacter, "path contains control characters")
	}

	slashed := strings.ReplaceAll(decoded, `\`, "/")
	if uncPathPattern.MatchString(slashed) {
		return newURLError(KindUncPathDisallowed, "decoded path is a UNC path")
	}
	if escapesRoot(slashed) {
		return newURLError(KindPathTraversal, "path climbs above the root")
	}
	return nil
}

func (v *Validator) checkQuery(p *ParsedURL) *URLError {
	if !p.HasQuery {
		return nil
	}
	decoded := unescape(p.Query, true)
	if len(decoded) > v.cfg.MaxQueryLength() {
		return newURLError(KindQueryTooLong, "decoded query is %d characters long (max %d)", len(decoded), v.cfg.MaxQueryLength())
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return newURLError(KindNullByte, "query contains a null byte")
	}
	if controlCharsPattern.MatchString(decoded) {
		return newURLError(KindControlCharacter, "query contains control characters")
	}
	return nil
}

// checkSecurityPatterns scans the decoded path and query. Literal ".." segments
// in the path are legitimate dot segments resolved by normalization; only
// traversal revealed by decoding is rejected there.
func (v *Validator) checkSecurityPatterns(p *ParsedURL) *URLError {
	path := unescapeTwice(p.Path)
	query := unescapeTwice(unescape(p.Query, true))

	if !pathTraversalPattern.MatchString(p.Path) && pathTraversalPattern.MatchString(strings.ReplaceAll(path, `\`, "/")) {
		return newURLError(KindPathTraversal, "percent-encoded traversal in path")
	}
	if pathTraversalPattern.MatchString(strings.ReplaceAll(query, `\`, "/")) {
		return newURLError(KindPathTraversal, "directory traversal in query")
	}
	if hasOverlongUTF8(path) {
		return newURLError(KindPathTraversal, "overlong UTF-8 encoding in path")
	}
	if hasOverlongUTF8(query) {
		return newURLError(KindPathTraversal, "overlong UTF-8 encoding in query")
	}

	targets := []struct {
		name  string
		value string
	}{
		{"path", path},
		{"query", query},
	}
	patterns := []struct {
		kind    ErrorKind
		matches func(string) bool
		label   string
	}{
		{KindXSSPattern, xssPattern.MatchString, "XSS payload"},
		{KindSQLiPattern, sqliPattern.MatchString, "SQL injection payload"},
		{KindCmdInjectionPattern, cmdInjectionPattern.MatchString, "command injection payload"},
		{KindXSSPattern, schemeLiteralPattern.MatchString, "embedded script scheme"},
	}
	for _, pattern := range patterns {
		for _, target := range targets {
			if target.value != "" && pattern.matches(target.value) {
				return newURLError(pattern.kind, "%s in %s", pattern.label, target.name)
			}
		}
	}
	return nil
}

// escapesRoot reports whether resolving dot segments in path would climb above "/".
func escapesRoot(path string) bool {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if depth == 0 {
				return true
			}
			depth--
		default:
			depth++
		}
	}
	return false
}

// parseIPv4Host parses dotted-quad hosts plus the legacy inet_aton forms
// (127.1, 2130706433, 0x7f.0.0.1) that resolvers still accept.
func parseIPv4Host(host string) (netip.Addr, bool) {
	if addr, err := netip.ParseAddr(host); err == nil && addr.Is4() {
		return addr, true
	}
	if !legacyIPv4Pattern.MatchString(host) {
		return netip.Addr{}, false
	}

	parts := strings.Split(strings.TrimSuffix(host, "."), ".")
	nums := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseInetAtonPart(part)
		if !ok {
			return netip.Addr{}, false
		}
		nums[i] = n
	}

	var value uint64
	last := len(nums) - 1
	for i := 0; i < last; i++ {
		if nums[i] > 255 {
			return netip.Addr{}, false
		}
		value |= nums[i] << (8 * uint(3-i))
	}
	if nums[last] >= 1<<(8*uint(4-last)) {
		return netip.Addr{}, false
	}
	value |= nums[last]

	return netip.AddrFrom4([4]byte{byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value)}), true
}

func parseInetAtonPart(part string) (uint64, bool) {
	base := 10
	switch {
	case strings.HasPrefix(part, "0x"):
		part = part[2:]
		base = 16
		if part == "" {
			return 0, true
		}
	case len(part) > 1 && part[0] == '0':
		part = part[1:]
		base = 8
	}
	n, err := strconv.ParseUint(part, base, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}
