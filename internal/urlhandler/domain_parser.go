package urlhandler

import (
	"fmt"
	"net/http/cookiejar"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// DomainParts is the public-suffix decomposition of a hostname.
// Absent parts are empty strings.
type DomainParts struct {
	Subdomain        string
	Domain           string
	Suffix           string
	RegisteredDomain string
}

// IsZero reports whether no part could be determined.
func (d DomainParts) IsZero() bool {
	return d == DomainParts{}
}

// DomainParser splits hostnames using a public suffix list, falling back to
// a naive label split when the list cannot answer.
type DomainParser struct {
	list   cookiejar.PublicSuffixList
	logger zerolog.Logger
}

// NewDomainParser creates a DomainParser. A nil list selects the embedded
// publicsuffix.List, which includes private entries such as blogspot.com.
func NewDomainParser(list cookiejar.PublicSuffixList, logger zerolog.Logger) *DomainParser {
	if list == nil {
		list = publicsuffix.List
	}
	return &DomainParser{
		list:   list,
		logger: logger.With().Str("component", "DomainParser").Logger(),
	}
}

// Parse never panics; any failure in the suffix list degrades to the naive split.
func (d *DomainParser) Parse(hostname string) (parts DomainParts) {
	host := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(hostname)), ".")
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return DomainParts{}
	}
	if _, err := netip.ParseAddr(host); err == nil || host == "localhost" {
		return DomainParts{Domain: host, RegisteredDomain: host}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn().Str("host", host).Str("panic", fmt.Sprint(r)).Msg("Public suffix lookup failed, using naive domain split")
			parts = naiveDomainParts(host)
		}
	}()

	suffix := d.list.PublicSuffix(host)
	if suffix == "" {
		d.logger.Warn().Str("host", host).Msg("Public suffix list returned no suffix, using naive domain split")
		return naiveDomainParts(host)
	}
	if suffix == host || !strings.HasSuffix(host, "."+suffix) {
		return naiveDomainParts(host)
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	labels := strings.Split(rest, ".")
	parts.Suffix = suffix
	parts.Domain = labels[len(labels)-1]
	parts.Subdomain = strings.Join(labels[:len(labels)-1], ".")
	parts.RegisteredDomain = parts.Domain + "." + suffix
	return parts
}

// naiveDomainParts treats the last label as the suffix and the one before it as the domain.
func naiveDomainParts(host string) DomainParts {
	labels := strings.Split(host, ".")
	switch len(labels) {
	case 1:
		return DomainParts{Domain: host, RegisteredDomain: host}
	case 2:
		return DomainParts{Domain: labels[0], Suffix: labels[1], RegisteredDomain: host}
	default:
		n := len(labels)
		return DomainParts{
			Subdomain:        strings.Join(labels[:n-2], "."),
			Domain:           labels[n-2],
			Suffix:           labels[n-1],
			RegisteredDomain: labels[n-2] + "." + labels[n-1],
		}
	}
}
