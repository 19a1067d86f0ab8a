package urlhandler

// URLType is the relation of a URL to the crawl's starting point.
type URLType int

const (
	URLTypeUnknown URLType = iota
	URLTypeInternal
	URLTypeExternal
)

func (t URLType) String() string {
	switch t {
	case URLTypeInternal:
		return "internal"
	case URLTypeExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Components is the subset of a URL the classifier compares.
type Components struct {
	Valid            bool
	Scheme           string
	Host             string
	RegisteredDomain string
}

func (c Components) isRelative() bool {
	return c.Scheme == "" && c.Host == ""
}

// Classify labels current relative to base. A nil or invalid base means no base.
// Undeterminable registered domains classify as external, never internal.
func Classify(current Components, base *Components) URLType {
	if !current.Valid {
		return URLTypeUnknown
	}
	if base == nil || !base.Valid {
		if current.isRelative() {
			return URLTypeUnknown
		}
		return URLTypeExternal
	}
	if current.isRelative() {
		return URLTypeInternal
	}
	if current.Scheme == "file" && base.Scheme == "file" {
		return URLTypeInternal
	}

	schemesMatch := current.Scheme == base.Scheme ||
		(base.Scheme == "http" && current.Scheme == "https")
	domainsMatch := current.RegisteredDomain != "" &&
		current.RegisteredDomain == base.RegisteredDomain

	if schemesMatch && domainsMatch {
		return URLTypeInternal
	}
	return URLTypeExternal
}
