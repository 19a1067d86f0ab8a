package urlhandler

// URLInfo is the immutable result of processing one URL. All fields are
// computed at construction; accessors return copies where the value is mutable.
type URLInfo struct {
	raw        string
	normalized string
	err        *URLError

	scheme   string
	host     string
	ipv6     bool
	port     string
	path     string
	query    string
	params   QueryParams

	fragment    string
	hasFragment bool

	domain           DomainParts
	urlType          URLType
	hadTrailingSlash bool

	engine *Engine
}

// RawURL returns the input exactly as given.
func (u *URLInfo) RawURL() string { return u.raw }

// NormalizedURL returns the canonical form for valid URLs, or the best-effort
// resolved string for invalid ones.
func (u *URLInfo) NormalizedURL() string { return u.normalized }

func (u *URLInfo) IsValid() bool { return u.err == nil }

// Err returns the rejection reason, or nil for valid URLs.
func (u *URLInfo) Err() error {
	if u.err == nil {
		return nil
	}
	return u.err
}

// ErrorKind returns KindNone for valid URLs.
func (u *URLInfo) ErrorKind() ErrorKind {
	if u.err == nil {
		return KindNone
	}
	return u.err.Kind
}

func (u *URLInfo) Scheme() string { return u.scheme }

// Host returns host[:port] as it appears in the normalized URL.
func (u *URLInfo) Host() string {
	if u.host == "" {
		return ""
	}
	return NormalizedURL{Host: u.host, IPv6: u.ipv6, Port: u.port}.Authority()
}

// Hostname returns the ASCII hostname without port or IPv6 brackets.
func (u *URLInfo) Hostname() string { return u.host }

// Port returns the explicit non-default port, or "".
func (u *URLInfo) Port() string { return u.port }

func (u *URLInfo) Path() string { return u.path }

// Query returns the normalized, encoded query without the leading '?'.
func (u *URLInfo) Query() string { return u.query }

// Fragment returns the fragment of the raw input. It is never part of NormalizedURL.
func (u *URLInfo) Fragment() string { return u.fragment }

func (u *URLInfo) HasFragment() bool { return u.hasFragment }

// QueryParams returns the decoded parameters in first-occurrence order.
func (u *URLInfo) QueryParams() QueryParams {
	var q QueryParams
	for _, e := range u.params.entries {
		for _, v := range e.values {
			q.add(e.key, v.value, v.bare)
		}
	}
	return q
}

func (u *URLInfo) DomainParts() DomainParts { return u.domain }

func (u *URLInfo) RegisteredDomain() string { return u.domain.RegisteredDomain }

// Type returns the classification against the base the URL was created with.
func (u *URLInfo) Type() URLType { return u.urlType }

// TypeRelativeTo classifies u against another base, such as the crawl root.
func (u *URLInfo) TypeRelativeTo(base *URLInfo) URLType {
	if base == nil {
		return Classify(u.components(), nil)
	}
	bc := base.components()
	return Classify(u.components(), &bc)
}

// HadTrailingSlash reports whether the path ended in '/' before normalization.
func (u *URLInfo) HadTrailingSlash() bool { return u.hadTrailingSlash }

// Join resolves ref against u and returns a new URLInfo.
func (u *URLInfo) Join(ref string) *URLInfo {
	e := u.engine
	if e == nil {
		e = DefaultEngine()
	}
	return e.CreateWithBase(ref, u)
}

// Key is the identity used for equality and deduplication.
func (u *URLInfo) Key() string {
	if u.IsValid() {
		return u.normalized
	}
	return u.raw
}

// Equal compares two URLInfo values by Key and validity.
func (u *URLInfo) Equal(other *URLInfo) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.IsValid() == other.IsValid() && u.Key() == other.Key()
}

func (u *URLInfo) String() string { return u.Key() }

func (u *URLInfo) components() Components {
	return Components{
		Valid:            u.IsValid(),
		Scheme:           u.scheme,
		Host:             u.host,
		RegisteredDomain: u.domain.RegisteredDomain,
	}
}
