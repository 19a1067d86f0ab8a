package urlhandler

// Target is a crawl seed: the URL as supplied and its processed form.
type Target struct {
	OriginalURL string
	Source      string
	Info        *URLInfo
}

// NormalizedURL is the canonical URL of the seed.
func (t Target) NormalizedURL() string {
	return t.Info.NormalizedURL()
}
