package urlhandler

import (
	"strings"
)

// QueryParams is an ordered multimap of decoded query parameters. Keys keep
// the order of their first occurrence; values of a repeated key are grouped.
// The zero value is an empty set.
type QueryParams struct {
	entries []queryEntry
	index   map[string]int
}

type queryEntry struct {
	key    string
	values []queryValue
}

type queryValue struct {
	value string
	// bare marks "k" as opposed to "k=".
	bare bool
}

// parseQuery decodes a raw query string. Empty pairs are dropped.
func parseQuery(raw string) QueryParams {
	var q QueryParams
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, hasEq := strings.Cut(pair, "=")
		q.add(unescape(k, true), unescape(v, true), !hasEq)
	}
	return q
}

func (q *QueryParams) add(key, value string, bare bool) {
	if q.index == nil {
		q.index = make(map[string]int)
	}
	i, ok := q.index[key]
	if !ok {
		i = len(q.entries)
		q.index[key] = i
		q.entries = append(q.entries, queryEntry{key: key})
	}
	q.entries[i].values = append(q.entries[i].values, queryValue{value: value, bare: bare})
}

// encode writes the parameters back with a query-safe character set.
func (q QueryParams) encode() string {
	var b strings.Builder
	for _, e := range q.entries {
		key := escape(e.key, isQuerySafe, true)
		for _, v := range e.values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			if !v.bare {
				b.WriteByte('=')
				b.WriteString(escape(v.value, isQuerySafe, true))
			}
		}
	}
	return b.String()
}

// Len returns the number of distinct keys.
func (q QueryParams) Len() int { return len(q.entries) }

// Keys returns the keys in first-occurrence order.
func (q QueryParams) Keys() []string {
	keys := make([]string, len(q.entries))
	for i, e := range q.entries {
		keys[i] = e.key
	}
	return keys
}

// Has reports whether key is present.
func (q QueryParams) Has(key string) bool {
	_, ok := q.index[key]
	return ok
}

// Get returns the first value of key, or "".
func (q QueryParams) Get(key string) string {
	if i, ok := q.index[key]; ok {
		return q.entries[i].values[0].value
	}
	return ""
}

// Values returns a copy of all values of key.
func (q QueryParams) Values(key string) []string {
	i, ok := q.index[key]
	if !ok {
		return nil
	}
	out := make([]string, len(q.entries[i].values))
	for j, v := range q.entries[i].values {
		out[j] = v.value
	}
	return out
}
