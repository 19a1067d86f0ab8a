package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	base := Components{Valid: true, Scheme: "http", Host: "docs.example.com", RegisteredDomain: "example.com"}

	tests := []struct {
		name     string
		current  Components
		base     *Components
		expected URLType
	}{
		{"invalid current", Components{}, &base, URLTypeUnknown},
		{"relative without base", Components{Valid: true}, nil, URLTypeUnknown},
		{"absolute without base", Components{Valid: true, Scheme: "https", Host: "a.com", RegisteredDomain: "a.com"}, nil, URLTypeExternal},
		{"invalid base", Components{Valid: true, Scheme: "https", Host: "a.com", RegisteredDomain: "a.com"}, &Components{}, URLTypeExternal},
		{"relative with base", Components{Valid: true}, &base, URLTypeInternal},
		{"file against file", Components{Valid: true, Scheme: "file"}, &Components{Valid: true, Scheme: "file"}, URLTypeInternal},
		{"same registered domain", Components{Valid: true, Scheme: "http", Host: "blog.example.com", RegisteredDomain: "example.com"}, &base, URLTypeInternal},
		{"upgrade", Components{Valid: true, Scheme: "https", Host: "docs.example.com", RegisteredDomain: "example.com"}, &base, URLTypeInternal},
		{"unknown registered domains", Components{Valid: true, Scheme: "http", Host: "x"}, &Components{Valid: true, Scheme: "http", Host: "x"}, URLTypeExternal},
		{"different scheme", Components{Valid: true, Scheme: "ftp", Host: "docs.example.com", RegisteredDomain: "example.com"}, &base, URLTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.current, tt.base))
		})
	}

	assert.Equal(t, "internal", URLTypeInternal.String())
	assert.Equal(t, "external", URLTypeExternal.String())
	assert.Equal(t, "unknown", URLTypeUnknown.String())
}
