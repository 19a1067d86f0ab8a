package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	q := parseQuery("b=2&a=1&&b=3&flag&empty=&sp=a+b&plus=1%2B1&enc=%E2%9C%93&=anon")

	assert.Equal(t, []string{"b", "a", "flag", "empty", "sp", "plus", "enc", ""}, q.Keys())
	assert.Equal(t, 8, q.Len())
	assert.Equal(t, []string{"2", "3"}, q.Values("b"))
	assert.Equal(t, "a b", q.Get("sp"))
	assert.Equal(t, "1+1", q.Get("plus"))
	assert.Equal(t, "✓", q.Get("enc"))
	assert.Equal(t, "anon", q.Get(""))
	assert.True(t, q.Has("flag"))
	assert.Equal(t, "", q.Get("flag"))
	assert.False(t, q.Has("missing"))
	assert.Nil(t, q.Values("missing"))

	assert.Equal(t, "b=2&b=3&a=1&flag&empty=&sp=a+b&plus=1%2B1&enc=%E2%9C%93&=anon", q.encode())
}

func TestQueryParams_ZeroValue(t *testing.T) {
	var q QueryParams
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Keys())
	assert.False(t, q.Has("a"))
	assert.Equal(t, "", q.encode())
}
