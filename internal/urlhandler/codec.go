package urlhandler

import (
	"strings"
	"unicode/utf8"
)

const upperHex = "0123456789ABCDEF"

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// unescape decodes %XX sequences. Malformed escapes are kept as written,
// matching lenient browser decoding.
func unescape(s string, plusAsSpace bool) string {
	if !strings.ContainsRune(s, '%') && (!plusAsSpace || !strings.ContainsRune(s, '+')) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s):
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
			b.WriteByte(c)
		case c == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeStrayPercents rewrites every '%' not followed by two hex digits as
// "%25", so strict parsers accept what browsers accept.
func escapeStrayPercents(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+2 >= len(s) {
				b.WriteString("%25")
				continue
			}
			_, ok1 := unhex(s[i+1])
			_, ok2 := unhex(s[i+2])
			if !ok1 || !ok2 {
				b.WriteString("%25")
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// hasOverlongUTF8 reports byte sequences that are overlong UTF-8 encodings
// (such as C0 AE for '.'), which some decoders still map to ASCII.
func hasOverlongUTF8(s string) bool {
	if utf8.ValidString(s) {
		return false
	}
	for i := 0; i+1 < len(s); i++ {
		c, next := s[i], s[i+1]
		switch {
		case c == 0xC0 || c == 0xC1:
			return true
		case c == 0xE0 && next >= 0x80 && next < 0xA0:
			return true
		case c == 0xF0 && next >= 0x80 && next < 0x90:
			return true
		}
	}
	return false
}

// unescapeTwice decodes up to two layers of percent-encoding to expose
// double-encoded payloads.
func unescapeTwice(s string) string {
	return unescape(unescape(s, false), false)
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func isSubDelim(c byte) bool {
	return strings.IndexByte("!$&'()*+,;=", c) >= 0
}

func isPathSafe(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) || c == ':' || c == '@' || c == '/'
}

// isQuerySafe excludes the pair separators and '+' so decoding stays unambiguous.
func isQuerySafe(c byte) bool {
	return isUnreserved(c) || strings.IndexByte("!$'()*,;:@/?", c) >= 0
}

func escape(s string, safe func(byte) bool, spaceAsPlus bool) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case safe(c):
			b.WriteByte(c)
		case c == ' ' && spaceAsPlus:
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&15])
		}
	}
	return b.String()
}
