package crawler

import (
	"path"
	"strings"

	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

const (
	maxPathSegments      = 15
	maxSegmentRepeats    = 3
	maxPathSegmentLength = 200
)

// Scope applies the crawl restrictions that sit on top of the URL engine's
// own validity and classification rules.
type Scope struct {
	disallowedHostnames      []string
	disallowedFileExtensions map[string]struct{}
	logger                   zerolog.Logger
}

// NewScope creates a Scope from the crawler's scope section
func NewScope(cfg config.CrawlerScopeConfig, logger zerolog.Logger) *Scope {
	s := &Scope{
		disallowedFileExtensions: make(map[string]struct{}, len(cfg.DisallowedFileExtensions)),
		logger:                   logger.With().Str("component", "Scope").Logger(),
	}
	for _, h := range cfg.DisallowedHostnames {
		if h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), "."); h != "" {
			s.disallowedHostnames = append(s.disallowedHostnames, h)
		}
	}
	for _, ext := range cfg.DisallowedFileExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.disallowedFileExtensions[ext] = struct{}{}
	}
	return s
}

// Allows reports whether info may be fetched. info must be valid.
func (s *Scope) Allows(info *urlhandler.URLInfo) bool {
	if !s.checkHostnameScope(info.Hostname()) {
		return false
	}
	return s.checkPathScope(info.Path())
}

// checkHostnameScope rejects configured hostnames and their subdomains.
func (s *Scope) checkHostnameScope(hostname string) bool {
	for _, disallowed := range s.disallowedHostnames {
		if hostname == disallowed || strings.HasSuffix(hostname, "."+disallowed) {
			return false
		}
	}
	return true
}

// checkPathScope rejects binary assets and paths that look like crawler traps.
// p is a normalized path, so it carries no query or fragment.
func (s *Scope) checkPathScope(p string) bool {
	if _, blocked := s.disallowedFileExtensions[strings.ToLower(path.Ext(p))]; blocked {
		return false
	}
	if hasRepeatedPathSegments(p) {
		s.logger.Debug().Str("path", p).Msg("Skipping path with repeated segments (potential infinite loop)")
		return false
	}
	return true
}

// hasRepeatedPathSegments detects /a/a/..., a segment repeated more than
// maxSegmentRepeats times, too many segments, or an oversized segment.
func hasRepeatedPathSegments(p string) bool {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return false
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) > maxPathSegments {
		return true
	}

	counts := make(map[string]int, len(segments))
	for i, segment := range segments {
		if len(segment) > maxPathSegmentLength {
			return true
		}
		if len(segment) < 2 {
			continue
		}
		counts[segment]++
		if counts[segment] > maxSegmentRepeats {
			return true
		}
		if i > 0 && segments[i-1] == segment {
			return true
		}
	}
	return false
}
