package extractor

import (
	"strings"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// LinkResolver turns raw references into URLInfo values relative to a page
type LinkResolver struct {
	engine *urlhandler.Engine
	logger zerolog.Logger
}

// NewLinkResolver creates a new link resolver
func NewLinkResolver(engine *urlhandler.Engine, logger zerolog.Logger) *LinkResolver {
	return &LinkResolver{
		engine: engine,
		logger: logger.With().Str("component", "LinkResolver").Logger(),
	}
}

// Resolve joins raw onto base. Absolute references go through the cheap
// IsSafeURL check first so obviously hostile links never reach the full
// pipeline. The returned URLInfo is nil when the link must be dropped.
func (lr *LinkResolver) Resolve(raw string, base *urlhandler.URLInfo) *urlhandler.URLInfo {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if isAbsoluteReference(raw) && !lr.engine.IsSafeURL(raw) {
		lr.logger.Debug().Str("raw", raw).Msg("Absolute link failed safety pre-filter")
		return nil
	}

	info := lr.engine.CreateWithBase(raw, base)
	if !info.IsValid() {
		lr.logger.Debug().
			Str("raw", raw).
			Str("kind", info.ErrorKind().String()).
			Msg("Dropping invalid link")
		return nil
	}
	return info
}

// isAbsoluteReference is true for references that name their own scheme or host.
func isAbsoluteReference(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(raw, "//")
}
