package extractor

import (
	"path"
	"strings"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

var jsExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {}, ".ts": {}, ".tsx": {},
}

// ContentTypeAnalyzer decides which analyzer a response body goes to
type ContentTypeAnalyzer struct {
	logger zerolog.Logger
}

// NewContentTypeAnalyzer creates a new content type analyzer
func NewContentTypeAnalyzer(logger zerolog.Logger) *ContentTypeAnalyzer {
	return &ContentTypeAnalyzer{
		logger: logger.With().Str("component", "ContentTypeAnalyzer").Logger(),
	}
}

// IsHTML reports whether the response should be parsed as markup. A missing
// content type is treated as HTML unless the path says JavaScript.
func (cta *ContentTypeAnalyzer) IsHTML(page *urlhandler.URLInfo, contentType string) bool {
	ct := strings.ToLower(contentType)
	if ct == "" {
		return !hasJSExtension(page)
	}
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// ShouldAnalyzeWithJSluice reports whether the response is a JavaScript file
func (cta *ContentTypeAnalyzer) ShouldAnalyzeWithJSluice(page *urlhandler.URLInfo, contentType string) bool {
	isJavaScript := strings.Contains(strings.ToLower(contentType), "javascript") || hasJSExtension(page)

	cta.logger.Debug().
		Str("source_url", page.String()).
		Str("content_type", contentType).
		Bool("is_javascript", isJavaScript).
		Msg("Content type analysis for jsluice")

	return isJavaScript
}

func hasJSExtension(page *urlhandler.URLInfo) bool {
	if page == nil {
		return false
	}
	_, ok := jsExtensions[strings.ToLower(path.Ext(page.Path()))]
	return ok
}
