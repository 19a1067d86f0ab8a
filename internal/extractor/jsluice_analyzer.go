package extractor

import (
	"github.com/BishopFox/jsluice"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// JSluiceAnalyzer handles JavaScript analysis using jsluice
type JSluiceAnalyzer struct {
	logger   zerolog.Logger
	resolver *LinkResolver
}

// NewJSluiceAnalyzer creates a new jsluice analyzer
func NewJSluiceAnalyzer(resolver *LinkResolver, logger zerolog.Logger) *JSluiceAnalyzer {
	return &JSluiceAnalyzer{
		logger:   logger.With().Str("component", "JSluiceAnalyzer").Logger(),
		resolver: resolver,
	}
}

// AnalyzeJavaScript finds URLs in JavaScript source and resolves them against base.
// Links whose key is already in seen are skipped; new keys are added to seen.
func (jsa *JSluiceAnalyzer) AnalyzeJavaScript(content []byte, base *urlhandler.URLInfo, seen map[string]struct{}) (result AnalysisResult) {
	if len(content) == 0 {
		return result
	}

	// jsluice wraps a tree-sitter parser; a malformed script must not take the crawl down.
	defer func() {
		if r := recover(); r != nil {
			jsa.logger.Warn().Interface("panic", r).Str("source_url", base.String()).Msg("jsluice analysis panicked")
		}
	}()

	analyzer := jsluice.NewAnalyzer(content)
	matches := analyzer.GetURLs()

	jsa.logger.Debug().
		Str("source_url", base.String()).
		Int("jsluice_url_count", len(matches)).
		Msg("Jsluice analysis completed")

	for _, m := range matches {
		result.ProcessedCount++

		info := jsa.resolver.Resolve(m.URL, base)
		if info == nil {
			continue
		}
		if _, exists := seen[info.Key()]; exists {
			continue
		}
		seen[info.Key()] = struct{}{}

		matchType := m.Type
		if matchType == "" {
			matchType = "unknown"
		}
		result.Links = append(result.Links, Link{
			Raw:       m.URL,
			Tag:       TagScript,
			Attribute: matchType,
			Info:      info,
		})
	}
	return result
}
