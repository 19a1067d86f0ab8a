package extractor

import (
	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// LinkExtractor is the entry point used by the crawler: it routes a fetched
// body to the HTML or JavaScript analyzer and returns de-duplicated links.
type LinkExtractor struct {
	logger      zerolog.Logger
	cfg         config.ExtractorConfig
	contentType *ContentTypeAnalyzer
	html        *HTMLExtractor
	scripts     *JSluiceAnalyzer
}

// NewLinkExtractor creates a new LinkExtractor backed by engine
func NewLinkExtractor(engine *urlhandler.Engine, cfg config.ExtractorConfig, logger zerolog.Logger) (*LinkExtractor, error) {
	if engine == nil {
		return nil, errorwrapper.NewValidationError("engine", nil, "URL engine is required")
	}

	resolver := NewLinkResolver(engine, logger)
	scripts := NewJSluiceAnalyzer(resolver, logger)

	var inline *JSluiceAnalyzer
	if cfg.ParseInlineScripts {
		inline = scripts
	}

	return &LinkExtractor{
		logger:      logger.With().Str("component", "LinkExtractor").Logger(),
		cfg:         cfg,
		contentType: NewContentTypeAnalyzer(logger),
		html:        NewHTMLExtractor(resolver, inline, logger),
		scripts:     scripts,
	}, nil
}

// Extract returns the links found in body, which was fetched from page.
// Bodies that are neither HTML nor JavaScript yield no links.
func (le *LinkExtractor) Extract(page *urlhandler.URLInfo, contentType string, body []byte) ([]Link, error) {
	if page == nil || !page.IsValid() {
		return nil, errorwrapper.NewValidationError("page", page, "page URL must be valid")
	}

	// The page itself is never reported as a link.
	seen := map[string]struct{}{page.Key(): {}}

	var result AnalysisResult
	switch {
	case le.contentType.ShouldAnalyzeWithJSluice(page, contentType):
		result = le.scripts.AnalyzeJavaScript(body, page, seen)
	case le.contentType.IsHTML(page, contentType):
		var err error
		result, err = le.html.Extract(page, body, seen)
		if err != nil {
			return nil, err
		}
	default:
		le.logger.Debug().Str("source_url", page.String()).Str("content_type", contentType).Msg("Skipping non-document body")
		return nil, nil
	}

	links := result.Links
	if le.cfg.MaxLinksPerPage > 0 && len(links) > le.cfg.MaxLinksPerPage {
		le.logger.Warn().
			Str("source_url", page.String()).
			Int("found", len(links)).
			Int("limit", le.cfg.MaxLinksPerPage).
			Msg("Page exceeds link limit, truncating")
		links = links[:le.cfg.MaxLinksPerPage]
	}
	return links, nil
}
