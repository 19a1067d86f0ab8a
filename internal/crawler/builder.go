package crawler

import (
	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/extractor"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// CrawlerBuilder provides a fluent interface for creating Crawler instances
type CrawlerBuilder struct {
	config    *config.CrawlerConfig
	engine    *urlhandler.Engine
	extractor *extractor.LinkExtractor
	logger    zerolog.Logger
}

// NewCrawlerBuilder creates a new CrawlerBuilder instance
func NewCrawlerBuilder(logger zerolog.Logger) *CrawlerBuilder {
	return &CrawlerBuilder{
		logger: logger.With().Str("module", "Crawler").Logger(),
	}
}

// WithConfig sets the crawler configuration
func (cb *CrawlerBuilder) WithConfig(cfg *config.CrawlerConfig) *CrawlerBuilder {
	cb.config = cfg
	return cb
}

// WithEngine sets the URL engine every discovered link goes through
func (cb *CrawlerBuilder) WithEngine(engine *urlhandler.Engine) *CrawlerBuilder {
	cb.engine = engine
	return cb
}

// WithExtractor sets the link extractor used on fetched bodies
func (cb *CrawlerBuilder) WithExtractor(ext *extractor.LinkExtractor) *CrawlerBuilder {
	cb.extractor = ext
	return cb
}

// Build creates a new Crawler instance with the configured settings
func (cb *CrawlerBuilder) Build() (*Crawler, error) {
	if cb.config == nil {
		return nil, errorwrapper.NewValidationError("config", nil, "crawler config cannot be nil")
	}
	if cb.engine == nil {
		return nil, errorwrapper.NewValidationError("engine", nil, "URL engine cannot be nil")
	}
	if cb.extractor == nil {
		return nil, errorwrapper.NewValidationError("extractor", nil, "link extractor cannot be nil")
	}

	crawler := &Crawler{
		config:    *cb.config,
		engine:    cb.engine,
		extractor: cb.extractor,
		logger:    cb.logger,
	}

	if err := crawler.initialize(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to initialize crawler")
	}

	return crawler, nil
}

// getIntValueOrDefault returns value if greater than 0, otherwise returns default
func getIntValueOrDefault(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}

// getValueOrDefault returns value if not empty, otherwise returns default
func getValueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
