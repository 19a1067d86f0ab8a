package crawler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aleister1102/doccrawler/internal/common/contextutils"
	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/extractor"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

const maxRedirects = 10

// Crawler fetches documentation pages with colly and feeds every discovered
// link through the URL engine and the Scheduler. A Crawler can be run many
// times; each Run gets a fresh collector and frontier.
type Crawler struct {
	config    config.CrawlerConfig
	engine    *urlhandler.Engine
	extractor *extractor.LinkExtractor
	logger    zerolog.Logger

	userAgent      string
	requestTimeout time.Duration
	threads        int
	maxDepth       int
}

// Summary describes a finished crawl
type Summary struct {
	Seeds         int
	Visited       int
	Errors        int
	Discovered    int
	InternalPages int
	// Pages lists the normalized URLs fetched successfully, sorted.
	Pages    []string
	Failures []error
	Domains  []DomainSummary
	Duration time.Duration
}

// NewCrawler initializes a new Crawler based on the provided configuration
func NewCrawler(cfg *config.CrawlerConfig, engine *urlhandler.Engine, ext *extractor.LinkExtractor, appLogger zerolog.Logger) (*Crawler, error) {
	return NewCrawlerBuilder(appLogger).
		WithConfig(cfg).
		WithEngine(engine).
		WithExtractor(ext).
		Build()
}

// initialize applies defaults for unset values
func (cr *Crawler) initialize() error {
	cfg := cr.config

	cr.userAgent = getValueOrDefault(cfg.UserAgent, config.DefaultCrawlerUserAgent)
	cr.requestTimeout = time.Duration(getIntValueOrDefault(cfg.RequestTimeoutSecs, config.DefaultCrawlerRequestTimeoutSecs)) * time.Second
	cr.threads = getIntValueOrDefault(cfg.MaxConcurrentRequests, config.DefaultCrawlerMaxConcurrentRequests)
	// Zero is meaningful here: fetch the seeds only.
	cr.maxDepth = cfg.MaxDepth
	if cr.maxDepth < 0 {
		cr.maxDepth = config.DefaultCrawlerMaxDepth
	}

	cr.logger.Debug().
		Str("user_agent", cr.userAgent).
		Dur("timeout", cr.requestTimeout).
		Int("threads", cr.threads).
		Int("max_depth", cr.maxDepth).
		Int("max_internal_pages", cfg.MaxInternalPages).
		Bool("include_external", cfg.IncludeExternal).
		Bool("respect_robots_txt", cfg.RespectRobotsTxt).
		Msg("Crawler initialized")
	return nil
}

// crawlRun is the state of one Run call
type crawlRun struct {
	*Crawler
	ctx       context.Context
	collector *colly.Collector
	roots     []*urlhandler.URLInfo
	scheduler *Scheduler
	stats     *DomainStats

	mutex        sync.Mutex
	totalVisited int
	totalErrors  int
	pages        []string
	failures     []error
}

// Run crawls from targets until the frontier is exhausted or ctx is cancelled.
// The summary is returned even when ctx ends the crawl early.
func (cr *Crawler) Run(ctx context.Context, targets []urlhandler.Target) (*Summary, error) {
	if len(targets) == 0 {
		return nil, urlhandler.ErrNoTargets
	}

	start := time.Now()
	run := &crawlRun{
		Crawler: cr,
		ctx:     ctx,
		roots:   urlhandler.Roots(targets),
		stats:   NewDomainStats(),
	}
	run.scheduler = NewScheduler(run.roots, SchedulerOptions{
		MaxInternalPages: cr.config.MaxInternalPages,
		IncludeExternal:  cr.config.IncludeExternal,
	}, NewScope(cr.config.Scope, cr.logger), run.stats, cr.logger)

	collector, err := run.newCollector()
	if err != nil {
		return nil, err
	}
	run.collector = collector

	cr.logger.Info().Int("seeds", len(run.roots)).Msg("Starting crawl")
	for _, root := range run.roots {
		d := run.scheduler.Decide(root)
		if !d.Enqueue() {
			cr.logger.Warn().Str("seed", root.String()).Str("reason", string(d.Reason)).Msg("Seed not crawled")
			continue
		}
		if err := collector.Visit(root.NormalizedURL()); err != nil {
			run.handleVisitError(root.NormalizedURL(), err)
		}
	}
	collector.Wait()

	summary := run.summary(time.Since(start))
	cr.logger.Info().
		Int("visited", summary.Visited).
		Int("errors", summary.Errors).
		Int("discovered", summary.Discovered).
		Int("internal_pages", summary.InternalPages).
		Dur("duration", summary.Duration).
		Msg("Crawl finished")

	if res := contextutils.CheckCancellationWithLog(ctx, cr.logger, "crawl"); res.Cancelled {
		return summary, res.Error
	}
	return summary, nil
}

// newCollector configures colly for one run
func (run *crawlRun) newCollector() (*colly.Collector, error) {
	c := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(run.userAgent),
		// colly counts the seed as depth 1.
		colly.MaxDepth(run.maxDepth+1),
	)
	c.IgnoreRobotsTxt = !run.config.RespectRobotsTxt
	c.SetRequestTimeout(run.requestTimeout)
	c.SetRedirectHandler(run.checkRedirect)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: run.threads,
	}); err != nil {
		return nil, err
	}

	c.OnRequest(run.handleRequest)
	c.OnResponse(run.handleResponse)
	c.OnError(run.handleError)
	return c, nil
}

func (run *crawlRun) summary(duration time.Duration) *Summary {
	run.mutex.Lock()
	defer run.mutex.Unlock()

	pages := append([]string(nil), run.pages...)
	sort.Strings(pages)

	return &Summary{
		Seeds:         len(run.roots),
		Visited:       run.totalVisited,
		Errors:        run.totalErrors,
		Discovered:    run.scheduler.Seen(),
		InternalPages: run.scheduler.InternalPages(),
		Pages:         pages,
		Failures:      append([]error(nil), run.failures...),
		Domains:       run.stats.Snapshot(),
		Duration:      duration,
	}
}
