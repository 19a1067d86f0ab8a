package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/extractor"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocsServer(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/": `<html><body>
			<a href="/guide/">Guide</a>
			<a href="guide/#install">Guide again</a>
			<a href="https://external.example.org/">External</a>
			<a href="/missing">Missing</a>
			<a href="/redirect">Redirect</a>
			<a href="/logo.png">Logo</a>
		</body></html>`,
		"/guide/": `<html><body>
			<a href="/">Home</a>
			<a href="../guide/intro">Intro</a>
		</body></html>`,
		"/guide/intro": `<html><body><p>No links here.</p></body></html>`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "http://169.254.169.254/latest/meta-data/", http.StatusFound)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCrawler(t *testing.T, mutate func(*config.CrawlerConfig)) (*Crawler, *urlhandler.Engine) {
	t.Helper()
	engine := newTestEngine(t, true)

	ext, err := extractor.NewLinkExtractor(engine, config.NewDefaultExtractorConfig(), zerolog.Nop())
	require.NoError(t, err)

	cfg := config.NewDefaultCrawlerConfig()
	cfg.RespectRobotsTxt = false
	cfg.MaxConcurrentRequests = 2
	cfg.RequestTimeoutSecs = 5
	if mutate != nil {
		mutate(&cfg)
	}

	cr, err := NewCrawler(&cfg, engine, ext, zerolog.Nop())
	require.NoError(t, err)
	return cr, engine
}

func seedTargets(t *testing.T, engine *urlhandler.Engine, seeds ...string) []urlhandler.Target {
	t.Helper()
	targets, err := urlhandler.NewTargetManager(engine, zerolog.Nop()).LoadSeeds("", seeds)
	require.NoError(t, err)
	return targets
}

func TestCrawler_Run(t *testing.T) {
	server := newDocsServer(t)
	cr, engine := newTestCrawler(t, nil)

	summary, err := cr.Run(context.Background(), seedTargets(t, engine, server.URL))
	require.NoError(t, err)

	root := server.URL + "/"
	assert.Equal(t, 1, summary.Seeds)
	assert.Equal(t, []string{root, root + "guide/", root + "guide/intro"}, summary.Pages)
	assert.Equal(t, 3, summary.Visited)
	assert.Equal(t, 2, summary.Errors, "missing page and blocked redirect")
	assert.Equal(t, 5, summary.InternalPages)
	assert.Equal(t, 7, summary.Discovered)

	var httpErr *errorwrapper.HTTPError
	var notFound, blocked int
	for _, f := range summary.Failures {
		switch {
		case errors.As(f, &httpErr):
			assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
			notFound++
		case errors.Is(f, errorwrapper.ErrNetworkFailure):
			blocked++
		}
	}
	assert.Equal(t, 1, notFound)
	assert.Equal(t, 1, blocked)

	require.Len(t, summary.Domains, 2)
	assert.Equal(t, "127.0.0.1", summary.Domains[0].Domain)
	assert.Equal(t, 3, summary.Domains[0].Fetched)
	assert.Equal(t, 2, summary.Domains[0].Errors)
	assert.Equal(t, 1, summary.Domains[0].Skipped[ReasonOutOfScope])
	assert.Equal(t, "example.org", summary.Domains[1].Domain)
	assert.Equal(t, 1, summary.Domains[1].Skipped[ReasonExternal])
}

func TestCrawler_MaxDepthZeroFetchesSeedsOnly(t *testing.T) {
	server := newDocsServer(t)
	cr, engine := newTestCrawler(t, func(c *config.CrawlerConfig) { c.MaxDepth = 0 })

	summary, err := cr.Run(context.Background(), seedTargets(t, engine, server.URL))
	require.NoError(t, err)
	assert.Equal(t, []string{server.URL + "/"}, summary.Pages)
	assert.Equal(t, 1, summary.Discovered)
}

func TestCrawler_PageLimit(t *testing.T) {
	server := newDocsServer(t)
	cr, engine := newTestCrawler(t, func(c *config.CrawlerConfig) { c.MaxInternalPages = 2 })

	summary, err := cr.Run(context.Background(), seedTargets(t, engine, server.URL))
	require.NoError(t, err)
	assert.Equal(t, []string{server.URL + "/", server.URL + "/guide/"}, summary.Pages)
	assert.Equal(t, 2, summary.InternalPages)
	assert.Zero(t, summary.Errors)
	assert.Positive(t, summary.Domains[0].Skipped[ReasonPageLimit])
}

func TestCrawler_CancelledContext(t *testing.T) {
	server := newDocsServer(t)
	cr, engine := newTestCrawler(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := cr.Run(ctx, seedTargets(t, engine, server.URL))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Visited)
}

func TestCrawler_NoTargets(t *testing.T) {
	cr, _ := newTestCrawler(t, nil)
	_, err := cr.Run(context.Background(), nil)
	assert.ErrorIs(t, err, urlhandler.ErrNoTargets)
}

func TestCrawlerBuilder_MissingDependencies(t *testing.T) {
	cfg := config.NewDefaultCrawlerConfig()

	_, err := NewCrawlerBuilder(zerolog.Nop()).Build()
	assert.Error(t, err)

	_, err = NewCrawlerBuilder(zerolog.Nop()).WithConfig(&cfg).Build()
	assert.Error(t, err)
}
