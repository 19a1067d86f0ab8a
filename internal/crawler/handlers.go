package crawler

import (
	"errors"
	"net/http"

	"github.com/aleister1102/doccrawler/internal/common/contextutils"
	"github.com/aleister1102/doccrawler/internal/common/errorwrapper"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/gocolly/colly/v2"
)

// handleRequest processes colly request callbacks
func (run *crawlRun) handleRequest(r *colly.Request) {
	if run.isContextCancelled() {
		run.logger.Debug().Str("url", r.URL.String()).Msg("Context cancelled, aborting request")
		r.Abort()
	}
}

// handleResponse processes colly response callbacks
func (run *crawlRun) handleResponse(r *colly.Response) {
	page := run.engine.Create(r.Request.URL.String(), "")

	run.mutex.Lock()
	run.totalVisited++
	run.pages = append(run.pages, page.Key())
	run.mutex.Unlock()
	run.stats.RecordFetch(page, false)

	if !run.shouldExpand(page, r.Request.Depth) {
		return
	}

	links, err := run.extractor.Extract(page, r.Headers.Get("Content-Type"), r.Body)
	if err != nil {
		run.logger.Warn().Str("url", page.String()).Err(err).Msg("Link extraction failed")
		return
	}

	enqueued := 0
	for _, link := range links {
		d := run.scheduler.Decide(link.Info)
		if !d.Enqueue() {
			continue
		}
		enqueued++
		if err := r.Request.Visit(link.Info.NormalizedURL()); err != nil {
			run.handleVisitError(link.Info.NormalizedURL(), err)
		}
	}

	run.logger.Debug().
		Str("url", page.String()).
		Int("links", len(links)).
		Int("enqueued", enqueued).
		Msg("Processed page")
}

// shouldExpand reports whether links of page are followed: the page must be
// internal to its root and below the depth limit.
func (run *crawlRun) shouldExpand(page *urlhandler.URLInfo, depth int) bool {
	if !page.IsValid() {
		return false
	}
	if depth-1 >= run.maxDepth {
		return false
	}
	root := urlhandler.RootFor(page, run.roots)
	return page.TypeRelativeTo(root) == urlhandler.URLTypeInternal
}

// handleError processes colly error callbacks
func (run *crawlRun) handleError(r *colly.Response, e error) {
	target := r.Request.URL.String()
	run.stats.RecordFetch(run.engine.Create(target, ""), true)

	var failure error
	if r.StatusCode >= http.StatusBadRequest {
		failure = errorwrapper.NewHTTPErrorWithURL(r.StatusCode, http.StatusText(r.StatusCode), target)
	} else {
		failure = errorwrapper.NewNetworkError(target, e.Error(), e)
	}

	run.mutex.Lock()
	run.totalErrors++
	run.failures = append(run.failures, failure)
	run.mutex.Unlock()

	if run.isContextCancelled() {
		run.logger.Debug().Str("url", target).Err(e).Msg("Request failed after context cancellation")
		return
	}
	run.logger.Warn().
		Str("url", target).
		Int("status", r.StatusCode).
		Err(e).
		Msg("Request failed")
}

// checkRedirect sends every redirect target through the URL engine, so a
// public page cannot bounce the crawler onto a private or metadata address.
func (run *crawlRun) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errorwrapper.NewError("stopped after %d redirects", maxRedirects)
	}
	target := run.engine.Create(req.URL.String(), "")
	if !target.IsValid() {
		run.logger.Warn().
			Str("from", via[len(via)-1].URL.String()).
			Str("to", req.URL.String()).
			Str("kind", target.ErrorKind().String()).
			Msg("Blocked redirect")
		return errorwrapper.WrapError(target.Err(), "redirect target rejected")
	}
	return nil
}

// isContextCancelled checks if context is cancelled
func (run *crawlRun) isContextCancelled() bool {
	return contextutils.CheckCancellation(run.ctx).Cancelled
}

// handleVisitError handles errors from colly Visit calls
func (run *crawlRun) handleVisitError(target string, err error) {
	if errors.Is(err, colly.ErrAlreadyVisited) ||
		errors.Is(err, colly.ErrRobotsTxtBlocked) ||
		errors.Is(err, colly.ErrMaxDepth) {
		run.logger.Debug().Str("url", target).Err(err).Msg("Visit skipped")
		return
	}

	run.logger.Warn().
		Str("url", target).
		Err(err).
		Msg("Error queueing visit")
}
