package crawler

import (
	"sync"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// Reason explains a scheduler decision
type Reason string

const (
	ReasonEnqueue    Reason = "enqueue"
	ReasonInvalid    Reason = "invalid"
	ReasonExternal   Reason = "external"
	ReasonDuplicate  Reason = "duplicate"
	ReasonPageLimit  Reason = "page-limit"
	ReasonOutOfScope Reason = "out-of-scope"
)

// Decision is the scheduler's verdict on one discovered URL
type Decision struct {
	Info *urlhandler.URLInfo
	// Root is the crawl root the URL was classified against; nil without roots.
	Root   *urlhandler.URLInfo
	Type   urlhandler.URLType
	Reason Reason
}

// Enqueue reports whether the URL should be fetched
func (d Decision) Enqueue() bool { return d.Reason == ReasonEnqueue }

// SchedulerOptions tune the frontier policy
type SchedulerOptions struct {
	// MaxInternalPages caps enqueued internal pages; 0 means unlimited.
	MaxInternalPages int
	// IncludeExternal enqueues external pages as leaves instead of skipping them.
	IncludeExternal bool
}

// Scheduler owns the crawl frontier policy: it de-duplicates by normalized
// URL, keeps the crawl on the roots' registered domains and enforces the
// internal page limit. Decide is safe for concurrent use.
type Scheduler struct {
	mu            sync.Mutex
	roots         []*urlhandler.URLInfo
	seen          map[string]struct{}
	internalPages int
	opts          SchedulerOptions
	scope         *Scope
	stats         *DomainStats
	logger        zerolog.Logger
}

// NewScheduler creates a scheduler for the given crawl roots. scope and stats may be nil.
func NewScheduler(roots []*urlhandler.URLInfo, opts SchedulerOptions, scope *Scope, stats *DomainStats, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		roots:  append([]*urlhandler.URLInfo(nil), roots...),
		seen:   make(map[string]struct{}),
		opts:   opts,
		scope:  scope,
		stats:  stats,
		logger: logger.With().Str("component", "Scheduler").Logger(),
	}
}

// Decide classifies info and records it in the frontier when it is enqueued.
// Checks run in a fixed order: invalid, duplicate, out-of-scope, external,
// page-limit. A URL is marked seen on its first valid sighting whatever
// the outcome, so later sightings report duplicate.
func (s *Scheduler) Decide(info *urlhandler.URLInfo) Decision {
	if info == nil {
		return Decision{Reason: ReasonInvalid}
	}
	d := s.decide(info)
	if s.stats != nil {
		s.stats.RecordDecision(d)
	}
	s.logger.Debug().
		Str("url", info.String()).
		Str("type", d.Type.String()).
		Str("reason", string(d.Reason)).
		Msg("Frontier decision")
	return d
}

func (s *Scheduler) decide(info *urlhandler.URLInfo) Decision {
	d := Decision{Info: info, Type: urlhandler.URLTypeUnknown}
	if !info.IsValid() {
		d.Reason = ReasonInvalid
		return d
	}

	d.Root = urlhandler.RootFor(info, s.roots)
	if d.Root != nil {
		d.Type = info.TypeRelativeTo(d.Root)
	} else {
		d.Type = info.Type()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := info.Key()
	if _, dup := s.seen[key]; dup {
		d.Reason = ReasonDuplicate
		return d
	}
	s.seen[key] = struct{}{}

	if s.scope != nil && !s.scope.Allows(info) {
		d.Reason = ReasonOutOfScope
		return d
	}

	internal := d.Type == urlhandler.URLTypeInternal
	if !internal && !s.opts.IncludeExternal {
		d.Reason = ReasonExternal
		return d
	}

	if internal {
		if s.opts.MaxInternalPages > 0 && s.internalPages >= s.opts.MaxInternalPages {
			d.Reason = ReasonPageLimit
			return d
		}
		s.internalPages++
	}

	d.Reason = ReasonEnqueue
	return d
}

// InternalPages returns the number of internal pages enqueued so far
func (s *Scheduler) InternalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internalPages
}

// Seen reports how many distinct valid URLs were decided on
func (s *Scheduler) Seen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
