package crawler

import (
	"sort"
	"sync"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
)

// DomainSummary holds the counters of one partition. Partitions are keyed by
// registered domain so docs.example.com and api.example.com share a row.
type DomainSummary struct {
	Domain     string
	Discovered int
	Enqueued   int
	Fetched    int
	Errors     int
	Skipped    map[Reason]int
}

// DomainStats aggregates crawl counters per registered domain. It is safe for
// concurrent use by colly callbacks.
type DomainStats struct {
	mu      sync.Mutex
	domains map[string]*DomainSummary
}

// NewDomainStats creates an empty DomainStats
func NewDomainStats() *DomainStats {
	return &DomainStats{domains: make(map[string]*DomainSummary)}
}

func (ds *DomainStats) entry(info *urlhandler.URLInfo) *DomainSummary {
	key := urlhandler.PartitionKey(info)
	if key == "" {
		key = "(invalid)"
	}
	s, ok := ds.domains[key]
	if !ok {
		s = &DomainSummary{Domain: key, Skipped: make(map[Reason]int)}
		ds.domains[key] = s
	}
	return s
}

// RecordDecision counts a scheduler decision against info's partition
func (ds *DomainStats) RecordDecision(d Decision) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	s := ds.entry(d.Info)
	s.Discovered++
	if d.Reason == ReasonEnqueue {
		s.Enqueued++
		return
	}
	s.Skipped[d.Reason]++
}

// RecordFetch counts a completed fetch, successful or not
func (ds *DomainStats) RecordFetch(info *urlhandler.URLInfo, failed bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	s := ds.entry(info)
	if failed {
		s.Errors++
		return
	}
	s.Fetched++
}

// Snapshot returns a copy of every partition, sorted by domain
func (ds *DomainStats) Snapshot() []DomainSummary {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := make([]DomainSummary, 0, len(ds.domains))
	for _, s := range ds.domains {
		c := *s
		c.Skipped = make(map[Reason]int, len(s.Skipped))
		for k, v := range s.Skipped {
			c.Skipped[k] = v
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}
