package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainStats(t *testing.T) {
	engine := newTestEngine(t, false)
	stats := NewDomainStats()

	docs := engine.Create("https://docs.example.com/", "")
	api := engine.Create("https://api.example.com/", "")
	bad := engine.Create("javascript:alert(1)", "")

	stats.RecordDecision(Decision{Info: docs, Reason: ReasonEnqueue})
	stats.RecordDecision(Decision{Info: api, Reason: ReasonPageLimit})
	stats.RecordDecision(Decision{Info: bad, Reason: ReasonInvalid})
	stats.RecordFetch(docs, false)
	stats.RecordFetch(api, true)

	snapshot := stats.Snapshot()
	require.Len(t, snapshot, 2)

	assert.Equal(t, DomainSummary{Domain: "(invalid)", Discovered: 1, Skipped: map[Reason]int{ReasonInvalid: 1}}, snapshot[0])
	assert.Equal(t, DomainSummary{
		Domain:     "example.com",
		Discovered: 2,
		Enqueued:   1,
		Fetched:    1,
		Errors:     1,
		Skipped:    map[Reason]int{ReasonPageLimit: 1},
	}, snapshot[1])

	// Snapshots are copies.
	snapshot[1].Skipped[ReasonExternal] = 10
	assert.Zero(t, stats.Snapshot()[1].Skipped[ReasonExternal])
}
