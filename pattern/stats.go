package pattern

import (
	"sync"
	"time"

	"github.com/poiesic/recall/core"
)

// Stats accumulates engine counters for the process lifetime.
// Updates are best-effort and never fail a search call.
type Stats struct {
	mu         sync.Mutex
	queries    uint64
	avgLatency time.Duration
	perKind    map[core.PatternKind]uint64
}

// StatsSnapshot is a point-in-time copy of the engine counters.
type StatsSnapshot struct {
	Queries    uint64
	AvgLatency time.Duration
	CacheHits  uint64
	PerKind    map[string]uint64
}

func newStats() *Stats {
	return &Stats{perKind: make(map[core.PatternKind]uint64)}
}

// record folds one query into the counters, updating the running average
// latency incrementally rather than storing per-sample data.
func (s *Stats) record(kind core.PatternKind, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	s.avgLatency += (took - s.avgLatency) / time.Duration(s.queries)
	s.perKind[kind]++
}

func (s *Stats) snapshot(cacheHits uint64) StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	perKind := make(map[string]uint64, len(s.perKind))
	for k, v := range s.perKind {
		perKind[k.String()] = v
	}
	return StatsSnapshot{
		Queries:    s.queries,
		AvgLatency: s.avgLatency,
		CacheHits:  cacheHits,
		PerKind:    perKind,
	}
}

func (s *Stats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = 0
	s.avgLatency = 0
	s.perKind = make(map[core.PatternKind]uint64)
}
