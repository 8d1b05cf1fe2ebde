package semantic

import (
	"sync"
	"time"
)

// Stats accumulates engine counters for the process lifetime.
// Updates are best-effort and never fail a search call.
type Stats struct {
	mu         sync.Mutex
	queries    uint64
	avgLatency time.Duration
	perModel   map[string]uint64
}

// StatsSnapshot is a point-in-time copy of the engine counters.
type StatsSnapshot struct {
	Queries    uint64
	AvgLatency time.Duration
	PerModel   map[string]uint64
}

func newStats() *Stats {
	return &Stats{perModel: make(map[string]uint64)}
}

func (s *Stats) record(model string, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	s.avgLatency += (took - s.avgLatency) / time.Duration(s.queries)
	s.perModel[model]++
}

func (s *Stats) snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	perModel := make(map[string]uint64, len(s.perModel))
	for k, v := range s.perModel {
		perModel[k] = v
	}
	return StatsSnapshot{Queries: s.queries, AvgLatency: s.avgLatency, PerModel: perModel}
}

func (s *Stats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = 0
	s.avgLatency = 0
	s.perModel = make(map[string]uint64)
}
