package hybrid

import "github.com/poiesic/recall/core"

// Monitor provides hooks to observe a hybrid search.
// Implement this interface to track per-source outcomes and the fused result.
type Monitor interface {
	Start(q core.HybridQuery)
	SourceDone(b SourceBreakdown)
	Finish(results []core.ScoredResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.HybridQuery)     {}
func (n *noopMonitor) SourceDone(_ SourceBreakdown) {}
func (n *noopMonitor) Finish(_ []core.ScoredResult) {}
