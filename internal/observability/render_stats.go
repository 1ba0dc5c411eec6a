// Package observability provides view render statistics for performance monitoring.
package observability

import (
	"sort"
	"sync"
	"time"
)

// RenderStats tracks how often each dashboard view recomputes and how
// long recomputation takes.
type RenderStats struct {
	mu    sync.RWMutex
	views map[string]*ViewStats
}

// ViewStats holds statistics for one view.
type ViewStats struct {
	View      string        `json:"view"`
	Renders   int64         `json:"renders"`
	Errors    int64         `json:"errors"`
	LastSeen  time.Time     `json:"last_seen"`
	TotalTime time.Duration `json:"-"`
	MaxTime   time.Duration `json:"-"`

	// MeanMillis and MaxMillis are derived for the JSON snapshot.
	MeanMillis float64 `json:"mean_millis"`
	MaxMillis  float64 `json:"max_millis"`
}

// NewRenderStats creates a new render statistics tracker.
func NewRenderStats() *RenderStats {
	return &RenderStats{views: make(map[string]*ViewStats)}
}

// Record records one view recomputation.
// This method is O(1) and thread-safe.
func (s *RenderStats) Record(view string, elapsed time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, exists := s.views[view]
	if !exists {
		stats = &ViewStats{View: view}
		s.views[view] = stats
	}

	stats.Renders++
	if failed {
		stats.Errors++
	}
	stats.LastSeen = time.Now()
	stats.TotalTime += elapsed
	if elapsed > stats.MaxTime {
		stats.MaxTime = elapsed
	}
}

// Snapshot returns a copy of all view stats sorted by render count
// (descending), with derived millisecond figures filled in.
func (s *RenderStats) Snapshot() []ViewStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ViewStats, 0, len(s.views))
	for _, v := range s.views {
		c := *v
		if c.Renders > 0 {
			c.MeanMillis = float64(c.TotalTime.Microseconds()) / float64(c.Renders) / 1000
		}
		c.MaxMillis = float64(c.MaxTime.Microseconds()) / 1000
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Renders != out[j].Renders {
			return out[i].Renders > out[j].Renders
		}
		return out[i].View < out[j].View
	})
	return out
}

// Reset clears all recorded statistics.
func (s *RenderStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = make(map[string]*ViewStats)
}
