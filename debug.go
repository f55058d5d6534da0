package motion

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and workload counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	elements   int
	points     int
	callbacks  int
}

// debugLog writes frame stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		zap.Int("frame", s.state.Frame),
		zap.Duration("update", stats.updateTime),
		zap.Int("elements", stats.elements),
		zap.Int("points", stats.points),
		zap.Int("callbacks", stats.callbacks),
		zap.Bool("static", s.static))
}
