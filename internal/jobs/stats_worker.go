package jobs

import (
	"context"

	"go.uber.org/zap"

	"trivia-service/internal/app"
)

// StatsWorker recomputes cross-game statistics off the critical path of turn
// submission. Game flows hand it a fire-and-forget stale signal; the worker
// coalesces signals and recomputes at its own pace.
type StatsWorker struct {
	stats  *app.StatsService
	log    *zap.Logger
	signal chan struct{}
}

func NewStatsWorker(stats *app.StatsService, log *zap.Logger) *StatsWorker {
	return &StatsWorker{
		stats:  stats,
		log:    log,
		signal: make(chan struct{}, 1),
	}
}

// NotifyStatsStale implements app.StatsNotifier. It never blocks: a pending
// signal already covers this one.
func (w *StatsWorker) NotifyStatsStale() {
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Run consumes stale signals until the context is cancelled.
func (w *StatsWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.signal:
			avg, err := w.stats.Recompute(ctx)
			if err != nil {
				w.log.Warn("stats recompute failed", zap.Error(err))
				continue
			}
			w.log.Debug("stats recomputed", zap.Float64("averageCorrectPerGame", avg))
		}
	}
}
