package memory

import (
	"context"
	"sync"
)

// StatsCache is an in-memory implementation of app.StatsCache.
type StatsCache struct {
	mu      sync.RWMutex
	average float64
	set     bool
}

func NewStatsCache() *StatsCache {
	return &StatsCache{}
}

func (c *StatsCache) SetAverageCorrect(_ context.Context, avg float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.average = avg
	c.set = true
	return nil
}

func (c *StatsCache) AverageCorrect(_ context.Context) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.average, c.set, nil
}
