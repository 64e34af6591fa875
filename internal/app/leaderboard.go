package app

import (
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// LeaderboardHub fans ranking snapshots out to subscribers. Games publish a
// fresh board after every rollup; websocket clients subscribe to watch it
// move.
type LeaderboardHub struct {
	now func() time.Time

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
	last        domain.Leaderboard
	hasLast     bool
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		now:         time.Now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe returns a channel carrying leaderboard snapshots, primed with the
// latest board if one exists. The caller must invoke cancel to avoid leaks.
func (h *LeaderboardHub) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	if h.hasLast {
		ch <- h.last
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish pushes a new board to every subscriber. Slow subscribers lose stale
// snapshots rather than blocking the publisher.
func (h *LeaderboardHub) Publish(entries []domain.RankEntry) {
	board := domain.Leaderboard{Entries: entries, UpdatedAt: h.now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = board
	h.hasLast = true
	for ch := range h.subscribers {
		select {
		case ch <- board:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
