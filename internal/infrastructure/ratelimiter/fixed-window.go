package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindow counts requests per source key inside fixed time windows.
// Good enough for an editorial API; not a distributed limiter.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	size    time.Duration
	ticker  *time.Ticker
	done    chan struct{}
}

type window struct {
	count   int
	resetAt time.Time
}

func NewFixedWindow(limit int, size time.Duration) *FixedWindow {
	rl := &FixedWindow{
		windows: make(map[string]*window),
		limit:   limit,
		size:    size,
		ticker:  time.NewTicker(size),
		done:    make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

// Allow reports whether the source may proceed. When denied, the second
// return value is how long the source should wait before retrying.
func (rl *FixedWindow) Allow(source string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[source]
	if !ok || now.After(w.resetAt) {
		rl.windows[source] = &window{count: 1, resetAt: now.Truncate(rl.size).Add(rl.size)}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, time.Until(w.resetAt)
	}
	w.count++
	return true, 0
}

func (rl *FixedWindow) runCleanup() {
	for {
		select {
		case <-rl.ticker.C:
			now := time.Now()
			rl.mu.Lock()
			for source, w := range rl.windows {
				if now.After(w.resetAt) {
					delete(rl.windows, source)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindow) Close() {
	close(rl.done)
	rl.ticker.Stop()
}
