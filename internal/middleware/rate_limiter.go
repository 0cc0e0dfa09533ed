package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/podium/backend/internal/config"
)

// UploadLimiter gives every client its own token bucket for file uploads.
// Buckets of clients idle for longer than the idle window are swept at most
// once per window.
type UploadLimiter struct {
	refill rate.Limit
	burst  int
	idle   time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*uploadBudget
	lastSweep time.Time
}

type uploadBudget struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

const uploadIdleWindow = 10 * time.Minute

// NewUploadRateLimiter allows cfg.Requests uploads per cfg.Window plus a
// burst of cfg.Burst. Non-positive settings become one upload per second.
func NewUploadRateLimiter(cfg config.UploadLimitConfig) *UploadLimiter {
	requests, window, burst := cfg.Requests, cfg.Window, cfg.Burst
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}

	return &UploadLimiter{
		refill:  rate.Every(window / time.Duration(requests)),
		burst:   burst,
		idle:    uploadIdleWindow,
		now:     time.Now,
		clients: make(map[string]*uploadBudget),
	}
}

// Allow spends one upload token from client's bucket.
func (l *UploadLimiter) Allow(client string) bool {
	if client == "" {
		client = "anonymous"
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}

	budget, ok := l.clients[client]
	if !ok {
		budget = &uploadBudget{bucket: rate.NewLimiter(l.refill, l.burst)}
		l.clients[client] = budget
	}
	budget.lastSeen = now
	return budget.bucket.AllowN(now, 1)
}

func (l *UploadLimiter) sweepLocked(now time.Time) {
	for client, budget := range l.clients {
		if now.Sub(budget.lastSeen) > l.idle {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}
