package middleware

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window in-memory limiter keyed by Telegram user.
// The dispatcher consults it before routing an update so one player mashing
// buttons cannot monopolize the single consumer.
type RateLimiter struct {
	userLimits map[int64]*userLimit
	mu         sync.Mutex

	maxRequests int
	window      time.Duration
}

type userLimit struct {
	requests  int
	resetTime time.Time
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:  make(map[int64]*userLimit),
		maxRequests: maxRequests,
		window:      window,
	}

	go rl.cleanup()

	return rl
}

// Allow reports whether the user is within their window and counts the
// request.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := rl.userLimits[userID]
	if !exists || now.After(limit.resetTime) {
		rl.userLimits[userID] = &userLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= rl.maxRequests {
		return false
	}

	limit.requests++
	return true
}

// Remaining returns how many requests the user has left in the window.
func (rl *RateLimiter) Remaining(userID int64) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := rl.userLimits[userID]
	if !exists || time.Now().After(limit.resetTime) {
		return rl.maxRequests
	}

	remaining := rl.maxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup drops expired windows.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for userID, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, userID)
			}
		}
		rl.mu.Unlock()
	}
}

// Reset clears all windows (useful for testing).
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[int64]*userLimit)
}
