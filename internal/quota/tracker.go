package quota

import (
	"context"
	"sync"
	"time"

	"github.com/itsmrpeck/sglobbylink-go/internal/obslog"
	"go.uber.org/zap"
)

// Outcome classifies one Increment call.
type Outcome int

const (
	UnderLimit Outcome = iota
	UserJustExceeded
	GlobalJustExceeded
	AlreadyOverLimit
)

func (o Outcome) String() string {
	switch o {
	case UnderLimit:
		return "under_limit"
	case UserJustExceeded:
		return "user_just_exceeded"
	case GlobalJustExceeded:
		return "global_just_exceeded"
	case AlreadyOverLimit:
		return "already_over_limit"
	default:
		return "unknown"
	}
}

const resetInterval = 24 * time.Hour

// Tracker counts daily requests per user and in aggregate. One mutex guards
// both counters; the reset loop clears them through the same mutex.
type Tracker struct {
	mu      sync.Mutex
	perUser map[string]int
	global  int

	perUserLimit int
	globalLimit  int
}

func NewTracker(perUserLimit, globalLimit int) *Tracker {
	return &Tracker{
		perUser:      make(map[string]int),
		perUserLimit: perUserLimit,
		globalLimit:  globalLimit,
	}
}

// Increment records one request for userID and classifies the result.
// The counters are intentionally bumped before the just-exceeded checks and
// re-checked afterwards: a caller under their own limit can still push the
// global counter past its limit, and the next call sees the hard deny.
// A non-positive per-user limit disables the bot outright.
func (t *Tracker) Increment(userID string) Outcome {
	if t.perUserLimit <= 0 {
		return AlreadyOverLimit
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.global > t.globalLimit {
		return AlreadyOverLimit
	}
	if t.perUser[userID] > t.perUserLimit {
		return AlreadyOverLimit
	}

	t.perUser[userID]++
	t.global++

	if t.global > t.globalLimit {
		return GlobalJustExceeded
	}
	if t.perUser[userID] > t.perUserLimit {
		return UserJustExceeded
	}
	return UnderLimit
}

// Snapshot returns the global count and a copy of the per-user counts.
func (t *Tracker) Snapshot() (int, map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	users := make(map[string]int, len(t.perUser))
	for k, v := range t.perUser {
		users[k] = v
	}
	return t.global, users
}

// Reset clears both counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.perUser = make(map[string]int)
	t.global = 0
}

// ResetLoop clears the counters every 24 hours until ctx is done.
func (t *Tracker) ResetLoop(ctx context.Context) {
	ticker := time.NewTicker(resetInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Reset()
			obslog.L().Info("quota_reset", zap.Duration("interval", resetInterval))
		}
	}
}
