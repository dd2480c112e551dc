package lobby

import (
	"sync"
	"time"
)

// Cooldown gates the auxiliary instructions image. One timestamp shared by
// all requesters, deliberately coarse to bound outbound image traffic.
type Cooldown struct {
	mu       sync.Mutex
	enabled  bool
	interval time.Duration
	last     time.Time

	now func() time.Time
}

func NewCooldown(enabled bool, interval time.Duration) *Cooldown {
	return &Cooldown{enabled: enabled, interval: interval, now: time.Now}
}

// TryFire reports whether an image may be sent now, and when it may,
// consumes the window. Read-compare-update is one atomic step so two
// handlers cannot both fire inside one window.
func (c *Cooldown) TryFire() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return false
	}
	now := c.now()
	if now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}
