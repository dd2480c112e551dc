package lobby

import (
	"sync"
	"testing"
	"time"
)

func TestCooldownWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewCooldown(true, 10*time.Minute)
	c.now = func() time.Time { return now }
	c.last = now.Add(-time.Hour)

	if !c.TryFire() {
		t.Fatalf("first fire denied")
	}
	if c.TryFire() {
		t.Fatalf("second fire inside the window permitted")
	}
	now = now.Add(10 * time.Minute)
	if !c.TryFire() {
		t.Fatalf("fire after the window elapsed denied")
	}
}

func TestCooldownDisabled(t *testing.T) {
	c := NewCooldown(false, time.Nanosecond)
	if c.TryFire() {
		t.Fatalf("disabled cooldown fired")
	}
}

func TestCooldownSingleWinnerUnderConcurrency(t *testing.T) {
	c := NewCooldown(true, time.Hour)
	c.last = time.Now().Add(-2 * time.Hour)

	var wg sync.WaitGroup
	fired := make(chan bool, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fired <- c.TryFire()
		}()
	}
	wg.Wait()
	close(fired)

	wins := 0
	for ok := range fired {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("%d concurrent fires succeeded, want exactly 1", wins)
	}
}
