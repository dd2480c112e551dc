package quota

import (
	"sync"
	"testing"
)

func TestUserLimitSequence(t *testing.T) {
	tr := NewTracker(3, 100)

	for i := 0; i < 3; i++ {
		if got := tr.Increment("u1"); got != UnderLimit {
			t.Fatalf("increment #%d: got %v, want under_limit", i+1, got)
		}
	}
	if got := tr.Increment("u1"); got != UserJustExceeded {
		t.Fatalf("increment #4: got %v, want user_just_exceeded", got)
	}
	for i := 0; i < 5; i++ {
		if got := tr.Increment("u1"); got != AlreadyOverLimit {
			t.Fatalf("post-limit increment: got %v, want already_over_limit", got)
		}
	}
}

func TestGlobalLimitOutranksUserLimit(t *testing.T) {
	// Both thresholds cross on the same call; global wins.
	tr := NewTracker(3, 3)
	_ = tr.Increment("u1")
	_ = tr.Increment("u1")
	_ = tr.Increment("u1")
	if got := tr.Increment("u1"); got != GlobalJustExceeded {
		t.Fatalf("got %v, want global_just_exceeded", got)
	}
	if got := tr.Increment("u2"); got != AlreadyOverLimit {
		t.Fatalf("other user after global deny: got %v, want already_over_limit", got)
	}
}

func TestGlobalSlotConsumedByUnderLimitUser(t *testing.T) {
	// A caller under their own limit still consumes the slot that trips
	// the global counter.
	tr := NewTracker(10, 2)
	_ = tr.Increment("u1")
	_ = tr.Increment("u2")
	if got := tr.Increment("u3"); got != GlobalJustExceeded {
		t.Fatalf("got %v, want global_just_exceeded", got)
	}
	global, users := tr.Snapshot()
	if global != 3 || users["u3"] != 1 {
		t.Fatalf("snapshot global=%d u3=%d, want 3 and 1", global, users["u3"])
	}
}

func TestDisabledPerUserLimit(t *testing.T) {
	tr := NewTracker(0, 100)
	if got := tr.Increment("u1"); got != AlreadyOverLimit {
		t.Fatalf("got %v, want already_over_limit", got)
	}
	global, _ := tr.Snapshot()
	if global != 0 {
		t.Fatalf("disabled tracker mutated counters: global=%d", global)
	}
}

func TestResetClearsBothCounters(t *testing.T) {
	tr := NewTracker(2, 5)
	for i := 0; i < 4; i++ {
		tr.Increment("u1")
	}
	tr.Reset()
	global, users := tr.Snapshot()
	if global != 0 || len(users) != 0 {
		t.Fatalf("after reset: global=%d users=%d, want 0 and 0", global, len(users))
	}
	if got := tr.Increment("u1"); got != UnderLimit {
		t.Fatalf("after reset: got %v, want under_limit", got)
	}
}

func TestGlobalMatchesSumUnderConcurrency(t *testing.T) {
	tr := NewTracker(1000, 100000)
	var wg sync.WaitGroup
	users := []string{"a", "b", "c", "d"}
	for _, u := range users {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				tr.Increment(id)
			}(u)
		}
	}
	wg.Wait()
	global, perUser := tr.Snapshot()
	sum := 0
	for _, v := range perUser {
		sum += v
	}
	if global != 200 || sum != global {
		t.Fatalf("global=%d sum=%d, want both 200", global, sum)
	}
}
