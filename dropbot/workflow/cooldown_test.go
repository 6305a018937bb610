package workflow

import (
	"testing"
	"time"
)

func TestCooldownTryAndDeny(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: time.Hour}

	ok, _ := m.Try("1", "drop", p)
	if !ok {
		t.Fatal("first Try() denied, want allowed")
	}
	ok, wait := m.Try("1", "drop", p)
	if ok {
		t.Fatal("second Try() allowed within the window, want denied")
	}
	if wait <= 0 || wait > time.Hour {
		t.Errorf("denied Try() wait = %v, want within (0, window]", wait)
	}
}

func TestCooldownIsolation(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: time.Hour}

	m.Try("1", "drop", p)
	if ok, _ := m.Try("2", "drop", p); !ok {
		t.Error("Try() for a second actor denied, want independent buckets")
	}
	if ok, _ := m.Try("1", "grab", p); !ok {
		t.Error("Try() for a second action denied, want independent buckets")
	}
}

func TestCooldownMultiUseWindow(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 3, Window: time.Hour}

	for i := 0; i < 3; i++ {
		if ok, _ := m.Try("1", "grab", p); !ok {
			t.Fatalf("Try() #%d denied, want %d slots", i+1, p.Rate)
		}
	}
	if ok, _ := m.Try("1", "grab", p); ok {
		t.Error("Try() past the rate allowed, want denied")
	}
}

func TestCooldownReset(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: time.Hour}

	m.Try("1", "burn", p)
	m.Reset("1", "burn")
	if ok, _ := m.Try("1", "burn", p); !ok {
		t.Error("Try() after Reset() denied, want allowed")
	}
}

func TestCooldownWindowExpiry(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: 10 * time.Millisecond}

	m.Try("1", "drop", p)
	time.Sleep(20 * time.Millisecond)
	if ok, _ := m.Try("1", "drop", p); !ok {
		t.Error("Try() after the window elapsed denied, want allowed")
	}
}

func TestCooldownRemaining(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: time.Hour}

	if got := m.Remaining("1", "drop", p); got != 0 {
		t.Errorf("Remaining() before any Try() = %v, want 0", got)
	}
	m.Try("1", "drop", p)
	if got := m.Remaining("1", "drop", p); got <= 0 {
		t.Errorf("Remaining() after a spent slot = %v, want > 0", got)
	}
}

func TestCooldownCleanup(t *testing.T) {
	m := NewCooldownManager()
	p := Policy{Rate: 1, Window: 5 * time.Millisecond}

	m.Try("1", "drop", p)
	time.Sleep(10 * time.Millisecond)
	m.cleanupExpired(5 * time.Millisecond)
	if _, ok := m.buckets.Load(cooldownKey("1", "drop")); ok {
		t.Error("cleanupExpired() left a stale bucket behind")
	}
}
