package workflow

import (
	"context"
	"sync"
	"time"
)

// Policy is a per-action rate limit: Rate invocations per Window.
type Policy struct {
	Rate   int
	Window time.Duration
}

type bucket struct {
	windowStart time.Time
	used        int
}

// CooldownManager gates action proposals per (actor, action) pair. Buckets
// live in memory only; a restart hands every cooldown back, which is the
// accepted trade-off for confirmation sessions too.
type CooldownManager struct {
	buckets sync.Map
}

func NewCooldownManager() *CooldownManager {
	return &CooldownManager{}
}

func cooldownKey(actorID, action string) string {
	return actorID + ":" + action
}

// Try consumes one slot if available. When denied it reports how long until
// the window reopens.
func (m *CooldownManager) Try(actorID, action string, p Policy) (bool, time.Duration) {
	if p.Rate <= 0 {
		p.Rate = 1
	}
	key := cooldownKey(actorID, action)
	now := time.Now()

	for {
		cur, loaded := m.buckets.Load(key)
		if !loaded {
			if _, raced := m.buckets.LoadOrStore(key, bucket{windowStart: now, used: 1}); raced {
				continue
			}
			return true, 0
		}
		b := cur.(bucket)
		if now.Sub(b.windowStart) >= p.Window {
			b = bucket{windowStart: now, used: 0}
		}
		if b.used >= p.Rate {
			return false, time.Until(b.windowStart.Add(p.Window))
		}
		b.used++
		if m.buckets.CompareAndSwap(key, cur, b) {
			return true, 0
		}
	}
}

// Reset hands the actor's slot back. Every rejection path that was not the
// actor's fault calls this, as does session expiry.
func (m *CooldownManager) Reset(actorID, action string) {
	m.buckets.Delete(cooldownKey(actorID, action))
}

// Remaining reports time left before the actor may act again, zero when open.
func (m *CooldownManager) Remaining(actorID, action string, p Policy) time.Duration {
	cur, ok := m.buckets.Load(cooldownKey(actorID, action))
	if !ok {
		return 0
	}
	b := cur.(bucket)
	if p.Rate <= 0 {
		p.Rate = 1
	}
	if time.Since(b.windowStart) >= p.Window || b.used < p.Rate {
		return 0
	}
	return time.Until(b.windowStart.Add(p.Window))
}

func (m *CooldownManager) cleanupExpired(maxWindow time.Duration) {
	now := time.Now()
	m.buckets.Range(func(key, value any) bool {
		if now.Sub(value.(bucket).windowStart) > maxWindow {
			m.buckets.Delete(key)
		}
		return true
	})
}

func (m *CooldownManager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.cleanupExpired(10 * time.Minute)
			}
		}
	}()
}
