package workflow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the lifecycle of one confirmation session.
type State int

const (
	StateProposed State = iota
	StateConfirmed
	StateDeclined
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateConfirmed:
		return "confirmed"
	case StateDeclined:
		return "declined"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	// ErrUnauthorizedActor: someone other than the authorized actor pressed
	// a control. The session state is untouched.
	ErrUnauthorizedActor = errors.New("confirmation controls belong to another user")
	// ErrSessionDone: the session already reached a terminal state.
	ErrSessionDone = errors.New("confirmation session is no longer active")
)

// Session is one propose → confirm/decline/expire exchange. The commit
// callback receives the originally computed proposal via closure; nothing is
// re-sampled at confirm time. Sessions are not persisted and do not survive
// a restart.
type Session struct {
	mu       sync.Mutex
	state    State
	actorID  string
	timer    *time.Timer
	commit   func(ctx context.Context) error
	onExpire func()
}

// SessionConfig wires a session's callbacks. Commit runs on accept; OnExpire
// runs exactly once if the timeout fires first, typically resetting the
// gating cooldown and clearing the message controls.
type SessionConfig struct {
	ActorID  string
	Timeout  time.Duration
	Commit   func(ctx context.Context) error
	OnExpire func()
}

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		state:   StateProposed,
		actorID: cfg.ActorID,
		commit:  cfg.Commit,
	}
	onExpire := cfg.OnExpire
	s.onExpire = onExpire
	if cfg.Timeout > 0 {
		s.timer = time.AfterFunc(cfg.Timeout, s.expire)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ActorID() string {
	return s.actorID
}

// Accept transitions to Confirmed and runs the commit callback. The commit
// error is returned as-is so the caller can surface rejections.
func (s *Session) Accept(ctx context.Context, actorID string) error {
	s.mu.Lock()
	if actorID != s.actorID {
		s.mu.Unlock()
		return ErrUnauthorizedActor
	}
	if s.state != StateProposed {
		s.mu.Unlock()
		return ErrSessionDone
	}
	s.state = StateConfirmed
	if s.timer != nil {
		s.timer.Stop()
	}
	commit := s.commit
	s.mu.Unlock()

	if commit == nil {
		return nil
	}
	return commit(ctx)
}

// Decline transitions to Declined. No mutation happens and, unlike expiry,
// the gating cooldown stays spent.
func (s *Session) Decline(actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if actorID != s.actorID {
		return ErrUnauthorizedActor
	}
	if s.state != StateProposed {
		return ErrSessionDone
	}
	s.state = StateDeclined
	if s.timer != nil {
		s.timer.Stop()
	}
	return nil
}

func (s *Session) expire() {
	s.mu.Lock()
	if s.state != StateProposed {
		s.mu.Unlock()
		return
	}
	s.state = StateExpired
	onExpire := s.onExpire
	s.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

// SessionManager tracks live sessions by the identifier embedded in the
// message's component custom IDs.
type SessionManager struct {
	sessions sync.Map
}

func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

func (m *SessionManager) Put(id string, s *Session) {
	m.sessions.Store(id, s)
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (m *SessionManager) Remove(id string) {
	m.sessions.Delete(id)
}

// StartCleanupRoutine drops sessions that reached a terminal state. Live
// sessions are left alone regardless of age; their own timers bound them.
func (m *SessionManager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sessions.Range(func(key, value any) bool {
					if value.(*Session).State() != StateProposed {
						m.sessions.Delete(key)
					}
					return true
				})
			}
		}
	}()
}
