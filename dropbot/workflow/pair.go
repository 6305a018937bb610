package workflow

import (
	"context"
	"sync"
	"time"
)

// PairSession is a confirmation requiring both named actors to accept.
// Either actor declining, or the timeout firing, ends the session. Commit
// runs once, after the second accept.
type PairSession struct {
	mu       sync.Mutex
	state    State
	actorIDs [2]string
	accepted [2]bool
	timer    *time.Timer
	commit   func(ctx context.Context) error
	onExpire func()
}

type PairSessionConfig struct {
	ActorIDs [2]string
	Timeout  time.Duration
	Commit   func(ctx context.Context) error
	OnExpire func()
}

func NewPairSession(cfg PairSessionConfig) *PairSession {
	s := &PairSession{
		state:    StateProposed,
		actorIDs: cfg.ActorIDs,
		commit:   cfg.Commit,
		onExpire: cfg.OnExpire,
	}
	if cfg.Timeout > 0 {
		s.timer = time.AfterFunc(cfg.Timeout, s.expire)
	}
	return s
}

func (s *PairSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *PairSession) slot(actorID string) int {
	for i, id := range s.actorIDs {
		if id == actorID {
			return i
		}
	}
	return -1
}

// Accept records one actor's agreement. The returned bool reports whether
// this accept completed the pair and ran the commit.
func (s *PairSession) Accept(ctx context.Context, actorID string) (bool, error) {
	s.mu.Lock()
	i := s.slot(actorID)
	if i < 0 {
		s.mu.Unlock()
		return false, ErrUnauthorizedActor
	}
	if s.state != StateProposed {
		s.mu.Unlock()
		return false, ErrSessionDone
	}
	s.accepted[i] = true
	if !s.accepted[0] || !s.accepted[1] {
		s.mu.Unlock()
		return false, nil
	}
	s.state = StateConfirmed
	if s.timer != nil {
		s.timer.Stop()
	}
	commit := s.commit
	s.mu.Unlock()

	if commit == nil {
		return true, nil
	}
	return true, commit(ctx)
}

func (s *PairSession) Decline(actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot(actorID) < 0 {
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

func (s *PairSession) expire() {
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
