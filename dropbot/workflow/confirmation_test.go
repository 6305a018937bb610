package workflow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionAcceptRunsCommit(t *testing.T) {
	var committed atomic.Int32
	s := NewSession(SessionConfig{
		ActorID: "1",
		Timeout: time.Minute,
		Commit: func(context.Context) error {
			committed.Add(1)
			return nil
		},
	})

	if err := s.Accept(context.Background(), "1"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if got := committed.Load(); got != 1 {
		t.Errorf("commit ran %d times, want 1", got)
	}
	if s.State() != StateConfirmed {
		t.Errorf("State() = %v, want %v", s.State(), StateConfirmed)
	}
}

func TestSessionAcceptUnauthorized(t *testing.T) {
	s := NewSession(SessionConfig{ActorID: "1", Timeout: time.Minute})
	if err := s.Accept(context.Background(), "2"); !errors.Is(err, ErrUnauthorizedActor) {
		t.Errorf("Accept() by another actor error = %v, want ErrUnauthorizedActor", err)
	}
	if s.State() != StateProposed {
		t.Errorf("State() after unauthorized press = %v, want %v", s.State(), StateProposed)
	}
}

func TestSessionDoubleAccept(t *testing.T) {
	s := NewSession(SessionConfig{ActorID: "1", Timeout: time.Minute})
	if err := s.Accept(context.Background(), "1"); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}
	if err := s.Accept(context.Background(), "1"); !errors.Is(err, ErrSessionDone) {
		t.Errorf("second Accept() error = %v, want ErrSessionDone", err)
	}
}

func TestSessionDeclineSkipsCommit(t *testing.T) {
	var committed atomic.Int32
	s := NewSession(SessionConfig{
		ActorID: "1",
		Timeout: time.Minute,
		Commit: func(context.Context) error {
			committed.Add(1)
			return nil
		},
	})

	if err := s.Decline("1"); err != nil {
		t.Fatalf("Decline() error = %v", err)
	}
	if err := s.Accept(context.Background(), "1"); !errors.Is(err, ErrSessionDone) {
		t.Errorf("Accept() after decline error = %v, want ErrSessionDone", err)
	}
	if got := committed.Load(); got != 0 {
		t.Errorf("commit ran %d times after decline, want 0", got)
	}
}

func TestSessionExpiry(t *testing.T) {
	var expired atomic.Int32
	s := NewSession(SessionConfig{
		ActorID:  "1",
		Timeout:  10 * time.Millisecond,
		OnExpire: func() { expired.Add(1) },
	})

	time.Sleep(50 * time.Millisecond)
	if s.State() != StateExpired {
		t.Fatalf("State() = %v, want %v", s.State(), StateExpired)
	}
	if got := expired.Load(); got != 1 {
		t.Errorf("OnExpire ran %d times, want 1", got)
	}
	if err := s.Accept(context.Background(), "1"); !errors.Is(err, ErrSessionDone) {
		t.Errorf("Accept() after expiry error = %v, want ErrSessionDone", err)
	}
}

func TestSessionAcceptStopsExpiry(t *testing.T) {
	var expired atomic.Int32
	s := NewSession(SessionConfig{
		ActorID:  "1",
		Timeout:  10 * time.Millisecond,
		OnExpire: func() { expired.Add(1) },
	})

	if err := s.Accept(context.Background(), "1"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if got := expired.Load(); got != 0 {
		t.Errorf("OnExpire ran %d times after accept, want 0", got)
	}
}

func TestSessionCommitErrorPropagates(t *testing.T) {
	wantErr := errors.New("balance changed")
	s := NewSession(SessionConfig{
		ActorID: "1",
		Timeout: time.Minute,
		Commit:  func(context.Context) error { return wantErr },
	})
	if err := s.Accept(context.Background(), "1"); !errors.Is(err, wantErr) {
		t.Errorf("Accept() error = %v, want %v", err, wantErr)
	}
}

func TestPairSessionBothMustAccept(t *testing.T) {
	var committed atomic.Int32
	s := NewPairSession(PairSessionConfig{
		ActorIDs: [2]string{"1", "2"},
		Timeout:  time.Minute,
		Commit: func(context.Context) error {
			committed.Add(1)
			return nil
		},
	})

	done, err := s.Accept(context.Background(), "1")
	if err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}
	if done {
		t.Fatal("first Accept() reported completion")
	}
	if got := committed.Load(); got != 0 {
		t.Fatalf("commit ran %d times after one accept, want 0", got)
	}

	done, err = s.Accept(context.Background(), "2")
	if err != nil {
		t.Fatalf("second Accept() error = %v", err)
	}
	if !done {
		t.Fatal("second Accept() did not report completion")
	}
	if got := committed.Load(); got != 1 {
		t.Errorf("commit ran %d times, want 1", got)
	}
}

func TestPairSessionOutsiderRejected(t *testing.T) {
	s := NewPairSession(PairSessionConfig{ActorIDs: [2]string{"1", "2"}, Timeout: time.Minute})
	if _, err := s.Accept(context.Background(), "3"); !errors.Is(err, ErrUnauthorizedActor) {
		t.Errorf("Accept() by outsider error = %v, want ErrUnauthorizedActor", err)
	}
	if err := s.Decline("3"); !errors.Is(err, ErrUnauthorizedActor) {
		t.Errorf("Decline() by outsider error = %v, want ErrUnauthorizedActor", err)
	}
}

func TestPairSessionEitherMayDecline(t *testing.T) {
	s := NewPairSession(PairSessionConfig{ActorIDs: [2]string{"1", "2"}, Timeout: time.Minute})
	if _, err := s.Accept(context.Background(), "1"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err := s.Decline("2"); err != nil {
		t.Fatalf("Decline() error = %v", err)
	}
	if _, err := s.Accept(context.Background(), "2"); !errors.Is(err, ErrSessionDone) {
		t.Errorf("Accept() after decline error = %v, want ErrSessionDone", err)
	}
}

func TestSessionManagerLifecycle(t *testing.T) {
	m := NewSessionManager()
	s := NewSession(SessionConfig{ActorID: "1", Timeout: time.Minute})

	m.Put("abc", s)
	if got, ok := m.Get("abc"); !ok || got != s {
		t.Fatal("Get() did not return the stored session")
	}
	m.Remove("abc")
	if _, ok := m.Get("abc"); ok {
		t.Error("Get() found a removed session")
	}
}
