package game

import (
	"errors"
	"fmt"
)

// RejectionKind classifies why a mutating action was refused.
type RejectionKind int

const (
	// RejectionValidation covers failed preconditions: insufficient funds,
	// missing items, wrong owner, nonexistent references, duplicate input.
	RejectionValidation RejectionKind = iota
	// RejectionConcurrency covers records that vanished between proposal
	// and commit.
	RejectionConcurrency
)

// Rejection is a user-facing refusal of an action. No mutation has happened
// when one is returned. ResetCooldown marks rejections that were not the
// actor's fault, so the gating cooldown should be handed back.
type Rejection struct {
	Kind          RejectionKind
	Message       string
	ResetCooldown bool
}

func (r *Rejection) Error() string {
	return r.Message
}

func Rejectf(format string, args ...any) error {
	return &Rejection{Kind: RejectionValidation, Message: fmt.Sprintf(format, args...)}
}

// RejectResetf builds a validation rejection that also resets the actor's
// cooldown for the triggering action.
func RejectResetf(format string, args ...any) error {
	return &Rejection{Kind: RejectionValidation, Message: fmt.Sprintf(format, args...), ResetCooldown: true}
}

func RejectConcurrentf(format string, args ...any) error {
	return &Rejection{Kind: RejectionConcurrency, Message: fmt.Sprintf(format, args...)}
}

// WithCooldownReset marks a rejection as cooldown-resetting, leaving other
// errors untouched. Used by commit paths whose failures are never the
// actor's fault.
func WithCooldownReset(err error) error {
	var rej *Rejection
	if errors.As(err, &rej) {
		rej.ResetCooldown = true
	}
	return err
}

// AsRejection unwraps a rejection, if err is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// ConfigError reports a broken invariant in statically supplied data, such
// as a weight table with no mass or an item reference that no definition
// covers. It is a programming or deployment fault, never shown to users.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Detail
}

func ConfigErrorf(format string, args ...any) error {
	return &ConfigError{Detail: fmt.Sprintf(format, args...)}
}
