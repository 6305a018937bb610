package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const (
	slowThreshold  = 2 * time.Second
	handlerTimeout = 10 * time.Second
)

// WrapWithLogging wraps a command handler with start/finish logging and a
// hard timeout.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			logOutcome("Command", name, e.User().Username, time.Since(start), err)
			return err
		case <-time.After(handlerTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
			)
			return fmt.Errorf("command timed out after %s", handlerTimeout)
		}
	}
}

// WrapComponentWithLogging is the component-interaction counterpart of
// WrapWithLogging.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		start := time.Now()

		slog.Info("Component interaction started",
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			logOutcome("Component interaction", name, e.User().Username, time.Since(start), err)
			return err
		case <-time.After(handlerTimeout):
			slog.Error("Component interaction timed out",
				slog.String("type", "component"),
				slog.String("name", name),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
			)
			return fmt.Errorf("component interaction timed out after %s", handlerTimeout)
		}
	}
}

func logOutcome(kind, name, userName string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.String("user_name", userName),
		slog.Duration("took", duration),
	}

	switch {
	case err != nil:
		slog.Error(kind+" failed", append(attrs,
			slog.Any("error", err),
			slog.String("status", "failed"),
		)...)
	case duration > slowThreshold:
		slog.Warn(kind+" executed slowly", append(attrs,
			slog.String("status", "slow"),
		)...)
	default:
		slog.Info(kind+" completed", append(attrs,
			slog.String("status", "success"),
		)...)
	}
}
