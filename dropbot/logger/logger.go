package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// CustomHandler prints compact single-line colored logs and filters the
// gateway chatter disgo emits at debug level.
type CustomHandler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(level slog.Level) *CustomHandler {
	return &CustomHandler{
		opts:      &slog.HandlerOptions{Level: level},
		startTime: time.Now(),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     append(h.attrs, attrs...),
		groups:    h.groups,
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(h.groups, name),
	}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor, levelText = colorPurple, "DEBUG"
	case slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	case slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	}

	message := r.Message
	if r.Level == slog.LevelError {
		if details := attrValue(&r, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
		if file, line := sourceLocation(); file != "" {
			message = fmt.Sprintf("%s (%s:%d)", message, file, line)
		}
	}
	if name := attrValue(&r, "name"); name != "" {
		if user := attrValue(&r, "user_name"); user != "" {
			message = fmt.Sprintf("%s [%s by %s]", message, name, user)
		}
	}
	if status := attrValue(&r, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var attrsStr strings.Builder
	appendAttr := func(a slog.Attr) {
		if !isInternalAttr(a.Key) {
			fmt.Fprintf(&attrsStr, " %s=%v", a.Key, a.Value)
		}
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	fmt.Printf("%s[DropBot] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		logType(&r),
		message,
		attrsStr.String(),
		colorReset,
	)
	return nil
}

func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"locking buckets",
		"unlocking buckets",
		"gateway event",
		"cleaning up bucket",
		"cleaned up rate limit buckets",
		"binary message received",
		"received gateway message",
		"opening gateway connection",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"sending gateway command",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
		"rate limit response headers",
		"sending heartbeat",
	}
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func logType(r *slog.Record) LogType {
	switch attrValue(r, "type") {
	case "cmd", "component":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func attrValue(r *slog.Record, key string) string {
	var value string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = a.Value.String()
			return false
		}
		return true
	})
	return value
}

func sourceLocation() (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status", "error":
		return true
	}
	return false
}
