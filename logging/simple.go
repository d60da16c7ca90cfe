package logging

import "log/slog"

// Simple is the dependency-injection seam for components and tests that
// only need leveled text logging, not full structured zap output. The
// CLI does not use it: its banner/status/signal/order lines are printed
// directly to stdout.
type Simple interface {
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogWrapper struct{}

func (s slogWrapper) Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func (s slogWrapper) Info(msg string, args ...any)  { slog.Info(msg, args...) }
func (s slogWrapper) Error(msg string, args ...any) { slog.Error(msg, args...) }

// DefaultSimple is the slog-backed implementation.
var DefaultSimple Simple = slogWrapper{}
