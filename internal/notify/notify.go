// Package notify delivers user-facing messages to the terminal, the log and the history store.
package notify

import (
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

// Sink receives user-facing messages. Delivery is fire-and-forget.
type Sink interface {
	Notify(message string, kind domain.NotificationKind)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(message string, kind domain.NotificationKind)

// Notify calls f(message, kind).
func (f SinkFunc) Notify(message string, kind domain.NotificationKind) {
	f(message, kind)
}

type multi []Sink

// Multi fans a message out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Notify(message string, kind domain.NotificationKind) {
	for _, s := range m {
		s.Notify(message, kind)
	}
}

// LogSink writes every message to the logger at a level matching its kind.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink backed by logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Notify logs message.
func (s *LogSink) Notify(message string, kind domain.NotificationKind) {
	fields := []zap.Field{zap.String("kind", kind.String())}
	switch kind {
	case domain.NotificationError:
		s.logger.Warn(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}
}
