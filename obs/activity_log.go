package obs

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth"
)

// LogSink writes activity events to a zap logger. Failures go out at warn.
type LogSink struct {
	l *zap.Logger
}

var _ auth.ActivitySink = (*LogSink)(nil)

func NewLogSink(l *zap.Logger) *LogSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogSink{l: l.Named("activity")}
}

func (s *LogSink) Record(_ context.Context, event auth.ActivityEvent) error {
	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_type", event.Actor.Type),
		zap.String("user_id", event.UserID),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Reason != "" {
		s.l.Warn("activity", append(fields, zap.String("reason", event.Reason))...)
		return nil
	}
	s.l.Info("activity", fields...)
	return nil
}
