package sink

import (
	"context"
	"decision-lab/domain/event"
	"log/slog"
)

// LogSink records every delivered event. It is registered as a permanent sink of the fanout.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.log.Debug("Room event", "room", e.RoomID(), "event", e.Name())
	return nil
}
