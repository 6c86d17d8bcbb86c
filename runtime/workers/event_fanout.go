package workers

import (
	"context"
	"decision-lab/contract"
	"decision-lab/domain/event"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout delivers the outgoing events of every room to connection sinks.
//
// Delivery is best effort: one attempt per sink, bounded by sinkTimeout, no retry.
// A single fanout goroutine keeps the order in which rooms emitted their events,
// so a connection always sees RoomInfo before the UserJoined that followed it.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	outgoing       <-chan event.Outgoing
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry, permanentSinks []contract.EventSink,
	outgoing <-chan event.Outgoing, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		registry:       registry,
		permanentSinks: permanentSinks,
		outgoing:       outgoing,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case out, ok := <-w.outgoing:
			if !ok {
				return nil
			}
			w.Fanout(ctx, out)
		}
	}
}

// Fanout resolves the audience of out at delivery time and consumes it in every sink.
func (w *EventFanout) Fanout(ctx context.Context, out event.Outgoing) {
	var targets []contract.EventSink
	switch out.Audience {
	case event.ToCaller:
		if sink, ok := w.registry.SinkFor(out.Caller); ok {
			targets = append(targets, sink)
		} else {
			w.log.Debug("Caller gone, unicast dropped", "connection", out.Caller, "event", out.Event.Name())
		}
	case event.ToGroup:
		targets = append(targets, w.registry.GetSinksForRoom(out.Event.RoomID())...)
	}
	targets = append(targets, w.permanentSinks...)

	for _, sink := range targets {
		w.deliver(ctx, sink, out.Event)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, e event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, e); err != nil {
		w.log.Warn("Sink failed to consume event", "event", e.Name(), "room", e.RoomID(), "error", err)
	}
}
