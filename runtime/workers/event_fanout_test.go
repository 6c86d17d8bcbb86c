package workers

import (
	"context"
	"decision-lab/contract"
	"decision-lab/domain/event"
	"decision-lab/mocks"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Broadcast(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)
	journal := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, mockRegistry, []contract.EventSink{journal}, nil, time.Second)
	evt := event.UserJoined{Room: "room-1", Username: "carol"}

	// Given two connections in the room group
	mockRegistry.EXPECT().GetSinksForRoom(gomock.Eq(evt.RoomID())).Return([]contract.EventSink{alice, bob}).Times(1)

	// Then both connections and the permanent sink consume the event
	alice.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	bob.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	journal.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When a broadcast is fanned out
	fanout.Fanout(context.Background(), event.Broadcast(evt))
}

func TestEventFanout_Unicast(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	caller := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, mockRegistry, nil, nil, time.Second)
	evt := event.RoomInfo{Room: "room-1", CreatorUsername: "alice"}

	// Given the caller is connected
	mockRegistry.EXPECT().SinkFor(gomock.Any()).Return(caller, true).Times(1)
	// Then the group is never resolved
	mockRegistry.EXPECT().GetSinksForRoom(gomock.Any()).Times(0)
	caller.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	fanout.Fanout(context.Background(), event.Unicast("conn-1", evt))
}

func TestEventFanout_Unicast_Caller_Gone(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)

	fanout := NewEventFanout(log, mockRegistry, nil, nil, time.Second)

	// Given the caller disconnected meanwhile
	mockRegistry.EXPECT().SinkFor(gomock.Any()).Return(nil, false).Times(1)

	// Then nothing is delivered and nothing fails
	fanout.Fanout(context.Background(), event.Unicast("conn-1", event.RoomInfo{Room: "room-1"}))
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slow := mocks.NewMockEventSink(ctrl)
	fast := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	fanout := NewEventFanout(log, mockRegistry, nil, nil, sinkTimeout)
	evt := event.ResultsReady{Room: "room-1"}

	mockRegistry.EXPECT().GetSinksForRoom(gomock.Any()).Return([]contract.EventSink{slow, fast}).Times(1)
	// Given a sink blocked until its deadline
	slow.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(
		func(ctx context.Context, _ event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)
	fast.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When fanned out
	start := time.Now()
	fanout.Fanout(context.Background(), event.Broadcast(evt))

	// Then the slow sink only costs its timeout and the next one still receives the event
	req.Less(time.Since(start), 10*sinkTimeout)
}

func TestEventFanout_Run(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	sink := mocks.NewMockEventSink(ctrl)

	outgoing := make(chan event.Outgoing, 2)
	fanout := NewEventFanout(log, mockRegistry, nil, outgoing, time.Second)

	done := make(chan struct{})
	var received []string
	mockRegistry.EXPECT().GetSinksForRoom(gomock.Any()).Return([]contract.EventSink{sink}).Times(2)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e event.DomainEvent) error {
			received = append(received, e.Name())
			if len(received) == 2 {
				close(done)
			}
			return nil
		}).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()

	// When two events are queued
	outgoing <- event.Broadcast(event.ActivityStarted{Room: "room-1"})
	outgoing <- event.Broadcast(event.ResultsReady{Room: "room-1"})

	// Then they are delivered in order
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Events were not delivered in time")
	}
	req.Equal([]string{"ActivityStarted", "ResultsReady"}, received)
}
