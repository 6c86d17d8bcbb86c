//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"decision-lab/domain"
	"decision-lab/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself, the supervisor restarts it when it panics
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName returns the type name of the worker for logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound side of one live connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry maps live connections to their sink and rooms to their connection group.
type IRegistry interface {
	Connect(conn domain.ConnectionID, sink EventSink)
	Disconnect(conn domain.ConnectionID)
	Subscribe(conn domain.ConnectionID, roomID domain.RoomID) bool
	Unsubscribe(conn domain.ConnectionID, roomID domain.RoomID)
	SinkFor(conn domain.ConnectionID) (EventSink, bool)
	GetSinksForRoom(roomID domain.RoomID) []EventSink
}

// IDispatcher accepts realtime commands coming from transports.
type IDispatcher interface {
	Connect(conn domain.ConnectionID, sink EventSink)
	Disconnect(conn domain.ConnectionID)
	Dispatch(ctx context.Context, cmd domain.Command) error
}

// ISummarizer turns a finished room's results into a recommendation.
type ISummarizer interface {
	Summarize(ctx context.Context, question string, results []domain.CardResult) string
}

type IRoomService interface {
	CreateRoom(ctx context.Context, req domain.CreateRoomRequest) (domain.Room, error)
	Lobby(ctx context.Context, id domain.RoomID) (domain.Room, error)
	SwipeView(ctx context.Context, id domain.RoomID) (domain.Room, error)
	FindByCode(ctx context.Context, code string) (domain.RoomID, error)
	Results(ctx context.Context, id domain.RoomID) (domain.RoomResults, error)
}

// IStatusReporter publishes whether the process serves traffic.
type IStatusReporter interface {
	SetServing(serving bool)
}
