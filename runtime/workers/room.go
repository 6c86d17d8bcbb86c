package workers

import (
	"context"
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/domain/event"
	"decision-lab/errors"
	"decision-lab/lifecycle"
	"decision-lab/repositories"
	stderrors "errors"
	"log/slog"
	"time"
)

var _ contract.Worker = (*RoomWorker)(nil)

const maxReplaceRetries = 3

// RoomWorker serializes every command of one room.
// Each command re-reads the document, applies the lifecycle transition, persists it
// and hands the outgoing events to the fanout. Nothing is cached between commands.
type RoomWorker struct {
	roomID      domain.RoomID
	inbox       chan domain.Command
	repository  repositories.IRoomRepository
	registry    contract.IRegistry
	outgoing    chan<- event.Outgoing
	env         lifecycle.Env
	idleTimeout time.Duration
	release     func(*RoomWorker) bool
	log         *slog.Logger
}

// NewRoomWorker builds the worker of roomID.
// release is asked when the worker stays idle for idleTimeout: returning true retires it.
func NewRoomWorker(
	roomID domain.RoomID,
	inboxSize int,
	repository repositories.IRoomRepository,
	registry contract.IRegistry,
	outgoing chan<- event.Outgoing,
	env lifecycle.Env,
	idleTimeout time.Duration,
	release func(*RoomWorker) bool,
	log *slog.Logger,
) *RoomWorker {
	return &RoomWorker{
		roomID:      roomID,
		inbox:       make(chan domain.Command, inboxSize),
		repository:  repository,
		registry:    registry,
		outgoing:    outgoing,
		env:         env,
		idleTimeout: idleTimeout,
		release:     release,
		log:         log.With("room", roomID),
	}
}

func (w *RoomWorker) RoomID() domain.RoomID { return w.roomID }

// Offer queues cmd without blocking. It returns false when the inbox is full.
func (w *RoomWorker) Offer(cmd domain.Command) bool {
	select {
	case w.inbox <- cmd:
		return true
	default:
		return false
	}
}

// Pending is the number of queued commands.
func (w *RoomWorker) Pending() int { return len(w.inbox) }

func (w *RoomWorker) Run(ctx context.Context) error {
	idle := time.NewTimer(w.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-w.inbox:
			outcome := w.Handle(ctx, cmd)
			// Nothing to serialize for a room that does not exist
			if outcome == lifecycle.NotFound && w.Pending() == 0 && (w.release == nil || w.release(w)) {
				w.log.Debug("Room worker retired, room not found")
				return nil
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(w.idleTimeout)
		case <-idle.C:
			if w.release == nil || w.release(w) {
				w.log.Debug("Room worker retired")
				return nil
			}
			idle.Reset(w.idleTimeout)
		}
	}
}

// Handle runs one command to completion and returns its outcome.
// A Replace that lost against a concurrent writer is re-applied on a fresh read.
// Store failures are logged and reported as Ignored.
func (w *RoomWorker) Handle(ctx context.Context, cmd domain.Command) lifecycle.Outcome {
	for attempt := 1; attempt <= maxReplaceRetries; attempt++ {
		current, err := w.load()
		if err != nil {
			w.log.Error("Unable to load room", "command", lifecycle.CommandName(cmd), "error", err)
			return lifecycle.Ignored
		}

		tr := lifecycle.Apply(current, cmd, w.env)
		if tr.Outcome != lifecycle.Applied {
			w.reject(ctx, cmd, tr.Outcome)
			return tr.Outcome
		}

		err = w.persist(tr)
		if stderrors.Is(err, errors.ErrVersionConflict) {
			w.log.Debug("Version conflict, applying again", "command", lifecycle.CommandName(cmd), "attempt", attempt)
			continue
		}
		if err != nil {
			w.log.Error("Unable to persist room", "command", lifecycle.CommandName(cmd), "error", err)
			return lifecycle.Ignored
		}

		if _, ok := cmd.(domain.JoinRoomCommand); ok && !w.registry.Subscribe(cmd.Connection(), w.roomID) {
			w.log.Debug("Connection closed before joining the group", "connection", cmd.Connection())
		}
		for _, out := range tr.Outgoing {
			w.emit(ctx, out)
		}
		return lifecycle.Applied
	}
	w.log.Warn("Command dropped after repeated version conflicts", "command", lifecycle.CommandName(cmd))
	return lifecycle.Ignored
}

// load returns nil when the room does not exist.
func (w *RoomWorker) load() (*domain.Room, error) {
	room, err := w.repository.Get(w.roomID)
	if stderrors.Is(err, errors.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (w *RoomWorker) persist(tr lifecycle.Transition) error {
	switch tr.Write {
	case lifecycle.WriteReplace:
		_, err := w.repository.Replace(tr.Room)
		return err
	case lifecycle.WritePushCard:
		return w.repository.PushCard(w.roomID, tr.Card)
	case lifecycle.WritePushSwipe:
		return w.repository.PushSwipe(w.roomID, tr.Swipe)
	default:
		return nil
	}
}

// reject acknowledges a command without effect to its sender. Blank input stays silent.
func (w *RoomWorker) reject(ctx context.Context, cmd domain.Command, outcome lifecycle.Outcome) {
	if outcome == lifecycle.Ignored {
		return
	}
	w.log.Debug("Command rejected", "command", lifecycle.CommandName(cmd), "reason", outcome.String())
	w.emit(ctx, event.Unicast(cmd.Connection(), event.CommandRejected{
		Room:    w.roomID,
		Command: lifecycle.CommandName(cmd),
		Reason:  outcome.String(),
	}))
}

func (w *RoomWorker) emit(ctx context.Context, out event.Outgoing) {
	select {
	case w.outgoing <- out:
	case <-ctx.Done():
	}
}
