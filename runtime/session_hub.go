// Package runtime routes realtime commands to room workers and their events back to connections.
// It wires the system together without containing lifecycle rules.
package runtime

import (
	"context"
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/domain/event"
	"decision-lab/errors"
	"decision-lab/lifecycle"
	"decision-lab/moderation"
	"decision-lab/repositories"
	"decision-lab/runtime/workers"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var _ contract.IDispatcher = (*SessionHub)(nil)

type HubConfig struct {
	BufferSize      int           // outgoing events waiting for the fanout
	InboxSize       int           // commands waiting in one room worker
	SinkTimeout     time.Duration // max time given to one sink for one event
	IdleTimeout     time.Duration // room worker lifetime without command
	HealthInterval  time.Duration
	CharReplacement rune
}

func (c HubConfig) withDefaults() HubConfig {
	if c.BufferSize <= 0 {
		c.BufferSize = 1024
	}
	if c.InboxSize <= 0 {
		c.InboxSize = 64
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = 100 * time.Millisecond
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 5 * time.Minute
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = 30 * time.Second
	}
	if c.CharReplacement == 0 {
		c.CharReplacement = '*'
	}
	return c
}

// HubStats counts what the hub currently holds.
type HubStats struct {
	Running     bool
	Rooms       int
	Connections int
	Groups      int
}

// SessionHub is the gateway between transports and rooms.
// One RoomWorker per active room serializes that room's commands; a single
// EventFanout delivers what they emit.
type SessionHub struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       *Registry
	repository     repositories.IRoomRepository
	reporter       contract.IStatusReporter
	env            lifecycle.Env
	cfg            HubConfig
	outgoing       chan event.Outgoing
	rooms          map[domain.RoomID]*workers.RoomWorker
	permanentSinks []contract.EventSink
	ctx            context.Context
	cancel         context.CancelFunc
	running        bool
}

// NewSessionHub builds a stopped hub. When env.Sanitize is nil, Start plugs the
// censor built from the embedded word lists.
func NewSessionHub(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	repository repositories.IRoomRepository, reporter contract.IStatusReporter,
	env lifecycle.Env, cfg HubConfig) *SessionHub {
	cfg = cfg.withDefaults()
	return &SessionHub{
		log:        log,
		supervisor: supervisor,
		registry:   registry,
		repository: repository,
		reporter:   reporter,
		env:        env,
		cfg:        cfg,
		outgoing:   make(chan event.Outgoing, cfg.BufferSize),
		rooms:      make(map[domain.RoomID]*workers.RoomWorker),
	}
}

// Add registers sinks receiving every delivered event. Must be called before Start.
func (h *SessionHub) Add(sinks ...contract.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.permanentSinks = append(h.permanentSinks, sinks...)
}

// Start prepares moderation and the fanout, then blocks running the supervised workers
// until ctx is canceled or Stop is called.
func (h *SessionHub) Start(ctx context.Context) error {
	// Heavy preparation happens outside the lock
	sanitize := h.env.Sanitize
	if sanitize == nil {
		moderator, err := h.prepareModeration()
		if err != nil {
			return err
		}
		sanitize = moderator.SanitizeTitle
	}

	h.mu.Lock()
	h.env.Sanitize = sanitize
	h.ctx, h.cancel = context.WithCancel(ctx)
	fanout := workers.NewEventFanout(h.log, h.registry, h.permanentSinks, h.outgoing, h.cfg.SinkTimeout)
	health := workers.NewHealthWorker(h.log, h.cfg.HealthInterval, h.healthSnapshot, h.reporter)
	h.supervisor.Add(fanout, health)
	h.running = true
	hubCtx := h.ctx
	h.mu.Unlock()

	h.log.Info("Starting session hub")
	h.supervisor.Run(hubCtx)

	h.mu.Lock()
	h.running = false
	h.rooms = make(map[domain.RoomID]*workers.RoomWorker)
	h.mu.Unlock()
	h.log.Info("Session hub stopped")
	return nil
}

func (h *SessionHub) prepareModeration() (*moderation.Moderator, error) {
	data, err := DefaultCensoredLoader().LoadAll("censored")
	if err != nil {
		return nil, err
	}
	h.log.Info("Censored word lists loaded",
		"languages", strings.Join(data.Languages, ","), "words", len(data.Words))
	return moderation.NewModerator(data.Words, h.cfg.CharReplacement, h.log)
}

// Stop cancels every worker. Start returns once they are done.
func (h *SessionHub) Stop() {
	h.log.Info("Requesting session hub shutdown")
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	h.supervisor.Stop()
}

func (h *SessionHub) Connect(conn domain.ConnectionID, sink contract.EventSink) {
	h.registry.Connect(conn, sink)
}

// Disconnect forgets the connection and its group memberships.
// The room documents keep the stale connection reference.
func (h *SessionHub) Disconnect(conn domain.ConnectionID) {
	h.registry.Disconnect(conn)
}

// Dispatch queues cmd in the worker of its room, starting the worker if needed.
// A full room inbox drops the command.
func (h *SessionHub) Dispatch(ctx context.Context, cmd domain.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running || h.ctx.Err() != nil {
		return errors.ErrHubNotStarted
	}
	w, ok := h.rooms[cmd.RoomID()]
	if !ok {
		w = workers.NewRoomWorker(cmd.RoomID(), h.cfg.InboxSize, h.repository, h.registry,
			h.outgoing, h.env, h.cfg.IdleTimeout, h.release, h.log)
		h.rooms[cmd.RoomID()] = w
		h.supervisor.Start(h.ctx, w)
	}
	if !w.Offer(cmd) {
		h.log.Warn("Room inbox full, dropping command", "room", cmd.RoomID(), "command", lifecycle.CommandName(cmd))
		return errors.ErrRoomBusy
	}
	return nil
}

// release retires an idle worker unless a command slipped in meanwhile.
func (h *SessionHub) release(w *workers.RoomWorker) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if w.Pending() > 0 {
		return false
	}
	if h.rooms[w.RoomID()] == w {
		delete(h.rooms, w.RoomID())
	}
	return true
}

func (h *SessionHub) Stats() HubStats {
	h.mu.Lock()
	running, rooms := h.running, len(h.rooms)
	h.mu.Unlock()
	connections, groups := h.registry.Counts()
	return HubStats{Running: running, Rooms: rooms, Connections: connections, Groups: groups}
}

func (h *SessionHub) healthSnapshot() workers.HealthSnapshot {
	s := h.Stats()
	return workers.HealthSnapshot{
		Rooms:       s.Rooms,
		Connections: s.Connections,
		Groups:      s.Groups,
		Queued:      len(h.outgoing),
		QueueCap:    cap(h.outgoing),
	}
}
