package sink

import (
	"context"
	"decision-lab/domain"
	"decision-lab/domain/event"
	"sync"
	"sync/atomic"
)

// ConnectionSink buffers the events of one live connection.
// The transport writer drains Events(); Consume never blocks on a slow client.
type ConnectionSink struct {
	conn    domain.ConnectionID
	events  chan event.DomainEvent
	dropped atomic.Uint64
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
}

func NewConnectionSink(conn domain.ConnectionID, bufferSize int) *ConnectionSink {
	return &ConnectionSink{conn: conn, events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the fanout.
// A full buffer drops the event: delivery is best effort.
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.dropped.Add(1)
		return nil
	}
}

func (s *ConnectionSink) Events() <-chan event.DomainEvent { return s.events }

func (s *ConnectionSink) Connection() domain.ConnectionID { return s.conn }

// Dropped counts the events lost because the buffer was full.
func (s *ConnectionSink) Dropped() uint64 { return s.dropped.Load() }

// Close ends Events(). Later Consume calls are no-ops.
func (s *ConnectionSink) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.events)
		s.mu.Unlock()
	})
}
