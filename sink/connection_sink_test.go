package sink_test

import (
	"context"
	"decision-lab/domain/event"
	"decision-lab/sink"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionSink_Consume(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := sink.NewConnectionSink("conn-1", 2)

	// Given a buffer of two events
	req.NoError(s.Consume(ctx, event.UserJoined{Room: "r", Username: "alice"}))
	req.NoError(s.Consume(ctx, event.UserJoined{Room: "r", Username: "bob"}))

	// When a third event arrives before the writer drained
	req.NoError(s.Consume(ctx, event.UserJoined{Room: "r", Username: "carol"}))

	// Then it is dropped without blocking
	req.Equal(uint64(1), s.Dropped())
	req.Equal(event.UserJoined{Room: "r", Username: "alice"}, <-s.Events())
	req.Equal(event.UserJoined{Room: "r", Username: "bob"}, <-s.Events())
}

func TestConnectionSink_Close(t *testing.T) {
	req := require.New(t)
	s := sink.NewConnectionSink("conn-1", 1)

	// When the sink is closed twice
	s.Close()
	s.Close()

	// Then the channel is closed and consuming is a no-op
	_, ok := <-s.Events()
	req.False(ok)
	req.NoError(s.Consume(context.Background(), event.ResultsReady{Room: "r"}))
	req.Equal(uint64(0), s.Dropped())
}
