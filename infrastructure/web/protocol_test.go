package web

import (
	"decision-lab/domain"
	"decision-lab/domain/event"
	"decision-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	conn := domain.ConnectionID("conn-1")
	tests := []struct {
		name     string
		frame    string
		expected domain.Command
	}{
		{
			name:     "JoinRoom",
			frame:    `{"event":"JoinRoom","payload":{"roomId":"r1","username":"alice"}}`,
			expected: domain.JoinRoomCommand{Room: "r1", Username: "alice", ConnectionID: conn},
		},
		{
			name:     "SendCardSwipe",
			frame:    `{"event":"SendCardSwipe","payload":{"roomId":"r1","cardId":"c1","isRightSwipe":true}}`,
			expected: domain.SendCardSwipeCommand{Room: "r1", CardID: "c1", IsRightSwipe: true, ConnectionID: conn},
		},
		{
			name:     "AddAnswer",
			frame:    `{"event":"AddAnswer","payload":{"roomId":"r1","answerText":"Pizza"}}`,
			expected: domain.AddAnswerCommand{Room: "r1", Text: "Pizza", ConnectionID: conn},
		},
		{
			name:     "StartActivity",
			frame:    `{"event":"StartActivity","payload":{"roomId":"r1"}}`,
			expected: domain.StartActivityCommand{Room: "r1", ConnectionID: conn},
		},
		{
			name:     "FinishSwiping",
			frame:    `{"event":"FinishSwiping","payload":{"roomId":"r1","username":"bob"}}`,
			expected: domain.FinishSwipingCommand{Room: "r1", Username: "bob", ConnectionID: conn},
		},
		{
			name:     "Missing payload",
			frame:    `{"event":"StartActivity"}`,
			expected: domain.StartActivityCommand{ConnectionID: conn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := DecodeCommand([]byte(tt.frame), conn)
			require.NoError(t, err)
			require.Equal(t, tt.expected, cmd)
		})
	}
}

func TestDecodeCommand_Invalid(t *testing.T) {
	req := require.New(t)

	_, err := DecodeCommand([]byte(`{"event":"DropTable","payload":{}}`), "conn-1")
	req.ErrorIs(err, errors.ErrUnknownEvent)

	_, err = DecodeCommand([]byte(`not json`), "conn-1")
	req.Error(err)

	_, err = DecodeCommand([]byte(`{"event":"SendCardSwipe","payload":{"isRightSwipe":"yes"}}`), "conn-1")
	req.Error(err)
}

func TestEncodeEvent(t *testing.T) {
	endsAt := time.Date(2026, 10, 16, 12, 1, 0, 0, time.UTC)
	tests := []struct {
		name     string
		event    event.DomainEvent
		expected string
	}{
		{
			name: "RoomInfo",
			event: event.RoomInfo{Room: "r1", CreatorUsername: "alice", CreatorConnectionID: "conn-a",
				Participants: []string{"alice", "bob"}},
			expected: `{"event":"RoomInfo","payload":{"creatorUsername":"alice","creatorConnectionId":"conn-a",` +
				`"participants":[{"username":"alice"},{"username":"bob"}]}}`,
		},
		{
			name:     "UserJoined",
			event:    event.UserJoined{Room: "r1", Username: "bob"},
			expected: `{"event":"UserJoined","payload":"bob"}`,
		},
		{
			name:     "AnswerAdded",
			event:    event.AnswerAdded{Room: "r1", ID: "c1", Title: "Pizza"},
			expected: `{"event":"AnswerAdded","payload":{"id":"c1","title":"Pizza","imageUrl":""}}`,
		},
		{
			name:     "ActivityStarted",
			event:    event.ActivityStarted{Room: "r1", VotingEndsAt: &endsAt},
			expected: `{"event":"ActivityStarted","payload":{"roomId":"r1","votingEndsAt":"2026-10-16T12:01:00Z"}}`,
		},
		{
			name:     "ResultsReady",
			event:    event.ResultsReady{Room: "r1"},
			expected: `{"event":"ResultsReady","payload":{"roomId":"r1"}}`,
		},
		{
			name:     "CommandRejected",
			event:    event.CommandRejected{Room: "r1", Command: "StartActivity", Reason: "unauthorized"},
			expected: `{"event":"CommandRejected","payload":{"roomId":"r1","command":"StartActivity","reason":"unauthorized"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			require.NoError(t, err)
			require.JSONEq(t, tt.expected, string(data))
		})
	}
}
