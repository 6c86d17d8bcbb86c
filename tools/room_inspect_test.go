package main

import (
	"decision-lab/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoomRow(t *testing.T) {
	req := require.New(t)
	room := domain.NewRoom("room-1", "ABCDEF", strings.Repeat("a", 60), "alice", nil, 0,
		time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC))
	room.FinishedParticipants = []string{"alice"}

	row := roomRow(room)

	req.Equal("room-1", row[0])
	req.Equal("ABCDEF", row[1])
	req.Equal("lobby", row[2])
	req.Len([]rune(row[3]), 40)
	req.Equal("1/1", row[5])
	req.Equal("2026-10-16 09:30:00", row[8])
}
