package event

import (
	"decision-lab/domain"
	"time"
)

// DomainEvent is an event produced by a room transition and delivered to connections.
type DomainEvent interface {
	RoomID() domain.RoomID
	Name() string
}

type RoomInfo struct {
	Room                domain.RoomID
	CreatorUsername     string
	CreatorConnectionID domain.ConnectionID
	Participants        []string
}

func (e RoomInfo) RoomID() domain.RoomID { return e.Room }
func (e RoomInfo) Name() string          { return "RoomInfo" }

type UserJoined struct {
	Room     domain.RoomID
	Username string
}

func (e UserJoined) RoomID() domain.RoomID { return e.Room }
func (e UserJoined) Name() string          { return "UserJoined" }

type AnswerAdded struct {
	Room     domain.RoomID
	ID       string
	Title    string
	ImageURL string
}

func (e AnswerAdded) RoomID() domain.RoomID { return e.Room }
func (e AnswerAdded) Name() string          { return "AnswerAdded" }

type ActivityStarted struct {
	Room         domain.RoomID
	VotingEndsAt *time.Time
}

func (e ActivityStarted) RoomID() domain.RoomID { return e.Room }
func (e ActivityStarted) Name() string          { return "ActivityStarted" }

type ResultsReady struct {
	Room domain.RoomID
}

func (e ResultsReady) RoomID() domain.RoomID { return e.Room }
func (e ResultsReady) Name() string          { return "ResultsReady" }

// CommandRejected acknowledges a command that had no effect so the client can react.
type CommandRejected struct {
	Room    domain.RoomID
	Command string
	Reason  string
}

func (e CommandRejected) RoomID() domain.RoomID { return e.Room }
func (e CommandRejected) Name() string          { return "CommandRejected" }
