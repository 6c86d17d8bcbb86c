// Package domain contains core concepts of the decision room.
// The Room type is the whole shared document: every realtime command reads it,
// mutates a copy and writes it back. No runtime, network, or storage logic here.
package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type RoomID string

// ConnectionID identifies one live transport connection.
type ConnectionID string

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseVoting
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseVoting:
		return "voting"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Room is the aggregate state of one decision room.
type Room struct {
	ID                   RoomID        `json:"id"`
	Code                 string        `json:"code"`
	Question             string        `json:"question"`
	CreatorUsername      string        `json:"creator_username"`
	CreatorConnection    ConnectionID  `json:"creator_connection"`
	IsActive             bool          `json:"is_active"`
	Phase                Phase         `json:"phase"`
	CreatedAt            time.Time     `json:"created_at"`
	TimeLimitSeconds     *int          `json:"time_limit_seconds,omitempty"`
	MaxAnswersPerPerson  int           `json:"max_answers_per_person"`
	VotingEndsAt         *time.Time    `json:"voting_ends_at,omitempty"`
	ResultsAnnouncedAt   *time.Time    `json:"results_announced_at,omitempty"`
	Summary              string        `json:"summary,omitempty"`
	Cards                []Card        `json:"cards"`
	Participants         []Participant `json:"participants"`
	FinishedParticipants []string      `json:"finished_participants"`
	Swipes               []Swipe       `json:"swipes"`
	Version              uint64        `json:"version"`
}

// NewRoom builds a room in the lobby phase.
// The creator is seeded as a participant without connection: it is bound once
// the creator's realtime connection joins.
func NewRoom(id RoomID, code, question, creator string, timeLimitSeconds *int, maxAnswers int, now time.Time) Room {
	return Room{
		ID:                  id,
		Code:                code,
		Question:            question,
		CreatorUsername:     creator,
		IsActive:            true,
		Phase:               PhaseLobby,
		CreatedAt:           now,
		TimeLimitSeconds:    timeLimitSeconds,
		MaxAnswersPerPerson: maxAnswers,
		Participants:        []Participant{{Username: creator}},
	}
}

// Clone returns a copy that shares no slice with the receiver.
func (r Room) Clone() Room {
	c := r
	c.Cards = append([]Card(nil), r.Cards...)
	c.Participants = append([]Participant(nil), r.Participants...)
	c.FinishedParticipants = append([]string(nil), r.FinishedParticipants...)
	c.Swipes = append([]Swipe(nil), r.Swipes...)
	return c
}

func (r Room) Participant(username string) (Participant, bool) {
	return lo.Find(r.Participants, func(p Participant) bool {
		return p.Username == username
	})
}

// UsernameFor resolves the participant currently bound to a connection.
func (r Room) UsernameFor(conn ConnectionID) (string, bool) {
	if conn == "" {
		return "", false
	}
	p, ok := lo.Find(r.Participants, func(p Participant) bool {
		return p.Connection == conn
	})
	return p.Username, ok
}

func (r Room) IsCreatorConnection(conn ConnectionID) bool {
	return conn != "" && r.CreatorConnection == conn
}

func (r Room) HasFinished(username string) bool {
	return lo.Contains(r.FinishedParticipants, username)
}

func (r Room) Usernames() []string {
	return lo.Map(r.Participants, func(p Participant, _ int) string {
		return p.Username
	})
}

// CardsBy counts the cards authored by username.
func (r Room) CardsBy(author string) int {
	return lo.CountBy(r.Cards, func(c Card) bool {
		return c.Author == author
	})
}

// PlayableCards returns the cards that survive the start of the voting phase.
func (r Room) PlayableCards() []Card {
	return lo.Filter(r.Cards, func(c Card, _ int) bool {
		return !IsBlank(c.Title)
	})
}

// EveryoneFinished is the termination condition of the voting phase.
func (r Room) EveryoneFinished() bool {
	return len(r.Participants) > 0 && len(r.FinishedParticipants) == len(r.Participants)
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
