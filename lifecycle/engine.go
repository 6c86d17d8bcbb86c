// Package lifecycle decides room transitions.
// Apply is pure: it never performs I/O, it only tells the caller which document
// to persist, how to persist it, and which events to deliver.
package lifecycle

import (
	"decision-lab/domain"
	"decision-lab/domain/event"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Outcome int

const (
	Applied Outcome = iota
	NotFound
	Unauthorized
	InvalidPhase
	Ignored
	LimitReached
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotFound:
		return "room_not_found"
	case Unauthorized:
		return "unauthorized"
	case InvalidPhase:
		return "invalid_phase"
	case Ignored:
		return "ignored"
	case LimitReached:
		return "limit_reached"
	default:
		return "unknown"
	}
}

// Write is the persistence operation a transition requires.
type Write int

const (
	WriteNone Write = iota
	WriteReplace
	WritePushCard
	WritePushSwipe
)

// Env carries the non-deterministic inputs of a transition.
type Env struct {
	NewID    func() string
	Now      func() time.Time
	Sanitize func(string) string
}

// NewEnv uses random UUIDs and the UTC wall clock.
func NewEnv(sanitize func(string) string) Env {
	return Env{
		NewID:    uuid.NewString,
		Now:      func() time.Time { return time.Now().UTC() },
		Sanitize: sanitize,
	}
}

type Transition struct {
	Room     domain.Room
	Outgoing []event.Outgoing
	Outcome  Outcome
	Write    Write
	// Card or Swipe holds the appended element for WritePushCard and WritePushSwipe.
	Card  domain.Card
	Swipe domain.Swipe
}

// Apply computes the next state of room for cmd.
// A nil room means the room does not exist.
func Apply(room *domain.Room, cmd domain.Command, env Env) Transition {
	if room == nil {
		return Transition{Outcome: NotFound}
	}
	next := room.Clone()

	switch c := cmd.(type) {
	case domain.JoinRoomCommand:
		return join(next, c)
	case domain.AddAnswerCommand:
		return addCard(next, c, env)
	case domain.StartActivityCommand:
		return start(next, c, env)
	case domain.SendCardSwipeCommand:
		return recordSwipe(next, c, env)
	case domain.FinishSwipingCommand:
		return finish(next, c, env)
	default:
		return Transition{Room: next, Outcome: Ignored}
	}
}

func join(room domain.Room, c domain.JoinRoomCommand) Transition {
	if domain.IsBlank(c.Username) {
		return Transition{Room: room, Outcome: Ignored}
	}

	var out []event.Outgoing
	isNew := true
	for i := range room.Participants {
		if room.Participants[i].Username == c.Username {
			room.Participants[i].Connection = c.ConnectionID
			isNew = false
			break
		}
	}
	if isNew {
		room.Participants = append(room.Participants, domain.Participant{
			Username:   c.Username,
			Connection: c.ConnectionID,
		})
	}
	if c.Username == room.CreatorUsername {
		room.CreatorConnection = c.ConnectionID
	}

	out = append(out, event.Unicast(c.ConnectionID, event.RoomInfo{
		Room:                room.ID,
		CreatorUsername:     room.CreatorUsername,
		CreatorConnectionID: room.CreatorConnection,
		Participants:        room.Usernames(),
	}))
	if isNew {
		out = append(out, event.Broadcast(event.UserJoined{Room: room.ID, Username: c.Username}))
	}
	return Transition{Room: room, Outgoing: out, Outcome: Applied, Write: WriteReplace}
}

func addCard(room domain.Room, c domain.AddAnswerCommand, env Env) Transition {
	if room.Phase != domain.PhaseLobby {
		return Transition{Room: room, Outcome: InvalidPhase}
	}
	author, _ := room.UsernameFor(c.ConnectionID)
	if room.MaxAnswersPerPerson > 0 && author != "" && room.CardsBy(author) >= room.MaxAnswersPerPerson {
		return Transition{Room: room, Outcome: LimitReached}
	}

	title := c.Text
	if env.Sanitize != nil {
		title = env.Sanitize(title)
	}
	card := domain.Card{ID: env.NewID(), Author: author, Title: title}
	room.Cards = append(room.Cards, card)

	return Transition{
		Room:     room,
		Outgoing: []event.Outgoing{event.Broadcast(event.AnswerAdded{Room: room.ID, ID: card.ID, Title: card.Title, ImageURL: card.ImageURL})},
		Outcome:  Applied,
		Write:    WritePushCard,
		Card:     card,
	}
}

func start(room domain.Room, c domain.StartActivityCommand, env Env) Transition {
	if !room.IsCreatorConnection(c.ConnectionID) {
		return Transition{Room: room, Outcome: Unauthorized}
	}
	if room.Phase != domain.PhaseLobby {
		return Transition{Room: room, Outcome: InvalidPhase}
	}

	room.Cards = room.PlayableCards()
	room.IsActive = true
	room.Phase = domain.PhaseVoting
	if room.TimeLimitSeconds != nil && *room.TimeLimitSeconds > 0 {
		endsAt := env.Now().Add(time.Duration(*room.TimeLimitSeconds) * time.Second)
		room.VotingEndsAt = &endsAt
	}

	return Transition{
		Room:     room,
		Outgoing: []event.Outgoing{event.Broadcast(event.ActivityStarted{Room: room.ID, VotingEndsAt: room.VotingEndsAt})},
		Outcome:  Applied,
		Write:    WriteReplace,
	}
}

func recordSwipe(room domain.Room, c domain.SendCardSwipeCommand, env Env) Transition {
	if room.Phase != domain.PhaseVoting {
		return Transition{Room: room, Outcome: InvalidPhase}
	}
	voter, _ := room.UsernameFor(c.ConnectionID)
	swipe := domain.Swipe{
		ID:           env.NewID(),
		CardID:       c.CardID,
		Voter:        voter,
		IsRightSwipe: c.IsRightSwipe,
		At:           env.Now(),
	}
	room.Swipes = append(room.Swipes, swipe)
	return Transition{Room: room, Outcome: Applied, Write: WritePushSwipe, Swipe: swipe}
}

func finish(room domain.Room, c domain.FinishSwipingCommand, env Env) Transition {
	if room.Phase != domain.PhaseVoting {
		return Transition{Room: room, Outcome: InvalidPhase}
	}
	username := strings.TrimSpace(c.Username)
	if username == "" {
		return Transition{Room: room, Outcome: Ignored}
	}
	if _, ok := room.Participant(username); !ok {
		return Transition{Room: room, Outcome: Ignored}
	}

	changed := false
	if !room.HasFinished(username) {
		room.FinishedParticipants = append(room.FinishedParticipants, username)
		changed = true
	}

	var out []event.Outgoing
	if room.EveryoneFinished() && room.ResultsAnnouncedAt == nil {
		now := env.Now()
		room.Phase = domain.PhaseFinished
		room.ResultsAnnouncedAt = &now
		out = append(out, event.Broadcast(event.ResultsReady{Room: room.ID}))
		changed = true
	}

	write := WriteNone
	if changed {
		write = WriteReplace
	}
	return Transition{Room: room, Outgoing: out, Outcome: Applied, Write: write}
}

// CommandName is the realtime event name of a command, used in rejections and logs.
func CommandName(cmd domain.Command) string {
	switch cmd.(type) {
	case domain.JoinRoomCommand:
		return "JoinRoom"
	case domain.AddAnswerCommand:
		return "AddAnswer"
	case domain.StartActivityCommand:
		return "StartActivity"
	case domain.SendCardSwipeCommand:
		return "SendCardSwipe"
	case domain.FinishSwipingCommand:
		return "FinishSwiping"
	default:
		return fmt.Sprintf("%T", cmd)
	}
}
