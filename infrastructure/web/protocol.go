package web

import (
	"decision-lab/domain"
	"decision-lab/domain/event"
	"decision-lab/errors"
	"encoding/json"
	"fmt"
	"time"
)

// Frame is one realtime message in either direction.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type sendCardSwipePayload struct {
	RoomID       string `json:"roomId"`
	CardID       string `json:"cardId"`
	IsRightSwipe bool   `json:"isRightSwipe"`
}

type addAnswerPayload struct {
	RoomID     string `json:"roomId"`
	AnswerText string `json:"answerText"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type finishSwipingPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// DecodeCommand turns a client frame into a command bound to conn.
func DecodeCommand(data []byte, conn domain.ConnectionID) (domain.Command, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	payload := frame.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	switch frame.Event {
	case "JoinRoom":
		var p joinRoomPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}
		return domain.JoinRoomCommand{Room: domain.RoomID(p.RoomID), Username: p.Username, ConnectionID: conn}, nil
	case "SendCardSwipe":
		var p sendCardSwipePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}
		return domain.SendCardSwipeCommand{Room: domain.RoomID(p.RoomID), CardID: p.CardID, IsRightSwipe: p.IsRightSwipe, ConnectionID: conn}, nil
	case "AddAnswer":
		var p addAnswerPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}
		return domain.AddAnswerCommand{Room: domain.RoomID(p.RoomID), Text: p.AnswerText, ConnectionID: conn}, nil
	case "StartActivity":
		var p roomPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}
		return domain.StartActivityCommand{Room: domain.RoomID(p.RoomID), ConnectionID: conn}, nil
	case "FinishSwiping":
		var p finishSwipingPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}
		return domain.FinishSwipingCommand{Room: domain.RoomID(p.RoomID), Username: p.Username, ConnectionID: conn}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, frame.Event)
	}
}

type participantView struct {
	Username string `json:"username"`
}

type roomInfoPayload struct {
	CreatorUsername     string            `json:"creatorUsername"`
	CreatorConnectionID string            `json:"creatorConnectionId"`
	Participants        []participantView `json:"participants"`
}

type answerAddedPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type activityStartedPayload struct {
	RoomID       string     `json:"roomId"`
	VotingEndsAt *time.Time `json:"votingEndsAt,omitempty"`
}

type commandRejectedPayload struct {
	RoomID  string `json:"roomId"`
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// EncodeEvent renders a server event as a frame.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	var payload any
	switch evt := e.(type) {
	case event.RoomInfo:
		participants := make([]participantView, 0, len(evt.Participants))
		for _, username := range evt.Participants {
			participants = append(participants, participantView{Username: username})
		}
		payload = roomInfoPayload{
			CreatorUsername:     evt.CreatorUsername,
			CreatorConnectionID: string(evt.CreatorConnectionID),
			Participants:        participants,
		}
	case event.UserJoined:
		payload = evt.Username
	case event.AnswerAdded:
		payload = answerAddedPayload{ID: evt.ID, Title: evt.Title, ImageURL: evt.ImageURL}
	case event.ActivityStarted:
		payload = activityStartedPayload{RoomID: string(evt.Room), VotingEndsAt: evt.VotingEndsAt}
	case event.ResultsReady:
		payload = roomPayload{RoomID: string(evt.Room)}
	case event.CommandRejected:
		payload = commandRejectedPayload{RoomID: string(evt.Room), Command: evt.Command, Reason: evt.Reason}
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, e.Name())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: e.Name(), Payload: raw})
}
