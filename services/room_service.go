package services

import (
	"context"
	"decision-lab/ai"
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/errors"
	"decision-lab/repositories"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	codeLength      = 6
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts = 10
)

var _ contract.IRoomService = (*RoomService)(nil)

// RoomService is the request/response side of rooms: creation and read-only views.
// Realtime mutations go through the session hub.
type RoomService struct {
	repository repositories.IRoomRepository
	summarizer contract.ISummarizer
	validator  *validator.Validate
	policy     domain.CountingPolicy
	log        *slog.Logger
	newCode    func() string
	now        func() time.Time
}

func NewRoomService(repository repositories.IRoomRepository, summarizer contract.ISummarizer,
	policy domain.CountingPolicy, log *slog.Logger) *RoomService {
	return &RoomService{
		repository: repository,
		summarizer: summarizer,
		validator:  validator.New(),
		policy:     policy,
		log:        log,
		newCode:    RandomCode,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RandomCode draws a room code of six uppercase letters.
func RandomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// CreateRoom stores a new lobby whose creator is already a participant.
// A code collision draws another code, up to maxCodeAttempts times.
func (s *RoomService) CreateRoom(_ context.Context, req domain.CreateRoomRequest) (domain.Room, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Question = strings.TrimSpace(req.Question)
	if err := s.validator.Struct(req); err != nil {
		return domain.Room{}, fmt.Errorf("%w: %v", errors.ErrInvalidRoom, err)
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		room := domain.NewRoom(domain.RoomID(uuid.NewString()), s.newCode(), req.Question, req.Username,
			req.TimeLimitSeconds, req.MaxAnswersPerPerson, s.now())
		err := s.repository.Create(room)
		if stderrors.Is(err, errors.ErrCodeTaken) {
			s.log.Debug("Room code taken, drawing another", "code", room.Code, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Room{}, err
		}
		room.Version = 1
		s.log.Info("Room created", "room", room.ID, "code", room.Code)
		return room, nil
	}
	return domain.Room{}, errors.ErrCodeExhausted
}

func (s *RoomService) Lobby(_ context.Context, id domain.RoomID) (domain.Room, error) {
	return s.repository.Get(id)
}

// SwipeView is the room as swipers see it: blank answers are never shown.
func (s *RoomService) SwipeView(_ context.Context, id domain.RoomID) (domain.Room, error) {
	room, err := s.repository.Get(id)
	if err != nil {
		return domain.Room{}, err
	}
	room.Cards = room.PlayableCards()
	return room, nil
}

func (s *RoomService) FindByCode(_ context.Context, code string) (domain.RoomID, error) {
	return s.repository.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// Results tallies the swipes and attaches the recommendation.
// A real recommendation of a finished room is cached on the document; losing
// the version race only skips the cache.
func (s *RoomService) Results(ctx context.Context, id domain.RoomID) (domain.RoomResults, error) {
	room, err := s.repository.Get(id)
	if err != nil {
		return domain.RoomResults{}, err
	}
	results := domain.Tally(room, s.policy)

	summary := room.Summary
	if summary == "" {
		summary = s.summarizer.Summarize(ctx, room.Question, results)
		if summary != ai.FallbackSummary && room.Phase == domain.PhaseFinished {
			room.Summary = summary
			if _, err := s.repository.Replace(room); err != nil {
				s.log.Debug("Summary not cached", "room", id, "error", err)
			}
		}
	}

	return domain.RoomResults{
		RoomID:   room.ID,
		Question: room.Question,
		Results:  results,
		Summary:  summary,
	}, nil
}
