package services

import (
	"context"
	"decision-lab/ai"
	"decision-lab/domain"
	"decision-lab/errors"
	"decision-lab/mocks"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(ctrl *gomock.Controller) (*RoomService, *mocks.MockIRoomRepository, *mocks.MockISummarizer) {
	repo := mocks.NewMockIRoomRepository(ctrl)
	summarizer := mocks.NewMockISummarizer(ctrl)
	svc := NewRoomService(repo, summarizer, domain.CountAll, slog.New(slog.DiscardHandler))
	return svc, repo, summarizer
}

func finishedRoom() domain.Room {
	room := domain.NewRoom("room-1", "ABCDEF", "Pizza or Tacos?", "alice", nil, 0, time.Now().UTC())
	room.Phase = domain.PhaseFinished
	room.Version = 7
	room.Cards = []domain.Card{{ID: "c1", Title: "Pizza"}, {ID: "c2", Title: "Tacos"}}
	room.Swipes = []domain.Swipe{
		{ID: "s1", CardID: "c1", Voter: "alice", IsRightSwipe: true},
		{ID: "s2", CardID: "c2", Voter: "alice", IsRightSwipe: false},
	}
	return room
}

func TestRandomCode(t *testing.T) {
	req := require.New(t)
	for i := 0; i < 100; i++ {
		code := RandomCode()
		req.Len(code, 6)
		for _, c := range code {
			req.True(c >= 'A' && c <= 'Z', code)
		}
	}
}

func TestRoomService_CreateRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should create a lobby with the creator seeded", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newTestService(ctrl)
		svc.newCode = func() string { return "QWERTY" }

		repo.EXPECT().Create(gomock.Any()).DoAndReturn(func(room domain.Room) error {
			req.Equal("QWERTY", room.Code)
			req.Equal("Pizza or Tacos?", room.Question)
			req.Equal(domain.PhaseLobby, room.Phase)
			req.True(room.IsActive)
			return nil
		}).Times(1)

		room, err := svc.CreateRoom(context.Background(), domain.CreateRoomRequest{
			Username: " alice ", Question: "Pizza or Tacos?", TimeLimitSeconds: lo.ToPtr(60), MaxAnswersPerPerson: 2,
		})

		req.NoError(err)
		req.NotEmpty(room.ID)
		req.Equal([]string{"alice"}, room.Usernames())
		req.Equal("alice", room.CreatorUsername)
		req.Equal(2, room.MaxAnswersPerPerson)
		req.Equal(60, *room.TimeLimitSeconds)
	})

	t.Run("should draw another code on collision", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newTestService(ctrl)
		codes := []string{"AAAAAA", "BBBBBB"}
		svc.newCode = func() string {
			code := codes[0]
			codes = codes[1:]
			return code
		}

		gomock.InOrder(
			repo.EXPECT().Create(gomock.Any()).Return(errors.ErrCodeTaken),
			repo.EXPECT().Create(gomock.Any()).Return(nil),
		)

		room, err := svc.CreateRoom(context.Background(), domain.CreateRoomRequest{Username: "alice", Question: "Lunch?"})

		req.NoError(err)
		req.Equal("BBBBBB", room.Code)
	})

	t.Run("should give up when every code is taken", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newTestService(ctrl)

		repo.EXPECT().Create(gomock.Any()).Return(errors.ErrCodeTaken).Times(maxCodeAttempts)

		_, err := svc.CreateRoom(context.Background(), domain.CreateRoomRequest{Username: "alice", Question: "Lunch?"})

		req.ErrorIs(err, errors.ErrCodeExhausted)
	})

	t.Run("should reject blank input", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newTestService(ctrl)

		// Repository should NEVER be called
		repo.EXPECT().Create(gomock.Any()).Times(0)

		_, err := svc.CreateRoom(context.Background(), domain.CreateRoomRequest{Username: "   ", Question: "Lunch?"})
		req.ErrorIs(err, errors.ErrInvalidRoom)

		_, err = svc.CreateRoom(context.Background(), domain.CreateRoomRequest{Username: "alice", Question: "Lunch?", MaxAnswersPerPerson: -1})
		req.ErrorIs(err, errors.ErrInvalidRoom)

		_, err = svc.CreateRoom(context.Background(), domain.CreateRoomRequest{Username: "alice", Question: "Lunch?", TimeLimitSeconds: lo.ToPtr(0)})
		req.ErrorIs(err, errors.ErrInvalidRoom)
	})
}

func TestRoomService_SwipeView_Hides_Blank_Cards(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, repo, _ := newTestService(ctrl)

	room := finishedRoom()
	room.Cards = append(room.Cards, domain.Card{ID: "c3", Title: "  "})
	repo.EXPECT().Get(domain.RoomID("room-1")).Return(room, nil)

	view, err := svc.SwipeView(context.Background(), "room-1")

	req.NoError(err)
	req.Len(view.Cards, 2)
}

func TestRoomService_FindByCode(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, repo, _ := newTestService(ctrl)

	// Codes are matched case-insensitively
	repo.EXPECT().FindByCode("ABCDEF").Return(domain.RoomID("room-1"), nil)

	id, err := svc.FindByCode(context.Background(), " abcdef ")

	req.NoError(err)
	req.Equal(domain.RoomID("room-1"), id)
}

func TestRoomService_Results(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should tally and cache the summary of a finished room", func(t *testing.T) {
		req := require.New(t)
		svc, repo, summarizer := newTestService(ctrl)

		repo.EXPECT().Get(domain.RoomID("room-1")).Return(finishedRoom(), nil)
		summarizer.EXPECT().Summarize(gomock.Any(), "Pizza or Tacos?", gomock.Any()).Return("Pick pizza.")
		repo.EXPECT().Replace(gomock.Any()).DoAndReturn(func(room domain.Room) (domain.Room, error) {
			req.Equal("Pick pizza.", room.Summary)
			req.Equal(uint64(7), room.Version)
			return room, nil
		})

		results, err := svc.Results(context.Background(), "room-1")

		req.NoError(err)
		req.Equal("Pick pizza.", results.Summary)
		req.Equal([]domain.CardResult{
			{CardID: "c1", Title: "Pizza", RightSwipes: 1, LeftSwipes: 0, Rank: 1},
			{CardID: "c2", Title: "Tacos", RightSwipes: 0, LeftSwipes: 1, Rank: 2},
		}, results.Results)
	})

	t.Run("should reuse a cached summary", func(t *testing.T) {
		req := require.New(t)
		svc, repo, summarizer := newTestService(ctrl)

		room := finishedRoom()
		room.Summary = "Already decided."
		repo.EXPECT().Get(gomock.Any()).Return(room, nil)
		summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		results, err := svc.Results(context.Background(), "room-1")

		req.NoError(err)
		req.Equal("Already decided.", results.Summary)
	})

	t.Run("should never cache the fallback", func(t *testing.T) {
		req := require.New(t)
		svc, repo, summarizer := newTestService(ctrl)

		repo.EXPECT().Get(gomock.Any()).Return(finishedRoom(), nil)
		summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Return(ai.FallbackSummary)
		repo.EXPECT().Replace(gomock.Any()).Times(0)

		results, err := svc.Results(context.Background(), "room-1")

		req.NoError(err)
		req.Equal(ai.FallbackSummary, results.Summary)
	})

	t.Run("should keep the summary when caching loses the race", func(t *testing.T) {
		req := require.New(t)
		svc, repo, summarizer := newTestService(ctrl)

		repo.EXPECT().Get(gomock.Any()).Return(finishedRoom(), nil)
		summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Return("Pick pizza.")
		repo.EXPECT().Replace(gomock.Any()).Return(domain.Room{}, errors.ErrVersionConflict)

		results, err := svc.Results(context.Background(), "room-1")

		req.NoError(err)
		req.Equal("Pick pizza.", results.Summary)
	})

	t.Run("should report a missing room", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newTestService(ctrl)

		repo.EXPECT().Get(gomock.Any()).Return(domain.Room{}, errors.ErrRoomNotFound)

		_, err := svc.Results(context.Background(), "nope")

		req.ErrorIs(err, errors.ErrRoomNotFound)
	})
}
