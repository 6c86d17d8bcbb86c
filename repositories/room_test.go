package repositories

import (
	"decision-lab/domain"
	"decision-lab/errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	// Reduced to 16 Mo for testing
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepository(t *testing.T) RoomRepository {
	return NewRoomRepository(openTestDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
}

func newTestRoom(code string) domain.Room {
	return domain.NewRoom(domain.RoomID(uuid.NewString()), code, "Pizza or Tacos?", "alice", nil, 0, time.Now().UTC())
}

func TestRoomRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	room := newTestRoom("ABCDEF")

	// When a room is created
	req.NoError(repo.Create(room))

	// Then it can be read back at version 1
	stored, err := repo.Get(room.ID)
	req.NoError(err)
	req.Equal(uint64(1), stored.Version)
	req.Equal(room.Question, stored.Question)
	req.Equal([]string{"alice"}, stored.Usernames())

	// And its code resolves to it
	id, err := repo.FindByCode("ABCDEF")
	req.NoError(err)
	req.Equal(room.ID, id)
}

func TestRoomRepository_UnknownRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	_, err := repo.Get("missing")
	req.ErrorIs(err, errors.ErrRoomNotFound)

	_, err = repo.FindByCode("ZZZZZZ")
	req.ErrorIs(err, errors.ErrRoomNotFound)

	_, err = repo.Replace(domain.Room{ID: "missing"})
	req.ErrorIs(err, errors.ErrRoomNotFound)

	req.ErrorIs(repo.PushCard("missing", domain.Card{ID: "c"}), errors.ErrRoomNotFound)
}

func TestRoomRepository_CodeIsReserved(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	req.NoError(repo.Create(newTestRoom("SAMEAA")))

	err := repo.Create(newTestRoom("SAMEAA"))

	req.ErrorIs(err, errors.ErrCodeTaken)
}

func TestRoomRepository_ReplaceDetectsLostUpdate(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	room := newTestRoom("LOSTUP")
	req.NoError(repo.Create(room))

	// Given two writers reading the same snapshot
	first, err := repo.Get(room.ID)
	req.NoError(err)
	second, err := repo.Get(room.ID)
	req.NoError(err)

	// When both write back an independent change
	first.FinishedParticipants = []string{"alice"}
	saved, err := repo.Replace(first)
	req.NoError(err)
	req.Equal(uint64(2), saved.Version)

	second.Participants = append(second.Participants, domain.Participant{Username: "bob"})
	_, err = repo.Replace(second)

	// Then the second write is refused instead of clobbering the first
	req.ErrorIs(err, errors.ErrVersionConflict)
	stored, err := repo.Get(room.ID)
	req.NoError(err)
	req.Equal([]string{"alice"}, stored.FinishedParticipants)
	req.Len(stored.Participants, 1)
}

func TestRoomRepository_ConcurrentPushesAreAllKept(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	room := newTestRoom("PUSHES")
	req.NoError(repo.Create(room))

	const voters = 20
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.PushSwipe(room.ID, domain.Swipe{
				ID:           uuid.NewString(),
				CardID:       "c1",
				Voter:        fmt.Sprintf("voter-%d", i),
				IsRightSwipe: true,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		if err != nil {
			failed++
		}
	}
	stored, err := repo.Get(room.ID)
	req.NoError(err)
	// Every successful append is visible: nothing was overwritten
	req.Len(stored.Swipes, voters-failed)
	req.Equal(uint64(1+voters-failed), stored.Version)
}

func TestRoomRepository_PushCardKeepsOrder(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	room := newTestRoom("ORDERS")
	req.NoError(repo.Create(room))

	req.NoError(repo.PushCard(room.ID, domain.Card{ID: "1", Title: "Pizza"}))
	req.NoError(repo.PushCard(room.ID, domain.Card{ID: "2", Title: "Tacos"}))

	stored, err := repo.Get(room.ID)
	req.NoError(err)
	req.Equal([]string{"Pizza", "Tacos"}, lo.Map(stored.Cards, func(c domain.Card, _ int) string { return c.Title }))
}

func TestRoomRepository_ListWithLimit(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)
	for _, code := range []string{"AAAAAA", "BBBBBB", "CCCCCC"} {
		req.NoError(repo.Create(newTestRoom(code)))
	}

	all, err := repo.List(nil)
	req.NoError(err)
	req.Len(all, 3)

	some, err := repo.List(lo.ToPtr(2))
	req.NoError(err)
	req.Len(some, 2)
}
