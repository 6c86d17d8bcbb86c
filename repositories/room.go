//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"decision-lab/domain"
	"decision-lab/errors"
	"decision-lab/storage"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const (
	roomPrefix = "room:"
	codePrefix = "code:"

	maxConflictRetries = 5
)

// IRoomRepository is the document store of rooms.
// Replace is a whole-document write guarded by Room.Version; PushCard and PushSwipe
// append a single element atomically and never lose a concurrent append.
type IRoomRepository interface {
	Create(room domain.Room) error
	Get(id domain.RoomID) (domain.Room, error)
	Replace(room domain.Room) (domain.Room, error)
	PushCard(id domain.RoomID, card domain.Card) error
	PushSwipe(id domain.RoomID, swipe domain.Swipe) error
	FindByCode(code string) (domain.RoomID, error)
	List(limit *int) ([]domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

func roomKey(id domain.RoomID) []byte { return []byte(roomPrefix + string(id)) }
func codeKey(code string) []byte      { return []byte(codePrefix + code) }

// Create stores a new room and reserves its code in the same transaction.
func (r RoomRepository) Create(room domain.Room) error {
	room.Version = 1
	data, err := storage.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(codeKey(room.Code)); err == nil {
			return errors.ErrCodeTaken
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(roomKey(room.ID), data); err != nil {
			return err
		}
		return txn.Set(codeKey(room.Code), []byte(room.ID))
	})
}

func (r RoomRepository) Get(id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		room, err = readRoom(txn, id)
		return err
	})
	return room, err
}

// Replace overwrites the whole document if nobody wrote it since room was read.
// The returned room carries the new version.
func (r RoomRepository) Replace(room domain.Room) (domain.Room, error) {
	err := r.db.Update(func(txn *badger.Txn) error {
		stored, err := readRoom(txn, room.ID)
		if err != nil {
			return err
		}
		if stored.Version != room.Version {
			return fmt.Errorf("%w: room %s at version %d, write based on %d",
				errors.ErrVersionConflict, room.ID, stored.Version, room.Version)
		}
		room.Version = stored.Version + 1
		return writeRoom(txn, room)
	})
	if err != nil {
		if stderrors.Is(err, badger.ErrConflict) {
			return domain.Room{}, fmt.Errorf("%w: %v", errors.ErrVersionConflict, err)
		}
		return domain.Room{}, err
	}
	return room, nil
}

func (r RoomRepository) PushCard(id domain.RoomID, card domain.Card) error {
	return r.push(id, func(room *domain.Room) {
		room.Cards = append(room.Cards, card)
	})
}

func (r RoomRepository) PushSwipe(id domain.RoomID, swipe domain.Swipe) error {
	return r.push(id, func(room *domain.Room) {
		room.Swipes = append(room.Swipes, swipe)
	})
}

// push appends inside one transaction and retries when Badger detects a concurrent writer.
func (r RoomRepository) push(id domain.RoomID, appendFn func(room *domain.Room)) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = r.db.Update(func(txn *badger.Txn) error {
			room, err := readRoom(txn, id)
			if err != nil {
				return err
			}
			appendFn(&room)
			room.Version++
			return writeRoom(txn, room)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
		r.log.Debug("Append conflict, retrying", "room_id", id, "attempt", attempt+1)
	}
	return err
}

func (r RoomRepository) FindByCode(code string) (domain.RoomID, error) {
	var id domain.RoomID
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(codeKey(code))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = domain.RoomID(val)
			return nil
		})
	})
	return id, err
}

// List scans every room document, stopping at limit when it is set.
func (r RoomRepository) List(limit *int) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit != nil && len(rooms) == *limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d rooms reached", *limit))
				break
			}
			var room domain.Room
			err := it.Item().Value(func(val []byte) error {
				return storage.Unmarshal(val, &room)
			})
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

// Raw returns the stored bytes of one room document.
func (r RoomRepository) Raw(id domain.RoomID) ([]byte, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	return raw, err
}

func readRoom(txn *badger.Txn, id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	item, err := txn.Get(roomKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return room, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
	}
	if err != nil {
		return room, err
	}
	err = item.Value(func(val []byte) error {
		return storage.Unmarshal(val, &room)
	})
	return room, err
}

func writeRoom(txn *badger.Txn, room domain.Room) error {
	data, err := storage.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.ID, err)
	}
	return txn.Set(roomKey(room.ID), data)
}
