package runtime

import (
	"decision-lab/contract"
	"decision-lab/domain"
	"sync"
)

type Set map[domain.ConnectionID]struct{}

// Registry is the group-membership table of the process.
// A connection owns one sink and may belong to several room groups.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[domain.ConnectionID]contract.EventSink // connection -> sink
	RoomMembers map[domain.RoomID]Set                      // room -> connections
	memberOf    map[domain.ConnectionID]map[domain.RoomID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[domain.ConnectionID]contract.EventSink),
		RoomMembers: make(map[domain.RoomID]Set),
		memberOf:    make(map[domain.ConnectionID]map[domain.RoomID]struct{}),
	}
}

func (r *Registry) Connect(conn domain.ConnectionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions[conn] = sink
}

// Disconnect drops the sink of conn and removes it from every group it joined.
func (r *Registry) Disconnect(conn domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, conn)
	for roomID := range r.memberOf[conn] {
		r.leave(conn, roomID)
	}
	delete(r.memberOf, conn)
}

// Subscribe adds conn to the group of roomID. The group is created on the fly.
// A connection without sink is never added: it returns false.
func (r *Registry) Subscribe(conn domain.ConnectionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Sessions[conn]; !ok {
		return false
	}

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][conn] = struct{}{}

	if _, ok := r.memberOf[conn]; !ok {
		r.memberOf[conn] = make(map[domain.RoomID]struct{})
	}
	r.memberOf[conn][roomID] = struct{}{}
	return true
}

func (r *Registry) Unsubscribe(conn domain.ConnectionID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leave(conn, roomID)
	if rooms, ok := r.memberOf[conn]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.memberOf, conn)
		}
	}
}

// leave must be called with the lock held. Empty groups are removed.
func (r *Registry) leave(conn domain.ConnectionID, roomID domain.RoomID) {
	members, ok := r.RoomMembers[roomID]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(r.RoomMembers, roomID)
	}
}

func (r *Registry) SinkFor(conn domain.ConnectionID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.Sessions[conn]
	return sink, ok
}

// GetSinksForRoom resolves the group of roomID into the sinks still connected.
// Returns nil if the room has no group.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for conn := range members {
		if sink, exists := r.Sessions[conn]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Counts returns the number of live connections and of room groups.
func (r *Registry) Counts() (connections, rooms int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Sessions), len(r.RoomMembers)
}
