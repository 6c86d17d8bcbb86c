package domain

// Participant is unique by Username within a room.
// Connection is the latest connection seen for that username and may be stale.
type Participant struct {
	Username   string       `json:"username"`
	Connection ConnectionID `json:"connection"`
}
