package domain

// CreateRoomRequest is the input of room creation.
type CreateRoomRequest struct {
	Username            string `json:"username" validate:"required,max=64"`
	Question            string `json:"question" validate:"required,max=280"`
	TimeLimitSeconds    *int   `json:"timeLimitSeconds,omitempty" validate:"omitempty,min=1,max=86400"`
	MaxAnswersPerPerson int    `json:"maxAnswersPerPerson" validate:"min=0,max=100"`
}

// RoomResults is what a finished room shows: the tally and the recommendation.
type RoomResults struct {
	RoomID   RoomID       `json:"roomId"`
	Question string       `json:"question"`
	Results  []CardResult `json:"results"`
	Summary  string       `json:"summary"`
}
