package domain

import "time"

// Card is one candidate answer.
type Card struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Swipe is one yes/no vote. Swipes are append-only and never deduplicated at write time.
type Swipe struct {
	ID           string    `json:"id"`
	CardID       string    `json:"card_id"`
	Voter        string    `json:"voter"`
	IsRightSwipe bool      `json:"is_right_swipe"`
	At           time.Time `json:"at"`
}
