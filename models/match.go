package models

import "time"

// Match is a single reported result. Draws are not recorded.
type Match struct {
	ID        int       `json:"id" db:"id"`
	WinnerID  int       `json:"winner_id" db:"winner"`
	LoserID   int       `json:"loser_id" db:"loser"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Bye records a round in which a player had no opponent.
type Bye struct {
	ID        int       `json:"id" db:"id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
