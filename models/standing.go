package models

import "time"

// Standing is a player's accumulated record. It is derived, never stored.
type Standing struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Wins    int    `json:"wins"`
	Matches int    `json:"matches"`
	Byes    int    `json:"byes"`
}

// Points is the ranking score: every win and every bye counts one point.
func (s Standing) Points() int {
	return s.Wins + s.Byes
}

func (s Standing) Losses() int {
	return s.Matches - s.Wins
}

// RoundSnapshot is what gets archived each time pairings are generated.
type RoundSnapshot struct {
	Round       int        `json:"round"`
	GeneratedAt time.Time  `json:"generated_at"`
	Standings   []Standing `json:"standings"`
	Pairings    []Pairing  `json:"pairings"`
}
