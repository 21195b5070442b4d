package brackets

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

// RankStandings orders standings in place: points descending, then wins
// descending, then player id ascending. The id tie-break makes the order
// reproducible regardless of the row order storage returns.
func RankStandings(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points() != b.Points() {
			return a.Points() > b.Points()
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})
}

// History is the set of player pairs that have already met.
type History struct {
	played map[[2]int]int
}

func NewHistory(matches []*models.Match) *History {
	h := &History{played: make(map[[2]int]int, len(matches))}
	for _, m := range matches {
		h.Add(m.WinnerID, m.LoserID)
	}
	return h
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (h *History) Add(a, b int) {
	h.played[pairKey(a, b)]++
}

// Played reports whether a and b have met at least once. A nil History has
// no recorded meetings.
func (h *History) Played(a, b int) bool {
	if h == nil {
		return false
	}
	return h.played[pairKey(a, b)] > 0
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.played)
}
