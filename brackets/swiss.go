package brackets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/swiss-tournament/models"
)

var ErrOddPlayerCount = errors.New("odd number of players cannot be paired")

// OddPolicy decides what happens to the player left over when the field is odd.
type OddPolicy string

const (
	// OddPolicyBye gives the lowest-ranked player without a previous bye a bye.
	OddPolicyBye OddPolicy = "bye"
	// OddPolicyDrop leaves the lowest-ranked player out of the round.
	OddPolicyDrop OddPolicy = "drop"
	// OddPolicyReject refuses to pair an odd field.
	OddPolicyReject OddPolicy = "reject"
)

func ParseOddPolicy(s string) (OddPolicy, error) {
	switch p := OddPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OddPolicyBye, OddPolicyDrop, OddPolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown odd player policy %q", s)
	}
}

// defaultSearchBudget bounds the rematch-avoiding search. Past it the
// generator falls back to plain adjacent pairing.
const defaultSearchBudget = 100_000

type SwissOptions struct {
	OddPolicy      OddPolicy
	AvoidRematches bool
	SearchBudget   int
}

type SwissGenerator struct {
	opts SwissOptions
}

func NewSwissGenerator(opts SwissOptions) PairingGenerator {
	if opts.OddPolicy == "" {
		opts.OddPolicy = OddPolicyBye
	}
	if opts.SearchBudget <= 0 {
		opts.SearchBudget = defaultSearchBudget
	}
	return &SwissGenerator{opts: opts}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GeneratePairings ranks the standings and pairs neighbours: 1st with 2nd,
// 3rd with 4th and so on. With rematch avoidance enabled a player skips
// opponents already met, as long as the rest of the field can still be paired.
func (g *SwissGenerator) GeneratePairings(ctx context.Context, params PairingParams) ([]models.Pairing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]models.Standing, len(params.Standings))
	copy(pool, params.Standings)
	RankStandings(pool)

	var bye *models.Standing
	if len(pool)%2 == 1 {
		switch g.opts.OddPolicy {
		case OddPolicyReject:
			return nil, fmt.Errorf("%w: %d players registered", ErrOddPlayerCount, len(pool))
		case OddPolicyDrop:
			pool = pool[:len(pool)-1]
		case OddPolicyBye:
			idx := byeCandidate(pool)
			b := pool[idx]
			bye = &b
			pool = append(pool[:idx], pool[idx+1:]...)
		default:
			return nil, fmt.Errorf("unknown odd player policy %q", g.opts.OddPolicy)
		}
	}

	var pairs [][2]int
	if g.opts.AvoidRematches && params.History.Len() > 0 {
		s := &searcher{pool: pool, history: params.History, used: make([]bool, len(pool)), budget: g.opts.SearchBudget}
		if s.solve() {
			pairs = s.pairs
		}
	}
	if pairs == nil {
		pairs = adjacentPairs(len(pool))
	}

	pairings := make([]models.Pairing, 0, len(pairs)+1)
	for _, p := range pairs {
		a, b := pool[p[0]], pool[p[1]]
		pairings = append(pairings, models.Pairing{
			Player1: models.PairingSide{ID: a.ID, Name: a.Name},
			Player2: &models.PairingSide{ID: b.ID, Name: b.Name},
		})
	}
	if bye != nil {
		pairings = append(pairings, models.Pairing{
			Player1: models.PairingSide{ID: bye.ID, Name: bye.Name},
		})
	}
	return pairings, nil
}

// byeCandidate picks the lowest-ranked player who has never had a bye, or
// the lowest-ranked player when everyone has had one.
func byeCandidate(ranked []models.Standing) int {
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].Byes == 0 {
			return i
		}
	}
	return len(ranked) - 1
}

func adjacentPairs(n int) [][2]int {
	pairs := make([][2]int, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		pairs = append(pairs, [2]int{i, i + 1})
	}
	return pairs
}

// searcher does a depth-first search over the ranked pool. The first
// unpaired player always takes the best-ranked legal opponent, so with no
// history the result equals adjacentPairs.
type searcher struct {
	pool    []models.Standing
	history *History
	used    []bool
	pairs   [][2]int
	budget  int
}

func (s *searcher) solve() bool {
	first := -1
	for i := range s.pool {
		if !s.used[i] {
			first = i
			break
		}
	}
	if first == -1 {
		return true
	}

	s.used[first] = true
	for j := first + 1; j < len(s.pool); j++ {
		if s.used[j] || s.history.Played(s.pool[first].ID, s.pool[j].ID) {
			continue
		}
		if s.budget <= 0 {
			break
		}
		s.budget--

		s.used[j] = true
		s.pairs = append(s.pairs, [2]int{first, j})
		if s.solve() {
			return true
		}
		s.pairs = s.pairs[:len(s.pairs)-1]
		s.used[j] = false
	}
	s.used[first] = false
	return false
}
