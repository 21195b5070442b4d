package services

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

type MockPlayerRepository struct{ mock.Mock }

func (m *MockPlayerRepository) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	return m.Called(ctx, exec, player).Error(0)
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	args := m.Called(ctx, exec, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Player, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	args := m.Called(ctx, exec)
	return args.Int(0), args.Error(1)
}

func (m *MockPlayerRepository) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	return m.Called(ctx, exec).Error(0)
}

type MockMatchRepository struct{ mock.Mock }

func (m *MockMatchRepository) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return m.Called(ctx, exec, match).Error(0)
}

func (m *MockMatchRepository) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Match, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	args := m.Called(ctx, exec)
	return args.Int(0), args.Error(1)
}

func (m *MockMatchRepository) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	return m.Called(ctx, exec).Error(0)
}

type MockByeRepository struct{ mock.Mock }

func (m *MockByeRepository) Create(ctx context.Context, exec repositories.SQLExecutor, bye *models.Bye) error {
	return m.Called(ctx, exec, bye).Error(0)
}

func (m *MockByeRepository) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	return m.Called(ctx, exec).Error(0)
}

type MockStandingRepository struct{ mock.Mock }

func (m *MockStandingRepository) Fetch(ctx context.Context, exec repositories.SQLExecutor) ([]models.Standing, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Standing), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Broadcast(eventType string, payload interface{}) {
	m.Called(eventType, payload)
}

type MockArchiver struct{ mock.Mock }

func (m *MockArchiver) Archive(ctx context.Context, key string, snapshot interface{}) (*storage.ArchiveResult, error) {
	args := m.Called(ctx, key, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ArchiveResult), args.Error(1)
}

func (m *MockArchiver) GetPublicURL(key string) string {
	return m.Called(key).String(0)
}

// fakeTx runs the unit of work directly and reports whether it "committed".
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if err := fn(nil); err != nil {
		f.rolledBack = true
		return err
	}
	f.committed = true
	return nil
}

// memStore is an in-memory stand-in for the postgres repositories, used to
// exercise whole tournament scenarios through the service.
type memStore struct {
	mu      sync.Mutex
	nextID  int
	players []*models.Player
	matches []*models.Match
	byes    []*models.Bye
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) hasPlayer(id int) bool {
	for _, p := range s.players {
		if p.ID == id {
			return true
		}
	}
	return false
}

type memPlayers struct{ *memStore }

func (r memPlayers) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	player.ID = r.nextID
	cp := *player
	r.players = append(r.players, &cp)
	return nil
}

func (r memPlayers) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r memPlayers) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Player(nil), r.players...), nil
}

func (r memPlayers) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players), nil
}

func (r memPlayers) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.matches) > 0 || len(r.byes) > 0 {
		return repositories.ErrPlayerReferenced
	}
	r.players = nil
	return nil
}

type memMatches struct{ *memStore }

func (r memMatches) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasPlayer(match.WinnerID) || !r.hasPlayer(match.LoserID) {
		return repositories.ErrMatchPlayerInvalid
	}
	match.ID = len(r.matches) + 1
	cp := *match
	r.matches = append(r.matches, &cp)
	return nil
}

func (r memMatches) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Match(nil), r.matches...), nil
}

func (r memMatches) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches), nil
}

func (r memMatches) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = nil
	return nil
}

type memByes struct{ *memStore }

func (r memByes) Create(ctx context.Context, exec repositories.SQLExecutor, bye *models.Bye) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasPlayer(bye.PlayerID) {
		return repositories.ErrByePlayerInvalid
	}
	bye.ID = len(r.byes) + 1
	cp := *bye
	r.byes = append(r.byes, &cp)
	return nil
}

func (r memByes) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byes = nil
	return nil
}

type memStandings struct{ *memStore }

// Fetch mirrors the SQL aggregate, returning rows in insertion order.
func (r memStandings) Fetch(ctx context.Context, exec repositories.SQLExecutor) ([]models.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID := make(map[int]*models.Standing, len(r.players))
	out := make([]models.Standing, len(r.players))
	for i, p := range r.players {
		out[i] = models.Standing{ID: p.ID, Name: p.Name}
		byID[p.ID] = &out[i]
	}
	for _, m := range r.matches {
		byID[m.WinnerID].Wins++
		byID[m.WinnerID].Matches++
		byID[m.LoserID].Matches++
	}
	for _, b := range r.byes {
		byID[b.PlayerID].Byes++
	}
	// Rows come back in reverse id order; ranking is the service's job.
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
