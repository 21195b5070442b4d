package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

// TournamentService is the public operation surface of the tournament.
type TournamentService interface {
	DeleteMatches(ctx context.Context) error
	DeletePlayers(ctx context.Context) error
	CountPlayers(ctx context.Context) (int, error)
	RegisterPlayer(ctx context.Context, name string) (*models.Player, error)
	PlayerStandings(ctx context.Context) ([]models.Standing, error)
	ReportMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error)
	SwissPairings(ctx context.Context) ([]models.Pairing, error)

	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]*models.Player, error)
	ReportBye(ctx context.Context, playerID int) (*models.Bye, error)
	ListMatches(ctx context.Context) ([]*models.Match, error)
	CountMatches(ctx context.Context) (int, error)
	ResetTournament(ctx context.Context) error
}

// Notifier receives tournament events; *brackets.Hub is the production one.
type Notifier interface {
	Broadcast(eventType string, payload interface{})
}

// TxRunner runs a unit of work in one transaction; *repositories.Store is the production one.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type tournamentService struct {
	tx           TxRunner
	playerRepo   repositories.PlayerRepository
	matchRepo    repositories.MatchRepository
	byeRepo      repositories.ByeRepository
	standingRepo repositories.StandingRepository
	generator    brackets.PairingGenerator
	notifier     Notifier
	archiver     storage.RoundArchiver
	logger       *slog.Logger
	now          func() time.Time
}

// NewTournamentService wires the service. notifier and archiver may be nil.
func NewTournamentService(
	tx TxRunner,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	byeRepo repositories.ByeRepository,
	standingRepo repositories.StandingRepository,
	generator brackets.PairingGenerator,
	notifier Notifier,
	archiver storage.RoundArchiver,
	logger *slog.Logger,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		tx:           tx,
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		byeRepo:      byeRepo,
		standingRepo: standingRepo,
		generator:    generator,
		notifier:     notifier,
		archiver:     archiver,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *tournamentService) notify(eventType string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Broadcast(eventType, payload)
	}
}

// DeleteMatches clears every round result: matches and byes go together in
// one transaction, so DeletePlayers can follow it.
func (s *tournamentService) DeleteMatches(ctx context.Context) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.byeRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}
	s.logger.Info("all matches and byes deleted")
	s.notify(brackets.EventMatchesCleared, nil)
	return nil
}

func (s *tournamentService) DeletePlayers(ctx context.Context) error {
	if err := s.playerRepo.DeleteAll(ctx, nil); err != nil {
		if errors.Is(err, repositories.ErrPlayerReferenced) {
			return ErrPlayersHaveResults
		}
		return fmt.Errorf("delete players: %w", err)
	}
	s.logger.Info("all players deleted")
	s.notify(brackets.EventPlayersCleared, nil)
	return nil
}

func (s *tournamentService) CountPlayers(ctx context.Context) (int, error) {
	count, err := s.playerRepo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{Name: name}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, fmt.Errorf("register player %q: %w", name, err)
	}
	s.logger.Info("player registered", slog.Int("player_id", player.ID), slog.String("name", player.Name))
	s.notify(brackets.EventPlayerRegistered, player)
	return player, nil
}

func (s *tournamentService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	if id <= 0 {
		return nil, ErrInvalidPlayerID
	}
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
		}
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return player, nil
}

func (s *tournamentService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *tournamentService) PlayerStandings(ctx context.Context) ([]models.Standing, error) {
	standings, err := s.standingRepo.Fetch(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("player standings: %w", err)
	}
	brackets.RankStandings(standings)
	return standings, nil
}

func (s *tournamentService) ReportMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error) {
	if winnerID <= 0 || loserID <= 0 {
		return nil, ErrInvalidPlayerID
	}
	if winnerID == loserID {
		return nil, ErrSelfMatch
	}

	match := &models.Match{WinnerID: winnerID, LoserID: loserID}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchPlayerInvalid):
			return nil, fmt.Errorf("%w: winner %d or loser %d", ErrPlayerNotFound, winnerID, loserID)
		case errors.Is(err, repositories.ErrMatchSelfPlay):
			return nil, ErrSelfMatch
		}
		return nil, fmt.Errorf("report match %d beat %d: %w", winnerID, loserID, err)
	}
	s.logger.Info("match reported",
		slog.Int("match_id", match.ID),
		slog.Int("winner_id", winnerID),
		slog.Int("loser_id", loserID),
	)
	s.notify(brackets.EventMatchReported, match)
	return match, nil
}

func (s *tournamentService) ReportBye(ctx context.Context, playerID int) (*models.Bye, error) {
	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}

	bye := &models.Bye{PlayerID: playerID}
	if err := s.byeRepo.Create(ctx, nil, bye); err != nil {
		if errors.Is(err, repositories.ErrByePlayerInvalid) {
			return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("report bye for %d: %w", playerID, err)
	}
	s.logger.Info("bye reported", slog.Int("player_id", playerID))
	s.notify(brackets.EventByeReported, bye)
	return bye, nil
}

func (s *tournamentService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *tournamentService) CountMatches(ctx context.Context) (int, error) {
	count, err := s.matchRepo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

// SwissPairings reads the standings and the match history, then asks the
// generator for the next round. When an archive is configured the round is
// stored as a snapshot; archive failures are logged and do not fail the call.
func (s *tournamentService) SwissPairings(ctx context.Context) ([]models.Pairing, error) {
	var (
		standings []models.Standing
		matches   []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		standings, err = s.standingRepo.Fetch(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("swiss pairings: %w", err)
	}

	brackets.RankStandings(standings)
	pairings, err := s.generator.GeneratePairings(ctx, brackets.PairingParams{
		Standings: standings,
		History:   brackets.NewHistory(matches),
	})
	if err != nil {
		return nil, fmt.Errorf("swiss pairings: %w", err)
	}

	snapshot := models.RoundSnapshot{
		Round:       nextRound(standings),
		GeneratedAt: s.now().UTC(),
		Standings:   standings,
		Pairings:    pairings,
	}
	s.logger.Info("pairings generated",
		slog.String("generator", s.generator.GetName()),
		slog.Int("round", snapshot.Round),
		slog.Int("players", len(standings)),
		slog.Int("pairings", len(pairings)),
	)
	s.archive(ctx, snapshot)
	s.notify(brackets.EventPairingsGenerated, snapshot)

	return pairings, nil
}

func (s *tournamentService) archive(ctx context.Context, snapshot models.RoundSnapshot) {
	if s.archiver == nil {
		return
	}
	ids := make([]int, len(snapshot.Standings))
	for i, st := range snapshot.Standings {
		ids[i] = st.ID
	}
	key := storage.RoundKey(snapshot.Round, ids)
	res, err := s.archiver.Archive(ctx, key, snapshot)
	if err != nil {
		s.logger.Error("failed to archive round snapshot", slog.String("key", key), slog.Any("error", err))
		return
	}
	s.logger.Info("round snapshot archived", slog.String("key", res.Key), slog.String("location", res.Location))
}

// nextRound is one more than the most rounds any player has taken part in.
func nextRound(standings []models.Standing) int {
	played := 0
	for _, st := range standings {
		if n := st.Matches + st.Byes; n > played {
			played = n
		}
	}
	return played + 1
}

// ResetTournament clears matches, byes and players in one transaction.
func (s *tournamentService) ResetTournament(ctx context.Context) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if err := s.byeRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.playerRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		return fmt.Errorf("reset tournament: %w", err)
	}
	s.logger.Info("tournament reset")
	s.notify(brackets.EventTournamentReset, nil)
	return nil
}
