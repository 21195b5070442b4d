package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrMatchPlayerInvalid = errors.New("match references a player that does not exist")
	ErrMatchSelfPlay      = errors.New("match winner and loser must differ")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	List(ctx context.Context, exec SQLExecutor) ([]*models.Match, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `INSERT INTO match (winner, loser) VALUES ($1, $2) RETURNING id, created_at`
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, match.WinnerID, match.LoserID).
		Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		if code, _, ok := pqErrorCode(err); ok {
			switch code {
			case pqForeignKeyViolation:
				return ErrMatchPlayerInvalid
			case pqCheckViolation:
				return ErrMatchSelfPlay
			}
		}
		return fmt.Errorf("failed to insert match: %w", classifyError(err))
	}
	return nil
}

// List returns every recorded match in the order it was reported.
func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Match, error) {
	query := `SELECT id, winner, loser, created_at FROM match ORDER BY id ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", classifyError(err))
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.WinnerID, &m.LoserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", classifyError(err))
	}
	return matches, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var count int
	err := getExecutor(r.db, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM match`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", classifyError(err))
	}
	return count, nil
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM match`); err != nil {
		return fmt.Errorf("failed to delete matches: %w", classifyError(err))
	}
	return nil
}
