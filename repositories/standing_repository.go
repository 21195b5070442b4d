package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type StandingRepository interface {
	Fetch(ctx context.Context, exec SQLExecutor) ([]models.Standing, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// fetchStandingsQuery aggregates matches and byes separately so that the two
// joins cannot multiply each other's counts. Players without results get zeros.
const fetchStandingsQuery = `
	SELECT p.id, p.name,
	       COALESCE(m.wins, 0)    AS wins,
	       COALESCE(m.matches, 0) AS matches,
	       COALESCE(b.byes, 0)    AS byes
	FROM player p
	LEFT JOIN (
		SELECT pl.id AS player_id,
		       SUM(CASE WHEN mt.winner = pl.id THEN 1 ELSE 0 END) AS wins,
		       COUNT(mt.id) AS matches
		FROM player pl
		JOIN match mt ON mt.winner = pl.id OR mt.loser = pl.id
		GROUP BY pl.id
	) m ON m.player_id = p.id
	LEFT JOIN (
		SELECT player_id, COUNT(*) AS byes FROM bye GROUP BY player_id
	) b ON b.player_id = p.id
	ORDER BY (COALESCE(m.wins, 0) + COALESCE(b.byes, 0)) DESC, wins DESC, p.id ASC`

func (r *postgresStandingRepository) Fetch(ctx context.Context, exec SQLExecutor) ([]models.Standing, error) {
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, fetchStandingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", classifyError(err))
	}
	defer rows.Close()

	standings := make([]models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(&s.ID, &s.Name, &s.Wins, &s.Matches, &s.Byes); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", classifyError(err))
	}
	return standings, nil
}
