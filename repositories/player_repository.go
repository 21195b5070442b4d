package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerReferenced = errors.New("player is still referenced by matches or byes")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Player, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `INSERT INTO player (name) VALUES ($1) RETURNING id, created_at`
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, player.Name).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", classifyError(err))
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT id, name, created_at FROM player WHERE id = $1`
	var p models.Player
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, classifyError(err))
	}
	return &p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Player, error) {
	query := `SELECT id, name, created_at FROM player ORDER BY id ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", classifyError(err))
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", classifyError(err))
	}
	return players, nil
}

func (r *postgresPlayerRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var count int
	err := getExecutor(r.db, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM player`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", classifyError(err))
	}
	return count, nil
}

// DeleteAll removes every player. Matches and byes must be cleared first.
func (r *postgresPlayerRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM player`)
	if err != nil {
		if code, _, ok := pqErrorCode(err); ok && code == pqForeignKeyViolation {
			return ErrPlayerReferenced
		}
		return fmt.Errorf("failed to delete players: %w", classifyError(err))
	}
	return nil
}
