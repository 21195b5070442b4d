package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var ErrByePlayerInvalid = errors.New("bye references a player that does not exist")

type ByeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bye *models.Bye) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresByeRepository struct {
	db *sql.DB
}

func NewPostgresByeRepository(db *sql.DB) ByeRepository {
	return &postgresByeRepository{db: db}
}

func (r *postgresByeRepository) Create(ctx context.Context, exec SQLExecutor, bye *models.Bye) error {
	query := `INSERT INTO bye (player_id) VALUES ($1) RETURNING id, created_at`
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, bye.PlayerID).Scan(&bye.ID, &bye.CreatedAt)
	if err != nil {
		if code, _, ok := pqErrorCode(err); ok && code == pqForeignKeyViolation {
			return ErrByePlayerInvalid
		}
		return fmt.Errorf("failed to insert bye: %w", classifyError(err))
	}
	return nil
}

func (r *postgresByeRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM bye`); err != nil {
		return fmt.Errorf("failed to delete byes: %w", classifyError(err))
	}
	return nil
}
