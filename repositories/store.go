package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// Store owns the connection pool and hands out scoped transactions.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RunInTx runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back on error or panic.
func (s *Store) RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", classifyError(commitErr))
		}
	}()

	return fn(tx)
}
