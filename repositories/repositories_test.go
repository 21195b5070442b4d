package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return conn, mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestPlayerRepository_Create(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)
	now := time.Now()

	mock.ExpectQuery(q(`INSERT INTO player (name) VALUES ($1) RETURNING id, created_at`)).
		WithArgs("Bruno Walton").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	p := &models.Player{Name: "Bruno Walton"}
	require.NoError(t, repo.Create(context.Background(), nil, p))
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, now, p.CreatedAt)
}

func TestPlayerRepository_GetByIDNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectQuery(q(`SELECT id, name, created_at FROM player WHERE id = $1`)).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), nil, 42)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerRepository_List(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)
	now := time.Now()

	mock.ExpectQuery(q(`SELECT id, name, created_at FROM player ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(1, "Markov Chaney", now).
			AddRow(2, "Joe Malik", now))

	players, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Joe Malik", players[1].Name)
}

func TestPlayerRepository_Count(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectQuery(q(`SELECT COUNT(*) FROM player`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestPlayerRepository_DeleteAllReferenced(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectExec(q(`DELETE FROM player`)).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "match_winner_fkey"})

	err := repo.DeleteAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPlayerReferenced)
}

func TestMatchRepository_Create(t *testing.T) {
	insert := q(`INSERT INTO match (winner, loser) VALUES ($1, $2) RETURNING id, created_at`)

	cases := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "ok"},
		{name: "unknown player", dbErr: &pq.Error{Code: pqForeignKeyViolation}, wantErr: ErrMatchPlayerInvalid},
		{name: "self play", dbErr: &pq.Error{Code: pqCheckViolation}, wantErr: ErrMatchSelfPlay},
		{name: "connection refused", dbErr: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, wantErr: ErrStorageUnavailable},
		{name: "admin shutdown", dbErr: &pq.Error{Code: "57P01"}, wantErr: ErrStorageUnavailable},
		{name: "connection failure", dbErr: &pq.Error{Code: "08006"}, wantErr: ErrStorageUnavailable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conn, mock := newMock(t)
			repo := NewPostgresMatchRepository(conn)

			exp := mock.ExpectQuery(insert).WithArgs(1, 2)
			if c.dbErr != nil {
				exp.WillReturnError(c.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))
			}

			m := &models.Match{WinnerID: 1, LoserID: 2}
			err := repo.Create(context.Background(), nil, m)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 11, m.ID)
		})
	}
}

func TestMatchRepository_ListAndCount(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresMatchRepository(conn)
	now := time.Now()

	mock.ExpectQuery(q(`SELECT id, winner, loser, created_at FROM match ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "winner", "loser", "created_at"}).
			AddRow(1, 1, 2, now).
			AddRow(2, 3, 4, now))
	mock.ExpectQuery(q(`SELECT COUNT(*) FROM match`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	matches, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 3, matches[1].WinnerID)
	assert.Equal(t, 4, matches[1].LoserID)

	n, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMatchRepository_DeleteAllIsRepeatable(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresMatchRepository(conn)

	mock.ExpectExec(q(`DELETE FROM match`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q(`DELETE FROM match`)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteAll(context.Background(), nil))
	require.NoError(t, repo.DeleteAll(context.Background(), nil))
}

func TestByeRepository_Create(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresByeRepository(conn)

	insert := q(`INSERT INTO bye (player_id) VALUES ($1) RETURNING id, created_at`)
	mock.ExpectQuery(insert).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	mock.ExpectQuery(insert).WithArgs(99).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	b := &models.Bye{PlayerID: 5}
	require.NoError(t, repo.Create(context.Background(), nil, b))
	assert.Equal(t, 1, b.ID)

	err := repo.Create(context.Background(), nil, &models.Bye{PlayerID: 99})
	assert.ErrorIs(t, err, ErrByePlayerInvalid)
}

func TestStandingRepository_Fetch(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresStandingRepository(conn)

	mock.ExpectQuery(q(fetchStandingsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "wins", "matches", "byes"}).
			AddRow(1, "Alice", 2, 2, 0).
			AddRow(3, "Carol", 1, 2, 1).
			AddRow(2, "Bob", 0, 2, 0).
			AddRow(4, "Dave", 0, 0, 0))

	standings, err := repo.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, models.Standing{ID: 3, Name: "Carol", Wins: 1, Matches: 2, Byes: 1}, standings[1])
	assert.Equal(t, models.Standing{ID: 4, Name: "Dave"}, standings[3])
}

func TestStandingRepository_FetchUnavailable(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresStandingRepository(conn)

	mock.ExpectQuery(q(fetchStandingsQuery)).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, err := repo.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStore_RunInTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		conn, mock := newMock(t)
		store := NewStore(conn)

		mock.ExpectBegin()
		mock.ExpectExec(q(`DELETE FROM match`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		matches := NewPostgresMatchRepository(conn)
		err := store.RunInTx(context.Background(), func(exec SQLExecutor) error {
			return matches.DeleteAll(context.Background(), exec)
		})
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		conn, mock := newMock(t)
		store := NewStore(conn)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.RunInTx(context.Background(), func(exec SQLExecutor) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		conn, mock := newMock(t)
		store := NewStore(conn)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = store.RunInTx(context.Background(), func(exec SQLExecutor) error {
				panic("unreachable state")
			})
		})
	})
}
