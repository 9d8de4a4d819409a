package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/storage"
	"github.com/nkiryanov/tourfront/internal/storage/storagetest"
	"github.com/nkiryanov/tourfront/internal/testutil"
)

func TestStore_Postgres(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	storagetest.Run(t, func(t *testing.T) storage.Store {
		tx, err := pg.Pool.Begin(t.Context())
		require.NoError(t, err)
		t.Cleanup(func() { _ = tx.Rollback(t.Context()) })

		return NewStore(tx)
	})

	t.Run("sweep", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStore(tx)
			require.NoError(t, s.Set(t.Context(), "v:1:auth.access", "a"))

			removed, err := s.Sweep(t.Context(), time.Now().Add(-time.Hour))
			require.NoError(t, err)
			require.EqualValues(t, 0, removed, "fresh records must stay")

			removed, err = s.Sweep(t.Context(), time.Now().Add(time.Hour))
			require.NoError(t, err)
			require.EqualValues(t, 1, removed)
		})
	})
}

func TestStore_Mock(t *testing.T) {
	newMock := func(t *testing.T) pgxmock.PgxPoolIface {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, mock.ExpectationsWereMet())
			mock.Close()
		})
		return mock
	}

	t.Run("get found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT value FROM kv_records").
			WithArgs("auth.access").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("token"))

		got, err := NewStore(mock).Get(t.Context(), "auth.access")

		require.NoError(t, err)
		require.Equal(t, "token", got)
	})

	t.Run("get missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT value FROM kv_records").
			WithArgs("auth.access").
			WillReturnRows(pgxmock.NewRows([]string{"value"}))

		_, err := NewStore(mock).Get(t.Context(), "auth.access")

		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})

	t.Run("set upserts", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO kv_records").
			WithArgs("prefs.language", `"en"`, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewStore(mock).Set(t.Context(), "prefs.language", `"en"`)

		require.NoError(t, err)
	})

	t.Run("sweep reports removed", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM kv_records").
			WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		removed, err := NewStore(mock).Sweep(t.Context(), time.Now())

		require.NoError(t, err)
		require.EqualValues(t, 3, removed)
	})

	t.Run("connection exception is storage unavailable", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM kv_records").
			WithArgs("auth.refresh").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})

		err := NewStore(mock).Delete(t.Context(), "auth.refresh")

		require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})

	t.Run("other errors are wrapped as is", func(t *testing.T) {
		mock := newMock(t)
		boom := errors.New("boom")
		mock.ExpectExec("INSERT INTO kv_records").
			WithArgs("k", "v", pgxmock.AnyArg()).
			WillReturnError(boom)

		err := NewStore(mock).Set(t.Context(), "k", "v")

		require.ErrorIs(t, err, boom)
		require.NotErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})
}
