package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funds-transfer/internal/errors"
)

type fakeExecutor struct{}

func (fakeExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, stderrors.New("not implemented")
}

func (fakeExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, stderrors.New("not implemented")
}

func (fakeExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type fakeTx struct {
	fakeExecutor
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return t.rollbackErr
}

type fakeConn struct {
	fakeExecutor
	tx       *fakeTx
	beginErr error
}

func (c *fakeConn) Begin(context.Context) (Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return c.tx, nil
}

func (c *fakeConn) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWithTransaction_Commits(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}}
	store := NewStore(conn, testLogger())

	var inner *Store
	err := store.WithTransaction(context.Background(), func(s *Store) error {
		inner = s
		return nil
	})

	require.NoError(t, err)
	assert.True(t, conn.tx.committed)
	assert.False(t, conn.tx.rolledBack)
	assert.Same(t, conn.tx, inner.executor)
}

func TestWithTransaction_RollsBackAndReturnsOriginalError(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}}
	store := NewStore(conn, testLogger())

	err := store.WithTransaction(context.Background(), func(*Store) error {
		return errors.ErrInsufficientFunds
	})

	assert.Same(t, errors.ErrInsufficientFunds, err)
	assert.True(t, conn.tx.rolledBack)
	assert.False(t, conn.tx.committed)
}

func TestWithTransaction_RollbackFailureIsInternal(t *testing.T) {
	rbErr := stderrors.New("connection lost")
	conn := &fakeConn{tx: &fakeTx{rollbackErr: rbErr}}
	store := NewStore(conn, testLogger())

	err := store.WithTransaction(context.Background(), func(*Store) error {
		return errors.ErrInvalidReceiver
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InternalError, appErr.Code)
	assert.ErrorIs(t, err, rbErr)
	assert.ErrorIs(t, err, errors.ErrInvalidReceiver)
	assert.Equal(t, errors.InternalError, errors.Classify(err).Code)
}

func TestWithTransaction_RollbackAfterTxDoneIsIgnored(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{rollbackErr: sql.ErrTxDone}}
	store := NewStore(conn, testLogger())

	err := store.WithTransaction(context.Background(), func(*Store) error {
		return errors.ErrInvalidSender
	})

	assert.Same(t, errors.ErrInvalidSender, err)
}

func TestWithTransaction_CommitFailureIsInternal(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{commitErr: stderrors.New("serialization failure")}}
	store := NewStore(conn, testLogger())

	err := store.WithTransaction(context.Background(), func(*Store) error { return nil })

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InternalError, appErr.Code)
}

func TestWithTransaction_BeginFailureIsInternal(t *testing.T) {
	conn := &fakeConn{beginErr: stderrors.New("bad connection")}
	store := NewStore(conn, testLogger())

	called := false
	err := store.WithTransaction(context.Background(), func(*Store) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.Equal(t, errors.InternalError, errors.Classify(err).Code)
}

func TestWithTransaction_PanicRollsBack(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}}
	store := NewStore(conn, testLogger())

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.WithTransaction(context.Background(), func(*Store) error {
			panic("boom")
		})
	})
	assert.True(t, conn.tx.rolledBack)
}

func TestWithTransaction_NestedIsRejected(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}}
	store := NewStore(conn, testLogger())

	err := store.WithTransaction(context.Background(), func(s *Store) error {
		return s.WithTransaction(context.Background(), func(*Store) error { return nil })
	})

	require.Error(t, err)
	assert.True(t, conn.tx.rolledBack)
}
