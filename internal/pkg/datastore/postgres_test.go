package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	data     []byte
	revision string
	err      error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	*dest[1].(*string) = r.revision
	return nil
}

// fakeQuerier answers every query with a fixed row and every statement with
// a fixed command tag, recording what it was sent.
type fakeQuerier struct {
	row     fakeRow
	tag     string
	execErr error

	sql  string
	args []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	if q.execErr != nil {
		return pgconn.CommandTag{}, q.execErr
	}
	return pgconn.NewCommandTag(q.tag), nil
}

func TestPostgresStoreRead(t *testing.T) {
	ctx := context.Background()

	db := &fakeQuerier{row: fakeRow{data: []byte("CGPA\n8\n"), revision: "rev-1"}}
	obj, err := NewPostgresStore(db).Read(ctx, "placement_data_A1.csv")
	require.NoError(t, err)
	assert.Equal(t, &Object{Path: "placement_data_A1.csv", Data: []byte("CGPA\n8\n"), Revision: "rev-1"}, obj)
	assert.Equal(t, []any{"placement_data_A1.csv"}, db.args)

	db = &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	_, err = NewPostgresStore(db).Read(ctx, "placement_data_A1.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	db = &fakeQuerier{row: fakeRow{err: errors.New("connection reset")}}
	_, err = NewPostgresStore(db).Read(ctx, "placement_data_A1.csv")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStoreWrite(t *testing.T) {
	ctx := context.Background()

	db := &fakeQuerier{tag: "INSERT 0 1"}
	rev, err := NewPostgresStore(db).Write(ctx, "placement_data_A1.csv", []byte("x"), WriteOptions{Message: "Update placement data"})
	require.NoError(t, err)
	assert.NotEmpty(t, rev)
	assert.Contains(t, db.sql, "ON CONFLICT (path)")
	assert.Equal(t, []any{"placement_data_A1.csv", []byte("x"), rev, "Update placement data"}, db.args)

	db = &fakeQuerier{tag: "UPDATE 1"}
	next, err := NewPostgresStore(db).Write(ctx, "placement_data_A1.csv", []byte("y"), WriteOptions{ExpectedRevision: rev})
	require.NoError(t, err)
	assert.NotEqual(t, rev, next)
	assert.Equal(t, rev, db.args[4])

	db = &fakeQuerier{tag: "UPDATE 0"}
	_, err = NewPostgresStore(db).Write(ctx, "placement_data_A1.csv", []byte("z"), WriteOptions{ExpectedRevision: "stale"})
	assert.True(t, errors.Is(err, ErrRevisionMismatch))

	db = &fakeQuerier{execErr: errors.New("connection reset")}
	_, err = NewPostgresStore(db).Write(ctx, "placement_data_A1.csv", []byte("z"), WriteOptions{})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPostgresStoreDelete(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewPostgresStore(&fakeQuerier{tag: "DELETE 1"}).Delete(ctx, "placement_data_A1.csv", "Delete placement data"))
	assert.True(t, errors.Is(NewPostgresStore(&fakeQuerier{tag: "DELETE 0"}).Delete(ctx, "placement_data_A1.csv", ""), ErrNotFound))

	err := NewPostgresStore(&fakeQuerier{execErr: errors.New("connection reset")}).Delete(ctx, "placement_data_A1.csv", "")
	assert.True(t, errors.Is(err, ErrUnavailable))
}
