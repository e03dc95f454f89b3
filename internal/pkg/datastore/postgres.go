package datastore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps datasets in the dataset_files table. Every write
// assigns a fresh revision id.
type PostgresStore struct {
	db PgxQuerier
}

func NewPostgresStore(db PgxQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Read(ctx context.Context, path string) (*Object, error) {
	obj := &Object{Path: path}
	err := s.db.QueryRow(ctx,
		`SELECT content, revision FROM dataset_files WHERE path = $1`, path,
	).Scan(&obj.Data, &obj.Revision)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("read", path, err)
	}
	return obj, nil
}

func (s *PostgresStore) Write(ctx context.Context, path string, data []byte, opts WriteOptions) (string, error) {
	revision := uuid.NewString()

	if opts.ExpectedRevision == "" {
		_, err := s.db.Exec(ctx, `
			INSERT INTO dataset_files (path, content, revision, message, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (path) DO UPDATE
			SET content = EXCLUDED.content,
			    revision = EXCLUDED.revision,
			    message = EXCLUDED.message,
			    updated_at = NOW()`,
			path, data, revision, opts.Message)
		if err != nil {
			return "", unavailable("write", path, err)
		}
		return revision, nil
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE dataset_files
		SET content = $2, revision = $3, message = $4, updated_at = NOW()
		WHERE path = $1 AND revision = $5`,
		path, data, revision, opts.Message, opts.ExpectedRevision)
	if err != nil {
		return "", unavailable("write", path, err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrRevisionMismatch
	}
	return revision, nil
}

func (s *PostgresStore) Delete(ctx context.Context, path string, message string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM dataset_files WHERE path = $1`, path)
	if err != nil {
		return unavailable("delete", path, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
