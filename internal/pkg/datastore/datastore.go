// Package datastore persists whole-file placement datasets in a remote,
// versioned object store.
package datastore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the object does not exist.
	ErrNotFound = errors.New("datastore: object not found")
	// ErrRevisionMismatch means a conditional write or delete lost a race.
	ErrRevisionMismatch = errors.New("datastore: revision mismatch")
	// ErrUnavailable wraps every transient backend failure.
	ErrUnavailable = errors.New("datastore: backend unavailable")
)

// Object is a stored file and the revision it was read at.
type Object struct {
	Path     string
	Data     []byte
	Revision string
}

// WriteOptions controls a single write.
type WriteOptions struct {
	// Message is recorded with the change where the backend supports it.
	Message string
	// ExpectedRevision makes the write conditional. Empty means overwrite.
	ExpectedRevision string
}

// Store reads and writes whole files by path. Every call is a single
// attempt; callers decide whether to retry.
type Store interface {
	// Read returns ErrNotFound when the path does not exist.
	Read(ctx context.Context, path string) (*Object, error)
	// Write creates or replaces path and returns the new revision.
	Write(ctx context.Context, path string, data []byte, opts WriteOptions) (string, error)
	// Delete returns ErrNotFound when the path does not exist.
	Delete(ctx context.Context, path string, message string) error
}

func unavailable(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, op, path, err)
}
