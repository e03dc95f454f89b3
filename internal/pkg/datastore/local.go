package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/yigit/hirelytics/internal/pkg/logger"
)

// LocalStore keeps datasets as files under a base directory. The revision
// of a file is the SHA-256 of its content.
type LocalStore struct {
	basePath string
	mu       sync.Mutex
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) fullPath(path string) (string, error) {
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return filepath.Join(s.basePath, path), nil
}

func (s *LocalStore) Read(ctx context.Context, path string) (*Object, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("read", path, err)
	}
	return &Object{Path: path, Data: data, Revision: contentRevision(data)}, nil
}

func (s *LocalStore) Write(ctx context.Context, path string, data []byte, opts WriteOptions) (string, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.ExpectedRevision != "" {
		current, err := os.ReadFile(full)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && contentRevision(current) != opts.ExpectedRevision) {
			return "", ErrRevisionMismatch
		}
		if err != nil {
			return "", unavailable("write", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", unavailable("write", path, err)
	}

	// Write to a sibling temp file and rename so readers never see a partial file.
	tmp := full + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", unavailable("write", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", unavailable("write", path, err)
	}

	logger.Debug().Str("path", path).Str("message", opts.Message).Int("bytes", len(data)).Msg("Object written")
	return contentRevision(data), nil
}

func (s *LocalStore) Delete(ctx context.Context, path string, message string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return unavailable("delete", path, err)
	}

	logger.Debug().Str("path", path).Str("message", message).Msg("Object deleted")
	return nil
}

func contentRevision(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
