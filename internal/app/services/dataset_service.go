package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/dataset"
	"github.com/yigit/hirelytics/internal/pkg/datastore"
	"github.com/yigit/hirelytics/internal/pkg/events"
	"github.com/yigit/hirelytics/internal/pkg/helpers"
)

// Commit messages recorded with dataset changes.
const (
	uploadMessage = "Update placement data"
	deleteMessage = "Delete placement data"
)

// formats in lookup order: CSV wins when both files exist.
var formats = []domain.SourceFormat{domain.FormatCSV, domain.FormatXLSX}

// DatasetService loads and replaces college datasets in the data store.
type DatasetService struct {
	store     datastore.Store
	publisher events.Publisher
	logger    zerolog.Logger
	locks     sync.Map
	now       func() time.Time
}

// NewDatasetService creates a new DatasetService
func NewDatasetService(store datastore.Store, publisher events.Publisher, logger zerolog.Logger) *DatasetService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &DatasetService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// lock serializes writers of one college.
func (s *DatasetService) lock(code string) func() {
	value, _ := s.locks.LoadOrStore(code, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// readActive returns the stored object that backs the college dataset.
func (s *DatasetService) readActive(ctx context.Context, code string) (*datastore.Object, domain.SourceFormat, error) {
	for _, format := range formats {
		obj, err := s.store.Read(ctx, dataset.ObjectPath(code, format))
		if err == nil {
			return obj, format, nil
		}
		if !errors.Is(err, datastore.ErrNotFound) {
			return nil, "", storeError(err)
		}
	}
	return nil, "", apperrors.ErrDatasetNotFound
}

// Load reads and normalizes the dataset of a college.
func (s *DatasetService) Load(ctx context.Context, code string) (*domain.Dataset, *domain.DatasetMeta, error) {
	obj, format, err := s.readActive(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	ds, err := dataset.Parse(code, format, obj.Data)
	if err != nil {
		s.logger.Warn().Err(err).Str("college", code).Str("path", obj.Path).Msg("Stored dataset is invalid")
		return nil, nil, err
	}

	return ds, &domain.DatasetMeta{
		CollegeCode: code,
		Path:        obj.Path,
		Format:      format,
		Revision:    obj.Revision,
		Rows:        ds.Len(),
		LoadedAt:    s.now().UTC(),
	}, nil
}

// Exists reports whether the college has a stored dataset file.
func (s *DatasetService) Exists(ctx context.Context, code string) (bool, error) {
	_, _, err := s.readActive(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrDatasetNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Preview returns the dataset metadata and one page of records.
func (s *DatasetService) Preview(ctx context.Context, code string, page, size int) (*dto.DatasetResponse, error) {
	ds, meta, err := s.Load(ctx, code)
	if err != nil {
		return nil, err
	}

	rows, pagination := helpers.Paginate(ds.Records, page, size)
	return &dto.DatasetResponse{
		Meta:       *meta,
		Columns:    append([]string(nil), domain.RequiredColumns...),
		Rows:       rows,
		Pagination: pagination,
	}, nil
}

// Upload validates file and replaces the college dataset with it. Nothing is
// written unless the whole file normalizes. A non-empty expectedRevision must
// match the revision of the currently active dataset.
func (s *DatasetService) Upload(ctx context.Context, actor, code string, file domain.UploadedFile, expectedRevision string) (*domain.DatasetMeta, error) {
	format, err := dataset.FormatFromFilename(file.FileName)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Parse(code, format, file.Data)
	if err != nil {
		return nil, err
	}

	encoded, err := dataset.Encode(format, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}

	unlock := s.lock(code)
	defer unlock()

	active, _, err := s.readActive(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrDatasetNotFound) {
		return nil, err
	}
	if expectedRevision != "" && (active == nil || active.Revision != expectedRevision) {
		return nil, apperrors.ErrRevisionConflict
	}

	path := dataset.ObjectPath(code, format)
	previous := active
	if active == nil || active.Path != path {
		if previous, err = s.readOptional(ctx, path); err != nil {
			return nil, err
		}
	}

	opts := datastore.WriteOptions{Message: uploadMessage}
	if previous != nil {
		opts.ExpectedRevision = previous.Revision
	}

	revision, err := s.store.Write(ctx, path, encoded, opts)
	if err != nil {
		return nil, storeError(err)
	}

	// A leftover file in another format may shadow this upload.
	if err := s.removeSuperseded(ctx, code, format); err != nil {
		s.restore(ctx, path, previous, revision)
		return nil, storeError(err)
	}

	meta := &domain.DatasetMeta{
		CollegeCode: code,
		Path:        path,
		Format:      format,
		Revision:    revision,
		Rows:        ds.Len(),
		LoadedAt:    s.now().UTC(),
	}

	s.logger.Info().Str("college", code).Str("path", path).Int("rows", meta.Rows).Str("actor", actor).Msg("Dataset uploaded")

	ev := events.New(events.DatasetUploaded, code, path)
	ev.Revision = revision
	ev.Rows = meta.Rows
	ev.Actor = actor
	s.publish(ctx, ev)

	return meta, nil
}

// readOptional reads path, returning nil when it does not exist.
func (s *DatasetService) readOptional(ctx context.Context, path string) (*datastore.Object, error) {
	obj, err := s.store.Read(ctx, path)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return obj, nil
}

func (s *DatasetService) removeSuperseded(ctx context.Context, code string, keep domain.SourceFormat) error {
	for _, other := range formats {
		if other == keep {
			continue
		}
		err := s.store.Delete(ctx, dataset.ObjectPath(code, other), uploadMessage)
		if err != nil && !errors.Is(err, datastore.ErrNotFound) {
			return err
		}
	}
	return nil
}

// restore puts path back the way it was before a failed upload. previous is
// nil when the path did not exist.
func (s *DatasetService) restore(ctx context.Context, path string, previous *datastore.Object, revision string) {
	var err error
	if previous == nil {
		err = s.store.Delete(ctx, path, uploadMessage)
	} else {
		_, err = s.store.Write(ctx, path, previous.Data, datastore.WriteOptions{
			Message:          uploadMessage,
			ExpectedRevision: revision,
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to roll back dataset upload")
	}
}

// Delete removes every stored format of the college dataset.
func (s *DatasetService) Delete(ctx context.Context, actor, code string) error {
	unlock := s.lock(code)
	defer unlock()

	deleted := 0
	for _, format := range formats {
		path := dataset.ObjectPath(code, format)
		err := s.store.Delete(ctx, path, deleteMessage)
		switch {
		case err == nil:
			deleted++
			ev := events.New(events.DatasetDeleted, code, path)
			ev.Actor = actor
			s.publish(ctx, ev)
		case errors.Is(err, datastore.ErrNotFound):
		default:
			return storeError(err)
		}
	}

	if deleted == 0 {
		return apperrors.ErrDatasetNotFound
	}

	s.logger.Info().Str("college", code).Str("actor", actor).Int("files", deleted).Msg("Dataset deleted")
	return nil
}

// Template returns the empty XLSX upload template.
func (s *DatasetService) Template() ([]byte, error) {
	return dataset.Template()
}

func (s *DatasetService) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", string(ev.Type)).Str("college", ev.CollegeCode).Msg("Failed to publish dataset event")
	}
}

// storeError translates datastore failures into application errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		return apperrors.ErrDatasetNotFound
	case errors.Is(err, datastore.ErrRevisionMismatch):
		return fmt.Errorf("%w: %w", apperrors.ErrRevisionConflict, err)
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
}
