// Package events publishes dataset change notifications.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type names a dataset change. It doubles as the AMQP routing key.
type Type string

const (
	DatasetUploaded Type = "dataset.uploaded"
	DatasetDeleted  Type = "dataset.deleted"
)

// Event describes one committed dataset change.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	CollegeCode string    `json:"collegeCode"`
	Path        string    `json:"path"`
	Revision    string    `json:"revision,omitempty"`
	Rows        int       `json:"rows,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type, collegeCode, path string) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		CollegeCode: collegeCode,
		Path:        path,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// Fanout publishes every event to each of its publishers.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
