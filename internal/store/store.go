// Package store persists named simulation snapshots. Every backend keeps the
// same semantics: saving a title that already exists updates that snapshot in
// place, new snapshots go first, and only the most recent ones are kept.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/pkg/constants"
)

var (
	// ErrNotFound is returned when no snapshot has the requested ID.
	ErrNotFound = errors.New("simulation not found")
	// ErrEmptyTitle is returned when saving inputs without a title.
	ErrEmptyTitle = errors.New("simulation title is required")
)

// Snapshot is a saved set of acquisition inputs.
type Snapshot struct {
	ID        string             `json:"id"`
	Inputs    acquisition.Inputs `json:"inputs"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Store is implemented by every snapshot backend.
type Store interface {
	// List returns the snapshots, newest first. Blob backends update a
	// snapshot in place; Postgres orders by last update.
	List(ctx context.Context) ([]Snapshot, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	// Save upserts by title.
	Save(ctx context.Context, in acquisition.Inputs) (Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a snapshot identifier.
func NewID() string {
	return constants.SnapshotIDPrefix + uuid.NewString()
}

// Option customizes a backend.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
	limit int
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithLimit changes how many snapshots are kept.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: NewID,
		limit: constants.MaxSavedSimulations,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validTitle(in acquisition.Inputs) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// upsert applies a save to a snapshot list and returns the new list, capped
// at limit, along with the saved snapshot.
func upsert(list []Snapshot, in acquisition.Inputs, o options) ([]Snapshot, Snapshot) {
	now := o.now().UTC()
	for i, existing := range list {
		if existing.Inputs.Title == in.Title {
			existing.Inputs = in
			existing.UpdatedAt = now
			updated := append([]Snapshot(nil), list...)
			updated[i] = existing
			return capped(updated, o.limit), existing
		}
	}

	saved := Snapshot{
		ID:        o.newID(),
		Inputs:    in,
		CreatedAt: now,
		UpdatedAt: now,
	}
	updated := append([]Snapshot{saved}, list...)
	return capped(updated, o.limit), saved
}

func capped(list []Snapshot, limit int) []Snapshot {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

func find(list []Snapshot, id string) (Snapshot, error) {
	for _, snapshot := range list {
		if snapshot.ID == id {
			return snapshot, nil
		}
	}
	return Snapshot{}, ErrNotFound
}

func remove(list []Snapshot, id string) []Snapshot {
	filtered := make([]Snapshot, 0, len(list))
	for _, snapshot := range list {
		if snapshot.ID != id {
			filtered = append(filtered, snapshot)
		}
	}
	return filtered
}
