package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"go.uber.org/zap"
)

// blob is a single value holding the whole snapshot list as JSON.
type blob interface {
	// load returns nil data when nothing was stored yet.
	load(ctx context.Context) ([]byte, error)
	store(ctx context.Context, data []byte) error
	close() error
	describe() string
}

// listStore implements Store over a blob. Deleting an unknown ID is a no-op.
type listStore struct {
	mu     sync.Mutex
	blob   blob
	opts   options
	logger *zap.Logger
}

func newListStore(b blob, logger *zap.Logger, opts []Option) *listStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &listStore{blob: b, opts: newOptions(opts), logger: logger}
}

// read decodes the list. Undecodable data is treated as an empty list so a
// corrupted value never locks users out.
func (s *listStore) read(ctx context.Context) ([]Snapshot, error) {
	data, err := s.blob.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulations from %s: %w", s.blob.describe(), err)
	}
	if len(data) == 0 {
		return []Snapshot{}, nil
	}

	var list []Snapshot
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("discarding unreadable simulations",
			zap.String("op", "store.read"),
			zap.String("source", s.blob.describe()),
			zap.Error(err),
		)
		return []Snapshot{}, nil
	}
	return list, nil
}

func (s *listStore) write(ctx context.Context, list []Snapshot) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode simulations: %w", err)
	}
	if err := s.blob.store(ctx, data); err != nil {
		return fmt.Errorf("failed to write simulations to %s: %w", s.blob.describe(), err)
	}
	return nil
}

func (s *listStore) List(ctx context.Context) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *listStore) Get(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.read(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return find(list, id)
}

func (s *listStore) Save(ctx context.Context, in acquisition.Inputs) (Snapshot, error) {
	if err := validTitle(in); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.read(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	updated, saved := upsert(list, in, s.opts)
	if err := s.write(ctx, updated); err != nil {
		return Snapshot{}, err
	}

	s.logger.Debug(fmt.Sprintf("saved simulation %s", saved.Inputs.Title),
		zap.String("op", "store.Save"),
		zap.String("id", saved.ID),
		zap.Int("count", len(updated)),
	)
	return saved, nil
}

func (s *listStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.read(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, remove(list, id))
}

func (s *listStore) Close() error {
	return s.blob.close()
}
