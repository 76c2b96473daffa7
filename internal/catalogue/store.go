package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"Inventar/internal/storage"
)

// Store holds the catalogue in insertion order and writes the whole sequence
// to the KV under storage.KeyItems after every change.
type Store struct {
	kv  storage.KV
	log *zap.Logger

	mu    sync.Mutex
	items []Item
}

func NewStore(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log, items: []Item{}}
}

func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

// Load replaces the in-memory catalogue with the stored one. A missing or
// unreadable value yields an empty catalogue.
func (s *Store) Load(ctx context.Context) []Item {
	items := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return slices.Clone(items)
}

func (s *Store) read(ctx context.Context) []Item {
	raw, ok, err := s.kv.Get(ctx, storage.KeyItems)
	if err != nil {
		s.log.Warn("read catalogue failed", zap.Error(err))
		return []Item{}
	}
	if !ok {
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn("stored catalogue unreadable, starting empty", zap.Error(err))
		return []Item{}
	}
	if items == nil {
		return []Item{}
	}
	return items
}

func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Add appends it and persists. A model number that already exists is kept as
// a second entry.
func (s *Store) Add(ctx context.Context, it Item) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.items, func(x Item) bool { return x.ModelNumber == it.ModelNumber }) {
		s.log.Warn("duplicate model number added", zap.String("model_number", string(it.ModelNumber)))
	}

	next := append(slices.Clip(s.items), it)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.items = next
	return slices.Clone(next), nil
}

// Update replaces every entry whose model number equals it.ModelNumber with it.
// No match leaves the catalogue as is; it is persisted either way.
func (s *Store) Update(ctx context.Context, it Item) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.items)
	matched := 0
	for i := range next {
		if next[i].ModelNumber == it.ModelNumber {
			next[i] = it
			matched++
		}
	}
	if matched == 0 {
		s.log.Debug("update matched no item", zap.String("model_number", string(it.ModelNumber)))
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.items = next
	return slices.Clone(next), nil
}

func (s *Store) persist(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalogue: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyItems, raw); err != nil {
		return fmt.Errorf("write catalogue: %w", err)
	}
	return nil
}
