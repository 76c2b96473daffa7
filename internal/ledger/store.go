package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Inventar/internal/storage"
)

// Store keeps purchases ordered by datetime under storage.KeyPurchases and
// the set of buyer names seen so far under storage.KeyNames.
type Store struct {
	kv  storage.KV
	log *zap.Logger

	now    func() time.Time
	newKey func() string

	mu        sync.Mutex
	purchases []Purchase
	names     []string
}

func NewStore(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:        kv,
		log:       log,
		now:       time.Now,
		newKey:    uuid.NewString,
		purchases: []Purchase{},
		names:     []string{},
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

// Load reads both keys; unreadable values load as empty. Purchases stored
// without a key get one, and the list is written back so the keys survive a
// restart.
func (s *Store) Load(ctx context.Context) {
	var purchases []Purchase
	s.readJSON(ctx, storage.KeyPurchases, &purchases)
	var names []string
	s.readJSON(ctx, storage.KeyNames, &names)

	if purchases == nil {
		purchases = []Purchase{}
	}
	if names == nil {
		names = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keyed := 0
	for i := range purchases {
		if purchases[i].Key == "" {
			purchases[i].Key = s.newKey()
			keyed++
		}
	}
	sortByDatetime(purchases)

	s.purchases = purchases
	s.names = names

	if keyed > 0 {
		if err := s.commit(ctx, purchases); err != nil {
			s.log.Warn("persist assigned purchase keys failed", zap.Int("purchases", keyed), zap.Error(err))
		}
	}
}

func (s *Store) readJSON(ctx context.Context, key string, v any) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read ledger failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn("stored ledger unreadable, starting empty", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) List() []Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.purchases)
}

func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Add validates p, assigns a key and inserts it in datetime order. An empty
// datetime means now.
func (s *Store) Add(ctx context.Context, p Purchase) (Purchase, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Datetime == "" {
		p.Datetime = s.now().Format(DatetimeLayout)
	}
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.Key = s.newKey()
	next := append(slices.Clip(s.purchases), p)
	sortByDatetime(next)

	if err := s.commit(ctx, next); err != nil {
		return Purchase{}, err
	}
	s.rememberName(ctx, p.Name)
	return p, nil
}

// Update merges patch into the purchase with the given key.
func (s *Store) Update(ctx context.Context, key string, patch Patch) (Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return Purchase{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	p := s.purchases[i].apply(patch)
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}

	next := slices.Clone(s.purchases)
	next[i] = p
	sortByDatetime(next)

	if err := s.commit(ctx, next); err != nil {
		return Purchase{}, err
	}
	s.rememberName(ctx, p.Name)
	return p, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	next := slices.Delete(slices.Clone(s.purchases), i, i+1)
	return s.commit(ctx, next)
}

func (s *Store) indexOf(key string) int {
	return slices.IndexFunc(s.purchases, func(p Purchase) bool { return p.Key == key })
}

func (s *Store) commit(ctx context.Context, next []Purchase) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode purchases: %w", err)
	}
	if err := s.kv.Put(ctx, storage.KeyPurchases, raw); err != nil {
		return fmt.Errorf("write purchases: %w", err)
	}
	s.purchases = next
	return nil
}

// rememberName is best effort: the purchase is already stored.
func (s *Store) rememberName(ctx context.Context, name string) {
	if slices.Contains(s.names, name) {
		return
	}

	next := append(slices.Clip(s.names), name)
	raw, err := json.Marshal(next)
	if err == nil {
		err = s.kv.Put(ctx, storage.KeyNames, raw)
	}
	if err != nil {
		s.log.Warn("write names list failed", zap.String("name", name), zap.Error(err))
		return
	}
	s.names = next
}

func sortByDatetime(ps []Purchase) {
	slices.SortStableFunc(ps, func(a, b Purchase) int { return strings.Compare(a.Datetime, b.Datetime) })
}
