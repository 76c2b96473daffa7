package search

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"Inventar/internal/storage"
)

// Snapshot is the last applied search, as persisted under
// storage.KeySearchSession.
type Snapshot struct {
	Query string `json:"query"`
	Result
}

type Outcome struct {
	Token  uint64
	Stale  bool
	Result Result
}

// Session sequences searches. Each call takes the next token; when its
// response arrives only the holder of the latest token may replace the
// stored snapshot. Older responses go back to their caller marked Stale.
type Session struct {
	searcher Searcher
	kv       storage.KV
	log      *zap.Logger
	metrics  *Metrics

	mu     sync.Mutex
	issued uint64
	last   Snapshot
}

func NewSession(searcher Searcher, kv storage.KV, log *zap.Logger, metrics *Metrics) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		searcher: searcher,
		kv:       kv,
		log:      log,
		metrics:  metrics,
		last:     Snapshot{Result: EmptyResult()},
	}
}

func (s *Session) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

// Restore loads the persisted snapshot. Anything unreadable restores as empty.
func (s *Session) Restore(ctx context.Context) Snapshot {
	snap := Snapshot{Result: EmptyResult()}

	raw, ok, err := s.kv.Get(ctx, storage.KeySearchSession)
	switch {
	case err != nil:
		s.log.Warn("read search session failed", zap.Error(err))
	case ok:
		var stored Snapshot
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.log.Warn("stored search session unreadable", zap.Error(err))
			break
		}
		stored.Result = stored.Result.normalized()
		snap = stored
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	return snap
}

func (s *Session) Last() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) Search(ctx context.Context, query string) Outcome {
	s.mu.Lock()
	s.issued++
	tok := s.issued
	s.mu.Unlock()

	res := s.searcher.Search(ctx, query).normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.issued {
		s.metrics.stale()
		s.log.Debug("discarding superseded search",
			zap.Uint64("token", tok), zap.Uint64("latest", s.issued), zap.String("query", query))
		return Outcome{Token: tok, Stale: true, Result: res}
	}

	snap := Snapshot{Query: query, Result: res}
	s.last = snap
	s.persist(ctx, snap)
	return Outcome{Token: tok, Result: res}
}

// persist runs under s.mu so snapshots reach the KV in token order.
func (s *Session) persist(ctx context.Context, snap Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("encode search session failed", zap.Error(err))
		return
	}
	if err := s.kv.Put(ctx, storage.KeySearchSession, raw); err != nil {
		s.log.Warn("write search session failed", zap.Error(err))
	}
}
