package search_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Inventar/internal/search"
	"Inventar/internal/storage"
)

// gatedSearcher blocks each query until the test releases it.
type gatedSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedSearcher(queries ...string) *gatedSearcher {
	g := &gatedSearcher{gates: map[string]chan struct{}{}, started: make(chan string, len(queries))}
	for _, q := range queries {
		g.gates[q] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) Search(ctx context.Context, query string) search.Result {
	g.mu.Lock()
	gate := g.gates[query]
	g.mu.Unlock()

	g.started <- query
	if gate != nil {
		<-gate
	}
	return search.Result{Items: []search.Hit{{Titel: query}}, Categories: []search.Category{}}
}

func (g *gatedSearcher) release(q string) { close(g.gates[q]) }

type staticSearcher search.Result

func (s staticSearcher) Search(context.Context, string) search.Result { return search.Result(s) }

func TestSession_SupersededResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemKV()
	g := newGatedSearcher("old", "new")
	metrics := search.NewMetrics(prometheus.NewRegistry())
	s := search.NewSession(g, kv, zap.NewNop(), metrics)

	oldDone := make(chan search.Outcome, 1)
	go func() { oldDone <- s.Search(ctx, "old") }()
	require.Equal(t, "old", <-g.started)

	newDone := make(chan search.Outcome, 1)
	go func() { newDone <- s.Search(ctx, "new") }()
	require.Equal(t, "new", <-g.started)

	g.release("new")
	newOut := <-newDone
	assert.False(t, newOut.Stale)
	assert.Equal(t, uint64(2), newOut.Token)

	g.release("old")
	oldOut := <-oldDone
	assert.True(t, oldOut.Stale)
	assert.Equal(t, uint64(1), oldOut.Token)
	assert.Equal(t, "old", oldOut.Result.Items[0].Titel, "caller still gets its own response")

	last := s.Last()
	assert.Equal(t, "new", last.Query)
	assert.Equal(t, "new", last.Items[0].Titel)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Stale))

	restored := search.NewSession(g, kv, zap.NewNop(), nil).Restore(ctx)
	assert.Equal(t, "new", restored.Query)
}

func TestSession_OlderTokenLosesEvenIfNewerStillPending(t *testing.T) {
	ctx := context.Background()
	g := newGatedSearcher("a", "b")
	s := search.NewSession(g, storage.NewMemKV(), zap.NewNop(), nil)

	aDone := make(chan search.Outcome, 1)
	go func() { aDone <- s.Search(ctx, "a") }()
	<-g.started

	bDone := make(chan search.Outcome, 1)
	go func() { bDone <- s.Search(ctx, "b") }()
	<-g.started

	g.release("a")
	assert.True(t, (<-aDone).Stale)
	assert.Equal(t, "", s.Last().Query, "nothing applied yet")

	g.release("b")
	assert.False(t, (<-bDone).Stale)
	assert.Equal(t, "b", s.Last().Query)
}

func TestSession_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemKV()

	want := search.Result{
		Items:      []search.Hit{{Titel: "Lamp", Preis: "10", Foto: "x.jpg", Kategorie: "Lighting"}},
		Categories: []search.Category{"Lighting"},
	}
	s := search.NewSession(staticSearcher(want), kv, zap.NewNop(), nil)
	out := s.Search(ctx, "lamp")
	require.False(t, out.Stale)

	snap := search.NewSession(staticSearcher{}, kv, zap.NewNop(), nil).Restore(ctx)
	assert.Equal(t, search.Snapshot{Query: "lamp", Result: want}, snap)
}

func TestSession_RestoreFailsSoft(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemKV()
	require.NoError(t, kv.Put(ctx, storage.KeySearchSession, []byte(`[1,2,3]`)))

	s := search.NewSession(staticSearcher{}, kv, zap.NewNop(), nil)
	snap := s.Restore(ctx)
	assert.Equal(t, "", snap.Query)
	assert.Equal(t, search.EmptyResult(), snap.Result)
}

func TestSession_EmptyUpstreamNormalised(t *testing.T) {
	s := search.NewSession(staticSearcher{}, storage.NewMemKV(), zap.NewNop(), nil)
	out := s.Search(context.Background(), "q")
	assert.Equal(t, search.EmptyResult(), out.Result)
}
