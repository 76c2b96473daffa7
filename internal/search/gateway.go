package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxResponseBytes = 8 << 20
	tracerName       = "Inventar/search"
)

var (
	ErrUpstreamUnavailable = errors.New("search upstream unavailable")
	ErrUpstreamBadStatus   = errors.New("search upstream bad status")
	ErrUpstreamBadBody     = errors.New("search upstream bad body")
)

type Searcher interface {
	Search(ctx context.Context, query string) Result
}

// Gateway calls GET <BaseURL>/search/?query=... once per search. It never
// retries. A zero Client, Log or tracer falls back to http.DefaultClient, a
// no-op logger and the global tracer provider.
type Gateway struct {
	BaseURL string
	Client  *http.Client
	Log     *zap.Logger
	Metrics *Metrics

	tracer trace.Tracer
}

func NewGateway(baseURL string, timeout time.Duration, log *zap.Logger) *Gateway {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// Search returns the upstream result, or an empty one when anything goes
// wrong. Failures only reach the log.
func (g *Gateway) Search(ctx context.Context, query string) Result {
	res, err := g.Fetch(ctx, query)
	if err != nil {
		g.logger().Warn("search failed", zap.String("query", query), zap.Error(err))
		return EmptyResult()
	}
	return res
}

func (g *Gateway) Fetch(ctx context.Context, query string) (Result, error) {
	ctx, span := g.startTracer().Start(ctx, "search.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("search.query", query)),
	)
	defer span.End()

	res, outcome, err := g.fetch(ctx, query)
	g.Metrics.upstream(outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int("search.items", len(res.Items)),
		attribute.Int("search.categories", len(res.Categories)),
	)
	return res, nil
}

func (g *Gateway) fetch(ctx context.Context, query string) (Result, string, error) {
	u := g.BaseURL + "/search/?" + url.Values{"query": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, outcomeUnavailable, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		return Result{}, outcomeUnavailable, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Result{}, outcomeBadStatus, fmt.Errorf("%w: status=%d", ErrUpstreamBadStatus, resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&res); err != nil {
		return Result{}, outcomeBadBody, fmt.Errorf("%w: %v", ErrUpstreamBadBody, err)
	}
	return res.normalized(), outcomeOK, nil
}

func (g *Gateway) client() *http.Client {
	if g.Client == nil {
		return http.DefaultClient
	}
	return g.Client
}

func (g *Gateway) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

func (g *Gateway) startTracer() trace.Tracer {
	if g.tracer == nil {
		return otel.Tracer(tracerName)
	}
	return g.tracer
}
