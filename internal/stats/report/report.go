// Package report assembles the statistics bundles served by the API: the
// dashboard, per-region and per-district statistics, comparisons and the
// single-series views.
//
// Each bundle loads a snapshot of fact records through Source, runs the pure
// aggregations of internal/stats/aggregate over it and returns a serialisable
// value. Independent loads run concurrently; the first failure aborts the
// bundle. Bundles are cached through Cache when one is configured.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	statsmetrics "etatcivil/internal/stats/metrics"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

// Source is the read side of the record store. Implemented by store.InMemory
// and store.PostgresStore.
type Source interface {
	Deaths(ctx context.Context, c filter.Criteria) ([]models.Death, error)
	Births(ctx context.Context, c filter.Criteria) ([]models.Birth, error)
	CountDeaths(ctx context.Context, c filter.Criteria) (int, error)
	CountBirths(ctx context.Context, c filter.Criteria) (int, error)
	FindDimension(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error)
	DimensionsByIDs(ctx context.Context, kind models.DimensionKind, ids []int64) ([]models.Dimension, error)
	CountDimensions(ctx context.Context, kind models.DimensionKind) (int, error)
	ListDimensions(ctx context.Context, q models.DimensionQuery) ([]models.DimensionSummary, int, error)
}

// Cache stores finished bundles. Get decodes a hit into dst.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Reporter builds report bundles.
type Reporter struct {
	source  Source
	cache   Cache
	logger  *slog.Logger
	metrics *statsmetrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Reporter)

func WithCache(c Cache) Option {
	return func(r *Reporter) {
		r.cache = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

func WithMetrics(m *statsmetrics.Metrics) Option {
	return func(r *Reporter) {
		r.metrics = m
	}
}

// WithTracer overrides the global "etatcivil/stats" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Reporter) {
		r.tracer = t
	}
}

// New constructs a Reporter over source.
func New(source Source, opts ...Option) (*Reporter, error) {
	if source == nil {
		return nil, errors.New("report source is required")
	}
	r := &Reporter{
		source: source,
		logger: slog.Default(),
		tracer: otel.Tracer("etatcivil/stats"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Scope narrows a bundle to one year and one part of the territory. AsOf is
// the instant the request is evaluated at.
type Scope struct {
	Year       *int
	RegionID   *int64
	DistrictID *int64
	AsOf       time.Time
}

// ScopeFromQuery reads annee, region_id and district_id. Invalid values are
// ignored, as they are for listings.
func ScopeFromQuery(ctx context.Context, q url.Values) Scope {
	c := filter.FromQuery(q)
	return Scope{
		Year:       c.Year,
		RegionID:   c.RegionID,
		DistrictID: c.DistrictID,
		AsOf:       requestcontext.Now(ctx),
	}
}

// Applied returns the scope criteria that are set, keyed by query parameter.
func (s Scope) Applied() map[string]any {
	return s.criteria().Applied()
}

func (s Scope) geo() filter.Criteria {
	return filter.Criteria{RegionID: s.RegionID, DistrictID: s.DistrictID}
}

func (s Scope) criteria() filter.Criteria {
	c := s.geo()
	c.Year = s.Year
	return c
}

// cacheKey renders a deterministic key for name and the given criteria.
// encoding/json sorts map keys.
func cacheKey(name string, c filter.Criteria, extra ...string) string {
	applied, _ := json.Marshal(c.Applied())
	parts := append([]string{name, string(applied)}, extra...)
	return strings.Join(parts, ":")
}

// cached returns the bundle under key, building and storing it on a miss.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, r *Reporter, report, key string, build func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	defer r.metrics.ObserveReport(report, start)

	ctx, span := r.tracer.Start(ctx, "report."+report, trace.WithAttributes(
		attribute.String("report.name", report),
		attribute.String("report.key", key),
	))
	defer span.End()

	var out T
	if r.cache != nil {
		hit, err := r.cache.Get(ctx, key, &out)
		switch {
		case err != nil:
			r.metrics.IncrementCacheLookup(report, "error")
			r.logger.WarnContext(ctx, "report cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"report", report,
				"error", err,
			)
		case hit:
			r.metrics.IncrementCacheLookup(report, "hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return out, nil
		default:
			r.metrics.IncrementCacheLookup(report, "miss")
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	built, err := build(ctx)
	if err != nil {
		r.metrics.IncrementFailure(report)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var zero T
		return zero, err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, built); err != nil {
			r.logger.WarnContext(ctx, "report cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"report", report,
				"error", err,
			)
		}
	}
	r.logger.InfoContext(ctx, "report built",
		"request_id", requestcontext.RequestID(ctx),
		"report", report,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return built, nil
}

// failed wraps a load error for the bundle named report. Coded errors pass
// through.
func failed(err error, report string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build "+report)
}

// findEntity loads the subject of an entity bundle.
func (r *Reporter) findEntity(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error) {
	d, err := r.source.FindDimension(ctx, kind, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, notFoundMessage(kind))
	}
	if err != nil {
		return nil, failed(err, string(kind)+" statistics")
	}
	return d, nil
}

func notFoundMessage(kind models.DimensionKind) string {
	label := kind.Singular()
	return strings.ToUpper(label[:1]) + label[1:] + " non trouvé(e)"
}

// labels maps the ids of kind to their libelle. Lookups with no ids skip the
// store.
func (r *Reporter) labels(ctx context.Context, kind models.DimensionKind, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.source.DimensionsByIDs(ctx, kind, ids)
	if err != nil {
		return nil, fmt.Errorf("loading %s labels: %w", kind, err)
	}
	for _, d := range rows {
		out[d.ID] = d.Label
	}
	return out, nil
}

func idPart(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
