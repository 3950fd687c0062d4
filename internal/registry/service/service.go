// Package service implements the registry use cases: validated CRUD on death
// and birth records and on dimension rows, with the delete guard that keeps
// referenced dimension rows in place.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"etatcivil/internal/registry/filter"
	registrymetrics "etatcivil/internal/registry/metrics"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/registry/store"
	dErrors "etatcivil/pkg/domain-errors"
	audit "etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

// Store is the persistence the registry needs. Implemented by store.InMemory
// and store.PostgresStore.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateDeath(ctx context.Context, d *models.Death) error
	UpdateDeath(ctx context.Context, d *models.Death) error
	DeleteDeath(ctx context.Context, id int64) error
	FindDeath(ctx context.Context, id int64) (*models.Death, error)
	ListDeaths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Death, int, error)

	CreateBirth(ctx context.Context, b *models.Birth) error
	UpdateBirth(ctx context.Context, b *models.Birth) error
	DeleteBirth(ctx context.Context, id int64) error
	FindBirth(ctx context.Context, id int64) (*models.Birth, error)
	ListBirths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Birth, int, error)

	NextActNumber(ctx context.Context, kind models.FactKind) (int64, error)
	ActNumberTaken(ctx context.Context, kind models.FactKind, act, exceptID int64) (bool, error)

	CreateDimension(ctx context.Context, d *models.Dimension) error
	UpdateDimension(ctx context.Context, d *models.Dimension) error
	FindDimension(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error)
	CodeTaken(ctx context.Context, kind models.DimensionKind, code string, exceptID int64) (bool, error)
	NextCodeSequence(ctx context.Context, kind models.DimensionKind, parentID *int64) (int64, error)
	ListDimensions(ctx context.Context, q models.DimensionQuery) ([]models.DimensionSummary, int, error)
	DeleteDimension(ctx context.Context, kind models.DimensionKind, id int64, guard store.DeleteGuard) (models.DeleteCheck, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CacheInvalidator drops cached report bundles after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service orchestrates registry writes and reads.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	invalidator    CacheInvalidator
	metrics        *registrymetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithCacheInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(st Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("registry store is required")
	}
	s := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// emit publishes an audit event. A failing publisher fails the write so the
// trail stays complete; it runs inside the write transaction.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, subject string, id int64, reason string) error {
	if s.auditPublisher == nil {
		return nil
	}
	event := audit.NewEvent(ctx, action, subject, id)
	event.Reason = reason
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// invalidate is best effort: stale reports are bounded by the cache TTL.
func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate report cache",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) recordWritten(kind models.FactKind, op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.IncrementRecordWritten(string(kind), op)
		s.metrics.ObserveWrite(string(kind)+"_"+op, start)
	}
}

func (s *Service) dimensionWritten(kind models.DimensionKind, op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.IncrementDimensionWrite(string(kind), op)
		s.metrics.ObserveWrite("dimension_"+op, start)
	}
}

func (s *Service) deleteBlocked(kind models.DimensionKind) {
	if s.metrics != nil {
		s.metrics.IncrementDeleteBlocked(string(kind))
	}
}

// translate maps store sentinels to coded errors. Already-coded errors pass
// through untouched.
func translate(err error, notFound, action string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFound)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "conflit d'écriture: "+action)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}
