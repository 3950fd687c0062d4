// Package handler exposes the statistics bundles over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/stats/aggregate"
	"etatcivil/internal/stats/report"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/httputil"
	"etatcivil/pkg/requestcontext"
)

// Reporter is the statistics surface the handlers need.
type Reporter interface {
	Dashboard(ctx context.Context, scope report.Scope) (*report.Dashboard, error)
	RegionStatistics(ctx context.Context, id int64, scope report.Scope) (*report.EntityStatistics, error)
	DistrictStatistics(ctx context.Context, id int64, scope report.Scope) (*report.EntityStatistics, error)
	CompareRegions(ctx context.Context, ids []int64, year *int) (*aggregate.Comparison, error)
	CompareDistricts(ctx context.Context, ids []int64, year *int) (*aggregate.Comparison, error)

	DeathsByYear(ctx context.Context, c filter.Criteria) ([]report.YearCount, error)
	BirthsByYear(ctx context.Context, c filter.Criteria) ([]report.YearCount, error)
	AgePyramid(ctx context.Context, c filter.Criteria) ([]aggregate.PyramidCell, error)
	TopCauses(ctx context.Context, c filter.Criteria, limit int) ([]report.EntityCount, error)
	NatalityByRegion(ctx context.Context, c filter.Criteria) ([]aggregate.NatalityRow, error)
	MortalityByRegion(ctx context.Context, c filter.Criteria) ([]aggregate.MortalityRow, error)
}

// Handler serves the statistics routes.
type Handler struct {
	reports Reporter
	logger  *slog.Logger
	debug   bool
}

type Option func(*Handler)

// WithDebug exposes internal error messages in 500 responses.
func WithDebug(debug bool) Option {
	return func(h *Handler) {
		h.debug = debug
	}
}

// New creates a statistics Handler.
func New(reports Reporter, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{reports: reports, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the statistics routes with the chi router. The entity
// routes sit beside the registry's /api/regions and /api/districts routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/regions/{id}/statistiques", h.handleRegionStatistics)
	r.Get("/api/districts/{id}/statistiques", h.handleDistrictStatistics)
	r.Post("/api/regions/comparaison", h.handleCompareRegions)
	r.Post("/api/districts/comparaison", h.handleCompareDistricts)

	r.Route("/api/statistiques", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/deces-par-annee", h.handleDeathsByYear)
		r.Get("/naissances-par-annee", h.handleBirthsByYear)
		r.Get("/pyramide-ages", h.handleAgePyramid)
		r.Get("/causes-deces", h.handleTopCauses)
		r.Get("/taux-natalite", h.handleNatality)
		r.Get("/taux-mortalite", h.handleMortality)
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if _, coded := dErrors.As(err); !coded || dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteErrorDetail(w, err, h.debug)
}

func pathID(r *http.Request, notFound string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return id, nil
}
