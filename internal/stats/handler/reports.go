package handler

import (
	"context"
	"net/http"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/stats/aggregate"
	"etatcivil/internal/stats/report"
	"etatcivil/pkg/platform/httputil"
	"etatcivil/pkg/requestcontext"
)

const (
	msgStatistics = "Statistiques récupérées avec succès"
	msgComparison = "Comparaison effectuée avec succès"
)

// ComparisonRequest carries the ids of one comparison: region_ids on
// /api/regions/comparaison, district_ids on /api/districts/comparaison.
type ComparisonRequest struct {
	RegionIDs   []int64 `json:"region_ids" validate:"omitempty,dive,gt=0"`
	DistrictIDs []int64 `json:"district_ids" validate:"omitempty,dive,gt=0"`
	Year        *int    `json:"annee" validate:"omitempty,gte=1900,lte=9999"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := report.ScopeFromQuery(ctx, r.URL.Query())
	d, err := h.reports.Dashboard(ctx, scope)
	if err != nil {
		h.writeError(w, r, err, "failed to build dashboard")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Tableau de bord récupéré avec succès", d, httputil.WithFilters(scope.Applied()))
}

func (h *Handler) handleRegionStatistics(w http.ResponseWriter, r *http.Request) {
	h.entityStatistics(w, r, "Région non trouvée", h.reports.RegionStatistics)
}

func (h *Handler) handleDistrictStatistics(w http.ResponseWriter, r *http.Request) {
	h.entityStatistics(w, r, "District non trouvé", h.reports.DistrictStatistics)
}

type entityReport func(ctx context.Context, id int64, scope report.Scope) (*report.EntityStatistics, error)

func (h *Handler) entityStatistics(w http.ResponseWriter, r *http.Request, notFound string, build entityReport) {
	ctx := r.Context()
	id, err := pathID(r, notFound)
	if err != nil {
		h.writeError(w, r, err, "invalid id")
		return
	}
	// Only the year narrows an entity bundle.
	scope := report.ScopeFromQuery(ctx, r.URL.Query())
	scope.RegionID, scope.DistrictID = nil, nil

	st, err := build(ctx, id, scope)
	if err != nil {
		h.writeError(w, r, err, "failed to build entity statistics")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgStatistics, st, httputil.WithFilters(st.Filters))
}

func (h *Handler) handleCompareRegions(w http.ResponseWriter, r *http.Request) {
	h.compare(w, r, func(ctx context.Context, req *ComparisonRequest) (*aggregate.Comparison, error) {
		return h.reports.CompareRegions(ctx, req.RegionIDs, req.Year)
	})
}

func (h *Handler) handleCompareDistricts(w http.ResponseWriter, r *http.Request) {
	h.compare(w, r, func(ctx context.Context, req *ComparisonRequest) (*aggregate.Comparison, error) {
		return h.reports.CompareDistricts(ctx, req.DistrictIDs, req.Year)
	})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request, run func(context.Context, *ComparisonRequest) (*aggregate.Comparison, error)) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ComparisonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	cmp, err := run(ctx, req)
	if err != nil {
		h.writeError(w, r, err, "failed to compare")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgComparison, cmp)
}

// series serves one single-series view over the listing criteria.
func series[T any](h *Handler, build func(context.Context, filter.Criteria) (T, error), msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := filter.FromQuery(r.URL.Query())
		out, err := build(r.Context(), c)
		if err != nil {
			h.writeError(w, r, err, "failed to build "+msg)
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, msgStatistics, out, httputil.WithFilters(c.Applied()))
	}
}

func (h *Handler) handleDeathsByYear(w http.ResponseWriter, r *http.Request) {
	series(h, h.reports.DeathsByYear, "deaths by year")(w, r)
}

func (h *Handler) handleBirthsByYear(w http.ResponseWriter, r *http.Request) {
	series(h, h.reports.BirthsByYear, "births by year")(w, r)
}

func (h *Handler) handleAgePyramid(w http.ResponseWriter, r *http.Request) {
	series(h, h.reports.AgePyramid, "age pyramid")(w, r)
}

func (h *Handler) handleTopCauses(w http.ResponseWriter, r *http.Request) {
	limit := report.ClampCauseLimit(r.URL.Query().Get("limit"))
	series(h, func(ctx context.Context, c filter.Criteria) ([]report.EntityCount, error) {
		return h.reports.TopCauses(ctx, c, limit)
	}, "top causes")(w, r)
}

func (h *Handler) handleNatality(w http.ResponseWriter, r *http.Request) {
	series(h, h.reports.NatalityByRegion, "natality by region")(w, r)
}

func (h *Handler) handleMortality(w http.ResponseWriter, r *http.Request) {
	series(h, h.reports.MortalityByRegion, "mortality by region")(w, r)
}
