package handler

import (
	"net/http"
	"strconv"
	"strings"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/pkg/platform/httputil"
	"etatcivil/pkg/requestcontext"
)

func dimensionNotFound(kind models.DimensionKind) string {
	label := kind.Singular()
	return strings.ToUpper(label[:1]) + label[1:] + " non trouvé(e)"
}

func truthy(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}

// dimensionListing reads search, avec_stats, the parent filter, ordering and
// pagination. paginate=false lists every row.
func dimensionListing(r *http.Request, kind models.DimensionKind) (models.DimensionQuery, *filter.Page) {
	q := r.URL.Query()
	sort := filter.ParseSort(q.Get("sort_by"), q.Get("sort_order"), filter.DimensionSortFields, filter.DefaultDimensionSort)
	query := models.DimensionQuery{
		Kind:      kind,
		Search:    strings.TrimSpace(q.Get("search")),
		WithStats: truthy(q.Get("avec_stats")),
		SortBy:    sort.Field,
		Desc:      sort.Desc,
	}
	if parent, ok := kind.ParentKind(); ok {
		field := strings.TrimSuffix(string(parent), "s") + "_id"
		if id, err := strconv.ParseInt(q.Get(field), 10, 64); err == nil && id > 0 {
			query.ParentID = &id
		}
	}
	if raw := q.Get("paginate"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil && !b {
			return query, nil
		}
	}
	page := filter.ParsePage(q.Get("page"), q.Get("per_page"), filter.DefaultDimensionPageSize)
	return query, &page
}

func (h *Handler) handleListDimensions(kind models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, page := dimensionListing(r, kind)
		rows, pagination, err := h.registry.ListDimensions(r.Context(), query, page)
		if err != nil {
			h.writeError(w, r, err, "failed to list "+string(kind))
			return
		}
		if pagination == nil {
			httputil.WriteSuccess(w, http.StatusOK, "Liste récupérée avec succès", rows)
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "Liste récupérée avec succès", rows, httputil.WithPagination(pagination))
	}
}

func (h *Handler) handleCreateDimension(kind models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, ok := httputil.DecodeAndPrepare[DimensionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		d := models.Dimension{Kind: kind, IsActive: true}
		req.Apply(&d)
		created, err := h.registry.CreateDimension(ctx, &d)
		if err != nil {
			h.writeError(w, r, err, "failed to create "+kind.Singular())
			return
		}
		httputil.WriteSuccess(w, http.StatusCreated, "Enregistrement créé avec succès", created)
	}
}

func (h *Handler) handleGetDimension(kind models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, dimensionNotFound(kind))
		if err != nil {
			h.writeError(w, r, err, "invalid id")
			return
		}
		d, err := h.registry.GetDimension(r.Context(), kind, id)
		if err != nil {
			h.writeError(w, r, err, "failed to load "+kind.Singular())
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "Détails récupérés avec succès", d)
	}
}

func (h *Handler) handleUpdateDimension(kind models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, dimensionNotFound(kind))
		if err != nil {
			h.writeError(w, r, err, "invalid id")
			return
		}
		req, ok := httputil.DecodeAndPrepare[DimensionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		updated, err := h.registry.UpdateDimension(ctx, kind, id, req.Apply)
		if err != nil {
			h.writeError(w, r, err, "failed to update "+kind.Singular())
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "Enregistrement mis à jour avec succès", updated)
	}
}

func (h *Handler) handleDeleteDimension(kind models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, dimensionNotFound(kind))
		if err != nil {
			h.writeError(w, r, err, "invalid id")
			return
		}
		if err := h.registry.DeleteDimension(r.Context(), kind, id); err != nil {
			h.writeError(w, r, err, "failed to delete "+kind.Singular())
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "Enregistrement supprimé avec succès", nil)
	}
}

// handleChildren lists the rows directly under one parent row, e.g. the
// districts of a region.
func (h *Handler) handleChildren(parent models.DimensionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, dimensionNotFound(parent))
		if err != nil {
			h.writeError(w, r, err, "invalid id")
			return
		}
		rows, err := h.registry.Children(r.Context(), parent, id)
		if err != nil {
			h.writeError(w, r, err, "failed to list children of "+parent.Singular())
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "Liste récupérée avec succès", rows)
	}
}
