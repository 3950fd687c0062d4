package handler

import (
	"net/http"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/pkg/platform/httputil"
	"etatcivil/pkg/requestcontext"
)

const (
	msgDeathNotFound = "Décès non trouvé"
	msgBirthNotFound = "Naissance non trouvée"
)

func recordListing(r *http.Request, sortFields []string) (filter.Criteria, filter.Sort, filter.Page) {
	q := r.URL.Query()
	return filter.FromQuery(q),
		filter.ParseSort(q.Get("sort_by"), q.Get("sort_order"), sortFields, filter.DefaultRecordSort),
		filter.ParsePage(q.Get("page"), q.Get("per_page"), filter.DefaultRecordPageSize)
}

func (h *Handler) handleListDeaths(w http.ResponseWriter, r *http.Request) {
	c, sort, page := recordListing(r, filter.DeathSortFields)
	rows, pagination, err := h.registry.ListDeaths(r.Context(), c, sort, page)
	if err != nil {
		h.writeError(w, r, err, "failed to list deaths")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Liste des décès récupérée avec succès", rows,
		httputil.WithPagination(pagination),
		httputil.WithFilters(c.Applied()),
	)
}

func (h *Handler) handleCreateDeath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DeathRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	var d models.Death
	req.Apply(&d)
	created, err := h.registry.CreateDeath(ctx, &d)
	if err != nil {
		h.writeError(w, r, err, "failed to create death")
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Décès enregistré avec succès", created)
}

func (h *Handler) handleGetDeath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, msgDeathNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid death id")
		return
	}
	d, err := h.registry.GetDeath(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "failed to load death")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Décès récupéré avec succès", d)
}

func (h *Handler) handleUpdateDeath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, msgDeathNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid death id")
		return
	}
	req, ok := httputil.DecodeAndPrepare[DeathRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	updated, err := h.registry.UpdateDeath(ctx, id, req.Apply)
	if err != nil {
		h.writeError(w, r, err, "failed to update death")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Décès mis à jour avec succès", updated)
}

func (h *Handler) handleDeleteDeath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, msgDeathNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid death id")
		return
	}
	if err := h.registry.DeleteDeath(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete death")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Décès supprimé avec succès", nil)
}

func (h *Handler) handleListBirths(w http.ResponseWriter, r *http.Request) {
	c, sort, page := recordListing(r, filter.BirthSortFields)
	rows, pagination, err := h.registry.ListBirths(r.Context(), c, sort, page)
	if err != nil {
		h.writeError(w, r, err, "failed to list births")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Liste des naissances récupérée avec succès", rows,
		httputil.WithPagination(pagination),
		httputil.WithFilters(c.Applied()),
	)
}

func (h *Handler) handleCreateBirth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BirthRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	var b models.Birth
	req.Apply(&b)
	created, err := h.registry.CreateBirth(ctx, &b)
	if err != nil {
		h.writeError(w, r, err, "failed to create birth")
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Naissance enregistrée avec succès", created)
}

func (h *Handler) handleGetBirth(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, msgBirthNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid birth id")
		return
	}
	b, err := h.registry.GetBirth(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "failed to load birth")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Naissance récupérée avec succès", b)
}

func (h *Handler) handleUpdateBirth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, msgBirthNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid birth id")
		return
	}
	req, ok := httputil.DecodeAndPrepare[BirthRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	updated, err := h.registry.UpdateBirth(ctx, id, req.Apply)
	if err != nil {
		h.writeError(w, r, err, "failed to update birth")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Naissance mise à jour avec succès", updated)
}

func (h *Handler) handleDeleteBirth(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, msgBirthNotFound)
	if err != nil {
		h.writeError(w, r, err, "invalid birth id")
		return
	}
	if err := h.registry.DeleteBirth(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete birth")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Naissance supprimée avec succès", nil)
}
