// Package handler exposes the registry over HTTP: death and birth records
// and the dimension tables, each with list, create, show, update and delete.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/httputil"
	"etatcivil/pkg/requestcontext"
)

// Service is the registry surface the handlers need.
type Service interface {
	CreateDeath(ctx context.Context, d *models.Death) (*models.Death, error)
	UpdateDeath(ctx context.Context, id int64, patch func(*models.Death)) (*models.Death, error)
	DeleteDeath(ctx context.Context, id int64) error
	GetDeath(ctx context.Context, id int64) (*models.Death, error)
	ListDeaths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Death, filter.Pagination, error)

	CreateBirth(ctx context.Context, b *models.Birth) (*models.Birth, error)
	UpdateBirth(ctx context.Context, id int64, patch func(*models.Birth)) (*models.Birth, error)
	DeleteBirth(ctx context.Context, id int64) error
	GetBirth(ctx context.Context, id int64) (*models.Birth, error)
	ListBirths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Birth, filter.Pagination, error)

	CreateDimension(ctx context.Context, d *models.Dimension) (*models.Dimension, error)
	UpdateDimension(ctx context.Context, kind models.DimensionKind, id int64, patch func(*models.Dimension)) (*models.Dimension, error)
	DeleteDimension(ctx context.Context, kind models.DimensionKind, id int64) error
	GetDimension(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error)
	ListDimensions(ctx context.Context, q models.DimensionQuery, page *filter.Page) ([]models.DimensionSummary, *filter.Pagination, error)
	Children(ctx context.Context, parentKind models.DimensionKind, parentID int64) ([]models.DimensionSummary, error)
}

// Handler serves the registry routes.
type Handler struct {
	registry Service
	logger   *slog.Logger
	debug    bool
}

type Option func(*Handler)

// WithDebug exposes internal error messages in 500 responses.
func WithDebug(debug bool) Option {
	return func(h *Handler) {
		h.debug = debug
	}
}

// New creates a registry Handler.
func New(registry Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/deces", h.handleListDeaths)
	r.Post("/api/deces", h.handleCreateDeath)
	r.Get("/api/deces/{id}", h.handleGetDeath)
	r.Put("/api/deces/{id}", h.handleUpdateDeath)
	r.Delete("/api/deces/{id}", h.handleDeleteDeath)

	r.Get("/api/naissances", h.handleListBirths)
	r.Post("/api/naissances", h.handleCreateBirth)
	r.Get("/api/naissances/{id}", h.handleGetBirth)
	r.Put("/api/naissances/{id}", h.handleUpdateBirth)
	r.Delete("/api/naissances/{id}", h.handleDeleteBirth)

	for _, kind := range models.DimensionKinds {
		base := "/api/" + string(kind)
		r.Get(base, h.handleListDimensions(kind))
		r.Post(base, h.handleCreateDimension(kind))
		r.Get(base+"/{id}", h.handleGetDimension(kind))
		r.Put(base+"/{id}", h.handleUpdateDimension(kind))
		r.Delete(base+"/{id}", h.handleDeleteDimension(kind))
		if child, ok := kind.ChildKind(); ok {
			r.Get(base+"/{id}/"+string(child), h.handleChildren(kind))
		}
	}
}

// writeError logs failures the client cannot fix and writes the envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || !isCoded(err) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteErrorDetail(w, err, h.debug)
}

func isCoded(err error) bool {
	_, ok := dErrors.As(err)
	return ok
}

// pathID reads the {id} segment. A malformed id cannot name a row, so it is
// reported as not found.
func pathID(r *http.Request, notFound string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return id, nil
}
