package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	dErrors "etatcivil/pkg/domain-errors"
	audit "etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

// maxCodeAttempts bounds the search for a free generated code when rows were
// created with hand-picked codes that collide with the sequence.
const maxCodeAttempts = 1000

func notFoundMessage(kind models.DimensionKind) string {
	return strings.ToUpper(kind.Singular()[:1]) + kind.Singular()[1:] + " non trouvé(e)"
}

// parentField is the request field carrying the parent id of kind.
func parentField(kind models.DimensionKind) string {
	parent, ok := kind.ParentKind()
	if !ok {
		return ""
	}
	return strings.TrimSuffix(string(parent), "s") + "_id"
}

// parentOf loads the parent row of d, reporting a field error when the kind
// needs one and it is missing or unknown.
func (s *Service) parentOf(ctx context.Context, d *models.Dimension, fields dErrors.FieldErrors) (*models.Dimension, error) {
	parentKind, ok := d.Kind.ParentKind()
	if !ok {
		d.ParentID = nil
		return nil, nil
	}
	field := parentField(d.Kind)
	if d.ParentID == nil {
		fields.Add(field, "Le champ "+field+" est obligatoire")
		return nil, nil
	}
	parent, err := s.store.FindDimension(ctx, parentKind, *d.ParentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			fields.Add(field, fmt.Sprintf("La valeur sélectionnée pour %s est invalide", field))
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent")
	}
	return parent, nil
}

func validateDimensionFields(d *models.Dimension, fields dErrors.FieldErrors) {
	d.Label = strings.TrimSpace(d.Label)
	d.Code = strings.TrimSpace(d.Code)
	checkName(fields, "libelle", d.Label, true)
	if utf8.RuneCountInString(d.Code) > 50 {
		fields.Add("code", "Le champ code ne doit pas dépasser 50 caractères")
	}
	if d.Population != nil && *d.Population < 0 {
		fields.Add("population", "Le champ population doit être positif")
	}
	if d.Kind == models.KindCause {
		if d.Severity == nil {
			d.Severity = models.Int(models.DefaultSeverity)
		}
		if *d.Severity < 1 || *d.Severity > 3 {
			fields.Add("gravite", "Le champ gravite doit être compris entre 1 et 3")
		}
	}
}

// assignCode generates the next free code for d from its per-parent sequence.
func (s *Service) assignCode(ctx context.Context, d *models.Dimension, parent *models.Dimension) error {
	parentCode := ""
	if parent != nil {
		parentCode = parent.Code
	}
	for range maxCodeAttempts {
		seq, err := s.store.NextCodeSequence(ctx, d.Kind, d.ParentID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
		}
		code := models.GenerateCode(d.Kind, parentCode, seq)
		taken, err := s.store.CodeTaken(ctx, d.Kind, code, 0)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check code")
		}
		if !taken {
			d.Code = code
			return nil
		}
	}
	return dErrors.New(dErrors.CodeConflict, "aucun code disponible pour "+d.Kind.Singular())
}

// CreateDimension validates and stores a dimension row. A missing code is
// generated from the parent code and the per-parent sequence.
func (s *Service) CreateDimension(ctx context.Context, d *models.Dimension) (*models.Dimension, error) {
	start := time.Now()
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		fields := dErrors.FieldErrors{}
		validateDimensionFields(d, fields)
		parent, err := s.parentOf(txCtx, d, fields)
		if err != nil {
			return err
		}
		if d.Code != "" {
			taken, err := s.store.CodeTaken(txCtx, d.Kind, d.Code, 0)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check code")
			}
			if taken {
				fields.Add("code", "Ce code existe déjà")
			}
		}
		if err := fields.Err(); err != nil {
			return err
		}
		if d.Code == "" {
			if err := s.assignCode(txCtx, d, parent); err != nil {
				return err
			}
		}
		now := requestcontext.Now(txCtx)
		d.CreatedAt, d.UpdatedAt = now, now
		if err := s.store.CreateDimension(txCtx, d); err != nil {
			return translate(err, notFoundMessage(d.Kind), "create "+d.Kind.Singular())
		}
		return s.emit(txCtx, audit.EventDimensionCreated, string(d.Kind), d.ID, "")
	})
	if err != nil {
		return nil, err
	}
	s.dimensionWritten(d.Kind, "create", start)
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "dimension row created",
		"request_id", requestcontext.RequestID(ctx),
		"kind", d.Kind,
		"dimension_id", d.ID,
		"code", d.Code,
	)
	return d, nil
}

// UpdateDimension applies patch to the stored row and saves it after
// validation. Kind and identity cannot change; an emptied code keeps the
// stored one.
func (s *Service) UpdateDimension(ctx context.Context, kind models.DimensionKind, id int64, patch func(*models.Dimension)) (*models.Dimension, error) {
	start := time.Now()
	var updated *models.Dimension
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.store.FindDimension(txCtx, kind, id)
		if err != nil {
			return translate(err, notFoundMessage(kind), "load "+kind.Singular())
		}
		next := *current
		patch(&next)
		next.ID, next.Kind, next.CreatedAt = current.ID, current.Kind, current.CreatedAt
		if strings.TrimSpace(next.Code) == "" {
			next.Code = current.Code
		}

		fields := dErrors.FieldErrors{}
		validateDimensionFields(&next, fields)
		if _, err := s.parentOf(txCtx, &next, fields); err != nil {
			return err
		}
		if next.ParentID != nil && *next.ParentID == id {
			fields.Add(parentField(kind), "Une ligne ne peut pas être son propre parent")
		}
		taken, err := s.store.CodeTaken(txCtx, kind, next.Code, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check code")
		}
		if taken {
			fields.Add("code", "Ce code existe déjà")
		}
		if err := fields.Err(); err != nil {
			return err
		}

		next.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.store.UpdateDimension(txCtx, &next); err != nil {
			return translate(err, notFoundMessage(kind), "update "+kind.Singular())
		}
		updated = &next
		return s.emit(txCtx, audit.EventDimensionUpdated, string(kind), id, "")
	})
	if err != nil {
		return nil, err
	}
	s.dimensionWritten(kind, "update", start)
	s.invalidate(ctx)
	return updated, nil
}

// DeleteDimension removes a row unless fact records or child rows still
// reference it. The dependent count and the delete share one serializable
// transaction in the store; a refusal is a CodeConflict carrying the counts.
func (s *Service) DeleteDimension(ctx context.Context, kind models.DimensionKind, id int64) error {
	start := time.Now()
	guard := func(deps models.Dependents) models.DeleteCheck {
		return models.CanDelete(kind, deps)
	}
	check, err := s.store.DeleteDimension(ctx, kind, id, guard)
	if err != nil {
		return translate(err, notFoundMessage(kind), "delete "+kind.Singular())
	}

	if check.Blocked {
		s.deleteBlocked(kind)
		s.emitAfterCommit(ctx, audit.EventDimensionDeleteBlocked, kind, id, check.Reason)
		return dErrors.New(dErrors.CodeConflict, check.Reason).WithDetails(map[string]any{
			"dependents": check.Dependents,
		})
	}

	s.emitAfterCommit(ctx, audit.EventDimensionDeleted, kind, id, "")
	s.dimensionWritten(kind, "delete", start)
	s.invalidate(ctx)
	return nil
}

// emitAfterCommit records an event for an operation whose transaction is
// already closed; a failure is logged since the outcome cannot be undone.
func (s *Service) emitAfterCommit(ctx context.Context, action audit.AuditEvent, kind models.DimensionKind, id int64, reason string) {
	if err := s.emit(ctx, action, string(kind), id, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to record audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", action,
			"kind", kind,
			"dimension_id", id,
			"error", err,
		)
	}
}

func (s *Service) GetDimension(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error) {
	d, err := s.store.FindDimension(ctx, kind, id)
	if err != nil {
		return nil, translate(err, notFoundMessage(kind), "load "+kind.Singular())
	}
	return d, nil
}

// ListDimensions returns the rows of q.Kind. With a nil page every matching
// row is returned and the pagination is nil.
func (s *Service) ListDimensions(ctx context.Context, q models.DimensionQuery, page *filter.Page) ([]models.DimensionSummary, *filter.Pagination, error) {
	if page != nil {
		q.Limit, q.Offset = page.Size, page.Offset()
	} else {
		q.Limit, q.Offset = 0, 0
	}
	rows, total, err := s.store.ListDimensions(ctx, q)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list "+string(q.Kind))
	}
	if page == nil {
		return rows, nil, nil
	}
	p := page.Paginate(total)
	return rows, &p, nil
}

// Children lists the rows directly under the parent row, ordered by label.
func (s *Service) Children(ctx context.Context, parentKind models.DimensionKind, parentID int64) ([]models.DimensionSummary, error) {
	childKind, ok := parentKind.ChildKind()
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, string(parentKind)+" n'a pas de sous-niveau")
	}
	if _, err := s.GetDimension(ctx, parentKind, parentID); err != nil {
		return nil, err
	}
	rows, _, err := s.ListDimensions(ctx, models.DimensionQuery{
		Kind:     childKind,
		ParentID: &parentID,
		SortBy:   filter.DefaultDimensionSort.Field,
	}, nil)
	return rows, err
}
