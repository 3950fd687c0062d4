package service

import (
	"context"
	"errors"
	"time"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	dErrors "etatcivil/pkg/domain-errors"
	audit "etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

const (
	msgDeathNotFound = "Décès non trouvé"
	msgBirthNotFound = "Naissance non trouvée"
	msgActNumberUsed = "Le numéro d'acte existe déjà"
)

// writeErr maps a store write failure; a unique violation on the act number
// surfaces as a conflict.
func writeErr(err error, notFound, action string) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, msgActNumberUsed)
	}
	return translate(err, notFound, action)
}

func stampCreated(ctx context.Context, createdAt, updatedAt *time.Time, createdBy **int64) {
	now := requestcontext.Now(ctx)
	*createdAt, *updatedAt = now, now
	if actor, ok := requestcontext.ActorID(ctx); ok {
		*createdBy = &actor
	}
}

// CreateDeath validates and stores a death record. A missing act number is
// allocated from the store's act sequence.
func (s *Service) CreateDeath(ctx context.Context, d *models.Death) (*models.Death, error) {
	start := time.Now()
	asOf := requestcontext.Now(ctx).Year()
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.validateDeath(txCtx, d, 0, asOf); err != nil {
			return err
		}
		if d.ActNumber == nil {
			next, err := s.store.NextActNumber(txCtx, models.FactDeath)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate act number")
			}
			d.ActNumber = &next
		}
		stampCreated(txCtx, &d.CreatedAt, &d.UpdatedAt, &d.CreatedBy)
		if err := s.store.CreateDeath(txCtx, d); err != nil {
			return writeErr(err, msgDeathNotFound, "create death")
		}
		return s.emit(txCtx, audit.EventDeathCreated, string(models.FactDeath), d.ID, "")
	})
	if err != nil {
		return nil, err
	}
	s.recordWritten(models.FactDeath, "create", start)
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "death record created",
		"request_id", requestcontext.RequestID(ctx),
		"death_id", d.ID,
		"act_number", *d.ActNumber,
	)
	return d, nil
}

// UpdateDeath applies patch to the stored record and saves it after
// validation. Identity and provenance fields cannot be changed by patch.
func (s *Service) UpdateDeath(ctx context.Context, id int64, patch func(*models.Death)) (*models.Death, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)
	var updated *models.Death
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.store.FindDeath(txCtx, id)
		if err != nil {
			return translate(err, msgDeathNotFound, "load death")
		}
		next := *current
		patch(&next)
		next.ID, next.CreatedAt, next.CreatedBy = current.ID, current.CreatedAt, current.CreatedBy
		if next.ActNumber == nil {
			next.ActNumber = current.ActNumber
		}
		next.UpdatedAt = now
		if err := s.validateDeath(txCtx, &next, id, now.Year()); err != nil {
			return err
		}
		if err := s.store.UpdateDeath(txCtx, &next); err != nil {
			return writeErr(err, msgDeathNotFound, "update death")
		}
		updated = &next
		return s.emit(txCtx, audit.EventDeathUpdated, string(models.FactDeath), id, "")
	})
	if err != nil {
		return nil, err
	}
	s.recordWritten(models.FactDeath, "update", start)
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) DeleteDeath(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.DeleteDeath(txCtx, id); err != nil {
			return translate(err, msgDeathNotFound, "delete death")
		}
		return s.emit(txCtx, audit.EventDeathDeleted, string(models.FactDeath), id, "")
	})
	if err != nil {
		return err
	}
	s.recordWritten(models.FactDeath, "delete", start)
	s.invalidate(ctx)
	return nil
}

func (s *Service) GetDeath(ctx context.Context, id int64) (*models.Death, error) {
	d, err := s.store.FindDeath(ctx, id)
	if err != nil {
		return nil, translate(err, msgDeathNotFound, "load death")
	}
	return d, nil
}

// ListDeaths returns one page of matching deaths.
func (s *Service) ListDeaths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Death, filter.Pagination, error) {
	rows, total, err := s.store.ListDeaths(ctx, c, sort, page)
	if err != nil {
		return nil, filter.Pagination{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list deaths")
	}
	return rows, page.Paginate(total), nil
}

// CreateBirth validates and stores a birth record. A missing act number is
// allocated from the store's act sequence.
func (s *Service) CreateBirth(ctx context.Context, b *models.Birth) (*models.Birth, error) {
	start := time.Now()
	asOf := requestcontext.Now(ctx).Year()
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.validateBirth(txCtx, b, 0, asOf); err != nil {
			return err
		}
		if b.ActNumber == nil {
			next, err := s.store.NextActNumber(txCtx, models.FactBirth)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate act number")
			}
			b.ActNumber = &next
		}
		stampCreated(txCtx, &b.CreatedAt, &b.UpdatedAt, &b.CreatedBy)
		if err := s.store.CreateBirth(txCtx, b); err != nil {
			return writeErr(err, msgBirthNotFound, "create birth")
		}
		return s.emit(txCtx, audit.EventBirthCreated, string(models.FactBirth), b.ID, "")
	})
	if err != nil {
		return nil, err
	}
	s.recordWritten(models.FactBirth, "create", start)
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "birth record created",
		"request_id", requestcontext.RequestID(ctx),
		"birth_id", b.ID,
		"act_number", *b.ActNumber,
	)
	return b, nil
}

// UpdateBirth applies patch to the stored record and saves it after
// validation.
func (s *Service) UpdateBirth(ctx context.Context, id int64, patch func(*models.Birth)) (*models.Birth, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)
	var updated *models.Birth
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.store.FindBirth(txCtx, id)
		if err != nil {
			return translate(err, msgBirthNotFound, "load birth")
		}
		next := *current
		patch(&next)
		next.ID, next.CreatedAt, next.CreatedBy = current.ID, current.CreatedAt, current.CreatedBy
		if next.ActNumber == nil {
			next.ActNumber = current.ActNumber
		}
		next.UpdatedAt = now
		if err := s.validateBirth(txCtx, &next, id, now.Year()); err != nil {
			return err
		}
		if err := s.store.UpdateBirth(txCtx, &next); err != nil {
			return writeErr(err, msgBirthNotFound, "update birth")
		}
		updated = &next
		return s.emit(txCtx, audit.EventBirthUpdated, string(models.FactBirth), id, "")
	})
	if err != nil {
		return nil, err
	}
	s.recordWritten(models.FactBirth, "update", start)
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) DeleteBirth(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.DeleteBirth(txCtx, id); err != nil {
			return translate(err, msgBirthNotFound, "delete birth")
		}
		return s.emit(txCtx, audit.EventBirthDeleted, string(models.FactBirth), id, "")
	})
	if err != nil {
		return err
	}
	s.recordWritten(models.FactBirth, "delete", start)
	s.invalidate(ctx)
	return nil
}

func (s *Service) GetBirth(ctx context.Context, id int64) (*models.Birth, error) {
	b, err := s.store.FindBirth(ctx, id)
	if err != nil {
		return nil, translate(err, msgBirthNotFound, "load birth")
	}
	return b, nil
}

// ListBirths returns one page of matching births.
func (s *Service) ListBirths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Birth, filter.Pagination, error) {
	rows, total, err := s.store.ListBirths(ctx, c, sort, page)
	if err != nil {
		return nil, filter.Pagination{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list births")
	}
	return rows, page.Paginate(total), nil
}
