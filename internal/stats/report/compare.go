package report

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/stats/aggregate"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/dedupe"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

// compareConcurrency bounds the per-entity loads of one comparison.
const compareConcurrency = 8

// CompareRegions compares the regions in ids for year; a nil year selects the
// as-of year. Unknown ids are left out of the result.
func (r *Reporter) CompareRegions(ctx context.Context, ids []int64, year *int) (*aggregate.Comparison, error) {
	return r.compare(ctx, models.KindRegion, ids, year)
}

// CompareDistricts compares the districts in ids, labelling each with its
// region.
func (r *Reporter) CompareDistricts(ctx context.Context, ids []int64, year *int) (*aggregate.Comparison, error) {
	return r.compare(ctx, models.KindDistrict, ids, year)
}

func (r *Reporter) compare(ctx context.Context, kind models.DimensionKind, ids []int64, year *int) (*aggregate.Comparison, error) {
	ids = dedupe.Values(ids)
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "au moins un identifiant de "+kind.Singular()+" est requis")
	}
	y := requestcontext.Now(ctx).Year()
	if year != nil {
		y = *year
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	report := string(kind) + "_comparaison"
	key := cacheKey(report, filter.Criteria{Year: &y}, strings.Join(parts, ","))
	return cached(ctx, r, report, key, func(ctx context.Context) (*aggregate.Comparison, error) {
		totals, err := r.comparisonTotals(ctx, kind, ids, y)
		if err != nil {
			return nil, failed(err, report)
		}
		out := aggregate.Compare(ids, totals, y)
		return &out, nil
	})
}

// comparisonTotals loads the totals of every known id in ids.
func (r *Reporter) comparisonTotals(ctx context.Context, kind models.DimensionKind, ids []int64, year int) (map[int64]aggregate.EntityTotals, error) {
	loc := locators[kind]
	childKind, _ := kind.ChildKind()

	rows := make([]*aggregate.EntityTotals, len(ids))
	parents := make([]*int64, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(compareConcurrency)
	for i, id := range ids {
		eg.Go(func() error {
			entity, err := r.source.FindDimension(egCtx, kind, id)
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			c := loc.criteria(id)
			c.Year = &year
			deaths, births, err := r.countFacts(egCtx, c)
			if err != nil {
				return err
			}
			units, _, err := r.source.ListDimensions(egCtx, models.DimensionQuery{Kind: childKind, ParentID: &id, WithStats: true})
			if err != nil {
				return err
			}
			t := &aggregate.EntityTotals{
				ID:         entity.ID,
				Code:       entity.Code,
				Label:      entity.Label,
				Deaths:     deaths,
				Births:     births,
				ChildUnits: len(units),
			}
			for _, u := range units {
				if u.ChildrenCount != nil {
					t.LeafUnits += *u.ChildrenCount
				}
			}
			rows[i], parents[i] = t, entity.ParentID
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	parentLabels := map[int64]string{}
	if parentKind, ok := kind.ParentKind(); ok {
		var parentIDs []int64
		for _, p := range parents {
			if p != nil {
				parentIDs = append(parentIDs, *p)
			}
		}
		var err error
		if parentLabels, err = r.labels(ctx, parentKind, parentIDs); err != nil {
			return nil, err
		}
	}

	totals := make(map[int64]aggregate.EntityTotals, len(ids))
	for i, t := range rows {
		if t == nil {
			continue
		}
		if parents[i] != nil {
			t.ParentLabel = parentLabels[*parents[i]]
		}
		totals[t.ID] = *t
	}
	return totals, nil
}
