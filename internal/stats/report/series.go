package report

import (
	"context"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/stats/aggregate"
)

// Limits of the top-causes series.
const (
	DefaultCauseLimit = 10
	MaxCauseLimit     = 50
)

// YearCount is one point of a per-year series.
type YearCount struct {
	Year  int `json:"annee"`
	Count int `json:"total"`
}

// EntityCount is a count attributed to one dimension row.
type EntityCount struct {
	ID    int64  `json:"id"`
	Label string `json:"libelle"`
	Count int    `json:"total"`
}

// facts is one loaded snapshot.
type facts struct {
	deaths []models.Death
	births []models.Birth
}

// loadFacts loads both fact types matching c concurrently.
func (r *Reporter) loadFacts(ctx context.Context, c filter.Criteria) (facts, error) {
	var f facts
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		f.deaths, err = r.source.Deaths(egCtx, c)
		return err
	})
	eg.Go(func() error {
		var err error
		f.births, err = r.source.Births(egCtx, c)
		return err
	})
	if err := eg.Wait(); err != nil {
		return facts{}, err
	}
	return f, nil
}

// inYear keeps the records of year; a nil year keeps everything.
// countFacts counts matching deaths and births without loading the rows.
func (r *Reporter) countFacts(ctx context.Context, c filter.Criteria) (deaths, births int, err error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		deaths, err = r.source.CountDeaths(egCtx, c)
		return err
	})
	eg.Go(func() error {
		var err error
		births, err = r.source.CountBirths(egCtx, c)
		return err
	})
	if err := eg.Wait(); err != nil {
		return 0, 0, err
	}
	return deaths, births, nil
}

func (f facts) inYear(year *int) facts {
	if year == nil {
		return f
	}
	c := filter.Criteria{Year: year}
	out := facts{
		deaths: make([]models.Death, 0, len(f.deaths)),
		births: make([]models.Birth, 0, len(f.births)),
	}
	for i := range f.deaths {
		if c.MatchDeath(&f.deaths[i]) {
			out.deaths = append(out.deaths, f.deaths[i])
		}
	}
	for i := range f.births {
		if c.MatchBirth(&f.births[i]) {
			out.births = append(out.births, f.births[i])
		}
	}
	return out
}

func deathYears(deaths []models.Death) []aggregate.Group[int] {
	groups := aggregate.CountBy(deaths, aggregate.Deref(func(d *models.Death) *int { return d.Date.Year }))
	return aggregate.SortByKey(groups, true)
}

func birthYears(births []models.Birth) []aggregate.Group[int] {
	groups := aggregate.CountBy(births, aggregate.Deref(func(b *models.Birth) *int { return b.Date.Year }))
	return aggregate.SortByKey(groups, true)
}

func yearCounts(groups []aggregate.Group[int]) []YearCount {
	out := make([]YearCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, YearCount{Year: g.Key, Count: g.Count})
	}
	return out
}

// topCauses groups deaths by cause id and keeps the n largest. Labels come
// from the cause table, falling back to the legacy label on the record.
func (r *Reporter) topCauses(ctx context.Context, deaths []models.Death, n int) ([]EntityCount, error) {
	legacy := map[int64]string{}
	groups := aggregate.CountBy(deaths, func(d *models.Death) (int64, bool) {
		if d.CauseID == nil {
			return 0, false
		}
		if _, ok := legacy[*d.CauseID]; !ok {
			legacy[*d.CauseID] = d.Labels.Cause
		}
		return *d.CauseID, true
	})
	top := aggregate.TopN(groups, n)
	return r.entityCounts(ctx, models.KindCause, top, legacy)
}

// entityCounts labels id groups with the rows of kind.
func (r *Reporter) entityCounts(ctx context.Context, kind models.DimensionKind, groups []aggregate.Group[int64], fallback map[int64]string) ([]EntityCount, error) {
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.Key)
	}
	labels, err := r.labels(ctx, kind, ids)
	if err != nil {
		return nil, err
	}
	out := make([]EntityCount, 0, len(groups))
	for _, g := range groups {
		label, ok := labels[g.Key]
		if !ok {
			label = fallback[g.Key]
		}
		out = append(out, EntityCount{ID: g.Key, Label: label, Count: g.Count})
	}
	return out, nil
}

func regionIDs[T any](records []T, region func(*T) *int64) []int64 {
	var ids []int64
	seen := map[int64]bool{}
	for i := range records {
		if id := region(&records[i]); id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ClampCauseLimit applies the default and the bounds of the top-causes
// series.
func ClampCauseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultCauseLimit
	}
	return min(n, MaxCauseLimit)
}

// DeathsByYear counts the deaths matching c per year, latest year first.
func (r *Reporter) DeathsByYear(ctx context.Context, c filter.Criteria) ([]YearCount, error) {
	return cached(ctx, r, "deces_par_annee", cacheKey("deces_par_annee", c), func(ctx context.Context) ([]YearCount, error) {
		deaths, err := r.source.Deaths(ctx, c)
		if err != nil {
			return nil, failed(err, "deaths by year")
		}
		return yearCounts(deathYears(deaths)), nil
	})
}

// BirthsByYear counts the births matching c per year, latest year first.
func (r *Reporter) BirthsByYear(ctx context.Context, c filter.Criteria) ([]YearCount, error) {
	return cached(ctx, r, "naissances_par_annee", cacheKey("naissances_par_annee", c), func(ctx context.Context) ([]YearCount, error) {
		births, err := r.source.Births(ctx, c)
		if err != nil {
			return nil, failed(err, "births by year")
		}
		return yearCounts(birthYears(births)), nil
	})
}

// AgePyramid histograms the deaths matching c by age band and sex.
func (r *Reporter) AgePyramid(ctx context.Context, c filter.Criteria) ([]aggregate.PyramidCell, error) {
	return cached(ctx, r, "pyramide_ages", cacheKey("pyramide_ages", c), func(ctx context.Context) ([]aggregate.PyramidCell, error) {
		deaths, err := r.source.Deaths(ctx, c)
		if err != nil {
			return nil, failed(err, "age pyramid")
		}
		return aggregate.Pyramid(deaths), nil
	})
}

// TopCauses returns the limit most frequent causes among the deaths matching
// c. limit is clamped to [1, MaxCauseLimit]; 0 selects the default.
func (r *Reporter) TopCauses(ctx context.Context, c filter.Criteria, limit int) ([]EntityCount, error) {
	switch {
	case limit <= 0:
		limit = DefaultCauseLimit
	case limit > MaxCauseLimit:
		limit = MaxCauseLimit
	}
	key := cacheKey("causes_deces", c, strconv.Itoa(limit))
	return cached(ctx, r, "causes_deces", key, func(ctx context.Context) ([]EntityCount, error) {
		deaths, err := r.source.Deaths(ctx, c)
		if err != nil {
			return nil, failed(err, "top causes")
		}
		top, err := r.topCauses(ctx, deaths, limit)
		if err != nil {
			return nil, failed(err, "top causes")
		}
		return top, nil
	})
}

// NatalityByRegion breaks the births matching c down per region.
func (r *Reporter) NatalityByRegion(ctx context.Context, c filter.Criteria) ([]aggregate.NatalityRow, error) {
	return cached(ctx, r, "taux_natalite", cacheKey("taux_natalite", c), func(ctx context.Context) ([]aggregate.NatalityRow, error) {
		births, err := r.source.Births(ctx, c)
		if err != nil {
			return nil, failed(err, "natality by region")
		}
		labels, err := r.labels(ctx, models.KindRegion, regionIDs(births, func(b *models.Birth) *int64 { return b.RegionID }))
		if err != nil {
			return nil, failed(err, "natality by region")
		}
		return aggregate.NatalityByRegion(births, labels), nil
	})
}

// MortalityByRegion breaks the deaths matching c down per region.
func (r *Reporter) MortalityByRegion(ctx context.Context, c filter.Criteria) ([]aggregate.MortalityRow, error) {
	return cached(ctx, r, "taux_mortalite", cacheKey("taux_mortalite", c), func(ctx context.Context) ([]aggregate.MortalityRow, error) {
		deaths, err := r.source.Deaths(ctx, c)
		if err != nil {
			return nil, failed(err, "mortality by region")
		}
		labels, err := r.labels(ctx, models.KindRegion, regionIDs(deaths, func(d *models.Death) *int64 { return d.RegionID }))
		if err != nil {
			return nil, failed(err, "mortality by region")
		}
		return aggregate.MortalityByRegion(deaths, labels), nil
	})
}
