package report

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"etatcivil/internal/registry/models"
	"etatcivil/internal/stats/aggregate"
)

const (
	dashboardTopRegions = 10
	dashboardTopCauses  = 8
)

// Dashboard is the national (or geo-scoped) overview.
type Dashboard struct {
	Filters      map[string]any   `json:"filtres_appliques"`
	KPIs         KPIs             `json:"kpis"`
	Evolution    []YearPoint      `json:"evolution_temps"`
	Demographics Demographics     `json:"repartition_demographique"`
	Health       HealthIndicators `json:"indicateurs_sante"`
	Geography    Geography        `json:"repartition_geographique"`
	TopCauses    []EntityCount    `json:"top_causes"`
	AreaTypes    []AreaSplit      `json:"repartition_milieu"`
	Trends       aggregate.Trends `json:"tendances"`
}

// KPIs are the headline indicators plus the size of the territory tables.
type KPIs struct {
	aggregate.Indicators
	Regions   int `json:"total_regions"`
	Districts int `json:"total_districts"`
	Communes  int `json:"total_communes"`
}

// YearPoint holds both fact counts of one year.
type YearPoint struct {
	Year   int `json:"annee"`
	Deaths int `json:"deces"`
	Births int `json:"naissances"`
}

// SexCount is the count of one sex value.
type SexCount struct {
	Sex   models.Sex `json:"sexe"`
	Label string     `json:"libelle"`
	Count int        `json:"total"`
}

type Demographics struct {
	DeathsBySex []SexCount              `json:"deces_par_sexe"`
	BirthsBySex []SexCount              `json:"naissances_par_sexe"`
	Pyramid     []aggregate.PyramidCell `json:"pyramide_ages"`
}

// HealthIndicators split births by medical assistance and deaths by place.
// In DeathPlace, oui counts deaths in a health facility and non deaths at
// home.
type HealthIndicators struct {
	MedicalAssistance aggregate.FlagSplit `json:"assistance_medicale"`
	DeathPlace        aggregate.FlagSplit `json:"lieu_deces"`
}

type Geography struct {
	DeathsByRegion []EntityCount `json:"deces_par_region"`
	BirthsByRegion []EntityCount `json:"naissances_par_region"`
}

// AreaSplit counts both fact types for one area type.
type AreaSplit struct {
	AreaType models.AreaType `json:"milieu"`
	Label    string          `json:"libelle"`
	Deaths   int             `json:"deces"`
	Births   int             `json:"naissances"`
}

// Dashboard builds the overview for scope. The yearly evolution and the
// trends cover every year of the geographic scope; every other section
// honours the year.
func (r *Reporter) Dashboard(ctx context.Context, scope Scope) (*Dashboard, error) {
	return cached(ctx, r, "dashboard", cacheKey("dashboard", scope.criteria()), func(ctx context.Context) (*Dashboard, error) {
		d, err := r.buildDashboard(ctx, scope)
		if err != nil {
			return nil, failed(err, "dashboard")
		}
		return d, nil
	})
}

func (r *Reporter) buildDashboard(ctx context.Context, scope Scope) (*Dashboard, error) {
	var (
		all facts
		kpi KPIs
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		all, err = r.loadFacts(egCtx, scope.geo())
		return err
	})
	counts := []struct {
		kind models.DimensionKind
		dst  *int
	}{
		{models.KindRegion, &kpi.Regions},
		{models.KindDistrict, &kpi.Districts},
		{models.KindCommune, &kpi.Communes},
	}
	for _, c := range counts {
		eg.Go(func() error {
			n, err := r.source.CountDimensions(egCtx, c.kind)
			*c.dst = n
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	scoped := all.inYear(scope.Year)
	kpi.Indicators = aggregate.ComputeIndicators(len(scoped.births), len(scoped.deaths))

	out := &Dashboard{
		Filters:   scope.Applied(),
		KPIs:      kpi,
		Evolution: evolution(all, 0),
		Demographics: Demographics{
			DeathsBySex: sexCounts(scoped.deaths, func(d *models.Death) *models.Sex { return d.Sex }),
			BirthsBySex: sexCounts(scoped.births, func(b *models.Birth) *models.Sex { return b.ChildSex }),
			Pyramid:     aggregate.Pyramid(scoped.deaths),
		},
		Health:    healthIndicators(scoped),
		AreaTypes: areaSplits(scoped),
		Trends:    aggregate.ComputeTrends(birthYears(all.births), deathYears(all.deaths)),
	}

	eg, egCtx = errgroup.WithContext(ctx)
	eg.Go(func() error {
		groups := aggregate.TopN(aggregate.CountBy(scoped.deaths, aggregate.Deref(func(d *models.Death) *int64 { return d.RegionID })), dashboardTopRegions)
		var err error
		out.Geography.DeathsByRegion, err = r.entityCounts(egCtx, models.KindRegion, groups, nil)
		return err
	})
	eg.Go(func() error {
		groups := aggregate.TopN(aggregate.CountBy(scoped.births, aggregate.Deref(func(b *models.Birth) *int64 { return b.RegionID })), dashboardTopRegions)
		var err error
		out.Geography.BirthsByRegion, err = r.entityCounts(egCtx, models.KindRegion, groups, nil)
		return err
	})
	eg.Go(func() error {
		var err error
		out.TopCauses, err = r.topCauses(egCtx, scoped.deaths, dashboardTopCauses)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// evolution merges both per-year series, latest year first. limit > 0 keeps
// the most recent limit years.
func evolution(f facts, limit int) []YearPoint {
	deaths := aggregate.ToMap(deathYears(f.deaths))
	births := aggregate.ToMap(birthYears(f.births))
	years := make([]int, 0, len(deaths)+len(births))
	for y := range deaths {
		years = append(years, y)
	}
	for y := range births {
		if _, ok := deaths[y]; !ok {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	if limit > 0 && len(years) > limit {
		years = years[:limit]
	}
	out := make([]YearPoint, 0, len(years))
	for _, y := range years {
		out = append(out, YearPoint{Year: y, Deaths: deaths[y], Births: births[y]})
	}
	return out
}

func sexCounts[T any](records []T, sex func(*T) *models.Sex) []SexCount {
	groups := aggregate.CountBy(records, aggregate.Deref(sex))
	out := make([]SexCount, 0, 2)
	for _, s := range []models.Sex{models.SexMale, models.SexFemale} {
		out = append(out, SexCount{Sex: s, Label: s.Label(), Count: aggregate.CountOf(groups, s)})
	}
	return out
}

func healthIndicators(f facts) HealthIndicators {
	return HealthIndicators{
		MedicalAssistance: aggregate.SplitFlag(f.births, func(b *models.Birth) *int { return b.MedicalAssistance }, models.AssistanceYes, models.AssistanceNo),
		DeathPlace:        aggregate.SplitFlag(f.deaths, func(d *models.Death) *int { return d.Place }, models.PlaceHealthFacility, models.PlaceHome),
	}
}

func areaSplits(f facts) []AreaSplit {
	deaths := aggregate.CountBy(f.deaths, aggregate.Deref(func(d *models.Death) *models.AreaType { return d.AreaType }))
	births := aggregate.CountBy(f.births, aggregate.Deref(func(b *models.Birth) *models.AreaType { return b.AreaType }))
	out := make([]AreaSplit, 0, 2)
	for _, a := range []models.AreaType{models.AreaUrban, models.AreaRural} {
		out = append(out, AreaSplit{
			AreaType: a,
			Label:    a.Label(),
			Deaths:   aggregate.CountOf(deaths, a),
			Births:   aggregate.CountOf(births, a),
		})
	}
	return out
}
