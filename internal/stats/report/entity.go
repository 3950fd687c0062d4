package report

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/stats/aggregate"
)

const (
	entityEvolutionYears = 10
	entityTopCauses      = 10
)

// EntityStatistics is the statistics bundle of one region or district.
// Evolution covers the last ten years with data regardless of the year; the
// other sections honour it.
type EntityStatistics struct {
	Entity     models.Dimension        `json:"entite"`
	Filters    map[string]any          `json:"filtres_appliques"`
	Indicators aggregate.Indicators    `json:"indicateurs"`
	Quick      QuickCounts             `json:"statistiques_rapides"`
	Evolution  []YearPoint             `json:"evolution_annuelle"`
	Monthly    []MonthPoint            `json:"evolution_mensuelle"`
	BySex      SexBreakdown            `json:"repartition_sexe"`
	TopCauses  []EntityCount           `json:"top_causes"`
	Health     HealthIndicators        `json:"indicateurs_sante"`
	Pyramid    []aggregate.PyramidCell `json:"pyramide_ages"`
	Units      []UnitBreakdown         `json:"repartition_unites"`
	Trends     aggregate.Trends        `json:"tendances"`
}

// QuickCounts summarise the units directly below the entity.
type QuickCounts struct {
	ChildUnits    int          `json:"unites_enfants"`
	UnitsWithData int          `json:"unites_avec_donnees"`
	MostActive    *EntityCount `json:"unite_plus_active"`
}

// MonthPoint holds both fact counts of one calendar month.
type MonthPoint struct {
	Month  int `json:"mois"`
	Deaths int `json:"deces"`
	Births int `json:"naissances"`
}

type SexBreakdown struct {
	Deaths []SexCount `json:"deces"`
	Births []SexCount `json:"naissances"`
}

// UnitBreakdown is one child unit's share of the entity's events.
type UnitBreakdown struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Label           string `json:"libelle"`
	Deaths          int    `json:"deces"`
	Births          int    `json:"naissances"`
	NaturalIncrease int    `json:"solde_naturel"`
}

// RegionStatistics builds the bundle of one region; its units are districts.
func (r *Reporter) RegionStatistics(ctx context.Context, id int64, scope Scope) (*EntityStatistics, error) {
	return r.entityStatistics(ctx, models.KindRegion, id, scope)
}

// DistrictStatistics builds the bundle of one district; its units are
// communes.
func (r *Reporter) DistrictStatistics(ctx context.Context, id int64, scope Scope) (*EntityStatistics, error) {
	return r.entityStatistics(ctx, models.KindDistrict, id, scope)
}

// entityLocator reads the geographic ids that place a record inside an entity
// of one kind and inside one of its child units.
type entityLocator struct {
	criteria    func(id int64) filter.Criteria
	deathUnit   func(*models.Death) *int64
	birthUnit   func(*models.Birth) *int64
	filterParam string
}

var locators = map[models.DimensionKind]entityLocator{
	models.KindRegion: {
		criteria:    func(id int64) filter.Criteria { return filter.Criteria{RegionID: &id} },
		deathUnit:   func(d *models.Death) *int64 { return d.DistrictID },
		birthUnit:   func(b *models.Birth) *int64 { return b.DistrictID },
		filterParam: filter.ParamRegion,
	},
	models.KindDistrict: {
		criteria:    func(id int64) filter.Criteria { return filter.Criteria{DistrictID: &id} },
		deathUnit:   func(d *models.Death) *int64 { return d.CommuneID },
		birthUnit:   func(b *models.Birth) *int64 { return b.CommuneID },
		filterParam: filter.ParamDistrict,
	},
}

func (r *Reporter) entityStatistics(ctx context.Context, kind models.DimensionKind, id int64, scope Scope) (*EntityStatistics, error) {
	report := string(kind) + "_statistiques"
	c := filter.Criteria{Year: scope.Year}
	key := cacheKey(report, c, idPart(&id))
	return cached(ctx, r, report, key, func(ctx context.Context) (*EntityStatistics, error) {
		entity, err := r.findEntity(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		out, err := r.buildEntityStatistics(ctx, entity, scope)
		if err != nil {
			return nil, failed(err, report)
		}
		return out, nil
	})
}

func (r *Reporter) buildEntityStatistics(ctx context.Context, entity *models.Dimension, scope Scope) (*EntityStatistics, error) {
	loc := locators[entity.Kind]
	childKind, _ := entity.Kind.ChildKind()

	var (
		all   facts
		units []models.DimensionSummary
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		all, err = r.loadFacts(egCtx, loc.criteria(entity.ID))
		return err
	})
	eg.Go(func() error {
		var err error
		units, _, err = r.source.ListDimensions(egCtx, models.DimensionQuery{Kind: childKind, ParentID: &entity.ID})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	scoped := all.inYear(scope.Year)
	filters := filter.Criteria{Year: scope.Year}.Applied()
	filters[loc.filterParam] = entity.ID

	causes, err := r.topCauses(ctx, scoped.deaths, entityTopCauses)
	if err != nil {
		return nil, err
	}

	deathUnits := aggregate.CountBy(scoped.deaths, aggregate.Deref(loc.deathUnit))
	birthUnits := aggregate.CountBy(scoped.births, aggregate.Deref(loc.birthUnit))
	breakdown := unitBreakdown(units, deathUnits, birthUnits)

	return &EntityStatistics{
		Entity:     *entity,
		Filters:    filters,
		Indicators: aggregate.ComputeIndicators(len(scoped.births), len(scoped.deaths)),
		Quick:      quickCounts(units, breakdown, deathUnits, birthUnits),
		Evolution:  evolution(all, entityEvolutionYears),
		Monthly:    monthly(scoped),
		BySex: SexBreakdown{
			Deaths: sexCounts(scoped.deaths, func(d *models.Death) *models.Sex { return d.Sex }),
			Births: sexCounts(scoped.births, func(b *models.Birth) *models.Sex { return b.ChildSex }),
		},
		TopCauses: causes,
		Health:    healthIndicators(scoped),
		Pyramid:   aggregate.Pyramid(scoped.deaths),
		Units:     breakdown,
		Trends:    aggregate.ComputeTrends(birthYears(all.births), deathYears(all.deaths)),
	}, nil
}

// unitBreakdown lists every child unit, busiest first. Units without events
// are kept in label order at the end.
func unitBreakdown(units []models.DimensionSummary, deaths, births []aggregate.Group[int64]) []UnitBreakdown {
	out := make([]UnitBreakdown, 0, len(units))
	for _, u := range units {
		d, b := aggregate.CountOf(deaths, u.ID), aggregate.CountOf(births, u.ID)
		out = append(out, UnitBreakdown{
			ID:              u.ID,
			Code:            u.Code,
			Label:           u.Label,
			Deaths:          d,
			Births:          b,
			NaturalIncrease: aggregate.NaturalIncrease(b, d),
		})
	}
	slices.SortStableFunc(out, func(a, b UnitBreakdown) int {
		return cmp.Compare(b.Deaths+b.Births, a.Deaths+a.Births)
	})
	return out
}

func quickCounts(units []models.DimensionSummary, breakdown []UnitBreakdown, deaths, births []aggregate.Group[int64]) QuickCounts {
	q := QuickCounts{ChildUnits: len(units)}
	for _, u := range breakdown {
		if u.Deaths+u.Births > 0 {
			q.UnitsWithData++
		}
	}
	if top, ok := aggregate.MostActive(deaths, births); ok {
		label := ""
		for _, u := range units {
			if u.ID == top.Key {
				label = u.Label
				break
			}
		}
		q.MostActive = &EntityCount{ID: top.Key, Label: label, Count: top.Count}
	}
	return q
}

// monthly counts both fact types per month 1..12. Records without a month
// are left out.
func monthly(f facts) []MonthPoint {
	deaths := aggregate.ToMap(aggregate.CountBy(f.deaths, aggregate.Deref(func(d *models.Death) *int { return d.Date.Month })))
	births := aggregate.ToMap(aggregate.CountBy(f.births, aggregate.Deref(func(b *models.Birth) *int { return b.Date.Month })))
	out := make([]MonthPoint, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, MonthPoint{Month: m, Deaths: deaths[m], Births: births[m]})
	}
	return out
}
