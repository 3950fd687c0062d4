package aggregate

import (
	"cmp"
	"slices"

	"etatcivil/pkg/platform/numeric"
)

// EntityTotals are the inputs of one compared entity. ChildUnits and LeafUnits
// are the next two levels of the hierarchy below it (districts and communes
// for a region, communes and fokontany for a district).
type EntityTotals struct {
	ID          int64
	Code        string
	Label       string
	ParentLabel string
	Deaths      int
	Births      int
	ChildUnits  int
	LeafUnits   int
}

// Structure describes the administrative make-up of an entity.
type Structure struct {
	ChildUnits            int     `json:"unites_enfants"`
	LeafUnits             int     `json:"unites_base"`
	AdministrativeDensity float64 `json:"densite_administrative"`
}

// ComparisonEntry is the per-entity row of a comparison.
type ComparisonEntry struct {
	ID                   int64     `json:"id"`
	Code                 string    `json:"code"`
	Label                string    `json:"libelle"`
	ParentLabel          string    `json:"parent,omitempty"`
	Deaths               int       `json:"deces"`
	Births               int       `json:"naissances"`
	NaturalIncrease      int       `json:"solde_naturel"`
	GrowthRatePct        float64   `json:"taux_accroissement"`
	EventDensity         int       `json:"densite_evenements"`
	Structure            Structure `json:"structure"`
	DemographicIntensity float64   `json:"intensite_demographique"`
}

// RankEntry is one position in a ranking.
type RankEntry struct {
	Rank  int     `json:"rang"`
	ID    int64   `json:"id"`
	Label string  `json:"libelle"`
	Value float64 `json:"valeur"`
}

// Rankings are three independent orderings of the compared entities.
type Rankings struct {
	ByDeaths []RankEntry `json:"par_deces"`
	ByBirths []RankEntry `json:"par_naissances"`
	ByGrowth []RankEntry `json:"par_accroissement"`
}

// Summary holds the extremes and simple averages of a comparison.
type Summary struct {
	Count           int        `json:"nombre_entites"`
	HighestByDeaths *RankEntry `json:"plus_peuplee"`
	LowestByDeaths  *RankEntry `json:"moins_peuplee"`
	MostDynamic     *RankEntry `json:"plus_dynamique"`
	AverageDeaths   float64    `json:"moyenne_deces"`
	AverageBirths   float64    `json:"moyenne_naissances"`
}

// Comparison is the full cross-entity bundle.
type Comparison struct {
	Year     int               `json:"annee"`
	Entries  []ComparisonEntry `json:"entites"`
	Rankings Rankings          `json:"classements"`
	Summary  Summary           `json:"synthese"`
}

// Compare builds the comparison for ids in request order. Ids missing from
// totals are skipped, as are repeated ids.
func Compare(ids []int64, totals map[int64]EntityTotals, year int) Comparison {
	out := Comparison{Year: year, Entries: []ComparisonEntry{}}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		t, ok := totals[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out.Entries = append(out.Entries, compareEntry(t))
	}

	out.Rankings = Rankings{
		ByDeaths: rank(out.Entries, func(e ComparisonEntry) float64 { return float64(e.Deaths) }),
		ByBirths: rank(out.Entries, func(e ComparisonEntry) float64 { return float64(e.Births) }),
		ByGrowth: rank(out.Entries, func(e ComparisonEntry) float64 { return e.GrowthRatePct }),
	}
	out.Summary = summarize(out.Entries, out.Rankings)
	return out
}

func compareEntry(t EntityTotals) ComparisonEntry {
	events := t.Births + t.Deaths
	return ComparisonEntry{
		ID:              t.ID,
		Code:            t.Code,
		Label:           t.Label,
		ParentLabel:     t.ParentLabel,
		Deaths:          t.Deaths,
		Births:          t.Births,
		NaturalIncrease: NaturalIncrease(t.Births, t.Deaths),
		GrowthRatePct:   GrowthRate(t.Births, t.Deaths),
		EventDensity:    events,
		Structure: Structure{
			ChildUnits:            t.ChildUnits,
			LeafUnits:             t.LeafUnits,
			AdministrativeDensity: Ratio(t.ChildUnits, t.LeafUnits),
		},
		DemographicIntensity: Ratio(events, t.LeafUnits),
	}
}

// rank orders entries by descending value; ties keep request order.
func rank(entries []ComparisonEntry, value func(ComparisonEntry) float64) []RankEntry {
	out := make([]RankEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, RankEntry{ID: e.ID, Label: e.Label, Value: value(e)})
	}
	slices.SortStableFunc(out, func(a, b RankEntry) int {
		return cmp.Compare(b.Value, a.Value)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func summarize(entries []ComparisonEntry, r Rankings) Summary {
	s := Summary{Count: len(entries)}
	if len(entries) == 0 {
		return s
	}
	highest, lowest, dynamic := r.ByDeaths[0], r.ByDeaths[len(r.ByDeaths)-1], r.ByGrowth[0]
	s.HighestByDeaths, s.LowestByDeaths, s.MostDynamic = &highest, &lowest, &dynamic

	var deaths, births []float64
	for _, e := range entries {
		deaths = append(deaths, float64(e.Deaths))
		births = append(births, float64(e.Births))
	}
	s.AverageDeaths = numeric.Mean(deaths)
	s.AverageBirths = numeric.Mean(births)
	return s
}
