package aggregate

import (
	"cmp"
	"slices"

	"etatcivil/internal/registry/models"
)

// AgeBand is one fixed age range. Max < 0 marks the open upper band.
type AgeBand struct {
	Key   string `json:"tranche"`
	Label string `json:"libelle"`
	Min   int    `json:"age_min"`
	Max   int    `json:"age_max"`
}

// UndefinedBand labels a record whose age cannot be computed.
var UndefinedBand = AgeBand{Key: "undefined", Label: "Non défini", Min: -1, Max: -1}

// AgeBands are ordered by increasing minimum age and cover every age >= 0
// exactly once.
var AgeBands = []AgeBand{
	{Key: "<1", Label: "0-1 an", Min: 0, Max: 0},
	{Key: "1-4", Label: "1-4 ans", Min: 1, Max: 4},
	{Key: "5-14", Label: "5-14 ans", Min: 5, Max: 14},
	{Key: "15-24", Label: "15-24 ans", Min: 15, Max: 24},
	{Key: "25-34", Label: "25-34 ans", Min: 25, Max: 34},
	{Key: "35-44", Label: "35-44 ans", Min: 35, Max: 44},
	{Key: "45-54", Label: "45-54 ans", Min: 45, Max: 54},
	{Key: "55-64", Label: "55-64 ans", Min: 55, Max: 64},
	{Key: "65+", Label: "65+ ans", Min: 65, Max: -1},
}

// BandFor returns the band containing age. Negative ages have no band.
func BandFor(age int) (AgeBand, bool) {
	if age < 0 {
		return AgeBand{}, false
	}
	for _, b := range AgeBands {
		if age >= b.Min && (b.Max < 0 || age <= b.Max) {
			return b, true
		}
	}
	return AgeBand{}, false
}

// ClassifyAge maps an event year and a birth year to a band. Missing inputs,
// or a birth year after the event, yield UndefinedBand.
func ClassifyAge(eventYear, birthYear *int) AgeBand {
	if eventYear == nil || birthYear == nil {
		return UndefinedBand
	}
	if b, ok := BandFor(*eventYear - *birthYear); ok {
		return b
	}
	return UndefinedBand
}

// bandOrder returns the position of key in AgeBands, undefined last.
func bandOrder(key string) int {
	for i, b := range AgeBands {
		if b.Key == key {
			return i
		}
	}
	return len(AgeBands)
}

// PyramidCell is the count of records for one (band, sex) pair.
type PyramidCell struct {
	Band  string     `json:"tranche"`
	Label string     `json:"libelle"`
	Sex   models.Sex `json:"sexe"`
	Count int        `json:"count"`
}

// Pyramid histograms deaths by (age band, sex). Records missing the death
// year, the birth year or the sex, and records with a negative age, are left
// out. Cells are ordered by band then sex.
func Pyramid(deaths []models.Death) []PyramidCell {
	type cellKey struct {
		band string
		sex  models.Sex
	}
	counts := map[cellKey]int{}
	labels := map[string]string{}
	for i := range deaths {
		d := &deaths[i]
		if d.Sex == nil {
			continue
		}
		age, ok := d.AgeAtDeath()
		if !ok {
			continue
		}
		band, ok := BandFor(age)
		if !ok {
			continue
		}
		counts[cellKey{band.Key, *d.Sex}]++
		labels[band.Key] = band.Label
	}

	cells := make([]PyramidCell, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, PyramidCell{Band: k.band, Label: labels[k.band], Sex: k.sex, Count: n})
	}
	slices.SortFunc(cells, func(a, b PyramidCell) int {
		if c := cmp.Compare(bandOrder(a.Band), bandOrder(b.Band)); c != 0 {
			return c
		}
		return cmp.Compare(a.Sex, b.Sex)
	})
	return cells
}
