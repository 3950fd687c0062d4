package aggregate

import (
	"cmp"
	"slices"

	"etatcivil/internal/registry/models"
)

// NatalityRow is the per-region natality breakdown.
type NatalityRow struct {
	RegionID          int64   `json:"region_id"`
	Region            string  `json:"region"`
	Births            int     `json:"total_naissances"`
	AverageMotherAge  float64 `json:"age_moyen_mere"`
	AverageFatherAge  float64 `json:"age_moyen_pere"`
	Boys              int     `json:"garcons"`
	Girls             int     `json:"filles"`
	MedicallyAssisted int     `json:"assistes_medicalement"`
}

// MortalityRow is the per-region mortality breakdown.
type MortalityRow struct {
	RegionID          int64   `json:"region_id"`
	Region            string  `json:"region"`
	Deaths            int     `json:"total_deces"`
	AverageAgeAtDeath float64 `json:"age_moyen_deces"`
	Men               int     `json:"hommes"`
	Women             int     `json:"femmes"`
	HealthFacility    int     `json:"hopital"`
	Home              int     `json:"domicile"`
}

// NatalityByRegion groups births by region id. Births without a region are
// left out. Rows are ordered by descending births; ties keep first-appearance
// order. labels supplies the region names and may be nil.
func NatalityByRegion(births []models.Birth, labels map[int64]string) []NatalityRow {
	buckets := bucketByRegion(births, func(b *models.Birth) *int64 { return b.RegionID })
	rows := make([]NatalityRow, 0, len(buckets))
	for _, bk := range buckets {
		recs := bk.records
		rows = append(rows, NatalityRow{
			RegionID:          bk.id,
			Region:            labels[bk.id],
			Births:            len(recs),
			AverageMotherAge:  Average(recs, intValue(func(b *models.Birth) *int { return b.MotherAge })),
			AverageFatherAge:  Average(recs, intValue(func(b *models.Birth) *int { return b.FatherAge })),
			Boys:              Count(recs, func(b *models.Birth) bool { return isSex(b.ChildSex, models.SexMale) }),
			Girls:             Count(recs, func(b *models.Birth) bool { return isSex(b.ChildSex, models.SexFemale) }),
			MedicallyAssisted: Count(recs, func(b *models.Birth) bool { return isFlag(b.MedicalAssistance, models.AssistanceYes) }),
		})
	}
	slices.SortStableFunc(rows, func(a, b NatalityRow) int { return cmp.Compare(b.Births, a.Births) })
	return rows
}

// MortalityByRegion groups deaths by region id, ordered like NatalityByRegion.
// The average age at death only uses records with a non-negative age.
func MortalityByRegion(deaths []models.Death, labels map[int64]string) []MortalityRow {
	buckets := bucketByRegion(deaths, func(d *models.Death) *int64 { return d.RegionID })
	rows := make([]MortalityRow, 0, len(buckets))
	for _, bk := range buckets {
		recs := bk.records
		rows = append(rows, MortalityRow{
			RegionID: bk.id,
			Region:   labels[bk.id],
			Deaths:   len(recs),
			AverageAgeAtDeath: Average(recs, func(d *models.Death) (float64, bool) {
				age, ok := d.AgeAtDeath()
				return float64(age), ok && age >= 0
			}),
			Men:            Count(recs, func(d *models.Death) bool { return isSex(d.Sex, models.SexMale) }),
			Women:          Count(recs, func(d *models.Death) bool { return isSex(d.Sex, models.SexFemale) }),
			HealthFacility: Count(recs, func(d *models.Death) bool { return isFlag(d.Place, models.PlaceHealthFacility) }),
			Home:           Count(recs, func(d *models.Death) bool { return isFlag(d.Place, models.PlaceHome) }),
		})
	}
	slices.SortStableFunc(rows, func(a, b MortalityRow) int { return cmp.Compare(b.Deaths, a.Deaths) })
	return rows
}

// Merge adds the counts of b into a. Keys keep the order in which they first
// appear in a then b.
func Merge[K comparable](a, b []Group[K]) []Group[K] {
	out := slices.Clone(a)
	index := make(map[K]int, len(out))
	for i, g := range out {
		index[g.Key] = i
	}
	for _, g := range b {
		if pos, ok := index[g.Key]; ok {
			out[pos].Count += g.Count
			continue
		}
		index[g.Key] = len(out)
		out = append(out, g)
	}
	return out
}

// MostActive returns the key with the most combined events across both
// series. It reports false when both are empty.
func MostActive[K comparable](deaths, births []Group[K]) (Group[K], bool) {
	top := TopN(Merge(deaths, births), 1)
	if len(top) == 0 {
		return Group[K]{}, false
	}
	return top[0], true
}

type regionBucket[T any] struct {
	id      int64
	records []T
}

func bucketByRegion[T any](records []T, region func(*T) *int64) []regionBucket[T] {
	index := map[int64]int{}
	var out []regionBucket[T]
	for i := range records {
		id := region(&records[i])
		if id == nil {
			continue
		}
		pos, ok := index[*id]
		if !ok {
			pos = len(out)
			index[*id] = pos
			out = append(out, regionBucket[T]{id: *id})
		}
		out[pos].records = append(out[pos].records, records[i])
	}
	return out
}

func intValue[T any](field func(*T) *int) func(*T) (float64, bool) {
	return func(r *T) (float64, bool) {
		v := field(r)
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
}

func isSex(s *models.Sex, want models.Sex) bool { return s != nil && *s == want }

func isFlag(v *int, want int) bool { return v != nil && *v == want }
