package aggregate

import "etatcivil/pkg/platform/numeric"

// NaturalIncrease is births minus deaths.
func NaturalIncrease(births, deaths int) int {
	return births - deaths
}

// GrowthRate is births/deaths as a percentage, 0 when there are no deaths.
func GrowthRate(births, deaths int) float64 {
	return numeric.Percent(births, deaths)
}

// Rate is part/total as a percentage, 0 when total is 0. It backs the medical
// assistance rate, the hospital death rate and the urban share.
func Rate(part, total int) float64 {
	return numeric.Percent(part, total)
}

// Share is a/(a+b) as a percentage: the mortality share of all events uses
// (deaths, births), the natality share (births, deaths).
func Share(a, b int) float64 {
	return numeric.Percent(a, a+b)
}

// Ratio is num/den rounded to two decimals, 0 when den is 0.
func Ratio(num, den int) float64 {
	return numeric.Div(num, den)
}

// Indicators are the headline figures for one scope.
type Indicators struct {
	Deaths          int     `json:"total_deces"`
	Births          int     `json:"total_naissances"`
	NaturalIncrease int     `json:"solde_naturel"`
	GrowthRatePct   float64 `json:"taux_accroissement"`
	MortalityShare  float64 `json:"taux_mortalite"`
	NatalityShare   float64 `json:"taux_natalite"`
	BirthDeathRatio float64 `json:"ratio_naissance_deces"`
	EventDensity    int     `json:"densite_evenements"`
}

// ComputeIndicators derives the headline figures from the two totals.
func ComputeIndicators(births, deaths int) Indicators {
	return Indicators{
		Deaths:          deaths,
		Births:          births,
		NaturalIncrease: NaturalIncrease(births, deaths),
		GrowthRatePct:   GrowthRate(births, deaths),
		MortalityShare:  Share(deaths, births),
		NatalityShare:   Share(births, deaths),
		BirthDeathRatio: Ratio(births, deaths),
		EventDensity:    births + deaths,
	}
}

// FlagSplit counts a coded 1/2 flag and derives the rate of the first value.
type FlagSplit struct {
	Yes  int     `json:"oui"`
	No   int     `json:"non"`
	Rate float64 `json:"taux"`
}

// SplitFlag counts records whose flag is yes or no; other values and nulls
// are ignored. Rate is yes/(yes+no).
func SplitFlag[T any](records []T, flag func(*T) *int, yes, no int) FlagSplit {
	var s FlagSplit
	for i := range records {
		v := flag(&records[i])
		switch {
		case v == nil:
		case *v == yes:
			s.Yes++
		case *v == no:
			s.No++
		}
	}
	s.Rate = Rate(s.Yes, s.Yes+s.No)
	return s
}

// Average is the two-decimal mean of the non-null values, 0 when none.
func Average[T any](records []T, value func(*T) (float64, bool)) float64 {
	var vals []float64
	for i := range records {
		if v, ok := value(&records[i]); ok {
			vals = append(vals, v)
		}
	}
	return numeric.Mean(vals)
}
