package aggregate

import "etatcivil/pkg/platform/numeric"

// Trend thresholds, in percent.
const (
	strongTrendThreshold = 5.0
	flatTrendThreshold   = 0.0
)

// Trend compares the two most recent points of a count-by-year series that
// is ordered by descending year: (latest-previous)/previous*100. It is 0 with
// fewer than two points or when previous is 0.
func Trend(series []Group[int]) float64 {
	if len(series) < 2 {
		return 0
	}
	latest, previous := series[0].Count, series[1].Count
	if previous == 0 {
		return 0
	}
	return numeric.Percent(latest-previous, previous)
}

// Interpretation is the qualitative reading of a (births, deaths) trend pair.
type Interpretation struct {
	Key   string `json:"code"`
	Label string `json:"libelle"`
}

var (
	StrongGrowth      = Interpretation{Key: "strong_growth", Label: "Forte croissance démographique positive"}
	ConcerningDecline = Interpretation{Key: "concerning_decline", Label: "Déclin démographique préoccupant"}
	ModerateGrowth    = Interpretation{Key: "moderate_growth", Label: "Croissance démographique modérée"}
	RelativeStability = Interpretation{Key: "relative_stability", Label: "Stabilité démographique relative"}
)

// InterpretTrend classifies the pair of trends. Births up more than 5% with
// deaths down more than 5% is strong growth; the mirror image is a concerning
// decline; births up with deaths down is moderate growth; anything else is
// relative stability.
func InterpretTrend(birthsTrend, deathsTrend float64) Interpretation {
	switch {
	case birthsTrend > strongTrendThreshold && deathsTrend < -strongTrendThreshold:
		return StrongGrowth
	case birthsTrend < -strongTrendThreshold && deathsTrend > strongTrendThreshold:
		return ConcerningDecline
	case birthsTrend > flatTrendThreshold && deathsTrend < flatTrendThreshold:
		return ModerateGrowth
	default:
		return RelativeStability
	}
}

// Trends bundles both trends with their reading.
type Trends struct {
	BirthsTrendPct float64        `json:"tendance_naissances"`
	DeathsTrendPct float64        `json:"tendance_deces"`
	Interpretation Interpretation `json:"interpretation"`
}

// ComputeTrends derives Trends from two year-descending series.
func ComputeTrends(birthsByYear, deathsByYear []Group[int]) Trends {
	b, d := Trend(birthsByYear), Trend(deathsByYear)
	return Trends{BirthsTrendPct: b, DeathsTrendPct: d, Interpretation: InterpretTrend(b, d)}
}
