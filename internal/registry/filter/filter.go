// Package filter turns flat query criteria into a predicate over fact records.
//
// The same Criteria renders two ways with identical semantics: an in-memory
// match used by the memory store and a squirrel WHERE clause used by the
// postgres store. All criteria are optional and AND-combined.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"etatcivil/internal/registry/models"
)

// Criteria is the set of optional constraints recognised for listings and
// statistics.
type Criteria struct {
	Search      string
	Year        *int
	YearStart   *int
	YearEnd     *int
	Month       *int
	RegionID    *int64
	DistrictID  *int64
	CommuneID   *int64
	FokontanyID *int64
	Sex         *models.Sex
	AreaType    *models.AreaType
	// MedicalAssistance applies to births only.
	MedicalAssistance *int
	// CauseID applies to deaths only.
	CauseID *int64
	// AgeMin and AgeMax bound the age at death for deaths and the mother's age
	// for births.
	AgeMin *int
	AgeMax *int
}

// Query parameter names.
const (
	ParamSearch            = "search"
	ParamYear              = "annee"
	ParamYearStart         = "annee_debut"
	ParamYearEnd           = "annee_fin"
	ParamMonth             = "mois"
	ParamRegion            = "region_id"
	ParamDistrict          = "district_id"
	ParamCommune           = "commune_id"
	ParamFokontany         = "fokontany_id"
	ParamSex               = "sexe"
	ParamAreaType          = "milieu"
	ParamMedicalAssistance = "assistance_medicale"
	ParamCause             = "cause_deces_id"
	ParamAgeMin            = "age_min"
	ParamAgeMax            = "age_max"
)

// FromQuery reads criteria from URL parameters. Malformed or out-of-domain
// values leave the criterion unset.
func FromQuery(q url.Values) Criteria {
	c := Criteria{
		Search:            strings.TrimSpace(q.Get(ParamSearch)),
		Year:              positiveInt(q.Get(ParamYear)),
		YearStart:         positiveInt(q.Get(ParamYearStart)),
		YearEnd:           positiveInt(q.Get(ParamYearEnd)),
		Month:             positiveInt(q.Get(ParamMonth)),
		RegionID:          positiveID(q.Get(ParamRegion)),
		DistrictID:        positiveID(q.Get(ParamDistrict)),
		CommuneID:         positiveID(q.Get(ParamCommune)),
		FokontanyID:       positiveID(q.Get(ParamFokontany)),
		MedicalAssistance: positiveInt(q.Get(ParamMedicalAssistance)),
		CauseID:           positiveID(q.Get(ParamCause)),
		AgeMin:            nonNegativeInt(q.Get(ParamAgeMin)),
		AgeMax:            nonNegativeInt(q.Get(ParamAgeMax)),
	}
	if v := positiveInt(q.Get(ParamSex)); v != nil && models.Sex(*v).Valid() {
		s := models.Sex(*v)
		c.Sex = &s
	}
	if v := positiveInt(q.Get(ParamAreaType)); v != nil && models.AreaType(*v).Valid() {
		a := models.AreaType(*v)
		c.AreaType = &a
	}
	return c
}

// Applied returns the criteria that are set, keyed by query parameter name.
func (c Criteria) Applied() map[string]any {
	out := map[string]any{}
	if c.Search != "" {
		out[ParamSearch] = c.Search
	}
	putInt(out, ParamYear, c.Year)
	putInt(out, ParamYearStart, c.YearStart)
	putInt(out, ParamYearEnd, c.YearEnd)
	putInt(out, ParamMonth, c.Month)
	putID(out, ParamRegion, c.RegionID)
	putID(out, ParamDistrict, c.DistrictID)
	putID(out, ParamCommune, c.CommuneID)
	putID(out, ParamFokontany, c.FokontanyID)
	if c.Sex != nil {
		out[ParamSex] = int(*c.Sex)
	}
	if c.AreaType != nil {
		out[ParamAreaType] = int(*c.AreaType)
	}
	putInt(out, ParamMedicalAssistance, c.MedicalAssistance)
	putID(out, ParamCause, c.CauseID)
	putInt(out, ParamAgeMin, c.AgeMin)
	putInt(out, ParamAgeMax, c.AgeMax)
	return out
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return len(c.Applied()) == 0
}

// MatchDeath reports whether d satisfies every set criterion.
func (c Criteria) MatchDeath(d *models.Death) bool {
	if !c.matchCommon(d.Date, d.Geo, d.Sex, d.AreaType) {
		return false
	}
	if c.CauseID != nil && !eqID(d.CauseID, *c.CauseID) {
		return false
	}
	if c.ageBounded() {
		age, ok := d.AgeAtDeath()
		if !ok || !c.ageInRange(age) {
			return false
		}
	}
	if c.Search != "" && !containsAny(c.Search, deathSearchFields(d)...) {
		return false
	}
	return true
}

// MatchBirth reports whether b satisfies every set criterion.
func (c Criteria) MatchBirth(b *models.Birth) bool {
	if !c.matchCommon(b.Date, b.Geo, b.ChildSex, b.AreaType) {
		return false
	}
	if c.MedicalAssistance != nil && !eqInt(b.MedicalAssistance, *c.MedicalAssistance) {
		return false
	}
	if c.ageBounded() {
		if b.MotherAge == nil || !c.ageInRange(*b.MotherAge) {
			return false
		}
	}
	if c.Search != "" && !containsAny(c.Search, birthSearchFields(b)...) {
		return false
	}
	return true
}

func (c Criteria) matchCommon(date models.Date, geo models.Geo, sex *models.Sex, area *models.AreaType) bool {
	if c.Year != nil && !eqInt(date.Year, *c.Year) {
		return false
	}
	if c.YearStart != nil && (date.Year == nil || *date.Year < *c.YearStart) {
		return false
	}
	if c.YearEnd != nil && (date.Year == nil || *date.Year > *c.YearEnd) {
		return false
	}
	if c.Month != nil && !eqInt(date.Month, *c.Month) {
		return false
	}
	if c.RegionID != nil && !eqID(geo.RegionID, *c.RegionID) {
		return false
	}
	if c.DistrictID != nil && !eqID(geo.DistrictID, *c.DistrictID) {
		return false
	}
	if c.CommuneID != nil && !eqID(geo.CommuneID, *c.CommuneID) {
		return false
	}
	if c.FokontanyID != nil && !eqID(geo.FokontanyID, *c.FokontanyID) {
		return false
	}
	if c.Sex != nil && (sex == nil || *sex != *c.Sex) {
		return false
	}
	if c.AreaType != nil && (area == nil || *area != *c.AreaType) {
		return false
	}
	return true
}

func (c Criteria) ageBounded() bool { return c.AgeMin != nil || c.AgeMax != nil }

// ageInRange treats negative ages as implausible and never matches them.
func (c Criteria) ageInRange(age int) bool {
	if age < 0 {
		return false
	}
	if c.AgeMin != nil && age < *c.AgeMin {
		return false
	}
	if c.AgeMax != nil && age > *c.AgeMax {
		return false
	}
	return true
}

func deathSearchFields(d *models.Death) []string {
	return []string{
		d.Labels.Commune, d.Labels.District, d.Labels.Region, d.Labels.Fokontany,
		actText(d.ActNumber), d.Labels.Cause,
	}
}

func birthSearchFields(b *models.Birth) []string {
	l := b.Labels
	return []string{
		l.Commune, l.District, l.Region, l.Fokontany, actText(b.ActNumber),
		l.ChildLastName, l.ChildFirstName, l.MotherName, l.FatherName,
		l.MotherNationality, l.FatherNationality, l.MotherProfession, l.FatherProfession,
	}
}

func containsAny(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func actText(act *int64) string {
	if act == nil {
		return ""
	}
	return strconv.FormatInt(*act, 10)
}

func eqInt(v *int, want int) bool { return v != nil && *v == want }
func eqID(v *int64, want int64) bool { return v != nil && *v == want }

func positiveInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func nonNegativeInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func positiveID(raw string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func putInt(m map[string]any, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}

func putID(m map[string]any, key string, v *int64) {
	if v != nil {
		m[key] = *v
	}
}
