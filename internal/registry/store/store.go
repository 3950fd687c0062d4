// Package store persists fact records and dimension rows.
//
// Two implementations share one method set: InMemory for tests and
// single-process runs, and PostgresStore for production. Both return the
// sentinel errors of pkg/platform/sentinel; services translate them.
//
// The dimension delete guard is evaluated atomically with the delete:
// under the write lock in memory, inside a serializable transaction in
// Postgres.
package store

import (
	_ "embed"

	"etatcivil/internal/registry/models"
)

// Schema is the DDL for every table the Postgres store reads and writes.
//
//go:embed schema.sql
var Schema string

// DeleteGuard decides whether a row with the given dependents may go.
type DeleteGuard func(models.Dependents) models.DeleteCheck

// references lists the fact columns holding a foreign key of one kind.
type references struct {
	deaths []string
	births []string
}

var dimensionRefs = map[models.DimensionKind]references{
	models.KindRegion:      {deaths: []string{"region_id"}, births: []string{"region_id"}},
	models.KindDistrict:    {deaths: []string{"district_id"}, births: []string{"district_id"}},
	models.KindCommune:     {deaths: []string{"commune_id"}, births: []string{"commune_id"}},
	models.KindFokontany:   {deaths: []string{"fokontany_id"}, births: []string{"fokontany_id"}},
	models.KindCause:       {deaths: []string{"cause_id"}},
	models.KindProfession:  {deaths: []string{"profession_id", "declarant_profession_id"}, births: []string{"mother_profession_id", "father_profession_id"}},
	models.KindNationality: {deaths: []string{"nationality_id"}, births: []string{"mother_nationality_id", "father_nationality_id"}},
}

// deathRefs returns the foreign keys of d that point at rows of kind.
func deathRefs(d *models.Death, kind models.DimensionKind) []*int64 {
	switch kind {
	case models.KindRegion:
		return []*int64{d.RegionID}
	case models.KindDistrict:
		return []*int64{d.DistrictID}
	case models.KindCommune:
		return []*int64{d.CommuneID}
	case models.KindFokontany:
		return []*int64{d.FokontanyID}
	case models.KindCause:
		return []*int64{d.CauseID}
	case models.KindProfession:
		return []*int64{d.ProfessionID, d.DeclarantProfessionID}
	case models.KindNationality:
		return []*int64{d.NationalityID}
	default:
		return nil
	}
}

// birthRefs returns the foreign keys of b that point at rows of kind.
func birthRefs(b *models.Birth, kind models.DimensionKind) []*int64 {
	switch kind {
	case models.KindRegion:
		return []*int64{b.RegionID}
	case models.KindDistrict:
		return []*int64{b.DistrictID}
	case models.KindCommune:
		return []*int64{b.CommuneID}
	case models.KindFokontany:
		return []*int64{b.FokontanyID}
	case models.KindProfession:
		return []*int64{b.MotherProfessionID, b.FatherProfessionID}
	case models.KindNationality:
		return []*int64{b.MotherNationalityID, b.FatherNationalityID}
	default:
		return nil
	}
}

func refersTo(ids []*int64, id int64) bool {
	for _, v := range ids {
		if v != nil && *v == id {
			return true
		}
	}
	return false
}

// sequenceParent keys code counters; kinds without a parent share key 0.
func sequenceParent(parentID *int64) int64 {
	if parentID == nil {
		return 0
	}
	return *parentID
}
