package filter

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Columns maps criteria onto one fact table. Empty names mark criteria that do
// not apply to the table.
type Columns struct {
	Year              string
	Month             string
	Region            string
	District          string
	Commune           string
	Fokontany         string
	Sex               string
	AreaType          string
	MedicalAssistance string
	Cause             string
	// AgeExpr is the SQL expression of the subject's age; AgeRequired lists
	// the columns that must be non-null for it to be defined.
	AgeExpr     string
	AgeRequired []string
	// Search lists text columns; ActNumber is matched on its text form.
	Search    []string
	ActNumber string
}

// DeathColumns maps criteria onto the deaths table.
var DeathColumns = Columns{
	Year:        "death_year",
	Month:       "death_month",
	Region:      "region_id",
	District:    "district_id",
	Commune:     "commune_id",
	Fokontany:   "fokontany_id",
	Sex:         "sex",
	AreaType:    "area_type",
	Cause:       "cause_id",
	AgeExpr:     "(death_year - birth_year)",
	AgeRequired: []string{"death_year", "birth_year"},
	Search:      []string{"lib_commune", "lib_district", "lib_region", "lib_fokontany", "lib_cause"},
	ActNumber:   "act_number",
}

// BirthColumns maps criteria onto the births table.
var BirthColumns = Columns{
	Year:              "birth_year",
	Month:             "birth_month",
	Region:            "region_id",
	District:          "district_id",
	Commune:           "commune_id",
	Fokontany:         "fokontany_id",
	Sex:               "child_sex",
	AreaType:          "area_type",
	MedicalAssistance: "medical_assistance",
	AgeExpr:           "mother_age",
	AgeRequired:       []string{"mother_age"},
	Search: []string{
		"lib_commune", "lib_district", "lib_region", "lib_fokontany",
		"child_last_name", "child_first_name", "mother_name", "father_name",
		"lib_mother_nationality", "lib_father_nationality",
		"lib_mother_profession", "lib_father_profession",
	},
	ActNumber: "act_number",
}

// Where renders the criteria as an AND of squirrel predicates. An empty And
// renders to no clause.
func (c Criteria) Where(cols Columns) squirrel.And {
	and := squirrel.And{}
	eq := func(col string, v any) {
		if col != "" {
			and = append(and, squirrel.Eq{col: v})
		}
	}
	if c.Year != nil {
		eq(cols.Year, *c.Year)
	}
	if c.YearStart != nil {
		and = append(and, squirrel.GtOrEq{cols.Year: *c.YearStart})
	}
	if c.YearEnd != nil {
		and = append(and, squirrel.LtOrEq{cols.Year: *c.YearEnd})
	}
	if c.Month != nil {
		eq(cols.Month, *c.Month)
	}
	if c.RegionID != nil {
		eq(cols.Region, *c.RegionID)
	}
	if c.DistrictID != nil {
		eq(cols.District, *c.DistrictID)
	}
	if c.CommuneID != nil {
		eq(cols.Commune, *c.CommuneID)
	}
	if c.FokontanyID != nil {
		eq(cols.Fokontany, *c.FokontanyID)
	}
	if c.Sex != nil {
		eq(cols.Sex, int(*c.Sex))
	}
	if c.AreaType != nil {
		eq(cols.AreaType, int(*c.AreaType))
	}
	if c.MedicalAssistance != nil {
		eq(cols.MedicalAssistance, *c.MedicalAssistance)
	}
	if c.CauseID != nil {
		eq(cols.Cause, *c.CauseID)
	}
	if c.ageBounded() && cols.AgeExpr != "" {
		for _, col := range cols.AgeRequired {
			and = append(and, squirrel.NotEq{col: nil})
		}
		and = append(and, squirrel.Expr(cols.AgeExpr+" >= 0"))
		if c.AgeMin != nil {
			and = append(and, squirrel.Expr(cols.AgeExpr+" >= ?", *c.AgeMin))
		}
		if c.AgeMax != nil {
			and = append(and, squirrel.Expr(cols.AgeExpr+" <= ?", *c.AgeMax))
		}
	}
	if c.Search != "" {
		pattern := "%" + EscapeLike(c.Search) + "%"
		or := squirrel.Or{}
		for _, col := range cols.Search {
			or = append(or, squirrel.Expr(col+" ILIKE ?", pattern))
		}
		if cols.ActNumber != "" {
			or = append(or, squirrel.Expr("CAST("+cols.ActNumber+" AS TEXT) ILIKE ?", pattern))
		}
		and = append(and, or)
	}
	return and
}

// Apply adds the criteria to a select.
func (c Criteria) Apply(sb squirrel.SelectBuilder, cols Columns) squirrel.SelectBuilder {
	where := c.Where(cols)
	if len(where) == 0 {
		return sb
	}
	return sb.Where(where)
}

// ApplyDeaths narrows a select on the deaths table.
func (c Criteria) ApplyDeaths(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	return c.Apply(sb, DeathColumns)
}

// ApplyBirths narrows a select on the births table.
func (c Criteria) ApplyBirths(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	return c.Apply(sb, BirthColumns)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards of s with backslashes.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
