// Package models holds the civil-registry fact records (deaths, births) and the
// dimension rows they reference.
//
// Invariants:
//   - ActNumber is unique within its fact kind.
//   - When year, month and day are all present they form a real calendar date.
//   - Sex, when present, is SexMale or SexFemale.
//   - Free-text legacy labels never drive aggregation; they feed search and display.
package models

import "time"

// FactKind distinguishes the two fact tables.
type FactKind string

const (
	FactDeath FactKind = "deces"
	FactBirth FactKind = "naissance"
)

// Sex is coded 1 (male) / 2 (female) in the registry.
type Sex int

const (
	SexMale   Sex = 1
	SexFemale Sex = 2
)

// Valid reports whether s is a known code.
func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// Label returns the registry's display text.
func (s Sex) Label() string {
	switch s {
	case SexMale:
		return "Masculin"
	case SexFemale:
		return "Féminin"
	default:
		return "Non défini"
	}
}

// AreaType is the urban/rural classification (MILIEU).
type AreaType int

const (
	AreaUrban AreaType = 1
	AreaRural AreaType = 2
)

func (a AreaType) Valid() bool { return a == AreaUrban || a == AreaRural }

func (a AreaType) Label() string {
	switch a {
	case AreaUrban:
		return "Urbain"
	case AreaRural:
		return "Rural"
	default:
		return "Non défini"
	}
}

// Coded flag values shared by the fact tables.
const (
	// Place of death (SANITAIRE).
	PlaceHealthFacility = 1
	PlaceHome           = 2

	// Medical assistance at birth (NAISS_ASSIS_PERS_SANTE).
	AssistanceYes = 1
	AssistanceNo  = 2

	// Live birth flag (NAISS_VIV_MORT_NE).
	BornAlive = 1
	StillBorn = 2

	// Father declared (EXISTENCE_PERE).
	FatherDeclared    = 1
	FatherNotDeclared = 2

	// Registration type (TYPE_ENREG).
	RegistrationNormal   = 1
	RegistrationLate     = 2
	RegistrationJudicial = 3
)

// Geo is the normalised location of a fact record.
type Geo struct {
	RegionID    *int64 `json:"region_id"`
	DistrictID  *int64 `json:"district_id"`
	CommuneID   *int64 `json:"commune_id"`
	FokontanyID *int64 `json:"fokontany_id"`
}

// GeoLabels are the legacy free-text location labels.
type GeoLabels struct {
	Commune   string `json:"libcom,omitempty"`
	District  string `json:"libdist,omitempty"`
	Region    string `json:"libreg,omitempty"`
	Fokontany string `json:"libfkt,omitempty"`
}

// Death is one deces fact record.
type Death struct {
	ID        int64  `json:"id"`
	ActNumber *int64 `json:"n_acte"`

	Date        Date `json:"date_deces"`
	Declaration Date `json:"date_declaration"`
	// BirthDate is the deceased's date of birth.
	BirthDate Date `json:"date_naissance_defunt"`

	Geo
	Sex      *Sex      `json:"sexe"`
	AreaType *AreaType `json:"milieu"`
	// Place is PlaceHealthFacility or PlaceHome.
	Place *int `json:"sanitaire"`

	CauseID               *int64 `json:"cause_deces_id"`
	ProfessionID          *int64 `json:"profession_defunt_id"`
	DeclarantProfessionID *int64 `json:"profession_declarant_id"`
	NationalityID         *int64 `json:"nationalite_id"`

	Labels DeathLabels `json:"libelles"`

	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeathLabels are the legacy text fields kept for search and history.
type DeathLabels struct {
	GeoLabels
	Cause               string `json:"lib_cause_deces,omitempty"`
	Profession          string `json:"profession_defunt_l,omitempty"`
	DeclarantProfession string `json:"profession_declarant_l,omitempty"`
	Nationality         string `json:"nationalite_l,omitempty"`
}

// AgeAtDeath is death year minus birth year when both are known.
func (d *Death) AgeAtDeath() (int, bool) {
	if d.Date.Year == nil || d.BirthDate.Year == nil {
		return 0, false
	}
	return *d.Date.Year - *d.BirthDate.Year, true
}

// Birth is one naissance fact record.
type Birth struct {
	ID        int64  `json:"id"`
	ActNumber *int64 `json:"n_acte"`

	Date        Date `json:"date_naissance"`
	Declaration Date `json:"date_declaration"`

	Geo
	ChildSex *Sex      `json:"sexe_enfant"`
	AreaType *AreaType `json:"milieu"`

	MotherAge       *int `json:"age_mere"`
	FatherAge       *int `json:"age_pere"`
	MotherBirthYear *int `json:"annee_naiss_mere"`
	FatherBirthYear *int `json:"annee_naiss_pere"`

	LiveBirth         *int `json:"naiss_viv_mort_ne"`
	MedicalAssistance *int `json:"naiss_assis_pers_sante"`
	FatherDeclared    *int `json:"existence_pere"`
	RegistrationType  *int `json:"type_enreg"`

	MotherProfessionID  *int64 `json:"profession_mere_id"`
	FatherProfessionID  *int64 `json:"profession_pere_id"`
	MotherNationalityID *int64 `json:"nationalite_mere_id"`
	FatherNationalityID *int64 `json:"nationalite_pere_id"`

	Labels BirthLabels `json:"libelles"`

	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BirthLabels are the legacy text fields of a birth, including the names.
type BirthLabels struct {
	GeoLabels
	ChildLastName     string `json:"nom_enfant"`
	ChildFirstName    string `json:"prenom_enfant"`
	MotherName        string `json:"nom_mere,omitempty"`
	FatherName        string `json:"nom_pere,omitempty"`
	MotherNationality string `json:"nationalite_mere,omitempty"`
	FatherNationality string `json:"nationalite_pere,omitempty"`
	MotherProfession  string `json:"prof_mere_l,omitempty"`
	FatherProfession  string `json:"prof_pere_l,omitempty"`
}

// Int and Int64 return pointers to literals; handy in fixtures and decoders.
func Int(v int) *int       { return &v }
func Int64(v int64) *int64 { return &v }

// SexPtr returns a pointer to s.
func SexPtr(s Sex) *Sex { return &s }

// AreaPtr returns a pointer to a.
func AreaPtr(a AreaType) *AreaType { return &a }
