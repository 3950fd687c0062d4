package handler

import (
	"strings"

	"etatcivil/internal/registry/models"
)

// Request bodies are partial: on create an absent field stays unset, on
// update it keeps the stored value.

type DeathRequest struct {
	ActNumber *int64 `json:"n_acte" validate:"omitempty,gt=0"`

	DeathDay         *int `json:"jour_deces"`
	DeathMonth       *int `json:"mois_deces"`
	DeathYear        *int `json:"annee_deces"`
	DeclarationDay   *int `json:"jour_declaration"`
	DeclarationMonth *int `json:"mois_declaration"`
	DeclarationYear  *int `json:"annee_declaration"`
	BirthDay         *int `json:"jour_naissance_defunt"`
	BirthMonth       *int `json:"mois_naissance_defunt"`
	BirthYear        *int `json:"annee_naissance_defunt"`

	RegionID    *int64 `json:"region_id" validate:"omitempty,gt=0"`
	DistrictID  *int64 `json:"district_id" validate:"omitempty,gt=0"`
	CommuneID   *int64 `json:"commune_id" validate:"omitempty,gt=0"`
	FokontanyID *int64 `json:"fokontany_id" validate:"omitempty,gt=0"`

	Sex      *int `json:"sexe"`
	AreaType *int `json:"milieu"`
	Place    *int `json:"sanitaire"`

	CauseID               *int64 `json:"cause_deces_id" validate:"omitempty,gt=0"`
	ProfessionID          *int64 `json:"profession_defunt_id" validate:"omitempty,gt=0"`
	DeclarantProfessionID *int64 `json:"profession_declarant_id" validate:"omitempty,gt=0"`
	NationalityID         *int64 `json:"nationalite_id" validate:"omitempty,gt=0"`

	Commune             *string `json:"libcom" validate:"omitempty,max=255"`
	District            *string `json:"libdist" validate:"omitempty,max=255"`
	Region              *string `json:"libreg" validate:"omitempty,max=255"`
	Fokontany           *string `json:"libfkt" validate:"omitempty,max=255"`
	Cause               *string `json:"lib_cause_deces" validate:"omitempty,max=255"`
	Profession          *string `json:"profession_defunt_l" validate:"omitempty,max=255"`
	DeclarantProfession *string `json:"profession_declarant_l" validate:"omitempty,max=255"`
	Nationality         *string `json:"nationalite_l" validate:"omitempty,max=255"`
}

// Validate trims the free-text labels.
func (r *DeathRequest) Validate() error {
	trimAll(r.Commune, r.District, r.Region, r.Fokontany, r.Cause, r.Profession, r.DeclarantProfession, r.Nationality)
	return nil
}

// Apply copies the present fields onto d.
func (r *DeathRequest) Apply(d *models.Death) {
	setPtr(&d.ActNumber, r.ActNumber)
	applyDate(&d.Date, r.DeathYear, r.DeathMonth, r.DeathDay)
	applyDate(&d.Declaration, r.DeclarationYear, r.DeclarationMonth, r.DeclarationDay)
	applyDate(&d.BirthDate, r.BirthYear, r.BirthMonth, r.BirthDay)
	applyGeo(&d.Geo, r.RegionID, r.DistrictID, r.CommuneID, r.FokontanyID)
	if r.Sex != nil {
		d.Sex = models.SexPtr(models.Sex(*r.Sex))
	}
	if r.AreaType != nil {
		d.AreaType = models.AreaPtr(models.AreaType(*r.AreaType))
	}
	setPtr(&d.Place, r.Place)
	setPtr(&d.CauseID, r.CauseID)
	setPtr(&d.ProfessionID, r.ProfessionID)
	setPtr(&d.DeclarantProfessionID, r.DeclarantProfessionID)
	setPtr(&d.NationalityID, r.NationalityID)

	applyGeoLabels(&d.Labels.GeoLabels, r.Commune, r.District, r.Region, r.Fokontany)
	set(&d.Labels.Cause, r.Cause)
	set(&d.Labels.Profession, r.Profession)
	set(&d.Labels.DeclarantProfession, r.DeclarantProfession)
	set(&d.Labels.Nationality, r.Nationality)
}

type BirthRequest struct {
	ActNumber *int64 `json:"n_acte" validate:"omitempty,gt=0"`

	BirthDay         *int `json:"jour_naissance"`
	BirthMonth       *int `json:"mois_naissance"`
	BirthYear        *int `json:"annee_naissance"`
	DeclarationDay   *int `json:"jour_declaration"`
	DeclarationMonth *int `json:"mois_declaration"`
	DeclarationYear  *int `json:"annee_declaration"`

	RegionID    *int64 `json:"region_id" validate:"omitempty,gt=0"`
	DistrictID  *int64 `json:"district_id" validate:"omitempty,gt=0"`
	CommuneID   *int64 `json:"commune_id" validate:"omitempty,gt=0"`
	FokontanyID *int64 `json:"fokontany_id" validate:"omitempty,gt=0"`

	ChildSex *int `json:"sexe_enfant"`
	AreaType *int `json:"milieu"`

	MotherAge       *int `json:"age_mere"`
	FatherAge       *int `json:"age_pere"`
	MotherBirthYear *int `json:"annee_naiss_mere"`
	FatherBirthYear *int `json:"annee_naiss_pere"`

	LiveBirth         *int `json:"naiss_viv_mort_ne"`
	MedicalAssistance *int `json:"naiss_assis_pers_sante"`
	FatherDeclared    *int `json:"existence_pere"`
	RegistrationType  *int `json:"type_enreg"`

	MotherProfessionID  *int64 `json:"profession_mere_id" validate:"omitempty,gt=0"`
	FatherProfessionID  *int64 `json:"profession_pere_id" validate:"omitempty,gt=0"`
	MotherNationalityID *int64 `json:"nationalite_mere_id" validate:"omitempty,gt=0"`
	FatherNationalityID *int64 `json:"nationalite_pere_id" validate:"omitempty,gt=0"`

	Commune   *string `json:"libcom" validate:"omitempty,max=255"`
	District  *string `json:"libdist" validate:"omitempty,max=255"`
	Region    *string `json:"libreg" validate:"omitempty,max=255"`
	Fokontany *string `json:"libfkt" validate:"omitempty,max=255"`

	// Name lengths are checked by the service so the messages match its
	// other field errors.
	ChildLastName     *string `json:"nom_enfant"`
	ChildFirstName    *string `json:"prenom_enfant"`
	MotherName        *string `json:"nom_mere"`
	FatherName        *string `json:"nom_pere"`
	MotherNationality *string `json:"nationalite_mere" validate:"omitempty,max=255"`
	FatherNationality *string `json:"nationalite_pere" validate:"omitempty,max=255"`
	MotherProfession  *string `json:"prof_mere_l" validate:"omitempty,max=255"`
	FatherProfession  *string `json:"prof_pere_l" validate:"omitempty,max=255"`
}

func (r *BirthRequest) Validate() error {
	trimAll(r.Commune, r.District, r.Region, r.Fokontany,
		r.ChildLastName, r.ChildFirstName, r.MotherName, r.FatherName,
		r.MotherNationality, r.FatherNationality, r.MotherProfession, r.FatherProfession)
	return nil
}

// Apply copies the present fields onto b.
func (r *BirthRequest) Apply(b *models.Birth) {
	setPtr(&b.ActNumber, r.ActNumber)
	applyDate(&b.Date, r.BirthYear, r.BirthMonth, r.BirthDay)
	applyDate(&b.Declaration, r.DeclarationYear, r.DeclarationMonth, r.DeclarationDay)
	applyGeo(&b.Geo, r.RegionID, r.DistrictID, r.CommuneID, r.FokontanyID)
	if r.ChildSex != nil {
		b.ChildSex = models.SexPtr(models.Sex(*r.ChildSex))
	}
	if r.AreaType != nil {
		b.AreaType = models.AreaPtr(models.AreaType(*r.AreaType))
	}
	setPtr(&b.MotherAge, r.MotherAge)
	setPtr(&b.FatherAge, r.FatherAge)
	setPtr(&b.MotherBirthYear, r.MotherBirthYear)
	setPtr(&b.FatherBirthYear, r.FatherBirthYear)
	setPtr(&b.LiveBirth, r.LiveBirth)
	setPtr(&b.MedicalAssistance, r.MedicalAssistance)
	setPtr(&b.FatherDeclared, r.FatherDeclared)
	setPtr(&b.RegistrationType, r.RegistrationType)
	setPtr(&b.MotherProfessionID, r.MotherProfessionID)
	setPtr(&b.FatherProfessionID, r.FatherProfessionID)
	setPtr(&b.MotherNationalityID, r.MotherNationalityID)
	setPtr(&b.FatherNationalityID, r.FatherNationalityID)

	applyGeoLabels(&b.Labels.GeoLabels, r.Commune, r.District, r.Region, r.Fokontany)
	set(&b.Labels.ChildLastName, r.ChildLastName)
	set(&b.Labels.ChildFirstName, r.ChildFirstName)
	set(&b.Labels.MotherName, r.MotherName)
	set(&b.Labels.FatherName, r.FatherName)
	set(&b.Labels.MotherNationality, r.MotherNationality)
	set(&b.Labels.FatherNationality, r.FatherNationality)
	set(&b.Labels.MotherProfession, r.MotherProfession)
	set(&b.Labels.FatherProfession, r.FatherProfession)
}

// DimensionRequest covers every dimension kind. The parent id is read from
// the field named after the parent kind (region_id for a district).
type DimensionRequest struct {
	Code        *string `json:"code"`
	Label       *string `json:"libelle"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`

	RegionID   *int64 `json:"region_id" validate:"omitempty,gt=0"`
	DistrictID *int64 `json:"district_id" validate:"omitempty,gt=0"`
	CommuneID  *int64 `json:"commune_id" validate:"omitempty,gt=0"`

	Population         *int    `json:"population"`
	Category           *string `json:"categorie" validate:"omitempty,max=255"`
	Severity           *int    `json:"gravite"`
	QualificationLevel *string `json:"niveau_qualification" validate:"omitempty,max=255"`
}

// Apply copies the present fields onto d, whose Kind must already be set.
func (r *DimensionRequest) Apply(d *models.Dimension) {
	set(&d.Code, r.Code)
	set(&d.Label, r.Label)
	set(&d.Description, r.Description)
	set(&d.IsActive, r.IsActive)
	switch parent, _ := d.Kind.ParentKind(); parent {
	case models.KindRegion:
		setPtr(&d.ParentID, r.RegionID)
	case models.KindDistrict:
		setPtr(&d.ParentID, r.DistrictID)
	case models.KindCommune:
		setPtr(&d.ParentID, r.CommuneID)
	}
	setPtr(&d.Population, r.Population)
	set(&d.Category, r.Category)
	setPtr(&d.Severity, r.Severity)
	set(&d.QualificationLevel, r.QualificationLevel)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func applyDate(d *models.Date, year, month, day *int) {
	setPtr(&d.Year, year)
	setPtr(&d.Month, month)
	setPtr(&d.Day, day)
}

func applyGeo(g *models.Geo, region, district, commune, fokontany *int64) {
	setPtr(&g.RegionID, region)
	setPtr(&g.DistrictID, district)
	setPtr(&g.CommuneID, commune)
	setPtr(&g.FokontanyID, fokontany)
}

func applyGeoLabels(l *models.GeoLabels, commune, district, region, fokontany *string) {
	set(&l.Commune, commune)
	set(&l.District, district)
	set(&l.Region, region)
	set(&l.Fokontany, fokontany)
}

func trimAll(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}
