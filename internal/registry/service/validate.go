package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"etatcivil/internal/registry/models"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/sentinel"
)

const maxNameLength = 255

// dimensionRef is one foreign key of a record, named by its request field.
type dimensionRef struct {
	field string
	kind  models.DimensionKind
	id    *int64
}

func deathRefs(d *models.Death) []dimensionRef {
	return append(geoRefs(d.Geo),
		dimensionRef{"cause_deces_id", models.KindCause, d.CauseID},
		dimensionRef{"profession_defunt_id", models.KindProfession, d.ProfessionID},
		dimensionRef{"profession_declarant_id", models.KindProfession, d.DeclarantProfessionID},
		dimensionRef{"nationalite_id", models.KindNationality, d.NationalityID},
	)
}

func birthRefs(b *models.Birth) []dimensionRef {
	return append(geoRefs(b.Geo),
		dimensionRef{"profession_mere_id", models.KindProfession, b.MotherProfessionID},
		dimensionRef{"profession_pere_id", models.KindProfession, b.FatherProfessionID},
		dimensionRef{"nationalite_mere_id", models.KindNationality, b.MotherNationalityID},
		dimensionRef{"nationalite_pere_id", models.KindNationality, b.FatherNationalityID},
	)
}

func geoRefs(g models.Geo) []dimensionRef {
	return []dimensionRef{
		{"region_id", models.KindRegion, g.RegionID},
		{"district_id", models.KindDistrict, g.DistrictID},
		{"commune_id", models.KindCommune, g.CommuneID},
		{"fokontany_id", models.KindFokontany, g.FokontanyID},
	}
}

// checkRefs adds a field error for every reference to a missing row.
func (s *Service) checkRefs(ctx context.Context, refs []dimensionRef, fields dErrors.FieldErrors) error {
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		_, err := s.store.FindDimension(ctx, ref.kind, *ref.id)
		if errors.Is(err, sentinel.ErrNotFound) {
			fields.Add(ref.field, fmt.Sprintf("La valeur sélectionnée pour %s est invalide", ref.field))
			continue
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check "+ref.field)
		}
	}
	return nil
}

// checkActNumber rejects non-positive and already used act numbers.
func (s *Service) checkActNumber(ctx context.Context, kind models.FactKind, act *int64, exceptID int64, fields dErrors.FieldErrors) error {
	if act == nil {
		return nil
	}
	if *act <= 0 {
		fields.Add("n_acte", "Le numéro d'acte doit être un entier positif")
		return nil
	}
	taken, err := s.store.ActNumberTaken(ctx, kind, *act, exceptID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check act number")
	}
	if taken {
		fields.Add("n_acte", "Le numéro d'acte existe déjà")
	}
	return nil
}

// addDateProblems reports the issues of d under fields suffixed with the
// date's name, e.g. annee_deces or date_deces.
func addDateProblems(fields dErrors.FieldErrors, d models.Date, suffix string, maxYear int) {
	for part := range d.Problems(maxYear) {
		key := part + "_" + suffix
		switch part {
		case "annee":
			fields.Add(key, fmt.Sprintf("L'année doit être comprise entre %d et %d", models.MinYear, maxYear))
		case "mois":
			fields.Add(key, "Le mois doit être compris entre 1 et 12")
		case "jour":
			fields.Add(key, "Le jour doit être compris entre 1 et 31")
		default:
			fields.Add(key, "La date est invalide")
		}
	}
}

func checkSex(fields dErrors.FieldErrors, field string, sex *models.Sex) {
	if sex != nil && !sex.Valid() {
		fields.Add(field, "Le champ "+field+" doit être 1 (masculin) ou 2 (féminin)")
	}
}

func checkArea(fields dErrors.FieldErrors, area *models.AreaType) {
	if area != nil && !area.Valid() {
		fields.Add("milieu", "Le champ milieu doit être 1 (urbain) ou 2 (rural)")
	}
}

// checkFlag restricts an optional coded value to allowed.
func checkFlag(fields dErrors.FieldErrors, field string, v *int, allowed ...int) {
	if v == nil {
		return
	}
	for _, a := range allowed {
		if *v == a {
			return
		}
	}
	fields.Add(field, fmt.Sprintf("Le champ %s doit être l'une des valeurs: %v", field, allowed))
}

func checkName(fields dErrors.FieldErrors, field, v string, required bool) {
	if required && v == "" {
		fields.Add(field, "Le champ "+field+" est obligatoire")
		return
	}
	if utf8.RuneCountInString(v) > maxNameLength {
		fields.Add(field, fmt.Sprintf("Le champ %s ne doit pas dépasser %d caractères", field, maxNameLength))
	}
}

func (s *Service) validateDeath(ctx context.Context, d *models.Death, exceptID int64, asOfYear int) error {
	fields := dErrors.FieldErrors{}
	addDateProblems(fields, d.Date, "deces", asOfYear)
	addDateProblems(fields, d.Declaration, "declaration", asOfYear)
	addDateProblems(fields, d.BirthDate, "naissance_defunt", asOfYear)
	checkSex(fields, "sexe", d.Sex)
	checkArea(fields, d.AreaType)
	checkFlag(fields, "sanitaire", d.Place, models.PlaceHealthFacility, models.PlaceHome)
	if err := s.checkActNumber(ctx, models.FactDeath, d.ActNumber, exceptID, fields); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, deathRefs(d), fields); err != nil {
		return err
	}
	return fields.Err()
}

func (s *Service) validateBirth(ctx context.Context, b *models.Birth, exceptID int64, asOfYear int) error {
	fields := dErrors.FieldErrors{}
	addDateProblems(fields, b.Date, "naissance", asOfYear)
	addDateProblems(fields, b.Declaration, "declaration", asOfYear)
	checkSex(fields, "sexe_enfant", b.ChildSex)
	checkArea(fields, b.AreaType)
	checkFlag(fields, "naiss_viv_mort_ne", b.LiveBirth, models.BornAlive, models.StillBorn)
	checkFlag(fields, "naiss_assis_pers_sante", b.MedicalAssistance, models.AssistanceYes, models.AssistanceNo)
	checkFlag(fields, "existence_pere", b.FatherDeclared, models.FatherDeclared, models.FatherNotDeclared)
	checkFlag(fields, "type_enreg", b.RegistrationType,
		models.RegistrationNormal, models.RegistrationLate, models.RegistrationJudicial)
	checkName(fields, "nom_enfant", b.Labels.ChildLastName, true)
	checkName(fields, "prenom_enfant", b.Labels.ChildFirstName, true)
	checkName(fields, "nom_mere", b.Labels.MotherName, false)
	checkName(fields, "nom_pere", b.Labels.FatherName, false)
	if err := s.checkActNumber(ctx, models.FactBirth, b.ActNumber, exceptID, fields); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, birthRefs(b), fields); err != nil {
		return err
	}
	return fields.Err()
}
