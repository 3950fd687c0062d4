package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher,CacheInvalidator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/registry/service/mocks"
	"etatcivil/internal/registry/store"
	dErrors "etatcivil/pkg/domain-errors"
	audit "etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/audit/publisher"
	auditmemory "etatcivil/pkg/platform/audit/store/memory"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/requestcontext"
)

// =============================================================================
// Registry Service Test Suite
// =============================================================================
// Runs the service over the in-memory store so validation, act-number
// generation, code generation and the delete guard are exercised together.
// Audit events land in an in-memory audit store; cache invalidation is mocked.

var asOf = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type RegistryServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	invalidator *mocks.MockCacheInvalidator
	store       *store.InMemory
	audit       *auditmemory.InMemoryStore
	service     *Service
	ctx         context.Context
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.invalidator = mocks.NewMockCacheInvalidator(s.ctrl)
	s.invalidator.EXPECT().Invalidate(gomock.Any()).Return(nil).AnyTimes()
	s.store = store.NewInMemory()
	s.audit = auditmemory.NewInMemoryStore()

	svc, err := New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
		WithCacheInvalidator(s.invalidator),
	)
	s.Require().NoError(err)
	s.service = svc

	ctx := requestcontext.WithTime(context.Background(), asOf)
	ctx = requestcontext.WithRequestID(ctx, "req-test")
	s.ctx = requestcontext.WithActorID(ctx, 7)
}

func (s *RegistryServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RegistryServiceSuite) fieldErrors(err error) dErrors.FieldErrors {
	s.T().Helper()
	s.Require().Error(err)
	de, ok := dErrors.As(err)
	s.Require().True(ok, "expected a domain error, got %v", err)
	s.Require().Equal(dErrors.CodeValidation, de.Code)
	return de.Fields
}

func (s *RegistryServiceSuite) region(code, label string) *models.Dimension {
	s.T().Helper()
	d, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindRegion, Code: code, Label: label, IsActive: true})
	s.Require().NoError(err)
	return d
}

func (s *RegistryServiceSuite) actions() []string {
	events, err := s.audit.ListAll(context.Background())
	s.Require().NoError(err)
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}

func (s *RegistryServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "registry store is required")
	})

	s.Run("with options applies options", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc, err := New(s.store, WithLogger(logger), WithCacheInvalidator(s.invalidator))
		s.NoError(err)
		s.Equal(logger, svc.logger)
		s.Equal(s.invalidator, svc.invalidator)
	})
}

// =============================================================================
// Fact records
// =============================================================================

func (s *RegistryServiceSuite) TestCreateDeath() {
	s.Run("generates act numbers and stamps provenance", func() {
		first, err := s.service.CreateDeath(s.ctx, &models.Death{Date: models.NewDate(2023, 3, 1), Sex: models.SexPtr(models.SexMale)})
		s.Require().NoError(err)
		second, err := s.service.CreateDeath(s.ctx, &models.Death{Date: models.NewDate(2023, 3, 2)})
		s.Require().NoError(err)

		s.Equal(int64(1), *first.ActNumber)
		s.Equal(int64(2), *second.ActNumber)
		s.Equal(asOf, first.CreatedAt)
		s.Require().NotNil(first.CreatedBy)
		s.Equal(int64(7), *first.CreatedBy)
	})

	s.Run("emits an audit event carrying the request", func() {
		events, err := s.audit.ListBySubject(context.Background(), "deces", "1")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventDeathCreated), events[0].Action)
		s.Equal("req-test", events[0].RequestID)
		s.Equal("7", events[0].ActorID)
	})

	s.Run("duplicate act number is a validation error", func() {
		_, err := s.service.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(1)})
		fields := s.fieldErrors(err)
		s.Contains(fields, "n_acte")
	})

	s.Run("non-positive act number is rejected", func() {
		_, err := s.service.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(0)})
		s.Contains(s.fieldErrors(err), "n_acte")
	})
}

func (s *RegistryServiceSuite) TestDeathValidation() {
	cases := []struct {
		name  string
		death models.Death
		field string
	}{
		{"February 30 is not a date", models.Death{Date: models.NewDate(2024, 2, 30)}, "date_deces"},
		{"year after the as-of year", models.Death{Date: models.NewDate(2025, 1, 1)}, "annee_deces"},
		{"year before 1900", models.Death{Date: models.Date{Year: models.Int(1899)}}, "annee_deces"},
		{"month out of range", models.Death{Date: models.Date{Month: models.Int(13)}}, "mois_deces"},
		{"declaration day out of range", models.Death{Declaration: models.Date{Day: models.Int(32)}}, "jour_declaration"},
		{"birth date of the deceased", models.Death{BirthDate: models.NewDate(2023, 4, 31)}, "date_naissance_defunt"},
		{"unknown sex code", models.Death{Sex: models.SexPtr(3)}, "sexe"},
		{"unknown area type", models.Death{AreaType: models.AreaPtr(5)}, "milieu"},
		{"unknown place flag", models.Death{Place: models.Int(9)}, "sanitaire"},
		{"missing region", models.Death{Geo: models.Geo{RegionID: models.Int64(999)}}, "region_id"},
		{"missing cause", models.Death{CauseID: models.Int64(999)}, "cause_deces_id"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			d := tc.death
			_, err := s.service.CreateDeath(s.ctx, &d)
			s.Contains(s.fieldErrors(err), tc.field)
		})
	}

	s.Run("leap day and partial dates are accepted", func() {
		_, err := s.service.CreateDeath(s.ctx, &models.Death{Date: models.NewDate(2024, 2, 29)})
		s.NoError(err)
		_, err = s.service.CreateDeath(s.ctx, &models.Death{Date: models.Date{Year: models.Int(2020)}})
		s.NoError(err)
	})

	s.Run("a wrong kind of dimension is not a valid reference", func() {
		region := s.region("R-X", "Région X")
		_, err := s.service.CreateDeath(s.ctx, &models.Death{CauseID: models.Int64(region.ID)})
		s.Contains(s.fieldErrors(err), "cause_deces_id")
	})

	s.Run("nothing is written when validation fails", func() {
		deaths, err := s.store.Deaths(s.ctx, filter.Criteria{})
		s.Require().NoError(err)
		s.Len(deaths, 2)
	})
}

func (s *RegistryServiceSuite) TestBirthValidation() {
	valid := func() models.Birth {
		return models.Birth{
			Date:     models.NewDate(2023, 7, 14),
			ChildSex: models.SexPtr(models.SexFemale),
			Labels:   models.BirthLabels{ChildLastName: "Rakoto", ChildFirstName: "Voahangy"},
		}
	}

	s.Run("valid birth gets an act number", func() {
		b := valid()
		created, err := s.service.CreateBirth(s.ctx, &b)
		s.Require().NoError(err)
		s.Equal(int64(1), *created.ActNumber)
	})

	s.Run("child names are required", func() {
		b := valid()
		b.Labels.ChildLastName, b.Labels.ChildFirstName = "", ""
		_, err := s.service.CreateBirth(s.ctx, &b)
		fields := s.fieldErrors(err)
		s.Contains(fields, "nom_enfant")
		s.Contains(fields, "prenom_enfant")
	})

	s.Run("names are bounded", func() {
		b := valid()
		b.Labels.MotherName = strings.Repeat("é", 256)
		_, err := s.service.CreateBirth(s.ctx, &b)
		s.Contains(s.fieldErrors(err), "nom_mere")
	})

	s.Run("flags are restricted to their codes", func() {
		b := valid()
		b.LiveBirth, b.MedicalAssistance, b.FatherDeclared, b.RegistrationType = models.Int(3), models.Int(0), models.Int(4), models.Int(4)
		_, err := s.service.CreateBirth(s.ctx, &b)
		fields := s.fieldErrors(err)
		s.Contains(fields, "naiss_viv_mort_ne")
		s.Contains(fields, "naiss_assis_pers_sante")
		s.Contains(fields, "existence_pere")
		s.Contains(fields, "type_enreg")
	})

	s.Run("judicial registration is accepted", func() {
		b := valid()
		b.RegistrationType = models.Int(models.RegistrationJudicial)
		_, err := s.service.CreateBirth(s.ctx, &b)
		s.NoError(err)
	})

	s.Run("parent references must exist", func() {
		b := valid()
		b.FatherNationalityID = models.Int64(404)
		_, err := s.service.CreateBirth(s.ctx, &b)
		s.Contains(s.fieldErrors(err), "nationalite_pere_id")
	})
}

func (s *RegistryServiceSuite) TestUpdateAndDeleteDeath() {
	created, err := s.service.CreateDeath(s.ctx, &models.Death{Date: models.NewDate(2022, 1, 5)})
	s.Require().NoError(err)
	other, err := s.service.CreateDeath(s.ctx, &models.Death{})
	s.Require().NoError(err)

	later := requestcontext.WithTime(s.ctx, asOf.Add(time.Hour))

	s.Run("patch updates fields and keeps identity", func() {
		updated, err := s.service.UpdateDeath(later, created.ID, func(d *models.Death) {
			d.ID = 999
			d.Sex = models.SexPtr(models.SexFemale)
			d.ActNumber = nil
		})
		s.Require().NoError(err)
		s.Equal(created.ID, updated.ID)
		s.Equal(models.SexFemale, *updated.Sex)
		s.Equal(*created.ActNumber, *updated.ActNumber)
		s.Equal(asOf, updated.CreatedAt)
		s.Equal(asOf.Add(time.Hour), updated.UpdatedAt)
	})

	s.Run("keeping its own act number is not a clash", func() {
		_, err := s.service.UpdateDeath(s.ctx, created.ID, func(d *models.Death) {
			d.ActNumber = models.Int64(*created.ActNumber)
		})
		s.NoError(err)
	})

	s.Run("another record's act number is rejected", func() {
		_, err := s.service.UpdateDeath(s.ctx, created.ID, func(d *models.Death) {
			d.ActNumber = models.Int64(*other.ActNumber)
		})
		s.Contains(s.fieldErrors(err), "n_acte")
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.UpdateDeath(s.ctx, 404, func(*models.Death) {})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete removes the record", func() {
		s.Require().NoError(s.service.DeleteDeath(s.ctx, other.ID))
		_, err := s.service.GetDeath(s.ctx, other.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		err = s.service.DeleteDeath(s.ctx, other.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Contains(s.actions(), string(audit.EventDeathUpdated))
	s.Contains(s.actions(), string(audit.EventDeathDeleted))
}

func (s *RegistryServiceSuite) TestListDeaths() {
	for _, year := range []int{2020, 2021, 2021, 2022} {
		_, err := s.service.CreateDeath(s.ctx, &models.Death{Date: models.Date{Year: models.Int(year)}})
		s.Require().NoError(err)
	}

	rows, pagination, err := s.service.ListDeaths(s.ctx,
		filter.Criteria{Year: models.Int(2021)},
		filter.DefaultRecordSort,
		filter.Page{Number: 1, Size: 1},
	)
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal(2, pagination.Total)
	s.Equal(2, pagination.LastPage)
	s.Equal(1, pagination.From)
	s.Equal(1, pagination.To)
}

// =============================================================================
// Dimensions
// =============================================================================

func (s *RegistryServiceSuite) TestDimensionCodes() {
	s.Run("regions follow the REG sequence", func() {
		a := s.region("", "Analamanga")
		b := s.region("", "Vakinankaratra")
		s.Equal("REG-001", a.Code)
		s.Equal("REG-002", b.Code)
	})

	s.Run("child codes extend the parent code per parent", func() {
		ana := s.region("ANA", "Analamanga bis")
		d1, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: "Tana I", ParentID: &ana.ID})
		s.Require().NoError(err)
		d2, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: "Tana II", ParentID: &ana.ID})
		s.Require().NoError(err)
		s.Equal("ANA-01", d1.Code)
		s.Equal("ANA-02", d2.Code)

		commune, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCommune, Label: "Isotry", ParentID: &d1.ID})
		s.Require().NoError(err)
		s.Equal("ANA-01-001", commune.Code)

		fkt, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindFokontany, Label: "Andavamamba", ParentID: &commune.ID})
		s.Require().NoError(err)
		s.Equal("ANA-01-001-0001", fkt.Code)
	})

	s.Run("generation skips hand-picked codes", func() {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCause, Code: "C001", Label: "Paludisme"})
		s.Require().NoError(err)
		next, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCause, Label: "Tuberculose"})
		s.Require().NoError(err)
		s.Equal("C002", next.Code)
		s.Equal(models.DefaultSeverity, *next.Severity)
	})

	s.Run("duplicate code is rejected case-insensitively", func() {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCause, Code: "c001", Label: "Doublon"})
		s.Contains(s.fieldErrors(err), "code")
	})
}

func (s *RegistryServiceSuite) TestDimensionValidation() {
	region := s.region("", "Atsinanana")

	s.Run("label is required", func() {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindProfession, Label: "  "})
		s.Contains(s.fieldErrors(err), "libelle")
	})

	s.Run("district needs an existing region", func() {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: "Toamasina I"})
		s.Contains(s.fieldErrors(err), "region_id")
		_, err = s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: "Toamasina I", ParentID: models.Int64(999)})
		s.Contains(s.fieldErrors(err), "region_id")
	})

	s.Run("severity is bounded", func() {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCause, Label: "Autre", Severity: models.Int(4)})
		s.Contains(s.fieldErrors(err), "gravite")
	})

	s.Run("update keeps the code when emptied", func() {
		updated, err := s.service.UpdateDimension(s.ctx, models.KindRegion, region.ID, func(d *models.Dimension) {
			d.Label = "Atsinanana (Est)"
			d.Code = ""
		})
		s.Require().NoError(err)
		s.Equal(region.Code, updated.Code)
		s.Equal("Atsinanana (Est)", updated.Label)
	})

	s.Run("update of a row under another kind is not found", func() {
		_, err := s.service.UpdateDimension(s.ctx, models.KindCause, region.ID, func(*models.Dimension) {})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestDeleteDimension() {
	region := s.region("", "Boeny")
	free := s.region("", "Melaky")
	_, err := s.service.CreateDeath(s.ctx, &models.Death{Geo: models.Geo{RegionID: &region.ID}})
	s.Require().NoError(err)

	s.Run("referenced row is kept and the conflict carries the counts", func() {
		err := s.service.DeleteDimension(s.ctx, models.KindRegion, region.ID)
		s.Require().Error(err)
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Equal(dErrors.CodeConflict, de.Code)
		s.Equal(models.Dependents{Deaths: 1}, de.Details["dependents"])
		s.Contains(de.Message, "1 décès")

		_, err = s.service.GetDimension(s.ctx, models.KindRegion, region.ID)
		s.NoError(err)
		s.Contains(s.actions(), string(audit.EventDimensionDeleteBlocked))
	})

	s.Run("child rows block the delete", func() {
		parent := s.region("", "Sava")
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: "Sambava", ParentID: &parent.ID})
		s.Require().NoError(err)
		err = s.service.DeleteDimension(s.ctx, models.KindRegion, parent.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unreferenced row is removed", func() {
		s.Require().NoError(s.service.DeleteDimension(s.ctx, models.KindRegion, free.ID))
		_, err := s.service.GetDimension(s.ctx, models.KindRegion, free.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(s.actions(), string(audit.EventDimensionDeleted))
	})

	s.Run("unknown row is not found", func() {
		err := s.service.DeleteDimension(s.ctx, models.KindRegion, 404)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestListAndChildren() {
	region := s.region("", "Diana")
	for _, label := range []string{"Nosy Be", "Ambanja", "Antsiranana I"} {
		_, err := s.service.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Label: label, ParentID: &region.ID})
		s.Require().NoError(err)
	}

	s.Run("children are ordered by label", func() {
		rows, err := s.service.Children(s.ctx, models.KindRegion, region.ID)
		s.Require().NoError(err)
		s.Require().Len(rows, 3)
		s.Equal("Ambanja", rows[0].Label)
		s.Equal("Nosy Be", rows[2].Label)
	})

	s.Run("children of an unknown parent", func() {
		_, err := s.service.Children(s.ctx, models.KindRegion, 404)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("fokontany has no children", func() {
		_, err := s.service.Children(s.ctx, models.KindFokontany, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unpaginated list returns every row", func() {
		rows, pagination, err := s.service.ListDimensions(s.ctx, models.DimensionQuery{Kind: models.KindDistrict}, nil)
		s.Require().NoError(err)
		s.Len(rows, 3)
		s.Nil(pagination)
	})

	s.Run("paginated list", func() {
		rows, pagination, err := s.service.ListDimensions(s.ctx,
			models.DimensionQuery{Kind: models.KindDistrict, SortBy: "libelle"},
			&filter.Page{Number: 2, Size: 2},
		)
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal("Nosy Be", rows[0].Label)
		s.Equal(3, pagination.Total)
		s.Equal(2, pagination.LastPage)
	})
}

// =============================================================================
// Collaborator failures
// =============================================================================
// Store and audit failures are simulated with mocks.

type RegistryFailureSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	store       *mocks.MockStore
	publisher   *mocks.MockAuditPublisher
	invalidator *mocks.MockCacheInvalidator
	service     *Service
}

func TestRegistryFailureSuite(t *testing.T) {
	suite.Run(t, new(RegistryFailureSuite))
}

func (s *RegistryFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.invalidator = mocks.NewMockCacheInvalidator(s.ctrl)
	s.store.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }).
		AnyTimes()
	svc, err := New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
		WithCacheInvalidator(s.invalidator),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *RegistryFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RegistryFailureSuite) TestAuditFailureFailsTheWrite() {
	s.store.EXPECT().NextActNumber(gomock.Any(), models.FactDeath).Return(int64(1), nil)
	s.store.EXPECT().CreateDeath(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

	_, err := s.service.CreateDeath(context.Background(), &models.Death{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *RegistryFailureSuite) TestStoreConflictIsConflict() {
	s.store.EXPECT().NextActNumber(gomock.Any(), models.FactBirth).Return(int64(3), nil)
	s.store.EXPECT().CreateBirth(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := s.service.CreateBirth(context.Background(), &models.Birth{
		Labels: models.BirthLabels{ChildLastName: "R", ChildFirstName: "V"},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *RegistryFailureSuite) TestListFailureIsInternal() {
	s.store.EXPECT().ListDeaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, 0, errors.New("connection reset"))

	_, _, err := s.service.ListDeaths(context.Background(), filter.Criteria{}, filter.DefaultRecordSort, filter.Page{Number: 1, Size: 15})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *RegistryFailureSuite) TestInvalidationFailureDoesNotFailTheWrite() {
	s.store.EXPECT().DeleteDeath(gomock.Any(), int64(4)).Return(nil)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.invalidator.EXPECT().Invalidate(gomock.Any()).Return(errors.New("redis down"))

	s.NoError(s.service.DeleteDeath(context.Background(), 4))
}

func (s *RegistryFailureSuite) TestDeleteGuardIsEvaluatedByTheStore() {
	s.store.EXPECT().DeleteDimension(gomock.Any(), models.KindNationality, int64(2), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.DimensionKind, _ int64, guard store.DeleteGuard) (models.DeleteCheck, error) {
			return guard(models.Dependents{Births: 3}), nil
		})
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventDimensionDeleteBlocked), e.Action)
			s.Contains(e.Reason, "3 naissances")
			return nil
		})

	err := s.service.DeleteDimension(context.Background(), models.KindNationality, 2)
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Equal(dErrors.CodeConflict, de.Code)
	s.Equal(models.Dependents{Births: 3}, de.Details["dependents"])
}
