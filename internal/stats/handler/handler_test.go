package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"etatcivil/internal/registry/filter"
	registryhandler "etatcivil/internal/registry/handler"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/registry/service"
	"etatcivil/internal/registry/store"
	"etatcivil/internal/stats/aggregate"
	"etatcivil/internal/stats/handler/mocks"
	"etatcivil/internal/stats/report"
	dErrors "etatcivil/pkg/domain-errors"
	"etatcivil/pkg/platform/middleware/request"
	"etatcivil/pkg/platform/middleware/requesttime"
	"etatcivil/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Reporter

var now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

type StatsHandlerSuite struct {
	suite.Suite
	reports *mocks.MockReporter
	router  http.Handler
}

func TestStatsHandlerSuite(t *testing.T) {
	suite.Run(t, new(StatsHandlerSuite))
}

func newRouter(register ...func(chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.WithClock(func() time.Time { return now }))
	for _, reg := range register {
		reg(r)
	}
	return r
}

func (s *StatsHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.reports = mocks.NewMockReporter(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = newRouter(New(s.reports, logger).Register)
}

func (s *StatsHandlerSuite) do(method, path, body string) (*httptest.ResponseRecorder, testutil.Envelope) {
	return serve(s.T(), s.router, method, path, body)
}

func serve(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, testutil.Envelope) {
	t.Helper()
	return testutil.Do(t, router, testutil.NewJSONRequest(t, method, path, body))
}

func (s *StatsHandlerSuite) TestDashboard() {
	region := int64(3)
	want := report.Scope{Year: models.Int(2023), RegionID: &region, AsOf: now}
	s.reports.EXPECT().Dashboard(gomock.Any(), want).Return(&report.Dashboard{
		KPIs: report.KPIs{Indicators: aggregate.ComputeIndicators(20, 10)},
	}, nil)

	rec, env := s.do(http.MethodGet, "/api/statistiques/dashboard?annee=2023&region_id=3&sexe=7", "")
	s.Equal(http.StatusOK, rec.Code)
	s.True(env.Success)
	s.Equal(map[string]any{"annee": 2023.0, "region_id": 3.0}, env.FiltersApplied)

	d := testutil.DecodeData[struct {
		KPIs map[string]any `json:"kpis"`
	}](s.T(), env)
	s.Equal(200.0, d.KPIs["taux_accroissement"])
}

func (s *StatsHandlerSuite) TestDashboardInternalError() {
	s.reports.EXPECT().Dashboard(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to build dashboard"))

	rec, env := s.do(http.MethodGet, "/api/statistiques/dashboard", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.False(env.Success)
	s.Equal("Erreur interne du serveur", env.Message)
	s.NotContains(env.Error, "pq:")
}

func (s *StatsHandlerSuite) TestEntityStatistics() {
	s.Run("only the year narrows the bundle", func() {
		s.reports.EXPECT().RegionStatistics(gomock.Any(), int64(4), report.Scope{Year: models.Int(2022), AsOf: now}).
			Return(&report.EntityStatistics{Filters: map[string]any{"annee": 2022, "region_id": int64(4)}}, nil)

		rec, env := s.do(http.MethodGet, "/api/regions/4/statistiques?annee=2022&district_id=9", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(map[string]any{"annee": 2022.0, "region_id": 4.0}, env.FiltersApplied)
	})

	s.Run("malformed id is not found", func() {
		rec, env := s.do(http.MethodGet, "/api/districts/abc/statistiques", "")
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("District non trouvé", env.Message)
	})

	s.Run("unknown district", func() {
		s.reports.EXPECT().DistrictStatistics(gomock.Any(), int64(77), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "District non trouvé(e)"))

		rec, _ := s.do(http.MethodGet, "/api/districts/77/statistiques", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *StatsHandlerSuite) TestCompare() {
	s.Run("regions", func() {
		s.reports.EXPECT().CompareRegions(gomock.Any(), []int64{1, 2}, models.Int(2023)).
			Return(&aggregate.Comparison{Year: 2023, Entries: []aggregate.ComparisonEntry{{ID: 1}, {ID: 2}}}, nil)

		rec, env := s.do(http.MethodPost, "/api/regions/comparaison", `{"region_ids":[1,2],"annee":2023}`)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("Comparaison effectuée avec succès", env.Message)
		cmp := testutil.DecodeData[map[string]any](s.T(), env)
		s.Len(cmp["entites"], 2)
	})

	s.Run("districts read district_ids", func() {
		s.reports.EXPECT().CompareDistricts(gomock.Any(), []int64{5}, gomock.Nil()).
			Return(&aggregate.Comparison{Year: 2024}, nil)

		rec, _ := s.do(http.MethodPost, "/api/districts/comparaison", `{"district_ids":[5],"region_ids":[1]}`)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("empty list is a bad request", func() {
		s.reports.EXPECT().CompareRegions(gomock.Any(), gomock.Nil(), gomock.Nil()).
			Return(nil, dErrors.New(dErrors.CodeBadRequest, "au moins un identifiant de région est requis"))

		rec, env := s.do(http.MethodPost, "/api/regions/comparaison", `{}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.False(env.Success)
	})

	s.Run("non-positive ids fail validation", func() {
		rec, env := s.do(http.MethodPost, "/api/regions/comparaison", `{"region_ids":[0]}`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.NotEmpty(env.Errors)
	})

	s.Run("malformed body", func() {
		rec, env := s.do(http.MethodPost, "/api/regions/comparaison", `{"region_ids":`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Corps de requête JSON invalide", env.Message)
	})
}

func (s *StatsHandlerSuite) TestSeries() {
	year := filter.Criteria{Year: models.Int(2023)}

	s.Run("deaths by year echoes the criteria", func() {
		s.reports.EXPECT().DeathsByYear(gomock.Any(), year).Return([]report.YearCount{{Year: 2023, Count: 4}}, nil)

		rec, env := s.do(http.MethodGet, "/api/statistiques/deces-par-annee?annee=2023", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(map[string]any{"annee": 2023.0}, env.FiltersApplied)
		s.JSONEq(`[{"annee":2023,"total":4}]`, string(env.Data))
	})

	s.Run("births by year", func() {
		s.reports.EXPECT().BirthsByYear(gomock.Any(), filter.Criteria{}).Return([]report.YearCount{}, nil)
		rec, _ := s.do(http.MethodGet, "/api/statistiques/naissances-par-annee", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("top causes clamps the limit", func() {
		s.reports.EXPECT().TopCauses(gomock.Any(), filter.Criteria{}, report.MaxCauseLimit).Return([]report.EntityCount{}, nil)
		rec, _ := s.do(http.MethodGet, "/api/statistiques/causes-deces?limit=70", "")
		s.Equal(http.StatusOK, rec.Code)

		s.reports.EXPECT().TopCauses(gomock.Any(), filter.Criteria{}, report.DefaultCauseLimit).Return([]report.EntityCount{}, nil)
		rec, _ = s.do(http.MethodGet, "/api/statistiques/causes-deces", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("pyramid and regional rates", func() {
		s.reports.EXPECT().AgePyramid(gomock.Any(), year).Return([]aggregate.PyramidCell{}, nil)
		s.reports.EXPECT().NatalityByRegion(gomock.Any(), year).Return([]aggregate.NatalityRow{}, nil)
		s.reports.EXPECT().MortalityByRegion(gomock.Any(), year).Return([]aggregate.MortalityRow{}, nil)

		for _, path := range []string{"pyramide-ages", "taux-natalite", "taux-mortalite"} {
			rec, _ := s.do(http.MethodGet, "/api/statistiques/"+path+"?annee=2023", "")
			s.Equal(http.StatusOK, rec.Code, path)
		}
	})
}

// TestRoutesBesideRegistry mounts both handlers on one router over the
// memory store, as the server does.
func TestRoutesBesideRegistry(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewInMemory()
	svc, err := service.New(st, service.WithLogger(logger))
	require.NoError(t, err)
	reporter, err := report.New(st, report.WithLogger(logger))
	require.NoError(t, err)
	router := newRouter(registryhandler.New(svc, logger).Register, New(reporter, logger).Register)

	rec, env := serve(t, router, http.MethodPost, "/api/regions", `{"libelle":"Analamanga","code":"ANA"}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	rec, _ = serve(t, router, http.MethodPost, "/api/regions", `{"libelle":"Atsinanana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	for _, body := range []string{
		`{"n_acte":1,"annee_deces":2024,"region_id":1}`,
		`{"n_acte":2,"annee_deces":2024,"region_id":2}`,
		`{"n_acte":3,"annee_deces":2024,"region_id":2}`,
	} {
		rec, env = serve(t, router, http.MethodPost, "/api/deces", body)
		require.Equal(t, http.StatusCreated, rec.Code, env.Errors)
	}

	rec, env = serve(t, router, http.MethodPost, "/api/regions/comparaison", `{"region_ids":[1,2]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cmp := testutil.DecodeData[aggregate.Comparison](t, env)
	require.Equal(t, now.Year(), cmp.Year)
	require.Equal(t, int64(2), cmp.Rankings.ByDeaths[0].ID)

	rec, env = serve(t, router, http.MethodGet, "/api/regions/1/statistiques", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st1 := testutil.DecodeData[report.EntityStatistics](t, env)
	require.Equal(t, "Analamanga", st1.Entity.Label)
	require.Equal(t, 1, st1.Indicators.Deaths)

	rec, _ = serve(t, router, http.MethodGet, "/api/regions/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = serve(t, router, http.MethodGet, "/api/statistiques/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := testutil.DecodeData[report.Dashboard](t, env)
	require.Equal(t, 3, d.KPIs.Deaths)
	require.Equal(t, 2, d.KPIs.Regions)
}
