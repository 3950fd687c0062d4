//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/internal/registry/store"
	"etatcivil/pkg/platform/sentinel"
	"etatcivil/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(s.postgres.Exec(context.Background(), store.Schema))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "deaths", "births", "code_sequences", "dimensions", "outbox")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) dimension(kind models.DimensionKind, code string, parent *int64) *models.Dimension {
	now := time.Now().UTC()
	d := &models.Dimension{Kind: kind, Code: code, Label: code, ParentID: parent, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.store.CreateDimension(context.Background(), d))
	return d
}

func (s *PostgresStoreSuite) TestDeathRoundTrip() {
	ctx := context.Background()
	region := s.dimension(models.KindRegion, "REG-001", nil)
	now := time.Now().UTC().Truncate(time.Microsecond)

	d := &models.Death{
		ActNumber: models.Int64(12),
		Date:      models.NewDate(2023, 4, 9),
		BirthDate: models.Date{Year: models.Int(1950)},
		Geo:       models.Geo{RegionID: models.Int64(region.ID)},
		Sex:       models.SexPtr(models.SexFemale),
		Place:     models.Int(models.PlaceHome),
		Labels:    models.DeathLabels{Cause: "Paludisme"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.store.CreateDeath(ctx, d))

	found, err := s.store.FindDeath(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(models.SexFemale, *found.Sex)
	s.Equal(region.ID, *found.RegionID)
	s.Equal(2023, found.Date.YearValue())
	s.Nil(found.AreaType)
	s.Equal("Paludisme", found.Labels.Cause)

	s.Run("criteria narrows the snapshot", func() {
		deaths, err := s.store.Deaths(ctx, filter.Criteria{Year: models.Int(2023), AgeMin: models.Int(70)})
		s.Require().NoError(err)
		s.Len(deaths, 1)
		deaths, err = s.store.Deaths(ctx, filter.Criteria{Search: "palu"})
		s.Require().NoError(err)
		s.Len(deaths, 1)
		deaths, err = s.store.Deaths(ctx, filter.Criteria{Sex: models.SexPtr(models.SexMale)})
		s.Require().NoError(err)
		s.Empty(deaths)

		n, err := s.store.CountDeaths(ctx, filter.Criteria{Year: models.Int(2023)})
		s.Require().NoError(err)
		s.Equal(1, n)
		n, err = s.store.CountBirths(ctx, filter.Criteria{})
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("duplicate act number is a conflict", func() {
		dup := &models.Death{ActNumber: models.Int64(12), CreatedAt: now, UpdatedAt: now}
		s.ErrorIs(s.store.CreateDeath(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("next act number follows the maximum", func() {
		next, err := s.store.NextActNumber(ctx, models.FactDeath)
		s.Require().NoError(err)
		s.Equal(int64(13), next)
	})
}

func (s *PostgresStoreSuite) TestListDimensionsWithStats() {
	ctx := context.Background()
	region := s.dimension(models.KindRegion, "REG-001", nil)
	s.dimension(models.KindRegion, "REG-002", nil)
	s.dimension(models.KindDistrict, "REG-001-01", models.Int64(region.ID))
	now := time.Now().UTC()
	s.Require().NoError(s.store.CreateBirth(ctx, &models.Birth{
		ActNumber: models.Int64(1), Geo: models.Geo{RegionID: models.Int64(region.ID)}, CreatedAt: now, UpdatedAt: now,
	}))

	rows, total, err := s.store.ListDimensions(ctx, models.DimensionQuery{
		Kind: models.KindRegion, WithStats: true, SortBy: "naissances_count", Desc: true,
	})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(region.ID, rows[0].ID)
	s.Equal(1, *rows[0].BirthsCount)
	s.Equal(1, *rows[0].ChildrenCount)

	byIDs, err := s.store.DimensionsByIDs(ctx, models.KindRegion, []int64{region.ID, 9999})
	s.Require().NoError(err)
	s.Len(byIDs, 1)
}

func (s *PostgresStoreSuite) TestCodeSequence() {
	ctx := context.Background()
	parent := models.Int64(7)
	for want := int64(1); want <= 3; want++ {
		got, err := s.store.NextCodeSequence(ctx, models.KindCommune, parent)
		s.Require().NoError(err)
		s.Equal(want, got)
	}
	got, err := s.store.NextCodeSequence(ctx, models.KindCause, nil)
	s.Require().NoError(err)
	s.Equal(int64(1), got)
}

// TestDeleteGuard verifies a referenced row survives and an unreferenced one goes.
func (s *PostgresStoreSuite) TestDeleteGuard() {
	ctx := context.Background()
	guard := func(deps models.Dependents) models.DeleteCheck { return models.CanDelete(models.KindNationality, deps) }
	used := s.dimension(models.KindNationality, "N001", nil)
	free := s.dimension(models.KindNationality, "N002", nil)
	now := time.Now().UTC()
	s.Require().NoError(s.store.CreateBirth(ctx, &models.Birth{
		ActNumber: models.Int64(1), MotherNationalityID: models.Int64(used.ID), CreatedAt: now, UpdatedAt: now,
	}))

	check, err := s.store.DeleteDimension(ctx, models.KindNationality, used.ID, guard)
	s.Require().NoError(err)
	s.True(check.Blocked)
	s.Equal(1, check.Dependents.Births)
	_, err = s.store.FindDimension(ctx, models.KindNationality, used.ID)
	s.NoError(err)

	check, err = s.store.DeleteDimension(ctx, models.KindNationality, free.ID, guard)
	s.Require().NoError(err)
	s.False(check.Blocked)
	_, err = s.store.FindDimension(ctx, models.KindNationality, free.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentActNumbers verifies the unique constraint lets exactly one
// writer claim an act number.
func (s *PostgresStoreSuite) TestConcurrentActNumbers() {
	ctx := context.Background()
	const writers = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := time.Now().UTC()
			err := s.store.CreateDeath(ctx, &models.Death{ActNumber: models.Int64(77), CreatedAt: now, UpdatedAt: now})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), successes.Load())
	s.Equal(int32(writers-1), conflicts.Load())
}

// TestConcurrentGeneratedActNumbers creates records without an act number from
// parallel transactions; each must get a distinct generated number.
func (s *PostgresStoreSuite) TestConcurrentGeneratedActNumbers() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.store.CreateDeath(ctx, &models.Death{ActNumber: models.Int64(50), CreatedAt: now, UpdatedAt: now}))

	const writers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int64]bool{}
		failed  atomic.Int32
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
				next, err := s.store.NextActNumber(txCtx, models.FactDeath)
				if err != nil {
					return err
				}
				d := &models.Death{ActNumber: models.Int64(next), CreatedAt: now, UpdatedAt: now}
				if err := s.store.CreateDeath(txCtx, d); err != nil {
					return err
				}
				mu.Lock()
				numbers[next] = true
				mu.Unlock()
				return nil
			})
			if err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Zero(failed.Load())
	s.Len(numbers, writers)
	for n := range numbers {
		s.Greater(n, int64(50), "generated numbers skip the explicit one")
	}

	s.Run("an explicit number above the counter is skipped", func() {
		s.Require().NoError(s.store.CreateDeath(ctx, &models.Death{ActNumber: models.Int64(500), CreatedAt: now, UpdatedAt: now}))
		next, err := s.store.NextActNumber(ctx, models.FactDeath)
		s.Require().NoError(err)
		s.Equal(int64(501), next)
	})

	s.Run("births have their own counter", func() {
		next, err := s.store.NextActNumber(ctx, models.FactBirth)
		s.Require().NoError(err)
		s.Equal(int64(1), next)
	})
}

func (s *PostgresStoreSuite) TestListDimensionsSearchIsLiteral() {
	ctx := context.Background()
	s.dimension(models.KindProfession, "P_01", nil)
	s.dimension(models.KindProfession, "PX01", nil)

	rows, total, err := s.store.ListDimensions(ctx, models.DimensionQuery{Kind: models.KindProfession, Search: "p_0"})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(rows, 1)
	s.Equal("P_01", rows[0].Code)
}
