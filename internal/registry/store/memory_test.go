package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) region(code, label string) *models.Dimension {
	d := &models.Dimension{Kind: models.KindRegion, Code: code, Label: label, IsActive: true, CreatedAt: time.Now()}
	s.Require().NoError(s.store.CreateDimension(s.ctx, d))
	return d
}

func (s *InMemoryStoreSuite) TestDeathLifecycle() {
	s.Run("creates, finds, updates and deletes", func() {
		d := &models.Death{ActNumber: models.Int64(1), Date: models.NewDate(2023, 5, 2)}
		s.Require().NoError(s.store.CreateDeath(s.ctx, d))
		s.NotZero(d.ID)

		found, err := s.store.FindDeath(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal(2023, *found.Date.Year)

		found.Labels.Cause = "Paludisme"
		s.Require().NoError(s.store.UpdateDeath(s.ctx, found))
		again, err := s.store.FindDeath(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal("Paludisme", again.Labels.Cause)

		s.Require().NoError(s.store.DeleteDeath(s.ctx, d.ID))
		_, err = s.store.FindDeath(s.ctx, d.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects a duplicate act number", func() {
		s.Require().NoError(s.store.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(50)}))
		err := s.store.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(50)})
		s.ErrorIs(err, sentinel.ErrConflict)

		taken, err := s.store.ActNumberTaken(s.ctx, models.FactDeath, 50, 0)
		s.Require().NoError(err)
		s.True(taken)
		taken, err = s.store.ActNumberTaken(s.ctx, models.FactBirth, 50, 0)
		s.Require().NoError(err)
		s.False(taken)
	})

	s.Run("unknown ids are not found", func() {
		s.ErrorIs(s.store.DeleteDeath(s.ctx, 999), sentinel.ErrNotFound)
		s.ErrorIs(s.store.UpdateDeath(s.ctx, &models.Death{ID: 999}), sentinel.ErrNotFound)
		s.ErrorIs(s.store.DeleteBirth(s.ctx, 999), sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestNextActNumber() {
	next, err := s.store.NextActNumber(s.ctx, models.FactBirth)
	s.Require().NoError(err)
	s.Equal(int64(1), next)

	s.Require().NoError(s.store.CreateBirth(s.ctx, &models.Birth{ActNumber: models.Int64(41)}))
	s.Require().NoError(s.store.CreateBirth(s.ctx, &models.Birth{ActNumber: models.Int64(7)}))
	next, err = s.store.NextActNumber(s.ctx, models.FactBirth)
	s.Require().NoError(err)
	s.Equal(int64(42), next)

	next, err = s.store.NextActNumber(s.ctx, models.FactDeath)
	s.Require().NoError(err)
	s.Equal(int64(1), next)
}

func (s *InMemoryStoreSuite) TestListDeaths() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, year := range []int{2021, 2023, 2022} {
		s.Require().NoError(s.store.CreateDeath(s.ctx, &models.Death{
			ActNumber: models.Int64(int64(100 + i)),
			Date:      models.Date{Year: models.Int(year)},
			Sex:       models.SexPtr(models.SexMale),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	s.Require().NoError(s.store.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(200), Sex: models.SexPtr(models.SexFemale), CreatedAt: base}))

	s.Run("filters, sorts and pages", func() {
		c := filter.Criteria{Sex: models.SexPtr(models.SexMale)}
		page, total, err := s.store.ListDeaths(s.ctx, c, filter.Sort{Field: "annee_deces"}, filter.Page{Number: 1, Size: 2})
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Require().Len(page, 2)
		s.Equal(2021, *page[0].Date.Year)
		s.Equal(2022, *page[1].Date.Year)

		n, err := s.store.CountDeaths(s.ctx, c)
		s.Require().NoError(err)
		s.Equal(total, n)
	})

	s.Run("default order is newest first", func() {
		page, _, err := s.store.ListDeaths(s.ctx, filter.Criteria{}, filter.DefaultRecordSort, filter.Page{Number: 1, Size: 10})
		s.Require().NoError(err)
		s.Equal(int64(102), *page[0].ActNumber)
	})

	s.Run("a page past the end is empty", func() {
		page, total, err := s.store.ListDeaths(s.ctx, filter.Criteria{}, filter.DefaultRecordSort, filter.Page{Number: 5, Size: 10})
		s.Require().NoError(err)
		s.Equal(4, total)
		s.Empty(page)
	})

	s.Run("a huge page number is empty, not a panic", func() {
		page, total, err := s.store.ListDeaths(s.ctx, filter.Criteria{}, filter.DefaultRecordSort,
			filter.ParsePage("92233720368547760", "100", filter.DefaultRecordPageSize))
		s.Require().NoError(err)
		s.Equal(4, total)
		s.Empty(page)
	})

	s.Run("snapshot is ordered by id", func() {
		all, err := s.store.Deaths(s.ctx, filter.Criteria{})
		s.Require().NoError(err)
		s.Len(all, 4)
		s.Less(all[0].ID, all[3].ID)
	})
}

func (s *InMemoryStoreSuite) TestDimensions() {
	s.Run("code is unique per kind, ignoring case", func() {
		s.region("REG-001", "Analamanga")
		err := s.store.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindRegion, Code: "reg-001"})
		s.ErrorIs(err, sentinel.ErrConflict)
		s.NoError(s.store.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindCause, Code: "REG-001"}))
	})

	s.Run("find checks the kind", func() {
		r := s.region("REG-002", "Vakinankaratra")
		_, err := s.store.FindDimension(s.ctx, models.KindDistrict, r.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("sequences are independent per parent", func() {
		p1, p2 := models.Int64(1), models.Int64(2)
		first, _ := s.store.NextCodeSequence(s.ctx, models.KindDistrict, p1)
		second, _ := s.store.NextCodeSequence(s.ctx, models.KindDistrict, p1)
		other, _ := s.store.NextCodeSequence(s.ctx, models.KindDistrict, p2)
		s.Equal([]int64{1, 2, 1}, []int64{first, second, other})
	})
}

func (s *InMemoryStoreSuite) TestListDimensions() {
	a := s.region("REG-001", "Analamanga")
	s.region("REG-002", "Boeny")
	s.region("REG-003", "Atsinanana")
	s.Require().NoError(s.store.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(1), Geo: models.Geo{RegionID: models.Int64(a.ID)}}))
	s.Require().NoError(s.store.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Code: "ANA-01", ParentID: models.Int64(a.ID)}))

	s.Run("searches label and code", func() {
		rows, total, err := s.store.ListDimensions(s.ctx, models.DimensionQuery{Kind: models.KindRegion, Search: "ana"})
		s.Require().NoError(err)
		s.Equal(2, total)
		s.Equal("Analamanga", rows[0].Label)
		s.Equal("Atsinanana", rows[1].Label)
	})

	s.Run("stats and count ordering", func() {
		rows, _, err := s.store.ListDimensions(s.ctx, models.DimensionQuery{Kind: models.KindRegion, WithStats: true, SortBy: "deces_count", Desc: true})
		s.Require().NoError(err)
		s.Equal(a.ID, rows[0].ID)
		s.Equal(1, *rows[0].DeathsCount)
		s.Equal(1, *rows[0].ChildrenCount)
		s.Zero(*rows[1].DeathsCount)
	})

	s.Run("limit and offset", func() {
		rows, total, err := s.store.ListDimensions(s.ctx, models.DimensionQuery{Kind: models.KindRegion, Limit: 1, Offset: 1})
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Require().Len(rows, 1)
		s.Equal("Atsinanana", rows[0].Label)
	})

	s.Run("filters by parent", func() {
		rows, _, err := s.store.ListDimensions(s.ctx, models.DimensionQuery{Kind: models.KindDistrict, ParentID: models.Int64(a.ID)})
		s.Require().NoError(err)
		s.Len(rows, 1)
	})

	s.Run("loads by ids", func() {
		rows, err := s.store.DimensionsByIDs(s.ctx, models.KindRegion, []int64{a.ID, 999, a.ID})
		s.Require().NoError(err)
		s.Len(rows, 1)
	})
}

func (s *InMemoryStoreSuite) TestDeleteDimension() {
	guard := func(kind models.DimensionKind) DeleteGuard {
		return func(deps models.Dependents) models.DeleteCheck { return models.CanDelete(kind, deps) }
	}

	s.Run("blocked by a fact record", func() {
		cause := &models.Dimension{Kind: models.KindCause, Code: "C001", Label: "Paludisme"}
		s.Require().NoError(s.store.CreateDimension(s.ctx, cause))
		s.Require().NoError(s.store.CreateDeath(s.ctx, &models.Death{ActNumber: models.Int64(9), CauseID: models.Int64(cause.ID)}))

		check, err := s.store.DeleteDimension(s.ctx, models.KindCause, cause.ID, guard(models.KindCause))
		s.Require().NoError(err)
		s.True(check.Blocked)
		s.Equal(1, check.Dependents.Deaths)

		_, err = s.store.FindDimension(s.ctx, models.KindCause, cause.ID)
		s.NoError(err, "row must survive a blocked delete")
	})

	s.Run("blocked by a child row", func() {
		r := s.region("REG-010", "Menabe")
		s.Require().NoError(s.store.CreateDimension(s.ctx, &models.Dimension{Kind: models.KindDistrict, Code: "MEN-01", ParentID: models.Int64(r.ID)}))
		check, err := s.store.DeleteDimension(s.ctx, models.KindRegion, r.ID, guard(models.KindRegion))
		s.Require().NoError(err)
		s.True(check.Blocked)
		s.Equal(1, check.Dependents.Children)
	})

	s.Run("blocked by a parent profession on a birth", func() {
		p := &models.Dimension{Kind: models.KindProfession, Code: "P001", Label: "Cultivateur"}
		s.Require().NoError(s.store.CreateDimension(s.ctx, p))
		s.Require().NoError(s.store.CreateBirth(s.ctx, &models.Birth{ActNumber: models.Int64(3), FatherProfessionID: models.Int64(p.ID)}))
		deps, err := s.store.CountDependents(s.ctx, models.KindProfession, p.ID)
		s.Require().NoError(err)
		s.Equal(models.Dependents{Births: 1}, deps)
	})

	s.Run("removes an unreferenced row", func() {
		r := s.region("REG-011", "Sava")
		check, err := s.store.DeleteDimension(s.ctx, models.KindRegion, r.ID, guard(models.KindRegion))
		s.Require().NoError(err)
		s.False(check.Blocked)
		_, err = s.store.FindDimension(s.ctx, models.KindRegion, r.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown row is not found", func() {
		_, err := s.store.DeleteDimension(s.ctx, models.KindRegion, 999, guard(models.KindRegion))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestRunInTxSerialises() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.RunInTx(s.ctx, func(ctx context.Context) error {
				mu.Lock()
				inside++
				maxSeen = max(maxSeen, inside)
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return s.store.RunInTx(ctx, func(context.Context) error { return nil })
			})
		}()
	}
	wg.Wait()
	s.Equal(1, maxSeen)
}
