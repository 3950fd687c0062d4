package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/pkg/platform/sentinel"
)

// InMemory keeps every table in maps guarded by one RWMutex. Transactions
// are serialised by a second mutex; writes inside a failed transaction are
// not rolled back, so callers validate before they write.
type InMemory struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	deaths     map[int64]models.Death
	births     map[int64]models.Birth
	dimensions map[int64]models.Dimension
	sequences  map[sequenceKey]int64

	lastDeathID     int64
	lastBirthID     int64
	lastDimensionID int64
}

type sequenceKey struct {
	kind   models.DimensionKind
	parent int64
}

type memTxKey struct{}

// NewInMemory constructs an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		deaths:     make(map[int64]models.Death),
		births:     make(map[int64]models.Birth),
		dimensions: make(map[int64]models.Dimension),
		sequences:  make(map[sequenceKey]int64),
	}
}

// RunInTx runs fn with transactions serialised. Nested calls join the outer one.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, true))
}

// -----------------------------------------------------------------------------
// Deaths
// -----------------------------------------------------------------------------

func (s *InMemory) CreateDeath(_ context.Context, d *models.Death) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ActNumber != nil && s.deathActTaken(*d.ActNumber, 0) {
		return sentinel.ErrConflict
	}
	s.lastDeathID++
	d.ID = s.lastDeathID
	s.deaths[d.ID] = *d
	return nil
}

func (s *InMemory) UpdateDeath(_ context.Context, d *models.Death) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deaths[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if d.ActNumber != nil && s.deathActTaken(*d.ActNumber, d.ID) {
		return sentinel.ErrConflict
	}
	s.deaths[d.ID] = *d
	return nil
}

func (s *InMemory) DeleteDeath(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deaths[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.deaths, id)
	return nil
}

func (s *InMemory) FindDeath(_ context.Context, id int64) (*models.Death, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deaths[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

// Deaths returns every death matching c, ordered by id.
func (s *InMemory) Deaths(_ context.Context, c filter.Criteria) ([]models.Death, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Death, 0, len(s.deaths))
	for _, d := range s.deaths {
		if c.MatchDeath(&d) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b models.Death) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CountDeaths returns the number of deaths matching c.
func (s *InMemory) CountDeaths(_ context.Context, c filter.Criteria) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.deaths {
		if c.MatchDeath(&d) {
			n++
		}
	}
	return n, nil
}

// ListDeaths returns one sorted page of matching deaths and the match total.
func (s *InMemory) ListDeaths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Death, int, error) {
	all, _ := s.Deaths(ctx, c)
	slices.SortStableFunc(all, func(a, b models.Death) int {
		return ordered(sort.Desc, compareDeaths(sort.Field, &a, &b))
	})
	start, end := page.Window(len(all))
	return all[start:end], len(all), nil
}

func compareDeaths(field string, a, b *models.Death) int {
	switch field {
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "annee_deces":
		return compareOptional(a.Date.Year, b.Date.Year)
	case "mois_deces":
		return compareOptional(a.Date.Month, b.Date.Month)
	case "n_acte":
		return compareOptional(a.ActNumber, b.ActNumber)
	default:
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}
}

func (s *InMemory) deathActTaken(act, exceptID int64) bool {
	for id, d := range s.deaths {
		if id != exceptID && d.ActNumber != nil && *d.ActNumber == act {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Births
// -----------------------------------------------------------------------------

func (s *InMemory) CreateBirth(_ context.Context, b *models.Birth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ActNumber != nil && s.birthActTaken(*b.ActNumber, 0) {
		return sentinel.ErrConflict
	}
	s.lastBirthID++
	b.ID = s.lastBirthID
	s.births[b.ID] = *b
	return nil
}

func (s *InMemory) UpdateBirth(_ context.Context, b *models.Birth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.births[b.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if b.ActNumber != nil && s.birthActTaken(*b.ActNumber, b.ID) {
		return sentinel.ErrConflict
	}
	s.births[b.ID] = *b
	return nil
}

func (s *InMemory) DeleteBirth(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.births[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.births, id)
	return nil
}

func (s *InMemory) FindBirth(_ context.Context, id int64) (*models.Birth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.births[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

// Births returns every birth matching c, ordered by id.
func (s *InMemory) Births(_ context.Context, c filter.Criteria) ([]models.Birth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Birth, 0, len(s.births))
	for _, b := range s.births {
		if c.MatchBirth(&b) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b models.Birth) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CountBirths returns the number of births matching c.
func (s *InMemory) CountBirths(_ context.Context, c filter.Criteria) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.births {
		if c.MatchBirth(&b) {
			n++
		}
	}
	return n, nil
}

// ListBirths returns one sorted page of matching births and the match total.
func (s *InMemory) ListBirths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Birth, int, error) {
	all, _ := s.Births(ctx, c)
	slices.SortStableFunc(all, func(a, b models.Birth) int {
		return ordered(sort.Desc, compareBirths(sort.Field, &a, &b))
	})
	start, end := page.Window(len(all))
	return all[start:end], len(all), nil
}

func compareBirths(field string, a, b *models.Birth) int {
	switch field {
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "annee_naissance":
		return compareOptional(a.Date.Year, b.Date.Year)
	case "mois_naissance":
		return compareOptional(a.Date.Month, b.Date.Month)
	case "n_acte":
		return compareOptional(a.ActNumber, b.ActNumber)
	default:
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}
}

func (s *InMemory) birthActTaken(act, exceptID int64) bool {
	for id, b := range s.births {
		if id != exceptID && b.ActNumber != nil && *b.ActNumber == act {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Act numbers
// -----------------------------------------------------------------------------

// NextActNumber returns the highest act number of kind plus one.
func (s *InMemory) NextActNumber(_ context.Context, kind models.FactKind) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var highest int64
	switch kind {
	case models.FactDeath:
		for _, d := range s.deaths {
			if d.ActNumber != nil && *d.ActNumber > highest {
				highest = *d.ActNumber
			}
		}
	case models.FactBirth:
		for _, b := range s.births {
			if b.ActNumber != nil && *b.ActNumber > highest {
				highest = *b.ActNumber
			}
		}
	}
	return highest + 1, nil
}

// ActNumberTaken reports whether another record of kind uses act.
func (s *InMemory) ActNumberTaken(_ context.Context, kind models.FactKind, act, exceptID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == models.FactDeath {
		return s.deathActTaken(act, exceptID), nil
	}
	return s.birthActTaken(act, exceptID), nil
}

// -----------------------------------------------------------------------------
// Dimensions
// -----------------------------------------------------------------------------

func (s *InMemory) CreateDimension(_ context.Context, d *models.Dimension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTaken(d.Kind, d.Code, 0) {
		return sentinel.ErrConflict
	}
	s.lastDimensionID++
	d.ID = s.lastDimensionID
	s.dimensions[d.ID] = *d
	return nil
}

func (s *InMemory) UpdateDimension(_ context.Context, d *models.Dimension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.dimensions[d.ID]
	if !ok || existing.Kind != d.Kind {
		return sentinel.ErrNotFound
	}
	if s.codeTaken(d.Kind, d.Code, d.ID) {
		return sentinel.ErrConflict
	}
	s.dimensions[d.ID] = *d
	return nil
}

func (s *InMemory) FindDimension(_ context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dimensions[id]
	if !ok || d.Kind != kind {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

// DimensionsByIDs loads the rows of kind among ids, in id order.
func (s *InMemory) DimensionsByIDs(_ context.Context, kind models.DimensionKind, ids []int64) ([]models.Dimension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Dimension{}
	for _, id := range ids {
		if d, ok := s.dimensions[id]; ok && d.Kind == kind && !slices.ContainsFunc(out, func(x models.Dimension) bool { return x.ID == id }) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b models.Dimension) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CodeTaken reports whether another row of kind uses code.
func (s *InMemory) CodeTaken(_ context.Context, kind models.DimensionKind, code string, exceptID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codeTaken(kind, code, exceptID), nil
}

func (s *InMemory) codeTaken(kind models.DimensionKind, code string, exceptID int64) bool {
	for id, d := range s.dimensions {
		if id != exceptID && d.Kind == kind && strings.EqualFold(d.Code, code) {
			return true
		}
	}
	return false
}

// CountDimensions counts the rows of kind.
func (s *InMemory) CountDimensions(_ context.Context, kind models.DimensionKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.dimensions {
		if d.Kind == kind {
			n++
		}
	}
	return n, nil
}

// NextCodeSequence increments and returns the (kind, parent) counter.
func (s *InMemory) NextCodeSequence(_ context.Context, kind models.DimensionKind, parentID *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sequenceKey{kind: kind, parent: sequenceParent(parentID)}
	s.sequences[key]++
	return s.sequences[key], nil
}

// ListDimensions returns one page of rows of q.Kind and the match total.
func (s *InMemory) ListDimensions(_ context.Context, q models.DimensionQuery) ([]models.DimensionSummary, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	rows := []models.DimensionSummary{}
	for _, d := range s.dimensions {
		if d.Kind != q.Kind {
			continue
		}
		if q.ParentID != nil && (d.ParentID == nil || *d.ParentID != *q.ParentID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Label), search) && !strings.Contains(strings.ToLower(d.Code), search) {
			continue
		}
		row := models.DimensionSummary{Dimension: d}
		if q.WithStats {
			deps := s.dependents(d.Kind, d.ID)
			row.DeathsCount, row.BirthsCount, row.ChildrenCount = &deps.Deaths, &deps.Births, &deps.Children
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b models.DimensionSummary) int {
		if c := ordered(q.Desc, compareDimensions(q.SortBy, &a, &b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(rows)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return rows[start:end], total, nil
}

func compareDimensions(field string, a, b *models.DimensionSummary) int {
	switch field {
	case "code":
		return cmp.Compare(a.Code, b.Code)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "deces_count":
		return compareOptional(a.DeathsCount, b.DeathsCount)
	case "naissances_count":
		return compareOptional(a.BirthsCount, b.BirthsCount)
	case "enfants_count":
		return compareOptional(a.ChildrenCount, b.ChildrenCount)
	default:
		return cmp.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	}
}

// CountDependents counts the rows referencing the dimension row.
func (s *InMemory) CountDependents(_ context.Context, kind models.DimensionKind, id int64) (models.Dependents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dependents(kind, id), nil
}

func (s *InMemory) dependents(kind models.DimensionKind, id int64) models.Dependents {
	var deps models.Dependents
	for _, d := range s.deaths {
		if refersTo(deathRefs(&d, kind), id) {
			deps.Deaths++
		}
	}
	for _, b := range s.births {
		if refersTo(birthRefs(&b, kind), id) {
			deps.Births++
		}
	}
	if _, ok := kind.ChildKind(); ok {
		for _, child := range s.dimensions {
			if child.ParentID != nil && *child.ParentID == id {
				deps.Children++
			}
		}
	}
	return deps
}

// DeleteDimension counts dependents, asks guard, and removes the row only when
// the check passes, all under the write lock.
func (s *InMemory) DeleteDimension(_ context.Context, kind models.DimensionKind, id int64, guard DeleteGuard) (models.DeleteCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dimensions[id]
	if !ok || d.Kind != kind {
		return models.DeleteCheck{}, sentinel.ErrNotFound
	}
	check := guard(s.dependents(kind, id))
	if check.Blocked {
		return check, nil
	}
	delete(s.dimensions, id)
	return check, nil
}

// -----------------------------------------------------------------------------
// Ordering helpers
// -----------------------------------------------------------------------------

// ordered flips c for descending order.
func ordered(desc bool, c int) int {
	if desc {
		return -c
	}
	return c
}

// compareOptional orders nils after every value.
func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

func compareCreated(a, b time.Time, aID, bID int64) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}
