package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"etatcivil/internal/registry/filter"
	"etatcivil/internal/registry/models"
	"etatcivil/pkg/platform/sentinel"
	txcontext "etatcivil/pkg/platform/tx"
)

const (
	tableDeaths     = "deaths"
	tableBirths     = "births"
	tableDimensions = "dimensions"
)

// Postgres error codes mapped onto sentinels.
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

var deathColumns = []string{
	"id", "act_number",
	"death_year", "death_month", "death_day",
	"declaration_year", "declaration_month", "declaration_day",
	"birth_year", "birth_month", "birth_day",
	"region_id", "district_id", "commune_id", "fokontany_id",
	"sex", "area_type", "place",
	"cause_id", "profession_id", "declarant_profession_id", "nationality_id",
	"lib_commune", "lib_district", "lib_region", "lib_fokontany",
	"lib_cause", "lib_profession", "lib_declarant_profession", "lib_nationality",
	"created_by", "created_at", "updated_at",
}

var birthColumns = []string{
	"id", "act_number",
	"birth_year", "birth_month", "birth_day",
	"declaration_year", "declaration_month", "declaration_day",
	"region_id", "district_id", "commune_id", "fokontany_id",
	"child_sex", "area_type",
	"mother_age", "father_age", "mother_birth_year", "father_birth_year",
	"live_birth", "medical_assistance", "father_declared", "registration_type",
	"mother_profession_id", "father_profession_id", "mother_nationality_id", "father_nationality_id",
	"lib_commune", "lib_district", "lib_region", "lib_fokontany",
	"child_last_name", "child_first_name", "mother_name", "father_name",
	"lib_mother_nationality", "lib_father_nationality", "lib_mother_profession", "lib_father_profession",
	"created_by", "created_at", "updated_at",
}

var dimensionColumns = []string{
	"d.id", "d.kind", "d.code", "d.label", "d.parent_id", "d.description", "d.is_active",
	"d.population", "d.category", "d.severity", "d.qualification_level",
	"d.created_at", "d.updated_at",
}

// sortColumns maps API sort names onto columns.
var sortColumns = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"annee_deces":     "death_year",
	"mois_deces":      "death_month",
	"annee_naissance": "birth_year",
	"mois_naissance":  "birth_month",
	"n_acte":          "act_number",
}

// dimensionSortColumns does the same for dimension listings. Count columns
// exist only when stats are requested.
var dimensionSortColumns = map[string]string{
	"libelle":          "LOWER(d.label)",
	"code":             "d.code",
	"created_at":       "d.created_at",
	"deces_count":      "deaths_count",
	"naissances_count": "births_count",
	"enfants_count":    "children_count",
}

// PostgresStore persists the registry in PostgreSQL through database/sql and
// lib/pq. Statements are built with squirrel.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// builder returns a squirrel builder using $n placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func wrapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqSerializationFailure:
			return fmt.Errorf("%w: %s", sentinel.ErrConflict, pqErr.Message)
		}
	}
	return err
}

// RunInTx runs fn inside one read-committed transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, nil, fn)
}

// -----------------------------------------------------------------------------
// Deaths
// -----------------------------------------------------------------------------

func deathValues(d *models.Death) map[string]any {
	return map[string]any{
		"act_number":               d.ActNumber,
		"death_year":               d.Date.Year,
		"death_month":              d.Date.Month,
		"death_day":                d.Date.Day,
		"declaration_year":         d.Declaration.Year,
		"declaration_month":        d.Declaration.Month,
		"declaration_day":          d.Declaration.Day,
		"birth_year":               d.BirthDate.Year,
		"birth_month":              d.BirthDate.Month,
		"birth_day":                d.BirthDate.Day,
		"region_id":                d.RegionID,
		"district_id":              d.DistrictID,
		"commune_id":               d.CommuneID,
		"fokontany_id":             d.FokontanyID,
		"sex":                      d.Sex,
		"area_type":                d.AreaType,
		"place":                    d.Place,
		"cause_id":                 d.CauseID,
		"profession_id":            d.ProfessionID,
		"declarant_profession_id":  d.DeclarantProfessionID,
		"nationality_id":           d.NationalityID,
		"lib_commune":              d.Labels.Commune,
		"lib_district":             d.Labels.District,
		"lib_region":               d.Labels.Region,
		"lib_fokontany":            d.Labels.Fokontany,
		"lib_cause":                d.Labels.Cause,
		"lib_profession":           d.Labels.Profession,
		"lib_declarant_profession": d.Labels.DeclarantProfession,
		"lib_nationality":          d.Labels.Nationality,
		"created_by":               d.CreatedBy,
		"created_at":               d.CreatedAt,
		"updated_at":               d.UpdatedAt,
	}
}

func scanDeath(row interface{ Scan(...any) error }) (models.Death, error) {
	var d models.Death
	err := row.Scan(
		&d.ID, &d.ActNumber,
		&d.Date.Year, &d.Date.Month, &d.Date.Day,
		&d.Declaration.Year, &d.Declaration.Month, &d.Declaration.Day,
		&d.BirthDate.Year, &d.BirthDate.Month, &d.BirthDate.Day,
		&d.RegionID, &d.DistrictID, &d.CommuneID, &d.FokontanyID,
		&d.Sex, &d.AreaType, &d.Place,
		&d.CauseID, &d.ProfessionID, &d.DeclarantProfessionID, &d.NationalityID,
		&d.Labels.Commune, &d.Labels.District, &d.Labels.Region, &d.Labels.Fokontany,
		&d.Labels.Cause, &d.Labels.Profession, &d.Labels.DeclarantProfession, &d.Labels.Nationality,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (s *PostgresStore) CreateDeath(ctx context.Context, d *models.Death) error {
	query, args, err := builder().Insert(tableDeaths).SetMap(deathValues(d)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert death: %w", err)
	}
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&d.ID); err != nil {
		return fmt.Errorf("insert death: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) UpdateDeath(ctx context.Context, d *models.Death) error {
	values := deathValues(d)
	delete(values, "created_at")
	delete(values, "created_by")
	return s.update(ctx, tableDeaths, d.ID, values)
}

func (s *PostgresStore) DeleteDeath(ctx context.Context, id int64) error {
	return s.delete(ctx, tableDeaths, squirrel.Eq{"id": id})
}

func (s *PostgresStore) FindDeath(ctx context.Context, id int64) (*models.Death, error) {
	query, args, err := builder().Select(deathColumns...).From(tableDeaths).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find death: %w", err)
	}
	d, err := scanDeath(s.execer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapErr(err)
	}
	return &d, nil
}

// Deaths returns every death matching c, ordered by id.
func (s *PostgresStore) Deaths(ctx context.Context, c filter.Criteria) ([]models.Death, error) {
	sb := c.ApplyDeaths(builder().Select(deathColumns...).From(tableDeaths)).OrderBy("id")
	return s.queryDeaths(ctx, sb)
}

// CountDeaths counts matching deaths in the database.
func (s *PostgresStore) CountDeaths(ctx context.Context, c filter.Criteria) (int, error) {
	return s.count(ctx, c.ApplyDeaths(builder().Select("COUNT(*)").From(tableDeaths)))
}

// ListDeaths returns one sorted page of matching deaths and the match total.
func (s *PostgresStore) ListDeaths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Death, int, error) {
	total, err := s.CountDeaths(ctx, c)
	if err != nil {
		return nil, 0, err
	}
	sb := c.ApplyDeaths(builder().Select(deathColumns...).From(tableDeaths)).
		OrderBy(orderBy(sort)...).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
	deaths, err := s.queryDeaths(ctx, sb)
	if err != nil {
		return nil, 0, err
	}
	return deaths, total, nil
}

func (s *PostgresStore) queryDeaths(ctx context.Context, sb squirrel.SelectBuilder) ([]models.Death, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build death query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deaths: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []models.Death{}
	for rows.Next() {
		d, err := scanDeath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan death: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deaths: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Births
// -----------------------------------------------------------------------------

func birthValues(b *models.Birth) map[string]any {
	return map[string]any{
		"act_number":             b.ActNumber,
		"birth_year":             b.Date.Year,
		"birth_month":            b.Date.Month,
		"birth_day":              b.Date.Day,
		"declaration_year":       b.Declaration.Year,
		"declaration_month":      b.Declaration.Month,
		"declaration_day":        b.Declaration.Day,
		"region_id":              b.RegionID,
		"district_id":            b.DistrictID,
		"commune_id":             b.CommuneID,
		"fokontany_id":           b.FokontanyID,
		"child_sex":              b.ChildSex,
		"area_type":              b.AreaType,
		"mother_age":             b.MotherAge,
		"father_age":             b.FatherAge,
		"mother_birth_year":      b.MotherBirthYear,
		"father_birth_year":      b.FatherBirthYear,
		"live_birth":             b.LiveBirth,
		"medical_assistance":     b.MedicalAssistance,
		"father_declared":        b.FatherDeclared,
		"registration_type":      b.RegistrationType,
		"mother_profession_id":   b.MotherProfessionID,
		"father_profession_id":   b.FatherProfessionID,
		"mother_nationality_id":  b.MotherNationalityID,
		"father_nationality_id":  b.FatherNationalityID,
		"lib_commune":            b.Labels.Commune,
		"lib_district":           b.Labels.District,
		"lib_region":             b.Labels.Region,
		"lib_fokontany":          b.Labels.Fokontany,
		"child_last_name":        b.Labels.ChildLastName,
		"child_first_name":       b.Labels.ChildFirstName,
		"mother_name":            b.Labels.MotherName,
		"father_name":            b.Labels.FatherName,
		"lib_mother_nationality": b.Labels.MotherNationality,
		"lib_father_nationality": b.Labels.FatherNationality,
		"lib_mother_profession":  b.Labels.MotherProfession,
		"lib_father_profession":  b.Labels.FatherProfession,
		"created_by":             b.CreatedBy,
		"created_at":             b.CreatedAt,
		"updated_at":             b.UpdatedAt,
	}
}

func scanBirth(row interface{ Scan(...any) error }) (models.Birth, error) {
	var b models.Birth
	err := row.Scan(
		&b.ID, &b.ActNumber,
		&b.Date.Year, &b.Date.Month, &b.Date.Day,
		&b.Declaration.Year, &b.Declaration.Month, &b.Declaration.Day,
		&b.RegionID, &b.DistrictID, &b.CommuneID, &b.FokontanyID,
		&b.ChildSex, &b.AreaType,
		&b.MotherAge, &b.FatherAge, &b.MotherBirthYear, &b.FatherBirthYear,
		&b.LiveBirth, &b.MedicalAssistance, &b.FatherDeclared, &b.RegistrationType,
		&b.MotherProfessionID, &b.FatherProfessionID, &b.MotherNationalityID, &b.FatherNationalityID,
		&b.Labels.Commune, &b.Labels.District, &b.Labels.Region, &b.Labels.Fokontany,
		&b.Labels.ChildLastName, &b.Labels.ChildFirstName, &b.Labels.MotherName, &b.Labels.FatherName,
		&b.Labels.MotherNationality, &b.Labels.FatherNationality, &b.Labels.MotherProfession, &b.Labels.FatherProfession,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (s *PostgresStore) CreateBirth(ctx context.Context, b *models.Birth) error {
	query, args, err := builder().Insert(tableBirths).SetMap(birthValues(b)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert birth: %w", err)
	}
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("insert birth: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) UpdateBirth(ctx context.Context, b *models.Birth) error {
	values := birthValues(b)
	delete(values, "created_at")
	delete(values, "created_by")
	return s.update(ctx, tableBirths, b.ID, values)
}

func (s *PostgresStore) DeleteBirth(ctx context.Context, id int64) error {
	return s.delete(ctx, tableBirths, squirrel.Eq{"id": id})
}

func (s *PostgresStore) FindBirth(ctx context.Context, id int64) (*models.Birth, error) {
	query, args, err := builder().Select(birthColumns...).From(tableBirths).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find birth: %w", err)
	}
	b, err := scanBirth(s.execer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapErr(err)
	}
	return &b, nil
}

// Births returns every birth matching c, ordered by id.
func (s *PostgresStore) Births(ctx context.Context, c filter.Criteria) ([]models.Birth, error) {
	sb := c.ApplyBirths(builder().Select(birthColumns...).From(tableBirths)).OrderBy("id")
	return s.queryBirths(ctx, sb)
}

// CountBirths counts matching births in the database.
func (s *PostgresStore) CountBirths(ctx context.Context, c filter.Criteria) (int, error) {
	return s.count(ctx, c.ApplyBirths(builder().Select("COUNT(*)").From(tableBirths)))
}

// ListBirths returns one sorted page of matching births and the match total.
func (s *PostgresStore) ListBirths(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) ([]models.Birth, int, error) {
	total, err := s.CountBirths(ctx, c)
	if err != nil {
		return nil, 0, err
	}
	sb := c.ApplyBirths(builder().Select(birthColumns...).From(tableBirths)).
		OrderBy(orderBy(sort)...).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
	births, err := s.queryBirths(ctx, sb)
	if err != nil {
		return nil, 0, err
	}
	return births, total, nil
}

func (s *PostgresStore) queryBirths(ctx context.Context, sb squirrel.SelectBuilder) ([]models.Birth, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build birth query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query births: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []models.Birth{}
	for rows.Next() {
		b, err := scanBirth(rows)
		if err != nil {
			return nil, fmt.Errorf("scan birth: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate births: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Act numbers
// -----------------------------------------------------------------------------

func factTable(kind models.FactKind) string {
	if kind == models.FactBirth {
		return tableBirths
	}
	return tableDeaths
}

// NextActNumber allocates the next act number of kind from the code_sequences
// counter keyed (act:<kind>, 0). The counter row lock serialises concurrent
// writers; the counter never falls behind the highest stored act number, so
// explicitly numbered records are skipped.
func (s *PostgresStore) NextActNumber(ctx context.Context, kind models.FactKind) (int64, error) {
	highest := "(SELECT COALESCE(MAX(act_number), 0) FROM " + factTable(kind) + ")"
	query := `
		INSERT INTO code_sequences (kind, parent_id, last_value)
		VALUES ($1, 0, ` + highest + ` + 1)
		ON CONFLICT (kind, parent_id) DO UPDATE
		SET last_value = GREATEST(code_sequences.last_value + 1, ` + highest + ` + 1)
		RETURNING last_value
	`
	var next int64
	if err := s.execer(ctx).QueryRowContext(ctx, query, actSequenceKind(kind)).Scan(&next); err != nil {
		return 0, fmt.Errorf("next act number: %w", wrapErr(err))
	}
	return next, nil
}

func actSequenceKind(kind models.FactKind) string {
	return "act:" + string(kind)
}

// ActNumberTaken reports whether another record of kind uses act.
func (s *PostgresStore) ActNumberTaken(ctx context.Context, kind models.FactKind, act, exceptID int64) (bool, error) {
	return s.exists(ctx, builder().Select("1").From(factTable(kind)).
		Where(squirrel.Eq{"act_number": act}).
		Where(squirrel.NotEq{"id": exceptID}))
}

// -----------------------------------------------------------------------------
// Dimensions
// -----------------------------------------------------------------------------

func dimensionValues(d *models.Dimension) map[string]any {
	return map[string]any{
		"kind":                string(d.Kind),
		"code":                d.Code,
		"label":               d.Label,
		"parent_id":           d.ParentID,
		"description":         d.Description,
		"is_active":           d.IsActive,
		"population":          d.Population,
		"category":            d.Category,
		"severity":            d.Severity,
		"qualification_level": d.QualificationLevel,
		"created_at":          d.CreatedAt,
		"updated_at":          d.UpdatedAt,
	}
}

func dimensionDest(d *models.Dimension, kind *string) []any {
	return []any{
		&d.ID, kind, &d.Code, &d.Label, &d.ParentID, &d.Description, &d.IsActive,
		&d.Population, &d.Category, &d.Severity, &d.QualificationLevel,
		&d.CreatedAt, &d.UpdatedAt,
	}
}

func (s *PostgresStore) CreateDimension(ctx context.Context, d *models.Dimension) error {
	query, args, err := builder().Insert(tableDimensions).SetMap(dimensionValues(d)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert dimension: %w", err)
	}
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&d.ID); err != nil {
		return fmt.Errorf("insert dimension: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) UpdateDimension(ctx context.Context, d *models.Dimension) error {
	values := dimensionValues(d)
	delete(values, "kind")
	delete(values, "created_at")
	query, args, err := builder().Update(tableDimensions).SetMap(values).
		Where(squirrel.Eq{"id": d.ID, "kind": string(d.Kind)}).ToSql()
	if err != nil {
		return fmt.Errorf("build update dimension: %w", err)
	}
	return s.execAffecting(ctx, query, args)
}

func (s *PostgresStore) FindDimension(ctx context.Context, kind models.DimensionKind, id int64) (*models.Dimension, error) {
	query, args, err := builder().Select(dimensionColumns...).From(tableDimensions + " d").
		Where(squirrel.Eq{"d.id": id, "d.kind": string(kind)}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find dimension: %w", err)
	}
	var (
		d       models.Dimension
		rawKind string
	)
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(dimensionDest(&d, &rawKind)...); err != nil {
		return nil, wrapErr(err)
	}
	d.Kind = models.DimensionKind(rawKind)
	return &d, nil
}

// DimensionsByIDs loads the rows of kind among ids, in id order.
func (s *PostgresStore) DimensionsByIDs(ctx context.Context, kind models.DimensionKind, ids []int64) ([]models.Dimension, error) {
	if len(ids) == 0 {
		return []models.Dimension{}, nil
	}
	query, args, err := builder().Select(dimensionColumns...).From(tableDimensions + " d").
		Where(squirrel.Eq{"d.kind": string(kind)}).
		Where("d.id = ANY(?)", pq.Array(ids)).
		OrderBy("d.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dimensions by ids: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dimensions: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []models.Dimension{}
	for rows.Next() {
		var (
			d       models.Dimension
			rawKind string
		)
		if err := rows.Scan(dimensionDest(&d, &rawKind)...); err != nil {
			return nil, fmt.Errorf("scan dimension: %w", err)
		}
		d.Kind = models.DimensionKind(rawKind)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimensions: %w", err)
	}
	return out, nil
}

// CodeTaken reports whether another row of kind uses code, ignoring case.
func (s *PostgresStore) CodeTaken(ctx context.Context, kind models.DimensionKind, code string, exceptID int64) (bool, error) {
	return s.exists(ctx, builder().Select("1").From(tableDimensions).
		Where(squirrel.Eq{"kind": string(kind)}).
		Where("UPPER(code) = UPPER(?)", code).
		Where(squirrel.NotEq{"id": exceptID}))
}

// CountDimensions counts the rows of kind.
func (s *PostgresStore) CountDimensions(ctx context.Context, kind models.DimensionKind) (int, error) {
	return s.count(ctx, builder().Select("COUNT(*)").From(tableDimensions).Where(squirrel.Eq{"kind": string(kind)}))
}

// NextCodeSequence increments and returns the (kind, parent) counter.
func (s *PostgresStore) NextCodeSequence(ctx context.Context, kind models.DimensionKind, parentID *int64) (int64, error) {
	const query = `
		INSERT INTO code_sequences (kind, parent_id, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, parent_id) DO UPDATE SET last_value = code_sequences.last_value + 1
		RETURNING last_value
	`
	var next int64
	if err := s.execer(ctx).QueryRowContext(ctx, query, string(kind), sequenceParent(parentID)).Scan(&next); err != nil {
		return 0, fmt.Errorf("next code sequence: %w", wrapErr(err))
	}
	return next, nil
}

// dependentExprs renders the correlated counts of rows referencing d.id.
func dependentExprs(kind models.DimensionKind) (deaths, births, children string) {
	refs := dimensionRefs[kind]
	deaths = countReferencing(tableDeaths, refs.deaths)
	births = countReferencing(tableBirths, refs.births)
	children = "0"
	if _, ok := kind.ChildKind(); ok {
		children = "(SELECT COUNT(*) FROM dimensions c WHERE c.parent_id = d.id)"
	}
	return deaths, births, children
}

func countReferencing(table string, cols []string) string {
	if len(cols) == 0 {
		return "0"
	}
	conds := make([]string, 0, len(cols))
	for _, c := range cols {
		conds = append(conds, "f."+c+" = d.id")
	}
	return "(SELECT COUNT(*) FROM " + table + " f WHERE " + strings.Join(conds, " OR ") + ")"
}

// ListDimensions returns one page of rows of q.Kind and the match total.
func (s *PostgresStore) ListDimensions(ctx context.Context, q models.DimensionQuery) ([]models.DimensionSummary, int, error) {
	where := squirrel.And{squirrel.Eq{"d.kind": string(q.Kind)}}
	if q.ParentID != nil {
		where = append(where, squirrel.Eq{"d.parent_id": *q.ParentID})
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + filter.EscapeLike(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"d.label": pattern},
			squirrel.ILike{"d.code": pattern},
		})
	}

	total, err := s.count(ctx, builder().Select("COUNT(*)").From(tableDimensions+" d").Where(where))
	if err != nil {
		return nil, 0, err
	}

	cols := dimensionColumns
	if q.WithStats {
		deaths, births, children := dependentExprs(q.Kind)
		cols = append(slices.Clone(cols), deaths+" AS deaths_count", births+" AS births_count", children+" AS children_count")
	}
	sb := builder().Select(cols...).From(tableDimensions + " d").Where(where).
		OrderBy(dimensionOrder(q)...)
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list dimensions: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list dimensions: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []models.DimensionSummary{}
	for rows.Next() {
		var (
			row     models.DimensionSummary
			rawKind string
		)
		dest := dimensionDest(&row.Dimension, &rawKind)
		if q.WithStats {
			row.DeathsCount, row.BirthsCount, row.ChildrenCount = new(int), new(int), new(int)
			dest = append(dest, row.DeathsCount, row.BirthsCount, row.ChildrenCount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan dimension: %w", err)
		}
		row.Kind = models.DimensionKind(rawKind)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dimensions: %w", err)
	}
	return out, total, nil
}

func dimensionOrder(q models.DimensionQuery) []string {
	col, ok := dimensionSortColumns[q.SortBy]
	if !ok || (strings.HasSuffix(col, "_count") && !q.WithStats) {
		col = dimensionSortColumns["libelle"]
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return []string{col + " " + dir, "d.id ASC"}
}

// CountDependents counts the rows referencing the dimension row.
func (s *PostgresStore) CountDependents(ctx context.Context, kind models.DimensionKind, id int64) (models.Dependents, error) {
	deaths, births, children := dependentExprs(kind)
	query, args, err := builder().Select(deaths, births, children).From(tableDimensions + " d").
		Where(squirrel.Eq{"d.id": id, "d.kind": string(kind)}).ToSql()
	if err != nil {
		return models.Dependents{}, fmt.Errorf("build count dependents: %w", err)
	}
	var deps models.Dependents
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&deps.Deaths, &deps.Births, &deps.Children); err != nil {
		return models.Dependents{}, wrapErr(err)
	}
	return deps, nil
}

// DeleteDimension counts dependents, asks guard, and removes the row only when
// the check passes, inside one serializable transaction. A concurrent insert
// of a dependent makes one of the two transactions fail with ErrConflict.
func (s *PostgresStore) DeleteDimension(ctx context.Context, kind models.DimensionKind, id int64, guard DeleteGuard) (models.DeleteCheck, error) {
	var check models.DeleteCheck
	err := txcontext.Run(ctx, s.db, txcontext.Serializable, func(txCtx context.Context) error {
		deps, err := s.CountDependents(txCtx, kind, id)
		if err != nil {
			return err
		}
		check = guard(deps)
		if check.Blocked {
			return nil
		}
		return s.delete(txCtx, tableDimensions, squirrel.Eq{"id": id, "kind": string(kind)})
	})
	if err != nil {
		return models.DeleteCheck{}, wrapErr(err)
	}
	return check, nil
}

// -----------------------------------------------------------------------------
// Statement helpers
// -----------------------------------------------------------------------------

func orderBy(sort filter.Sort) []string {
	col, ok := sortColumns[sort.Field]
	if !ok {
		col = "created_at"
	}
	tie := "id ASC"
	if col == "created_at" {
		tie = "id " + sort.Direction()
	}
	return []string{col + " " + sort.Direction(), tie}
}

func (s *PostgresStore) update(ctx context.Context, table string, id int64, values map[string]any) error {
	query, args, err := builder().Update(table).SetMap(values).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", table, err)
	}
	return s.execAffecting(ctx, query, args)
}

func (s *PostgresStore) delete(ctx context.Context, table string, where squirrel.Eq) error {
	query, args, err := builder().Delete(table).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}
	return s.execAffecting(ctx, query, args)
}

// execAffecting runs a write that must touch at least one row.
func (s *PostgresStore) execAffecting(ctx context.Context, query string, args []any) error {
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) count(ctx context.Context, sb squirrel.SelectBuilder) (int, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", wrapErr(err))
	}
	return n, nil
}

func (s *PostgresStore) exists(ctx context.Context, sb squirrel.SelectBuilder) (bool, error) {
	query, args, err := sb.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	var ok bool
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists: %w", wrapErr(err))
	}
	return ok, nil
}
