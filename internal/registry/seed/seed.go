// Package seed loads the reference dimensions (regions, districts, communes,
// professions, nationalities and causes of death) into Postgres.
//
// Rows already present by (kind, code) are left untouched, so a load can be
// repeated. New rows go in with COPY, then the per-parent code sequences are
// raised past the loaded rows.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"etatcivil/internal/registry/models"
)

// Conn is satisfied by *pgx.Conn and *pgxpool.Pool.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Result counts the rows inserted per kind.
type Result map[models.DimensionKind]int

var copyColumns = []string{"kind", "code", "label", "parent_id", "description", "severity", "created_at", "updated_at"}

// Plan returns the COPY rows for the entries of cat missing from existing.
// parents maps codes of the parent kind to ids; an unknown parent code is an
// error.
func Plan(cat Catalogue, existing, parents map[string]int64, now time.Time) ([][]any, error) {
	parentKind, hierarchical := cat.Kind.ParentKind()
	var rows [][]any
	for _, r := range cat.Rows {
		if _, ok := existing[r.Code]; ok {
			continue
		}
		var parentID *int64
		if hierarchical {
			id, ok := parents[r.Parent]
			if !ok {
				return nil, fmt.Errorf("%s %s: unknown %s %q", cat.Kind.Singular(), r.Code, parentKind.Singular(), r.Parent)
			}
			parentID = &id
		}
		var severity *int
		if cat.Kind == models.KindCause {
			severity = models.Int(models.DefaultSeverity)
		}
		rows = append(rows, []any{string(cat.Kind), r.Code, r.Label, parentID, r.Description, severity, now, now})
	}
	return rows, nil
}

// Load inserts the catalogues in one transaction.
func Load(ctx context.Context, conn Conn, catalogues []Catalogue, logger *slog.Logger) (Result, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	result := Result{}
	for _, cat := range catalogues {
		existing, err := codes(ctx, tx, cat.Kind)
		if err != nil {
			return nil, err
		}
		var parents map[string]int64
		if parentKind, ok := cat.Kind.ParentKind(); ok {
			if parents, err = codes(ctx, tx, parentKind); err != nil {
				return nil, err
			}
		}
		rows, err := Plan(cat, existing, parents, now)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"dimensions"}, copyColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", cat.Kind, err)
		}
		result[cat.Kind] = int(n)
		logger.InfoContext(ctx, "reference rows loaded", "kind", string(cat.Kind), "count", n)
	}

	if err := raiseSequences(ctx, tx); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return result, nil
}

func codes(ctx context.Context, tx pgx.Tx, kind models.DimensionKind) (map[string]int64, error) {
	rows, err := tx.Query(ctx, `SELECT code, id FROM dimensions WHERE kind = $1`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s codes: %w", kind, err)
	}
	out := map[string]int64{}
	var (
		code string
		id   int64
	)
	_, err = pgx.ForEachRow(rows, []any{&code, &id}, func() error {
		out[code] = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s codes: %w", kind, err)
	}
	return out, nil
}

// raiseSequences sets every (kind, parent) counter to at least the number of
// rows under it, so generated codes start after the loaded ones.
func raiseSequences(ctx context.Context, tx pgx.Tx) error {
	const query = `
		INSERT INTO code_sequences (kind, parent_id, last_value)
		SELECT kind, COALESCE(parent_id, 0), COUNT(*) FROM dimensions GROUP BY kind, COALESCE(parent_id, 0)
		ON CONFLICT (kind, parent_id) DO UPDATE
		SET last_value = GREATEST(code_sequences.last_value, EXCLUDED.last_value)
	`
	if _, err := tx.Exec(ctx, query); err != nil {
		return fmt.Errorf("raise code sequences: %w", err)
	}
	return nil
}
