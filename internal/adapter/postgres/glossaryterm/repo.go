// Package glossaryterm stores published glossaries in PostgreSQL.
// A glossary is replaced as a whole: its terms are never edited in place.
package glossaryterm

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/termbridge/internal/adapter/postgres"
	"github.com/heartmarshall/termbridge/internal/domain"
)

const (
	glossariesTable = "glossaries"
	termsTable      = "glossary_terms"
)

// Repo provides glossary persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new glossary repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// Replace makes entries the complete content of the named glossary, creating
// the glossary if needed. Duplicate pairs are stored once. It returns the
// number of terms stored.
func (r *Repo) Replace(ctx context.Context, name string, entries []domain.GlossaryEntry) (int, error) {
	var inserted int

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		id, err := r.upsertGlossary(txCtx, name)
		if err != nil {
			return err
		}

		if err := r.deleteTerms(txCtx, id, name); err != nil {
			return err
		}

		inserted, err = r.insertTerms(txCtx, id, name, entries)
		return err
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (r *Repo) upsertGlossary(ctx context.Context, name string) (uuid.UUID, error) {
	query, args, err := postgres.Builder().
		Insert(glossariesTable).
		Columns("id", "name").
		Values(uuid.New(), name).
		Suffix("ON CONFLICT (name) DO UPDATE SET updated_at = now() RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build upsert glossary: %w", err)
	}

	var id uuid.UUID
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "glossary", name)
	}
	return id, nil
}

func (r *Repo) deleteTerms(ctx context.Context, id uuid.UUID, name string) error {
	query, args, err := postgres.Builder().
		Delete(termsTable).
		Where(squirrel.Eq{"glossary_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete terms: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "glossary", name)
	}
	return nil
}

// insertTerms inserts entries using pgx.Batch. Repeated pairs are skipped
// via ON CONFLICT DO NOTHING.
func (r *Repo) insertTerms(ctx context.Context, id uuid.UUID, name string, entries []domain.GlossaryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue(
			`INSERT INTO glossary_terms (glossary_id, position, source_term, target_term)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (glossary_id, source_term, target_term) DO NOTHING`,
			id, i, e.Source, e.Target,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, postgres.MapError(err, "glossary_term", fmt.Sprintf("%s #%d", name, i))
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// Count returns the number of terms in the named glossary. An unknown
// glossary is reported as domain.ErrAbsent.
func (r *Repo) Count(ctx context.Context, name string) (int, error) {
	query, args, err := postgres.Builder().
		Select("g.id", "COUNT(t.glossary_id)").
		From(glossariesTable + " g").
		LeftJoin(termsTable + " t ON t.glossary_id = g.id").
		Where(squirrel.Eq{"g.name": name}).
		GroupBy("g.id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count terms: %w", err)
	}

	var (
		id    uuid.UUID
		count int
	)
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id, &count); err != nil {
		return 0, postgres.MapError(err, "glossary", name)
	}
	return count, nil
}

// Sample returns up to limit terms of the named glossary in stored order.
func (r *Repo) Sample(ctx context.Context, name string, limit int) ([]domain.GlossaryEntry, error) {
	query, args, err := postgres.Builder().
		Select("t.source_term", "t.target_term").
		From(termsTable + " t").
		Join(glossariesTable + " g ON g.id = t.glossary_id").
		Where(squirrel.Eq{"g.name": name}).
		OrderBy("t.position ASC").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sample terms: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "glossary", name)
	}
	defer rows.Close()

	entries := []domain.GlossaryEntry{}
	for rows.Next() {
		var e domain.GlossaryEntry
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("scan glossary term: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "glossary", name)
	}
	return entries, nil
}
