package glossaryterm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/termbridge/internal/adapter/postgres"
	"github.com/heartmarshall/termbridge/internal/adapter/postgres/glossaryterm"
	"github.com/heartmarshall/termbridge/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/termbridge/internal/domain"
)

func newRepo(t *testing.T) (*glossaryterm.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	txm := postgres.NewTxManager(pool)
	return glossaryterm.New(pool, txm), pool
}

func TestRepo_Replace_CreatesGlossary(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("create")

	entries := []domain.GlossaryEntry{
		{Source: "Ellen Joe", Target: "エレン・ジョー"},
		{Source: "Bangboo", Target: "ボンプ"},
		{Source: "Ellen Joe", Target: "エレン・ジョー"},
	}

	inserted, err := repo.Replace(ctx, name, entries)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if inserted != 2 {
		t.Errorf("expected 2 inserted, got %d", inserted)
	}

	count, err := repo.Count(ctx, name)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	sample, err := repo.Sample(ctx, name, 10)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 2 || sample[0] != entries[0] || sample[1] != entries[1] {
		t.Errorf("unexpected sample: %v", sample)
	}
}

func TestRepo_Replace_ReplacesTerms(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("replace")

	if _, err := repo.Replace(ctx, name, []domain.GlossaryEntry{{Source: "Old", Target: "古い"}}); err != nil {
		t.Fatalf("first Replace: %v", err)
	}
	if _, err := repo.Replace(ctx, name, []domain.GlossaryEntry{{Source: "New", Target: "新しい"}}); err != nil {
		t.Fatalf("second Replace: %v", err)
	}

	sample, err := repo.Sample(ctx, name, 10)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 1 || sample[0].Source != "New" {
		t.Errorf("expected only the new term, got %v", sample)
	}

	var glossaries int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM glossaries WHERE name = $1`, name).Scan(&glossaries); err != nil {
		t.Fatalf("count glossaries: %v", err)
	}
	if glossaries != 1 {
		t.Errorf("expected one glossary row, got %d", glossaries)
	}
}

func TestRepo_Replace_Empty(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("empty")

	inserted, err := repo.Replace(ctx, name, nil)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if inserted != 0 {
		t.Errorf("expected 0 inserted, got %d", inserted)
	}

	count, err := repo.Count(ctx, name)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestRepo_Replace_RollsBackOnInvalidTerm(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("rollback")

	if _, err := repo.Replace(ctx, name, []domain.GlossaryEntry{{Source: "Keep", Target: "残す"}}); err != nil {
		t.Fatalf("first Replace: %v", err)
	}

	_, err := repo.Replace(ctx, name, []domain.GlossaryEntry{{Source: "Fine", Target: "良い"}, {Source: "", Target: "空"}})
	if !errors.Is(err, domain.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	sample, err := repo.Sample(ctx, name, 10)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 1 || sample[0].Source != "Keep" {
		t.Errorf("expected previous content after rollback, got %v", sample)
	}
}

func TestRepo_Count_UnknownGlossary(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Count(context.Background(), testhelper.UniqueName("missing"))
	if !errors.Is(err, domain.ErrAbsent) {
		t.Errorf("expected ErrAbsent, got %v", err)
	}
}

func TestRepo_Sample_Limit(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("limit")

	entries := []domain.GlossaryEntry{
		{Source: "A1", Target: "甲"},
		{Source: "B2", Target: "乙"},
		{Source: "C3", Target: "丙"},
	}
	if _, err := repo.Replace(ctx, name, entries); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	sample, err := repo.Sample(ctx, name, 2)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 2 || sample[0].Source != "A1" || sample[1].Source != "B2" {
		t.Errorf("unexpected sample: %v", sample)
	}
}
