package term

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nerrad567/glossary-core/internal/infrastructure/database"
	_ "github.com/nerrad567/glossary-core/migrations" // registers the term schema
)

// setupTestRepo opens a temp-dir database with the real schema applied.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "glossary.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewSQLiteRepository(db)
}

// mustCreate stores in or fails the test.
func mustCreate(t *testing.T, repo *SQLiteRepository, in Base) *Term {
	t.Helper()
	created, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%+v) error = %v", in, err)
	}
	return created
}

func TestCreateThenGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	inputs := []Base{
		{Word: "ubiquitous", Meaning: "present everywhere"},
		{Word: "ubiquitous", Meaning: "duplicate words are allowed"},
		{Word: "", Meaning: ""},
		{Word: "naïve", Meaning: "unicode survives the round trip ✓"},
	}

	for _, in := range inputs {
		created := mustCreate(t, repo, in)
		if created.ID == 0 {
			t.Errorf("Create(%+v) returned zero id", in)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", created.ID, err)
		}
		want := Term{ID: created.ID, Word: in.Word, Meaning: in.Meaning}
		if *got != want {
			t.Errorf("Get(%d) = %+v, want %+v", created.ID, *got, want)
		}
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	repo := setupTestRepo(t)

	first := mustCreate(t, repo, Base{Word: "a", Meaning: "1"})
	second := mustCreate(t, repo, Base{Word: "b", Meaning: "2"})

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2", first.ID, second.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	if _, err := repo.Get(context.Background(), 999); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("Get(999) error = %v, want ErrTermNotFound", err)
	}
}

func TestUpdate_ChangesOnlyPresentFields(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, Base{Word: "ubiquitous", Meaning: "present everywhere"})

	steps := []struct {
		patch Update
		want  Term
	}{
		{Update{Word: Some("x")}, Term{ID: created.ID, Word: "x", Meaning: "present everywhere"}},
		{Update{Meaning: Some("found everywhere")}, Term{ID: created.ID, Word: "x", Meaning: "found everywhere"}},
	}
	for _, step := range steps {
		updated, err := repo.Update(ctx, created.ID, step.patch)
		if err != nil {
			t.Fatalf("Update(%+v) error = %v", step.patch, err)
		}
		if *updated != step.want {
			t.Errorf("Update(%+v) = %+v, want %+v", step.patch, *updated, step.want)
		}
	}

	stored, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *stored != steps[len(steps)-1].want {
		t.Errorf("stored = %+v, want %+v", *stored, steps[len(steps)-1].want)
	}
}

func TestUpdate_ExplicitEmptyString(t *testing.T) {
	repo := setupTestRepo(t)

	created := mustCreate(t, repo, Base{Word: "w", Meaning: "m"})

	updated, err := repo.Update(context.Background(), created.ID, Update{Meaning: Some("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Word != "w" || updated.Meaning != "" {
		t.Errorf("Update() = %+v, want word kept and meaning cleared", *updated)
	}
}

func TestUpdate_EmptyPatchReturnsCurrent(t *testing.T) {
	repo := setupTestRepo(t)

	created := mustCreate(t, repo, Base{Word: "w", Meaning: "m"})

	got, err := repo.Update(context.Background(), created.ID, Update{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if *got != *created {
		t.Errorf("Update({}) = %+v, want %+v", *got, *created)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Update(context.Background(), 7, Update{Word: Some("x")})
	if !errors.Is(err, ErrTermNotFound) {
		t.Errorf("Update(7) error = %v, want ErrTermNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, Base{Word: "ephemeral", Meaning: "short-lived"})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrTermNotFound", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTermNotFound", err)
	}
}

func TestList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty table = %#v, want non-nil empty slice", empty)
	}

	const created, deleted = 5, 2
	var ids []int64
	for i := 0; i < created; i++ {
		ids = append(ids, mustCreate(t, repo, Base{Word: fmt.Sprintf("word-%d", i), Meaning: "m"}).ID)
	}
	for _, id := range ids[:deleted] {
		if err := repo.Delete(ctx, id); err != nil {
			t.Fatalf("Delete(%d) error = %v", id, err)
		}
	}

	terms, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(terms) != created-deleted {
		t.Fatalf("List() returned %d terms, want %d", len(terms), created-deleted)
	}
	for i, tm := range terms {
		if tm.ID != ids[deleted+i] {
			t.Errorf("terms[%d].ID = %d, want %d (storage order)", i, tm.ID, ids[deleted+i])
		}
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != created-deleted {
		t.Errorf("Count() = %d, want %d", n, created-deleted)
	}
}

// TestConcurrentUpdates checks last-write-wins without errors or lost rows.
func TestConcurrentUpdates(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, Base{Word: "race", Meaning: "0"})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.Update(ctx, created.ID, Update{Meaning: Some(fmt.Sprint(n))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Update() error = %v", err)
		}
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Word != "race" {
		t.Errorf("Word = %q, want untouched", got.Word)
	}
	if len(got.Meaning) != 1 || got.Meaning[0] < '0' || got.Meaning[0] > '9' {
		t.Errorf("Meaning = %q, want one of the written digits", got.Meaning)
	}
}
