package term

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/glossary-core/internal/infrastructure/database"
)

// Repository defines the persistence operations for terms.
type Repository interface {
	List(ctx context.Context) ([]Term, error)
	Get(ctx context.Context, id int64) (*Term, error)
	Create(ctx context.Context, in Base) (*Term, error)
	Update(ctx context.Context, id int64, patch Update) (*Term, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository on the term table.
type SQLiteRepository struct {
	db *database.DB
}

// NewSQLiteRepository creates a new SQLite-backed term repository.
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns every term in storage (rowid) order. The result is an empty,
// non-nil slice when the table is empty.
func (r *SQLiteRepository) List(ctx context.Context) ([]Term, error) {
	const query = `SELECT id, word, meaning FROM term`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying terms: %w", err)
	}
	defer rows.Close()

	terms := []Term{}
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.ID, &t.Word, &t.Meaning); err != nil {
			return nil, fmt.Errorf("scanning term row: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating term rows: %w", err)
	}
	return terms, nil
}

// Get returns a single term by id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Term, error) {
	return getTerm(ctx, r.db, id)
}

// Create inserts a new term and returns it with its generated id.
func (r *SQLiteRepository) Create(ctx context.Context, in Base) (*Term, error) {
	const query = `INSERT INTO term (word, meaning) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, in.Word, in.Meaning)
	if err != nil {
		return nil, fmt.Errorf("inserting term: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading term id: %w", err)
	}

	return &Term{ID: id, Word: in.Word, Meaning: in.Meaning}, nil
}

// Update applies the present fields of patch to the term with the given id
// and returns the merged record. The read and the write share one
// transaction.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch Update) (*Term, error) {
	const query = `UPDATE term SET word = ?, meaning = ? WHERE id = ?`

	var updated *Term
	err := r.db.InTx(ctx, func(q database.Querier) error {
		t, err := getTerm(ctx, q, id)
		if err != nil {
			return err
		}

		patch.Apply(t)
		if !patch.IsEmpty() {
			if _, err := q.ExecContext(ctx, query, t.Word, t.Meaning, t.ID); err != nil {
				return fmt.Errorf("updating term %d: %w", id, err)
			}
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the term with the given id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM term WHERE id = ?`

	return r.db.InTx(ctx, func(q database.Querier) error {
		if _, err := getTerm(ctx, q, id); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("deleting term %d: %w", id, err)
		}
		return nil
	})
}

// Count returns the number of stored terms.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM term`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting terms: %w", err)
	}
	return n, nil
}

// getTerm loads one term through q, which may be the pool or a transaction.
func getTerm(ctx context.Context, q database.Querier, id int64) (*Term, error) {
	const query = `SELECT id, word, meaning FROM term WHERE id = ?`

	var t Term
	err := q.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Word, &t.Meaning)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("querying term %d: %w", id, err)
	}
	return &t, nil
}
