// Package storage implements the review store on top of sqlx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/code-critic/internal/core"
)

const reviewColumns = "id, code_snippet, language, quality_score, review_text, suggestions, potential_bugs, created_at"

type sqlStore struct {
	db *sqlx.DB
}

// NewStore creates a new review store. Queries are written with ? placeholders
// and rebound for the active driver, so the same code serves postgres and sqlite.
func NewStore(db *sqlx.DB) core.ReviewStore {
	return &sqlStore{db: db}
}

// Create inserts a new review record and fills in its id and creation time.
func (s *sqlStore) Create(ctx context.Context, review *core.Review) error {
	review.CreatedAt = time.Now().UTC()

	query := s.db.Rebind(`
		INSERT INTO reviews (code_snippet, language, quality_score, review_text, suggestions, potential_bugs, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.QueryRowxContext(ctx, query,
		review.CodeSnippet,
		review.Language,
		review.QualityScore,
		review.ReviewText,
		review.Suggestions,
		review.PotentialBugs,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return &core.StorageError{Op: "create", Cause: err}
	}
	return nil
}

// Get retrieves a single review by id.
func (s *sqlStore) Get(ctx context.Context, id int64) (*core.Review, error) {
	query := s.db.Rebind("SELECT " + reviewColumns + " FROM reviews WHERE id = ?")

	var r core.Review
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, &core.StorageError{Op: "get", Cause: err}
	}
	return &r, nil
}

// Delete removes a review by id.
func (s *sqlStore) Delete(ctx context.Context, id int64) error {
	query := s.db.Rebind("DELETE FROM reviews WHERE id = ?")

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return &core.StorageError{Op: "delete", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &core.StorageError{Op: "delete", Cause: err}
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// List returns one page of reviews, newest first, with the total count of
// rows matching the filters.
func (s *sqlStore) List(ctx context.Context, params core.ListParams) ([]core.Review, int, error) {
	var clauses []string
	var args []any

	if params.Language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, params.Language)
	}
	if params.Date != nil {
		start, end := utcDayRange(*params.Date)
		clauses = append(clauses, "created_at >= ?", "created_at < ?")
		args = append(args, start, end)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	countQuery := s.db.Rebind("SELECT COUNT(*) FROM reviews" + where)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, &core.StorageError{Op: "list", Cause: err}
	}

	listQuery := s.db.Rebind("SELECT " + reviewColumns + " FROM reviews" + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")
	args = append(args, params.PerPage, params.Offset())

	reviews := []core.Review{}
	if err := s.db.SelectContext(ctx, &reviews, listQuery, args...); err != nil {
		return nil, 0, &core.StorageError{Op: "list", Cause: err}
	}
	return reviews, total, nil
}

// utcDayRange returns the half-open [start, end) interval covering the UTC
// calendar day of t.
func utcDayRange(t time.Time) (time.Time, time.Time) {
	year, month, day := t.UTC().Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
