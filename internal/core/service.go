package core

import (
	"context"
	"time"
)

// Pagination bounds for list queries. PerPage is clamped server-side no
// matter what the caller asks for.
const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// ListParams describes a paginated, filtered list query.
type ListParams struct {
	Page     int
	PerPage  int
	Language string     // exact match when non-empty
	Date     *time.Time // same UTC calendar day when non-nil
}

// Normalize clamps pagination values into their allowed ranges.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ReviewPage is one page of list results.
type ReviewPage struct {
	Reviews    []Review `json:"reviews"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	TotalPages int      `json:"total_pages"`
}

// ReviewStore is the persistence contract for reviews. Create must be safe
// under concurrent invocation; ids are assigned by the database.
type ReviewStore interface {
	// Create persists the review, filling in ID and CreatedAt.
	Create(ctx context.Context, review *Review) error

	// Get returns the review with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Review, error)

	// Delete removes the review with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// List returns one page of reviews ordered by creation time descending,
	// together with the total number of matching rows.
	List(ctx context.Context, params ListParams) ([]Review, int, error)
}

// CodeReviewer produces a structured review for a code snippet by calling an
// external model. Implementations own their retry policy and must respect
// context cancellation.
type CodeReviewer interface {
	Review(ctx context.Context, code, language string) (*StructuredReview, error)
}

// ReviewService is the application-facing contract consumed by the HTTP
// handlers: the validate -> review -> persist pipeline plus read operations.
type ReviewService interface {
	CreateReview(ctx context.Context, code, language string) (*Review, error)
	GetReview(ctx context.Context, id int64) (*Review, error)
	DeleteReview(ctx context.Context, id int64) error
	ListReviews(ctx context.Context, params ListParams) (*ReviewPage, error)
}
