// Package reviews implements the review pipeline: validate a submission,
// obtain a structured review from the model, and persist the result. It also
// provides the read and delete operations backing the HTTP API.
package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/code-critic/internal/core"
)

// Service implements core.ReviewService.
type Service struct {
	store    core.ReviewStore
	reviewer core.CodeReviewer
	logger   *slog.Logger
}

// NewService creates the review service.
func NewService(store core.ReviewStore, reviewer core.CodeReviewer, logger *slog.Logger) *Service {
	if store == nil {
		panic("store cannot be nil")
	}
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{store: store, reviewer: reviewer, logger: logger}
}

var _ core.ReviewService = (*Service)(nil)

// CreateReview runs the pipeline for one submission. Validation happens
// before any network call; persistence happens only after a valid model
// reply, so every failure path leaves zero new records behind.
func (s *Service) CreateReview(ctx context.Context, code, language string) (*core.Review, error) {
	lang, err := validateSubmission(code, language)
	if err != nil {
		return nil, err
	}

	structured, err := s.reviewer.Review(ctx, code, lang)
	if err != nil {
		s.logger.Error("review generation failed", "language", lang, "error", err)
		return nil, fmt.Errorf("failed to generate review: %w", err)
	}

	review := &core.Review{
		CodeSnippet:   code,
		Language:      lang,
		QualityScore:  structured.QualityScore,
		ReviewText:    structured.Summary,
		Suggestions:   core.StringList(structured.Suggestions),
		PotentialBugs: core.StringList(structured.PotentialBugs),
	}

	if err := s.store.Create(ctx, review); err != nil {
		s.logger.Error("failed to persist review", "language", lang, "error", err)
		return nil, err
	}

	s.logger.Info("review created",
		"id", review.ID,
		"language", review.Language,
		"quality_score", review.QualityScore,
	)
	return review, nil
}

// GetReview returns a single review by id.
func (s *Service) GetReview(ctx context.Context, id int64) (*core.Review, error) {
	return s.store.Get(ctx, id)
}

// DeleteReview removes a review by id.
func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", "id", id)
	return nil
}

// ListReviews returns one page of reviews. Pagination values are clamped
// before they reach the store.
func (s *Service) ListReviews(ctx context.Context, params core.ListParams) (*core.ReviewPage, error) {
	params.Normalize()

	records, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &core.ReviewPage{
		Reviews:    records,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: (total + params.PerPage - 1) / params.PerPage,
	}, nil
}
