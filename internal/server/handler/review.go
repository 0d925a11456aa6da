// Package handler provides the HTTP handlers for the review API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/code-critic/internal/core"
)

// ReviewHandler serves the /api review endpoints.
type ReviewHandler struct {
	svc    core.ReviewService
	logger *slog.Logger
}

// NewReviewHandler creates a new handler backed by the given service.
func NewReviewHandler(svc core.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

type createReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Create handles POST /api/review.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	review, err := h.svc.CreateReview(r.Context(), req.Code, req.Language)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

// Get handles GET /api/reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Review not found")
		return
	}

	review, err := h.svc.GetReview(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Review not found")
		return
	}

	if err := h.svc.DeleteReview(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Review " + strconv.FormatInt(id, 10) + " deleted successfully",
	})
}

// List handles GET /api/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := core.ListParams{Page: 1, PerPage: core.DefaultPerPage}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		params.Page = page
	}
	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "per_page must be an integer")
			return
		}
		params.PerPage = perPage
	}
	if raw := query.Get("language"); raw != "" {
		params.Language = strings.ToLower(strings.TrimSpace(raw))
	}
	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
			return
		}
		params.Date = &date
	}

	page, err := h.svc.ListReviews(r.Context(), params)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Health handles GET /api/health.
func (h *ReviewHandler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "code-critic",
	})
}

// respondDomainError maps domain errors to HTTP status codes. Reasons are
// structured strings; internals and credentials never reach the body.
func (h *ReviewHandler) respondDomainError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Review not found")
		return
	}

	var unavailable *core.UnavailableError
	if errors.As(err, &unavailable) {
		h.logger.Error("review generation unavailable", "attempts", unavailable.Attempts, "error", err)
		respondError(w, http.StatusServiceUnavailable, "failed to generate review: model service unavailable")
		return
	}
	var invalid *core.InvalidResponseError
	if errors.As(err, &invalid) {
		h.logger.Error("model returned unusable response", "error", err)
		respondError(w, http.StatusBadGateway, "failed to generate review: model returned an unusable response")
		return
	}

	h.logger.Error("internal error", "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func reviewID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, reason string) {
	respondJSON(w, status, map[string]string{"error": reason})
}
