package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-critic/internal/core"
)

// stubService implements core.ReviewService with pluggable behavior.
type stubService struct {
	createFn func(ctx context.Context, code, language string) (*core.Review, error)
	getFn    func(ctx context.Context, id int64) (*core.Review, error)
	deleteFn func(ctx context.Context, id int64) error
	listFn   func(ctx context.Context, params core.ListParams) (*core.ReviewPage, error)
}

func (s *stubService) CreateReview(ctx context.Context, code, language string) (*core.Review, error) {
	return s.createFn(ctx, code, language)
}

func (s *stubService) GetReview(ctx context.Context, id int64) (*core.Review, error) {
	return s.getFn(ctx, id)
}

func (s *stubService) DeleteReview(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubService) ListReviews(ctx context.Context, params core.ListParams) (*core.ReviewPage, error) {
	return s.listFn(ctx, params)
}

func newTestRouter(svc core.ReviewService) http.Handler {
	h := NewReviewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/api/health", h.Health)
	r.Post("/api/review", h.Create)
	r.Get("/api/reviews", h.List)
	r.Get("/api/reviews/{id}", h.Get)
	r.Delete("/api/reviews/{id}", h.Delete)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreate_Success(t *testing.T) {
	svc := &stubService{
		createFn: func(_ context.Context, code, language string) (*core.Review, error) {
			return &core.Review{
				ID:           1,
				CodeSnippet:  code,
				Language:     language,
				QualityScore: 9.1,
				ReviewText:   "Excellent.",
				Suggestions:  core.StringList{},
				CreatedAt:    time.Now().UTC(),
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/review",
		`{"code": "def add(a, b):\n    return a + b", "language": "python"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "python", body["language"])
	assert.InDelta(t, 9.1, body["quality_score"], 0.001)
}

func TestCreate_MalformedBody(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, string, string) (*core.Review, error) {
			t.Fatal("service must not be called for a malformed body")
			return nil, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/review", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "valid JSON")
}

func TestCreate_ValidationError(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, string, string) (*core.Review, error) {
			return nil, &core.ValidationError{Field: "language", Reason: "unsupported language \"ruby\""}
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/review",
		`{"code": "puts 'hello world'", "language": "ruby"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "language")
}

func TestCreate_LLMUnavailable(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, string, string) (*core.Review, error) {
			return nil, &core.UnavailableError{Attempts: 3, Cause: context.DeadlineExceeded}
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/review",
		`{"code": "def f():\n    pass", "language": "python"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unavailable")
}

func TestCreate_InvalidModelResponse(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, string, string) (*core.Review, error) {
			return nil, &core.InvalidResponseError{Reason: "missing required field quality_score"}
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/review",
		`{"code": "def f():\n    pass", "language": "python"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGet_Success(t *testing.T) {
	svc := &stubService{
		getFn: func(_ context.Context, id int64) (*core.Review, error) {
			return &core.Review{ID: id, Language: "java"}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), decodeBody(t, rec)["id"])
}

func TestGet_NotFound(t *testing.T) {
	svc := &stubService{
		getFn: func(context.Context, int64) (*core.Review, error) {
			return nil, core.ErrNotFound
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews/999", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Review not found", decodeBody(t, rec)["error"])
}

func TestGet_NonNumericID(t *testing.T) {
	svc := &stubService{
		getFn: func(context.Context, int64) (*core.Review, error) {
			t.Fatal("service must not be called for a non-numeric id")
			return nil, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_Success(t *testing.T) {
	svc := &stubService{
		deleteFn: func(context.Context, int64) error { return nil },
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodDelete, "/api/reviews/7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review 7 deleted successfully", decodeBody(t, rec)["message"])
}

func TestDelete_NotFound(t *testing.T) {
	svc := &stubService{
		deleteFn: func(context.Context, int64) error { return core.ErrNotFound },
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodDelete, "/api/reviews/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_PassesQueryParams(t *testing.T) {
	var got core.ListParams
	svc := &stubService{
		listFn: func(_ context.Context, params core.ListParams) (*core.ReviewPage, error) {
			got = params
			return &core.ReviewPage{Reviews: []core.Review{}, Page: params.Page, PerPage: params.PerPage}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet,
		"/api/reviews?page=2&per_page=5&language=Python&date=2026-08-23", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PerPage)
	assert.Equal(t, "python", got.Language)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2026-08-23", got.Date.Format("2006-01-02"))
}

func TestList_DefaultsWhenNoParams(t *testing.T) {
	svc := &stubService{
		listFn: func(_ context.Context, params core.ListParams) (*core.ReviewPage, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, core.DefaultPerPage, params.PerPage)
			return &core.ReviewPage{Reviews: []core.Review{}}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestList_BadDate(t *testing.T) {
	svc := &stubService{
		listFn: func(context.Context, core.ListParams) (*core.ReviewPage, error) {
			t.Fatal("service must not be called for an invalid date")
			return nil, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews?date=23-08-2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_BadPage(t *testing.T) {
	svc := &stubService{
		listFn: func(context.Context, core.ListParams) (*core.ReviewPage, error) {
			t.Fatal("service must not be called for an invalid page")
			return nil, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/reviews?page=first", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubService{}), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "code-critic", body["service"])
}
