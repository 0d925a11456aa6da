package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/code-critic/internal/core"
)

// apiClient is a thin HTTP client for the code-critic API.
type apiClient struct {
	baseURL string
	httpc   *http.Client
}

func newAPIClient() *apiClient {
	base := viper.GetString("SERVER_ADDR")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &apiClient{
		baseURL: strings.TrimRight(base, "/"),
		// Submissions block on the model round-trip, so be patient.
		httpc: &http.Client{Timeout: 5 * time.Minute},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *apiClient) submitReview(ctx context.Context, code, language string) (*core.Review, error) {
	var review core.Review
	err := c.do(ctx, http.MethodPost, "/api/review", map[string]string{
		"code":     code,
		"language": language,
	}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *apiClient) listReviews(ctx context.Context, page, perPage int, language, date string) (*core.ReviewPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	if language != "" {
		query.Set("language", language)
	}
	if date != "" {
		query.Set("date", date)
	}

	var result core.ReviewPage
	if err := c.do(ctx, http.MethodGet, "/api/reviews?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) getReview(ctx context.Context, id int64) (*core.Review, error) {
	var review core.Review
	if err := c.do(ctx, http.MethodGet, "/api/reviews/"+strconv.FormatInt(id, 10), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *apiClient) deleteReview(ctx context.Context, id int64) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/reviews/"+strconv.FormatInt(id, 10), nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *apiClient) health(ctx context.Context) (map[string]string, error) {
	result := map[string]string{}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
