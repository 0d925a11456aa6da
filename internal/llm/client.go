package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/code-critic/internal/config"
	"github.com/sevigo/code-critic/internal/core"
)

// chat completion wire types for the OpenAI-compatible endpoint.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// statusError is a non-2xx reply from the endpoint. The response body is
// deliberately not captured; status code and request id are enough to debug
// without risking credential echo in logs.
type statusError struct {
	code      int
	requestID string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("llm api returned status %d (request %s)", e.code, e.requestID)
}

type promptData struct {
	Language string
	Code     string
}

// Client calls an OpenAI-compatible chat-completions endpoint and converts
// the reply into a validated StructuredReview. It implements core.CodeReviewer.
type Client struct {
	cfg     config.LLMConfig
	http    *http.Client
	prompts *PromptManager
	logger  *slog.Logger
}

// NewClient creates a reviewer client. The per-attempt timeout comes from
// cfg.Timeout; retries across attempts are handled by Review.
func NewClient(cfg config.LLMConfig, prompts *PromptManager, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		prompts: prompts,
		logger:  logger,
	}
}

var _ core.CodeReviewer = (*Client)(nil)

// Review sends the snippet for review, retrying transient failures (transport
// errors, timeouts, 429 and 5xx replies) with a growing delay. A 200 reply
// whose content is not valid JSON is retried within the malformed budget; a
// clean reply that violates the schema fails immediately.
func (c *Client) Review(ctx context.Context, code, language string) (*core.StructuredReview, error) {
	prompt, err := c.prompts.Render(CodeReviewPrompt, DefaultProvider, promptData{Language: language, Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to render review prompt: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	delay := c.cfg.RetryDelay
	malformedLeft := c.cfg.MalformedRetries

	var lastErr error
	attempt := 0
	for attempt < c.cfg.MaxAttempts {
		attempt++

		content, err := c.complete(ctx, payload, attempt)
		if err == nil {
			review, perr := parseReviewContent(content)
			if perr == nil {
				return review, nil
			}

			var malformed *malformedError
			if !errors.As(perr, &malformed) {
				// Clean JSON that fails semantic validation; retrying won't help.
				return nil, perr
			}
			if malformedLeft <= 0 || attempt >= c.cfg.MaxAttempts {
				return nil, &core.InvalidResponseError{Reason: "unparseable reply content", Cause: malformed}
			}
			malformedLeft--
			lastErr = perr
			c.logger.Warn("llm reply was not valid JSON, retrying", "attempt", attempt)
		} else {
			var malformed *malformedError
			switch {
			case errors.As(err, &malformed):
				if malformedLeft <= 0 || attempt >= c.cfg.MaxAttempts {
					return nil, &core.InvalidResponseError{Reason: "unparseable completion reply", Cause: malformed}
				}
				malformedLeft--
				lastErr = err
				c.logger.Warn("llm reply was not valid JSON, retrying", "attempt", attempt)
			case !isRetryable(err):
				return nil, &core.UnavailableError{Attempts: attempt, Cause: err}
			default:
				lastErr = err
				if attempt >= c.cfg.MaxAttempts {
					return nil, &core.UnavailableError{Attempts: attempt, Cause: lastErr}
				}
				c.logger.Warn("llm request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return nil, &core.UnavailableError{Attempts: attempt, Cause: ctx.Err()}
		case <-time.After(delay):
		}
		if c.cfg.BackoffMultiplier > 1 {
			delay = time.Duration(float64(delay) * c.cfg.BackoffMultiplier)
		}
	}

	return nil, &core.UnavailableError{Attempts: attempt, Cause: lastErr}
}

// complete performs one HTTP round-trip and returns the assistant message
// content. Errors never contain the API credential.
func (c *Client) complete(ctx context.Context, payload []byte, attempt int) (string, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("sending review request", "model", c.cfg.Model, "attempt", attempt, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &statusError{code: resp.StatusCode, requestID: requestID}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", &malformedError{cause: fmt.Errorf("decoding completion envelope: %w", err)}
	}
	if len(chat.Choices) == 0 {
		return "", &malformedError{cause: errors.New("completion reply has no choices")}
	}
	return chat.Choices[0].Message.Content, nil
}

// isRetryable reports whether a completion attempt may be tried again.
func isRetryable(err error) bool {
	var status *statusError
	if errors.As(err, &status) {
		return status.code == http.StatusTooManyRequests || status.code >= 500
	}
	// Transport-level failures (connection refused, timeouts) are transient.
	return true
}
