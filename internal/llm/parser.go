package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sevigo/code-critic/internal/core"
)

// malformedError marks content that is not syntactically valid JSON. Unlike a
// semantic schema violation this may be a transient model hiccup, so the
// client is allowed to retry it within its malformed-response budget.
type malformedError struct {
	cause error
}

func (e *malformedError) Error() string {
	return fmt.Sprintf("malformed JSON in llm reply: %v", e.cause)
}

func (e *malformedError) Unwrap() error { return e.cause }

// reviewPayload mirrors the JSON shape the prompt instructs the model to
// produce. Required fields are pointers so their absence is detectable.
type reviewPayload struct {
	QualityScore  *float64 `json:"quality_score"`
	Summary       *string  `json:"summary"`
	Suggestions   []string `json:"suggestions"`
	PotentialBugs []string `json:"potential_bugs"`
	Strengths     []string `json:"strengths"`
	Reasoning     string   `json:"reasoning"`
}

// parseReviewContent turns the model's message content into a validated
// StructuredReview. It returns a *malformedError for unparseable JSON and a
// *core.InvalidResponseError for clean JSON that violates the schema.
func parseReviewContent(content string) (*core.StructuredReview, error) {
	body := stripCodeFence(content)

	var payload reviewPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// The JSON itself is fine, a field just has the wrong type.
			return nil, &core.InvalidResponseError{
				Reason: fmt.Sprintf("field %q has wrong type", typeErr.Field),
				Cause:  err,
			}
		}
		return nil, &malformedError{cause: err}
	}

	if payload.QualityScore == nil {
		return nil, &core.InvalidResponseError{Reason: "missing required field quality_score"}
	}
	if payload.Summary == nil || strings.TrimSpace(*payload.Summary) == "" {
		return nil, &core.InvalidResponseError{Reason: "missing required field summary"}
	}
	score := *payload.QualityScore
	if score < core.MinQualityScore || score > core.MaxQualityScore {
		return nil, &core.InvalidResponseError{
			Reason: fmt.Sprintf("quality_score %.2f out of range [%.0f, %.0f]", score, core.MinQualityScore, core.MaxQualityScore),
		}
	}

	review := &core.StructuredReview{
		QualityScore:  score,
		Summary:       strings.TrimSpace(*payload.Summary),
		Suggestions:   payload.Suggestions,
		PotentialBugs: payload.PotentialBugs,
		Strengths:     payload.Strengths,
		Reasoning:     payload.Reasoning,
	}
	if review.Suggestions == nil {
		review.Suggestions = []string{}
	}
	if review.PotentialBugs == nil {
		review.PotentialBugs = []string{}
	}
	return review, nil
}

// stripCodeFence removes a ```json ... ``` (or plain ```) wrapper that some
// models add around their output.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return trimmed
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
