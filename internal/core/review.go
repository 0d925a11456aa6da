// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Supported snippet languages. The set is closed; anything else is rejected
// before a single byte leaves the process.
const (
	LanguagePython     = "python"
	LanguageJavaScript = "javascript"
	LanguageJava       = "java"
	LanguageCpp        = "cpp"
)

// SupportedLanguages lists the accepted values for Review.Language in a
// stable order, used for validation messages.
var SupportedLanguages = []string{
	LanguagePython,
	LanguageJavaScript,
	LanguageJava,
	LanguageCpp,
}

// IsSupportedLanguage reports whether lang is one of the accepted languages.
// Matching is exact; callers are expected to lowercase user input first.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if lang == l {
			return true
		}
	}
	return false
}

// Snippet length bounds, in characters.
const (
	MinCodeLength = 10
	MaxCodeLength = 5000
)

// Quality score bounds. A response outside this range is rejected as invalid
// before anything is persisted.
const (
	MinQualityScore = 1.0
	MaxQualityScore = 10.0
)

// Review is a single persisted code review. Records are immutable after
// creation; the store assigns ID and CreatedAt.
type Review struct {
	ID            int64      `db:"id" json:"id"`
	CodeSnippet   string     `db:"code_snippet" json:"code_snippet"`
	Language      string     `db:"language" json:"language"`
	QualityScore  float64    `db:"quality_score" json:"quality_score"`
	ReviewText    string     `db:"review_text" json:"review_text"`
	Suggestions   StringList `db:"suggestions" json:"suggestions"`
	PotentialBugs StringList `db:"potential_bugs" json:"potential_bugs"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// StructuredReview is the validated payload extracted from the LLM's reply.
// Strengths and Reasoning are returned by the model but not persisted.
type StructuredReview struct {
	QualityScore  float64  `json:"quality_score"`
	Summary       string   `json:"summary"`
	Suggestions   []string `json:"suggestions"`
	PotentialBugs []string `json:"potential_bugs"`
	Strengths     []string `json:"strengths"`
	Reasoning     string   `json:"reasoning"`
}

// StringList is a []string stored as a JSON text column.
type StringList []string

// Value implements driver.Valuer. A nil list is stored as an empty JSON array
// so scans never produce null.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}
