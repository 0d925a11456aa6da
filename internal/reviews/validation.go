package reviews

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/code-critic/internal/core"
)

// validateSubmission checks a raw submission and returns the normalized
// language. Code is checked first, then language, so error messages are
// deterministic. No outbound call happens before this passes.
func validateSubmission(code, language string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", &core.ValidationError{Field: "code", Reason: "code snippet cannot be empty"}
	}
	length := utf8.RuneCountInString(code)
	if length < core.MinCodeLength {
		return "", &core.ValidationError{
			Field:  "code",
			Reason: fmt.Sprintf("code snippet too short (min %d characters)", core.MinCodeLength),
		}
	}
	if length > core.MaxCodeLength {
		return "", &core.ValidationError{
			Field:  "code",
			Reason: fmt.Sprintf("code snippet too long (max %d characters)", core.MaxCodeLength),
		}
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "", &core.ValidationError{Field: "language", Reason: "programming language is required"}
	}
	if !core.IsSupportedLanguage(lang) {
		return "", &core.ValidationError{
			Field:  "language",
			Reason: fmt.Sprintf("unsupported language %q (supported: %s)", lang, strings.Join(core.SupportedLanguages, ", ")),
		}
	}
	return lang, nil
}
