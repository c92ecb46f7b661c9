package sanitize

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"anoa.com/socialplatform/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text reduces user content to plain words for the search index. The result
// is never stored or rendered.
func Text(s string) string {
	cleaned := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// CheckContent rejects blank content and content longer than max runes.
// Content is stored as written.
func CheckContent(raw string, max int) error {
	if strings.TrimSpace(raw) == "" {
		return apperror.Invalid("content must not be blank")
	}
	if utf8.RuneCountInString(raw) > max {
		return apperror.Invalid(fmt.Sprintf("content must be at most %d characters", max))
	}
	return nil
}
