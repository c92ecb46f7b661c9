package sanitize

import (
	"strings"
	"testing"

	"anoa.com/socialplatform/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"trims", "  hello world \n", "hello world"},
		{"script removed", "<script>alert(1)</script>nice!", "nice!"},
		{"tags stripped", "<b>bold</b> move", "bold move"},
		{"entities kept readable", "fish & chips", "fish & chips"},
		{"only markup", "<p></p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestCheckContent(t *testing.T) {
	assert.NoError(t, CheckContent("  use Vec<T> and Map<K, V>  ", 40))
	assert.NoError(t, CheckContent("<p></p>", 10))

	err := CheckContent("   \n\t", 10)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.EqualError(t, err, "content must not be blank")

	err = CheckContent(strings.Repeat("a", 11), 10)
	assert.EqualError(t, err, "content must be at most 10 characters")

	assert.NoError(t, CheckContent(strings.Repeat("é", 10), 10))
}
