package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectURLs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "full https URL",
			text:     "check out https://example.com/page for details",
			expected: []string{"https://example.com/page"},
		},
		{
			name:     "http URL",
			text:     "see http://example.com",
			expected: []string{"http://example.com"},
		},
		{
			name:     "bare domain without scheme",
			text:     "look at example.com please",
			expected: []string{"example.com"},
		},
		{
			name:     "www prefix without scheme",
			text:     "www.example.com has it",
			expected: []string{"www.example.com"},
		},
		{
			name:     "URL with query and fragment",
			text:     "https://example.com/search?q=go&page=2#results",
			expected: []string{"https://example.com/search?q=go&page=2#results"},
		},
		{
			name:     "multiple URLs in order",
			text:     "first https://a.com then https://b.org/x",
			expected: []string{"https://a.com", "https://b.org/x"},
		},
		{
			name:     "uppercase scheme",
			text:     "HTTPS://EXAMPLE.COM/PATH",
			expected: []string{"HTTPS://EXAMPLE.COM/PATH"},
		},
		{
			name:     "no URL",
			text:     "just a plain sentence with no links",
			expected: nil,
		},
		{
			name:     "empty string",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectURLs(tt.text))
		})
	}
}

func TestFirstURL(t *testing.T) {
	t.Run("returns first of several", func(t *testing.T) {
		got := FirstURL("compare https://a.com with https://b.com")
		assert.Equal(t, "https://a.com", got)
	})

	t.Run("empty when no URL present", func(t *testing.T) {
		assert.Equal(t, "", FirstURL("nothing to see here"))
	})

	t.Run("finds URL embedded mid-sentence", func(t *testing.T) {
		got := FirstURL("what does example.org/about say about them?")
		assert.Equal(t, "example.org/about", got)
	})
}
