package models

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxContentLength is the character budget for cleaned page content
const MaxContentLength = 50000

// ScrapeErrorMessage is the fixed error string stamped on degraded records
const ScrapeErrorMessage = "Failed to scrape content"

// Headings holds the space-joined heading texts of a page
type Headings struct {
	H1 string `json:"h1"`
	H2 string `json:"h2"`
}

// ScrapedContent is the extracted, cleaned representation of a web page.
// Records are immutable after creation except for the CreatedAt restamp
// performed by the cache at write time.
type ScrapedContent struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Headings        Headings `json:"headings"`
	MetaDescription string   `json:"metaDescription"`
	Content         string   `json:"content"`
	Error           string   `json:"error,omitempty"`
	CreatedAt       int64    `json:"createdAt"` // milliseconds since epoch
}

// NewDegradedContent returns the record shape used when extraction fails:
// empty content fields, the fixed error message, and no cache write.
func NewDegradedContent(url string) *ScrapedContent {
	return &ScrapedContent{
		URL:       url,
		Error:     ScrapeErrorMessage,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// Succeeded reports whether the record carries real content
func (c *ScrapedContent) Succeeded() bool {
	return c.Error == ""
}

// StampCreatedAt sets CreatedAt to the current time in milliseconds.
// The cache calls this at write time so cached age reflects cache-write
// time, not extraction time.
func (c *ScrapedContent) StampCreatedAt() {
	c.CreatedAt = time.Now().UnixMilli()
}

// Validate checks that the record qualifies as a cacheable ScrapedContent.
// Field types are enforced by the typed decode; this validates the values.
func (c *ScrapedContent) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("scraped content missing url")
	}
	if utf8.RuneCountInString(c.Content) > MaxContentLength {
		return fmt.Errorf("scraped content exceeds %d characters", MaxContentLength)
	}
	if c.CreatedAt < 0 {
		return fmt.Errorf("scraped content has negative createdAt")
	}
	return nil
}

// requiredFields lists the keys every serialized record must carry.
// The error field is the only optional one.
var requiredFields = []string{"url", "title", "headings", "metaDescription", "content", "createdAt"}

// DecodeScrapedContent parses a JSON-encoded record and validates it.
// A missing required field or a type mismatch in any field fails the
// decode, so callers always get either a typed, valid record or an
// error, never a partial value.
func DecodeScrapedContent(data []byte) (*ScrapedContent, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode scraped content: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("scraped content missing field %q", field)
		}
	}

	var content ScrapedContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to decode scraped content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return &content, nil
}
