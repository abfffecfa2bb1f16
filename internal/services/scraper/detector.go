package scraper

import "regexp"

// urlPattern matches anything that looks like a web URL: optional http(s)
// scheme, optional www prefix, a domain with at least one dot, and any
// trailing path/query/fragment characters. Trailing punctuation captured
// by the pattern is treated as part of the URL, not trimmed.
var urlPattern = regexp.MustCompile(`(?i)(https?://)?(www\.)?[-a-z0-9@:%._~#=+]{1,256}\.[a-z0-9()]{1,6}\b[-a-z0-9()@:%_+.~#?&/=]*`)

// DetectURLs returns every URL-like substring in text, in order.
// Returns nil when no match exists.
func DetectURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// FirstURL returns the first URL-like substring in text, or "" when the
// text contains none.
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}
