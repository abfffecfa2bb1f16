package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/sitechat/internal/common"
	"github.com/ternarybob/sitechat/internal/models"
)

// nonContentSelector lists elements stripped before any text extraction
const nonContentSelector = "script, style, noscript, iframe, img, video, audio, form, button"

// contentSelector is the class/id heuristic for main-content regions
const contentSelector = ".content, #content, [class*=content]"

var whitespacePattern = regexp.MustCompile(`\s+`)

// Extractor fetches a URL and reduces its HTML to a cleaned ScrapedContent.
// A single attempt is made per call; any fetch or parse failure yields a
// degraded record rather than an error.
type Extractor struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   *Cache
	config  common.ScraperConfig
	logger  arbor.ILogger
}

// NewExtractor creates an extractor that writes successful results to cache
func NewExtractor(config common.ScraperConfig, client *http.Client, cache *Cache, logger arbor.ILogger) *Extractor {
	// Records above the model budget never validate, so a larger
	// configured value would silently disable caching
	if config.MaxContent > models.MaxContentLength {
		logger.Warn().
			Int("configured", config.MaxContent).
			Int("limit", models.MaxContentLength).
			Msg("max_content_chars exceeds the record limit, clamping")
		config.MaxContent = models.MaxContentLength
	}

	return &Extractor{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		cache:   cache,
		config:  config,
		logger:  logger,
	}
}

// Extract fetches targetURL and returns its extracted content. On success
// the record is written to cache; on failure a degraded record is returned
// and nothing is cached.
func (e *Extractor) Extract(ctx context.Context, targetURL string) *models.ScrapedContent {
	doc, err := e.fetch(ctx, targetURL)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", targetURL).Msg("Scrape failed")
		return models.NewDegradedContent(targetURL)
	}

	content := e.extract(doc, targetURL)

	e.cache.Put(ctx, targetURL, content)

	e.logger.Info().
		Str("url", targetURL).
		Str("title", content.Title).
		Int("content_chars", len(content.Content)).
		Msg("Scraped content")

	return content
}

// fetch performs a single GET and parses the response body
func (e *Extractor) fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, e.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// extract reduces a parsed document to a ScrapedContent record
func (e *Extractor) extract(doc *goquery.Document, targetURL string) *models.ScrapedContent {
	// Strip non-content elements before any text extraction
	doc.Find(nonContentSelector).Remove()

	title := cleanText(doc.Find("title").First().Text())
	metaDescription := cleanText(doc.Find("meta[name=description]").AttrOr("content", ""))
	h1 := cleanText(joinTexts(doc, "h1"))
	h2 := cleanText(joinTexts(doc, "h2"))

	// Candidate regions concatenated in fixed order, then cleaned and
	// truncated to the content character budget
	parts := []string{
		title,
		metaDescription,
		h1,
		h2,
		joinTexts(doc, "article"),
		joinTexts(doc, "main"),
		joinTexts(doc, contentSelector),
		joinTexts(doc, "p"),
		joinTexts(doc, "li"),
	}
	content := truncate(cleanText(strings.Join(parts, " ")), e.config.MaxContent)

	record := &models.ScrapedContent{
		URL:             targetURL,
		Title:           title,
		Headings:        models.Headings{H1: h1, H2: h2},
		MetaDescription: metaDescription,
		Content:         content,
	}
	record.StampCreatedAt()

	return record
}

// joinTexts collects the text of every element matching selector,
// space-joined in document order
func joinTexts(doc *goquery.Document, selector string) string {
	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// cleanText collapses whitespace runs (including newlines) to single
// spaces and trims the result. Cleaning is idempotent.
func cleanText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// truncate bounds text to max characters
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
