package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/services/scraper"
)

// ScrapeHandler exposes page scraping directly, bypassing chat
type ScrapeHandler struct {
	scrapeService interfaces.ScrapeService
	logger        arbor.ILogger
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(scrapeService interfaces.ScrapeService, logger arbor.ILogger) *ScrapeHandler {
	return &ScrapeHandler{
		scrapeService: scrapeService,
		logger:        logger,
	}
}

type scrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeHandler handles POST /api/scrape requests. The URL may be given
// bare or embedded in surrounding text.
func (h *ScrapeHandler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode scrape request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetURL := scraper.FirstURL(req.URL)
	if targetURL == "" {
		WriteError(w, http.StatusBadRequest, "No URL found in request")
		return
	}

	content, cacheHit := h.scrapeService.Scrape(r.Context(), targetURL)

	h.logger.Info().
		Str("url", targetURL).
		Bool("cache_hit", cacheHit).
		Bool("succeeded", content.Succeeded()).
		Msg("Scrape request processed")

	status := http.StatusOK
	if !content.Succeeded() {
		status = http.StatusBadGateway
	}

	WriteJSON(w, status, map[string]interface{}{
		"success":   content.Succeeded(),
		"cache_hit": cacheHit,
		"content":   content,
	})
}
