package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
	"github.com/axellelanca/linkshortener/internal/models"
	"github.com/axellelanca/linkshortener/internal/services"
)

type handler struct {
	linkService *services.LinkService
	baseURL     string
	logger      logrus.FieldLogger
}

// SetupRoutes configures all Gin API routes and injects necessary dependencies
func SetupRoutes(router *gin.Engine, linkService *services.LinkService, baseURL string, logger logrus.FieldLogger) {
	h := &handler{
		linkService: linkService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		logger:      logger.WithField("component", "api"),
	}

	router.GET("/health", HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/links", h.CreateShortLinkHandler)
		api.GET("/links/:hash", h.GetLinkHandler)
	}

	// Redirection Route, e.g. localhost:8080/Ab3x9
	router.GET("/:hash", h.RedirectHandler)
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateLinkRequest accepts a single URL or a batch:
// Single: {"long_url": "https://example.com"}
// Multiple: {"long_urls": ["https://example.com", "https://google.com"]}
type CreateLinkRequest struct {
	LongURL  string   `json:"long_url" binding:"omitempty,url"`
	LongURLs []string `json:"long_urls" binding:"omitempty,dive,url"`
}

type LinkResponse struct {
	Hash     string `json:"hash"`
	LongURL  string `json:"long_url"`
	ShortURL string `json:"short_url"`
	Clicks   *int64 `json:"clicks,omitempty"`
}

type BatchResult struct {
	LinkResponse
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type CreateLinksResponse struct {
	Results []BatchResult `json:"results"`
	Summary struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	} `json:"summary"`
}

func (h *handler) CreateShortLinkHandler(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var urls []string
	if req.LongURL != "" {
		urls = append(urls, req.LongURL)
	}
	urls = append(urls, req.LongURLs...)

	switch len(urls) {
	case 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either 'long_url' or 'long_urls' must be provided"})
	case 1:
		h.handleSingleURL(c, urls[0])
	default:
		h.handleMultipleURLs(c, urls)
	}
}

func (h *handler) handleSingleURL(c *gin.Context, longURL string) {
	link, err := h.linkService.Shorten(c.Request.Context(), longURL)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.response(link, false))
}

// handleMultipleURLs lets some URLs succeed even if others fail
func (h *handler) handleMultipleURLs(c *gin.Context, urls []string) {
	var resp CreateLinksResponse
	for _, longURL := range urls {
		result := BatchResult{LinkResponse: LinkResponse{LongURL: longURL}}

		link, err := h.linkService.Shorten(c.Request.Context(), longURL)
		if err != nil {
			_, result.Error = statusFor(err)
			resp.Summary.Failed++
		} else {
			result.LinkResponse = h.response(link, false)
			result.Success = true
			resp.Summary.Successful++
		}
		resp.Results = append(resp.Results, result)
	}
	resp.Summary.Total = len(urls)

	var statusCode int
	switch {
	case resp.Summary.Failed == 0:
		statusCode = http.StatusCreated
	case resp.Summary.Successful == 0:
		statusCode = http.StatusServiceUnavailable
	default:
		statusCode = http.StatusMultiStatus
	}
	c.JSON(statusCode, resp)
}

// GetLinkHandler returns the record and its click count without counting a click
func (h *handler) GetLinkHandler(c *gin.Context) {
	link, err := h.linkService.Resolve(c.Request.Context(), c.Param("hash"), false)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(link, true))
}

// RedirectHandler sends the client to the long URL and counts the click
// in the background.
func (h *handler) RedirectHandler(c *gin.Context) {
	link, err := h.linkService.Resolve(c.Request.Context(), c.Param("hash"), true)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.Redirect(http.StatusFound, link.LongURL)
}

func (h *handler) response(link *models.Link, withClicks bool) LinkResponse {
	resp := LinkResponse{
		Hash:     link.Hash,
		LongURL:  link.LongURL,
		ShortURL: h.baseURL + "/" + link.Hash,
	}
	if withClicks {
		clicks := link.Clicks
		resp.Clicks = &clicks
	}
	return resp
}

func (h *handler) abort(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, customerrors.ErrNotFound):
		return http.StatusNotFound, "Short URL not found"
	case errors.Is(err, customerrors.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL"
	case errors.Is(err, customerrors.ErrTransactionFailed):
		return http.StatusServiceUnavailable, "Failed to save short link, please retry"
	case errors.Is(err, customerrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Store unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
