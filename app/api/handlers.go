package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/willfx/sitegeist/app/cfg"
	"github.com/willfx/sitegeist/app/database"
	"github.com/willfx/sitegeist/app/source"
	"github.com/willfx/sitegeist/app/subjects"
)

func NewHandler(service *subjects.Service, postRepo database.PostRepository,
	subjectRepo database.SubjectRepository, summaryRepo database.SummaryRepository,
	fence source.Geofence) *Handler {
	cfg := cfg.Get()

	return &Handler{
		service:     service,
		postRepo:    postRepo,
		subjectRepo: subjectRepo,
		summaryRepo: summaryRepo,
		fence:       fence,
		trendHours:  cfg.TrendHours,
		version:     cfg.Version,
	}
}

// GetAll is the dashboard endpoint: the day's highest and lowest sentiment
// subjects plus the most mentioned ones, in one response.
func (h *Handler) GetAll(c *gin.Context) {
	subjectType, err := subjects.ParseType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()

	top, err := h.service.Top(now, 10, database.Descending, subjectType)
	if err != nil {
		h.serverError(c, "get_all_top", err)
		return
	}
	bottom, err := h.service.Top(now, 10, database.Ascending, subjectType)
	if err != nil {
		h.serverError(c, "get_all_bottom", err)
		return
	}
	hot, err := h.service.Hot(now, 10, database.Descending, subjectType)
	if err != nil {
		h.serverError(c, "get_all_hot", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top10":    top,
		"bottom10": bottom,
		"hot10":    hot,
	})
}

func (h *Handler) GetTop(c *gin.Context) {
	subjectType, dir, n, ok := h.listParams(c)
	if !ok {
		return
	}

	reports, err := h.service.Top(time.Now(), n, dir, subjectType)
	if err != nil {
		h.serverError(c, "get_top", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": reports})
}

func (h *Handler) GetHot(c *gin.Context) {
	subjectType, dir, n, ok := h.listParams(c)
	if !ok {
		return
	}

	reports, err := h.service.Hot(time.Now(), n, dir, subjectType)
	if err != nil {
		h.serverError(c, "get_hot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": reports})
}

func (h *Handler) GetTrend(c *gin.Context) {
	subjectType, dir, n, ok := h.listParams(c)
	if !ok {
		return
	}
	hours := intQuery(c, "hours", h.trendHours)

	reports, err := h.service.Trend(time.Now(), n, dir, subjectType, hours)
	if err != nil {
		h.serverError(c, "get_trend", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": reports})
}

func (h *Handler) GetSummaries(c *gin.Context) {
	dir := subjects.ParseDirection(c.Query("dir"))
	days := intQuery(c, "days", 7)
	limit := intQuery(c, "limit", 0)
	minOccurrences := intQuery(c, "min", 1)

	summaries, err := h.service.Summaries(time.Now(), days, limit, dir, minOccurrences)
	if err != nil {
		h.serverError(c, "get_summaries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": summaries})
}

// GetLoc reports the geofence corners the instance is watching, for the map
// front end.
func (h *Handler) GetLoc(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loc": h.fence.Corners()})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if postCount, err := h.postRepo.Count(); err == nil {
		health["posts"] = postCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"version": h.version,
	}

	if postCount, err := h.postRepo.Count(); err == nil {
		stats["posts"] = postCount
	}
	if subjectCount, err := h.subjectRepo.Count(); err == nil {
		stats["subjects"] = subjectCount
	}
	if summaryCount, err := h.summaryRepo.Count(); err == nil {
		stats["archived_summaries"] = summaryCount
	}

	c.JSON(http.StatusOK, stats)
}

// listParams parses the query parameters shared by the subject list
// endpoints. Returns false after writing the error response.
func (h *Handler) listParams(c *gin.Context) (database.SubjectType, database.SortDirection, int, bool) {
	subjectType, err := subjects.ParseType(c.Query("type"))
	if err != nil {
		if errors.Is(err, subjects.ErrBadSubjectType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.serverError(c, "parse_type", err)
		}
		return 0, "", 0, false
	}

	dir := subjects.ParseDirection(c.Query("dir"))
	n := intQuery(c, "n", 10)

	return subjectType, dir, n, true
}

func (h *Handler) serverError(c *gin.Context, operation string, err error) {
	slog.Error("Database error", "operation", operation, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
