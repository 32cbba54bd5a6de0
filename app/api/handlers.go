package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
	"github.com/lysyi3m/wire-comb/app/tasks"
)

func NewHandler(recordRepo database.RecordRepository, settingsRepo database.SettingsRepository,
	counter *feed.Counter, badge *notify.BadgePublisher,
	scheduler tasks.TaskSchedulerInterface, wireConfig *feed.Config) *Handler {
	return &Handler{
		recordRepo:   recordRepo,
		settingsRepo: settingsRepo,
		counter:      counter,
		badge:        badge,
		scheduler:    scheduler,
		wireConfig:   wireConfig,
	}
}

// GetRecords serves one filtered view of the stored set, most recent first.
func (h *Handler) GetRecords(c *gin.Context) {
	filter := c.DefaultQuery("filter", database.FilterAll)

	limit := h.wireConfig.Settings.MaxItems
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	settings, err := h.settingsRepo.GetSettings()
	if err != nil {
		slog.Error("Database error", "operation", "get_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	records, err := h.recordRepo.GetRecords(filter, settings.HotThreshold, limit)
	if err != nil {
		if filter != database.FilterAll && filter != database.FilterUnread &&
			filter != database.FilterImportant && filter != database.FilterHot {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter, expected all|unread|important|hot"})
			return
		}
		slog.Error("Database error", "operation", "get_records", "filter", filter, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// The stored order prefers the derived timestamp; the canonical order
	// prefers the original time label.
	feed.SortByEffectiveTime(records, time.Now())

	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"records": out,
		"total":   len(out),
		"filter":  filter,
	})
}

// GetCounts serves the latest badge state, computing it on first use.
func (h *Handler) GetCounts(c *gin.Context) {
	state := h.badge.Get()
	if state.UpdatedAt.IsZero() {
		var ok bool
		state, ok = h.refreshCounts(c)
		if !ok {
			return
		}
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"wire":      h.wireConfig.Name,
	}

	if count, err := h.recordRepo.GetRecordCount(); err == nil {
		health["records"] = count
	}

	if lastCycleAt, err := h.settingsRepo.GetLastCycleAt(); err == nil && lastCycleAt != nil {
		health["last_cycle_at"] = lastCycleAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

// APIMarkRead marks a single record read and returns the refreshed counts.
func (h *Handler) APIMarkRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing record id parameter"})
		return
	}

	found, err := h.recordRepo.MarkRead(id)
	if err != nil {
		slog.Error("Database error", "operation", "mark_read", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	state, ok := h.refreshCounts(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "read": true, "counts": state.Counts, "badge": state.Badge})
}

// APIMarkAllRead marks every stored record read.
func (h *Handler) APIMarkAllRead(c *gin.Context) {
	affected, err := h.recordRepo.MarkAllRead()
	if err != nil {
		slog.Error("Database error", "operation", "mark_all_read", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	state, ok := h.refreshCounts(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": affected, "counts": state.Counts, "badge": state.Badge})
}

// APIRefresh triggers an out-of-band ingestion cycle.
func (h *Handler) APIRefresh(c *gin.Context) {
	if err := h.scheduler.TriggerProcess(); err != nil {
		slog.Error("Failed to trigger ingestion cycle", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue ingestion cycle"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Ingestion cycle queued",
		"wire":    h.wireConfig.Name,
	})
}

// APIPurge triggers a retention eviction pass.
func (h *Handler) APIPurge(c *gin.Context) {
	if err := h.scheduler.TriggerPurge(); err != nil {
		slog.Error("Failed to trigger purge", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue purge"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Purge queued"})
}

func (h *Handler) APIGetSettings(c *gin.Context) {
	settings, err := h.settingsRepo.GetSettings()
	if err != nil {
		slog.Error("Database error", "operation", "get_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *Handler) APIUpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	settings, err := h.settingsRepo.GetSettings()
	if err != nil {
		slog.Error("Database error", "operation", "get_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req.HotThreshold != nil {
		if *req.HotThreshold < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hot_threshold must not be negative"})
			return
		}
		settings.HotThreshold = *req.HotThreshold
	}
	if req.BadgeMode != nil {
		switch *req.BadgeMode {
		case feed.BadgeModeTotal, feed.BadgeModeUnread, feed.BadgeModeImportant, feed.BadgeModeHot:
			settings.BadgeMode = *req.BadgeMode
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "badge_mode must be one of total|unread|important|hot"})
			return
		}
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.RetentionHours != nil {
		if *req.RetentionHours <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "retention_hours must be positive"})
			return
		}
		settings.RetentionHours = *req.RetentionHours
	}

	if err := h.settingsRepo.UpdateSettings(settings); err != nil {
		slog.Error("Database error", "operation", "update_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Threshold or mode changes shift the counts immediately.
	if _, ok := h.refreshCounts(c); !ok {
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// refreshCounts recomputes the aggregate counts from storage and publishes
// them as the new badge state. On failure it writes the error response and
// returns false.
func (h *Handler) refreshCounts(c *gin.Context) (notify.BadgeState, bool) {
	records, err := h.recordRepo.GetAllRecords()
	if err != nil {
		slog.Error("Database error", "operation", "get_records", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return notify.BadgeState{}, false
	}

	settings, err := h.settingsRepo.GetSettings()
	if err != nil {
		slog.Error("Database error", "operation", "get_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return notify.BadgeState{}, false
	}

	lastCycleAt, err := h.settingsRepo.GetLastCycleAt()
	if err != nil {
		slog.Error("Database error", "operation", "get_wire_state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return notify.BadgeState{}, false
	}

	now := time.Now()
	cutoff := now.Add(-time.Duration(settings.RetentionHours) * time.Hour)
	counts := h.counter.Run(records, cutoff, settings.HotThreshold)
	h.badge.Publish(counts, settings.BadgeMode, lastCycleAt)

	return h.badge.Get(), true
}
