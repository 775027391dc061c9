package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/pkg/response"
)

type statsService interface {
	AttendanceStats(ctx context.Context, days int, now time.Time) (*models.AttendanceStats, error)
}

// StatsHandler exposes attendance aggregates.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(svc statsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Attendance godoc
// @Summary Attendance stats
// @Description On-time rates over a trailing window of days.
// @Tags Stats
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /stats/attendance [get]
func (h *StatsHandler) Attendance(c *gin.Context) {
	days := parseQueryInt(c, "days", 30)
	stats, err := h.service.AttendanceStats(c.Request.Context(), days, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
