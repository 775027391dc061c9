package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/service"
	"github.com/noah-isme/hallpass-api/pkg/response"
)

type scheduleService interface {
	DayTypes(ctx context.Context) []string
	DayType(ctx context.Context, now time.Time) string
	Clock(ctx context.Context, dayType string, period int, now time.Time) (*service.ClockView, error)
}

// ScheduleHandler exposes bell-schedule queries.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// DayTypes godoc
// @Summary List known day types
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/day-types [get]
func (h *ScheduleHandler) DayTypes(c *gin.Context) {
	ctx := c.Request.Context()
	response.JSON(c, http.StatusOK, gin.H{
		"day_types": h.service.DayTypes(ctx),
		"today":     h.service.DayType(ctx, time.Now()),
	}, nil)
}

// Clock godoc
// @Summary Clock view for a period
// @Description Period window, countdown to start, and hall-pass blackout state.
// @Tags Schedule
// @Produce json
// @Param dayType query string false "Day type, defaults to today's"
// @Param period query int false "Period number (default 1)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/clock [get]
func (h *ScheduleHandler) Clock(c *gin.Context) {
	period := parseQueryInt(c, "period", 1)
	view, err := h.service.Clock(c.Request.Context(), c.Query("dayType"), period, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
