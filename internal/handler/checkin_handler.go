package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/internal/service"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
	"github.com/noah-isme/hallpass-api/pkg/response"
)

type checkInService interface {
	CheckIn(ctx context.Context, req service.CheckInRequest, now time.Time) (*service.CheckInResult, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	History(ctx context.Context, studentID string, days int, now time.Time) ([]models.AttendanceRecord, error)
}

// CheckInHandler exposes the arrival recording endpoints.
type CheckInHandler struct {
	service checkInService
}

// NewCheckInHandler constructs the handler.
func NewCheckInHandler(svc checkInService) *CheckInHandler {
	return &CheckInHandler{service: svc}
}

// Create godoc
// @Summary Record a check-in
// @Description Record a student's arrival for a period. Repeat submissions for the same student, date, and period return the original record.
// @Tags CheckIns
// @Accept json
// @Produce json
// @Param payload body service.CheckInRequest true "Check-in payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /checkins [post]
func (h *CheckInHandler) Create(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), req, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	response.JSON(c, status, result, nil)
}

// List godoc
// @Summary List check-ins
// @Tags CheckIns
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param studentId query string false "Student ID"
// @Param period query int false "Period number"
// @Success 200 {object} response.Envelope
// @Router /checkins [get]
func (h *CheckInHandler) List(c *gin.Context) {
	date, err := queryDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.AttendanceFilter{
		Date:      date,
		StudentID: c.Query("studentId"),
	}
	if period := parseQueryInt(c, "period", 0); period > 0 {
		filter.Period = &period
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// History godoc
// @Summary Student attendance history
// @Tags CheckIns
// @Produce json
// @Param id path string true "Student ID"
// @Param days query int false "Trailing window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/history [get]
func (h *CheckInHandler) History(c *gin.Context) {
	days := parseQueryInt(c, "days", 30)
	records, err := h.service.History(c.Request.Context(), c.Param("id"), days, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
