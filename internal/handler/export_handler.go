package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/pkg/response"
)

type exportService interface {
	AttendanceCSV(ctx context.Context, filter models.AttendanceFilter) ([]byte, error)
	AttendancePDF(ctx context.Context, filter models.AttendanceFilter, now time.Time) ([]byte, error)
}

// ExportHandler serves attendance downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

func (h *ExportHandler) filter(c *gin.Context) (models.AttendanceFilter, error) {
	date, err := queryDate(c, "date", time.Now())
	if err != nil {
		return models.AttendanceFilter{}, err
	}
	return models.AttendanceFilter{Date: date, StudentID: c.Query("studentId")}, nil
}

// AttendanceCSV godoc
// @Summary Export attendance as CSV
// @Tags Exports
// @Produce text/csv
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param studentId query string false "Student ID"
// @Success 200 {file} file
// @Router /exports/attendance.csv [get]
func (h *ExportHandler) AttendanceCSV(c *gin.Context) {
	filter, err := h.filter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.service.AttendanceCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.csv", filter.Date))
	c.Data(200, "text/csv", out)
}

// AttendancePDF godoc
// @Summary Export attendance as PDF
// @Tags Exports
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param studentId query string false "Student ID"
// @Success 200 {file} file
// @Router /exports/attendance.pdf [get]
func (h *ExportHandler) AttendancePDF(c *gin.Context) {
	filter, err := h.filter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.service.AttendancePDF(c.Request.Context(), filter, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.pdf", filter.Date))
	c.Data(200, "application/pdf", out)
}
