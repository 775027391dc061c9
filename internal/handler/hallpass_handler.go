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

type hallPassService interface {
	Request(ctx context.Context, req service.TripRequest, now time.Time) (*models.HallPassTrip, error)
	Complete(ctx context.Context, tripID string, now time.Time) (*models.HallPassTrip, error)
	Cancel(ctx context.Context, tripID string) (*models.HallPassTrip, error)
	Promote(ctx context.Context, date string, now time.Time) (*models.HallPassTrip, error)
	Active(ctx context.Context, date string) (*models.HallPassTrip, error)
	Queue(ctx context.Context, date string) ([]models.HallPassTrip, error)
	ListByDate(ctx context.Context, date string) ([]models.HallPassTrip, error)
	Cooldown(ctx context.Context, studentID string, now time.Time) (*models.CooldownStatus, error)
}

// HallPassHandler exposes the trip lifecycle endpoints.
type HallPassHandler struct {
	service hallPassService
}

// NewHallPassHandler constructs the handler.
func NewHallPassHandler(svc hallPassService) *HallPassHandler {
	return &HallPassHandler{service: svc}
}

// Request godoc
// @Summary Request a hall pass
// @Description Check a student out, or queue them when another student is already out.
// @Tags HallPass
// @Accept json
// @Produce json
// @Param payload body service.TripRequest true "Trip payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /hallpass/trips [post]
func (h *HallPassHandler) Request(c *gin.Context) {
	var req service.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trip payload"))
		return
	}

	trip, err := h.service.Request(c.Request.Context(), req, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trip)
}

// Complete godoc
// @Summary Complete a trip
// @Description Mark the trip returned and record its duration.
// @Tags HallPass
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hallpass/trips/{id}/complete [post]
func (h *HallPassHandler) Complete(c *gin.Context) {
	trip, err := h.service.Complete(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	if trip == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "trip not found"))
		return
	}
	response.JSON(c, http.StatusOK, trip, nil)
}

// Cancel godoc
// @Summary Cancel a trip
// @Tags HallPass
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hallpass/trips/{id}/cancel [post]
func (h *HallPassHandler) Cancel(c *gin.Context) {
	trip, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if trip == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "trip not found"))
		return
	}
	response.JSON(c, http.StatusOK, trip, nil)
}

// Promote godoc
// @Summary Promote the next queued trip
// @Description Move the head of the queue out. Fails while a trip is still active.
// @Tags HallPass
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /hallpass/promote [post]
func (h *HallPassHandler) Promote(c *gin.Context) {
	now := time.Now()
	date, err := queryDate(c, "date", now)
	if err != nil {
		response.Error(c, err)
		return
	}

	trip, err := h.service.Promote(c.Request.Context(), date, now)
	if err != nil {
		response.Error(c, err)
		return
	}
	if trip == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, trip, nil)
}

// Active godoc
// @Summary Currently active trip
// @Tags HallPass
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Success 204 {object} response.Envelope
// @Router /hallpass/active [get]
func (h *HallPassHandler) Active(c *gin.Context) {
	date, err := queryDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	trip, err := h.service.Active(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if trip == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, trip, nil)
}

// Queue godoc
// @Summary Queued trips
// @Tags HallPass
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /hallpass/queue [get]
func (h *HallPassHandler) Queue(c *gin.Context) {
	date, err := queryDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	queue, err := h.service.Queue(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, queue, nil)
}

// List godoc
// @Summary Trip log for a date
// @Tags HallPass
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /hallpass/trips [get]
func (h *HallPassHandler) List(c *gin.Context) {
	date, err := queryDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	trips, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trips, nil)
}

// Cooldown godoc
// @Summary Student cooldown status
// @Tags HallPass
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /hallpass/cooldown/{studentId} [get]
func (h *HallPassHandler) Cooldown(c *gin.Context) {
	status, err := h.service.Cooldown(c.Request.Context(), c.Param("studentId"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
