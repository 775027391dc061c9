package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/pkg/response"
)

type streakService interface {
	Get(ctx context.Context, studentID string) (*models.Streak, error)
}

// StreakHandler exposes streak lookups.
type StreakHandler struct {
	service streakService
}

// NewStreakHandler constructs the handler.
func NewStreakHandler(svc streakService) *StreakHandler {
	return &StreakHandler{service: svc}
}

// Get godoc
// @Summary Student streak
// @Tags Streaks
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/streak [get]
func (h *StreakHandler) Get(c *gin.Context) {
	streak, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, streak, nil)
}
