package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallpass-api/internal/middleware"
	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// queryDate returns a validated YYYY-MM-DD query param, defaulting to
// today when absent.
func queryDate(c *gin.Context, key string, now time.Time) (string, error) {
	raw := c.Query(key)
	if raw == "" {
		return now.Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, raw); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid date, want YYYY-MM-DD")
	}
	return raw, nil
}
