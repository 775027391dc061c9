package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/internal/service"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type fakeHallPassSrv struct {
	trip     *models.HallPassTrip
	err      error
	cooldown *models.CooldownStatus
}

func (f *fakeHallPassSrv) Request(context.Context, service.TripRequest, time.Time) (*models.HallPassTrip, error) {
	return f.trip, f.err
}

func (f *fakeHallPassSrv) Complete(context.Context, string, time.Time) (*models.HallPassTrip, error) {
	return f.trip, f.err
}

func (f *fakeHallPassSrv) Cancel(context.Context, string) (*models.HallPassTrip, error) {
	return f.trip, f.err
}

func (f *fakeHallPassSrv) Promote(context.Context, string, time.Time) (*models.HallPassTrip, error) {
	return f.trip, f.err
}

func (f *fakeHallPassSrv) Active(context.Context, string) (*models.HallPassTrip, error) {
	return f.trip, f.err
}

func (f *fakeHallPassSrv) Queue(context.Context, string) ([]models.HallPassTrip, error) {
	return nil, f.err
}

func (f *fakeHallPassSrv) ListByDate(context.Context, string) ([]models.HallPassTrip, error) {
	return nil, f.err
}

func (f *fakeHallPassSrv) Cooldown(context.Context, string, time.Time) (*models.CooldownStatus, error) {
	return f.cooldown, f.err
}

func TestHallPassHandlerRequestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHallPassHandler(&fakeHallPassSrv{
		trip: &models.HallPassTrip{ID: "trip-1", Status: models.TripStatusOut},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/hallpass/trips",
		strings.NewReader(`{"student_id":"stu-1","reason":"washroom","committed_minutes":5,"period":1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Request(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHallPassHandlerBlackoutConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHallPassHandler(&fakeHallPassSrv{err: appErrors.ErrPassBlackout})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/hallpass/trips",
		strings.NewReader(`{"student_id":"stu-1","reason":"washroom","committed_minutes":5,"period":1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Request(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHallPassHandlerActiveEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHallPassHandler(&fakeHallPassSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/hallpass/active", nil)

	handler.Active(c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHallPassHandlerCompleteUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHallPassHandler(&fakeHallPassSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/hallpass/trips/missing/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Complete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
