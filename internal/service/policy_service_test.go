package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/pkg/config"
)

type mockSettingsRepo struct {
	settings map[string]string
}

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	if v, ok := m.settings[key]; ok {
		return &models.Setting{Key: key, Value: v}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	if m.settings == nil {
		m.settings = make(map[string]string)
	}
	m.settings[setting.Key] = setting.Value
	return nil
}

func (m *mockSettingsRepo) List(ctx context.Context) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(m.settings))
	for k, v := range m.settings {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func newTestPolicy(settings map[string]string) *PolicyService {
	return NewPolicyService(
		&mockSettingsRepo{settings: settings},
		config.ScheduleConfig{GraceMinutes: 2},
		config.HallPassConfig{CooldownMinutes: 20, BlackoutStartMinutes: 10, BlackoutEndMinutes: 10},
		zap.NewNop(),
	)
}

func TestPolicyDefaultsFromConfig(t *testing.T) {
	policy := newTestPolicy(nil)
	ctx := context.Background()

	assert.Equal(t, 2, policy.GraceMinutes(ctx))
	assert.Equal(t, 20, policy.CooldownMinutes(ctx))
	start, end := policy.BlackoutWindow(ctx)
	assert.Equal(t, 10, start)
	assert.Equal(t, 10, end)
	assert.False(t, policy.HallPassLocked(ctx))
	assert.Equal(t, "", policy.DayTypeOverride(ctx))
}

func TestPolicySettingsOverrideConfig(t *testing.T) {
	policy := newTestPolicy(map[string]string{
		models.SettingGraceMinutes:    "5",
		models.SettingCooldownMinutes: "30",
		models.SettingHallPassLocked:  "true",
		models.SettingDayTypeOverride: "early",
	})
	ctx := context.Background()

	assert.Equal(t, 5, policy.GraceMinutes(ctx))
	assert.Equal(t, 30, policy.CooldownMinutes(ctx))
	assert.True(t, policy.HallPassLocked(ctx))
	assert.Equal(t, "early", policy.DayTypeOverride(ctx))
}

func TestPolicyMalformedSettingFallsBack(t *testing.T) {
	policy := newTestPolicy(map[string]string{
		models.SettingGraceMinutes:   "not-a-number",
		models.SettingHallPassLocked: "sideways",
	})
	ctx := context.Background()

	assert.Equal(t, 2, policy.GraceMinutes(ctx))
	assert.False(t, policy.HallPassLocked(ctx))
}
